package controllers

import (
	"log/slog"
	"net/http"

	"eventful/internal/delivery/http/helpers"
	"eventful/internal/domain"
)

type NotificationController struct {
	Logger        *slog.Logger
	Notifications domain.NotificationRepository
}

func NewNotificationController(logger *slog.Logger, notifications domain.NotificationRepository) *NotificationController {
	return &NotificationController{Logger: logger, Notifications: notifications}
}

// List godoc
// @Summary List reminder notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status: scheduled or sent"
// @Success 200 {object} helpers.APIResponse
// @Router /notifications [get]
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	var (
		items []*domain.Notification
		err   error
	)
	switch status := r.URL.Query().Get("status"); status {
	case "":
		items, err = c.Notifications.List(r.Context())
	case string(domain.NotificationScheduled), string(domain.NotificationSent):
		items, err = c.Notifications.ListByStatus(r.Context(), domain.NotificationStatus(status))
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "status must be scheduled or sent")
		return
	}
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}
