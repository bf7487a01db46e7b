package controllers

import (
	"log/slog"
	"net/http"

	"eventful/internal/delivery/http/helpers"
	"eventful/internal/delivery/http/middleware"
	"eventful/internal/domain"
)

type UserController struct {
	Logger *slog.Logger
	Users  domain.UserService
}

func NewUserController(logger *slog.Logger, users domain.UserService) *UserController {
	return &UserController{Logger: logger, Users: users}
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse
// @Router /users/me [get]
func (c *UserController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Users.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// RegisteredEvents godoc
// @Summary List events the authenticated user is registered for
// @Description Events deleted since registration are omitted from the result.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse
// @Router /users/me/events [get]
func (c *UserController) RegisteredEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Users.ListRegisteredEvents(r.Context(), userID)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}
