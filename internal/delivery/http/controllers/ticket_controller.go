package controllers

import (
	"log/slog"
	"net/http"

	"eventful/internal/delivery/http/helpers"
	"eventful/internal/delivery/http/middleware"
	"eventful/internal/domain"
)

type TicketController struct {
	Logger  *slog.Logger
	Tickets domain.TicketService
}

func NewTicketController(logger *slog.Logger, tickets domain.TicketService) *TicketController {
	return &TicketController{Logger: logger, Tickets: tickets}
}

// Verify godoc
// @Summary Verify a ticket without changing its state
// @Tags tickets
// @Produce json
// @Param id path string true "Ticket ID (UUID)"
// @Success 200 {object} helpers.APIResponse "{\"valid\": bool}"
// @Router /tickets/{id}/verify [get]
func (c *TicketController) Verify(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid ticket id")
		return
	}
	valid, err := c.Tickets.Verify(r.Context(), id)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"valid": valid})
}

// Scan godoc
// @Summary Scan a ticket at the door (event creator only)
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_state"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /tickets/{id}/scan [post]
func (c *TicketController) Scan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid ticket id")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	ticket, err := c.Tickets.Scan(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}

// Cancel godoc
// @Summary Cancel a ticket (event creator or ticket holder)
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_state"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /tickets/{id}/cancel [post]
func (c *TicketController) Cancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid ticket id")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	ticket, err := c.Tickets.Cancel(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}
