package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventful/internal/delivery/http/helpers"
	"eventful/internal/delivery/http/middleware"
	"eventful/internal/domain"
)

type EventController struct {
	Logger       *slog.Logger
	Events       domain.EventService
	Registration domain.RegistrationService
	Tickets      domain.TicketService
}

func NewEventController(logger *slog.Logger, events domain.EventService, registration domain.RegistrationService, tickets domain.TicketService) *EventController {
	return &EventController{
		Logger:       logger,
		Events:       events,
		Registration: registration,
		Tickets:      tickets,
	}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	Location    string     `json:"location"`
	CategoryID  string     `json:"category_id"`
	ReminderAt  *time.Time `json:"reminder_at"`
}

// Validate implements helpers.Validator.
func (r *CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(r.Date) == "" {
		errs = append(errs, "date is required")
	}
	if strings.TrimSpace(r.Time) == "" {
		errs = append(errs, "time is required")
	}
	return errs
}

// Create godoc
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateEventRequest true "Event details"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Events.Create(r.Context(), userID, domain.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		CategoryID:  req.CategoryID,
		ReminderAt:  req.ReminderAt,
	})
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// List godoc
// @Summary List events
// @Description Filters by a case-insensitive title substring and sorts by an allow-listed field (title, date, organizer).
// @Tags events
// @Produce json
// @Param title query string false "Title substring filter"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field: title, date, organizer"
// @Param order query string false "asc or desc"
// @Success 200 {object} helpers.APIResponse
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.EventFilter{
		Title: strings.TrimSpace(r.URL.Query().Get("title")),
		Page:  helpers.ParsePagination(r),
	}
	if s := r.URL.Query().Get("sort"); s != "" {
		field, ok := domain.ParseSortField(s)
		if !ok {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "sort must be one of: title, date, organizer")
			return
		}
		filter.SortBy = field
	}
	filter.SortDesc = strings.EqualFold(r.URL.Query().Get("order"), "desc")

	page, err := c.Events.FindAll(r.Context(), filter)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, page)
}

// Get godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	event, err := c.Events.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEventRequest is the request body for PATCH /events/{id}.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Date        *string    `json:"date"`
	Time        *string    `json:"time"`
	Location    *string    `json:"location"`
	CategoryID  *string    `json:"category_id"`
	ReminderAt  *time.Time `json:"reminder_at"`
}

// Update godoc
// @Summary Update an event (creator only)
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param body body controllers.UpdateEventRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Events.Update(r.Context(), userID, id, domain.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		CategoryID:  req.CategoryID,
		ReminderAt:  req.ReminderAt,
	})
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event (creator only)
// @Tags events
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Events.Delete(r.Context(), userID, id); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Attend godoc
// @Summary Register to attend an event
// @Description Runs the registration workflow: validates event state, mints a ticket, emails it, and schedules a reminder.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "Ticket"
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_state"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id}/attend [post]
func (c *EventController) Attend(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	ticket, err := c.Registration.Register(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}

// ListTickets godoc
// @Summary List all tickets for an event (creator only)
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Router /events/{id}/tickets [get]
func (c *EventController) ListTickets(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	tickets, err := c.Tickets.ListByEvent(r.Context(), id)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tickets)
}
