package domain

import "context"

// RegistrationService is the "attend event" workflow: it validates event
// state, enforces attendance uniqueness, mints a ticket, updates the
// denormalized membership lists, dispatches the ticket email, and schedules
// the reminder notification.
type RegistrationService interface {
	Register(ctx context.Context, userID, eventID string) (*Ticket, error)
}
