package domain

import (
	"context"
	"errors"
	"time"
)

// TicketStatus is the lifecycle status of a ticket.
type TicketStatus string

const (
	TicketPurchased TicketStatus = "purchased"
	TicketScanned   TicketStatus = "scanned"
	TicketCancelled TicketStatus = "cancelled"
)

// Sentinel errors for ticket operations.
var (
	ErrAlreadyScanned   = errors.New("ticket has already been scanned")
	ErrAlreadyCancelled = errors.New("ticket has already been cancelled")
	ErrTicketInvalid    = errors.New("ticket is no longer valid")
)

// Ticket is the proof-of-registration artifact binding one user to one
// event, carrying a scannable code and a status.
// swagger:model Ticket
type Ticket struct {
	ID          string       `json:"id"`
	EventID     string       `json:"event_id"`
	UserID      string       `json:"user_id"`
	Code        string       `json:"code"`
	Status      TicketStatus `json:"status"`
	PurchasedAt time.Time    `json:"purchased_at"`
	// Event is populated on reads that resolve the event reference.
	Event *Event `json:"event,omitempty"`
}

// TicketRepository defines the interface for ticket storage.
type TicketRepository interface {
	Create(ctx context.Context, ticket *Ticket) error
	// GetByID returns the ticket with its event reference populated.
	GetByID(ctx context.Context, id string) (*Ticket, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Ticket, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Ticket, error)
	UpdateStatus(ctx context.Context, id string, status TicketStatus) error
}

// TicketService owns the ticket lifecycle: creation with a freshly minted
// code, the scan/cancel state machine, and read accessors.
type TicketService interface {
	// Create mints a ticket in the purchased state with a unique scannable code.
	Create(ctx context.Context, eventID, userID string) (*Ticket, error)
	// Scan marks the ticket scanned. Only the event creator may scan.
	Scan(ctx context.Context, requesterID, ticketID string) (*Ticket, error)
	// Cancel marks the ticket cancelled. The event creator or the ticket
	// holder may cancel; a scanned ticket can still be cancelled.
	Cancel(ctx context.Context, requesterID, ticketID string) (*Ticket, error)
	// Verify reports whether the ticket currently resolves, without mutating it.
	Verify(ctx context.Context, ticketID string) (bool, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Ticket, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Ticket, error)
}
