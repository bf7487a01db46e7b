package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for event operations.
var (
	ErrDuplicateTitle    = errors.New("event with the same title already exists")
	ErrPastEvent         = errors.New("cannot register for an event that has already passed")
	ErrAlreadyRegistered = errors.New("you are already registered for this event")
	ErrOwnEvent          = errors.New("you cannot register for your own event")
)

// Event represents a scheduled happening with a creator, date/time, location
// and category. AttendeeIDs is a denormalized membership list maintained by
// the registration workflow; tickets remain the authoritative join.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	// DateTime is derived from Date and Time and is always consistent with them.
	DateTime    time.Time `json:"eventDateTime"`
	Location    string    `json:"location"`
	CreatorID   string    `json:"creator_id"`
	CreatorName string    `json:"creator_name,omitempty"`
	CategoryID  string    `json:"category_id"`
	AttendeeIDs []string  `json:"attendees,omitempty"`
	// EventCode is the opaque scannable display code minted for the event
	// itself, independent of ticket codes.
	EventCode  string    `json:"event_code,omitempty"`
	ReminderAt time.Time `json:"reminder_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SortField is the closed set of fields event listings may be sorted by.
// Caller-supplied field names outside this set are rejected at the boundary.
type SortField string

const (
	SortByTitle     SortField = "title"
	SortByDate      SortField = "date"
	SortByOrganizer SortField = "organizer"
)

// ParseSortField validates a caller-supplied sort field name.
func ParseSortField(s string) (SortField, bool) {
	switch SortField(s) {
	case SortByTitle, SortByDate, SortByOrganizer:
		return SortField(s), true
	}
	return "", false
}

// EventFilter describes an event listing query: optional case-insensitive
// title substring match, pagination, and sorting by an allow-listed field.
type EventFilter struct {
	Title    string
	Page     PaginationParams
	SortBy   SortField
	SortDesc bool
}

// EventPatch holds the optional field updates for an event. Nil fields are
// left unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
	DateTime    *time.Time
	Location    *string
	CategoryID  *string
	ReminderAt  *time.Time
}

// EventPage bundles a page of events with its pagination metadata.
// swagger:model EventPage
type EventPage struct {
	Events []*Event `json:"events"`
	Meta   PageMeta `json:"meta"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	// GetByID returns the event with its creator name and attendee IDs populated.
	GetByID(ctx context.Context, id string) (*Event, error)
	// List returns one page of events matching the filter plus the total match count.
	List(ctx context.Context, filter EventFilter) ([]*Event, int, error)
	Update(ctx context.Context, id string, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, id string) error
	// AddAttendee records the user in the event's attendee set. Returns
	// ErrAlreadyRegistered if the user is already in the set.
	AddAttendee(ctx context.Context, eventID, userID string) error
}

// CreateEventInput is the input for creating an event. Date is "2006-01-02";
// Time is a clock time such as "7:30 PM" or "19:30".
type CreateEventInput struct {
	Title       string
	Description string
	Date        string
	Time        string
	Location    string
	CategoryID  string
	// ReminderAt overrides the default reminder time (event time minus 24h).
	ReminderAt *time.Time
}

// UpdateEventInput is the input for updating an event. Nil fields are left
// unchanged.
type UpdateEventInput struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
	Location    *string
	CategoryID  *string
	ReminderAt  *time.Time
}

// EventService defines the event registry: CRUD over events with
// ownership-scoped mutation and cache-coherent reads.
type EventService interface {
	Create(ctx context.Context, creatorID string, input CreateEventInput) (*Event, error)
	FindAll(ctx context.Context, filter EventFilter) (*EventPage, error)
	FindByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, userID, id string, input UpdateEventInput) (*Event, error)
	Delete(ctx context.Context, userID, id string) error
}
