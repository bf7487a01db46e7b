package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrDuplicateEmail     = errors.New("user with email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Roles a user may hold. Creators make events; eventees attend them.
const (
	RoleCreator = "creator"
	RoleEventee = "eventee"
)

// User represents a registered user. PasswordHash is never serialized.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	// EventIDs is the denormalized list of events the user registered for,
	// maintained by the registration workflow.
	EventIDs  []string  `json:"events,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PasswordHasher hashes and verifies passwords. Implementations may use
// bcrypt, argon2, etc.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID and role.
type TokenVerifier interface {
	Verify(token string) (userID, role string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	// GetByID returns the user with EventIDs populated.
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// AddRegisteredEvent records the event in the user's registered-events
	// list. Returns ErrAlreadyRegistered if it is already present.
	AddRegisteredEvent(ctx context.Context, userID, eventID string) error
	// ListRegisteredEvents resolves the user's registered-events list to
	// event records. Events deleted since registration are absent.
	ListRegisteredEvents(ctx context.Context, userID string) ([]*Event, error)
}

// SignUpInput is the input for creating a user account.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UserService defines account and authentication operations.
type UserService interface {
	SignUp(ctx context.Context, input SignUpInput) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	GetByID(ctx context.Context, id string) (*User, error)
	ListRegisteredEvents(ctx context.Context, userID string) ([]*Event, error)
}
