package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"eventful/internal/domain"
)

type registrationService struct {
	eventRepo domain.EventRepository
	userRepo  domain.UserRepository
	tickets   domain.TicketService
	scheduler domain.NotificationScheduler
	email     domain.EmailService
	logger    *slog.Logger
	now       func() time.Time
}

// NewRegistrationService creates the attend-event workflow with its
// collaborators.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	tickets domain.TicketService,
	scheduler domain.NotificationScheduler,
	email domain.EmailService,
	logger *slog.Logger,
) domain.RegistrationService {
	return &registrationService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		tickets:   tickets,
		scheduler: scheduler,
		email:     email,
		logger:    logger,
		now:       time.Now,
	}
}

// Register runs the attendance sequence in order, failing fast before any
// write. The three membership/ticket writes span three tables without a
// cross-table transaction; tickets are the source of truth if they diverge.
func (s *registrationService) Register(ctx context.Context, userID, eventID string) (*domain.Ticket, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if s.now().After(event.DateTime) {
		return nil, domain.ErrPastEvent
	}
	if event.CreatorID == userID {
		return nil, domain.ErrOwnEvent
	}
	for _, id := range event.AttendeeIDs {
		if id == userID {
			return nil, domain.ErrAlreadyRegistered
		}
	}

	// The attendee table's composite key backstops the check above: two
	// near-simultaneous requests cannot both append.
	if err := s.eventRepo.AddAttendee(ctx, eventID, userID); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("add attendee: %w", err)
	}

	ticket, err := s.tickets.Create(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.userRepo.AddRegisteredEvent(ctx, userID, eventID); err != nil && !errors.Is(err, domain.ErrAlreadyRegistered) {
		return nil, fmt.Errorf("add registered event: %w", err)
	}

	// Ticket delivery is best-effort; the registration stands either way.
	if err := s.email.SendTicket(ctx, &domain.TicketEmailData{
		Email:      user.Email,
		EventTitle: event.Title,
		Code:       ticket.Code,
	}); err != nil {
		s.logger.WarnContext(ctx, "ticket email failed", "user_id", userID, "event_id", eventID, "err", err)
	}

	notification := &domain.Notification{
		ID:         uuid.NewString(),
		UserID:     userID,
		Email:      user.Email,
		EventID:    eventID,
		EventTitle: event.Title,
		RemindAt:   event.ReminderAt,
		Status:     domain.NotificationScheduled,
		CreatedAt:  s.now(),
	}
	if err := s.scheduler.CreateNotification(ctx, notification); err != nil {
		return nil, fmt.Errorf("schedule reminder: %w", err)
	}

	return ticket, nil
}
