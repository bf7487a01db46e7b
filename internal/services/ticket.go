package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventful/internal/domain"
)

type ticketService struct {
	ticketRepo domain.TicketRepository
	codes      domain.CodeGenerator
	now        func() time.Time
}

// NewTicketService creates the ticket store with its repository and code
// generator.
func NewTicketService(ticketRepo domain.TicketRepository, codes domain.CodeGenerator) domain.TicketService {
	return &ticketService{
		ticketRepo: ticketRepo,
		codes:      codes,
		now:        time.Now,
	}
}

func (s *ticketService) Create(ctx context.Context, eventID, userID string) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		EventID:     eventID,
		UserID:      userID,
		Status:      domain.TicketPurchased,
		PurchasedAt: s.now(),
	}
	code, err := s.codes.Generate(ctx, "ticket:"+ticket.ID)
	if err != nil {
		return nil, fmt.Errorf("generate ticket code: %w", err)
	}
	ticket.Code = code

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return ticket, nil
}

func (s *ticketService) Scan(ctx context.Context, requesterID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if ticket.Event == nil || ticket.Event.CreatorID != requesterID {
		return nil, domain.ErrForbidden
	}
	switch ticket.Status {
	case domain.TicketScanned:
		return nil, domain.ErrAlreadyScanned
	case domain.TicketCancelled:
		return nil, domain.ErrTicketInvalid
	}

	if err := s.ticketRepo.UpdateStatus(ctx, ticketID, domain.TicketScanned); err != nil {
		return nil, fmt.Errorf("update ticket status: %w", err)
	}
	ticket.Status = domain.TicketScanned
	return ticket, nil
}

func (s *ticketService) Cancel(ctx context.Context, requesterID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	isCreator := ticket.Event != nil && ticket.Event.CreatorID == requesterID
	if !isCreator && ticket.UserID != requesterID {
		return nil, domain.ErrForbidden
	}
	if ticket.Status == domain.TicketCancelled {
		return nil, domain.ErrAlreadyCancelled
	}

	// Cancellation overrides a scan: a scanned ticket can still be revoked,
	// e.g. for a refund.
	if err := s.ticketRepo.UpdateStatus(ctx, ticketID, domain.TicketCancelled); err != nil {
		return nil, fmt.Errorf("update ticket status: %w", err)
	}
	ticket.Status = domain.TicketCancelled
	return ticket, nil
}

func (s *ticketService) Verify(ctx context.Context, ticketID string) (bool, error) {
	_, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get ticket: %w", err)
	}
	return true, nil
}

func (s *ticketService) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return ticket, nil
}

func (s *ticketService) ListByEvent(ctx context.Context, eventID string) ([]*domain.Ticket, error) {
	tickets, err := s.ticketRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	if tickets == nil {
		tickets = []*domain.Ticket{}
	}
	return tickets, nil
}
