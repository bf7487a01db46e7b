package services

import (
	"context"
	"fmt"
	"log"

	"eventful/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and
// template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendTicket sends the ticket-delivery email using the "ticket" template.
func (s *emailService) SendTicket(ctx context.Context, data *domain.TicketEmailData) error {
	if data == nil {
		return fmt.Errorf("ticket email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("ticket", data)
	if err != nil {
		return fmt.Errorf("failed to render ticket template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send ticket email: %w", err)
	}
	log.Printf("[EMAIL] Ticket email sent to %s", data.Email)
	return nil
}

// SendReminder sends the event reminder email using the "reminder" template.
func (s *emailService) SendReminder(ctx context.Context, data *domain.ReminderEmailData) error {
	if data == nil {
		return fmt.Errorf("reminder email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("reminder", data)
	if err != nil {
		return fmt.Errorf("failed to render reminder template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	log.Printf("[EMAIL] Reminder sent to %s", data.Email)
	return nil
}
