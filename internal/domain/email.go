package domain

import "context"

// Mailer sends a single email. Implementations may use SES, SMTP, or a no-op
// sink for development.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named email template to its subject, HTML
// body, and text body.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// TicketEmailData is the data for the ticket-delivery email sent on
// successful registration.
type TicketEmailData struct {
	Email      string
	EventTitle string
	Code       string
}

// ReminderEmailData is the data for the event reminder email.
type ReminderEmailData struct {
	Email      string
	EventTitle string
}

// EmailService composes and dispatches application emails.
type EmailService interface {
	SendTicket(ctx context.Context, data *TicketEmailData) error
	SendReminder(ctx context.Context, data *ReminderEmailData) error
}
