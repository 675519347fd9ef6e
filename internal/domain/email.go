package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// LoginCodeEmailData holds data for the passwordless login code email.
type LoginCodeEmailData struct {
	Email            string
	Code             string
	ExpiresInMinutes int
}

// RequestStatusEmailData holds data for the participation status change email.
type RequestStatusEmailData struct {
	Email      string
	EventTitle string
	EventDate  string
	Status     RequestStatus
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendLoginCode(ctx context.Context, data *LoginCodeEmailData) error
	SendRequestStatus(ctx context.Context, data *RequestStatusEmailData) error
}
