package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"printdesk-backend/internal/logger"
)

type emailService struct {
	apiKey   string
	from     string
	fromName string
}

func NewEmailService(apiKey, from, fromName string) EmailService {
	return &emailService{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
	}
}

func (s *emailService) send(to, toName, subject, body string) error {
	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)

	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendAccountCreated(ctx context.Context, email, name, orgName string) error {
	subject := fmt.Sprintf("Welcome to %s on PrintDesk", orgName)
	body := fmt.Sprintf("Hello %s,\n\nAn account has been created for you in the organization '%s'.\n\nYou can now sign in and submit print requests.\n\nBest regards,\nThe PrintDesk Team", name, orgName)
	return s.send(email, name, subject, body)
}

func (s *emailService) SendAccountStatusNotification(ctx context.Context, email, name, orgName, status, reason string) error {
	subject := fmt.Sprintf("Account Status Update - %s", orgName)
	body := fmt.Sprintf("Hello %s,\n\nYour account status in the organization '%s' has been updated to: %s.", name, orgName, status)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe PrintDesk Team"
	return s.send(email, name, subject, body)
}

func (s *emailService) SendDueSoonReminder(ctx context.Context, email, title string, dueOn time.Time) error {
	subject := fmt.Sprintf("Print request due soon: %s", title)
	body := fmt.Sprintf("Hello,\n\nYour print request '%s' is due on %s.\n\nBest regards,\nThe PrintDesk Team", title, dueOn.Format(time.RFC1123))
	return s.send(email, "", subject, body)
}
