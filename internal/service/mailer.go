package service

import (
	"context"
	"fmt"
	"log"
	"os"

	"intellilearn-backend/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendgridMailer delivers transactional mail through SendGrid.
type sendgridMailer struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

// NewMailer returns a SendGrid-backed mailer when SENDGRID_API_KEY is set,
// otherwise a console mailer so local development needs no account.
func NewMailer() domain.Mailer {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		log.Println("SENDGRID_API_KEY not set, emails go to the console")
		return &consoleMailer{}
	}
	return &sendgridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  envOr("MAIL_FROM_NAME", "IntelliLearn"),
		fromEmail: envOr("MAIL_FROM_EMAIL", "no-reply@intellilearn.io"),
	}
}

func (m *sendgridMailer) Send(ctx context.Context, to, subject, body string) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), body, body)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// consoleMailer logs instead of sending.
type consoleMailer struct{}

func (m *consoleMailer) Send(_ context.Context, to, subject, body string) error {
	log.Printf("--- EMAIL ---\nTo: %s\nSubject: %s\n%s\n-------------", to, subject, body)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
