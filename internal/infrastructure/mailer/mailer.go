package mailer

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"sitebot-server/services/assistant-api/internal/config"
)

// Email is one outbound notification message.
type Email struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Sender delivers notification emails.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// RestMailer delivers email through a resend-style HTTP API.
type RestMailer struct {
	client *resty.Client
	from   string
	log    zerolog.Logger
}

// NewRestMailer constructs the mailer from config.
func NewRestMailer(cfg *config.Config, log zerolog.Logger) *RestMailer {
	return &RestMailer{
		client: resty.New().
			SetBaseURL(cfg.MailAPIURL).
			SetTimeout(cfg.MailTimeout).
			SetAuthToken(cfg.MailAPIKey).
			SetHeader("Content-Type", "application/json"),
		from: cfg.MailFrom,
		log:  log.With().Str("component", "mailer").Logger(),
	}
}

// Send posts one email to the mail API.
func (m *RestMailer) Send(ctx context.Context, email Email) error {
	if email.From == "" {
		email.From = m.from
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(email).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail api error: %d %s", resp.StatusCode(), resp.String())
	}

	m.log.Debug().Str("to", email.To).Str("subject", email.Subject).Msg("email sent")
	return nil
}
