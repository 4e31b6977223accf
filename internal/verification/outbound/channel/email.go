package channel

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/shandysiswandi/goverify/internal/pkg/clock"
	"github.com/shandysiswandi/goverify/internal/pkg/mail"
)

var emailHTML = template.Must(template.New("email").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Use this code to continue</h2>
  <p style="font-size: 18px;">Verification code:</p>
  <p style="font-size: 32px; font-weight: bold; color: #1a73e8; letter-spacing: 5px; margin: 20px 0;">{{.Code}}</p>
  <p style="font-size: 14px; color: #d32f2f;"><strong>Expires in {{.Minutes}} minutes</strong> (issued at {{.IssuedAt}})</p>
  {{if .AppName}}<p style="font-size: 12px; color: #777;">{{.AppName}}</p>{{end}}
</div>
`))

// EmailConfig configures the email channel.
type EmailConfig struct {
	// From overrides the mail provider's default sender.
	From    string
	AppName string
	CodeTTL time.Duration
	Timeout time.Duration
}

// Email renders a code into an email and hands it to a mail provider.
type Email struct {
	client mail.Mail
	cfg    EmailConfig
	clock  clock.Clocker
}

func NewEmail(client mail.Mail, cfg EmailConfig, clk clock.Clocker) *Email {
	return &Email{client: client, cfg: cfg, clock: clk}
}

func (e *Email) Send(ctx context.Context, address, code string) error {
	ctx, cancel := withTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	msg, err := e.render(address, code)
	if err != nil {
		return err
	}

	return e.client.Send(ctx, msg)
}

func (e *Email) render(address, code string) (mail.Message, error) {
	minutes := expiryMinutes(e.cfg.CodeTTL)
	issuedAt := e.clock.Now().UTC().Format("15:04:05 MST")

	var buf bytes.Buffer
	if err := emailHTML.Execute(&buf, map[string]any{
		"Code":     code,
		"Minutes":  minutes,
		"IssuedAt": issuedAt,
		"AppName":  e.cfg.AppName,
	}); err != nil {
		return mail.Message{}, fmt.Errorf("channel: render email: %w", err)
	}

	return mail.Message{
		From:     e.cfg.From,
		To:       []string{address},
		Subject:  fmt.Sprintf("Your verification code expires in %d minutes", minutes),
		TextBody: fmt.Sprintf("Your verification code is %s. It expires in %d minutes (issued at %s).", code, minutes, issuedAt),
		HTMLBody: buf.String(),
	}, nil
}
