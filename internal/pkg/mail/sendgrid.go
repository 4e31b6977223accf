package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

var (
	// ErrSendGridAPIKeyRequired is returned when the API key is missing.
	ErrSendGridAPIKeyRequired = errors.New("mail: sendgrid api key is required")
	// ErrSendGridStatus is returned for a non-2xx SendGrid response.
	ErrSendGridStatus = errors.New("mail: sendgrid rejected the message")
)

// SendGridConfig configures the SendGrid implementation.
type SendGridConfig struct {
	APIKey string
	// From is the default sender when Message.From is empty.
	From string
	// Host overrides the API host, mainly for tests.
	Host string
}

// SendGrid sends mail through the SendGrid v3 mail/send API.
type SendGrid struct {
	apiKey string
	from   string
	host   string
}

// NewSendGrid constructs a SendGrid sender.
func NewSendGrid(cfg SendGridConfig) (*SendGrid, error) {
	if cfg.APIKey == "" {
		return nil, ErrSendGridAPIKeyRequired
	}

	host := cfg.Host
	if host == "" {
		host = sendGridHost
	}

	return &SendGrid{apiKey: cfg.APIKey, from: cfg.From, host: host}, nil
}

// Send posts msg to SendGrid. Any non-2xx status is an error.
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	from, err := msg.sender(s.from)
	if err != nil {
		return err
	}

	req := sendgrid.GetRequest(s.apiKey, sendGridEndpoint, s.host)
	req.Method = rest.Post
	req.Body = sgmail.GetRequestBody(s.build(from, msg))

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("mail: sendgrid send: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status %d: %s", ErrSendGridStatus, resp.StatusCode, resp.Body)
	}

	return nil
}

func (*SendGrid) build(from string, msg Message) *sgmail.SGMailV3 {
	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail("", from))
	m.Subject = msg.Subject

	p := sgmail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail("", to))
	}
	for _, cc := range msg.Cc {
		p.AddCCs(sgmail.NewEmail("", cc))
	}
	for _, bcc := range msg.Bcc {
		p.AddBCCs(sgmail.NewEmail("", bcc))
	}
	m.AddPersonalizations(p)

	if msg.TextBody != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.TextBody))
	}
	if msg.HTMLBody != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLBody))
	}

	return m
}

// Close implements io.Closer.
func (*SendGrid) Close() error {
	return nil
}
