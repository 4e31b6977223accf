// Package sms sends text messages through Twilio Programmable Messaging.
package sms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const defaultTimeout = 10 * time.Second

var (
	// ErrCredentialsRequired is returned when the account sid or auth token is missing.
	ErrCredentialsRequired = errors.New("sms: twilio account sid and auth token are required")
	// ErrSenderRequired is returned when neither From nor MessagingServiceSID is set.
	ErrSenderRequired = errors.New("sms: twilio from number or messaging service sid is required")
	// ErrRejected is returned when Twilio answers with an error or a failed message.
	ErrRejected = errors.New("sms: twilio rejected the message")
)

// SMS delivers a text message to a phone number in E.164 form.
type SMS interface {
	Send(ctx context.Context, to, body string) error
}

// Config configures the Twilio client.
type Config struct {
	AccountSID string
	AuthToken  string
	// From is the sending phone number. Ignored when MessagingServiceSID is set.
	From                string
	MessagingServiceSID string
	// BaseURL overrides https://api.twilio.com, mainly for tests.
	BaseURL string
	Timeout time.Duration
}

// Twilio creates Messages on one account.
type Twilio struct {
	cfg  Config
	rest *twilio.RestClient
}

// NewTwilio validates cfg and returns a client.
func NewTwilio(cfg Config) (*Twilio, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, ErrCredentialsRequired
	}
	if cfg.From == "" && cfg.MessagingServiceSID == "" {
		return nil, ErrSenderRequired
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil || base.Host == "" {
			return nil, fmt.Errorf("sms: invalid base url %q", cfg.BaseURL)
		}
		hc.Transport = rewriteHost{base: base, next: http.DefaultTransport}
	}

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   cfg.AccountSID,
		Password:   cfg.AuthToken,
		AccountSid: cfg.AccountSID,
		Client: &client.Client{
			Credentials: client.NewCredentials(cfg.AccountSID, cfg.AuthToken),
			HTTPClient:  hc,
		},
	})

	return &Twilio{cfg: cfg, rest: rest}, nil
}

// Send creates a Message. A queued or accepted message counts as delivered.
func (t *Twilio) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetPathAccountSid(t.cfg.AccountSID)
	params.SetTo(to)
	params.SetBody(body)
	if t.cfg.MessagingServiceSID != "" {
		params.SetMessagingServiceSid(t.cfg.MessagingServiceSID)
	} else {
		params.SetFrom(t.cfg.From)
	}

	msg, err := t.rest.Api.CreateMessage(params)
	if err != nil {
		var terr *client.TwilioRestError
		if errors.As(err, &terr) {
			return fmt.Errorf("%w: status=%d code=%d message=%q", ErrRejected, terr.Status, terr.Code, terr.Message)
		}
		return fmt.Errorf("sms: twilio request: %w", err)
	}

	status := deref(msg.Status)
	if status == "failed" || status == "undelivered" {
		return fmt.Errorf("%w: sid=%s status=%s error=%q", ErrRejected, deref(msg.Sid), status, deref(msg.ErrorMessage))
	}

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// rewriteHost sends every request to base while keeping the path the SDK built.
type rewriteHost struct {
	base *url.URL
	next http.RoundTripper
}

func (r rewriteHost) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = r.base.Scheme
	req.URL.Host = r.base.Host
	req.Host = r.base.Host

	return r.next.RoundTrip(req)
}
