// Package whatsapp sends WhatsApp text messages through the Green API gateway.
package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	greenapi "github.com/green-api/whatsapp-api-client-golang-v2"
)

const (
	defaultBaseURL  = "https://api.green-api.com"
	defaultMediaURL = "https://media.green-api.com"
	defaultTimeout  = 10 * time.Second
)

var (
	// ErrCredentialsRequired is returned when the instance id or token is missing.
	ErrCredentialsRequired = errors.New("whatsapp: green api instance id and token are required")
	// ErrInvalidPhone is returned when the phone has no digits.
	ErrInvalidPhone = errors.New("whatsapp: phone number has no digits")
	// ErrRejected is returned when Green API answers with a non-2xx status or no message id.
	ErrRejected = errors.New("whatsapp: green api rejected the message")
)

// WhatsApp delivers a text message to a phone number.
type WhatsApp interface {
	Send(ctx context.Context, phone, message string) error
}

// Config configures the Green API client.
type Config struct {
	BaseURL    string
	InstanceID string
	Token      string
	Timeout    time.Duration
}

// GreenAPI calls the sendMessage method of one instance.
type GreenAPI struct {
	api     greenapi.GreenAPI
	timeout time.Duration
}

type sendMessageResponse struct {
	IDMessage string `json:"idMessage"`
}

type sendResult struct {
	resp *greenapi.APIResponse
	err  error
}

// NewGreenAPI validates cfg and returns a client.
func NewGreenAPI(cfg Config) (*GreenAPI, error) {
	if cfg.InstanceID == "" || cfg.Token == "" {
		return nil, ErrCredentialsRequired
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &GreenAPI{
		api: greenapi.GreenAPI{
			APIURL:           strings.TrimRight(cfg.BaseURL, "/"),
			MediaURL:         defaultMediaURL,
			IDInstance:       cfg.InstanceID,
			APITokenInstance: cfg.Token,
		},
		timeout: cfg.Timeout,
	}, nil
}

// ChatID turns a phone number into a personal chat id, "<digits>@c.us".
func ChatID(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", ErrInvalidPhone
	}

	return b.String() + "@c.us", nil
}

// Send posts message to the chat of phone. The SDK call is not cancellable,
// so Send stops waiting once ctx ends or the timeout passes.
func (g *GreenAPI) Send(ctx context.Context, phone, message string) error {
	chatID, err := ChatID(phone)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	done := make(chan sendResult, 1)
	go func() {
		resp, err := g.api.Sending().SendMessage(chatID, message)
		done <- sendResult{resp: resp, err: err}
	}()

	var res sendResult
	select {
	case <-ctx.Done():
		return fmt.Errorf("whatsapp: green api request: %w", ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		// url.Error carries the endpoint, which contains the token.
		var uerr *url.Error
		if errors.As(res.err, &uerr) {
			return fmt.Errorf("whatsapp: green api request: %w", uerr.Err)
		}
		return fmt.Errorf("%w: %s", ErrRejected, scrub(res.err.Error(), g.api.APITokenInstance))
	}

	if res.resp == nil {
		return fmt.Errorf("%w: empty response", ErrRejected)
	}
	if res.resp.StatusCode < http.StatusOK || res.resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status=%d body=%q", ErrRejected, res.resp.StatusCode, strings.TrimSpace(string(res.resp.Body)))
	}

	var out sendMessageResponse
	if err := json.Unmarshal(res.resp.Body, &out); err != nil || out.IDMessage == "" {
		return fmt.Errorf("%w: missing idMessage", ErrRejected)
	}

	return nil
}

func scrub(s, token string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, "***")
}
