package mail

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSMTP_Build(t *testing.T) {
	// Arrange
	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025, From: "no-reply@goverify.local"})
	if err != nil {
		t.Fatalf("NewSMTP() error = %v", err)
	}

	// Act
	gm, err := s.build(Message{
		To:       []string{"user@example.com"},
		Subject:  "Your verification code expires in 5 minutes",
		TextBody: "123456",
		HTMLBody: "<b>123456</b>",
	})

	// Assert
	if err != nil {
		t.Fatalf("build() error = %v", err)
	}
	if got := gm.GetHeader("From"); len(got) != 1 || got[0] != "no-reply@goverify.local" {
		t.Fatalf("From = %v", got)
	}
	if got := gm.GetHeader("To"); len(got) != 1 || got[0] != "user@example.com" {
		t.Fatalf("To = %v", got)
	}
}

func TestSMTP_Errors(t *testing.T) {
	if _, err := NewSMTP(SMTPConfig{}); !errors.Is(err, ErrSMTPHostPortRequired) {
		t.Fatalf("NewSMTP() error = %v", err)
	}

	s, _ := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025})
	if err := s.Send(context.Background(), Message{}); !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("Send() error = %v, want ErrNoRecipients", err)
	}
	if err := s.Send(context.Background(), Message{To: []string{"a@b.co"}}); !errors.Is(err, ErrNoSender) {
		t.Fatalf("Send() error = %v, want ErrNoSender", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Send(ctx, Message{From: "x@y.co", To: []string{"a@b.co"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Send() error = %v, want context.Canceled", err)
	}
}

func TestSendGrid_Send(t *testing.T) {
	// Arrange
	var (
		gotAuth string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		if r.URL.Path != "/v3/mail/send" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sg, err := NewSendGrid(SendGridConfig{APIKey: "SG.key", From: "no-reply@goverify.local", Host: srv.URL})
	if err != nil {
		t.Fatalf("NewSendGrid() error = %v", err)
	}

	// Act
	err = sg.Send(context.Background(), Message{
		To:       []string{"user@example.com"},
		Subject:  "Your verification code expires in 5 minutes",
		TextBody: "Your code is 123456",
		HTMLBody: "<p>123456</p>",
	})

	// Assert
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotAuth != "Bearer SG.key" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotBody["subject"] != "Your verification code expires in 5 minutes" {
		t.Fatalf("body = %v", gotBody)
	}
	content, _ := gotBody["content"].([]any)
	if len(content) != 2 {
		t.Fatalf("content = %v", gotBody["content"])
	}
}

func TestSendGrid_RejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"errors":[{"message":"bad key"}]}`)
	}))
	defer srv.Close()

	sg, _ := NewSendGrid(SendGridConfig{APIKey: "SG.bad", From: "no-reply@goverify.local", Host: srv.URL})

	err := sg.Send(context.Background(), Message{To: []string{"user@example.com"}, TextBody: "x"})
	if !errors.Is(err, ErrSendGridStatus) || !strings.Contains(err.Error(), "401") {
		t.Fatalf("Send() error = %v", err)
	}
}

func TestNewFromDriver(t *testing.T) {
	if _, err := NewFromDriver("smtp", FactoryOptions{SMTP: SMTPConfig{Host: "h", Port: 25}}); err != nil {
		t.Fatalf("smtp error = %v", err)
	}
	if _, err := NewFromDriver("sendgrid", FactoryOptions{}); !errors.Is(err, ErrSendGridAPIKeyRequired) {
		t.Fatalf("sendgrid error = %v", err)
	}
	if _, err := NewFromDriver("pigeon", FactoryOptions{}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("unknown error = %v", err)
	}
}
