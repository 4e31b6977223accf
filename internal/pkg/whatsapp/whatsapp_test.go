package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestChatID(t *testing.T) {
	tests := []struct {
		phone   string
		want    string
		wantErr error
	}{
		{phone: "+5215512345678", want: "5215512345678@c.us"},
		{phone: "+1 (555) 123-4567", want: "15551234567@c.us"},
		{phone: "+", wantErr: ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			got, err := ChatID(tt.phone)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ChatID() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ChatID() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGreenAPI_Send(t *testing.T) {
	// Arrange
	var (
		gotPath string
		gotBody struct {
			ChatID  string `json:"chatId"`
			Message string `json:"message"`
		}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"idMessage":"BAE5F4886F6F2D05"}`)
	}))
	defer srv.Close()

	client, err := NewGreenAPI(Config{BaseURL: srv.URL, InstanceID: "1101", Token: "tok"})
	if err != nil {
		t.Fatalf("NewGreenAPI() error = %v", err)
	}

	// Act
	err = client.Send(context.Background(), "+15551234567", "Your verification code is 123456")

	// Assert
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotPath != "/waInstance1101/sendMessage/tok" {
		t.Fatalf("path = %s", gotPath)
	}
	if gotBody.ChatID != "15551234567@c.us" || gotBody.Message == "" {
		t.Fatalf("body = %+v", gotBody)
	}
}

func TestGreenAPI_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "http error", status: http.StatusUnauthorized, body: `Unauthorized`},
		{name: "server error", status: http.StatusInternalServerError, body: `{"message":"instance offline"}`},
		{name: "no message id", status: http.StatusOK, body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			client, _ := NewGreenAPI(Config{BaseURL: srv.URL, InstanceID: "1", Token: "secret-token"})

			err := client.Send(context.Background(), "+15551234567", "hi")
			if !errors.Is(err, ErrRejected) {
				t.Fatalf("Send() error = %v, want ErrRejected", err)
			}
			if strings.Contains(err.Error(), "secret-token") {
				t.Fatalf("Send() error leaks the token: %v", err)
			}
		})
	}
}

func TestGreenAPI_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client, _ := NewGreenAPI(Config{BaseURL: srv.URL, InstanceID: "1", Token: "t", Timeout: 50 * time.Millisecond})

	if err := client.Send(context.Background(), "+15551234567", "hi"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Send() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestNewGreenAPI_Validation(t *testing.T) {
	if _, err := NewGreenAPI(Config{InstanceID: "1"}); !errors.Is(err, ErrCredentialsRequired) {
		t.Fatalf("error = %v", err)
	}
}
