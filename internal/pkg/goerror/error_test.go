package goerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "server", err: NewServer(errors.New("boom")), want: http.StatusInternalServerError},
		{name: "rate limited", err: NewBusiness("wait", CodeTooManyRequest), want: http.StatusTooManyRequests},
		{name: "unauthorized", err: NewBusiness("bad code", CodeUnauthorized), want: http.StatusUnauthorized},
		{name: "not found", err: NewBusiness("missing", CodeNotFound), want: http.StatusNotFound},
		{name: "upstream", err: NewUpstream(errors.New("smtp down"), "delivery failed"), want: http.StatusBadGateway},
		{name: "invalid input", err: NewInvalidInput(nil, "email", "required"), want: http.StatusUnprocessableEntity},
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "odd kv", err: NewInvalidInput(nil, "email"), want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			if !errors.As(tt.err, &gerr) {
				t.Fatalf("expected *Error, got %T", tt.err)
			}
			if got := gerr.StatusCode(); got != tt.want {
				t.Fatalf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewUpstream_Unwrap(t *testing.T) {
	// Arrange
	cause := errors.New("gateway timeout")

	// Act
	err := NewUpstream(cause, "failed to deliver")

	// Assert
	if !errors.Is(err, cause) {
		t.Fatal("upstream error must wrap its cause")
	}
	if !HasCode(err, CodeBadGateway) {
		t.Fatal("HasCode(CodeBadGateway) = false")
	}
	var gerr *Error
	errors.As(err, &gerr)
	if gerr.Msg() != "failed to deliver" || gerr.Type() != TypeUpstream {
		t.Fatalf("unexpected error %s", gerr.String())
	}
}

func TestNewInvalidInput_Fields(t *testing.T) {
	err := NewInvalidInput(nil, "identifier", "identifier is required", "code", "code is required")

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(gerr.Fields()) != 2 || gerr.Fields()["code"] != "code is required" {
		t.Fatalf("fields = %v", gerr.Fields())
	}
}

func TestHasCode_PlainError(t *testing.T) {
	if HasCode(errors.New("plain"), CodeInternal) {
		t.Fatal("plain errors carry no code")
	}
}
