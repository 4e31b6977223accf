package jwt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/goverify/internal/pkg/clock"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func newTestSymmetric(t *testing.T, clk *clock.Frozen) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret: []byte(strings.Repeat("k", 64)),
		Issuer: "goverify",
		TTL:    time.Hour,
		Clock:  clk,
		UUID:   fixedID("jti-1"),
	})
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}
	return s
}

func TestSymmetric_GenerateVerify(t *testing.T) {
	// Arrange
	clk := clock.NewFrozen(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	s := newTestSymmetric(t, clk)

	// Act
	token, err := s.Generate(42, "user@example.com")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	claims, err := s.Verify(token)

	// Assert
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 42 || claims.Identifier != "user@example.com" || claims.ID != "jti-1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestSymmetric_Expired(t *testing.T) {
	clk := clock.NewFrozen(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	s := newTestSymmetric(t, clk)

	token, err := s.Generate(1, "+15551234567")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	clk.Advance(2 * time.Hour)
	if _, err := s.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestSymmetric_Tampered(t *testing.T) {
	clk := clock.NewFrozen(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	s := newTestSymmetric(t, clk)

	token, _ := s.Generate(1, "user@example.com")
	if _, err := s.Verify(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestNewHS512_ShortSecret(t *testing.T) {
	if _, err := NewHS512(Config{Secret: []byte("short")}); !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("NewHS512() error = %v", err)
	}
}

func TestAuthContext(t *testing.T) {
	if GetAuth(context.Background()) != nil {
		t.Fatal("expected nil claims")
	}

	ctx := SetAuth(context.Background(), Claims{UserID: 7})
	if got := GetAuth(ctx); got == nil || got.UserID != 7 {
		t.Fatalf("GetAuth() = %+v", got)
	}
}
