package entity

import (
	"testing"
	"time"
)

func TestChannelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want Channel
	}{
		{in: "email", want: ChannelEmail},
		{in: " SMS ", want: ChannelSMS},
		{in: "WhatsApp", want: ChannelWhatsApp},
		{in: "", want: ChannelUnknown},
		{in: "pigeon", want: ChannelUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ChannelFromString(tt.in)
			if got != tt.want {
				t.Fatalf("ChannelFromString(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got != ChannelUnknown && ChannelFromString(got.String()) != got {
				t.Fatalf("String() does not round trip for %v", got)
			}
		})
	}
}

func TestChallenge_Expired(t *testing.T) {
	// Arrange
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Challenge{IssuedAt: issued}
	ttl := 300 * time.Second

	// Act & Assert
	if c.Expired(issued.Add(299*time.Second), ttl) {
		t.Fatal("299s old challenge must be valid")
	}
	if c.Expired(issued.Add(ttl), ttl) {
		t.Fatal("challenge exactly ttl old must be valid")
	}
	if !c.Expired(issued.Add(301*time.Second), ttl) {
		t.Fatal("301s old challenge must be expired")
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "  User@Example.COM ", want: "user@example.com"},
		{in: "+1 (555) 123-4567", want: "+15551234567"},
		{in: "+52.55.1234.5678", want: "+525512345678"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeIdentifier(tt.in); got != tt.want {
			t.Fatalf("NormalizeIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
