package entity

import (
	"errors"
	"time"
)

var (
	// ErrChallengeNotFound is returned by a store when no challenge exists for an identifier.
	ErrChallengeNotFound = errors.New("verification: challenge not found")

	// ErrDeliveryFailed marks a code that was stored but could not be delivered.
	ErrDeliveryFailed = errors.New("verification: delivery failed")
)

// Challenge is the pending verification of one identifier.
type Challenge struct {
	// Identifier is a lower-cased email address or an E.164 phone number.
	Identifier string
	// CodeHash is the keyed digest of the code. The plaintext is never stored.
	CodeHash string
	IssuedAt time.Time
	Channel  Channel
}

// Expired reports whether the challenge is older than ttl at now.
// A challenge exactly ttl old is still valid.
func (c Challenge) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.IssuedAt) > ttl
}
