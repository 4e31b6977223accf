package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// DefaultLength is the number of digits produced when no length is configured.
	DefaultLength = 6
	// MaxLength bounds the code length so the range fits comfortably in int64.
	MaxLength = 12
)

// Generator produces one-time numeric codes.
type Generator interface {
	// Generate returns a fresh code. It never returns an empty string.
	Generate() string
}

// Numeric draws fixed-width decimal codes uniformly from [10^(n-1), 10^n-1]
// using crypto/rand, so a 6 digit code is always in [100000, 999999].
type Numeric struct {
	length int
	min    *big.Int
	span   *big.Int
}

// NewNumeric builds a Numeric generator. Lengths outside [1, MaxLength]
// fall back to DefaultLength.
func NewNumeric(length int) *Numeric {
	if length < 1 || length > MaxLength {
		length = DefaultLength
	}

	lo := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length-1)), nil)
	hi := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	if length == 1 {
		lo = big.NewInt(0)
	}

	return &Numeric{
		length: length,
		min:    lo,
		span:   new(big.Int).Sub(hi, lo),
	}
}

// Length returns the number of digits of generated codes.
func (n *Numeric) Length() int {
	return n.length
}

// Generate returns a new code. A failing random source is unrecoverable and panics.
func (n *Numeric) Generate() string {
	v, err := rand.Int(rand.Reader, n.span)
	if err != nil {
		panic(fmt.Sprintf("otp: crypto random source failed: %v", err))
	}

	return fmt.Sprintf("%0*d", n.length, v.Add(v, n.min))
}
