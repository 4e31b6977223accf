// Package otp generates the numeric one-time codes sent to users during
// verification. Codes come from crypto/rand and never from a general purpose
// PRNG, so they cannot be predicted from earlier output.
package otp
