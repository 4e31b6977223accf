// Package uid generates identifiers: UUIDv7 strings for correlation and token
// ids, and snowflake integers for persisted records.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates time-ordered integer identifiers.
type NumberID interface {
	Generate() int64
}
