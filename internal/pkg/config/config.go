package config

import (
	"io"
	"time"
)

// Config reads typed values by dotted key (e.g. "modules.verification.cooldown_seconds").
// Missing keys or unconvertible values yield the zero value.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetFloat64(key string) float64
	GetString(key string) string

	// GetSecond interprets the value as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute interprets the value as a number of minutes.
	GetMinute(key string) time.Duration

	// GetBinary decodes a base64 value.
	GetBinary(key string) []byte

	// GetArray splits a comma separated value, trimming blanks. A native list is returned as is.
	GetArray(key string) []string
}
