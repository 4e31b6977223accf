package entity

import "strings"

// NormalizeIdentifier trims an identifier and lower-cases email addresses.
// Phone numbers lose common separators, so "+1 (555) 123-4567" becomes "+15551234567".
func NormalizeIdentifier(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "@") {
		return strings.ToLower(s)
	}

	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		default:
			return r
		}
	}, s)
}

// IsEmail reports whether a normalized identifier is an email address.
func IsEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}
