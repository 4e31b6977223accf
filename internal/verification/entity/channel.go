package entity

import "strings"

// Channel is the medium a code is delivered through.
type Channel int8

const (
	// ChannelUnknown means no channel was selected.
	ChannelUnknown Channel = 0

	// ChannelEmail delivers codes by email.
	ChannelEmail Channel = 1

	// ChannelSMS delivers codes by text message.
	ChannelSMS Channel = 2

	// ChannelWhatsApp delivers codes by WhatsApp message.
	ChannelWhatsApp Channel = 3
)

func (c Channel) String() string {
	switch c {
	case ChannelEmail:
		return "email"
	case ChannelSMS:
		return "sms"
	case ChannelWhatsApp:
		return "whatsapp"
	default:
		return "unknown"
	}
}

// IsPhone reports whether the channel delivers to a phone number.
func (c Channel) IsPhone() bool {
	return c == ChannelSMS || c == ChannelWhatsApp
}

// ChannelFromString parses a channel name case-insensitively.
func ChannelFromString(s string) Channel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "email":
		return ChannelEmail
	case "sms":
		return ChannelSMS
	case "whatsapp":
		return ChannelWhatsApp
	default:
		return ChannelUnknown
	}
}
