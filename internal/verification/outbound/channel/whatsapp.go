package channel

import (
	"context"
	"strings"
	"time"

	"github.com/shandysiswandi/goverify/internal/pkg/whatsapp"
)

// WhatsAppConfig configures the WhatsApp channel.
type WhatsAppConfig struct {
	AppName string
	CodeTTL time.Duration
	Timeout time.Duration
}

// WhatsApp sends a code as a WhatsApp message.
type WhatsApp struct {
	client whatsapp.WhatsApp
	cfg    WhatsAppConfig
}

func NewWhatsApp(client whatsapp.WhatsApp, cfg WhatsAppConfig) *WhatsApp {
	return &WhatsApp{client: client, cfg: cfg}
}

func (w *WhatsApp) Send(ctx context.Context, address, code string) error {
	ctx, cancel := withTimeout(ctx, w.cfg.Timeout)
	defer cancel()

	return w.client.Send(ctx, NormalizeWhatsAppPhone(address), textMessage(w.cfg.AppName, code, w.cfg.CodeTTL))
}

// NormalizeWhatsAppPhone inserts the mobile prefix 1 after +52 for Mexican
// numbers that lack it, which WhatsApp requires. Other numbers are untouched.
func NormalizeWhatsAppPhone(phone string) string {
	if strings.HasPrefix(phone, "+52") && len(phone) > 3 && phone[3] != '1' {
		return "+521" + phone[3:]
	}
	return phone
}
