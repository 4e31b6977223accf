package channel

import (
	"context"
	"fmt"
	"time"

	"github.com/shandysiswandi/goverify/internal/pkg/sms"
)

// SMSConfig configures the SMS channel.
type SMSConfig struct {
	AppName string
	CodeTTL time.Duration
	Timeout time.Duration
}

// SMS sends a code as a text message.
type SMS struct {
	client sms.SMS
	cfg    SMSConfig
}

func NewSMS(client sms.SMS, cfg SMSConfig) *SMS {
	return &SMS{client: client, cfg: cfg}
}

func (s *SMS) Send(ctx context.Context, address, code string) error {
	ctx, cancel := withTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	return s.client.Send(ctx, address, textMessage(s.cfg.AppName, code, s.cfg.CodeTTL))
}

func textMessage(appName, code string, ttl time.Duration) string {
	if appName == "" {
		return fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, expiryMinutes(ttl))
	}
	return fmt.Sprintf("Your %s verification code is %s. It expires in %d minutes.", appName, code, expiryMinutes(ttl))
}
