package notify

import (
	"context"
)

// Notifier is the outbound notification contract. Implementations must be
// safe to call best-effort: callers log and continue on error, so a send
// failure never propagates into payment or fulfillment state.
type Notifier interface {
	SendSMS(ctx context.Context, phone, message string) error
	SendEmail(ctx context.Context, email, subject, body string) error
	SendInApp(ctx context.Context, userID, title, message string) error
}
