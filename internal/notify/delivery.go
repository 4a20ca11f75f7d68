package notify

import (
	"context"
	"log/slog"
	"time"
)

// Sender delivers an outbound alert. Implementations are external
// collaborators (webhook, messaging app); failures must never roll back a
// committed mutation.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, text string) error

func (f SenderFunc) Send(ctx context.Context, text string) error { return f(ctx, text) }

// LogSender writes alerts to the structured log instead of the network.
// The default collaborator when no delivery channel is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, text string) error {
	slog.Info("outbound alert", "text", text)
	return nil
}

// Delivery retry policy. Kept small: alerts are best-effort and a human
// is usually sitting in front of the tool anyway.
const (
	deliveryAttempts = 3
	deliveryBackoff  = 200 * time.Millisecond
)

// Deliver sends text through s with bounded retry and exponential backoff.
// Returns the last error after all attempts fail; callers treat that as
// degraded mode, never as operation failure.
func Deliver(ctx context.Context, s Sender, text string) error {
	if s == nil {
		return nil
	}
	var err error
	backoff := deliveryBackoff
	for attempt := 1; attempt <= deliveryAttempts; attempt++ {
		if err = s.Send(ctx, text); err == nil {
			return nil
		}
		if attempt == deliveryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
