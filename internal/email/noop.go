package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// NoopSender logs instead of delivering. Used when no mail credentials are
// configured and in tests.
type NoopSender struct{}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) Send(_ context.Context, msg Message) (Result, error) {
	slog.Info("email skipped, no transport configured", "to", msg.To, "subject", msg.Subject)
	return Result{MessageID: fmt.Sprintf("noop-%d", time.Now().UnixNano())}, nil
}
