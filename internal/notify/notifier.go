// Package notify abstracts the delivery channel for one-time access codes.
package notify

import (
	"context"

	"github.com/dmitrijs2005/userkeeper/internal/logging"
)

// Notifier delivers an access code to a destination (a phone number).
// Delivery is best effort; callers treat it as fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, destination, code string) error
}

// LogNotifier writes the would-be SMS to the log. Stands in for a real
// gateway in development and tests.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "notify")}
}

func (n *LogNotifier) Notify(ctx context.Context, destination, code string) error {
	n.logger.Info(ctx, "sending access code", "destination", destination)
	n.logger.Debug(ctx, "access code issued", "destination", destination, "code", code)
	return nil
}
