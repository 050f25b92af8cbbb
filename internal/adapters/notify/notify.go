// Package notify provides Notifier implementations: a structured-log
// notifier for default wiring and a webhook notifier for surfacing
// notifications to an external channel.
package notify

import (
	"log/slog"

	"context"

	"github.com/placementhub/portal-api/internal/ports"
)

// SlogNotifier records notifications through the structured logger. It is
// the default notifier when no webhook is configured.
type SlogNotifier struct {
	logger *slog.Logger
}

var _ ports.Notifier = (*SlogNotifier)(nil)

// NewSlogNotifier creates a logger-backed notifier.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogNotifier{logger: logger}
}

func (n *SlogNotifier) Notify(ctx context.Context, kind ports.NotifyKind, message string) {
	switch kind {
	case ports.NotifyError:
		n.logger.WarnContext(ctx, "notification", "kind", kind, "message", message)
	default:
		n.logger.InfoContext(ctx, "notification", "kind", kind, "message", message)
	}
}
