// Package notify carries operator-facing notifications out of the domain
// services. The sink is injected so services never touch process-global
// state; the default sink writes structured log lines.
package notify

import (
	"context"
	"log/slog"
)

// Severity mirrors the notification levels of the operator UI.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Service receives fire-and-forget notifications. Implementations must not
// block the calling workflow.
type Service interface {
	Notify(ctx context.Context, severity Severity, message string)
}

// LogNotifier writes notifications to a slog.Logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier builds the default logging sink.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements Service.
func (n *LogNotifier) Notify(ctx context.Context, severity Severity, message string) {
	if n.logger == nil {
		return
	}
	switch severity {
	case SeverityError:
		n.logger.ErrorContext(ctx, message, slog.String("channel", "notify"))
	case SeverityWarning:
		n.logger.WarnContext(ctx, message, slog.String("channel", "notify"))
	default:
		n.logger.InfoContext(ctx, message, slog.String("channel", "notify"), slog.String("severity", string(severity)))
	}
}

// Discard drops every notification. Useful in tests.
type Discard struct{}

// Notify implements Service.
func (Discard) Notify(context.Context, Severity, string) {}
