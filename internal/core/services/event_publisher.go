package services

import (
	"context"
	"log/slog"

	portssvc "github.com/openbooks/ledger_app/internal/core/ports/services"
	"github.com/openbooks/ledger_app/internal/middleware"
)

// logEventPublisher emits domain events as structured log records. It stands in
// for a real broker: consumers tail the event log, and swapping in a queue later
// only means providing another portssvc.EventPublisher.
type logEventPublisher struct{}

// NewLogEventPublisher returns an EventPublisher backed by slog.
func NewLogEventPublisher() portssvc.EventPublisher {
	return &logEventPublisher{}
}

var _ portssvc.EventPublisher = (*logEventPublisher)(nil)

func (p *logEventPublisher) Publish(ctx context.Context, eventName string, payload any) {
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("domain event",
		slog.String("event", eventName),
		slog.Any("payload", payload),
	)
}
