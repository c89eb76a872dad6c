// Package analytics records product events and computes read-only aggregates
// over them.
package analytics

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/telemetry"
)

type eventWriter interface {
	Insert(ctx context.Context, ev *domain.Event) error
}

// Logger appends analytics events. Events are not validated or deduplicated.
type Logger struct {
	events eventWriter
	log    zerolog.Logger
}

// NewLogger constructs an event logger.
func NewLogger(events eventWriter, log zerolog.Logger) *Logger {
	return &Logger{events: events, log: log}
}

// Log appends one event. userID and dreamID may be empty.
func (l *Logger) Log(ctx context.Context, eventType, userID, dreamID string, meta map[string]any) error {
	ev := &domain.Event{
		Type:    eventType,
		UserID:  userID,
		DreamID: dreamID,
		Meta:    meta,
	}
	if err := l.events.Insert(ctx, ev); err != nil {
		return fmt.Errorf("log %s event: %w", eventType, err)
	}
	telemetry.AnalyticsEvents.WithLabelValues(eventType).Inc()
	l.log.Debug().Str("event_type", eventType).Str("event_id", ev.ID).Msg("analytics event logged")
	return nil
}
