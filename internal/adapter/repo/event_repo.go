package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/infra"
	"dreamvisualizer/internal/sqlinline"
)

// EventRepositoryPG appends analytics events to PostgreSQL.
type EventRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewEventRepository constructs an EventRepositoryPG.
func NewEventRepository(sql infra.SQLExecutor) *EventRepositoryPG {
	return &EventRepositoryPG{sql: sql}
}

// Insert stores ev and fills in its ID and CreatedAt.
func (r *EventRepositoryPG) Insert(ctx context.Context, ev *domain.Event) error {
	meta := ev.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	payload, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode event meta: %w", err)
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	if err := r.sql.QueryRow(ctx, sqlinline.QInsertEvent, ev.Type, ev.UserID, ev.DreamID, string(payload), ev.CreatedAt).Scan(&ev.ID); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Export streams up to limit events, oldest first.
func (r *EventRepositoryPG) Export(ctx context.Context, limit int, fn func(domain.Event) error) error {
	rows, err := r.sql.Query(ctx, sqlinline.QExportEvents, limit)
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ev   domain.Event
			meta []byte
		)
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.UserID, &ev.DreamID, &meta, &ev.CreatedAt); err != nil {
			return fmt.Errorf("scan event: %w", err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &ev.Meta); err != nil {
				return fmt.Errorf("decode event meta: %w", err)
			}
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
	return rows.Err()
}

var _ domain.EventRepository = (*EventRepositoryPG)(nil)
