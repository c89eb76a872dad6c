package analytics

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"dreamvisualizer/internal/domain"
)

// MaxExportRows bounds the raw CSV export.
const MaxExportRows = 10000

type eventSource interface {
	Export(ctx context.Context, limit int, fn func(domain.Event) error) error
}

var csvHeader = []string{"id", "event_type", "user_id", "dream_id", "created_at", "meta"}

// WriteCSV streams up to MaxExportRows raw events as CSV.
func WriteCSV(ctx context.Context, src eventSource, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	err := src.Export(ctx, MaxExportRows, func(ev domain.Event) error {
		meta := ev.Meta
		if meta == nil {
			meta = map[string]any{}
		}
		encoded, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("encode meta for event %s: %w", ev.ID, err)
		}
		return cw.Write([]string{
			ev.ID,
			ev.Type,
			ev.UserID,
			ev.DreamID,
			ev.CreatedAt.UTC().Format(time.RFC3339Nano),
			string(encoded),
		})
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
