package repo

import (
	"context"
	"fmt"
	"time"

	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/infra"
	"dreamvisualizer/internal/sqlinline"
)

// AnalyticsRepositoryPG implements domain.AnalyticsRepository using PostgreSQL.
type AnalyticsRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAnalyticsRepository constructs the repository.
func NewAnalyticsRepository(sql infra.SQLExecutor) *AnalyticsRepositoryPG {
	return &AnalyticsRepositoryPG{sql: sql}
}

func (r *AnalyticsRepositoryPG) CountEvents(ctx context.Context, eventTypes []string) (int64, error) {
	var n int64
	if err := r.sql.QueryRow(ctx, sqlinline.QCountEventsByTypes, eventTypes).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// SumMeta adds up the numeric meta field across matching events. Non-numeric
// values are ignored.
func (r *AnalyticsRepositoryPG) SumMeta(ctx context.Context, eventTypes []string, field string) (float64, error) {
	var total float64
	if err := r.sql.QueryRow(ctx, sqlinline.QSumMetaByTypes, eventTypes, field).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum event meta: %w", err)
	}
	return total, nil
}

func (r *AnalyticsRepositoryPG) CountActiveUsers(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	if err := r.sql.QueryRow(ctx, sqlinline.QCountActiveUsers, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active users: %w", err)
	}
	return n, nil
}

func (r *AnalyticsRepositoryPG) DailyCounts(ctx context.Context, eventTypes []string) ([]domain.TimeseriesPoint, error) {
	return r.points(ctx, sqlinline.QDailyEventCounts, eventTypes)
}

func (r *AnalyticsRepositoryPG) DailySums(ctx context.Context, eventTypes []string, field string) ([]domain.TimeseriesPoint, error) {
	return r.points(ctx, sqlinline.QDailyMetaSums, eventTypes, field)
}

func (r *AnalyticsRepositoryPG) points(ctx context.Context, query string, args ...any) ([]domain.TimeseriesPoint, error) {
	rows, err := r.sql.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query timeseries: %w", err)
	}
	defer rows.Close()

	points := make([]domain.TimeseriesPoint, 0)
	for rows.Next() {
		var p domain.TimeseriesPoint
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			return nil, fmt.Errorf("scan timeseries: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *AnalyticsRepositoryPG) TopModels(ctx context.Context, limit int) ([]domain.ModelUsage, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QTopModels, limit)
	if err != nil {
		return nil, fmt.Errorf("query top models: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ModelUsage, 0, limit)
	for rows.Next() {
		var m domain.ModelUsage
		if err := rows.Scan(&m.Model, &m.Count); err != nil {
			return nil, fmt.Errorf("scan top models: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpsertSnapshot writes the snapshot row for snap.Date, replacing any earlier capture.
func (r *AnalyticsRepositoryPG) UpsertSnapshot(ctx context.Context, snap domain.DailySnapshot) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpsertDailySnapshot,
		snap.Date,
		snap.CapturedAt,
		snap.TotalDreams,
		snap.TotalImages,
		snap.AudioMinutes,
		snap.VideoRenderCount,
		snap.ExportsCount,
		snap.ActiveUsers7d,
		snap.ActiveUsers30d,
	)
	if err != nil {
		return fmt.Errorf("upsert daily snapshot: %w", err)
	}
	return nil
}

var _ domain.AnalyticsRepository = (*AnalyticsRepositoryPG)(nil)
