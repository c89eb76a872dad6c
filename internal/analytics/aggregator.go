package analytics

import (
	"context"
	"time"

	"dreamvisualizer/internal/domain"
)

const (
	// DefaultTopModels is used when no limit is requested.
	DefaultTopModels = 5
	// MaxTopModels bounds the top-models limit.
	MaxTopModels = 50

	durationField = "duration_seconds"
)

type metricDef struct {
	eventTypes []string
	sumField   string
	scale      float64
}

var metricDefs = map[string]metricDef{
	"dreams":        {eventTypes: []string{domain.EventDreamCreated}},
	"images":        {eventTypes: []string{domain.EventImageGenerated}},
	"video_renders": {eventTypes: []string{domain.EventVideoRendered}},
	"exports":       {eventTypes: domain.ExportEventTypes},
	"audio_minutes": {eventTypes: []string{domain.EventAudioGenerated}, sumField: durationField, scale: 1.0 / 60},
}

// SupportedMetric reports whether Timeseries accepts metric.
func SupportedMetric(metric string) bool {
	_, ok := metricDefs[metric]
	return ok
}

// Aggregator answers analytics queries directly from the event log. Nothing is cached.
type Aggregator struct {
	repo domain.AnalyticsRepository
	now  func() time.Time
}

// NewAggregator constructs an Aggregator.
func NewAggregator(repo domain.AnalyticsRepository) *Aggregator {
	return &Aggregator{repo: repo, now: time.Now}
}

func (a *Aggregator) TotalDreams(ctx context.Context) (int64, error) {
	return a.repo.CountEvents(ctx, []string{domain.EventDreamCreated})
}

func (a *Aggregator) TotalImages(ctx context.Context) (int64, error) {
	return a.repo.CountEvents(ctx, []string{domain.EventImageGenerated})
}

func (a *Aggregator) VideoRenderCount(ctx context.Context) (int64, error) {
	return a.repo.CountEvents(ctx, []string{domain.EventVideoRendered})
}

func (a *Aggregator) ExportsCount(ctx context.Context) (int64, error) {
	return a.repo.CountEvents(ctx, domain.ExportEventTypes)
}

// AudioMinutes sums meta.duration_seconds of audio events, in minutes.
func (a *Aggregator) AudioMinutes(ctx context.Context) (float64, error) {
	seconds, err := a.repo.SumMeta(ctx, []string{domain.EventAudioGenerated}, durationField)
	if err != nil {
		return 0, err
	}
	return seconds / 60, nil
}

// ActiveUsers counts distinct users with any event in the last days days.
func (a *Aggregator) ActiveUsers(ctx context.Context, days int) (int64, error) {
	since := a.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	return a.repo.CountActiveUsers(ctx, since)
}

// Overview computes every headline counter.
func (a *Aggregator) Overview(ctx context.Context) (domain.Overview, error) {
	var (
		o   domain.Overview
		err error
	)
	if o.TotalDreams, err = a.TotalDreams(ctx); err != nil {
		return o, err
	}
	if o.TotalImages, err = a.TotalImages(ctx); err != nil {
		return o, err
	}
	if o.AudioMinutes, err = a.AudioMinutes(ctx); err != nil {
		return o, err
	}
	if o.VideoRenderCount, err = a.VideoRenderCount(ctx); err != nil {
		return o, err
	}
	if o.ExportsCount, err = a.ExportsCount(ctx); err != nil {
		return o, err
	}
	if o.ActiveUsers7d, err = a.ActiveUsers(ctx, 7); err != nil {
		return o, err
	}
	if o.ActiveUsers30d, err = a.ActiveUsers(ctx, 30); err != nil {
		return o, err
	}
	return o, nil
}

// Timeseries returns daily UTC buckets for metric in ascending date order.
func (a *Aggregator) Timeseries(ctx context.Context, metric string) ([]domain.TimeseriesPoint, error) {
	def, ok := metricDefs[metric]
	if !ok {
		return nil, &domain.Error{Kind: domain.ErrUnsupportedMetric, Msg: "Unsupported metric: " + metric}
	}
	if def.sumField == "" {
		return a.repo.DailyCounts(ctx, def.eventTypes)
	}
	points, err := a.repo.DailySums(ctx, def.eventTypes, def.sumField)
	if err != nil {
		return nil, err
	}
	for i := range points {
		points[i].Value *= def.scale
	}
	return points, nil
}

// TopModels ranks generation models by usage. limit is clamped to 1..MaxTopModels.
func (a *Aggregator) TopModels(ctx context.Context, limit int) ([]domain.ModelUsage, error) {
	if limit < 1 {
		limit = DefaultTopModels
	}
	if limit > MaxTopModels {
		limit = MaxTopModels
	}
	return a.repo.TopModels(ctx, limit)
}
