package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dreamvisualizer/internal/domain"
)

type fakeRepo struct {
	counts    map[string]int64
	sums      map[string]float64
	since     []time.Time
	daily     []domain.TimeseriesPoint
	topLimit  int
	snapshots []domain.DailySnapshot
	events    []domain.Event
	failCount error
}

func key(types []string) string {
	out := ""
	for _, t := range types {
		out += t + ","
	}
	return out
}

func (f *fakeRepo) CountEvents(ctx context.Context, types []string) (int64, error) {
	if f.failCount != nil {
		return 0, f.failCount
	}
	return f.counts[key(types)], nil
}

func (f *fakeRepo) SumMeta(ctx context.Context, types []string, field string) (float64, error) {
	return f.sums[key(types)+field], nil
}

func (f *fakeRepo) CountActiveUsers(ctx context.Context, since time.Time) (int64, error) {
	f.since = append(f.since, since)
	return int64(len(f.since)), nil
}

func (f *fakeRepo) DailyCounts(ctx context.Context, types []string) ([]domain.TimeseriesPoint, error) {
	return append([]domain.TimeseriesPoint(nil), f.daily...), nil
}

func (f *fakeRepo) DailySums(ctx context.Context, types []string, field string) ([]domain.TimeseriesPoint, error) {
	return append([]domain.TimeseriesPoint(nil), f.daily...), nil
}

func (f *fakeRepo) TopModels(ctx context.Context, limit int) ([]domain.ModelUsage, error) {
	f.topLimit = limit
	return []domain.ModelUsage{{Model: "sd15", Count: 3}}, nil
}

func (f *fakeRepo) UpsertSnapshot(ctx context.Context, snap domain.DailySnapshot) error {
	f.snapshots = append(f.snapshots, snap)
	return nil
}

func (f *fakeRepo) Insert(ctx context.Context, ev *domain.Event) error {
	ev.ID = "ev-1"
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakeRepo) Export(ctx context.Context, limit int, fn func(domain.Event) error) error {
	for i, ev := range f.events {
		if i >= limit {
			break
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
	return nil
}

func fixedAggregator(repo *fakeRepo, now time.Time) *Aggregator {
	a := NewAggregator(repo)
	a.now = func() time.Time { return now }
	return a
}

func TestOverview(t *testing.T) {
	repo := &fakeRepo{
		counts: map[string]int64{
			"dream_created,":                                 4,
			"image_generated,":                               9,
			"video_rendered,":                                1,
			"export_storybook,export_comic,export_bundle,": 2,
		},
		sums: map[string]float64{"audio_generated,duration_seconds": 90},
	}
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	agg := fixedAggregator(repo, now)

	o, err := agg.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), o.TotalDreams)
	assert.Equal(t, int64(9), o.TotalImages)
	assert.Equal(t, 1.5, o.AudioMinutes)
	assert.Equal(t, int64(1), o.VideoRenderCount)
	assert.Equal(t, int64(2), o.ExportsCount)
	require.Len(t, repo.since, 2)
	assert.Equal(t, now.Add(-7*24*time.Hour), repo.since[0])
	assert.Equal(t, now.Add(-30*24*time.Hour), repo.since[1])
}

func TestOverviewPropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	agg := NewAggregator(&fakeRepo{failCount: boom})
	_, err := agg.Overview(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestTimeseriesUnsupportedMetric(t *testing.T) {
	agg := NewAggregator(&fakeRepo{})
	_, err := agg.Timeseries(context.Background(), "sleep_hours")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedMetric)
	assert.Equal(t, "Unsupported metric: sleep_hours", err.Error())
}

func TestTimeseriesAudioMinutesScaled(t *testing.T) {
	repo := &fakeRepo{daily: []domain.TimeseriesPoint{{Date: "2024-01-01", Value: 120}}}
	agg := NewAggregator(repo)

	points, err := agg.Timeseries(context.Background(), "audio_minutes")
	require.NoError(t, err)
	assert.Equal(t, []domain.TimeseriesPoint{{Date: "2024-01-01", Value: 2}}, points)

	points, err = agg.Timeseries(context.Background(), "images")
	require.NoError(t, err)
	assert.Equal(t, 120.0, points[0].Value)
}

func TestTopModelsClampsLimit(t *testing.T) {
	repo := &fakeRepo{}
	agg := NewAggregator(repo)

	for _, tc := range []struct{ in, want int }{{0, 5}, {7, 7}, {500, 50}} {
		_, err := agg.TopModels(context.Background(), tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, repo.topLimit, "limit %d", tc.in)
	}
}

func TestSnapshotUsesUTCDay(t *testing.T) {
	repo := &fakeRepo{counts: map[string]int64{"dream_created,": 3}}
	now := time.Date(2024, 3, 10, 1, 0, 5, 0, time.UTC)
	agg := fixedAggregator(repo, now)

	snap, err := agg.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, repo.snapshots, 1)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), snap.Date)
	assert.Equal(t, now, snap.CapturedAt)
	assert.Equal(t, int64(3), snap.TotalDreams)
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(NewAggregator(&fakeRepo{}), "not a cron", zerolog.Nop())
	assert.Error(t, err)

	s, err := NewScheduler(NewAggregator(&fakeRepo{}), "0 1 * * *", zerolog.Nop())
	require.NoError(t, err)
	s.Start()
	s.Stop(context.Background())
}

func TestLoggerAndCSVExport(t *testing.T) {
	repo := &fakeRepo{}
	logger := NewLogger(repo, zerolog.Nop())
	require.NoError(t, logger.Log(context.Background(), domain.EventImageGenerated, "u-1", "", map[string]any{"model": "sd15"}))
	require.NoError(t, logger.Log(context.Background(), domain.EventDreamCreated, "", "", nil))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(context.Background(), repo, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "event_type", "user_id", "dream_id", "created_at", "meta"}, records[0])
	assert.Equal(t, "image_generated", records[1][1])
	assert.Equal(t, "u-1", records[1][2])
	assert.Equal(t, `{"model":"sd15"}`, records[1][5])
	assert.Equal(t, "{}", records[2][5])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(context.Background(), &fakeRepo{}, &buf))
	assert.Equal(t, "id,event_type,user_id,dream_id,created_at,meta\n", buf.String())
}
