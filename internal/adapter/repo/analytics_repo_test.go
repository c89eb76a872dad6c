package repo

import (
	"context"
	"testing"

	"dreamvisualizer/internal/domain"
)

func TestAnalyticsRepositoryDailyCounts(t *testing.T) {
	exec := &stubExecutor{rows: &sliceRows{data: [][]any{
		{"2024-01-01", float64(2)},
		{"2024-01-03", float64(5)},
	}}}
	repo := NewAnalyticsRepository(exec)

	points, err := repo.DailyCounts(context.Background(), []string{domain.EventImageGenerated})
	if err != nil {
		t.Fatalf("DailyCounts() error = %v", err)
	}
	want := []domain.TimeseriesPoint{{Date: "2024-01-01", Value: 2}, {Date: "2024-01-03", Value: 5}}
	if len(points) != len(want) {
		t.Fatalf("len = %d, want %d", len(points), len(want))
	}
	for i := range want {
		if points[i] != want[i] {
			t.Fatalf("points[%d] = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestAnalyticsRepositoryCountEvents(t *testing.T) {
	exec := &stubExecutor{row: valuesRow(int64(7))}
	repo := NewAnalyticsRepository(exec)

	n, err := repo.CountEvents(context.Background(), domain.ExportEventTypes)
	if err != nil {
		t.Fatalf("CountEvents() error = %v", err)
	}
	if n != 7 {
		t.Fatalf("CountEvents() = %d, want 7", n)
	}
	types, ok := exec.calls[0].args[0].([]string)
	if !ok || len(types) != 3 {
		t.Fatalf("types arg = %#v", exec.calls[0].args[0])
	}
}
