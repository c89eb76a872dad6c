package domain

import "time"

// Overview aggregates the headline analytics counters.
type Overview struct {
	TotalDreams      int64   `json:"total_dreams"`
	TotalImages      int64   `json:"total_images"`
	AudioMinutes     float64 `json:"audio_minutes"`
	VideoRenderCount int64   `json:"video_render_count"`
	ExportsCount     int64   `json:"exports_count"`
	ActiveUsers7d    int64   `json:"active_users_7d"`
	ActiveUsers30d   int64   `json:"active_users_30d"`
}

// DailySnapshot stores the overview captured for one day.
type DailySnapshot struct {
	Date       time.Time
	CapturedAt time.Time
	Overview
}

// TimeseriesPoint is one daily bucket.
type TimeseriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// ModelUsage counts events attributed to one generation model.
type ModelUsage struct {
	Model string `json:"model"`
	Count int64  `json:"count"`
}
