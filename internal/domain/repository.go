package domain

import (
	"context"
	"time"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// TaskRepository persists task records. Update must not modify a task that
// already reached a terminal status.
type TaskRepository interface {
	Create(ctx context.Context, userID string, taskType TaskType) (*Task, error)
	Update(ctx context.Context, id string, upd TaskUpdate) error
	GetByID(ctx context.Context, id string) (*Task, error)
}

// EventRepository appends and scans analytics events.
type EventRepository interface {
	Insert(ctx context.Context, ev *Event) error
	Export(ctx context.Context, limit int, fn func(Event) error) error
}

// AssetRepository handles persistence for journal entries.
type AssetRepository interface {
	Insert(ctx context.Context, asset *UserAsset) error
	ListByUser(ctx context.Context, userID string, assetType *AssetType) ([]UserAsset, error)
}

// AnalyticsRepository answers the aggregate queries over analytics events.
type AnalyticsRepository interface {
	CountEvents(ctx context.Context, eventTypes []string) (int64, error)
	SumMeta(ctx context.Context, eventTypes []string, field string) (float64, error)
	CountActiveUsers(ctx context.Context, since time.Time) (int64, error)
	DailyCounts(ctx context.Context, eventTypes []string) ([]TimeseriesPoint, error)
	DailySums(ctx context.Context, eventTypes []string, field string) ([]TimeseriesPoint, error)
	TopModels(ctx context.Context, limit int) ([]ModelUsage, error)
	UpsertSnapshot(ctx context.Context, snap DailySnapshot) error
}
