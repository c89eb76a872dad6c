package repo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/testutil"
)

func TestPostgresRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	users := NewUserRepository(db.Runner)
	user, err := users.Create(ctx, "Dreamer@Example.com", "hash")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}
	if _, err := users.Create(ctx, "dreamer@example.com", "hash"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("duplicate email error = %v, want ErrEmailTaken", err)
	}
	if got, err := users.GetByEmail(ctx, "DREAMER@example.com"); err != nil || got.ID != user.ID {
		t.Fatalf("GetByEmail = %+v, %v", got, err)
	}

	t.Run("tasks freeze after completion", func(t *testing.T) {
		tasks := NewTaskRepository(db.Runner)
		task, err := tasks.Create(ctx, user.ID, domain.TaskTypeAudio)
		if err != nil {
			t.Fatalf("Create task: %v", err)
		}
		complete := domain.TaskStatusComplete
		progress := 100.0
		result := json.RawMessage(`{"audio_files":["/audio-files/a.wav"]}`)
		if err := tasks.Update(ctx, task.ID, domain.TaskUpdate{Status: &complete, Progress: &progress, Result: result}); err != nil {
			t.Fatalf("Update: %v", err)
		}
		failed := domain.TaskStatusFailed
		if err := tasks.Update(ctx, task.ID, domain.TaskUpdate{Status: &failed}); !errors.Is(err, domain.ErrTaskClosed) {
			t.Fatalf("update after completion error = %v, want ErrTaskClosed", err)
		}
		got, err := tasks.GetByID(ctx, task.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Status != domain.TaskStatusComplete || got.Progress != 100 {
			t.Fatalf("task = %+v", got)
		}
	})

	t.Run("events feed analytics", func(t *testing.T) {
		events := NewEventRepository(db.Runner)
		for _, model := range []string{"sd15", "sd15", "sdxl"} {
			ev := &domain.Event{Type: domain.EventImageGenerated, UserID: user.ID, Meta: map[string]any{"model": model}}
			if err := events.Insert(ctx, ev); err != nil {
				t.Fatalf("Insert event: %v", err)
			}
		}
		if err := events.Insert(ctx, &domain.Event{Type: domain.EventDreamCreated}); err != nil {
			t.Fatalf("Insert anonymous event: %v", err)
		}

		analytics := NewAnalyticsRepository(db.Runner)
		n, err := analytics.CountEvents(ctx, []string{domain.EventImageGenerated})
		if err != nil || n != 3 {
			t.Fatalf("CountEvents = %d, %v", n, err)
		}
		active, err := analytics.CountActiveUsers(ctx, time.Now().Add(-24*time.Hour))
		if err != nil || active != 1 {
			t.Fatalf("CountActiveUsers = %d, %v", active, err)
		}
		top, err := analytics.TopModels(ctx, 5)
		if err != nil {
			t.Fatalf("TopModels: %v", err)
		}
		if len(top) != 2 || top[0].Model != "sd15" || top[0].Count != 2 {
			t.Fatalf("TopModels = %+v", top)
		}

		var exported int
		if err := events.Export(ctx, 10, func(domain.Event) error { exported++; return nil }); err != nil || exported != 4 {
			t.Fatalf("Export = %d, %v", exported, err)
		}
	})

	t.Run("assets list newest first", func(t *testing.T) {
		assets := NewAssetRepository(db.Runner)
		first := &domain.UserAsset{UserID: user.ID, Type: domain.AssetTypeImage, URL: "/generated/a.png", SceneIndex: ptr(0)}
		if err := assets.Insert(ctx, first); err != nil {
			t.Fatalf("Insert asset: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
		second := &domain.UserAsset{UserID: user.ID, Type: domain.AssetTypeZip, URL: "/exports/b.zip"}
		if err := assets.Insert(ctx, second); err != nil {
			t.Fatalf("Insert asset: %v", err)
		}

		all, err := assets.ListByUser(ctx, user.ID, nil)
		if err != nil || len(all) != 2 || all[0].ID != second.ID {
			t.Fatalf("ListByUser = %+v, %v", all, err)
		}
		zipType := domain.AssetTypeZip
		zips, err := assets.ListByUser(ctx, user.ID, &zipType)
		if err != nil || len(zips) != 1 || zips[0].SceneIndex != nil {
			t.Fatalf("ListByUser(zip) = %+v, %v", zips, err)
		}
	})
}

func ptr[T any](v T) *T { return &v }
