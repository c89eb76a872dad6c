package repo

import (
	"context"
	"testing"
	"time"

	"dreamvisualizer/internal/domain"
)

func TestAssetRepositoryListByUserFilter(t *testing.T) {
	newer := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	idx := 2
	rows := &sliceRows{data: [][]any{
		{"a-2", "u-1", "image", "/generated/b.png", &idx, newer},
		{"a-1", "u-1", "image", "/generated/a.png", nil, older},
	}}
	exec := &stubExecutor{rows: rows}
	repo := NewAssetRepository(exec)

	typ := domain.AssetTypeImage
	assets, err := repo.ListByUser(context.Background(), "u-1", &typ)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("len = %d, want 2", len(assets))
	}
	if assets[0].SceneIndex == nil || *assets[0].SceneIndex != 2 {
		t.Fatalf("SceneIndex = %v, want 2", assets[0].SceneIndex)
	}
	if assets[1].SceneIndex != nil {
		t.Fatalf("SceneIndex = %v, want nil", *assets[1].SceneIndex)
	}
	if got := exec.calls[0].args[1]; got != "image" {
		t.Fatalf("filter arg = %v, want image", got)
	}
}

func TestAssetRepositoryListByUserNoFilter(t *testing.T) {
	exec := &stubExecutor{rows: &sliceRows{}}
	repo := NewAssetRepository(exec)

	assets, err := repo.ListByUser(context.Background(), "u-1", nil)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if assets == nil || len(assets) != 0 {
		t.Fatalf("assets = %#v, want empty slice", assets)
	}
	if got := exec.calls[0].args[1]; got != nil {
		t.Fatalf("filter arg = %v, want nil", got)
	}
}
