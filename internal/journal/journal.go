// Package journal records every artifact produced for a user and lists them
// back newest first.
package journal

import (
	"context"
	"fmt"
	"time"

	"dreamvisualizer/internal/domain"
)

// Entry is the API representation of a journal asset.
type Entry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Type       string    `json:"type"`
	URL        string    `json:"url"`
	SceneIndex *int      `json:"scene_index"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Journal wraps the asset repository.
type Journal struct {
	repo domain.AssetRepository
}

// New constructs a Journal.
func New(repo domain.AssetRepository) *Journal {
	return &Journal{repo: repo}
}

// Save appends an asset record and returns its id.
func (j *Journal) Save(ctx context.Context, userID string, assetType domain.AssetType, url string, sceneIndex *int) (string, error) {
	asset := &domain.UserAsset{
		UserID:     userID,
		Type:       assetType,
		URL:        url,
		SceneIndex: sceneIndex,
	}
	if err := j.repo.Insert(ctx, asset); err != nil {
		return "", fmt.Errorf("save %s asset: %w", assetType, err)
	}
	return asset.ID, nil
}

func (j *Journal) SaveImage(ctx context.Context, userID, url string, sceneIndex int) (string, error) {
	return j.Save(ctx, userID, domain.AssetTypeImage, url, &sceneIndex)
}

func (j *Journal) SaveAudio(ctx context.Context, userID, url string, sceneIndex int) (string, error) {
	return j.Save(ctx, userID, domain.AssetTypeAudio, url, &sceneIndex)
}

func (j *Journal) SaveVideo(ctx context.Context, userID, url string) (string, error) {
	return j.Save(ctx, userID, domain.AssetTypeVideo, url, nil)
}

// SavePDF stores a PDF-like export. kind is "pdf" or "comic"; anything else is stored as pdf.
func (j *Journal) SavePDF(ctx context.Context, userID, url, kind string) (string, error) {
	assetType := domain.AssetTypePDF
	if kind == string(domain.AssetTypeComic) {
		assetType = domain.AssetTypeComic
	}
	return j.Save(ctx, userID, assetType, url, nil)
}

func (j *Journal) SaveZip(ctx context.Context, userID, url string) (string, error) {
	return j.Save(ctx, userID, domain.AssetTypeZip, url, nil)
}

// List returns all of the user's assets newest first.
func (j *Journal) List(ctx context.Context, userID string) ([]Entry, error) {
	return j.list(ctx, userID, nil)
}

// ListByType returns the user's assets of one type newest first.
func (j *Journal) ListByType(ctx context.Context, userID string, assetType domain.AssetType) ([]Entry, error) {
	return j.list(ctx, userID, &assetType)
}

func (j *Journal) list(ctx context.Context, userID string, assetType *domain.AssetType) ([]Entry, error) {
	assets, err := j.repo.ListByUser(ctx, userID, assetType)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(assets))
	for _, a := range assets {
		out = append(out, Entry{
			ID:         a.ID,
			UserID:     a.UserID,
			Type:       string(a.Type),
			URL:        a.URL,
			SceneIndex: a.SceneIndex,
			CreatedAt:  a.CreatedAt,
		})
	}
	return out, nil
}
