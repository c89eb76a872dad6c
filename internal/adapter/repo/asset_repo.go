package repo

import (
	"context"
	"fmt"

	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/infra"
	"dreamvisualizer/internal/sqlinline"
)

// AssetRepositoryPG implements domain.AssetRepository using PostgreSQL.
type AssetRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAssetRepository constructs a new asset repository instance.
func NewAssetRepository(sql infra.SQLExecutor) *AssetRepositoryPG {
	return &AssetRepositoryPG{sql: sql}
}

// Insert records a journal entry and fills in its ID and CreatedAt.
func (r *AssetRepositoryPG) Insert(ctx context.Context, asset *domain.UserAsset) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertUserAsset, asset.UserID, string(asset.Type), asset.URL, asset.SceneIndex)
	if err := row.Scan(&asset.ID, &asset.CreatedAt); err != nil {
		return fmt.Errorf("insert user asset: %w", err)
	}
	return nil
}

// ListByUser returns the user's assets newest first, optionally filtered by type.
func (r *AssetRepositoryPG) ListByUser(ctx context.Context, userID string, assetType *domain.AssetType) ([]domain.UserAsset, error) {
	var filter any
	if assetType != nil {
		filter = string(*assetType)
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListUserAssets, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("query user assets: %w", err)
	}
	defer rows.Close()

	assets := make([]domain.UserAsset, 0)
	for rows.Next() {
		var (
			a          domain.UserAsset
			typ        string
			sceneIndex *int
		)
		if err := rows.Scan(&a.ID, &a.UserID, &typ, &a.URL, &sceneIndex, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user asset: %w", err)
		}
		a.Type = domain.AssetType(typ)
		a.SceneIndex = sceneIndex
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

var _ domain.AssetRepository = (*AssetRepositoryPG)(nil)
