package domain

import "time"

// AssetType enumerates artifact categories recorded in the journal.
type AssetType string

const (
	AssetTypeImage AssetType = "image"
	AssetTypeAudio AssetType = "audio"
	AssetTypeVideo AssetType = "video"
	AssetTypePDF   AssetType = "pdf"
	AssetTypeComic AssetType = "comic"
	AssetTypeZip   AssetType = "zip"
)

// ParseAssetType validates an asset type string.
func ParseAssetType(v string) (AssetType, bool) {
	switch AssetType(v) {
	case AssetTypeImage, AssetTypeAudio, AssetTypeVideo, AssetTypePDF, AssetTypeComic, AssetTypeZip:
		return AssetType(v), true
	}
	return "", false
}

// UserAsset records one artifact produced for a user.
type UserAsset struct {
	ID         string
	UserID     string
	Type       AssetType
	URL        string
	SceneIndex *int
	CreatedAt  time.Time
}
