package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/storage"
	"dreamvisualizer/pkg/zip"
)

// Bundle archives the referenced artifacts with their metadata. Artifacts that
// no longer exist are left out.
func (e *Exporter) Bundle(ctx context.Context, userID string, req BundleRequest) (*Result, error) {
	var entries []zip.Entry
	add := func(prefix, url, dir, name string) error {
		key, ok := storage.KeyFromURL(prefix, url)
		if !ok {
			return nil
		}
		data, err := e.store.Read(ctx, key)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}
		if name == "" {
			name = storage.Name(key)
		}
		entries = append(entries, zip.Entry{Name: dir + "/" + name, Data: data})
		return nil
	}

	for _, url := range req.ImageURLs {
		if err := add(storage.PrefixImages, url, "images", ""); err != nil {
			return nil, err
		}
	}
	for _, url := range req.AudioURLs {
		if err := add(storage.PrefixAudio, url, "audio", ""); err != nil {
			return nil, err
		}
	}
	if req.VideoURL != "" {
		if err := add(storage.PrefixVideos, req.VideoURL, "video", "final.mp4"); err != nil {
			return nil, err
		}
	}

	meta := req.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	entries = append(entries, zip.Entry{Name: "metadata.json", Data: buf.Bytes()})

	data, err := zip.Archive(entries)
	if err != nil {
		return nil, err
	}
	return e.publish(ctx, userID, e.fileName("bundle", "zip"), "application/zip", data,
		domain.EventExportBundle, nil, func(url string) error {
			_, err := e.journal.SaveZip(ctx, userID, url)
			return err
		})
}
