// Package exporter packages generated dreams as storybook PDFs, comics and
// downloadable bundles.
package exporter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/storage"
)

// MaxStorybookScenes bounds storybook exports.
const MaxStorybookScenes = 10

// maxImageEdge caps embedded images so PDFs stay small.
const maxImageEdge = 1600

// Scene is one page or panel of an export.
type Scene struct {
	ID      *int   `json:"id,omitempty"`
	Text    string `json:"text"`
	Emotion string `json:"emotion,omitempty"`
	Summary string `json:"summary,omitempty"`
}

type StorybookRequest struct {
	Scenes         []Scene  `json:"scenes"`
	ImageURLs      []string `json:"image_urls"`
	OverallSummary string   `json:"overall_summary,omitempty"`
}

// Comic formats.
const (
	FormatPDF = "pdf"
	FormatCBZ = "cbz"
)

type ComicRequest struct {
	Scenes    []Scene  `json:"scenes"`
	ImageURLs []string `json:"image_urls"`
	Format    string   `json:"format,omitempty"`
}

type BundleRequest struct {
	ImageURLs []string       `json:"image_urls"`
	AudioURLs []string       `json:"audio_urls"`
	VideoURL  string         `json:"video_url,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Result is the public URL of a produced export.
type Result struct {
	URL string `json:"url"`
}

// EventLogger appends analytics events.
type EventLogger interface {
	Log(ctx context.Context, eventType, userID, dreamID string, meta map[string]any) error
}

// ExportJournal records produced exports.
type ExportJournal interface {
	SavePDF(ctx context.Context, userID, url, kind string) (string, error)
	SaveZip(ctx context.Context, userID, url string) (string, error)
}

// Exporter renders exports from stored artifacts.
type Exporter struct {
	store   storage.Store
	events  EventLogger
	journal ExportJournal
	now     func() time.Time
	newID   func() string
	logger  zerolog.Logger
}

func New(store storage.Store, events EventLogger, journal ExportJournal, logger *zerolog.Logger) *Exporter {
	l := zerolog.New(io.Discard)
	if logger != nil {
		l = *logger
	}
	return &Exporter{
		store:   store,
		events:  events,
		journal: journal,
		now:     time.Now,
		newID:   func() string { return uuid.NewString()[:8] },
		logger:  l,
	}
}

// publish stores an export, logs its event and records it in the journal.
func (e *Exporter) publish(ctx context.Context, userID, name, contentType string, data []byte, eventType string, meta map[string]any, record func(url string) error) (*Result, error) {
	key, err := e.store.Write(ctx, storage.PrefixExports+"/"+name, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("store export: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	meta["filename"] = name
	if err := e.events.Log(ctx, eventType, userID, "", meta); err != nil {
		return nil, err
	}
	url := e.store.URL(key)
	if err := record(url); err != nil {
		return nil, err
	}
	e.logger.Info().Str("export", name).Int("bytes", len(data)).Msg("export written")
	return &Result{URL: url}, nil
}

func (e *Exporter) fileName(prefix, ext string) string {
	return fmt.Sprintf("%s_%d_%s.%s", prefix, e.now().Unix(), e.newID(), ext)
}

// loadImage reads the stored image behind url and fits it within maxImageEdge.
// A missing image yields nil without error.
func (e *Exporter) loadImage(ctx context.Context, url string) (image.Image, error) {
	key, ok := storage.KeyFromURL(storage.PrefixImages, url)
	if !ok {
		return nil, nil
	}
	data, err := e.store.Read(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			e.logger.Debug().Str("image", key).Msg("export image missing; skipped")
			return nil, nil
		}
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		e.logger.Warn().Err(err).Str("image", key).Msg("export image undecodable; skipped")
		return nil, nil
	}
	b := img.Bounds()
	if b.Dx() > maxImageEdge || b.Dy() > maxImageEdge {
		img = imaging.Fit(img, maxImageEdge, maxImageEdge, imaging.Lanczos)
	}
	return img, nil
}

// sceneImages loads the image for each scene position; absent entries are nil.
func (e *Exporter) sceneImages(ctx context.Context, n int, urls []string) ([]image.Image, error) {
	out := make([]image.Image, n)
	for i := 0; i < n && i < len(urls); i++ {
		img, err := e.loadImage(ctx, urls[i])
		if err != nil {
			return nil, err
		}
		out[i] = img
	}
	return out, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
