package pipeline

import (
	"context"

	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/providers/audio"
	"dreamvisualizer/internal/providers/image"
)

// MaxScenes bounds the scenes accepted by one generation request.
const MaxScenes = 10

// SceneInput is one scene of a generation request.
type SceneInput struct {
	ID      *int   `json:"id,omitempty"`
	Text    string `json:"text"`
	Emotion string `json:"emotion,omitempty"`
}

// SceneID returns the caller's scene id, or the 1-based position.
func (s SceneInput) SceneID(position int) int {
	if s.ID != nil {
		return *s.ID
	}
	return position
}

type ImageRequest struct {
	Model          string       `json:"model"`
	Scenes         []SceneInput `json:"scenes"`
	NegativePrompt string       `json:"negative_prompt,omitempty"`
	Width          int          `json:"width,omitempty"`
	Height         int          `json:"height,omitempty"`
	Steps          int          `json:"steps,omitempty"`
}

// Validate checks the request without generating anything.
func (r ImageRequest) Validate() error {
	if err := checkSceneCount(len(r.Scenes)); err != nil {
		return err
	}
	if _, err := image.ParseModel(r.Model); err != nil {
		return err
	}
	if r.Width < 0 || r.Height < 0 || r.Steps < 0 {
		return domain.Invalid("width, height and steps must be positive")
	}
	return nil
}

type AudioRequest struct {
	Scenes   []SceneInput `json:"scenes"`
	Language string       `json:"language"`
	Voice    string       `json:"voice"`
}

func (r AudioRequest) Validate() error {
	if err := checkSceneCount(len(r.Scenes)); err != nil {
		return err
	}
	_, err := audio.ParseLanguage(r.Language)
	return err
}

type VideoRequest struct {
	ImageURLs []string `json:"image_urls"`
	AudioURLs []string `json:"audio_urls"`
}

func (r VideoRequest) Validate() error {
	if len(r.ImageURLs) == 0 || len(r.AudioURLs) == 0 {
		return domain.Invalid("image_urls and audio_urls are required")
	}
	if len(r.ImageURLs) != len(r.AudioURLs) {
		return domain.Invalid("image_urls and audio_urls must have the same length")
	}
	return nil
}

type ImageResult struct {
	Images []string `json:"images"`
}

type AudioResult struct {
	AudioFiles []string `json:"audio_files"`
}

type VideoResult struct {
	VideoURL string `json:"video_url"`
}

func checkSceneCount(n int) error {
	if n == 0 {
		return domain.Invalid("At least one scene is required")
	}
	if n > MaxScenes {
		return domain.Invalid("Maximum 10 scenes are allowed")
	}
	return nil
}

// Progress receives progress updates from a running pipeline.
type Progress interface {
	// Progress reports percent complete in [0,100].
	Progress(ctx context.Context, percent float64) error
	// Finishing marks the start of the final composition step.
	Finishing(ctx context.Context) error
}

// NoProgress discards updates; synchronous endpoints use it.
var NoProgress Progress = noProgress{}

type noProgress struct{}

func (noProgress) Progress(context.Context, float64) error { return nil }
func (noProgress) Finishing(context.Context) error         { return nil }

// EventLogger appends analytics events.
type EventLogger interface {
	Log(ctx context.Context, eventType, userID, dreamID string, meta map[string]any) error
}

// AssetJournal records produced artifacts.
type AssetJournal interface {
	SaveImage(ctx context.Context, userID, url string, sceneIndex int) (string, error)
	SaveAudio(ctx context.Context, userID, url string, sceneIndex int) (string, error)
	SaveVideo(ctx context.Context, userID, url string) (string, error)
}
