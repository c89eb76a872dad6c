package domain

import "time"

// Analytics event types.
const (
	EventDreamCreated    = "dream_created"
	EventImageGenerated  = "image_generated"
	EventAudioGenerated  = "audio_generated"
	EventVideoRendered   = "video_rendered"
	EventExportStorybook = "export_storybook"
	EventExportComic     = "export_comic"
	EventExportBundle    = "export_bundle"
	EventUserLogin       = "user_login"
)

// ExportEventTypes lists every event counted as an export.
var ExportEventTypes = []string{EventExportStorybook, EventExportComic, EventExportBundle}

// Event is an immutable analytics record. Duplicates are valid.
type Event struct {
	ID        string
	Type      string
	UserID    string
	DreamID   string
	Meta      map[string]any
	CreatedAt time.Time
}
