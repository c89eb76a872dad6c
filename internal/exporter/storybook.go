package exporter

import (
	"context"
	"strings"

	"dreamvisualizer/internal/domain"
)

// Storybook renders one page per scene, preceded by an optional summary page.
func (e *Exporter) Storybook(ctx context.Context, userID string, req StorybookRequest) (*Result, error) {
	if len(req.Scenes) == 0 {
		return nil, domain.Invalid("At least one scene is required.")
	}
	if len(req.Scenes) > MaxStorybookScenes {
		return nil, domain.Invalid("Maximum 10 scenes are allowed.")
	}
	images, err := e.sceneImages(ctx, len(req.Scenes), req.ImageURLs)
	if err != nil {
		return nil, err
	}

	doc := newDocument("Dream Storybook")
	if summary := strings.TrimSpace(req.OverallSummary); summary != "" {
		doc.heading("Story Summary")
		doc.paragraph(summary)
		doc.pageBreak()
	}
	for i, scene := range req.Scenes {
		if images[i] != nil {
			if err := doc.image(images[i], 1.0); err != nil {
				return nil, err
			}
			doc.space(4)
		}
		text := strings.TrimSpace(scene.Text)
		if text == "" {
			text = "(No text for this scene.)"
		}
		doc.paragraph(text)
		if i != len(req.Scenes)-1 {
			doc.pageBreak()
		}
	}
	data, err := doc.bytes()
	if err != nil {
		return nil, err
	}

	return e.publish(ctx, userID, e.fileName("storybook", "pdf"), "application/pdf", data,
		domain.EventExportStorybook, nil, func(url string) error {
			_, err := e.journal.SavePDF(ctx, userID, url, "pdf")
			return err
		})
}
