// Package audio turns scene text into narrated WAV audio.
package audio

import (
	"context"
	"strings"

	"dreamvisualizer/internal/domain"
)

// DefaultVoice is the voice style used when a request names none.
const DefaultVoice = "default"

// Request is a single narration call.
type Request struct {
	Text     string
	Language Language
	Voice    string
}

// Synthesizer is implemented by narration backends. Output is WAV bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}

// CleanText collapses whitespace in narration input.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func validate(req Request) (Request, error) {
	req.Text = CleanText(req.Text)
	if req.Text == "" {
		return req, domain.Invalid("Text is empty")
	}
	if req.Language.Name == "" {
		req.Language = DefaultLanguage
	}
	if strings.TrimSpace(req.Voice) == "" {
		req.Voice = DefaultVoice
	}
	return req, nil
}
