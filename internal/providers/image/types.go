package image

import (
	"context"
	"fmt"
	"strings"

	"dreamvisualizer/internal/domain"
)

// Model identifies a diffusion checkpoint family.
type Model string

const (
	ModelSD15 Model = "sd15"
	ModelSDXL Model = "sdxl"
)

// ModelDefaults are the generation parameters used when a request leaves them unset.
type ModelDefaults struct {
	Width    int
	Height   int
	Steps    int
	Guidance float64
}

var defaults = map[Model]ModelDefaults{
	ModelSD15: {Width: 768, Height: 512, Steps: 25, Guidance: 7.5},
	ModelSDXL: {Width: 1024, Height: 1024, Steps: 30, Guidance: 7.0},
}

// ParseModel normalises a model name. Empty input selects sd15.
func ParseModel(s string) (Model, error) {
	m := Model(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModelSD15, nil
	}
	if _, ok := defaults[m]; !ok {
		return "", domain.Invalid(fmt.Sprintf("Unsupported model: %s", s))
	}
	return m, nil
}

// Defaults returns the parameters for m, falling back to sd15.
func (m Model) Defaults() ModelDefaults {
	if d, ok := defaults[m]; ok {
		return d
	}
	return defaults[ModelSD15]
}

// Request is a single text-to-image call.
type Request struct {
	Model          Model
	Prompt         string
	NegativePrompt string
	Width          int
	Height         int
	Steps          int
	Guidance       float64
}

// WithDefaults fills zero-valued parameters from the model defaults.
func (r Request) WithDefaults() Request {
	if r.Model == "" {
		r.Model = ModelSD15
	}
	d := r.Model.Defaults()
	if r.Width <= 0 {
		r.Width = d.Width
	}
	if r.Height <= 0 {
		r.Height = d.Height
	}
	if r.Steps <= 0 {
		r.Steps = d.Steps
	}
	if r.Guidance <= 0 {
		r.Guidance = d.Guidance
	}
	return r
}

// Generator is the contract implemented by all image backends. A nil slice
// with a nil error means the backend produced no image for the prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}
