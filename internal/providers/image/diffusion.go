package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"dreamvisualizer/internal/domain"
)

// DiffusionOptions configures the Automatic1111-compatible client.
type DiffusionOptions struct {
	BaseURL        string
	Checkpoints    map[Model]string
	HTTPClient     *http.Client
	Logger         *zerolog.Logger
	RequestTimeout time.Duration
}

// DiffusionClient calls the txt2img endpoint of a Stable Diffusion web API.
type DiffusionClient struct {
	baseURL     string
	checkpoints map[Model]string
	httpClient  *http.Client
	logger      zerolog.Logger
}

type txt2imgRequest struct {
	Prompt           string         `json:"prompt"`
	NegativePrompt   string         `json:"negative_prompt,omitempty"`
	Width            int            `json:"width"`
	Height           int            `json:"height"`
	Steps            int            `json:"steps"`
	CFGScale         float64        `json:"cfg_scale"`
	BatchSize        int            `json:"batch_size"`
	OverrideSettings map[string]any `json:"override_settings,omitempty"`
}

type txt2imgResponse struct {
	Images []string `json:"images"`
}

type apiError struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// NewDiffusionClient constructs a client. An empty base URL yields a client
// whose calls report the service as unavailable.
func NewDiffusionClient(opts DiffusionOptions) *DiffusionClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 5 * time.Minute
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &DiffusionClient{
		baseURL:     strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		checkpoints: opts.Checkpoints,
		httpClient:  httpClient,
		logger:      logger,
	}
}

// Configured reports whether a backend URL is set.
func (c *DiffusionClient) Configured() bool {
	return c.baseURL != ""
}

// Generate renders one image and returns its PNG bytes.
func (c *DiffusionClient) Generate(ctx context.Context, req Request) ([]byte, error) {
	if !c.Configured() {
		return nil, domain.Unavailable("Image generation service is not configured")
	}
	req = req.WithDefaults()
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, domain.Invalid("Prompt is empty")
	}
	payload := txt2imgRequest{
		Prompt:         prompt,
		NegativePrompt: strings.TrimSpace(req.NegativePrompt),
		Width:          req.Width,
		Height:         req.Height,
		Steps:          req.Steps,
		CFGScale:       req.Guidance,
		BatchSize:      1,
	}
	if ckpt := strings.TrimSpace(c.checkpoints[req.Model]); ckpt != "" {
		payload.OverrideSettings = map[string]any{"sd_model_checkpoint": ckpt}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("diffusion: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sdapi/v1/txt2img", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("diffusion: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("diffusion: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("diffusion: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail apiError
		if err := json.Unmarshal(raw, &detail); err == nil {
			if msg := firstNonEmpty(detail.Detail, detail.Error); msg != "" {
				return nil, fmt.Errorf("diffusion: %s (status %d)", msg, resp.StatusCode)
			}
		}
		return nil, fmt.Errorf("diffusion: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded txt2imgResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("diffusion: decode response: %w", err)
	}
	if len(decoded.Images) == 0 {
		return nil, nil
	}
	encoded := decoded.Images[0]
	// Some forks prefix a data URI.
	if _, after, ok := strings.Cut(encoded, ","); ok && strings.HasPrefix(encoded, "data:") {
		encoded = after
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("diffusion: decode image: %w", err)
	}
	c.logger.Debug().
		Str("model", string(req.Model)).
		Int("width", req.Width).
		Int("height", req.Height).
		Dur("elapsed", time.Since(start)).
		Msg("diffusion: generated image")
	return data, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var _ Generator = (*DiffusionClient)(nil)
