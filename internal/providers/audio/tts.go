package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"dreamvisualizer/internal/domain"
)

// TTSOptions configures the Coqui-compatible TTS client.
type TTSOptions struct {
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *zerolog.Logger
	RequestTimeout time.Duration
}

// TTSClient calls the /api/tts endpoint of a Coqui TTS server.
type TTSClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewTTSClient(opts TTSOptions) *TTSClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 2 * time.Minute
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &TTSClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Synthesize returns WAV bytes for req.
func (c *TTSClient) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	req, err := validate(req)
	if err != nil {
		return nil, err
	}
	if c.baseURL == "" {
		return nil, domain.Unavailable("TTS service is not configured")
	}

	q := url.Values{}
	q.Set("text", req.Text)
	q.Set("language_id", req.Language.Code())
	if req.Voice != DefaultVoice {
		q.Set("speaker_id", req.Voice)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tts?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("tts: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "audio/wav")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tts: http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tts: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("tts: empty audio")
	}
	c.logger.Debug().
		Str("language", req.Language.Name).
		Str("voice", req.Voice).
		Int("bytes", len(data)).
		Msg("tts: synthesized narration")
	return data, nil
}

var _ Synthesizer = (*TTSClient)(nil)
