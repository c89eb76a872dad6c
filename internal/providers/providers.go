// Package providers selects the media backends for the running mode.
package providers

import (
	"github.com/rs/zerolog"

	"dreamvisualizer/internal/infra"
	"dreamvisualizer/internal/providers/audio"
	"dreamvisualizer/internal/providers/image"
	"dreamvisualizer/internal/providers/video"
)

// Set bundles one backend per capability.
type Set struct {
	Images   image.Generator
	Speech   audio.Synthesizer
	Clips    video.ClipMaker
	Composer video.Composer
	Lite     bool
}

// NewSet wires the full backends, or the deterministic lite variants when
// LITE_MODE is on.
func NewSet(cfg *infra.Config, logger zerolog.Logger) *Set {
	runner := video.ExecRunner{Path: cfg.FFmpegPath}
	if !runner.Available() {
		logger.Warn().Str("ffmpeg", cfg.FFmpegPath).Msg("ffmpeg not found; video rendering will fail")
	}

	if cfg.LiteMode {
		ff := video.NewFFmpeg(runner, video.ModeStill, &logger)
		logger.Info().Msg("providers: lite mode, using synthetic image and tone audio backends")
		return &Set{
			Images:   image.NewSynthetic(),
			Speech:   audio.NewToneSynth(),
			Clips:    ff,
			Composer: ff,
			Lite:     true,
		}
	}

	if cfg.ImageAPIURL == "" {
		logger.Warn().Msg("IMAGE_API_URL is not set; image generation will be unavailable")
	}
	if cfg.TTSAPIURL == "" {
		logger.Warn().Msg("TTS_API_URL is not set; audio generation will be unavailable")
	}
	ff := video.NewFFmpeg(runner, video.ModeKenBurns, &logger)
	return &Set{
		Images: image.NewDiffusionClient(image.DiffusionOptions{
			BaseURL: cfg.ImageAPIURL,
			Logger:  &logger,
		}),
		Speech: audio.NewTTSClient(audio.TTSOptions{
			BaseURL: cfg.TTSAPIURL,
			Logger:  &logger,
		}),
		Clips:    ff,
		Composer: ff,
	}
}
