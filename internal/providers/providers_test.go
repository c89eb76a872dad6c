package providers

import (
	"testing"

	"github.com/rs/zerolog"

	"dreamvisualizer/internal/infra"
	"dreamvisualizer/internal/providers/audio"
	"dreamvisualizer/internal/providers/image"
)

func TestNewSetLiteMode(t *testing.T) {
	set := NewSet(&infra.Config{LiteMode: true, FFmpegPath: "ffmpeg"}, zerolog.Nop())
	if !set.Lite {
		t.Fatalf("Lite = false")
	}
	if _, ok := set.Images.(*image.Synthetic); !ok {
		t.Fatalf("Images = %T, want *image.Synthetic", set.Images)
	}
	if _, ok := set.Speech.(*audio.ToneSynth); !ok {
		t.Fatalf("Speech = %T, want *audio.ToneSynth", set.Speech)
	}
}

func TestNewSetFullMode(t *testing.T) {
	set := NewSet(&infra.Config{ImageAPIURL: "http://sd:7860", TTSAPIURL: "http://tts:5002", FFmpegPath: "ffmpeg"}, zerolog.Nop())
	if set.Lite {
		t.Fatalf("Lite = true")
	}
	if _, ok := set.Images.(*image.DiffusionClient); !ok {
		t.Fatalf("Images = %T", set.Images)
	}
	if _, ok := set.Speech.(*audio.TTSClient); !ok {
		t.Fatalf("Speech = %T", set.Speech)
	}
}
