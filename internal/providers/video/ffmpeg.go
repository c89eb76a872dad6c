package video

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"dreamvisualizer/internal/domain"
)

// Mode selects how a still image is animated.
type Mode int

const (
	// ModeKenBurns slowly zooms into the image at 1280x720.
	ModeKenBurns Mode = iota
	// ModeStill holds the image at 640x360.
	ModeStill
)

const fps = 25

// FFmpeg implements ClipMaker and Composer.
type FFmpeg struct {
	runner Runner
	mode   Mode
	width  int
	height int
	logger zerolog.Logger
}

func NewFFmpeg(runner Runner, mode Mode, logger *zerolog.Logger) *FFmpeg {
	f := &FFmpeg{runner: runner, mode: mode, width: 1280, height: 720, logger: zerolog.New(io.Discard)}
	if mode == ModeStill {
		f.width, f.height = 640, 360
	}
	if logger != nil {
		f.logger = *logger
	}
	return f
}

// Size returns the output frame size.
func (f *FFmpeg) Size() (int, int) {
	return f.width, f.height
}

func (f *FFmpeg) MakeClip(ctx context.Context, imagePath, audioPath, outPath string, seconds float64) error {
	if seconds <= 0 {
		return domain.Invalid("Audio duration must be positive")
	}
	args := []string{
		"-y",
		"-loop", "1", "-i", imagePath,
		"-i", audioPath,
		"-vf", f.videoFilter(seconds),
		"-af", audioFades(seconds),
		"-r", fmt.Sprint(fps),
		"-t", formatSeconds(seconds),
		"-c:v", "libx264", "-preset", "veryfast", "-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
		outPath,
	}
	if err := f.runner.Run(ctx, args...); err != nil {
		return err
	}
	f.logger.Debug().Str("clip", filepath.Base(outPath)).Float64("seconds", seconds).Msg("ffmpeg: clip rendered")
	return nil
}

func (f *FFmpeg) videoFilter(seconds float64) string {
	w, h := f.width, f.height
	var frame string
	switch f.mode {
	case ModeStill:
		frame = fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2", w, h, w, h)
	default:
		frames := int(seconds*fps) + 1
		frame = fmt.Sprintf("scale=%d:-2,zoompan=z='min(zoom+0.0015,1.2)':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=%d:s=%dx%d:fps=%d",
			w*2, frames, w, h, fps)
	}
	return fmt.Sprintf("%s,fade=t=in:st=0:d=%s,fade=t=out:st=%s:d=%s",
		frame, formatSeconds(FadeSeconds), formatSeconds(fadeOutStart(seconds)), formatSeconds(FadeSeconds))
}

func audioFades(seconds float64) string {
	return fmt.Sprintf("afade=t=in:st=0:d=%s,afade=t=out:st=%s:d=%s",
		formatSeconds(FadeSeconds), formatSeconds(fadeOutStart(seconds)), formatSeconds(FadeSeconds))
}

func fadeOutStart(seconds float64) float64 {
	return max(0, seconds-FadeSeconds)
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.3f", s)
}

// Compose joins clips in order. A missing or empty bgmPath skips the music bed;
// otherwise it is looped to the video length at BGMGainDB.
func (f *FFmpeg) Compose(ctx context.Context, clipPaths []string, bgmPath, outPath string) error {
	if len(clipPaths) == 0 {
		return domain.Invalid(errNoClips.Error())
	}
	listPath := outPath + ".concat.txt"
	if err := writeConcatList(listPath, clipPaths); err != nil {
		return err
	}
	defer os.Remove(listPath)

	args := []string{"-y", "-f", "concat", "-safe", "0", "-i", listPath}
	if hasFile(bgmPath) {
		args = append(args,
			"-stream_loop", "-1", "-i", bgmPath,
			"-filter_complex", fmt.Sprintf("[1:a]volume=%.0fdB[bg];[0:a][bg]amix=inputs=2:duration=first:dropout_transition=0:normalize=0[a]", BGMGainDB),
			"-map", "0:v", "-map", "[a]",
			"-shortest",
		)
	}
	args = append(args, "-c:v", "libx264", "-preset", "veryfast", "-pix_fmt", "yuv420p", "-c:a", "aac", outPath)
	if err := f.runner.Run(ctx, args...); err != nil {
		return err
	}
	f.logger.Debug().Int("clips", len(clipPaths)).Bool("bgm", hasFile(bgmPath)).Msg("ffmpeg: video composed")
	return nil
}

func writeConcatList(path string, clips []string) error {
	var b strings.Builder
	for _, c := range clips {
		abs, err := filepath.Abs(c)
		if err != nil {
			return fmt.Errorf("ffmpeg: resolve clip path: %w", err)
		}
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("ffmpeg: write concat list: %w", err)
	}
	return nil
}

func hasFile(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

var (
	_ ClipMaker = (*FFmpeg)(nil)
	_ Composer  = (*FFmpeg)(nil)
)
