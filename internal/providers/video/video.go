// Package video assembles per-scene clips and the final narrated video with ffmpeg.
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"dreamvisualizer/internal/domain"
)

// FadeSeconds is the fade in/out applied to every clip.
const FadeSeconds = 0.3

// BGMGainDB is the level of the background music bed relative to narration.
const BGMGainDB = -18.0

// ClipMaker turns one still image and its narration into a video clip.
type ClipMaker interface {
	MakeClip(ctx context.Context, imagePath, audioPath, outPath string, seconds float64) error
}

// Composer concatenates clips into the final video, optionally under a music bed.
type Composer interface {
	Compose(ctx context.Context, clipPaths []string, bgmPath, outPath string) error
}

// Runner executes the encoder binary.
type Runner interface {
	Run(ctx context.Context, args ...string) error
}

// ExecRunner runs ffmpeg as a subprocess.
type ExecRunner struct {
	Path string
}

func (r ExecRunner) Run(ctx context.Context, args ...string) error {
	bin := r.Path
	if bin == "" {
		bin = "ffmpeg"
	}
	resolved, err := exec.LookPath(bin)
	if err != nil {
		return domain.Unavailable("ffmpeg is not installed")
	}
	cmd := exec.CommandContext(ctx, resolved, append([]string{"-hide_banner", "-loglevel", "error"}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("ffmpeg: %w", err)
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, lastLine(msg))
	}
	return nil
}

// Available reports whether the ffmpeg binary can be found.
func (r ExecRunner) Available() bool {
	bin := r.Path
	if bin == "" {
		bin = "ffmpeg"
	}
	_, err := exec.LookPath(bin)
	return err == nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

var errNoClips = errors.New("at least one video clip is required")
