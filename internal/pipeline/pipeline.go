// Package pipeline runs the per-scene media generation flows shared by the
// synchronous endpoints and the background task runner.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dreamvisualizer/internal/cache"
	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/providers"
	"dreamvisualizer/internal/providers/audio"
	"dreamvisualizer/internal/providers/image"
	"dreamvisualizer/internal/storage"
	"dreamvisualizer/internal/telemetry"
)

// clipShare is the share of video progress spent on per-scene clips.
const clipShare = 70

// Options wires a Pipeline.
type Options struct {
	Providers *providers.Set
	Store     storage.Store
	Events    EventLogger
	Journal   AssetJournal
	Memo      *cache.Memo
	BGMPath   string
	WorkDir   string
	Logger    *zerolog.Logger
}

// Pipeline generates, stores, records and reports media artifacts.
type Pipeline struct {
	providers *providers.Set
	store     storage.Store
	events    EventLogger
	journal   AssetJournal
	memo      *cache.Memo
	bgmPath   string
	workDir   string
	now       func() time.Time
	newID     func() string
	logger    zerolog.Logger
}

func New(opts Options) *Pipeline {
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Pipeline{
		providers: opts.Providers,
		store:     opts.Store,
		events:    opts.Events,
		journal:   opts.Journal,
		memo:      opts.Memo,
		bgmPath:   opts.BGMPath,
		workDir:   opts.WorkDir,
		now:       time.Now,
		newID:     func() string { return uuid.NewString()[:8] },
		logger:    logger,
	}
}

// GenerateImages renders one image per scene. Scenes for which the backend
// yields nothing are skipped.
func (p *Pipeline) GenerateImages(ctx context.Context, userID string, req ImageRequest, progress Progress) (*ImageResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	model, _ := image.ParseModel(req.Model)
	total := len(req.Scenes)
	result := &ImageResult{Images: make([]string, 0, total)}

	var consistency image.Consistency
	for i, scene := range req.Scenes {
		position := i + 1
		genReq := image.Request{
			Model:          model,
			Prompt:         image.BuildPrompt(&consistency, scene.Text, scene.Emotion),
			NegativePrompt: req.NegativePrompt,
			Width:          req.Width,
			Height:         req.Height,
			Steps:          req.Steps,
		}.WithDefaults()
		memoKey := cache.Key("image", string(genReq.Model), genReq.Prompt, genReq.NegativePrompt,
			strconv.Itoa(genReq.Width), strconv.Itoa(genReq.Height), strconv.Itoa(genReq.Steps))

		key, hit := p.lookup(ctx, "image", memoKey)
		if !hit {
			data, err := p.timed("image", func() ([]byte, error) { return p.providers.Images.Generate(ctx, genReq) })
			if err != nil {
				return nil, err
			}
			if len(data) == 0 {
				p.logger.Warn().Int("scene", position).Msg("image backend returned no image; skipping scene")
				if err := progress.Progress(ctx, percent(position, total, 100)); err != nil {
					return nil, err
				}
				continue
			}
			name := fmt.Sprintf("%s_scene_%d_%d_%s.png", genReq.Model, position, p.now().Unix(), p.newID())
			key, err = p.store.Write(ctx, storage.PrefixImages+"/"+name, data, "image/png")
			if err != nil {
				return nil, fmt.Errorf("store image: %w", err)
			}
			p.memo.Remember(ctx, memoKey, key)
		}

		url := p.store.URL(key)
		sceneID := scene.SceneID(position)
		if err := p.events.Log(ctx, domain.EventImageGenerated, userID, "", map[string]any{
			"model":    string(genReq.Model),
			"scene_id": sceneID,
		}); err != nil {
			return nil, err
		}
		if _, err := p.journal.SaveImage(ctx, userID, url, sceneID); err != nil {
			return nil, err
		}
		result.Images = append(result.Images, url)
		if err := progress.Progress(ctx, percent(position, total, 100)); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// GenerateAudio narrates each scene.
func (p *Pipeline) GenerateAudio(ctx context.Context, userID string, req AudioRequest, progress Progress) (*AudioResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	lang, _ := audio.ParseLanguage(req.Language)
	voice := req.Voice
	if voice == "" {
		voice = audio.DefaultVoice
	}
	total := len(req.Scenes)
	result := &AudioResult{AudioFiles: make([]string, 0, total)}

	for i, scene := range req.Scenes {
		position := i + 1
		text := audio.CleanText(scene.Text)
		memoKey := cache.Key("audio", lang.Name, voice, text)

		var data []byte
		key, hit := p.lookup(ctx, "audio", memoKey)
		if hit {
			var err error
			if data, err = p.store.Read(ctx, key); err != nil {
				hit = false
			}
		}
		if !hit {
			var err error
			data, err = p.timed("audio", func() ([]byte, error) {
				return p.providers.Speech.Synthesize(ctx, audio.Request{Text: text, Language: lang, Voice: voice})
			})
			if err != nil {
				return nil, err
			}
			name := fmt.Sprintf("scene_%s_%d_%s.wav", lang.Name, p.now().Unix(), p.newID())
			key, err = p.store.Write(ctx, storage.PrefixAudio+"/"+name, data, "audio/wav")
			if err != nil {
				return nil, fmt.Errorf("store audio: %w", err)
			}
			p.memo.Remember(ctx, memoKey, key)
		}

		url := p.store.URL(key)
		sceneID := scene.SceneID(position)
		if err := p.events.Log(ctx, domain.EventAudioGenerated, userID, "", map[string]any{
			"language":         lang.Name,
			"voice":            voice,
			"duration_seconds": audio.Duration(data).Seconds(),
			"scene_id":         sceneID,
		}); err != nil {
			return nil, err
		}
		if _, err := p.journal.SaveAudio(ctx, userID, url, sceneID); err != nil {
			return nil, err
		}
		result.AudioFiles = append(result.AudioFiles, url)
		if err := progress.Progress(ctx, percent(position, total, 100)); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// RenderVideo turns image/audio pairs into clips and composes the final video.
func (p *Pipeline) RenderVideo(ctx context.Context, userID string, req VideoRequest, progress Progress) (*VideoResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	type pair struct{ image, audio string }
	pairs := make([]pair, len(req.ImageURLs))
	for i := range req.ImageURLs {
		imgKey, err := p.resolve(ctx, storage.PrefixImages, req.ImageURLs[i], "Image")
		if err != nil {
			return nil, err
		}
		audKey, err := p.resolve(ctx, storage.PrefixAudio, req.AudioURLs[i], "Audio")
		if err != nil {
			return nil, err
		}
		pairs[i] = pair{image: imgKey, audio: audKey}
	}

	dir, err := os.MkdirTemp(p.workDir, "render-*")
	if err != nil {
		return nil, fmt.Errorf("create render dir: %w", err)
	}
	defer os.RemoveAll(dir)

	start := time.Now()
	clips := make([]string, 0, len(pairs))
	for i, pr := range pairs {
		position := i + 1
		imgPath, err := p.materialize(ctx, dir, pr.image)
		if err != nil {
			return nil, err
		}
		audPath, err := p.materialize(ctx, dir, pr.audio)
		if err != nil {
			return nil, err
		}
		audData, err := os.ReadFile(audPath)
		if err != nil {
			return nil, fmt.Errorf("read narration: %w", err)
		}
		clipPath := filepath.Join(dir, fmt.Sprintf("clip_%03d.mp4", position))
		if err := p.providers.Clips.MakeClip(ctx, imgPath, audPath, clipPath, audio.Duration(audData).Seconds()); err != nil {
			return nil, err
		}
		clips = append(clips, clipPath)
		if err := progress.Progress(ctx, percent(position, len(pairs), clipShare)); err != nil {
			return nil, err
		}
	}

	if err := progress.Finishing(ctx); err != nil {
		return nil, err
	}
	finalPath := filepath.Join(dir, "final.mp4")
	if err := p.providers.Composer.Compose(ctx, clips, p.bgmPath, finalPath); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(finalPath)
	if err != nil {
		return nil, fmt.Errorf("read composed video: %w", err)
	}
	name := fmt.Sprintf("final_video_%d_%s.mp4", p.now().Unix(), p.newID())
	key, err := p.store.Write(ctx, storage.PrefixVideos+"/"+name, data, "video/mp4")
	if err != nil {
		return nil, fmt.Errorf("store video: %w", err)
	}
	telemetry.GenerateSeconds.WithLabelValues("video").Observe(time.Since(start).Seconds())

	url := p.store.URL(key)
	if err := p.events.Log(ctx, domain.EventVideoRendered, userID, "", map[string]any{"clip_count": len(clips)}); err != nil {
		return nil, err
	}
	if _, err := p.journal.SaveVideo(ctx, userID, url); err != nil {
		return nil, err
	}
	return &VideoResult{VideoURL: url}, nil
}

func (p *Pipeline) resolve(ctx context.Context, prefix, url, label string) (string, error) {
	key, ok := storage.KeyFromURL(prefix, url)
	if !ok {
		return "", domain.Invalid(fmt.Sprintf("%s file not found: %s", label, url))
	}
	exists, err := p.store.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("check %s: %w", key, err)
	}
	if !exists {
		return "", domain.Invalid(fmt.Sprintf("%s file not found: %s", label, storage.Name(key)))
	}
	return key, nil
}

// materialize copies a stored object into dir so ffmpeg can read it.
func (p *Pipeline) materialize(ctx context.Context, dir, key string) (string, error) {
	data, err := p.store.Read(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	path := filepath.Join(dir, storage.Name(key))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("stage %s: %w", key, err)
	}
	return path, nil
}

func (p *Pipeline) lookup(ctx context.Context, kind, memoKey string) (string, bool) {
	key, ok := p.memo.Lookup(ctx, memoKey)
	outcome := "miss"
	if ok {
		outcome = "hit"
	}
	telemetry.CacheLookups.WithLabelValues(kind, outcome).Inc()
	return key, ok
}

func (p *Pipeline) timed(kind string, fn func() ([]byte, error)) ([]byte, error) {
	start := time.Now()
	data, err := fn()
	telemetry.GenerateSeconds.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	return data, err
}

func percent(done, total int, scale float64) float64 {
	return math.Round(float64(done) / float64(total) * scale)
}
