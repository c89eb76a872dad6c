package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/pipeline"
	"dreamvisualizer/internal/telemetry"
)

// FinishingProgress is reported when the video pipeline starts composing.
const FinishingProgress = 85

// Generators is the pipeline surface the runner drives.
type Generators interface {
	GenerateImages(ctx context.Context, userID string, req pipeline.ImageRequest, progress pipeline.Progress) (*pipeline.ImageResult, error)
	GenerateAudio(ctx context.Context, userID string, req pipeline.AudioRequest, progress pipeline.Progress) (*pipeline.AudioResult, error)
	RenderVideo(ctx context.Context, userID string, req pipeline.VideoRequest, progress pipeline.Progress) (*pipeline.VideoResult, error)
}

// Runner creates task records and executes their pipelines detached from the
// request that enqueued them. No retries are attempted.
type Runner struct {
	tasks   domain.TaskRepository
	gens    Generators
	hub     *Hub
	logger  zerolog.Logger
	baseCtx context.Context
	wg      sync.WaitGroup
}

// NewRunner builds a Runner. Runs inherit baseCtx, so cancelling it aborts them.
func NewRunner(baseCtx context.Context, tasks domain.TaskRepository, gens Generators, hub *Hub, logger zerolog.Logger) *Runner {
	if hub == nil {
		hub = NewHub()
	}
	return &Runner{tasks: tasks, gens: gens, hub: hub, logger: logger, baseCtx: baseCtx}
}

// Hub returns the snapshot hub.
func (r *Runner) Hub() *Hub {
	return r.hub
}

// EnqueueImages validates req, records a queued image task and starts it.
func (r *Runner) EnqueueImages(ctx context.Context, userID string, req pipeline.ImageRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return r.enqueue(ctx, userID, domain.TaskTypeImage, func(ctx context.Context, p pipeline.Progress) (any, error) {
		return r.gens.GenerateImages(ctx, userID, req, p)
	})
}

func (r *Runner) EnqueueAudio(ctx context.Context, userID string, req pipeline.AudioRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return r.enqueue(ctx, userID, domain.TaskTypeAudio, func(ctx context.Context, p pipeline.Progress) (any, error) {
		return r.gens.GenerateAudio(ctx, userID, req, p)
	})
}

func (r *Runner) EnqueueVideo(ctx context.Context, userID string, req pipeline.VideoRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return r.enqueue(ctx, userID, domain.TaskTypeVideo, func(ctx context.Context, p pipeline.Progress) (any, error) {
		return r.gens.RenderVideo(ctx, userID, req, p)
	})
}

// Status returns the current snapshot of a task.
func (r *Runner) Status(ctx context.Context, id string) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.Invalid("Invalid task id")
	}
	task, err := r.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Task not found")
		}
		return nil, err
	}
	return task, nil
}

// Wait blocks until every started run has returned or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type job func(ctx context.Context, p pipeline.Progress) (any, error)

func (r *Runner) enqueue(ctx context.Context, userID string, taskType domain.TaskType, fn job) (string, error) {
	task, err := r.tasks.Create(ctx, userID, taskType)
	if err != nil {
		return "", fmt.Errorf("create %s task: %w", taskType, err)
	}
	telemetry.TasksEnqueued.WithLabelValues(string(taskType)).Inc()
	r.hub.Publish(NewView(task))

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(task, fn)
	}()
	return task.ID, nil
}

func (r *Runner) run(task *domain.Task, fn job) {
	ctx := r.baseCtx
	log := r.logger.With().Str("task_id", task.ID).Str("task_type", string(task.Type)).Logger()
	telemetry.TasksInFlight.Inc()
	defer telemetry.TasksInFlight.Dec()

	t := &tracker{runner: r, task: *task}
	start := time.Now()

	result, err := func() (any, error) {
		if err := t.apply(ctx, domain.TaskStatusRunning, 0, nil, nil); err != nil {
			return nil, err
		}
		return fn(ctx, t)
	}()
	if err == nil {
		var raw []byte
		if raw, err = json.Marshal(result); err == nil {
			err = t.apply(ctx, domain.TaskStatusComplete, 100, raw, nil)
		}
		if err == nil {
			telemetry.TasksCompleted.WithLabelValues(string(task.Type)).Inc()
			log.Info().Dur("elapsed", time.Since(start)).Msg("task complete")
			return
		}
	}

	msg := err.Error()
	// The store may be the thing that failed; record failure against a fresh context.
	failCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if ferr := t.apply(failCtx, domain.TaskStatusFailed, t.task.Progress, nil, &msg); ferr != nil {
		log.Error().Err(ferr).Msg("record task failure")
	}
	telemetry.TasksFailed.WithLabelValues(string(task.Type)).Inc()
	log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("task failed")
}

// tracker implements pipeline.Progress for one task and mirrors its state so
// snapshots can be published without re-reading the store.
type tracker struct {
	runner *Runner
	task   domain.Task
}

func (t *tracker) Progress(ctx context.Context, percent float64) error {
	if percent < t.task.Progress {
		percent = t.task.Progress
	}
	return t.apply(ctx, t.task.Status, percent, nil, nil)
}

func (t *tracker) Finishing(ctx context.Context) error {
	return t.apply(ctx, domain.TaskStatusFinishing, max(FinishingProgress, t.task.Progress), nil, nil)
}

func (t *tracker) apply(ctx context.Context, status domain.TaskStatus, progress float64, result json.RawMessage, errMsg *string) error {
	upd := domain.TaskUpdate{Status: &status, Progress: &progress, Result: result, Error: errMsg}
	if err := t.runner.tasks.Update(ctx, t.task.ID, upd); err != nil {
		return fmt.Errorf("update task %s: %w", t.task.ID, err)
	}
	t.task.Status = status
	t.task.Progress = progress
	if result != nil {
		t.task.Result = result
	}
	if errMsg != nil {
		t.task.Error = *errMsg
	}
	t.task.UpdatedAt = time.Now().UTC()
	t.runner.hub.Publish(NewView(&t.task))
	return nil
}
