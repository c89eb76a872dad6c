package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dreamvisualizer/internal/pipeline"
	"dreamvisualizer/internal/tasks"
)

// streamPollInterval is how often the SSE handler re-reads the task in case a
// hub snapshot was dropped.
var streamPollInterval = 2 * time.Second

type enqueueResponse struct {
	TaskID string `json:"task_id"`
}

func (a *App) EnqueueImageTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var in pipeline.ImageRequest
	if !a.decode(w, r, &in) {
		return
	}
	id, err := a.Tasks.EnqueueImages(r.Context(), userID, in)
	a.enqueued(w, r, id, err)
}

func (a *App) EnqueueAudioTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var in pipeline.AudioRequest
	if !a.decode(w, r, &in) {
		return
	}
	id, err := a.Tasks.EnqueueAudio(r.Context(), userID, in)
	a.enqueued(w, r, id, err)
}

func (a *App) EnqueueVideoTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var in pipeline.VideoRequest
	if !a.decode(w, r, &in) {
		return
	}
	id, err := a.Tasks.EnqueueVideo(r.Context(), userID, in)
	a.enqueued(w, r, id, err)
}

func (a *App) enqueued(w http.ResponseWriter, r *http.Request, id string, err error) {
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, enqueueResponse{TaskID: id})
}

func (a *App) TaskStatus(w http.ResponseWriter, r *http.Request) {
	task, err := a.Tasks.Status(r.Context(), strings.TrimSpace(r.URL.Query().Get("id")))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, tasks.NewView(task))
}

// TaskStream pushes task snapshots as Server-Sent Events until the task
// reaches a terminal state or the client goes away.
func (a *App) TaskStream(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	task, err := a.Tasks.Status(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		a.error(w, http.StatusInternalServerError, "internal", "streaming unsupported")
		return
	}

	updates, cancel := a.Tasks.Hub().Subscribe(task.ID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Re-read after subscribing so a transition between the first read and
	// the subscription is not missed.
	if task, err = a.Tasks.Status(r.Context(), id); err != nil {
		return
	}
	last := tasks.NewView(task)
	if writeEvent(w, last) != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(streamPollInterval)
	defer ticker.Stop()
	for !last.Terminal() {
		var next tasks.View
		select {
		case <-r.Context().Done():
			return
		case next = <-updates:
		case <-ticker.C:
			task, err := a.Tasks.Status(r.Context(), id)
			if err != nil {
				a.Logger.Warn().Err(err).Str("task_id", id).Msg("poll task for stream")
				return
			}
			next = tasks.NewView(task)
		}
		if next.Equal(last) {
			continue
		}
		last = next
		if writeEvent(w, last) != nil {
			return
		}
		flusher.Flush()
	}
}

func writeEvent(w http.ResponseWriter, v tasks.View) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: task\ndata: %s\n\n", data)
	return err
}
