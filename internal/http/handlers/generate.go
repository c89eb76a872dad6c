package handlers

import (
	"net/http"

	"dreamvisualizer/internal/pipeline"
)

// Synchronous generation endpoints run the pipeline inside the request and
// report no intermediate progress.

func (a *App) GenerateImages(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var in pipeline.ImageRequest
	if !a.decode(w, r, &in) {
		return
	}
	res, err := a.Pipeline.GenerateImages(r.Context(), userID, in, pipeline.NoProgress)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, res)
}

func (a *App) GenerateAudio(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var in pipeline.AudioRequest
	if !a.decode(w, r, &in) {
		return
	}
	res, err := a.Pipeline.GenerateAudio(r.Context(), userID, in, pipeline.NoProgress)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, res)
}

func (a *App) RenderVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var in pipeline.VideoRequest
	if !a.decode(w, r, &in) {
		return
	}
	res, err := a.Pipeline.RenderVideo(r.Context(), userID, in, pipeline.NoProgress)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, res)
}
