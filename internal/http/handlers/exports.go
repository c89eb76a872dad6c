package handlers

import (
	"net/http"

	"dreamvisualizer/internal/exporter"
)

func (a *App) ExportStorybook(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var in exporter.StorybookRequest
	if !a.decode(w, r, &in) {
		return
	}
	res, err := a.Exports.Storybook(r.Context(), userID, in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, res)
}

func (a *App) ExportComic(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var in exporter.ComicRequest
	if !a.decode(w, r, &in) {
		return
	}
	res, err := a.Exports.Comic(r.Context(), userID, in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, res)
}

func (a *App) ExportBundle(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var in exporter.BundleRequest
	if !a.decode(w, r, &in) {
		return
	}
	res, err := a.Exports.Bundle(r.Context(), userID, in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, res)
}
