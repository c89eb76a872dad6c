package handlers

import (
	"net/http"

	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/journal"
)

func (a *App) JournalAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	entries, err := a.Journal.List(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeEntries(w, entries)
}

func (a *App) JournalByType(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	assetType, valid := domain.ParseAssetType(r.URL.Query().Get("type"))
	if !valid {
		a.error(w, http.StatusBadRequest, "bad_request", "type must be one of: image, audio, video, pdf, comic, zip")
		return
	}
	entries, err := a.Journal.ListByType(r.Context(), userID, assetType)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeEntries(w, entries)
}

func (a *App) writeEntries(w http.ResponseWriter, entries []journal.Entry) {
	if entries == nil {
		entries = []journal.Entry{}
	}
	a.json(w, http.StatusOK, entries)
}
