package handlers

import (
	"net/http"
	"unicode/utf8"

	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/middleware"
	"dreamvisualizer/internal/nlp"
)

// MaxStoryLength caps the characters accepted by /api/nlp/process.
const MaxStoryLength = 3000

type nlpRequest struct {
	Text string `json:"text"`
}

func (a *App) ProcessStory(w http.ResponseWriter, r *http.Request) {
	var in nlpRequest
	if !a.decode(w, r, &in) {
		return
	}
	length := utf8.RuneCountInString(in.Text)
	if length > MaxStoryLength {
		a.error(w, http.StatusBadRequest, "bad_request", "Text is too long (max 3000 characters).")
		return
	}

	result := nlp.Process(in.Text)

	meta := map[string]any{"text_length": length}
	if locale := middleware.LocaleFromContext(r.Context()); locale != "" {
		meta["locale"] = locale
	}
	if err := a.Events.Log(r.Context(), domain.EventDreamCreated, a.currentUserID(r), "", meta); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, result)
}
