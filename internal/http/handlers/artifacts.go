package handlers

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"dreamvisualizer/internal/domain"
)

// Artifact serves a stored object under prefix. The name comes from the
// wildcard segment of the route, for example /generated/{name}.
func (a *App) Artifact(prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "*")
		if name == "" || strings.Contains(name, "/") || name == "." || name == ".." {
			a.error(w, http.StatusNotFound, "not_found", "file not found")
			return
		}
		data, err := a.Store.Read(r.Context(), prefix+"/"+name)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
				a.error(w, http.StatusNotFound, "not_found", "file not found")
				return
			}
			a.fail(w, r, err)
			return
		}
		contentType := mime.TypeByExtension(path.Ext(name))
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
