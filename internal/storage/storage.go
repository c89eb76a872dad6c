// Package storage persists generated artifacts and maps storage keys to the
// public URLs handed out by the API.
package storage

import (
	"context"
	"path"
	"strings"
)

// Artifact key prefixes.
const (
	PrefixImages  = "images"
	PrefixAudio   = "audio"
	PrefixVideos  = "videos"
	PrefixExports = "exports"
)

// PublicRoutes maps key prefixes to the URL path they are served under.
var PublicRoutes = map[string]string{
	PrefixImages:  "/generated",
	PrefixAudio:   "/audio-files",
	PrefixVideos:  "/videos",
	PrefixExports: "/exports",
}

// Store is implemented by artifact backends.
type Store interface {
	// Write persists data under key and returns the canonical key.
	Write(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Read returns the object bytes; missing objects yield an error matching domain.ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	// URL returns the public URL for key.
	URL(key string) string
}

// LocalURL maps a key such as "images/a.png" to "/generated/a.png".
func LocalURL(key string) string {
	prefix, rest, ok := strings.Cut(key, "/")
	if !ok {
		return "/" + key
	}
	if route, found := PublicRoutes[prefix]; found {
		return route + "/" + rest
	}
	return "/" + key
}

// KeyFromURL resolves a URL previously returned by a Store back to a key
// under prefix. Only the file name is used, so absolute URLs, public paths
// and bare names all resolve alike.
func KeyFromURL(prefix, url string) (string, bool) {
	url = strings.TrimSpace(url)
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	name := path.Base(strings.ReplaceAll(url, "\\", "/"))
	if name == "" || name == "." || name == "/" || name == ".." {
		return "", false
	}
	return prefix + "/" + name, true
}

// Name returns the file name part of a key or URL.
func Name(keyOrURL string) string {
	return path.Base(keyOrURL)
}
