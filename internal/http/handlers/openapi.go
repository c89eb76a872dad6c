package handlers

import (
	_ "embed"
	"html"
	"net/http"
	"strings"
)

//go:embed openapi.json
var openAPISpec []byte

// OpenAPIPath is where the raw document is mounted; the docs page loads it from there.
const OpenAPIPath = "/openapi.json"

const redocTemplate = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>{{title}}</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <style>
      body { margin: 0; padding: 0; }
      redoc { display: block; height: 100vh; }
    </style>
  </head>
  <body>
    <redoc spec-url="{{spec}}"></redoc>
    <script src="https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"></script>
  </body>
</html>`

func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

func (a *App) OpenAPIDocs(w http.ResponseWriter, _ *http.Request) {
	title := a.AppName
	if title == "" {
		title = "DreamVisualizer"
	}
	page := strings.NewReplacer("{{title}}", html.EscapeString(title+" API Docs"), "{{spec}}", OpenAPIPath).Replace(redocTemplate)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}
