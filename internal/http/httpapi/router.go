package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"dreamvisualizer/internal/http/handlers"
	"dreamvisualizer/internal/middleware"
	"dreamvisualizer/internal/storage"
	"dreamvisualizer/internal/telemetry"
)

// Options carries the cross-cutting middleware settings.
type Options struct {
	JWTSecret     string
	CORSOrigins   []string
	DefaultLocale string
	// Limiter throttles the generation and export endpoints. Nil disables it.
	Limiter       middleware.Limiter
	CountryLookup middleware.CountryLookup
	Logger        zerolog.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
		middleware.I18N(defaultLocale(opts.DefaultLocale), opts.CountryLookup),
	)

	r.Get("/health", app.Health)
	r.Get("/ping", app.Ping)
	r.Handle("/metrics", telemetry.Handler())
	r.Get(handlers.OpenAPIPath, app.OpenAPIJSON)
	r.Get("/docs", app.OpenAPIDocs)

	requireAuth := middleware.AuthJWT(opts.JWTSecret)
	throttle := func(next http.Handler) http.Handler { return next }
	if opts.Limiter != nil {
		throttle = middleware.RateLimit(opts.Limiter, opts.Logger)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", app.Signup)
		r.Post("/login", app.Login)
		r.With(requireAuth).Get("/me", app.Me)
	})

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.OptionalAuthJWT(opts.JWTSecret)).Post("/nlp/process", app.ProcessStory)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, throttle)
			r.Post("/image/generate", app.GenerateImages)
			r.Post("/audio/generate", app.GenerateAudio)
			r.Post("/video/generate", app.RenderVideo)

			r.Post("/export/storybook", app.ExportStorybook)
			r.Post("/export/comic", app.ExportComic)
			r.Post("/export/bundle", app.ExportBundle)

			r.Post("/tasks/image", app.EnqueueImageTask)
			r.Post("/tasks/audio", app.EnqueueAudioTask)
			r.Post("/tasks/video", app.EnqueueVideoTask)
		})

		r.Get("/tasks/status", app.TaskStatus)
		r.Get("/tasks/stream", app.TaskStream)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/overview", app.AnalyticsOverview)
			r.Get("/timeseries", app.AnalyticsTimeseries)
			r.Get("/top-models", app.AnalyticsTopModels)
			r.Get("/export/csv", app.AnalyticsCSV)
		})

		r.Route("/journal", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/all", app.JournalAll)
			r.Get("/type", app.JournalByType)
		})
	})

	for prefix, route := range storage.PublicRoutes {
		r.Get(route+"/*", app.Artifact(prefix))
	}

	return r
}

func defaultLocale(locale string) string {
	if locale == "" {
		return "en"
	}
	return locale
}
