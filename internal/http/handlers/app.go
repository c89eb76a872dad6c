package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/exporter"
	"dreamvisualizer/internal/journal"
	"dreamvisualizer/internal/middleware"
	"dreamvisualizer/internal/pipeline"
	"dreamvisualizer/internal/storage"
	"dreamvisualizer/internal/tasks"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

type AuthService interface {
	Signup(ctx context.Context, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

type Generator interface {
	GenerateImages(ctx context.Context, userID string, req pipeline.ImageRequest, progress pipeline.Progress) (*pipeline.ImageResult, error)
	GenerateAudio(ctx context.Context, userID string, req pipeline.AudioRequest, progress pipeline.Progress) (*pipeline.AudioResult, error)
	RenderVideo(ctx context.Context, userID string, req pipeline.VideoRequest, progress pipeline.Progress) (*pipeline.VideoResult, error)
}

type TaskRunner interface {
	EnqueueImages(ctx context.Context, userID string, req pipeline.ImageRequest) (string, error)
	EnqueueAudio(ctx context.Context, userID string, req pipeline.AudioRequest) (string, error)
	EnqueueVideo(ctx context.Context, userID string, req pipeline.VideoRequest) (string, error)
	Status(ctx context.Context, id string) (*domain.Task, error)
	Hub() *tasks.Hub
}

type Exporter interface {
	Storybook(ctx context.Context, userID string, req exporter.StorybookRequest) (*exporter.Result, error)
	Comic(ctx context.Context, userID string, req exporter.ComicRequest) (*exporter.Result, error)
	Bundle(ctx context.Context, userID string, req exporter.BundleRequest) (*exporter.Result, error)
}

type Aggregator interface {
	Overview(ctx context.Context) (domain.Overview, error)
	Timeseries(ctx context.Context, metric string) ([]domain.TimeseriesPoint, error)
	TopModels(ctx context.Context, limit int) ([]domain.ModelUsage, error)
}

type EventLogger interface {
	Log(ctx context.Context, eventType, userID, dreamID string, meta map[string]any) error
}

type EventExporter interface {
	Export(ctx context.Context, limit int, fn func(domain.Event) error) error
}

type Journal interface {
	List(ctx context.Context, userID string) ([]journal.Entry, error)
	ListByType(ctx context.Context, userID string, assetType domain.AssetType) ([]journal.Entry, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// App carries the services the HTTP handlers depend on.
type App struct {
	AppName   string
	JWTSecret string
	Logger    zerolog.Logger

	Auth      AuthService
	Pipeline  Generator
	Tasks     TaskRunner
	Exports   Exporter
	Analytics Aggregator
	Events    EventLogger
	EventLog  EventExporter
	Journal   Journal
	Store     storage.Store
	DB        Pinger

	validate *validator.Validate
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, msg string) {
	a.json(w, code, map[string]string{"code": errCode, "message": msg})
}

// fail maps service errors onto the API error envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var derr *domain.Error
	msg := err.Error()
	if errors.As(err, &derr) {
		msg = derr.Msg
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnsupportedMetric):
		a.error(w, http.StatusBadRequest, "bad_request", msg)
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", msg)
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", msg)
	case errors.Is(err, domain.ErrUnavailable):
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("backend unavailable")
		a.error(w, http.StatusInternalServerError, "unavailable", msg)
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// decode reads a JSON body into v and runs struct validation.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			a.error(w, http.StatusBadRequest, "bad_request", "request body is required")
			return false
		}
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	if err := a.validator().Struct(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", validationMessage(err))
		return false
	}
	return true
}

func (a *App) validator() *validator.Validate {
	if a.validate == nil {
		a.validate = validator.New(validator.WithRequiredStructEnabled())
		a.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
	return a.validate
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid payload"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// requireUser is used by handlers mounted behind AuthJWT; an empty id means
// the middleware was bypassed.
func (a *App) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "Not authenticated")
		return "", false
	}
	return userID, true
}
