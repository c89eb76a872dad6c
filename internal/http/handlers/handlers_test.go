package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"dreamvisualizer/internal/auth"
	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/exporter"
	"dreamvisualizer/internal/journal"
	"dreamvisualizer/internal/middleware"
	"dreamvisualizer/internal/pipeline"
	"dreamvisualizer/internal/storage"
	"dreamvisualizer/internal/tasks"
)

type fakeAuth struct {
	signupErr error
	loginErr  error
	user      *domain.User
}

func (f *fakeAuth) Signup(_ context.Context, email, _ string) (string, *domain.User, error) {
	if f.signupErr != nil {
		return "", nil, f.signupErr
	}
	return "token-1", &domain.User{ID: "u1", Email: email}, nil
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) (string, *domain.User, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return "token-2", &domain.User{ID: "u1", Email: email}, nil
}

func (f *fakeAuth) Me(_ context.Context, userID string) (*domain.User, error) {
	if f.user == nil || f.user.ID != userID {
		return nil, &domain.Error{Kind: domain.ErrUnauthorized, Msg: "User not found"}
	}
	return f.user, nil
}

type loggedEvent struct {
	Type   string
	UserID string
	Meta   map[string]any
}

type fakeEvents struct {
	events []loggedEvent
	err    error
}

func (f *fakeEvents) Log(_ context.Context, eventType, userID, _ string, meta map[string]any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, loggedEvent{Type: eventType, UserID: userID, Meta: meta})
	return nil
}

func (f *fakeEvents) Export(_ context.Context, _ int, fn func(domain.Event) error) error {
	return fn(domain.Event{
		ID:        "e1",
		Type:      domain.EventImageGenerated,
		UserID:    "u1",
		Meta:      map[string]any{"model": "sd15"},
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	})
}

type fakePipeline struct {
	userID string
	err    error
}

func (f *fakePipeline) GenerateImages(_ context.Context, userID string, req pipeline.ImageRequest, _ pipeline.Progress) (*pipeline.ImageResult, error) {
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &pipeline.ImageResult{Images: []string{"/generated/a.png"}}, nil
}

func (f *fakePipeline) GenerateAudio(_ context.Context, userID string, _ pipeline.AudioRequest, _ pipeline.Progress) (*pipeline.AudioResult, error) {
	f.userID = userID
	return &pipeline.AudioResult{AudioFiles: []string{"/audio-files/a.wav"}}, f.err
}

func (f *fakePipeline) RenderVideo(_ context.Context, userID string, _ pipeline.VideoRequest, _ pipeline.Progress) (*pipeline.VideoResult, error) {
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &pipeline.VideoResult{VideoURL: "/videos/final.mp4"}, nil
}

type fakeTasks struct {
	hub  *tasks.Hub
	task *domain.Task
}

func (f *fakeTasks) EnqueueImages(context.Context, string, pipeline.ImageRequest) (string, error) {
	return "11111111-1111-1111-1111-111111111111", nil
}

func (f *fakeTasks) EnqueueAudio(_ context.Context, _ string, req pipeline.AudioRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return "22222222-2222-2222-2222-222222222222", nil
}

func (f *fakeTasks) EnqueueVideo(context.Context, string, pipeline.VideoRequest) (string, error) {
	return "33333333-3333-3333-3333-333333333333", nil
}

func (f *fakeTasks) Status(_ context.Context, id string) (*domain.Task, error) {
	if id == "bad" {
		return nil, domain.Invalid("Invalid task id")
	}
	if f.task == nil || f.task.ID != id {
		return nil, domain.NotFound("Task not found")
	}
	return f.task, nil
}

func (f *fakeTasks) Hub() *tasks.Hub { return f.hub }

type fakeExporter struct{}

func (fakeExporter) Storybook(context.Context, string, exporter.StorybookRequest) (*exporter.Result, error) {
	return &exporter.Result{URL: "/exports/storybook.pdf"}, nil
}

func (fakeExporter) Comic(_ context.Context, _ string, req exporter.ComicRequest) (*exporter.Result, error) {
	if req.Format == "gif" {
		return nil, domain.Invalid("Unsupported comic format: gif")
	}
	return &exporter.Result{URL: "/exports/comicbook.pdf"}, nil
}

func (fakeExporter) Bundle(context.Context, string, exporter.BundleRequest) (*exporter.Result, error) {
	return nil, errors.New("disk full")
}

type fakeAnalytics struct{}

func (fakeAnalytics) Overview(context.Context) (domain.Overview, error) {
	return domain.Overview{TotalDreams: 3, AudioMinutes: 1.5}, nil
}

func (fakeAnalytics) Timeseries(_ context.Context, metric string) ([]domain.TimeseriesPoint, error) {
	if metric != "dreams" {
		return nil, &domain.Error{Kind: domain.ErrUnsupportedMetric, Msg: "Unsupported metric: " + metric}
	}
	return nil, nil
}

func (fakeAnalytics) TopModels(_ context.Context, limit int) ([]domain.ModelUsage, error) {
	return []domain.ModelUsage{{Model: "sd15", Count: int64(limit)}}, nil
}

type fakeJournal struct {
	gotType domain.AssetType
}

func (f *fakeJournal) List(context.Context, string) ([]journal.Entry, error) {
	return nil, nil
}

func (f *fakeJournal) ListByType(_ context.Context, userID string, t domain.AssetType) ([]journal.Entry, error) {
	f.gotType = t
	return []journal.Entry{{ID: "a1", UserID: userID, Type: string(t), URL: "/exports/x.pdf"}}, nil
}

func newTestApp() *App {
	events := &fakeEvents{}
	return &App{
		AppName:   "DreamVisualizer AI Backend",
		Logger:    zerolog.Nop(),
		Auth:      &fakeAuth{user: &domain.User{ID: "u1", Email: "a@example.com"}},
		Pipeline:  &fakePipeline{},
		Tasks:     &fakeTasks{hub: tasks.NewHub()},
		Exports:   fakeExporter{},
		Analytics: fakeAnalytics{},
		Events:    events,
		EventLog:  events,
		Journal:   &fakeJournal{},
	}
}

func do(h http.HandlerFunc, method, target, body, userID string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if userID != "" {
		req = req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rr.Body.String())
	}
	return body
}

func TestHealth(t *testing.T) {
	app := newTestApp()
	rr := do(app.Health, http.MethodGet, "/health", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := decodeError(t, rr)
	if body["status"] != "ok" || body["app"] != "DreamVisualizer AI Backend" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestSignupReturnsCreatedToken(t *testing.T) {
	app := newTestApp()
	rr := do(app.Signup, http.MethodPost, "/auth/signup", `{"email":"a@example.com","password":"secret1"}`, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	var got tokenResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.AccessToken != "token-1" || got.TokenType != "bearer" {
		t.Fatalf("unexpected token response %+v", got)
	}
}

func TestSignupValidation(t *testing.T) {
	app := newTestApp()
	rr := do(app.Signup, http.MethodPost, "/auth/signup", `{"email":"not-an-email","password":"secret1"}`, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if msg := decodeError(t, rr)["message"]; msg != "email must be a valid email" {
		t.Fatalf("message = %q", msg)
	}

	app.Auth = &fakeAuth{signupErr: domain.Invalid("Email already registered")}
	rr = do(app.Signup, http.MethodPost, "/auth/signup", `{"email":"a@example.com","password":"secret1"}`, "")
	body := decodeError(t, rr)
	if rr.Code != http.StatusBadRequest || body["code"] != "bad_request" || body["message"] != "Email already registered" {
		t.Fatalf("got %d %v", rr.Code, body)
	}
}

func TestLoginLogsEvent(t *testing.T) {
	app := newTestApp()
	rr := do(app.Login, http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"secret1"}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	events := app.Events.(*fakeEvents).events
	if len(events) != 1 || events[0].Type != domain.EventUserLogin || events[0].UserID != "u1" {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp()
	app.Auth = &fakeAuth{loginErr: auth.ErrInvalidCredentials}
	rr := do(app.Login, http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"nope"}`, "")
	body := decodeError(t, rr)
	if rr.Code != http.StatusUnauthorized || body["message"] != "Invalid email or password" {
		t.Fatalf("got %d %v", rr.Code, body)
	}
}

func TestMe(t *testing.T) {
	app := newTestApp()
	if rr := do(app.Me, http.MethodGet, "/auth/me", "", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rr.Code)
	}
	if rr := do(app.Me, http.MethodGet, "/auth/me", "", "ghost"); rr.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user status = %d, want 401", rr.Code)
	}
	rr := do(app.Me, http.MethodGet, "/auth/me", "", "u1")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"email":"a@example.com"`) {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}
}

func TestProcessStory(t *testing.T) {
	app := newTestApp()
	req := httptest.NewRequest(http.MethodPost, "/api/nlp/process", strings.NewReader(`{"text":"I flew over a calm sea. The moon was bright."}`))
	req = req.WithContext(context.WithValue(req.Context(), middleware.LocaleKey, "fr"))
	rr := httptest.NewRecorder()
	app.ProcessStory(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
	var got domain.StoryAnalysis
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Scenes) == 0 {
		t.Fatalf("expected scenes, got none")
	}
	events := app.Events.(*fakeEvents).events
	if len(events) != 1 || events[0].Type != domain.EventDreamCreated {
		t.Fatalf("unexpected events %+v", events)
	}
	if events[0].Meta["locale"] != "fr" || events[0].Meta["text_length"] != 44 {
		t.Fatalf("unexpected meta %v", events[0].Meta)
	}
}

func TestProcessStoryTooLong(t *testing.T) {
	app := newTestApp()
	body := `{"text":"` + strings.Repeat("a", MaxStoryLength+1) + `"}`
	rr := do(app.ProcessStory, http.MethodPost, "/api/nlp/process", body, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if msg := decodeError(t, rr)["message"]; msg != "Text is too long (max 3000 characters)." {
		t.Fatalf("message = %q", msg)
	}
	if n := len(app.Events.(*fakeEvents).events); n != 0 {
		t.Fatalf("logged %d events for rejected story", n)
	}
}

func TestGenerateImagesErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		body     string
		wantCode int
		wantErr  string
	}{
		{name: "ok", body: `{"scenes":[{"text":"a"}]}`, wantCode: http.StatusOK},
		{name: "validation", body: `{"scenes":[]}`, wantCode: http.StatusBadRequest, wantErr: "bad_request"},
		{name: "unavailable", err: domain.Unavailable("Image generation service is not configured"), body: `{"scenes":[{"text":"a"}]}`, wantCode: http.StatusInternalServerError, wantErr: "unavailable"},
		{name: "not found", err: domain.NotFound("gone"), body: `{"scenes":[{"text":"a"}]}`, wantCode: http.StatusNotFound, wantErr: "not_found"},
		{name: "internal", err: errors.New("boom"), body: `{"scenes":[{"text":"a"}]}`, wantCode: http.StatusInternalServerError, wantErr: "internal"},
		{name: "malformed", body: `{`, wantCode: http.StatusBadRequest, wantErr: "bad_request"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp()
			app.Pipeline = &fakePipeline{err: tc.err}
			rr := do(app.GenerateImages, http.MethodPost, "/api/image/generate", tc.body, "u1")
			if rr.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tc.wantCode, rr.Body.String())
			}
			if tc.wantErr != "" {
				if code := decodeError(t, rr)["code"]; code != tc.wantErr {
					t.Fatalf("code = %q, want %q", code, tc.wantErr)
				}
			}
		})
	}
}

func TestGenerateRequiresUser(t *testing.T) {
	app := newTestApp()
	rr := do(app.RenderVideo, http.MethodPost, "/api/video/generate", `{"image_urls":["a"],"audio_urls":["b"]}`, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	rr = do(app.RenderVideo, http.MethodPost, "/api/video/generate", `{"image_urls":["a"],"audio_urls":["b"]}`, "u7")
	if rr.Code != http.StatusOK || app.Pipeline.(*fakePipeline).userID != "u7" {
		t.Fatalf("got %d, user %q", rr.Code, app.Pipeline.(*fakePipeline).userID)
	}
}

func TestExportHandlers(t *testing.T) {
	app := newTestApp()
	rr := do(app.ExportComic, http.MethodPost, "/api/export/comic", `{"scenes":[{"text":"a"}],"format":"gif"}`, "u1")
	if rr.Code != http.StatusBadRequest || decodeError(t, rr)["message"] != "Unsupported comic format: gif" {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}
	rr = do(app.ExportStorybook, http.MethodPost, "/api/export/storybook", `{"scenes":[{"text":"a"}]}`, "u1")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"url":"/exports/storybook.pdf"`) {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}
	rr = do(app.ExportBundle, http.MethodPost, "/api/export/bundle", `{}`, "u1")
	if rr.Code != http.StatusInternalServerError || decodeError(t, rr)["message"] != "internal server error" {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}
}

func TestEnqueueTask(t *testing.T) {
	app := newTestApp()
	rr := do(app.EnqueueImageTask, http.MethodPost, "/api/tasks/image", `{"scenes":[{"text":"a"}]}`, "u1")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"task_id":"11111111-1111-1111-1111-111111111111"`) {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}
	rr = do(app.EnqueueAudioTask, http.MethodPost, "/api/tasks/audio", `{"scenes":[]}`, "u1")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestTaskStatus(t *testing.T) {
	app := newTestApp()
	id := "44444444-4444-4444-4444-444444444444"
	app.Tasks = &fakeTasks{hub: tasks.NewHub(), task: &domain.Task{ID: id, Type: domain.TaskTypeAudio, Status: domain.TaskStatusRunning, Progress: 50}}

	if rr := do(app.TaskStatus, http.MethodGet, "/api/tasks/status?id=bad", "", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("malformed id status = %d, want 400", rr.Code)
	}
	rr := do(app.TaskStatus, http.MethodGet, "/api/tasks/status?id=55555555-5555-5555-5555-555555555555", "", "")
	if rr.Code != http.StatusNotFound || decodeError(t, rr)["message"] != "Task not found" {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}
	rr = do(app.TaskStatus, http.MethodGet, "/api/tasks/status?id="+id, "", "")
	var view tasks.View
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Status != "running" || view.Progress != 50 || view.Error != nil {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestTaskStreamEndsOnTerminalState(t *testing.T) {
	app := newTestApp()
	id := "66666666-6666-6666-6666-666666666666"
	app.Tasks = &fakeTasks{hub: tasks.NewHub(), task: &domain.Task{ID: id, Type: domain.TaskTypeImage, Status: domain.TaskStatusComplete, Progress: 100}}

	rr := do(app.TaskStream, http.MethodGet, "/api/tasks/stream?id="+id, "", "")
	if ct := rr.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}
	body := rr.Body.String()
	if strings.Count(body, "event: task\n") != 1 || !strings.Contains(body, `"status":"complete"`) {
		t.Fatalf("unexpected stream %q", body)
	}
}

func TestTaskStreamFollowsHub(t *testing.T) {
	app := newTestApp()
	id := "77777777-7777-7777-7777-777777777777"
	ft := &fakeTasks{hub: tasks.NewHub(), task: &domain.Task{ID: id, Type: domain.TaskTypeImage, Status: domain.TaskStatusRunning}}
	app.Tasks = ft

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		done <- do(app.TaskStream, http.MethodGet, "/api/tasks/stream?id="+id, "", "")
	}()

	deadline := time.Now().Add(2 * time.Second)
	for ft.hub.Subscribers(id) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("stream never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	ft.hub.Publish(tasks.View{ID: id, Type: "image", Status: "failed", Progress: 0, UpdatedAt: time.Now()})

	select {
	case rr := <-done:
		if !strings.Contains(rr.Body.String(), `"status":"failed"`) {
			t.Fatalf("stream missing terminal snapshot: %q", rr.Body.String())
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("stream did not end")
	}
}

func TestAnalyticsHandlers(t *testing.T) {
	app := newTestApp()

	rr := do(app.AnalyticsTimeseries, http.MethodGet, "/api/analytics/timeseries?metric=bogus", "", "")
	if rr.Code != http.StatusBadRequest || decodeError(t, rr)["message"] != "Unsupported metric: bogus" {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}
	rr = do(app.AnalyticsTimeseries, http.MethodGet, "/api/analytics/timeseries?metric=dreams", "", "")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != `{"metric":"dreams","points":[]}` {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}

	rr = do(app.AnalyticsTopModels, http.MethodGet, "/api/analytics/top-models", "", "")
	if !strings.Contains(rr.Body.String(), `"count":5`) {
		t.Fatalf("default limit not applied: %s", rr.Body.String())
	}
	if rr := do(app.AnalyticsTopModels, http.MethodGet, "/api/analytics/top-models?limit=51", "", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("limit 51 status = %d, want 400", rr.Code)
	}

	rr = do(app.AnalyticsOverview, http.MethodGet, "/api/analytics/overview", "", "")
	if !strings.Contains(rr.Body.String(), `"total_dreams":3`) {
		t.Fatalf("unexpected overview %s", rr.Body.String())
	}
}

func TestAnalyticsCSV(t *testing.T) {
	app := newTestApp()
	rr := do(app.AnalyticsCSV, http.MethodGet, "/api/analytics/export/csv", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != "attachment; filename=analytics_events.csv" {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if len(lines) != 2 || lines[0] != "id,event_type,user_id,dream_id,created_at,meta" {
		t.Fatalf("unexpected csv %q", rr.Body.String())
	}
	if !strings.HasPrefix(lines[1], "e1,image_generated,u1,,2024-05-01T10:00:00Z,") {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestJournalHandlers(t *testing.T) {
	app := newTestApp()
	rr := do(app.JournalAll, http.MethodGet, "/api/journal/all", "", "u1")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}
	if rr := do(app.JournalByType, http.MethodGet, "/api/journal/type?type=gif", "", "u1"); rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid type status = %d, want 400", rr.Code)
	}
	rr = do(app.JournalByType, http.MethodGet, "/api/journal/type?type=comic", "", "u1")
	if rr.Code != http.StatusOK || app.Journal.(*fakeJournal).gotType != domain.AssetTypeComic {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}
}

func TestArtifactServesStoredFile(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.Write(context.Background(), "images/scene.png", []byte("\x89PNG\r\n\x1a\npayload"), "image/png"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	app := newTestApp()
	app.Store = store

	r := chi.NewRouter()
	r.Get("/generated/*", app.Artifact(storage.PrefixImages))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/generated/scene.png", nil))
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("got %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/generated/missing.png", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing file status = %d, want 404", rr.Code)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	app := newTestApp()
	rr := do(app.OpenAPIJSON, http.MethodGet, OpenAPIPath, "", "")
	var doc struct {
		Paths map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("openapi.json invalid: %v", err)
	}
	for _, p := range []string{"/auth/signup", "/api/tasks/stream", "/api/journal/type"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Fatalf("openapi.json missing %s", p)
		}
	}
	rr = do(app.OpenAPIDocs, http.MethodGet, "/docs", "", "")
	if !strings.Contains(rr.Body.String(), `spec-url="/openapi.json"`) {
		t.Fatalf("docs page does not reference the document")
	}
}
