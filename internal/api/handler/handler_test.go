package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dxworks/honeydew/internal/export"
	"github.com/dxworks/honeydew/internal/graph"
	"github.com/dxworks/honeydew/internal/ingestion"
	"github.com/dxworks/honeydew/internal/resolver"
	"github.com/dxworks/honeydew/internal/store/postgres"
	"github.com/dxworks/honeydew/pkg/apierr"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierr.Code {
	t.Helper()
	var resp apierr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.Error.Code
}

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type fakeRuns struct {
	created []postgres.CreateRunParams
	failed  map[uuid.UUID]string
	runs    map[uuid.UUID]postgres.LinkRun
}

func newFakeRuns() *fakeRuns {
	return &fakeRuns{failed: make(map[uuid.UUID]string), runs: make(map[uuid.UUID]postgres.LinkRun)}
}

func (f *fakeRuns) CreateRun(_ context.Context, arg postgres.CreateRunParams) (postgres.LinkRun, error) {
	f.created = append(f.created, arg)
	run := postgres.LinkRun{ID: arg.ID, Repository: arg.Repository, Source: arg.Source, Status: postgres.RunPending}
	f.runs[arg.ID] = run
	return run, nil
}

func (f *fakeRuns) GetRun(_ context.Context, id uuid.UUID) (postgres.LinkRun, error) {
	run, ok := f.runs[id]
	if !ok {
		return run, postgres.ErrNotFound
	}
	return run, nil
}

func (f *fakeRuns) ListRuns(context.Context, string, int32) ([]postgres.LinkRun, error) {
	var out []postgres.LinkRun
	for _, r := range f.runs {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRuns) FailRun(_ context.Context, id uuid.UUID, msg string) error {
	f.failed[id] = msg
	return nil
}

type fakeUploads struct {
	names []string
	body  []byte
}

func (f *fakeUploads) Upload(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	f.names = append(f.names, name)
	f.body, _ = io.ReadAll(r)
	return nil
}

type fakeQueue struct {
	msgs []ingestion.LinkMessage
	err  error
}

func (f *fakeQueue) Enqueue(_ context.Context, msg ingestion.LinkMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.msgs = append(f.msgs, msg)
	return "1-0", nil
}

const rawDocument = `{
  "projects": [{
    "name": "Core",
    "filePath": "Core/Core.csproj",
    "language": "C#",
    "compilationUnits": [{
      "filePath": "Core/Greeter.cs",
      "declarations": [{
        "type": "class",
        "name": "Core.Greeter",
        "containingNamespace": "Core",
        "methods": [{"name": "Greet", "returnValue": {"type": "string"}}]
      }]
    }]
  }]
}`

func TestLinkHandler(t *testing.T) {
	h := NewLinkHandler(discardLogger(), resolver.NewEngine(ingestion.NewRegistry(), discardLogger()), 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/link?repository=core", strings.NewReader(rawDocument))
	w := httptest.NewRecorder()
	h.Link(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var doc export.Document
	if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if doc.Repository != "core" {
		t.Errorf("repository = %q", doc.Repository)
	}
	if doc.Find("class", "Core.Greeter") == nil {
		t.Error("Core.Greeter node missing")
	}
}

func TestLinkHandler_Errors(t *testing.T) {
	h := NewLinkHandler(discardLogger(), resolver.NewEngine(ingestion.NewRegistry(), discardLogger()), 64)

	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   apierr.Code
	}{
		{"missing repository", "/api/v1/link", rawDocument, http.StatusBadRequest, apierr.CodeRepositoryRequired},
		{"bad document", "/api/v1/link?repository=r", "{", http.StatusUnprocessableEntity, apierr.CodeInvalidDocument},
		{"unknown format", "/api/v1/link?repository=r&format=xml", "{}", http.StatusUnprocessableEntity, apierr.CodeInvalidDocument},
		{"too large", "/api/v1/link?repository=r", rawDocument, http.StatusRequestEntityTooLarge, apierr.CodeBodyTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Link(w, httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body)))
			if w.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, w.Code)
			}
			if code := decodeError(t, w); code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, code)
			}
		})
	}
}

func TestRunHandler_CreateGit(t *testing.T) {
	runs, queue := newFakeRuns(), &fakeQueue{}
	h := NewRunHandler(discardLogger(), runs, nil, queue, 0)

	body, _ := json.Marshal(map[string]string{"repository": "shop", "location": "https://example.com/shop.git@main"})
	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/api/v1/runs", bytes.NewReader(body)))

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	if len(runs.created) != 1 || runs.created[0].Source != ingestion.SourceGit {
		t.Errorf("created = %+v", runs.created)
	}
	if len(queue.msgs) != 1 || queue.msgs[0].RunID != runs.created[0].ID {
		t.Errorf("enqueued = %+v", queue.msgs)
	}
}

func TestRunHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		code apierr.Code
	}{
		{"invalid json", "nope", apierr.CodeInvalidRequestBody},
		{"missing repository", `{"location":"x"}`, apierr.CodeRepositoryRequired},
		{"directory source", `{"repository":"r","source":"directory","location":"/tmp"}`, apierr.CodeInvalidSourceType},
		{"missing location", `{"repository":"r"}`, apierr.CodeLocationRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRunHandler(discardLogger(), newFakeRuns(), nil, nil, 0)
			w := httptest.NewRecorder()
			h.Create(w, httptest.NewRequest(http.MethodPost, "/api/v1/runs", strings.NewReader(tt.body)))
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
			if code := decodeError(t, w); code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, code)
			}
		})
	}
}

func TestRunHandler_CreateUpload(t *testing.T) {
	runs, uploads, queue := newFakeRuns(), &fakeUploads{}, &fakeQueue{}
	h := NewRunHandler(discardLogger(), runs, uploads, queue, 0)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("repository", "legacy")
	fw, _ := mw.CreateFormFile("file", "legacy.zip")
	_, _ = fw.Write([]byte("PK"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	if len(queue.msgs) != 1 {
		t.Fatalf("enqueued = %d, want 1", len(queue.msgs))
	}
	msg := queue.msgs[0]
	if msg.Source != ingestion.SourceArchive {
		t.Errorf("source = %q, want archive", msg.Source)
	}
	if len(uploads.names) != 1 || uploads.names[0] != msg.Location || !strings.HasSuffix(msg.Location, ".zip") {
		t.Errorf("uploaded %v, message location %q", uploads.names, msg.Location)
	}
	if string(uploads.body) != "PK" {
		t.Errorf("uploaded body = %q", uploads.body)
	}
}

func TestRunHandler_EnqueueFailureMarksRunFailed(t *testing.T) {
	runs := newFakeRuns()
	h := NewRunHandler(discardLogger(), runs, nil, &fakeQueue{err: errors.New("down")}, 0)

	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/api/v1/runs", strings.NewReader(`{"repository":"r","location":"https://x/r.git"}`)))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if len(runs.failed) != 1 {
		t.Errorf("failed runs = %v", runs.failed)
	}
}

func TestRunHandler_Get(t *testing.T) {
	runs := newFakeRuns()
	id := uuid.New()
	runs.runs[id] = postgres.LinkRun{ID: id, Repository: "shop", Status: postgres.RunCompleted}
	h := NewRunHandler(discardLogger(), runs, nil, nil, 0)

	tests := []struct {
		name   string
		param  string
		status int
	}{
		{"found", id.String(), http.StatusOK},
		{"not found", uuid.NewString(), http.StatusNotFound},
		{"bad id", "nope", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Get(w, withParam(httptest.NewRequest(http.MethodGet, "/", nil), "runID", tt.param))
			if w.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, w.Code)
			}
		})
	}
}

type fakeCalls struct {
	direction string
	depth     int
}

func (f *fakeCalls) Calls(_ context.Context, id uuid.UUID, direction string, depth int) (*graph.CallGraph, error) {
	f.direction, f.depth = direction, depth
	return &graph.CallGraph{RootID: id.String()}, nil
}

func TestGraphHandler_Calls(t *testing.T) {
	calls := &fakeCalls{}
	h := NewGraphHandler(discardLogger(), nil, calls)
	id := uuid.New()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?direction=callers&depth=2", nil)
	h.Calls(w, withParam(req, "nodeID", id.String()))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if calls.direction != "callers" || calls.depth != 2 {
		t.Errorf("query direction=%q depth=%d", calls.direction, calls.depth)
	}

	w = httptest.NewRecorder()
	h.Calls(w, withParam(httptest.NewRequest(http.MethodGet, "/?direction=up", nil), "nodeID", id.String()))
	if w.Code != http.StatusBadRequest || decodeError(t, w) != apierr.CodeInvalidDirection {
		t.Errorf("invalid direction: status %d", w.Code)
	}
}

func TestGraphHandler_CallsWithoutGraph(t *testing.T) {
	h := NewGraphHandler(discardLogger(), nil, nil)
	w := httptest.NewRecorder()
	h.Calls(w, withParam(httptest.NewRequest(http.MethodGet, "/", nil), "nodeID", uuid.NewString()))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeVerifier struct{ err error }

func (f fakeVerifier) Verify(context.Context) error { return f.err }

func TestHealthHandler_Readyz(t *testing.T) {
	down := errors.New("connection refused")
	tests := []struct {
		name   string
		runs   Pinger
		graph  GraphVerifier
		status int
		code   apierr.Code
	}{
		{"nothing wired", nil, nil, http.StatusOK, ""},
		{"runs and graph up", fakePinger{}, fakeVerifier{}, http.StatusOK, ""},
		{"runs down", fakePinger{err: down}, fakeVerifier{}, http.StatusServiceUnavailable, apierr.CodeDatabaseNotReady},
		{"graph down", fakePinger{}, fakeVerifier{err: down}, http.StatusServiceUnavailable, apierr.CodeGraphNotReady},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewHealthHandler(tt.runs, tt.graph).Readyz(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if tt.code != "" {
				if got := decodeError(t, w); got != tt.code {
					t.Errorf("code = %v, want %v", got, tt.code)
				}
			}
		})
	}
}

func TestRunHandler_GetMissingNamesRun(t *testing.T) {
	h := NewRunHandler(discardLogger(), newFakeRuns(), nil, nil, 0)
	id := uuid.NewString()

	w := httptest.NewRecorder()
	h.Get(w, withParam(httptest.NewRequest(http.MethodGet, "/", nil), "runID", id))

	var resp apierr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != apierr.CodeRunNotFound || resp.Error.Run != id {
		t.Errorf("error = %+v, want RUN_NOT_FOUND for run %s", resp.Error, id)
	}
}
