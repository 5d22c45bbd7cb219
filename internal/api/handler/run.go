package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dxworks/honeydew/internal/ingestion"
	"github.com/dxworks/honeydew/internal/store/minio"
	"github.com/dxworks/honeydew/internal/store/postgres"
	"github.com/dxworks/honeydew/pkg/apierr"
)

// RunStore is the run bookkeeping the handler needs. *store.Store satisfies it.
type RunStore interface {
	CreateRun(ctx context.Context, arg postgres.CreateRunParams) (postgres.LinkRun, error)
	GetRun(ctx context.Context, id uuid.UUID) (postgres.LinkRun, error)
	ListRuns(ctx context.Context, repository string, limit int32) ([]postgres.LinkRun, error)
	FailRun(ctx context.Context, id uuid.UUID, message string) error
}

// Uploader stores uploaded files. *minio.Client satisfies it.
type Uploader interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
}

// Enqueuer hands runs to the workers. *ingestion.Producer satisfies it.
type Enqueuer interface {
	Enqueue(ctx context.Context, msg ingestion.LinkMessage) (string, error)
}

type RunHandler struct {
	logger   *slog.Logger
	store    RunStore
	uploads  Uploader
	producer Enqueuer
	maxBody  int64
}

func NewRunHandler(logger *slog.Logger, s RunStore, uploads Uploader, producer Enqueuer, maxBody int64) *RunHandler {
	return &RunHandler{logger: logger, store: s, uploads: uploads, producer: producer, maxBody: maxBody}
}

type createRunRequest struct {
	Repository string `json:"repository"`
	Source     string `json:"source"`
	Location   string `json:"location"`
}

// Create starts an asynchronous link run. A multipart request uploads a raw
// document or a zipped source tree in field "file"; a JSON request names a
// git repository to clone.
func (h *RunHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	runID := uuid.New()
	var msg ingestion.LinkMessage
	var object string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		m, e := h.fromUpload(r, runID)
		if e != nil {
			writeAPIError(w, h.logger, e)
			return
		}
		msg, object = m, m.Location
	} else {
		var req createRunRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAPIError(w, h.logger, apierr.InvalidRequestBody())
			return
		}
		if e := validateRepository(req.Repository); e != nil {
			writeAPIError(w, h.logger, e)
			return
		}
		if req.Source == "" {
			req.Source = ingestion.SourceGit
		}
		if req.Source != ingestion.SourceGit {
			writeAPIError(w, h.logger, apierr.InvalidSourceType())
			return
		}
		if req.Location == "" {
			writeAPIError(w, h.logger, apierr.LocationRequired())
			return
		}
		msg = ingestion.LinkMessage{Repository: req.Repository, Source: req.Source, Location: req.Location}
	}
	msg.RunID = runID

	run, err := h.store.CreateRun(r.Context(), postgres.CreateRunParams{
		ID:         runID,
		Repository: msg.Repository,
		Source:     msg.Source,
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.RunCreateFailed(err))
		return
	}

	if h.producer != nil {
		if _, err := h.producer.Enqueue(r.Context(), msg); err != nil {
			_ = h.store.FailRun(r.Context(), runID, "enqueue: "+err.Error())
			writeAPIError(w, h.logger, apierr.EnqueueFailed(err))
			return
		}
	}

	resp := map[string]any{"run": run}
	if object != "" {
		resp["object"] = object
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (h *RunHandler) fromUpload(r *http.Request, runID uuid.UUID) (ingestion.LinkMessage, *apierr.Error) {
	var msg ingestion.LinkMessage
	if h.uploads == nil {
		return msg, apierr.NotImplemented("File upload")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return msg, apierr.FileRequired()
	}
	defer file.Close()

	msg.Repository = r.FormValue("repository")
	if e := validateRepository(msg.Repository); e != nil {
		return msg, e
	}

	msg.Source = r.FormValue("source")
	if msg.Source == "" {
		msg.Source = sourceForFile(header.Filename)
	}
	if msg.Source == ingestion.SourceGit {
		return msg, apierr.InvalidSourceType()
	}
	if e := validateSourceType(msg.Source); e != nil {
		return msg, e
	}

	msg.Location = minio.UploadKey(runID, header.Filename)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := h.uploads.Upload(r.Context(), msg.Location, file, header.Size, contentType); err != nil {
		return msg, apierr.UploadFailed(err)
	}
	msg.Format = r.FormValue("format")
	return msg, nil
}

func sourceForFile(name string) string {
	if strings.EqualFold(path.Ext(name), ".zip") {
		return ingestion.SourceArchive
	}
	return ingestion.SourceDocument
}

func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	runs, err := h.store.ListRuns(r.Context(), r.URL.Query().Get("repository"), int32(limit))
	if err != nil {
		writeAPIError(w, h.logger, apierr.RunListFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"total": len(runs),
	})
}

func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRunID())
		return
	}

	run, err := h.store.GetRun(r.Context(), runID)
	if err != nil {
		if apierr.IsRunMissing(err) {
			writeAPIError(w, h.logger, apierr.RunNotFound().ForRun(runID.String()))
		} else {
			writeAPIError(w, h.logger, apierr.InternalError(err).ForRun(runID.String()))
		}
		return
	}

	writeJSON(w, http.StatusOK, run)
}
