package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dxworks/honeydew/internal/export"
	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/internal/resolver"
	"github.com/dxworks/honeydew/pkg/apierr"
)

// LinkHandler links a raw document synchronously and returns its export
// document.
type LinkHandler struct {
	logger  *slog.Logger
	engine  *resolver.Engine
	maxBody int64
}

func NewLinkHandler(logger *slog.Logger, engine *resolver.Engine, maxBody int64) *LinkHandler {
	return &LinkHandler{logger: logger, engine: engine, maxBody: maxBody}
}

func (h *LinkHandler) Link(w http.ResponseWriter, r *http.Request) {
	repository := r.URL.Query().Get("repository")
	if e := validateRepository(repository); e != nil {
		writeAPIError(w, h.logger, e)
		return
	}

	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	raw, err := parser.DecodeDocument(r.Body, requestFormat(r))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeAPIError(w, h.logger, apierr.BodyTooLarge())
			return
		}
		writeAPIError(w, h.logger, apierr.InvalidDocument(err))
		return
	}

	linked, err := h.engine.Link(r.Context(), raw)
	if err != nil {
		writeAPIError(w, h.logger, apierr.FromLink(err))
		return
	}

	writeJSON(w, http.StatusOK, export.Build(repository, linked))
}

// requestFormat picks the document format from the format query parameter,
// then the content type. JSON is the default.
func requestFormat(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return strings.ToLower(f)
	}
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return "yaml"
	}
	return "json"
}
