package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dxworks/honeydew/pkg/apierr"
)

// writeJSON encodes v before touching the response, so a linked graph
// that fails to encode yields a clean 500 instead of a truncated body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, `{"error":{"code":"INTERNAL_ERROR","message":"response encoding failed"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// writeAPIError writes e as JSON. Server faults are logged with their
// cause and run; client mistakes only at debug level.
func writeAPIError(w http.ResponseWriter, logger *slog.Logger, e *apierr.Error) {
	if logger != nil {
		attrs := []any{slog.String("code", string(e.Code()))}
		if e.Run() != "" {
			attrs = append(attrs, slog.String("run", e.Run()))
		}
		if e.Status() >= http.StatusInternalServerError {
			logger.Error(e.Message(), append(attrs, slog.String("error", e.Error()))...)
		} else {
			logger.Debug(e.Message(), attrs...)
		}
	}
	writeJSON(w, e.Status(), e.Response())
}
