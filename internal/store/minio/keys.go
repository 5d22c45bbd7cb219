package minio

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// Object names used by link runs.
const (
	UploadsPrefix = "uploads"
	RunsPrefix    = "runs"
)

// UploadKey is where a posted raw fact document is kept until a worker links it.
func UploadKey(runID uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".json"
	}
	return path.Join(UploadsPrefix, runID.String()+ext)
}

// GraphKey is the export document of a finished run.
func GraphKey(runID uuid.UUID) string {
	return path.Join(RunsPrefix, runID.String(), "graph.json")
}

// RawKey is the raw fact document a run linked.
func RawKey(runID uuid.UUID) string {
	return path.Join(RunsPrefix, runID.String(), "raw.json")
}
