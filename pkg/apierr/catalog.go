package apierr

import "net/http"

// --- Common ---

func InvalidRequestBody() *Error {
	return New(CodeInvalidRequestBody, http.StatusBadRequest, "Invalid request body")
}

func InvalidID(entity string) *Error {
	return New(CodeInvalidID, http.StatusBadRequest, "Invalid "+entity+" ID")
}

func InternalError(cause error) *Error {
	return Wrap(CodeInternalError, http.StatusInternalServerError, "Internal server error", cause)
}

func NotImplemented(feature string) *Error {
	return New(CodeNotImplemented, http.StatusNotImplemented, feature+" is not implemented yet")
}

func BodyTooLarge() *Error {
	return New(CodeBodyTooLarge, http.StatusRequestEntityTooLarge, "Request body too large")
}

// --- Link Run ---

func RunNotFound() *Error {
	return New(CodeRunNotFound, http.StatusNotFound, "Link run not found")
}

func InvalidRunID() *Error {
	return New(CodeInvalidRunID, http.StatusBadRequest, "Invalid run ID")
}

func RunCreateFailed(cause error) *Error {
	return Wrap(CodeRunCreateFailed, http.StatusInternalServerError, "Failed to create link run", cause)
}

func RunListFailed(cause error) *Error {
	return Wrap(CodeRunListFailed, http.StatusInternalServerError, "Failed to list link runs", cause)
}

func EnqueueFailed(cause error) *Error {
	return Wrap(CodeEnqueueFailed, http.StatusInternalServerError, "Failed to enqueue link run", cause)
}

func InvalidSourceType() *Error {
	return New(CodeInvalidSourceType, http.StatusBadRequest, "source must be one of: document, archive, git")
}

func LocationRequired() *Error {
	return New(CodeLocationRequired, http.StatusBadRequest, "location is required for git sources")
}

// --- Linking ---

func InvalidDocument(cause error) *Error {
	return Wrap(CodeInvalidDocument, http.StatusUnprocessableEntity, "Raw document could not be decoded", cause)
}

func LinkFailed(cause error) *Error {
	return Wrap(CodeLinkFailed, http.StatusInternalServerError, "Linking failed", cause)
}

func LinkCanceled(cause error) *Error {
	return Wrap(CodeLinkCanceled, http.StatusServiceUnavailable, "Linking was canceled before it finished", cause)
}

// --- Graph ---

func SearchFailed(cause error) *Error {
	return Wrap(CodeSearchFailed, http.StatusInternalServerError, "Search failed", cause)
}

func CallQueryFailed(cause error) *Error {
	return Wrap(CodeCallQueryFailed, http.StatusInternalServerError, "Call graph query failed", cause)
}

func GraphUnavailable() *Error {
	return New(CodeGraphUnavailable, http.StatusServiceUnavailable, "Graph database is not configured")
}

// --- Validation ---

func RepositoryRequired() *Error {
	return New(CodeRepositoryRequired, http.StatusBadRequest, "Repository name is required")
}

func RepositoryInvalid() *Error {
	return New(CodeRepositoryInvalid, http.StatusBadRequest, "Repository name must be 1-128 chars of letters, digits, '.', '_', '-' or '/'")
}

func InvalidDirection() *Error {
	return New(CodeInvalidDirection, http.StatusBadRequest, "direction must be one of: callers, callees, both")
}

// --- Upload ---

func FileRequired() *Error {
	return New(CodeFileRequired, http.StatusBadRequest, "File is required (multipart field 'file')")
}

func UploadFailed(cause error) *Error {
	return Wrap(CodeUploadFailed, http.StatusInternalServerError, "Failed to upload file", cause)
}

// --- Health ---

func DatabaseNotReady() *Error {
	return New(CodeDatabaseNotReady, http.StatusServiceUnavailable, "Database not ready")
}

func GraphNotReady() *Error {
	return New(CodeGraphNotReady, http.StatusServiceUnavailable, "Graph database not ready")
}
