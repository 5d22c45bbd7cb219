package apierr

// Code is a machine-readable error code returned in API responses.
type Code string

// Common errors.
const (
	CodeInvalidRequestBody Code = "INVALID_REQUEST_BODY"
	CodeInvalidID          Code = "INVALID_ID"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeNotImplemented     Code = "NOT_IMPLEMENTED"
	CodeBodyTooLarge       Code = "BODY_TOO_LARGE"
)

// Link run errors.
const (
	CodeRunNotFound       Code = "RUN_NOT_FOUND"
	CodeInvalidRunID      Code = "INVALID_RUN_ID"
	CodeRunCreateFailed   Code = "RUN_CREATE_FAILED"
	CodeRunListFailed     Code = "RUN_LIST_FAILED"
	CodeEnqueueFailed     Code = "ENQUEUE_FAILED"
	CodeInvalidSourceType Code = "INVALID_SOURCE_TYPE"
	CodeLocationRequired  Code = "LOCATION_REQUIRED"
)

// Linking errors.
const (
	CodeInvalidDocument Code = "INVALID_DOCUMENT"
	CodeLinkFailed      Code = "LINK_FAILED"
	CodeLinkCanceled    Code = "LINK_CANCELED"
)

// Graph query errors.
const (
	CodeSearchFailed     Code = "SEARCH_FAILED"
	CodeCallQueryFailed  Code = "CALL_QUERY_FAILED"
	CodeGraphUnavailable Code = "GRAPH_UNAVAILABLE"
)

// Validation errors.
const (
	CodeRepositoryRequired Code = "REPOSITORY_REQUIRED"
	CodeRepositoryInvalid  Code = "REPOSITORY_INVALID"
	CodeInvalidDirection   Code = "INVALID_DIRECTION"
)

// Upload errors.
const (
	CodeFileRequired Code = "FILE_REQUIRED"
	CodeUploadFailed Code = "UPLOAD_FAILED"
)

// Health errors.
const (
	CodeDatabaseNotReady Code = "DATABASE_NOT_READY"
	CodeGraphNotReady    Code = "GRAPH_NOT_READY"
)
