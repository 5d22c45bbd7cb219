package apierr

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// IsRunMissing reports whether err comes from looking up a link run row
// that does not exist.
func IsRunMissing(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// FromLink maps an error returned by the linking engine. Cancellation
// means the request went away or timed out mid-link; anything else is a
// server fault.
func FromLink(err error) *Error {
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return LinkCanceled(err)
	default:
		return LinkFailed(err)
	}
}
