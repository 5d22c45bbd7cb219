package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestFromLink(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   Code
		status int
	}{
		{"canceled", fmt.Errorf("link canceled before calls: %w", context.Canceled), CodeLinkCanceled, http.StatusServiceUnavailable},
		{"deadline", fmt.Errorf("pass members: %w", context.DeadlineExceeded), CodeLinkCanceled, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), CodeLinkFailed, http.StatusInternalServerError},
		{"already mapped", InvalidDocument(errors.New("bad json")), CodeInvalidDocument, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromLink(tt.err)
			if got.Code() != tt.code || got.Status() != tt.status {
				t.Errorf("FromLink() = %v/%d, want %v/%d", got.Code(), got.Status(), tt.code, tt.status)
			}
			if !errors.Is(got, tt.err) && got != tt.err {
				t.Errorf("FromLink() lost the cause %v", tt.err)
			}
		})
	}
}

func TestForRun(t *testing.T) {
	base := RunNotFound()
	tagged := base.ForRun("42")

	if base.Run() != "" {
		t.Errorf("ForRun mutated the receiver: run = %q", base.Run())
	}
	if got := tagged.Response().Error.Run; got != "42" {
		t.Errorf("response run = %q, want 42", got)
	}
	if got, want := tagged.Error(), "RUN_NOT_FOUND [run 42]: Link run not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsRunMissing(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{pgx.ErrNoRows, true},
		{fmt.Errorf("run not found: %w", pgx.ErrNoRows), true},
		{errors.New("timeout"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsRunMissing(tt.err); got != tt.want {
			t.Errorf("IsRunMissing(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
