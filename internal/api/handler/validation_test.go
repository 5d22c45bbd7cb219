package handler

import (
	"strings"
	"testing"

	"github.com/dxworks/honeydew/pkg/apierr"
)

func TestValidateRepository(t *testing.T) {
	tests := []struct {
		name     string
		wantErr  bool
		wantCode apierr.Code
	}{
		{"shop", false, ""},
		{"dxworks/honeydew", false, ""},
		{"Legacy.App_v2", false, ""},
		{"", true, apierr.CodeRepositoryRequired},
		{"-leading-dash", true, apierr.CodeRepositoryInvalid},
		{"has space", true, apierr.CodeRepositoryInvalid},
		{strings.Repeat("a", 129), true, apierr.CodeRepositoryInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRepository(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateRepository(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil && err.Code() != tt.wantCode {
				t.Errorf("validateRepository(%q) code = %v, want %v", tt.name, err.Code(), tt.wantCode)
			}
		})
	}
}

func TestValidateSourceType(t *testing.T) {
	valid := []string{"document", "archive", "git"}
	for _, st := range valid {
		if err := validateSourceType(st); err != nil {
			t.Errorf("validateSourceType(%q) = %v, want nil", st, err)
		}
	}

	invalid := []string{"", "directory", "svn", "GIT"}
	for _, st := range invalid {
		err := validateSourceType(st)
		if err == nil {
			t.Errorf("validateSourceType(%q) = nil, want error", st)
		} else if err.Code() != apierr.CodeInvalidSourceType {
			t.Errorf("validateSourceType(%q) code = %v, want %v", st, err.Code(), apierr.CodeInvalidSourceType)
		}
	}
}

func TestValidateDirection(t *testing.T) {
	for _, d := range []string{"callers", "callees", "both"} {
		if err := validateDirection(d); err != nil {
			t.Errorf("validateDirection(%q) = %v", d, err)
		}
	}
	if err := validateDirection("up"); err == nil || err.Code() != apierr.CodeInvalidDirection {
		t.Errorf("validateDirection(up) = %v", err)
	}
}
