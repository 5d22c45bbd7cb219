package handler

import (
	"regexp"

	"github.com/dxworks/honeydew/internal/ingestion"
	"github.com/dxworks/honeydew/pkg/apierr"
)

var repositoryRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]{0,127}$`)

func validateRepository(name string) *apierr.Error {
	if name == "" {
		return apierr.RepositoryRequired()
	}
	if !repositoryRegex.MatchString(name) {
		return apierr.RepositoryInvalid()
	}
	return nil
}

// Directory sources read the local filesystem and are reserved for the CLI.
var validSourceTypes = map[string]bool{
	ingestion.SourceDocument: true,
	ingestion.SourceArchive:  true,
	ingestion.SourceGit:      true,
}

func validateSourceType(st string) *apierr.Error {
	if !validSourceTypes[st] {
		return apierr.InvalidSourceType()
	}
	return nil
}

var validDirections = map[string]bool{
	"callers": true,
	"callees": true,
	"both":    true,
}

func validateDirection(d string) *apierr.Error {
	if !validDirections[d] {
		return apierr.InvalidDirection()
	}
	return nil
}
