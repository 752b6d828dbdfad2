package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedCatalog = errors.New("malformed catalog")
	ErrUnknownTier      = errors.New("unknown estimate tier")
	ErrHallNotFound     = errors.New("hall not found")
	ErrCompanyNotFound  = errors.New("company not found")
	ErrDuplicateCompany = errors.New("company already exists")
)

// MalformedCatalogError points at the first structural problem in raw input.
type MalformedCatalogError struct {
	Path   string
	Reason string
}

func (e *MalformedCatalogError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed catalog: %s", e.Reason)
	}
	return fmt.Sprintf("malformed catalog at %s: %s", e.Path, e.Reason)
}

func (e *MalformedCatalogError) Unwrap() error {
	return ErrMalformedCatalog
}

func malformed(path, format string, args ...interface{}) error {
	return &MalformedCatalogError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
