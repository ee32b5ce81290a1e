// internal/catalog/domain.go
package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("book not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrFileMissing   = errors.New("file missing or inaccessible")
	ErrMalformedData = errors.New("malformed catalog data")
	ErrUnknown       = errors.New("unknown failure")
)

// Status is the circulation state of a book.
type Status string

const (
	StatusAvailable  Status = "available"
	StatusCheckedOut Status = "checked out"
)

// legacyStatus maps labels found in catalog files written by earlier
// releases onto the current statuses.
var legacyStatus = map[string]Status{
	"В наличии": StatusAvailable,
	"Выдана":    StatusCheckedOut,
}

// ParseStatus returns the Status for one of the known labels. Legacy labels
// are accepted and normalized.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusCheckedOut:
		return Status(s), nil
	}
	if st, ok := legacyStatus[s]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusCheckedOut
}

func (s Status) String() string {
	return string(s)
}

// Book represents a single catalog record.
type Book struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
	Status Status `json:"status"`
}

// Span event names recorded by the service for catalog mutations.
const (
	EventBookAdded         = "book.added"
	EventBookRemoved       = "book.removed"
	EventBookStatusChanged = "book.status_changed"
	EventCatalogLoaded     = "catalog.loaded"
	EventCatalogSaved      = "catalog.saved"
)
