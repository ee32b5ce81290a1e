// internal/catalog/service.go
package catalog

import (
	"context"
)

// Service defines the interface for the catalog service.
type Service interface {
	AddBook(ctx context.Context, title, author string, year int, status Status) (*Book, error)
	GetBook(ctx context.Context, id int) (*Book, error)
	RemoveBook(ctx context.Context, id int) error
	BookExists(ctx context.Context, id int) bool
	HasBooks(ctx context.Context) bool
	ChangeStatus(ctx context.Context, id int, status Status) error
	Search(ctx context.Context, query string) ([]Book, error)
	SearchText(ctx context.Context, pattern string) ([]Book, error)
	SearchYear(ctx context.Context, year int) ([]Book, error)
	List(ctx context.Context) ([]Book, error)
	Save(ctx context.Context, path string) error
	Load(ctx context.Context, path string) (int, error)
}
