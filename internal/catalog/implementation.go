// internal/catalog/implementation.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "bookkeeper/catalog"

// service implements the Service interface on top of an in-memory Catalog.
type service struct {
	catalog    *Catalog
	logger     *slog.Logger
	tracer     trace.Tracer
	operations metric.Int64Counter
}

// Option configures a service.
type Option func(*service)

// WithLogger sets the logger used by the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *service) {
		s.tracer = tp.Tracer(instrumentationName)
	}
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *service) {
		s.operations = newOperationsCounter(mp.Meter(instrumentationName))
	}
}

// NewService creates a new catalog service instance.
func NewService(c *Catalog, opts ...Option) Service {
	s := &service{
		catalog: c,
		logger:  slog.Default(),
		tracer:  otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.operations == nil {
		s.operations = newOperationsCounter(otel.Meter(instrumentationName))
	}
	return s
}

func newOperationsCounter(meter metric.Meter) metric.Int64Counter {
	counter, err := meter.Int64Counter("catalog.operations",
		metric.WithDescription("Catalog operations by name and outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		otel.Handle(err)
	}
	if counter == nil {
		return noop.Int64Counter{}
	}
	return counter
}

// AddBook creates a new book in the catalog.
func (s *service) AddBook(ctx context.Context, title, author string, year int, status Status) (*Book, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.add_book",
		trace.WithAttributes(
			attribute.String("book.title", title),
			attribute.Int("book.year", year),
		),
	)
	defer span.End()

	if status != "" && !status.Valid() {
		err := fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
		s.finish(ctx, span, "add_book", err)
		return nil, err
	}

	book := s.catalog.Add(title, author, year, status)
	span.AddEvent(EventBookAdded, trace.WithAttributes(
		attribute.Int("book.id", book.ID),
		attribute.String("book.status", book.Status.String()),
	))
	s.logger.InfoContext(ctx, "book added", "id", book.ID, "title", book.Title, "year", book.Year)
	s.finish(ctx, span, "add_book", nil)
	return &book, nil
}

// GetBook retrieves a book from the catalog by its ID.
func (s *service) GetBook(ctx context.Context, id int) (*Book, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.get_book",
		trace.WithAttributes(attribute.Int("book.id", id)),
	)
	defer span.End()

	book, ok := s.catalog.Get(id)
	if !ok {
		err := fmt.Errorf("%w: id %d", ErrNotFound, id)
		s.finish(ctx, span, "get_book", err)
		return nil, err
	}
	s.finish(ctx, span, "get_book", nil)
	return &book, nil
}

// RemoveBook deletes a book from the catalog. Ids are never reused.
func (s *service) RemoveBook(ctx context.Context, id int) error {
	ctx, span := s.tracer.Start(ctx, "catalog.remove_book",
		trace.WithAttributes(attribute.Int("book.id", id)),
	)
	defer span.End()

	if !s.catalog.DeleteByID(id) {
		err := fmt.Errorf("%w: id %d", ErrNotFound, id)
		s.finish(ctx, span, "remove_book", err)
		return err
	}

	span.AddEvent(EventBookRemoved, trace.WithAttributes(attribute.Int("book.id", id)))
	s.logger.InfoContext(ctx, "book removed", "id", id)
	s.finish(ctx, span, "remove_book", nil)
	return nil
}

func (s *service) BookExists(ctx context.Context, id int) bool {
	return s.catalog.ExistsByID(id)
}

func (s *service) HasBooks(ctx context.Context) bool {
	return s.catalog.HasAny()
}

// ChangeStatus updates the status of an existing book. An absent id yields
// ErrNotFound and leaves the catalog unchanged.
func (s *service) ChangeStatus(ctx context.Context, id int, status Status) error {
	ctx, span := s.tracer.Start(ctx, "catalog.change_status",
		trace.WithAttributes(
			attribute.Int("book.id", id),
			attribute.String("book.status", status.String()),
		),
	)
	defer span.End()

	if !status.Valid() {
		err := fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
		s.finish(ctx, span, "change_status", err)
		return err
	}
	if !s.catalog.ChangeStatus(id, status) {
		err := fmt.Errorf("%w: id %d", ErrNotFound, id)
		s.finish(ctx, span, "change_status", err)
		return err
	}

	span.AddEvent(EventBookStatusChanged, trace.WithAttributes(
		attribute.Int("book.id", id),
		attribute.String("book.status", status.String()),
	))
	s.logger.InfoContext(ctx, "book status changed", "id", id, "status", status)
	s.finish(ctx, span, "change_status", nil)
	return nil
}

// Search looks books up by year when query is an integer and by fuzzy
// title/author match otherwise.
func (s *service) Search(ctx context.Context, query string) ([]Book, error) {
	if year, err := strconv.Atoi(strings.TrimSpace(query)); err == nil {
		return s.SearchYear(ctx, year)
	}
	return s.SearchText(ctx, query)
}

func (s *service) SearchText(ctx context.Context, pattern string) ([]Book, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.search_text",
		trace.WithAttributes(attribute.String("search.pattern", pattern)),
	)
	defer span.End()

	books := s.catalog.FindByText(pattern)
	span.SetAttributes(attribute.Int("search.results", len(books)))
	s.logger.DebugContext(ctx, "text search", "pattern", pattern, "results", len(books))
	s.finish(ctx, span, "search_text", nil)
	return books, nil
}

func (s *service) SearchYear(ctx context.Context, year int) ([]Book, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.search_year",
		trace.WithAttributes(attribute.Int("search.year", year)),
	)
	defer span.End()

	books := s.catalog.FindByYear(year)
	span.SetAttributes(attribute.Int("search.results", len(books)))
	s.logger.DebugContext(ctx, "year search", "year", year, "results", len(books))
	s.finish(ctx, span, "search_year", nil)
	return books, nil
}

func (s *service) List(ctx context.Context) ([]Book, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.list")
	defer span.End()

	books := s.catalog.All()
	span.SetAttributes(attribute.Int("catalog.size", len(books)))
	s.finish(ctx, span, "list", nil)
	return books, nil
}

// Save persists the catalog to path.
func (s *service) Save(ctx context.Context, path string) error {
	ctx, span := s.tracer.Start(ctx, "catalog.save",
		trace.WithAttributes(attribute.String("file.path", path)),
	)
	defer span.End()

	if err := SaveFile(path, s.catalog); err != nil {
		s.logger.WarnContext(ctx, "save failed", "path", path, "error", err)
		s.finish(ctx, span, "save", err)
		return err
	}

	span.AddEvent(EventCatalogSaved, trace.WithAttributes(attribute.Int("catalog.size", s.catalog.Len())))
	s.logger.InfoContext(ctx, "catalog saved", "path", path, "books", s.catalog.Len())
	s.finish(ctx, span, "save", nil)
	return nil
}

// Load replaces the catalog with the contents of path and returns the number
// of books loaded. The catalog is unchanged when loading fails.
func (s *service) Load(ctx context.Context, path string) (int, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.load",
		trace.WithAttributes(attribute.String("file.path", path)),
	)
	defer span.End()

	if err := LoadFile(path, s.catalog); err != nil {
		s.logger.WarnContext(ctx, "load failed", "path", path, "error", err)
		s.finish(ctx, span, "load", err)
		return 0, err
	}

	n := s.catalog.Len()
	span.AddEvent(EventCatalogLoaded, trace.WithAttributes(
		attribute.Int("catalog.size", n),
		attribute.Int("catalog.next_id", s.catalog.NextID()),
	))
	s.logger.InfoContext(ctx, "catalog loaded", "path", path, "books", n)
	s.finish(ctx, span, "load", nil)
	return n, nil
}

// finish records the outcome of an operation on its span and counter.
func (s *service) finish(ctx context.Context, span trace.Span, op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
		span.SetStatus(codes.Error, err.Error())
	case errors.Is(err, ErrInvalidInput):
		outcome = "invalid_input"
		span.SetStatus(codes.Error, err.Error())
	case errors.Is(err, ErrFileMissing):
		outcome = "file_missing"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case errors.Is(err, ErrMalformedData):
		outcome = "malformed_data"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	default:
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}
