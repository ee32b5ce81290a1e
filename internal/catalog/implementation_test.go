package catalog

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type testHarness struct {
	svc     Service
	catalog *Catalog
	spans   *tracetest.InMemoryExporter
	reader  *sdkmetric.ManualReader
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		tp.Shutdown(context.Background())
		mp.Shutdown(context.Background())
	})

	c := New()
	svc := NewService(c,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithTracerProvider(tp),
		WithMeterProvider(mp),
	)
	return &testHarness{svc: svc, catalog: c, spans: exporter, reader: reader}
}

func (h *testHarness) spanNamed(t *testing.T, name string) tracetest.SpanStub {
	t.Helper()
	for _, s := range h.spans.GetSpans() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("span %q not recorded", name)
	return tracetest.SpanStub{}
}

func (h *testHarness) operationCount(t *testing.T, op, outcome string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "catalog.operations" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				gotOp, _ := dp.Attributes.Value(attribute.Key("operation"))
				gotOutcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
				if gotOp.AsString() == op && gotOutcome.AsString() == outcome {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func hasEvent(span tracetest.SpanStub, name string) bool {
	for _, e := range span.Events {
		if e.Name == name {
			return true
		}
	}
	return false
}

func TestServiceAddBook(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	book, err := h.svc.AddBook(ctx, "Dune", "Frank Herbert", 1965, "")
	require.NoError(t, err)
	assert.Equal(t, 0, book.ID)
	assert.Equal(t, StatusAvailable, book.Status)
	assert.True(t, h.svc.HasBooks(ctx))
	assert.True(t, h.svc.BookExists(ctx, 0))

	span := h.spanNamed(t, "catalog.add_book")
	assert.True(t, hasEvent(span, EventBookAdded))
	assert.Equal(t, codes.Ok, span.Status.Code)
	assert.Equal(t, int64(1), h.operationCount(t, "add_book", "ok"))

	_, err = h.svc.AddBook(ctx, "Dune", "Frank Herbert", 1965, Status("lost"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 1, h.catalog.Len())
}

func TestServiceRemoveBook(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()
	_, err := h.svc.AddBook(ctx, "Dune", "Frank Herbert", 1965, "")
	require.NoError(t, err)

	require.NoError(t, h.svc.RemoveBook(ctx, 0))
	assert.False(t, h.svc.BookExists(ctx, 0))
	assert.False(t, h.svc.HasBooks(ctx))

	err = h.svc.RemoveBook(ctx, 0)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(1), h.operationCount(t, "remove_book", "ok"))
	assert.Equal(t, int64(1), h.operationCount(t, "remove_book", "not_found"))
}

func TestServiceGetBook(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()
	_, err := h.svc.AddBook(ctx, "Dune", "Frank Herbert", 1965, "")
	require.NoError(t, err)

	book, err := h.svc.GetBook(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)

	_, err = h.svc.GetBook(ctx, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceChangeStatus(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()
	_, err := h.svc.AddBook(ctx, "Dune", "Frank Herbert", 1965, "")
	require.NoError(t, err)

	require.NoError(t, h.svc.ChangeStatus(ctx, 0, StatusCheckedOut))
	book, err := h.svc.GetBook(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedOut, book.Status)
	assert.True(t, hasEvent(h.spanNamed(t, "catalog.change_status"), EventBookStatusChanged))

	before := h.catalog.All()
	assert.ErrorIs(t, h.svc.ChangeStatus(ctx, 3, StatusAvailable), ErrNotFound)
	assert.ErrorIs(t, h.svc.ChangeStatus(ctx, 0, Status("")), ErrInvalidInput)
	assert.Equal(t, before, h.catalog.All())
}

func TestServiceSearch(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()
	for _, b := range []Book{
		{Title: "Dune", Author: "Frank Herbert", Year: 1965},
		{Title: "1984", Author: "George Orwell", Year: 1949},
	} {
		_, err := h.svc.AddBook(ctx, b.Title, b.Author, b.Year, "")
		require.NoError(t, err)
	}

	t.Run("integer query searches by year", func(t *testing.T) {
		books, err := h.svc.Search(ctx, "1949")
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "1984", books[0].Title)
	})

	t.Run("a year-like title is still found by year only", func(t *testing.T) {
		books, err := h.svc.Search(ctx, "1984")
		require.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("text query is fuzzy", func(t *testing.T) {
		books, err := h.svc.Search(ctx, "Dume")
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Dune", books[0].Title)
	})

	t.Run("no matches", func(t *testing.T) {
		books, err := h.svc.Search(ctx, "Dxyz")
		require.NoError(t, err)
		assert.Empty(t, books)
	})

	span := h.spanNamed(t, "catalog.search_text")
	assert.Contains(t, span.Attributes, attribute.Int("search.results", 1))
}

func TestServiceSaveLoad(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "books.json")

	_, err := h.svc.AddBook(ctx, "Dune", "Frank Herbert", 1965, "")
	require.NoError(t, err)
	_, err = h.svc.AddBook(ctx, "1984", "George Orwell", 1949, "")
	require.NoError(t, err)
	require.NoError(t, h.svc.RemoveBook(ctx, 0))
	require.NoError(t, h.svc.Save(ctx, path))
	assert.True(t, hasEvent(h.spanNamed(t, "catalog.save"), EventCatalogSaved))

	_, err = h.svc.AddBook(ctx, "Solaris", "Stanislaw Lem", 1961, "")
	require.NoError(t, err)

	n, err := h.svc.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	books, err := h.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, 1, books[0].ID)
	assert.Equal(t, "1984", books[0].Title)

	added, err := h.svc.AddBook(ctx, "Solaris", "Stanislaw Lem", 1961, "")
	require.NoError(t, err)
	assert.Equal(t, 2, added.ID)
}

func TestServiceLoadFailures(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()
	_, err := h.svc.AddBook(ctx, "Dune", "Frank Herbert", 1965, "")
	require.NoError(t, err)

	_, err = h.svc.Load(ctx, filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, ErrFileMissing)
	assert.Equal(t, 1, h.catalog.Len())
	assert.Equal(t, int64(1), h.operationCount(t, "load", "file_missing"))

	span := h.spanNamed(t, "catalog.load")
	assert.Equal(t, codes.Error, span.Status.Code)

	err = h.svc.Save(ctx, filepath.Join(t.TempDir(), "no", "such", "dir.json"))
	assert.ErrorIs(t, err, ErrFileMissing)
}
