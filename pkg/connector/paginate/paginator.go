// Package paginate implements the cursor-driven read loop shared by all
// vendor connectors. Pages are fetched strictly on demand: abandoning an
// iterator triggers no further HTTP calls.
package paginate

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/yass1337/hrflow-connectors/pkg/errors"
	"github.com/yass1337/hrflow-connectors/pkg/logger"
	"github.com/yass1337/hrflow-connectors/pkg/metrics"
	"github.com/yass1337/hrflow-connectors/pkg/models"
)

// PageFetcher fetches one listing page at a cursor. A nil next cursor means
// the vendor exposes no further pages; an empty item slice always terminates
// the sequence.
type PageFetcher interface {
	FetchPage(ctx context.Context, cursor models.Cursor) (items []models.Raw, next models.Cursor, err error)
}

// DetailFetcher enriches one listed item with a per-item detail call.
// Vendors whose listing is already complete do not implement it.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, item models.Raw) (models.Raw, error)
}

// Paginator describes one vendor's read loop.
type Paginator struct {
	// Vendor names the connector for logs and metrics.
	Vendor string

	// Fetcher retrieves listing pages.
	Fetcher PageFetcher

	// Detail optionally enriches each listed item. Any detail failure is
	// fatal for the whole pull.
	Detail DetailFetcher

	// Start is the initial cursor. Nil starts from the beginning.
	Start models.Cursor
}

// Records returns a lazy iterator over the raw records. The sequence is
// forward-only and not restartable; pages are fetched sequentially as the
// iterator advances.
func (p *Paginator) Records() *Iterator {
	return &Iterator{
		paginator: p,
		cursor:    p.Start,
		log: logger.With(
			zap.String("component", "paginator"),
			zap.String("vendor", p.Vendor)),
	}
}

// Iterator walks the paginated listing one record at a time. Any transport
// failure, listing or detail, is fatal: the error is returned and the
// iterator stays terminated.
type Iterator struct {
	paginator *Paginator
	cursor    models.Cursor
	log       *zap.Logger

	// pageCursor is the cursor the current buffer was fetched at. Failure
	// diagnostics use it so a detail error names the page the item came
	// from, not the page queued next.
	pageCursor models.Cursor

	buf  []models.Raw
	idx  int
	done bool
	err  error

	// exhausted marks that the fetcher returned a nil next cursor, so the
	// current buffer is the last page.
	exhausted bool
}

// Next returns the next raw record. It returns io.EOF when the listing is
// exhausted and a pull error on any transport failure. After a non-nil
// error every subsequent call returns the same error.
func (it *Iterator) Next(ctx context.Context) (models.Raw, error) {
	if it.err != nil {
		return nil, it.err
	}
	if it.done {
		return nil, io.EOF
	}

	for it.idx >= len(it.buf) {
		if it.exhausted {
			it.done = true
			return nil, io.EOF
		}
		if err := it.fetchPage(ctx); err != nil {
			it.err = err
			return nil, err
		}
		if it.done {
			return nil, io.EOF
		}
	}

	item := it.buf[it.idx]
	it.idx++

	if it.paginator.Detail != nil {
		detailed, err := it.paginator.Detail.FetchDetail(ctx, item)
		if err != nil {
			it.err = it.fatal(err, "detail fetch failed")
			return nil, it.err
		}
		item = detailed
	}

	metrics.RecordsPulled.WithLabelValues(it.paginator.Vendor, "job").Inc()
	return item, nil
}

func (it *Iterator) fetchPage(ctx context.Context) error {
	it.pageCursor = it.cursor
	items, next, err := it.paginator.Fetcher.FetchPage(ctx, it.cursor)
	if err != nil {
		return it.fatal(err, "listing fetch failed")
	}

	metrics.PagesFetched.WithLabelValues(it.paginator.Vendor).Inc()
	it.log.Debug("fetched page",
		zap.Int("items", len(items)),
		zap.String("cursor", cursorString(it.cursor)))

	if len(items) == 0 {
		it.done = true
		return nil
	}

	it.buf = items
	it.idx = 0
	it.cursor = next
	if next == nil {
		it.exhausted = true
	}
	return nil
}

// fatal wraps a transport error as a pull failure carrying the cursor and
// HTTP status.
func (it *Iterator) fatal(err error, msg string) error {
	pullErr := errors.Wrap(err, errors.ErrorTypePull, msg).
		WithDetail("vendor", it.paginator.Vendor).
		WithDetail("cursor", cursorString(it.pageCursor))
	if status := errors.HTTPStatus(err); status > 0 {
		pullErr = pullErr.WithDetail("http_status", status)
	}

	it.log.Error("pull aborted",
		zap.String("cursor", cursorString(it.pageCursor)),
		zap.Error(err))
	return pullErr
}

func cursorString(c models.Cursor) string {
	if c == nil {
		return ""
	}
	return c.String()
}

// Collect drains an iterator into a slice. Intended for tests and small
// listings; production flows should consume lazily.
func Collect(ctx context.Context, it *Iterator) ([]models.Raw, error) {
	var out []models.Raw
	for {
		item, err := it.Next(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
}
