package paginate

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yass1337/hrflow-connectors/pkg/errors"
	"github.com/yass1337/hrflow-connectors/pkg/models"
)

// fakeFetcher serves scripted pages and counts fetches.
type fakeFetcher struct {
	pages   [][]models.Raw
	fetches int
	failAt  int // fail when fetching this page index (-1 disables)
}

func newFakeFetcher(pages ...[]models.Raw) *fakeFetcher {
	return &fakeFetcher{pages: pages, failAt: -1}
}

func (f *fakeFetcher) FetchPage(ctx context.Context, cursor models.Cursor) ([]models.Raw, models.Cursor, error) {
	page := 0
	if cursor != nil {
		page = int(cursor.(models.Offset))
	}
	if page == f.failAt {
		return nil, nil, errors.New(errors.ErrorTypeTransport, "boom").
			WithDetail("http_status", 502)
	}
	f.fetches++
	if page >= len(f.pages) {
		return nil, models.Offset(page + 1), nil
	}
	return f.pages[page], models.Offset(page + 1), nil
}

func job(id int) models.Raw {
	return models.Raw{"id": fmt.Sprintf("job-%d", id)}
}

func TestIteratorYieldsAllRecordsInOrder(t *testing.T) {
	fetcher := newFakeFetcher(
		[]models.Raw{job(1), job(2)},
		[]models.Raw{job(3)},
	)
	it := (&Paginator{Vendor: "acme", Fetcher: fetcher, Start: models.Offset(0)}).Records()

	records, err := Collect(context.Background(), it)
	require.NoError(t, err)

	require.Len(t, records, 3)
	for i, r := range records {
		id, _ := r.GetString("id")
		assert.Equal(t, fmt.Sprintf("job-%d", i+1), id)
	}
	// Two data pages plus the terminating empty page.
	assert.Equal(t, 3, fetcher.fetches)
}

func TestIteratorZeroItemPageTerminates(t *testing.T) {
	fetcher := newFakeFetcher()
	it := (&Paginator{Vendor: "acme", Fetcher: fetcher, Start: models.Offset(0)}).Records()

	_, err := it.Next(context.Background())
	assert.Equal(t, io.EOF, err)

	// Exhaustion is sticky and fetches nothing further.
	_, err = it.Next(context.Background())
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 1, fetcher.fetches)
}

func TestIteratorIsLazy(t *testing.T) {
	fetcher := newFakeFetcher(
		[]models.Raw{job(1), job(2)},
		[]models.Raw{job(3)},
	)
	it := (&Paginator{Vendor: "acme", Fetcher: fetcher, Start: models.Offset(0)}).Records()

	// Building the iterator fetches nothing.
	assert.Equal(t, 0, fetcher.fetches)

	_, err := it.Next(context.Background())
	require.NoError(t, err)
	_, err = it.Next(context.Background())
	require.NoError(t, err)

	// Both consumed records came from the first page; abandoning the
	// iterator here must leave the second page unfetched.
	assert.Equal(t, 1, fetcher.fetches)
}

func TestIteratorListingFailureIsFatal(t *testing.T) {
	fetcher := newFakeFetcher([]models.Raw{job(1)})
	fetcher.failAt = 1
	it := (&Paginator{Vendor: "acme", Fetcher: fetcher, Start: models.Offset(0)}).Records()

	_, err := it.Next(context.Background())
	require.NoError(t, err)

	_, err = it.Next(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypePull))
	assert.Equal(t, 502, errors.HTTPStatus(err))

	var typed *errors.Error
	require.ErrorAs(t, err, &typed)
	cursor, ok := typed.Detail("cursor")
	require.True(t, ok)
	assert.Equal(t, "page=1", cursor)

	// The failure is sticky.
	_, again := it.Next(context.Background())
	assert.Equal(t, err, again)
}

// failingDetail fails on a chosen record id.
type failingDetail struct {
	failID string
	calls  int
}

func (d *failingDetail) FetchDetail(ctx context.Context, item models.Raw) (models.Raw, error) {
	d.calls++
	id, _ := item.GetString("id")
	if id == d.failID {
		return nil, errors.New(errors.ErrorTypeTransport, "detail boom").
			WithDetail("http_status", 500)
	}
	item.Set("detailed", true)
	return item, nil
}

func TestIteratorDetailFetchEnrichesRecords(t *testing.T) {
	fetcher := newFakeFetcher([]models.Raw{job(1)})
	detail := &failingDetail{}
	it := (&Paginator{Vendor: "acme", Fetcher: fetcher, Detail: detail, Start: models.Offset(0)}).Records()

	record, err := it.Next(context.Background())
	require.NoError(t, err)

	v, ok := record.Get("detailed")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestIteratorDetailFailureIsFatal(t *testing.T) {
	fetcher := newFakeFetcher([]models.Raw{job(1), job(2), job(3)})
	detail := &failingDetail{failID: "job-2"}
	it := (&Paginator{Vendor: "acme", Fetcher: fetcher, Detail: detail, Start: models.Offset(0)}).Records()

	_, err := it.Next(context.Background())
	require.NoError(t, err)

	_, err = it.Next(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypePull))
	assert.Equal(t, 500, errors.HTTPStatus(err))

	// The diagnostic names the page the failing item came from, not the
	// cursor already queued for the next fetch.
	var typed *errors.Error
	require.ErrorAs(t, err, &typed)
	cursor, ok := typed.Detail("cursor")
	require.True(t, ok)
	assert.Equal(t, "page=0", cursor)

	// No detail call happens for the record after the failure.
	_, err = it.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, detail.calls)
}

func TestIteratorNilNextCursorEndsAfterBuffer(t *testing.T) {
	fetcher := &singlePageFetcher{items: []models.Raw{job(1), job(2)}}
	it := (&Paginator{Vendor: "acme", Fetcher: fetcher}).Records()

	records, err := Collect(context.Background(), it)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 1, fetcher.fetches)
}

type singlePageFetcher struct {
	items   []models.Raw
	fetches int
}

func (f *singlePageFetcher) FetchPage(ctx context.Context, cursor models.Cursor) ([]models.Raw, models.Cursor, error) {
	f.fetches++
	return f.items, nil, nil
}
