package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cimnine/netbox-sync/cache"
	"github.com/cimnine/netbox-sync/netbox"
	"github.com/cimnine/netbox-sync/netbox/models"
	"github.com/cimnine/netbox-sync/resolver"
)

var devices = models.Descriptor{Category: "dcim", Type: "devices"}

type call struct {
	endpoint      string
	limit, offset int
}

// pagedTransport serves total objects in pages and fails the first
// failures requests. A non-zero maxPage caps the page size the way NetBox
// applies MAX_PAGE_SIZE.
type pagedTransport struct {
	total    int
	failures int
	maxPage  int
	calls    []call
}

func (p *pagedTransport) GetPage(_ context.Context, r netbox.Resolver, limit, offset int) (*models.Page, error) {
	p.calls = append(p.calls, call{r.Resolve(), limit, offset})
	if p.failures > 0 {
		p.failures--
		return nil, errors.New("connection reset by peer")
	}

	if p.maxPage > 0 && limit > p.maxPage {
		limit = p.maxPage
	}

	page := &models.Page{Count: p.total}
	for i := offset; i < offset+limit && i < p.total; i++ {
		page.Results = append(page.Results, models.Object{"id": models.Int(int64(i + 1))})
	}
	if offset+limit < p.total {
		next := "next"
		page.Next = &next
	}
	return page, nil
}

func newTestFetcher(transport Transport, policy RetryPolicy) *Fetcher {
	return &Fetcher{
		Transport: transport,
		PageSize:  2,
		Policy:    policy,
		Throttle:  NewThrottle(0),
	}
}

func TestFetchCollectionFollowsNextUntilExhausted(t *testing.T) {
	transport := &pagedTransport{total: 5}
	f := newTestFetcher(transport, RetryPolicy{Backoff: time.Millisecond})

	objects, err := f.FetchCollection(context.Background(), devices)
	require.NoError(t, err)

	require.Len(t, objects, 5)
	for i, obj := range objects {
		assert.Equal(t, models.Int(int64(i+1)), obj["id"], "arrival order is kept")
	}
	assert.Equal(t, []call{
		{"dcim/devices/", 2, 0},
		{"dcim/devices/", 2, 2},
		{"dcim/devices/", 2, 4},
	}, transport.calls)
}

func TestFetchCollectionWithServerCappedPages(t *testing.T) {
	transport := &pagedTransport{total: 6, maxPage: 2}
	f := newTestFetcher(transport, RetryPolicy{Backoff: time.Millisecond})
	f.PageSize = 5

	objects, err := f.FetchCollection(context.Background(), devices)
	require.NoError(t, err)

	require.Len(t, objects, 6)
	for i, obj := range objects {
		assert.Equal(t, models.Int(int64(i+1)), obj["id"])
	}
	assert.Equal(t, []call{
		{"dcim/devices/", 5, 0},
		{"dcim/devices/", 5, 2},
		{"dcim/devices/", 5, 4},
	}, transport.calls)
}

func TestFetchCollectionEmpty(t *testing.T) {
	f := newTestFetcher(&pagedTransport{}, RetryPolicy{Backoff: time.Millisecond})

	objects, err := f.FetchCollection(context.Background(), devices)
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestFetchCollectionRetriesTheSamePage(t *testing.T) {
	transport := &pagedTransport{total: 3, failures: 2}
	f := newTestFetcher(transport, RetryPolicy{Backoff: time.Millisecond})

	objects, err := f.FetchCollection(context.Background(), devices)
	require.NoError(t, err)
	assert.Len(t, objects, 3)

	require.Len(t, transport.calls, 4)
	assert.Equal(t, 0, transport.calls[0].offset)
	assert.Equal(t, 0, transport.calls[1].offset)
	assert.Equal(t, 0, transport.calls[2].offset)
	assert.Equal(t, 2, transport.calls[3].offset)
}

func TestFetchCollectionBoundedPolicySurfacesError(t *testing.T) {
	transport := &pagedTransport{total: 3, failures: 1000}
	f := newTestFetcher(transport, RetryPolicy{Backoff: time.Millisecond, MaxAttempts: 3})

	objects, err := f.FetchCollection(context.Background(), devices)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Nil(t, objects)
	assert.Len(t, transport.calls, 3)
}

func TestFetchCollectionUnboundedPolicyStopsOnCancel(t *testing.T) {
	transport := &pagedTransport{total: 3, failures: 1 << 30}
	f := newTestFetcher(transport, RetryPolicy{Backoff: time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := f.FetchCollection(ctx, devices)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Greater(t, len(transport.calls), 1)
}

type fakeSource map[string]models.Object

func (s fakeSource) Fetch(_ context.Context, ref string) (models.Object, error) {
	if obj, ok := s[ref]; ok {
		return obj, nil
	}
	return nil, errors.New("not found")
}

func TestFetchReference(t *testing.T) {
	f := newTestFetcher(&pagedTransport{}, DefaultRetryPolicy())

	_, ok := f.FetchReference(context.Background(), "/api/dcim/sites/1/")
	assert.False(t, ok, "no resolver configured")

	f.References = resolver.CachingResolver{
		Source: fakeSource{"/api/dcim/sites/1/": {"slug": models.String("zrh1")}},
		Cache:  cache.NewMemory(),
	}

	obj, ok := f.FetchReference(context.Background(), "/api/dcim/sites/1/")
	require.True(t, ok)
	assert.Equal(t, models.String("zrh1"), obj["slug"])

	_, ok = f.FetchReference(context.Background(), "/api/dcim/sites/2/")
	assert.False(t, ok)
}

func TestThrottleSpacesRequests(t *testing.T) {
	limiter := NewThrottle(20 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Wait(context.Background()))
	}
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}
