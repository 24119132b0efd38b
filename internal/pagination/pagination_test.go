package pagination

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend serves numbered pages of fixed size through cursor strings.
type fakeBackend struct {
	pages    [][]string
	requests int
}

func (f *fakeBackend) fetch(_ context.Context, cursor string) (Page[string], error) {
	f.requests++
	idx := 0
	if cursor != "" {
		if _, err := fmt.Sscanf(cursor, "page-%d", &idx); err != nil {
			return Page[string]{}, fmt.Errorf("bad cursor %q", cursor)
		}
	}
	if idx >= len(f.pages) {
		return Page[string]{}, errors.New("cursor past end")
	}

	p := Page[string]{Items: f.pages[idx]}
	if idx+1 < len(f.pages) {
		p.HasMore = true
		p.NextCursor = fmt.Sprintf("page-%d", idx+1)
	}
	return p, nil
}

func pagesOf(n, size int) [][]string {
	pages := make([][]string, n)
	item := 0
	for i := range pages {
		for j := 0; j < size; j++ {
			pages[i] = append(pages[i], fmt.Sprintf("item-%d", item))
			item++
		}
	}
	return pages
}

func TestFetchAllWalksAllPagesInOrder(t *testing.T) {
	backend := &fakeBackend{pages: pagesOf(3, 2)}

	result, err := FetchAll(context.Background(), backend.fetch, Options{})
	require.NoError(t, err)

	assert.Equal(t, 6, result.Total)
	assert.Equal(t, []string{"item-0", "item-1", "item-2", "item-3", "item-4", "item-5"}, result.Items)
	assert.Equal(t, 3, backend.requests)

	// Idempotent: a second walk yields the same result.
	again, err := FetchAll(context.Background(), backend.fetch, Options{})
	require.NoError(t, err)
	assert.Equal(t, result, again)
}

func TestFetchAllRespectsMaxPages(t *testing.T) {
	backend := &fakeBackend{pages: pagesOf(5, 2)}

	result, err := FetchAll(context.Background(), backend.fetch, Options{MaxPages: 2})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, []string{"item-0", "item-1", "item-2", "item-3"}, result.Items)
	assert.Equal(t, 2, backend.requests)
}

func TestFetchAllTruncatesToLimit(t *testing.T) {
	backend := &fakeBackend{pages: pagesOf(4, 2)}

	result, err := FetchAll(context.Background(), backend.fetch, Options{Limit: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, []string{"item-0", "item-1", "item-2"}, result.Items)
	assert.Equal(t, 2, backend.requests, "limit reached mid-collection must stop fetching")
}

func TestFetchAllStopsOnMissingCursor(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context, cursor string) (Page[int], error) {
		calls++
		// Claims more pages but never provides a cursor.
		return Page[int]{Items: []int{calls}, HasMore: true}, nil
	}

	result, err := FetchAll(context.Background(), fetch, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, calls)
}

func TestFetchAllPropagatesErrors(t *testing.T) {
	boom := errors.New("backend down")
	fetch := func(_ context.Context, cursor string) (Page[int], error) {
		return Page[int]{}, boom
	}

	_, err := FetchAll(context.Background(), fetch, Options{})
	assert.ErrorIs(t, err, boom)
}

func TestFetchAllTotalMatchesItems(t *testing.T) {
	backend := &fakeBackend{pages: pagesOf(2, 3)}

	result, err := FetchAll(context.Background(), backend.fetch, Options{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, len(result.Items), result.Total)
}
