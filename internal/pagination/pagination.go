// Package pagination provides a generic cursor-pagination loop used by both
// the Meetup GraphQL and Luma REST clients. Callers supply a fetch function
// that normalizes one backend page into a Page; FetchAll drives the loop
// under page-count and item-count caps.
package pagination

import "context"

// DefaultMaxPages bounds how many pages a single listing will walk.
const DefaultMaxPages = 10

// Page is one normalized page of results. NextCursor is an opaque backend
// cursor; an empty cursor with HasMore set is treated as end-of-collection.
type Page[T any] struct {
	Items      []T
	HasMore    bool
	NextCursor string
}

// FetchFunc fetches one page. The first call receives an empty cursor.
type FetchFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Options controls the pagination loop.
type Options struct {
	// MaxPages caps the number of requests. Zero means DefaultMaxPages.
	// Exhausting MaxPages truncates silently; callers that need guaranteed
	// completeness must raise it.
	MaxPages int

	// Limit caps the total number of items. Zero means unlimited.
	Limit int
}

// Result is a flattened collection. Total always equals len(Items).
type Result[T any] struct {
	Total int
	Items []T
}

// FetchAll walks pages sequentially until a stop condition is reached:
// the item limit, the backend reporting no more pages, a missing cursor
// despite HasMore, or the page cap.
func FetchAll[T any](ctx context.Context, fetch FetchFunc[T], opts Options) (Result[T], error) {
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var items []T
	cursor := ""
	for page := 0; page < maxPages; page++ {
		p, err := fetch(ctx, cursor)
		if err != nil {
			return Result[T]{}, err
		}
		items = append(items, p.Items...)

		if opts.Limit > 0 && len(items) >= opts.Limit {
			items = items[:opts.Limit]
			break
		}
		if !p.HasMore {
			break
		}
		if p.NextCursor == "" {
			// Backend claims more pages but gave no cursor; stop rather
			// than loop forever.
			break
		}
		cursor = p.NextCursor
	}

	return Result[T]{Total: len(items), Items: items}, nil
}
