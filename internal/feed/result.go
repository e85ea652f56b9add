package feed

import (
	"context"

	"github.com/goatcast/goatcast/internal/content"
)

// Result is one fetched page with its derived pagination flags. Both the
// long-lived engines and the stateless HTTP handlers derive HasMore here,
// so the exhaustion rule lives in exactly one place.
type Result struct {
	Casts      []content.Cast
	NextCursor string
	HasMore    bool
}

// NewResult derives pagination flags from a raw page. A cursor paired
// with an empty page counts as exhausted, which guards against endpoints
// that keep handing out cursors past the end.
func NewResult(page content.Page) Result {
	return Result{
		Casts:      page.Casts,
		NextCursor: page.NextCursor,
		HasMore:    page.NextCursor != "" && len(page.Casts) > 0,
	}
}

// FetchOnce resolves the selector and fetches a single page without a
// long-lived engine. Request-scoped callers use this; the fallback and
// exhaustion policies are the same ones the Paginator applies.
func FetchOnce(ctx context.Context, fetcher PageFetcher, selector Selector, viewerFID string, limit int, cursor string) (Result, error) {
	path, params := selector.Resolve(viewerFID, limit, cursor)
	page, err := fetcher.FetchPage(ctx, path, params)
	if err != nil {
		return Result{}, err
	}
	return NewResult(page), nil
}
