// Package feed implements the pagination engines: feed columns, cast
// detail threads, and user profiles. Each engine is a small mutex-guarded
// state machine exposing the {casts, loading, loadingMore, error, hasMore}
// shape the callers render from, with a generation counter so a stale
// in-flight fetch can never clobber state belonging to a newer target.
package feed

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/goatcast/goatcast/internal/content"
	"github.com/goatcast/goatcast/internal/identity"
	"github.com/goatcast/goatcast/pkg/logging"
)

// PageFetcher fetches one page of casts from a resolved feed path
type PageFetcher interface {
	FetchPage(ctx context.Context, path string, params url.Values) (content.Page, error)
}

// State is a point-in-time snapshot of a paginator
type State struct {
	Casts       []content.Cast
	Loading     bool
	LoadingMore bool
	Error       string
	HasMore     bool
}

// Paginator drives cursor-based pagination for one feed selector.
// The first page replaces the result list; later pages append. A returned
// cursor paired with an empty page counts as exhausted, which guards
// against endpoints that keep handing out cursors past the end.
type Paginator struct {
	mu       sync.Mutex
	fetcher  PageFetcher
	resolver *identity.Resolver
	selector Selector
	limit    int

	casts       []content.Cast
	nextCursor  string
	loading     bool
	loadingMore bool
	errMsg      string
	hasMore     bool

	// gen invalidates in-flight fetches when the selector changes
	gen uint64

	logger *zap.Logger
}

// NewPaginator creates a paginator for the given selector
func NewPaginator(fetcher PageFetcher, resolver *identity.Resolver, selector Selector, limit int) *Paginator {
	if limit <= 0 {
		limit = 10
	}
	return &Paginator{
		fetcher:  fetcher,
		resolver: resolver,
		selector: selector,
		limit:    limit,
		casts:    []content.Cast{},
		logger: logging.GetLogger().With(
			zap.String("component", "feed-paginator"),
			zap.String("selector", string(selector.Type))),
	}
}

// Load fetches the first page, replacing the result list
func (p *Paginator) Load(ctx context.Context) error {
	p.mu.Lock()
	gen := p.gen
	p.mu.Unlock()

	return p.fetchPage(ctx, "", gen)
}

// LoadMore fetches the next page and appends it. It is a no-op when no
// cursor is held, the sequence is exhausted, or a fetch is already in
// flight; no request is issued in those cases. The generation is captured
// under the same lock as the cursor: a cursor only ever travels with the
// selector that issued it.
func (p *Paginator) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.nextCursor == "" || !p.hasMore || p.loading || p.loadingMore {
		p.mu.Unlock()
		return nil
	}
	cursor := p.nextCursor
	gen := p.gen
	p.mu.Unlock()

	return p.fetchPage(ctx, cursor, gen)
}

// SetSelector replaces the feed selector, resets all pagination state, and
// loads a fresh first page. Any fetch still in flight for the old selector
// is discarded when it completes.
func (p *Paginator) SetSelector(ctx context.Context, selector Selector) error {
	p.mu.Lock()
	p.selector = selector
	p.casts = []content.Cast{}
	p.nextCursor = ""
	p.hasMore = false
	p.errMsg = ""
	p.loading = false
	p.loadingMore = false
	p.gen++
	gen := p.gen
	p.logger = logging.GetLogger().With(
		zap.String("component", "feed-paginator"),
		zap.String("selector", string(selector.Type)))
	p.mu.Unlock()

	return p.fetchPage(ctx, "", gen)
}

// SetLimit changes the page size for subsequent fetches. It deliberately
// does not retrigger a fetch; option churn alone must not cause refetch
// storms.
func (p *Paginator) SetLimit(limit int) {
	if limit <= 0 {
		return
	}
	p.mu.Lock()
	p.limit = limit
	p.mu.Unlock()
}

// State returns a snapshot of the current pagination state
func (p *Paginator) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	casts := make([]content.Cast, len(p.casts))
	copy(casts, p.casts)
	return State{
		Casts:       casts,
		Loading:     p.loading,
		LoadingMore: p.loadingMore,
		Error:       p.errMsg,
		HasMore:     p.hasMore,
	}
}

func (p *Paginator) fetchPage(ctx context.Context, cursor string, gen uint64) error {
	initial := cursor == ""

	p.mu.Lock()
	if gen != p.gen {
		// The selector changed between capture and dispatch; this
		// cursor belongs to the old one and must not be resolved
		// against the new selector's endpoint.
		p.mu.Unlock()
		return nil
	}
	if initial {
		p.loading = true
	} else {
		p.loadingMore = true
	}
	p.errMsg = ""
	selector := p.selector
	limit := p.limit
	p.mu.Unlock()

	viewerFID := p.resolver.CurrentFID()
	path, params := selector.Resolve(viewerFID, limit, cursor)

	page, err := p.fetcher.FetchPage(ctx, path, params)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		// A newer selector took over while this fetch was in flight
		return nil
	}

	if initial {
		p.loading = false
	} else {
		p.loadingMore = false
	}

	if err != nil {
		// Previously loaded casts stay visible behind the error
		p.errMsg = err.Error()
		p.logger.Error("Feed fetch failed", zap.Error(err))
		return err
	}

	result := NewResult(page)
	if initial {
		p.casts = result.Casts
	} else {
		p.casts = append(p.casts, result.Casts...)
	}
	if p.casts == nil {
		p.casts = []content.Cast{}
	}

	p.nextCursor = result.NextCursor
	p.hasMore = result.HasMore

	return nil
}
