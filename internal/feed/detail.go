package feed

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goatcast/goatcast/internal/content"
	"github.com/goatcast/goatcast/pkg/logging"
)

// CastFetcher fetches a single cast and its reply thread
type CastFetcher interface {
	FetchCast(ctx context.Context, hash string) (*content.Cast, error)
	FetchReplies(ctx context.Context, hash, cursor string) (content.Page, error)
}

// DetailState is a point-in-time snapshot of a detail engine
type DetailState struct {
	Cast               *content.Cast
	Replies            []content.Cast
	Loading            bool
	LoadingReplies     bool
	LoadingMoreReplies bool
	HasMoreReplies     bool
	Error              string
}

// Detail loads one cast plus its paginated reply thread. The reply cursor
// and loading flags are independent of the parent cast's state: a slow
// reply page never blocks the cast itself from rendering.
type Detail struct {
	mu      sync.Mutex
	fetcher CastFetcher

	cast               *content.Cast
	replies            []content.Cast
	nextCursor         string
	hasMoreReplies     bool
	loading            bool
	loadingReplies     bool
	loadingMoreReplies bool
	errMsg             string

	gen uint64

	logger *zap.Logger
}

// NewDetail creates a cast detail engine
func NewDetail(fetcher CastFetcher) *Detail {
	return &Detail{
		fetcher: fetcher,
		replies: []content.Cast{},
		logger:  logging.GetLogger().With(zap.String("component", "cast-detail")),
	}
}

// LoadDetail fetches the cast and then, as a dependent request, the first
// page of its replies.
func (d *Detail) LoadDetail(ctx context.Context, hash string) error {
	if hash == "" {
		d.mu.Lock()
		d.errMsg = "cast hash is required"
		d.mu.Unlock()
		return fmt.Errorf("cast hash is required")
	}

	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.loading = true
	d.errMsg = ""
	d.mu.Unlock()

	cast, err := d.fetcher.FetchCast(ctx, hash)

	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return nil
	}
	d.loading = false
	if err != nil {
		d.cast = nil
		d.errMsg = err.Error()
		d.mu.Unlock()
		d.logger.Error("Cast detail fetch failed", zap.String("hash", hash), zap.Error(err))
		return err
	}
	d.cast = cast
	d.mu.Unlock()

	return d.fetchReplies(ctx, cast.Hash, "", gen)
}

// LoadMoreReplies fetches the next reply page. No request is issued when
// no cursor is held or a reply fetch is already in flight.
func (d *Detail) LoadMoreReplies(ctx context.Context) error {
	d.mu.Lock()
	if d.cast == nil || d.nextCursor == "" || !d.hasMoreReplies || d.loadingReplies || d.loadingMoreReplies {
		d.mu.Unlock()
		return nil
	}
	hash := d.cast.Hash
	cursor := d.nextCursor
	gen := d.gen
	d.mu.Unlock()

	return d.fetchReplies(ctx, hash, cursor, gen)
}

// Clear resets cast, replies, cursor, and error atomically. An in-flight
// fetch resolving afterwards is ignored.
func (d *Detail) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.cast = nil
	d.replies = []content.Cast{}
	d.nextCursor = ""
	d.hasMoreReplies = false
	d.loading = false
	d.loadingReplies = false
	d.loadingMoreReplies = false
	d.errMsg = ""
}

// State returns a snapshot of the current detail state
func (d *Detail) State() DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	replies := make([]content.Cast, len(d.replies))
	copy(replies, d.replies)
	return DetailState{
		Cast:               d.cast,
		Replies:            replies,
		Loading:            d.loading,
		LoadingReplies:     d.loadingReplies,
		LoadingMoreReplies: d.loadingMoreReplies,
		HasMoreReplies:     d.hasMoreReplies,
		Error:              d.errMsg,
	}
}

func (d *Detail) fetchReplies(ctx context.Context, hash, cursor string, gen uint64) error {
	appendPage := cursor != ""

	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return nil
	}
	if appendPage {
		d.loadingMoreReplies = true
	} else {
		d.loadingReplies = true
	}
	d.mu.Unlock()

	page, err := d.fetcher.FetchReplies(ctx, hash, cursor)

	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.gen {
		return nil
	}

	if appendPage {
		d.loadingMoreReplies = false
	} else {
		d.loadingReplies = false
	}

	if err != nil {
		// A failed reply fetch does not surface on the engine error; the
		// cast itself is still useful.
		d.logger.Warn("Reply fetch failed", zap.String("hash", hash), zap.Error(err))
		if !appendPage {
			d.replies = []content.Cast{}
		}
		return nil
	}

	result := NewResult(page)
	if appendPage {
		d.replies = append(d.replies, result.Casts...)
	} else {
		d.replies = result.Casts
	}
	if d.replies == nil {
		d.replies = []content.Cast{}
	}

	d.nextCursor = result.NextCursor
	d.hasMoreReplies = result.HasMore

	return nil
}
