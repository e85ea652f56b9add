package feed

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goatcast/goatcast/internal/content"
	"github.com/goatcast/goatcast/internal/identity"
	"github.com/goatcast/goatcast/pkg/logging"
)

// ProfileFetcher resolves users and pages through their casts
type ProfileFetcher interface {
	FetchUserByUsername(ctx context.Context, username, viewerFID string) (*content.User, error)
	FetchUserCasts(ctx context.Context, fid int64, viewerFID, cursor string, limit int) (content.Page, error)
}

// ProfileState is a point-in-time snapshot of a profile engine
type ProfileState struct {
	User        *content.User
	Casts       []content.Cast
	Loading     bool
	LoadingMore bool
	Error       string
	HasMore     bool
}

// Profile loads a user either by fid or by handle, then paginates that
// user's casts. Switching targets clears all prior state before the new
// request goes out, and a generation counter guarantees a mid-flight
// switch can never mix two users' data.
type Profile struct {
	mu       sync.Mutex
	fetcher  ProfileFetcher
	resolver *identity.Resolver
	limit    int

	user        *content.User
	casts       []content.Cast
	nextCursor  string
	hasMore     bool
	loading     bool
	loadingMore bool
	errMsg      string

	gen uint64

	logger *zap.Logger
}

// NewProfile creates a user profile engine
func NewProfile(fetcher ProfileFetcher, resolver *identity.Resolver, limit int) *Profile {
	if limit <= 0 {
		limit = 25
	}
	return &Profile{
		fetcher:  fetcher,
		resolver: resolver,
		limit:    limit,
		casts:    []content.Cast{},
		logger:   logging.GetLogger().With(zap.String("component", "user-profile")),
	}
}

// LoadByFID loads a profile by numeric id. A preloaded user record (for
// example the author field of the cast the caller clicked) avoids a
// redundant lookup fetch.
func (p *Profile) LoadByFID(ctx context.Context, fid int64, preloaded *content.User) error {
	if fid == 0 {
		p.setError("user fid is required")
		return fmt.Errorf("user fid is required")
	}

	gen := p.reset()
	if preloaded != nil {
		p.mu.Lock()
		if gen == p.gen {
			p.user = preloaded
		}
		p.mu.Unlock()
	}

	return p.fetchCasts(ctx, fid, "", gen)
}

// LoadByUsername resolves a handle to a user, then loads that user's casts
func (p *Profile) LoadByUsername(ctx context.Context, username string) error {
	if username == "" {
		p.setError("username is required")
		return fmt.Errorf("username is required")
	}

	gen := p.reset()
	viewerFID := p.resolver.CurrentFID()

	user, err := p.fetcher.FetchUserByUsername(ctx, username, viewerFID)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return nil
	}
	if err != nil {
		p.loading = false
		p.errMsg = err.Error()
		p.mu.Unlock()
		p.logger.Error("User lookup failed", zap.String("username", username), zap.Error(err))
		return err
	}
	p.user = user
	p.mu.Unlock()

	return p.fetchCasts(ctx, user.FID, "", gen)
}

// LoadMore fetches the next page of the loaded user's casts
func (p *Profile) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.user == nil || p.nextCursor == "" || !p.hasMore || p.loading || p.loadingMore {
		p.mu.Unlock()
		return nil
	}
	fid := p.user.FID
	cursor := p.nextCursor
	gen := p.gen
	p.mu.Unlock()

	return p.fetchCasts(ctx, fid, cursor, gen)
}

// Clear resets the engine to its empty state
func (p *Profile) Clear() {
	p.reset()
	p.mu.Lock()
	p.loading = false
	p.mu.Unlock()
}

// State returns a snapshot of the current profile state
func (p *Profile) State() ProfileState {
	p.mu.Lock()
	defer p.mu.Unlock()
	casts := make([]content.Cast, len(p.casts))
	copy(casts, p.casts)
	return ProfileState{
		User:        p.user,
		Casts:       casts,
		Loading:     p.loading,
		LoadingMore: p.loadingMore,
		Error:       p.errMsg,
		HasMore:     p.hasMore,
	}
}

// reset clears all state, bumps the generation, and marks the engine
// loading for the next target.
func (p *Profile) reset() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.user = nil
	p.casts = []content.Cast{}
	p.nextCursor = ""
	p.hasMore = false
	p.errMsg = ""
	p.loading = true
	p.loadingMore = false
	return p.gen
}

func (p *Profile) setError(msg string) {
	p.mu.Lock()
	p.errMsg = msg
	p.mu.Unlock()
}

func (p *Profile) fetchCasts(ctx context.Context, fid int64, cursor string, gen uint64) error {
	appendPage := cursor != ""

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return nil
	}
	if appendPage {
		p.loadingMore = true
	}
	limit := p.limit
	p.mu.Unlock()

	viewerFID := p.resolver.CurrentFID()
	page, err := p.fetcher.FetchUserCasts(ctx, fid, viewerFID, cursor, limit)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		return nil
	}

	if appendPage {
		p.loadingMore = false
	} else {
		p.loading = false
	}

	if err != nil {
		p.errMsg = err.Error()
		p.logger.Error("User casts fetch failed", zap.Int64("fid", fid), zap.Error(err))
		return err
	}

	result := NewResult(page)
	if appendPage {
		p.casts = append(p.casts, result.Casts...)
	} else {
		p.casts = result.Casts
	}
	if p.casts == nil {
		p.casts = []content.Cast{}
	}

	// Best-effort profile backfill from the first cast's embedded author
	if p.user == nil && len(p.casts) > 0 {
		author := p.casts[0].Author
		p.user = &author
	}

	p.nextCursor = result.NextCursor
	p.hasMore = result.HasMore

	return nil
}
