// Package identity is the single resolution point for "the current user".
// Every component that needs a user id goes through the Resolver instead of
// reading the session cache itself, so live and cached identities cannot
// disagree between call sites.
package identity

import (
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/goatcast/goatcast/internal/session"
	"github.com/goatcast/goatcast/pkg/logging"
)

// Source reports where a resolved identity came from
type Source int

const (
	// SourceNone means no identity could be resolved; the user is anonymous
	SourceNone Source = iota
	// SourceLive means the identity came from the active sign-in
	SourceLive
	// SourceCached means the identity came from the session cache
	SourceCached
)

func (s Source) String() string {
	switch s {
	case SourceLive:
		return "live"
	case SourceCached:
		return "cached"
	default:
		return "none"
	}
}

// ErrNotSignedIn is returned by operations that require a resolved identity
var ErrNotSignedIn = fmt.Errorf("user not authenticated")

// Resolver resolves the current identity: the live signed-in profile when
// one exists, else the cached session record, else anonymous.
type Resolver struct {
	mu     sync.RWMutex
	live   *session.Record
	cache  *session.Store
	logger *zap.Logger
}

// NewResolver creates a resolver over the given session cache
func NewResolver(cache *session.Store) *Resolver {
	return &Resolver{
		cache:  cache,
		logger: logging.GetLogger().With(zap.String("component", "identity")),
	}
}

// valid reports whether a record counts as a signed-in identity. A record
// missing either fid or username does not.
func valid(record *session.Record) bool {
	return record != nil && record.FID != 0 && record.Username != ""
}

// SignIn installs the live profile and persists it to the session cache
func (r *Resolver) SignIn(profile *session.Record) error {
	if !valid(profile) {
		return fmt.Errorf("profile requires both fid and username")
	}

	r.mu.Lock()
	r.live = profile
	r.mu.Unlock()

	if err := r.cache.Save(profile); err != nil {
		// The live identity still works for this process; only the
		// reload fallback is degraded.
		r.logger.Warn("Failed to cache session", zap.Error(err))
	}

	r.logger.Info("Signed in", zap.Int64("fid", profile.FID), zap.String("username", profile.Username))
	return nil
}

// SignOut drops the live profile and clears the session cache
func (r *Resolver) SignOut() error {
	r.mu.Lock()
	r.live = nil
	r.mu.Unlock()

	if err := r.cache.Clear(); err != nil {
		return fmt.Errorf("failed to clear session cache: %w", err)
	}
	return nil
}

// Current returns the resolved identity and its source. Anonymous users get
// (nil, SourceNone); callers scope their queries accordingly instead of
// erroring.
func (r *Resolver) Current() (*session.Record, Source) {
	r.mu.RLock()
	live := r.live
	r.mu.RUnlock()

	if valid(live) {
		return live, SourceLive
	}

	cached, err := r.cache.Load()
	if err != nil {
		r.logger.Warn("Failed to load cached session", zap.Error(err))
		return nil, SourceNone
	}
	if valid(cached) {
		return cached, SourceCached
	}
	return nil, SourceNone
}

// CurrentFID returns the resolved user id as a decimal string, or "" for
// anonymous users.
func (r *Resolver) CurrentFID() string {
	record, source := r.Current()
	if source == SourceNone {
		return ""
	}
	return strconv.FormatInt(record.FID, 10)
}
