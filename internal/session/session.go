// Package session caches the signed-in identity in local persistent
// storage. The sign-in widget upstream does not persist its own state
// across restarts, so this cache is the only identity source available
// until a fresh sign-in completes.
package session

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goatcast/goatcast/internal/kv"
	"github.com/goatcast/goatcast/pkg/logging"
)

const (
	profileKey = "goatcast:user_profile"
	themeKey   = "goatcast:theme"
)

// Record is the cached identity written on successful sign-in. At most one
// record is stored at a time; the last writer wins.
type Record struct {
	FID            int64     `json:"fid"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	PfpURL         string    `json:"pfp_url"`
	Bio            string    `json:"bio"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	SignedInAt     time.Time `json:"signed_in_at"`
}

// Store reads and writes the session record
type Store struct {
	mu           sync.Mutex
	kv           kv.Store
	lastSavedFID int64
	logger       *zap.Logger
}

// NewStore creates a session store on top of the given key/value store
func NewStore(store kv.Store) *Store {
	return &Store{
		kv:     store,
		logger: logging.GetLogger().With(zap.String("component", "session-store")),
	}
}

// Save persists the record. Saving the same identity twice in a row skips
// the underlying write; callers re-submit the profile on every auth state
// change and most of those are redundant.
func (s *Store) Save(record *Record) error {
	if record == nil || record.FID == 0 {
		return fmt.Errorf("session record requires a fid")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastSavedFID == record.FID {
		return nil
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}
	if err := s.kv.Set(profileKey, string(raw)); err != nil {
		return fmt.Errorf("failed to save session record: %w", err)
	}

	s.lastSavedFID = record.FID
	s.logger.Info("Session record saved", zap.Int64("fid", record.FID))
	return nil
}

// Load returns the cached record, or nil when none is stored. A corrupt
// stored value is treated as absent rather than an error.
func (s *Store) Load() (*Record, error) {
	raw, ok, err := s.kv.Get(profileKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load session record: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		s.logger.Warn("Discarding corrupt session record", zap.Error(err))
		return nil, nil
	}
	return &record, nil
}

// Clear removes the cached record. Invoked on explicit sign-out.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(profileKey); err != nil {
		return fmt.Errorf("failed to clear session record: %w", err)
	}
	s.lastSavedFID = 0
	return nil
}

// SaveTheme persists the theme preference ("light" or "dark")
func (s *Store) SaveTheme(theme string) error {
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.kv.Set(themeKey, theme)
}

// LoadTheme returns the stored theme preference, defaulting to "dark"
func (s *Store) LoadTheme() string {
	theme, ok, err := s.kv.Get(themeKey)
	if err != nil || !ok {
		return "dark"
	}
	if theme != "light" && theme != "dark" {
		return "dark"
	}
	return theme
}
