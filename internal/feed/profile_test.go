package feed

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goatcast/goatcast/internal/content"
)

// stubProfileFetcher serves scripted users and cast pages per fid
type stubProfileFetcher struct {
	mu          sync.Mutex
	users       map[string]*content.User          // keyed by username
	pages       map[int64]map[string]content.Page // fid -> cursor -> page
	castsErr    error
	lookupCalls int
	castCalls   int
	blockFID    int64
	block       chan struct{}
}

func (s *stubProfileFetcher) FetchUserByUsername(ctx context.Context, username, viewerFID string) (*content.User, error) {
	s.mu.Lock()
	s.lookupCalls++
	s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return nil, fmt.Errorf("content API error: 404 Not Found")
	}
	return user, nil
}

func (s *stubProfileFetcher) FetchUserCasts(ctx context.Context, fid int64, viewerFID, cursor string, limit int) (content.Page, error) {
	s.mu.Lock()
	s.castCalls++
	block := s.block
	blockFID := s.blockFID
	s.mu.Unlock()
	if block != nil && fid == blockFID {
		<-block
	}
	if s.castsErr != nil {
		return content.Page{}, s.castsErr
	}
	return s.pages[fid][cursor], nil
}

func authorCasts(user content.User, prefix string, n int) []content.Cast {
	casts := makeCasts(prefix, n)
	for i := range casts {
		casts[i].Author = user
	}
	return casts
}

func TestProfileLoadByFIDWithPreloadedUser(t *testing.T) {
	alice := content.User{FID: 5, Username: "alice"}
	fetcher := &stubProfileFetcher{
		pages: map[int64]map[string]content.Page{
			5: {"": {Casts: authorCasts(alice, "a", 4), NextCursor: "c2"}},
		},
	}

	p := NewProfile(fetcher, anonResolver(), 25)
	if err := p.LoadByFID(context.Background(), 5, &alice); err != nil {
		t.Fatalf("LoadByFID() error: %v", err)
	}

	state := p.State()
	if state.User == nil || state.User.FID != 5 {
		t.Fatalf("User = %+v, want fid 5", state.User)
	}
	if len(state.Casts) != 4 {
		t.Errorf("Casts = %d, want 4", len(state.Casts))
	}
	if !state.HasMore {
		t.Error("HasMore = false, want true")
	}
	if fetcher.lookupCalls != 0 {
		t.Errorf("lookup calls = %d, want 0 with preloaded profile data", fetcher.lookupCalls)
	}
}

func TestProfileBackfillsUserFromFirstCast(t *testing.T) {
	bob := content.User{FID: 8, Username: "bob", DisplayName: "Bob"}
	fetcher := &stubProfileFetcher{
		pages: map[int64]map[string]content.Page{
			8: {"": {Casts: authorCasts(bob, "b", 2)}},
		},
	}

	p := NewProfile(fetcher, anonResolver(), 25)
	if err := p.LoadByFID(context.Background(), 8, nil); err != nil {
		t.Fatalf("LoadByFID() error: %v", err)
	}

	state := p.State()
	if state.User == nil || state.User.Username != "bob" {
		t.Errorf("User = %+v, want backfill from first cast's author", state.User)
	}
}

func TestProfileLoadByUsername(t *testing.T) {
	carol := content.User{FID: 12, Username: "carol"}
	fetcher := &stubProfileFetcher{
		users: map[string]*content.User{"carol": &carol},
		pages: map[int64]map[string]content.Page{
			12: {"": {Casts: authorCasts(carol, "c", 6)}},
		},
	}

	p := NewProfile(fetcher, anonResolver(), 25)
	if err := p.LoadByUsername(context.Background(), "carol"); err != nil {
		t.Fatalf("LoadByUsername() error: %v", err)
	}

	state := p.State()
	if state.User == nil || state.User.FID != 12 {
		t.Fatalf("User = %+v, want carol (fid 12)", state.User)
	}
	if len(state.Casts) != 6 {
		t.Errorf("Casts = %d, want 6", len(state.Casts))
	}
	if state.Loading {
		t.Error("Loading = true after completion")
	}
}

func TestProfileUnknownUsername(t *testing.T) {
	fetcher := &stubProfileFetcher{users: map[string]*content.User{}}

	p := NewProfile(fetcher, anonResolver(), 25)
	if err := p.LoadByUsername(context.Background(), "ghost"); err == nil {
		t.Fatal("LoadByUsername() should surface the lookup error")
	}

	state := p.State()
	if state.User != nil {
		t.Errorf("User = %+v, want nil", state.User)
	}
	if state.Error == "" {
		t.Error("Error should be set after a failed lookup")
	}
	if fetcher.castCalls != 0 {
		t.Error("cast fetch must not run when the lookup fails")
	}
}

func TestProfileTargetSwitchMidFlight(t *testing.T) {
	// LoadByFID(5) is still waiting on its first page when the target
	// switches to a handle; the final state must reflect only alice.
	dave := content.User{FID: 5, Username: "dave"}
	alice := content.User{FID: 9, Username: "alice"}

	block := make(chan struct{})
	fetcher := &stubProfileFetcher{
		users: map[string]*content.User{"alice": &alice},
		pages: map[int64]map[string]content.Page{
			5: {"": {Casts: authorCasts(dave, "d", 3), NextCursor: "stale"}},
			9: {"": {Casts: authorCasts(alice, "a", 2)}},
		},
		blockFID: 5,
		block:    block,
	}

	p := NewProfile(fetcher, anonResolver(), 25)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.LoadByFID(context.Background(), 5, &dave)
	}()

	// Wait for dave's page fetch to be in flight
	for {
		fetcher.mu.Lock()
		started := fetcher.castCalls > 0
		fetcher.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if err := p.LoadByUsername(context.Background(), "alice"); err != nil {
		t.Fatalf("LoadByUsername() error: %v", err)
	}

	close(block)
	wg.Wait()

	state := p.State()
	if state.User == nil || state.User.Username != "alice" {
		t.Fatalf("User = %+v, want alice only", state.User)
	}
	if len(state.Casts) != 2 {
		t.Fatalf("Casts = %d, want alice's 2", len(state.Casts))
	}
	for _, cast := range state.Casts {
		if cast.Author.FID != 9 {
			t.Errorf("cast by fid %d leaked into alice's state", cast.Author.FID)
		}
	}
	if state.HasMore {
		t.Error("stale cursor leaked across the target switch")
	}
}

func TestProfileLoadMore(t *testing.T) {
	erin := content.User{FID: 3, Username: "erin"}
	fetcher := &stubProfileFetcher{
		pages: map[int64]map[string]content.Page{
			3: {
				"":   {Casts: authorCasts(erin, "e1", 25), NextCursor: "c2"},
				"c2": {Casts: authorCasts(erin, "e2", 10)},
			},
		},
	}

	p := NewProfile(fetcher, anonResolver(), 25)
	if err := p.LoadByFID(context.Background(), 3, &erin); err != nil {
		t.Fatalf("LoadByFID() error: %v", err)
	}
	if err := p.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore() error: %v", err)
	}

	state := p.State()
	if len(state.Casts) != 35 {
		t.Errorf("Casts = %d, want 35", len(state.Casts))
	}
	if state.HasMore {
		t.Error("HasMore = true after exhausted page")
	}

	// Exhausted: no further request
	if err := p.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore() error: %v", err)
	}
	if fetcher.castCalls != 2 {
		t.Errorf("cast calls = %d, want 2", fetcher.castCalls)
	}
}

func TestProfileClear(t *testing.T) {
	alice := content.User{FID: 5, Username: "alice"}
	fetcher := &stubProfileFetcher{
		pages: map[int64]map[string]content.Page{
			5: {"": {Casts: authorCasts(alice, "a", 4), NextCursor: "c2"}},
		},
	}

	p := NewProfile(fetcher, anonResolver(), 25)
	if err := p.LoadByFID(context.Background(), 5, &alice); err != nil {
		t.Fatalf("LoadByFID() error: %v", err)
	}

	p.Clear()

	state := p.State()
	if state.User != nil || len(state.Casts) != 0 || state.HasMore || state.Loading || state.Error != "" {
		t.Errorf("state after Clear() = %+v, want empty", state)
	}
}
