package feed

import (
	"testing"
)

func TestParseSelectorType(t *testing.T) {
	tests := []struct {
		raw      string
		expected SelectorType
	}{
		{"for_you", SelectorForYou},
		{"trending_24h", SelectorTrending24h},
		{"top_casts_24h", SelectorTopCasts24h},
		{"following", SelectorFollowing},
		{"search", SelectorSearch},
		{"channel", SelectorChannel},
		{"user_casts", SelectorUserCasts},
		{"liked", SelectorLiked},
		{"notifications", SelectorNotifications},
		{"cast_detail", SelectorCastDetail},
		{"", SelectorTrending24h},
		{"bogus", SelectorTrending24h},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseSelectorType(tt.raw); got != tt.expected {
				t.Errorf("ParseSelectorType(%q) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		selector   Selector
		viewerFID  string
		wantPath   string
		wantParams map[string]string
	}{
		{
			name:      "trending",
			selector:  Selector{Type: SelectorTrending24h},
			wantPath:  "/feed/trending",
		},
		{
			name:       "top casts adds recasts flag",
			selector:   Selector{Type: SelectorTopCasts24h},
			wantPath:   "/feed/trending",
			wantParams: map[string]string{"with_recasts": "true"},
		},
		{
			name:       "following with viewer",
			selector:   Selector{Type: SelectorFollowing},
			viewerFID:  "42",
			wantPath:   "/feed/following",
			wantParams: map[string]string{"fid": "42"},
		},
		{
			name:      "following without viewer falls back to trending",
			selector:  Selector{Type: SelectorFollowing},
			wantPath:  "/feed/trending",
		},
		{
			name:       "for_you reuses following feed",
			selector:   Selector{Type: SelectorForYou},
			viewerFID:  "42",
			wantPath:   "/feed/following",
			wantParams: map[string]string{"fid": "42"},
		},
		{
			name:       "search with keyword",
			selector:   Selector{Type: SelectorSearch, Keyword: "onchain"},
			wantPath:   "/feed/search",
			wantParams: map[string]string{"q": "onchain"},
		},
		{
			name:      "search without keyword falls back to trending",
			selector:  Selector{Type: SelectorSearch},
			wantPath:  "/feed/trending",
		},
		{
			name:       "channel with id",
			selector:   Selector{Type: SelectorChannel, ChannelID: "degen"},
			wantPath:   "/feed/channel",
			wantParams: map[string]string{"channel_id": "degen"},
		},
		{
			name:      "channel without id falls back to trending",
			selector:  Selector{Type: SelectorChannel},
			wantPath:  "/feed/trending",
		},
		{
			name:       "user casts with fid",
			selector:   Selector{Type: SelectorUserCasts, FID: 7},
			wantPath:   "/casts",
			wantParams: map[string]string{"fid": "7"},
		},
		{
			name:      "user casts without fid falls back to trending",
			selector:  Selector{Type: SelectorUserCasts},
			wantPath:  "/feed/trending",
		},
		{
			name:       "liked with viewer",
			selector:   Selector{Type: SelectorLiked},
			viewerFID:  "42",
			wantPath:   "/feed/user_likes",
			wantParams: map[string]string{"fid": "42"},
		},
		{
			name:      "liked without viewer falls back to trending",
			selector:  Selector{Type: SelectorLiked},
			wantPath:  "/feed/trending",
		},
		{
			name:       "notifications with viewer",
			selector:   Selector{Type: SelectorNotifications},
			viewerFID:  "42",
			wantPath:   "/notifications",
			wantParams: map[string]string{"fid": "42"},
		},
		{
			name:       "cast detail with hash",
			selector:   Selector{Type: SelectorCastDetail, CastHash: "0xabc"},
			wantPath:   "/cast",
			wantParams: map[string]string{"hash": "0xabc"},
		},
		{
			name:      "cast detail without hash falls back to trending",
			selector:  Selector{Type: SelectorCastDetail},
			wantPath:  "/feed/trending",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, params := tt.selector.Resolve(tt.viewerFID, 10, "")
			if path != tt.wantPath {
				t.Errorf("Resolve() path = %q, want %q", path, tt.wantPath)
			}
			if params.Get("limit") != "10" {
				t.Errorf("Resolve() limit = %q, want 10", params.Get("limit"))
			}
			for key, want := range tt.wantParams {
				if got := params.Get(key); got != want {
					t.Errorf("Resolve() param %s = %q, want %q", key, got, want)
				}
			}
		})
	}
}

func TestResolveCursor(t *testing.T) {
	selector := Selector{Type: SelectorTrending24h}

	_, params := selector.Resolve("", 10, "")
	if params.Has("cursor") {
		t.Error("Resolve() without cursor should not set the cursor param")
	}

	_, params = selector.Resolve("", 10, "tok")
	if params.Get("cursor") != "tok" {
		t.Errorf("Resolve() cursor = %q, want tok", params.Get("cursor"))
	}
}

func TestCacheable(t *testing.T) {
	if !(Selector{Type: SelectorTrending24h}).Cacheable() {
		t.Error("trending pages should be cacheable")
	}
	if (Selector{Type: SelectorFollowing}).Cacheable() {
		t.Error("personalized pages must never be cacheable")
	}
	if (Selector{Type: SelectorNotifications}).Cacheable() {
		t.Error("notification pages must never be cacheable")
	}
}
