package feed

import (
	"net/url"
	"strconv"
)

// SelectorType identifies which content slice a feed targets
type SelectorType string

const (
	SelectorForYou        SelectorType = "for_you"
	SelectorTrending24h   SelectorType = "trending_24h"
	SelectorTopCasts24h   SelectorType = "top_casts_24h"
	SelectorFollowing     SelectorType = "following"
	SelectorSearch        SelectorType = "search"
	SelectorChannel       SelectorType = "channel"
	SelectorUserCasts     SelectorType = "user_casts"
	SelectorLiked         SelectorType = "liked"
	SelectorNotifications SelectorType = "notifications"
	SelectorCastDetail    SelectorType = "cast_detail"
)

// Selector is the tagged choice of content slice plus its parameters.
// Immutable once a pagination session starts.
type Selector struct {
	Type      SelectorType
	Keyword   string
	ChannelID string
	FID       int64
	CastHash  string
}

// ParseSelectorType maps a raw string onto a known selector type. Anything
// unrecognized becomes trending, never an error.
func ParseSelectorType(raw string) SelectorType {
	switch SelectorType(raw) {
	case SelectorForYou, SelectorTrending24h, SelectorTopCasts24h, SelectorFollowing,
		SelectorSearch, SelectorChannel, SelectorUserCasts, SelectorLiked,
		SelectorNotifications, SelectorCastDetail:
		return SelectorType(raw)
	default:
		return SelectorTrending24h
	}
}

// Resolve maps the selector onto a content API path and query parameters.
// viewerFID is the resolved current user id, "" when anonymous. Any
// selector missing a required parameter falls back to the trending
// endpoint; that is the uniform policy, a column never errors out because
// its owner is signed out.
func (s Selector) Resolve(viewerFID string, limit int, cursor string) (string, url.Values) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	switch s.Type {
	case SelectorForYou, SelectorFollowing:
		// No personalized feed endpoint upstream; for_you reuses following
		if viewerFID == "" {
			break
		}
		params.Set("fid", viewerFID)
		return "/feed/following", params

	case SelectorTopCasts24h:
		params.Set("with_recasts", "true")
		return "/feed/trending", params

	case SelectorChannel:
		if s.ChannelID == "" {
			break
		}
		params.Set("channel_id", s.ChannelID)
		return "/feed/channel", params

	case SelectorSearch:
		if s.Keyword == "" {
			break
		}
		params.Set("q", s.Keyword)
		return "/feed/search", params

	case SelectorUserCasts:
		if s.FID == 0 {
			break
		}
		params.Set("fid", strconv.FormatInt(s.FID, 10))
		return "/casts", params

	case SelectorLiked:
		if viewerFID == "" {
			break
		}
		params.Set("fid", viewerFID)
		return "/feed/user_likes", params

	case SelectorNotifications:
		if viewerFID == "" {
			break
		}
		params.Set("fid", viewerFID)
		return "/notifications", params

	case SelectorCastDetail:
		if s.CastHash == "" {
			break
		}
		params.Set("hash", s.CastHash)
		return "/cast", params
	}

	return "/feed/trending", params
}

// Cacheable reports whether pages for this selector may be shared between
// users. Personalized slices never are.
func (s Selector) Cacheable() bool {
	switch s.Type {
	case SelectorTrending24h, SelectorTopCasts24h, SelectorChannel, SelectorSearch:
		return true
	default:
		return false
	}
}
