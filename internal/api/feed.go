package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goatcast/goatcast/internal/cache"
	"github.com/goatcast/goatcast/internal/content"
	"github.com/goatcast/goatcast/internal/feed"
	"github.com/goatcast/goatcast/pkg/timeutil"
)

// castView is a cast annotated with its display age
type castView struct {
	content.Cast
	Age string `json:"age,omitempty"`
}

// feedResponse is one page of a feed
type feedResponse struct {
	Casts      []castView `json:"casts"`
	NextCursor string     `json:"next_cursor,omitempty"`
	HasMore    bool       `json:"has_more"`
}

func viewCasts(casts []content.Cast) []castView {
	now := time.Now()
	views := make([]castView, len(casts))
	for i, cast := range casts {
		views[i] = castView{Cast: cast, Age: timeutil.Relative(cast.Timestamp, now)}
	}
	return views
}

// pageResponse maps an engine page result onto the wire shape
func pageResponse(result feed.Result) feedResponse {
	return feedResponse{
		Casts:      viewCasts(result.Casts),
		NextCursor: result.NextCursor,
		HasMore:    result.HasMore,
	}
}

// getFeed handles GET /api/v1/feed. The selector comes from query
// parameters; unknown or incomplete selectors fall back to trending
// inside feed.Selector rather than erroring.
func (r *Router) getFeed(c *gin.Context) {
	selector := feed.Selector{
		Type:      feed.ParseSelectorType(c.Query("type")),
		Keyword:   c.Query("keyword"),
		ChannelID: c.Query("channel_id"),
		CastHash:  c.Query("cast_hash"),
	}
	if fidStr := c.Query("fid"); fidStr != "" {
		fid, err := strconv.ParseInt(fidStr, 10, 64)
		if err != nil {
			respondError(c, NewError(http.StatusBadRequest, "fid must be an integer"))
			return
		}
		selector.FID = fid
	}

	limit := r.cfg.Feed.DefaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			respondError(c, NewError(http.StatusBadRequest, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	if limit > r.cfg.Feed.MaxLimit {
		limit = r.cfg.Feed.MaxLimit
	}
	cursor := c.Query("cursor")

	// Viewer-independent selectors are served from cache when possible
	var cacheKey string
	if selector.Cacheable() && r.cache != nil {
		cacheKey = cache.HashKey(
			"feed",
			string(selector.Type),
			selector.Keyword,
			selector.ChannelID,
			strconv.Itoa(limit),
			cursor,
		)
		var cached feedResponse
		if err := r.cache.GetJSON(cacheKey, &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	result, err := feed.FetchOnce(c.Request.Context(), r.content, selector, r.resolver.CurrentFID(), limit, cursor)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := pageResponse(result)

	if cacheKey != "" {
		if err := r.cache.SetJSON(cacheKey, resp, r.cfg.Feed.CacheTTL); err != nil {
			r.logger.Warn("Failed to cache feed page", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, resp)
}
