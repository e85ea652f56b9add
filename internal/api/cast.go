package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goatcast/goatcast/internal/content"
	"github.com/goatcast/goatcast/internal/feed"
	"github.com/goatcast/goatcast/pkg/timeutil"
)

// getCast handles GET /api/v1/cast/:hash, returning the cast plus its
// first reply page. A reply fetch failure degrades to an empty reply list
// rather than failing the whole detail view.
func (r *Router) getCast(c *gin.Context) {
	hash := c.Param("hash")

	cast, err := r.content.FetchCast(c.Request.Context(), hash)
	if err != nil {
		respondError(c, err)
		return
	}

	replies, err := r.content.FetchReplies(c.Request.Context(), hash, "")
	if err != nil {
		r.logger.Warn("Failed to fetch replies", zap.String("hash", hash), zap.Error(err))
		replies = content.Page{}
	}

	c.JSON(http.StatusOK, gin.H{
		"cast":    castView{Cast: *cast, Age: timeutil.Relative(cast.Timestamp, time.Now())},
		"replies": pageResponse(feed.NewResult(replies)),
	})
}

// getCastReplies handles GET /api/v1/cast/:hash/replies
func (r *Router) getCastReplies(c *gin.Context) {
	hash := c.Param("hash")
	cursor := c.Query("cursor")

	page, err := r.content.FetchReplies(c.Request.Context(), hash, cursor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pageResponse(feed.NewResult(page)))
}
