package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/goatcast/goatcast/internal/feed"
)

// getUserByUsername handles GET /api/v1/users/by-username/:username
func (r *Router) getUserByUsername(c *gin.Context) {
	username := c.Param("username")

	user, err := r.content.FetchUserByUsername(c.Request.Context(), username, r.resolver.CurrentFID())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// getUserCasts handles GET /api/v1/users/:fid/casts
func (r *Router) getUserCasts(c *gin.Context) {
	fid, err := strconv.ParseInt(c.Param("fid"), 10, 64)
	if err != nil || fid <= 0 {
		respondError(c, NewError(http.StatusBadRequest, "fid must be a positive integer"))
		return
	}

	limit := r.cfg.Feed.DefaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			respondError(c, NewError(http.StatusBadRequest, "limit must be a positive integer"))
			return
		}
	}
	if limit > r.cfg.Feed.MaxLimit {
		limit = r.cfg.Feed.MaxLimit
	}

	page, err := r.content.FetchUserCasts(c.Request.Context(), fid, r.resolver.CurrentFID(), c.Query("cursor"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pageResponse(feed.NewResult(page)))
}
