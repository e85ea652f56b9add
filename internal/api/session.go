package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goatcast/goatcast/internal/identity"
	"github.com/goatcast/goatcast/internal/models"
	"github.com/goatcast/goatcast/internal/session"
)

type signInRequest struct {
	Username string `json:"username" binding:"required"`
}

// signIn handles POST /api/v1/session. The handle is resolved against the
// content API; a profile that comes back without both fid and username is
// rejected rather than stored half-formed.
func (r *Router) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, NewError(http.StatusBadRequest, "username is required"))
		return
	}

	user, err := r.content.FetchUserByUsername(c.Request.Context(), req.Username, "")
	if err != nil {
		respondError(c, err)
		return
	}

	record := &session.Record{
		FID:            user.FID,
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		PfpURL:         user.PfpURL,
		Bio:            user.Bio,
		FollowerCount:  user.FollowerCount,
		FollowingCount: user.FollowingCount,
		SignedInAt:     time.Now().UTC(),
	}
	if err := r.resolver.SignIn(record); err != nil {
		respondError(c, NewError(http.StatusBadGateway, err.Error()))
		return
	}

	// The store row is best effort; sign-in works without the database
	if r.users != nil {
		row := &models.User{
			FID:            user.FID,
			Username:       user.Username,
			DisplayName:    user.DisplayName,
			PfpURL:         user.PfpURL,
			Bio:            user.Bio,
			FollowerCount:  user.FollowerCount,
			FollowingCount: user.FollowingCount,
		}
		if err := r.users.RecordLogin(c.Request.Context(), row); err != nil {
			r.logger.Warn("Failed to record login", zap.Int64("fid", user.FID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": record, "source": identity.SourceLive.String()})
}

// getSession handles GET /api/v1/session. Anonymous is a valid state, not
// an error.
func (r *Router) getSession(c *gin.Context) {
	record, source := r.resolver.Current()
	c.JSON(http.StatusOK, gin.H{"user": record, "source": source.String()})
}

// signOut handles DELETE /api/v1/session
func (r *Router) signOut(c *gin.Context) {
	if err := r.resolver.SignOut(); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// getTheme handles GET /api/v1/preferences/theme
func (r *Router) getTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": r.sessions.LoadTheme()})
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// setTheme handles PUT /api/v1/preferences/theme
func (r *Router) setTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, NewError(http.StatusBadRequest, "theme is required"))
		return
	}
	if req.Theme != "light" && req.Theme != "dark" {
		respondError(c, NewError(http.StatusBadRequest, "theme must be light or dark"))
		return
	}

	if err := r.sessions.SaveTheme(req.Theme); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": req.Theme})
}
