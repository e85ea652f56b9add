package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goatcast/goatcast/internal/feed"
	"github.com/goatcast/goatcast/internal/models"
)

// currentUserID returns the signed-in user's id for store rows, or ""
func (r *Router) currentUserID() string {
	return r.resolver.CurrentFID()
}

func (r *Router) storeReady(c *gin.Context) bool {
	if r.desks == nil {
		respondError(c, ErrStoreDisabled)
		return false
	}
	return true
}

// ownedDesk loads a desk and verifies it belongs to userID. Missing and
// foreign desks both come back as not found.
func (r *Router) ownedDesk(c *gin.Context, id, userID string) *models.Desk {
	desk, err := r.desks.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil
	}
	if desk == nil || desk.UserID != userID {
		respondError(c, ErrNotFound)
		return nil
	}
	return desk
}

// listDesks handles GET /api/v1/desks
func (r *Router) listDesks(c *gin.Context) {
	if !r.storeReady(c) {
		return
	}

	desks, err := r.desks.ListByUser(c.Request.Context(), r.currentUserID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"desks": desks})
}

type deskRequest struct {
	Name string `json:"name" binding:"required"`
}

// createDesk handles POST /api/v1/desks
func (r *Router) createDesk(c *gin.Context) {
	if !r.storeReady(c) {
		return
	}

	var req deskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, NewError(http.StatusBadRequest, "name is required"))
		return
	}

	desk, err := r.desks.Create(c.Request.Context(), r.currentUserID(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, desk)
}

// renameDesk handles PATCH /api/v1/desks/:id
func (r *Router) renameDesk(c *gin.Context) {
	if !r.storeReady(c) {
		return
	}
	userID := r.currentUserID()
	if userID == "" {
		respondError(c, NewError(http.StatusUnauthorized, "sign-in required"))
		return
	}

	var req deskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, NewError(http.StatusBadRequest, "name is required"))
		return
	}

	if r.ownedDesk(c, c.Param("id"), userID) == nil {
		return
	}

	desk, err := r.desks.Rename(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, desk)
}

// deleteDesk handles DELETE /api/v1/desks/:id
func (r *Router) deleteDesk(c *gin.Context) {
	if !r.storeReady(c) {
		return
	}
	userID := r.currentUserID()
	if userID == "" {
		respondError(c, NewError(http.StatusUnauthorized, "sign-in required"))
		return
	}

	if r.ownedDesk(c, c.Param("id"), userID) == nil {
		return
	}

	if err := r.desks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listColumns handles GET /api/v1/desks/:id/columns
func (r *Router) listColumns(c *gin.Context) {
	if !r.storeReady(c) {
		return
	}

	columns, err := r.columns.ListByDesk(c.Request.Context(), c.Param("id"), r.currentUserID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

type columnRequest struct {
	Name      string `json:"name" binding:"required"`
	FeedType  string `json:"feed_type" binding:"required"`
	Keyword   string `json:"keyword"`
	ChannelID string `json:"channel_id"`
	TargetFID int64  `json:"target_fid"`
	Position  int    `json:"position"`
}

// createColumn handles POST /api/v1/desks/:id/columns
func (r *Router) createColumn(c *gin.Context) {
	if !r.storeReady(c) {
		return
	}
	userID := r.currentUserID()
	if userID == "" {
		respondError(c, NewError(http.StatusUnauthorized, "sign-in required"))
		return
	}

	var req columnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, NewError(http.StatusBadRequest, "name and feed_type are required"))
		return
	}

	if r.ownedDesk(c, c.Param("id"), userID) == nil {
		return
	}

	column := &models.Column{
		DeskID:    c.Param("id"),
		Name:      req.Name,
		FeedType:  string(feed.ParseSelectorType(req.FeedType)),
		Keyword:   req.Keyword,
		ChannelID: req.ChannelID,
		TargetFID: req.TargetFID,
		UserID:    userID,
		Position:  req.Position,
	}
	if err := r.columns.Create(c.Request.Context(), column); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, column)
}

type columnUpdateRequest struct {
	Name      *string `json:"name"`
	FeedType  *string `json:"feed_type"`
	Keyword   *string `json:"keyword"`
	ChannelID *string `json:"channel_id"`
	TargetFID *int64  `json:"target_fid"`
	Position  *int    `json:"position"`
}

// updateColumn handles PATCH /api/v1/columns/:id
func (r *Router) updateColumn(c *gin.Context) {
	if !r.storeReady(c) {
		return
	}
	userID := r.currentUserID()
	if userID == "" {
		respondError(c, NewError(http.StatusUnauthorized, "sign-in required"))
		return
	}

	var req columnUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, NewError(http.StatusBadRequest, "invalid request body"))
		return
	}

	column, err := r.columns.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if column == nil || column.UserID != userID {
		respondError(c, ErrNotFound)
		return
	}

	if req.Name != nil {
		column.Name = *req.Name
	}
	if req.FeedType != nil {
		column.FeedType = string(feed.ParseSelectorType(*req.FeedType))
	}
	if req.Keyword != nil {
		column.Keyword = *req.Keyword
	}
	if req.ChannelID != nil {
		column.ChannelID = *req.ChannelID
	}
	if req.TargetFID != nil {
		column.TargetFID = *req.TargetFID
	}
	if req.Position != nil {
		column.Position = *req.Position
	}

	if err := r.columns.Update(c.Request.Context(), column); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, column)
}

// deleteColumn handles DELETE /api/v1/columns/:id
func (r *Router) deleteColumn(c *gin.Context) {
	if !r.storeReady(c) {
		return
	}
	userID := r.currentUserID()
	if userID == "" {
		respondError(c, NewError(http.StatusUnauthorized, "sign-in required"))
		return
	}

	column, err := r.columns.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if column == nil || column.UserID != userID {
		respondError(c, ErrNotFound)
		return
	}

	if err := r.columns.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func sseHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
}

func writeSSE(w io.Writer, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", raw)
	return err
}

// watchDesks handles GET /api/v1/desks/watch, streaming desk-list
// snapshots over SSE until the client disconnects.
func (r *Router) watchDesks(c *gin.Context) {
	if !r.storeReady(c) {
		return
	}

	sub := r.hub.SubscribeDesks(c.Request.Context(), r.currentUserID())
	defer sub.Cancel()

	sseHeaders(c)
	c.Stream(func(w io.Writer) bool {
		event, ok := <-sub.Events
		if !ok {
			return false
		}
		if event.Err != nil {
			r.logger.Warn("Desk watch error", zap.Error(event.Err))
			if err := writeSSE(w, gin.H{"error": event.Err.Error()}); err != nil {
				return false
			}
			return false
		}
		if err := writeSSE(w, gin.H{"desks": event.Desks}); err != nil {
			return false
		}
		return true
	})
}

// watchColumns handles GET /api/v1/desks/:id/columns/watch
func (r *Router) watchColumns(c *gin.Context) {
	if !r.storeReady(c) {
		return
	}

	sub := r.hub.SubscribeColumns(c.Request.Context(), c.Param("id"), r.currentUserID())
	defer sub.Cancel()

	sseHeaders(c)
	c.Stream(func(w io.Writer) bool {
		event, ok := <-sub.Events
		if !ok {
			return false
		}
		if event.Err != nil {
			r.logger.Warn("Column watch error", zap.Error(event.Err))
			if err := writeSSE(w, gin.H{"error": event.Err.Error()}); err != nil {
				return false
			}
			return false
		}
		if err := writeSSE(w, gin.H{"columns": event.Columns}); err != nil {
			return false
		}
		return true
	})
}
