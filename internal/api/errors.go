package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goatcast/goatcast/internal/content"
	"github.com/goatcast/goatcast/internal/identity"
)

// Error is an API error carrying the HTTP status to respond with
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return e.Message
}

// NewError creates an API error
func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

var (
	// ErrStoreDisabled is returned for desk/column routes when no
	// database is configured
	ErrStoreDisabled = NewError(http.StatusServiceUnavailable, "desk store is not configured")

	// ErrNotFound is the generic missing-resource error
	ErrNotFound = NewError(http.StatusNotFound, "not found")
)

// respondError maps an error to an HTTP response. Upstream content API
// failures become 502, missing identity 401, entities absent from an
// upstream response 404, everything else 500 unless the error already
// carries a status.
func respondError(c *gin.Context, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, apiErr)
		return
	}
	if errors.Is(err, identity.ErrNotSignedIn) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign-in required"})
		return
	}
	if errors.Is(err, content.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, content.ErrUpstream) {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
