package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pitchmate/pitchmate-server/services"
)

// Package-level services, wired once at startup (and by the test setup).
var (
	Matchmaking *services.MatchmakingService
	ShareCodes  services.TTLStore
)

func Init(m *services.MatchmakingService, codes services.TTLStore) {
	Matchmaking = m
	ShareCodes = codes
}

// respondDomainError maps service errors to HTTP responses. Each kind
// gets its own status/message so the client can render something useful.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, services.ErrPreconditionFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"message": "Only the post owner can do this"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "This player was already invited"})
	case errors.Is(err, services.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, gin.H{"message": "The game is already full"})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"message": "No pending invitation to respond to"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal error"})
	}
}
