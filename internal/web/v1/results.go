package v1

import (
	"net/http"
	"strconv"

	pkgzerolog "github.com/duynhne/pkg/logger/zerolog"
	"github.com/gin-gonic/gin"
)

// TopScores handles GET /results/top?limit=N.
func (h *Handler) TopScores(c *gin.Context) {
	ctx := c.Request.Context()

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	entries, err := h.store.TopScores(ctx, limit)
	if err != nil {
		pkgzerolog.FromContext(ctx).Error().Err(err).Msg("Leaderboard query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scores": entries})
}

// History handles GET /results/history for the calling user.
func (h *Handler) History(c *gin.Context) {
	rc, ok := requireAuth(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	entries, err := h.store.History(ctx, rc.Identity.Email)
	if err != nil {
		pkgzerolog.FromContext(ctx).Error().Err(err).Msg("History query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}
