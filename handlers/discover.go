package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/joeys1992/Date/services"
)

type DiscoverHandler struct {
	discovery *services.Discovery
}

func NewDiscoverHandler(discovery *services.Discovery) *DiscoverHandler {
	return &DiscoverHandler{discovery: discovery}
}

func (h *DiscoverHandler) Discover(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := services.DefaultDiscoverLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	candidates, err := h.discovery.Discover(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": candidates})
}
