package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Angelo10101/newhouseit/internal/service"
)

// LocationHandler handles coordinate lookups for the caller.
type LocationHandler struct {
	location *service.LocationService
}

// NewLocationHandler creates a new LocationHandler instance
func NewLocationHandler(location *service.LocationService) *LocationHandler {
	return &LocationHandler{location: location}
}

// RegisterRoutes registers the location routes
func (h *LocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/location", h.Locate)
}

func (h *LocationHandler) Locate(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	loc, err := h.location.Locate(c.Request.Context(), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to resolve location", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, loc)
}
