package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Angelo10101/newhouseit/internal/models"
	"github.com/Angelo10101/newhouseit/internal/service"
)

// AddressHandler handles address book requests
type AddressHandler struct {
	store *service.StoreService
}

// NewAddressHandler creates a new AddressHandler instance
func NewAddressHandler(store *service.StoreService) *AddressHandler {
	return &AddressHandler{store: store}
}

// RegisterRoutes registers the address routes
func (h *AddressHandler) RegisterRoutes(router *gin.RouterGroup) {
	addresses := router.Group("/addresses")
	{
		addresses.GET("", h.ListAddresses)
		addresses.POST("", h.SaveAddress)
		addresses.DELETE("/:id", h.DeleteAddress)
	}
}

func (h *AddressHandler) ListAddresses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	addresses, err := h.store.GetAddresses(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load addresses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

func (h *AddressHandler) SaveAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Label         string `json:"label"`
		StreetAddress string `json:"streetAddress" binding:"required"`
		City          string `json:"city" binding:"required"`
		Province      string `json:"province" binding:"required"`
		PostalCode    string `json:"postalCode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	address := models.Address{
		Label:         req.Label,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		Province:      req.Province,
		PostalCode:    req.PostalCode,
	}
	id, err := h.store.SaveAddress(userID, &address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save address"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "address": address})
}

func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
		return
	}

	if err := h.store.DeleteAddress(userID, addressID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
}
