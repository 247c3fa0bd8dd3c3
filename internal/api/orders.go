package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Angelo10101/newhouseit/internal/models"
	"github.com/Angelo10101/newhouseit/internal/service"
	"github.com/Angelo10101/newhouseit/internal/types"
)

// OrderHandler drives checkout: initiate a payment for the cart, verify it,
// and persist the resulting booking.
type OrderHandler struct {
	store    *service.StoreService
	payments *service.PaystackService
	auth     *service.AuthService
}

// NewOrderHandler creates a new OrderHandler instance
func NewOrderHandler(store *service.StoreService, payments *service.PaystackService, auth *service.AuthService) *OrderHandler {
	return &OrderHandler{
		store:    store,
		payments: payments,
		auth:     auth,
	}
}

// RegisterRoutes registers the order and payment routes
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/orders", h.ListOrders)
	router.POST("/checkout", h.Checkout)
	router.POST("/payments/verify", h.VerifyPayment)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, err := h.store.GetRequests(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Checkout starts a payment for the current cart. The order itself is not
// persisted yet: that happens only after the gateway confirms settlement in
// VerifyPayment. Metadata carries everything needed to rebuild the order.
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_at must be an RFC 3339 timestamp"})
		return
	}

	addressID, err := uuid.Parse(req.AddressID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
		return
	}
	if _, err := h.store.GetAddress(userID, addressID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load address"})
		return
	}

	items, err := h.store.GetCartItems(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}

	user, err := h.auth.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	var total float64
	snapshot := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
		snapshot = append(snapshot, map[string]interface{}{
			"id":       item.ID.String(),
			"name":     item.Name,
			"quantity": item.Quantity,
			"price":    item.Price,
		})
	}

	metadata := map[string]interface{}{
		"userId":            userID.String(),
		"items":             snapshot,
		"addressId":         addressID.String(),
		"scheduledDateTime": scheduledAt.Format(time.RFC3339),
	}

	init, err := h.payments.InitiateTransaction(c.Request.Context(), user.Email, total, metadata)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotConfigured) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error: PAYSTACK_SECRET_KEY not set"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to initialize payment", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.CheckoutResponse{
		AuthorizationURL: init.AuthorizationURL,
		Reference:        init.Reference,
	})
}

// VerifyPayment confirms a transaction with the gateway and, only on a
// successful settlement, persists the order from the transaction metadata
// and clears the cart.
func (h *OrderHandler) VerifyPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verification, err := h.payments.VerifyTransaction(c.Request.Context(), req.Reference)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotConfigured) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error: PAYSTACK_SECRET_KEY not set"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to verify payment", "message": err.Error()})
		return
	}

	if verification.Status != "success" {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment not completed", "status": verification.Status})
		return
	}

	// The metadata userId set at checkout binds the settlement to the
	// payer. A reference belonging to someone else must not produce an
	// order for the caller.
	if payer, ok := verification.Metadata["userId"].(string); !ok || payer != userID.String() {
		c.JSON(http.StatusForbidden, gin.H{"error": "transaction does not belong to this user"})
		return
	}

	// A reference settles at most one order. Replays return the order
	// that was already persisted.
	if existing, err := h.store.GetRequestByReference(userID, verification.Reference); err == nil {
		c.JSON(http.StatusOK, gin.H{"order": existing})
		return
	} else if !errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}

	order := models.ServiceRequest{
		Total:            verification.Amount,
		Status:           "paid",
		PaymentStatus:    "completed",
		PaymentReference: verification.Reference,
	}

	if items := parseMetadataItems(verification.Metadata); len(items) > 0 {
		order.Items = items
	}
	if scheduled, ok := verification.Metadata["scheduledDateTime"].(string); ok {
		if t, err := time.Parse(time.RFC3339, scheduled); err == nil {
			order.ScheduledAt = &t
		}
	}
	if addrStr, ok := verification.Metadata["addressId"].(string); ok {
		if addrID, err := uuid.Parse(addrStr); err == nil {
			if address, err := h.store.GetAddress(userID, addrID); err == nil {
				order.DeliveryAddress = models.JSONBAddress(*address)
			}
		}
	}

	if err := h.store.SaveRequest(userID, &order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save order"})
		return
	}
	if err := h.store.ClearCart(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// parseMetadataItems recovers the order item snapshot from the free-form
// gateway metadata.
func parseMetadataItems(metadata map[string]interface{}) models.JSONBOrderItems {
	raw, ok := metadata["items"]
	if !ok {
		return nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}

	var items models.JSONBOrderItems
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return items
}
