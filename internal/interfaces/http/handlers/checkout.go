// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/payment"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// PlaceOrder handles POST /checkout/orders
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req checkout.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.checkoutService.PlaceOrder(c.Request.Context(), userID, &req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, payment.ErrNotInitialized) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	if result.RequestErr != nil {
		// The pending order exists but the gateway refused the attempt;
		// the client may retry completion or let the order lapse.
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Payment request failed",
			"data": gin.H{
				"order_id": result.Order.ID,
				"status":   result.Order.Status,
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"data": gin.H{
			"order":      result.Order,
			"payment_id": result.PaymentID,
		},
	})
}

// ResolveItems handles GET /checkout/items. It previews what a purchase
// would cover right now, honoring the buy-now override.
func (h *CheckoutHandler) ResolveItems(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	lines, buyNow, err := h.checkoutService.ResolveItems(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			c.JSON(http.StatusOK, gin.H{
				"message": "Nothing to order",
				"data": gin.H{
					"items":   []interface{}{},
					"buy_now": false,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	var total int64
	for _, line := range lines {
		total += line.UnitPrice * int64(line.Quantity)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout items resolved",
		"data": gin.H{
			"items":   lines,
			"buy_now": buyNow,
			"total":   total,
		},
	})
}
