// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// PaymentHandler handles the gateway redirect endpoint
type PaymentHandler struct {
	checkoutService *checkout.Service
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(checkoutService *checkout.Service) *PaymentHandler {
	return &PaymentHandler{
		checkoutService: checkoutService,
	}
}

// Complete handles GET /payments/complete. The gateway redirects the payer
// here with paymentId, status and orderId query parameters; the endpoint is
// unauthenticated because the redirect carries no session.
func (h *PaymentHandler) Complete(c *gin.Context) {
	params := checkout.CompletionParams{
		PaymentID: c.Query("paymentId"),
		Status:    c.Query("status"),
		OrderID:   c.Query("orderId"),
	}

	o, err := h.checkoutService.CompletePayment(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment reconciled",
		"data": gin.H{
			"order_id": o.ID,
			"status":   o.Status,
			"paid_at":  o.PaidAt,
		},
	})
}
