// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"gorm.io/gorm"
)

// AdminHandler handles the back-office order surface
type AdminHandler struct {
	orderRepo *order.Repository
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{
		orderRepo: order.NewRepository(db),
	}
}

var adminStatuses = map[string]bool{
	order.StatusPending:   true,
	order.StatusPaid:      true,
	order.StatusFailed:    true,
	order.StatusAbandoned: true,
}

// ListOrders handles GET /admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !adminStatuses[status] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown order status",
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	orders, total, err := h.orderRepo.ListAll(status, limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data": gin.H{
			"orders": orders,
			"total":  total,
			"page":   page,
			"limit":  limit,
		},
	})
}

// GetOrder handles GET /admin/orders/:id
func (h *AdminHandler) GetOrder(c *gin.Context) {
	o, err := h.orderRepo.GetByID(c.Param("id"))
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
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status. Operators can
// force any status; the audit trail lives in the event stream.
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	if !adminStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown order status",
		})
		return
	}

	err := h.orderRepo.Update(c.Param("id"), map[string]interface{}{
		"status": req.Status,
	})
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
		"message": "Order status updated",
	})
}

// GetStats handles GET /admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	counts, err := h.orderRepo.CountByStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stats retrieved successfully",
		"data": gin.H{
			"orders_by_status": counts,
		},
	})
}
