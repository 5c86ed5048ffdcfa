// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// CatalogHandler handles product browsing endpoints
type CatalogHandler struct {
	catalogService *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalog.NewService(db),
	}
}

// GetProducts handles GET /products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	products, err := h.catalogService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
	})
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    product,
	})
}
