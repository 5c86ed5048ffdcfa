// internal/domain/catalog/entity.go
package catalog

import (
	"time"
)

// Product represents a storefront product. Prices are KRW (no decimals);
// SalePrice is the amount actually charged and snapshotted into carts.
type Product struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       int64     `gorm:"not null" json:"price"`
	SalePrice   int64     `gorm:"not null" json:"sale_price"`
	ImageURL    string    `gorm:"size:500" json:"image_url"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}
