// internal/domain/catalog/service.go
package catalog

import (
	"fmt"

	"gorm.io/gorm"
)

// Service handles catalog queries
type Service struct {
	db *gorm.DB
}

// NewService creates a new catalog service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns active products, newest first
func (s *Service) List() ([]Product, error) {
	var products []Product
	err := s.db.
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get returns a single active product by id
func (s *Service) Get(id string) (*Product, error) {
	var p Product
	err := s.db.Where("id = ? AND is_active = ?", id, true).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &p, nil
}
