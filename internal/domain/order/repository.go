// internal/domain/order/repository.go
package order

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when the requested order does not exist or is not
// visible to the caller.
var ErrNotFound = errors.New("order not found")

// Repository persists orders and their item snapshots
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new order repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create writes the header and all items in one transaction. Either the
// whole order exists or none of it does; a header without items is not a
// representable state.
func (r *Repository) Create(o *Order) error {
	if len(o.Items) == 0 {
		return fmt.Errorf("order must have at least one item")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
}

// GetByID loads one order with its items
func (r *Repository) GetByID(id string) (*Order, error) {
	var o Order
	err := r.db.Preload("Items").Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &o, nil
}

// GetByIDForUser loads one order only when it belongs to the given user.
// A foreign order is indistinguishable from a missing one.
func (r *Repository) GetByIDForUser(id, userID string) (*Order, error) {
	var o Order
	err := r.db.Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &o, nil
}

// ListByUser returns the user's orders newest first
func (r *Repository) ListByUser(userID string) ([]Order, error) {
	var orders []Order
	err := r.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Update applies a partial field patch to one order. The repository does not
// judge status transitions; callers decide which moves are legal.
func (r *Repository) Update(id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	result := r.db.Model(&Order{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaid records a successful payment: status, gateway payment id and the
// paid timestamp move together in one patch.
func (r *Repository) MarkPaid(id, paymentID string, paidAt time.Time) error {
	return r.Update(id, map[string]interface{}{
		"status":     StatusPaid,
		"payment_id": paymentID,
		"paid_at":    paidAt,
	})
}

// MarkFailed records a failed payment attempt
func (r *Repository) MarkFailed(id string) error {
	return r.Update(id, map[string]interface{}{
		"status": StatusFailed,
	})
}

// ListStalePending returns pending orders created before the cutoff. Used by
// the abandonment sweep.
func (r *Repository) ListStalePending(cutoff time.Time, limit int) ([]Order, error) {
	var orders []Order
	err := r.db.Where("status = ? AND created_at < ?", StatusPending, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale pending orders: %w", err)
	}
	return orders, nil
}

// ListAll returns orders across all users for the admin surface, newest
// first, optionally filtered by status.
func (r *Repository) ListAll(status string, limit, offset int) ([]Order, int64, error) {
	query := r.db.Model(&Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	err := query.Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// CountByStatus aggregates order counts per status for the admin dashboard
func (r *Repository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.Model(&Order{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
