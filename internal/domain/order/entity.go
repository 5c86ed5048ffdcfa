// internal/domain/order/entity.go
package order

import (
	"time"
)

// Order status lifecycle. pending is the only state an order is born in;
// paid and failed come from payment reconciliation; abandoned is applied by
// the background sweep to pending orders nobody ever reconciled.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// Order represents a purchase header. TotalAmount is fixed at creation from
// the item snapshots and is never recomputed afterwards.
type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;size:64"`
	UserID        string      `json:"user_id" gorm:"size:64;not null;index"`
	OrderName     string      `json:"order_name" gorm:"size:255;not null"`
	Status        string      `json:"status" gorm:"size:20;not null;default:'pending'"`
	TotalAmount   int64       `json:"total_amount" gorm:"not null"`
	Currency      string      `json:"currency" gorm:"size:3;not null;default:'KRW'"`
	PaymentMethod string      `json:"payment_method" gorm:"size:32"`
	PaymentID     string      `json:"payment_id" gorm:"size:128"`
	RecipientName string      `json:"recipient_name" gorm:"size:100;not null"`
	Phone         string      `json:"phone" gorm:"size:32;not null"`
	Address       string      `json:"address" gorm:"size:500;not null"`
	AddressDetail string      `json:"address_detail" gorm:"size:255"`
	PostalCode    string      `json:"postal_code" gorm:"size:16"`
	Memo          string      `json:"memo" gorm:"size:500"`
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	PaidAt        *time.Time  `json:"paid_at"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName returns the table name for Order
func (Order) TableName() string {
	return "orders"
}

// IsTerminal reports whether the order has left the pending state
func (o *Order) IsTerminal() bool {
	return o.Status != StatusPending
}

// OrderItem is a purchase line frozen at order time. LineTotal is the
// stored product of the snapshot price and quantity, not a derived column.
type OrderItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   string    `json:"order_id" gorm:"size:64;not null;index"`
	ProductID string    `json:"product_id" gorm:"size:64;not null"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	UnitPrice int64     `json:"unit_price" gorm:"not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	LineTotal int64     `json:"line_total" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for OrderItem
func (OrderItem) TableName() string {
	return "order_items"
}
