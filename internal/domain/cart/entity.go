// internal/domain/cart/entity.go
package cart

// Line represents one cart entry: a name/price snapshot taken when the
// product was added. Later catalog price changes never touch it.
type Line struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Cart is the per-user cart document. Revision is a monotonic write counter:
// concurrent writers overwrite each other last-write-wins, and the revision
// makes the winning write observable instead of silent.
type Cart struct {
	UserID    string `json:"user_id"`
	Lines     []Line `json:"lines"`
	Revision  uint64 `json:"revision"`
	UpdatedAt int64  `json:"updated_at"`
}

// Total is a pure fold over the lines
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.UnitPrice * int64(line.Quantity)
	}
	return total
}

// Count returns the summed quantity across lines
func (c *Cart) Count() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// ChangeEvent is published on the cart's notification channel after every
// persisted mutation so observers resynchronize without polling.
type ChangeEvent struct {
	UserID   string `json:"user_id"`
	Revision uint64 `json:"revision"`
	Count    int    `json:"count"`
}
