// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Store is the device-local cart made durable: a single-writer-per-request
// key-value record in Redis, independent of the identity provider's session
// lifetime. Entries are advisory until checkout commits them into order
// items, after which the cart is cleared.
type Store struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

// NewStore creates a new cart store
func NewStore(redisClient *redis.Client, logger *logrus.Logger) *Store {
	return &Store{
		redisClient: redisClient,
		logger:      logger,
	}
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:user:%s", userID)
}

func buyNowKey(userID string) string {
	return fmt.Sprintf("cart:buynow:%s", userID)
}

// EventChannel returns the pub/sub channel carrying change notifications
// for one user's cart.
func EventChannel(userID string) string {
	return fmt.Sprintf("cart:events:%s", userID)
}

// Get loads the user's cart. A missing or corrupt record is an empty cart,
// never an error.
func (s *Store) Get(ctx context.Context, userID string) (*Cart, error) {
	data, err := s.redisClient.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil {
		return &Cart{UserID: userID, Lines: []Line{}}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		s.logger.WithField("user_id", userID).
			Warn("Discarding corrupt cart record")
		return &Cart{UserID: userID, Lines: []Line{}}, nil
	}
	c.UserID = userID
	return &c, nil
}

// Add merges the line into the cart: an existing entry with the same product
// id has its quantity incremented, a new entry is appended. The price
// snapshot is refreshed on merge.
func (s *Store) Add(ctx context.Context, userID string, line Line) (*Cart, error) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range c.Lines {
		if c.Lines[i].ProductID == line.ProductID {
			c.Lines[i].Quantity += line.Quantity
			c.Lines[i].UnitPrice = line.UnitPrice
			c.Lines[i].Name = line.Name
			merged = true
			break
		}
	}
	if !merged {
		c.Lines = append(c.Lines, line)
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateQuantity sets the quantity for one line. A target below 1 is a
// no-op: removal is an explicit operation, never a side effect of
// decrementing.
func (s *Store) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*Cart, error) {
	if quantity < 1 {
		return s.Get(ctx, userID)
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("item not found in cart")
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Remove deletes one line from the cart
func (s *Store) Remove(ctx context.Context, userID, productID string) (*Cart, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := c.Lines[:0]
	for _, line := range c.Lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	c.Lines = kept

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the cart record
func (s *Store) Clear(ctx context.Context, userID string) error {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	c.Lines = []Line{}
	return s.save(ctx, c)
}

// SetBuyNow stores the single-item buy-now override. Quantity defaults to 1.
func (s *Store) SetBuyNow(ctx context.Context, userID string, line Line) error {
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	data, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("failed to encode buy-now record: %w", err)
	}
	if err := s.redisClient.Set(ctx, buyNowKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store buy-now record: %w", err)
	}
	return nil
}

// BuyNow returns the buy-now override line, or nil when absent or corrupt
func (s *Store) BuyNow(ctx context.Context, userID string) (*Line, error) {
	data, err := s.redisClient.Get(ctx, buyNowKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load buy-now record: %w", err)
	}

	var line Line
	if err := json.Unmarshal([]byte(data), &line); err != nil {
		s.logger.WithField("user_id", userID).
			Warn("Discarding corrupt buy-now record")
		return nil, nil
	}
	return &line, nil
}

// ClearBuyNow removes the buy-now override
func (s *Store) ClearBuyNow(ctx context.Context, userID string) error {
	return s.redisClient.Del(ctx, buyNowKey(userID)).Err()
}

// ClearAll removes both the cart and the buy-now record. Used by the paid
// reconciliation path once the order items own the purchase.
func (s *Store) ClearAll(ctx context.Context, userID string) error {
	if err := s.Clear(ctx, userID); err != nil {
		return err
	}
	return s.ClearBuyNow(ctx, userID)
}

// save persists the full document synchronously, bumps the write counter and
// publishes the change notification. Publish failures are logged, not
// returned: the write already won.
func (s *Store) save(ctx context.Context, c *Cart) error {
	c.Revision++
	c.UpdatedAt = time.Now().UTC().Unix()

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.redisClient.Set(ctx, cartKey(c.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store cart: %w", err)
	}

	event, err := json.Marshal(ChangeEvent{
		UserID:   c.UserID,
		Revision: c.Revision,
		Count:    c.Count(),
	})
	if err == nil {
		if err := s.redisClient.Publish(ctx, EventChannel(c.UserID), event).Err(); err != nil {
			s.logger.WithField("user_id", c.UserID).
				WithError(err).
				Warn("Failed to publish cart change event")
		}
	}

	return nil
}
