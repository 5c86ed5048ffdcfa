// internal/domain/checkout/sweeper.go
package checkout

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

const sweepBatchSize = 200

// Sweeper moves stale pending orders to abandoned. A payer who closes the
// gateway window mid-payment never triggers a redirect, so their order would
// otherwise sit pending forever.
type Sweeper struct {
	orders       *order.Repository
	events       EventPublisher
	abandonAfter time.Duration
	interval     time.Duration
	logger       *logrus.Logger
}

// NewSweeper creates a new abandonment sweeper
func NewSweeper(orders *order.Repository, events EventPublisher, abandonAfter, interval time.Duration, logger *logrus.Logger) *Sweeper {
	return &Sweeper{
		orders:       orders,
		events:       events,
		abandonAfter: abandonAfter,
		interval:     interval,
		logger:       logger,
	}
}

// Run sweeps on a fixed interval until the context is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.WithFields(logrus.Fields{
		"abandon_after": s.abandonAfter.String(),
		"interval":      s.interval.String(),
	}).Info("Order abandonment sweeper started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Order abandonment sweeper stopped")
			return
		case <-ticker.C:
			if n, err := s.SweepOnce(); err != nil {
				s.logger.WithError(err).Error("Abandonment sweep failed")
			} else if n > 0 {
				s.logger.WithField("count", n).Info("Abandoned stale pending orders")
			}
		}
	}
}

// SweepOnce abandons every pending order older than the cutoff and returns
// how many were moved.
func (s *Sweeper) SweepOnce() (int, error) {
	cutoff := time.Now().Add(-s.abandonAfter)
	stale, err := s.orders.ListStalePending(cutoff, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	moved := 0
	for i := range stale {
		o := &stale[i]
		err := s.orders.Update(o.ID, map[string]interface{}{
			"status": order.StatusAbandoned,
		})
		if err != nil {
			s.logger.WithField("order_id", o.ID).
				WithError(err).
				Warn("Failed to abandon order")
			continue
		}
		moved++

		if s.events != nil {
			o.Status = order.StatusAbandoned
			_ = s.events.Publish("order.abandoned", orderEvent{
				OrderID:     o.ID,
				UserID:      o.UserID,
				Status:      o.Status,
				TotalAmount: o.TotalAmount,
				OrderName:   o.OrderName,
			})
		}
	}
	return moved, nil
}
