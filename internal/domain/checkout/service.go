// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/payment"
	"github.com/your-org/storefront-backend/internal/domain/profile"
)

var (
	// ErrEmptyCart means there is nothing to order
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidShipping means the shipping form is incomplete
	ErrInvalidShipping = errors.New("recipient name, phone and address are required")
)

// Gateway is the slice of the payment client the orchestrator needs
type Gateway interface {
	IsInitialized() bool
	RequestPayment(req *payment.PaymentRequest) error
}

// EventPublisher emits order lifecycle events. A nil-backed publisher is
// tolerated; publishing is best effort and never blocks the purchase.
type EventPublisher interface {
	Publish(routingKey string, payload interface{}) error
}

// Mailer sends payment result notifications
type Mailer interface {
	SendPaymentConfirmation(to string, o *order.Order) error
	SendPaymentFailure(to string, o *order.Order) error
}

// Service orchestrates the two-phase purchase: PlaceOrder creates the
// pending order and hands off to the gateway, CompletePayment reconciles
// the redirect outcome into a terminal state.
type Service struct {
	carts    *cart.Store
	orders   *order.Repository
	profiles *profile.Service
	gateway  Gateway
	events   EventPublisher
	mailer   Mailer
	config   *config.Config
	logger   *logrus.Logger
}

// NewService creates a new checkout service
func NewService(
	carts *cart.Store,
	orders *order.Repository,
	profiles *profile.Service,
	gateway Gateway,
	events EventPublisher,
	mailer Mailer,
	cfg *config.Config,
	logger *logrus.Logger,
) *Service {
	return &Service{
		carts:    carts,
		orders:   orders,
		profiles: profiles,
		gateway:  gateway,
		events:   events,
		mailer:   mailer,
		config:   cfg,
		logger:   logger,
	}
}

// PlaceOrderRequest carries the shipping form and the chosen payment method
type PlaceOrderRequest struct {
	RecipientName string `json:"recipient_name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Address       string `json:"address" binding:"required"`
	AddressDetail string `json:"address_detail"`
	PostalCode    string `json:"postal_code"`
	Memo          string `json:"memo"`
	PaymentMethod string `json:"payment_method"`
}

// PlaceOrderResult reports the created order and the gateway handoff.
// When RequestErr is set the order exists in pending state but the payment
// attempt never reached the payer.
type PlaceOrderResult struct {
	Order      *order.Order
	PaymentID  string
	RequestErr error
}

// ResolveItems returns the lines this purchase covers. A buy-now record
// takes precedence over the whole cart; it is a single-item purchase that
// leaves the cart untouched until payment succeeds.
func (s *Service) ResolveItems(ctx context.Context, userID string) ([]cart.Line, bool, error) {
	buyNow, err := s.carts.BuyNow(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if buyNow != nil {
		return []cart.Line{*buyNow}, true, nil
	}

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if len(c.Lines) == 0 {
		return nil, false, ErrEmptyCart
	}
	return c.Lines, false, nil
}

// PlaceOrder validates the purchase, snapshots it into a pending order and
// submits the payment request. Order creation and payment submission are
// deliberately not atomic: a gateway failure leaves the pending order behind
// for reconciliation or the abandonment sweep.
func (s *Service) PlaceOrder(ctx context.Context, userID string, req *PlaceOrderRequest) (*PlaceOrderResult, error) {
	if req.RecipientName == "" || req.Phone == "" || req.Address == "" {
		return nil, ErrInvalidShipping
	}

	// No order may exist without a gateway able to collect on it
	if !s.gateway.IsInitialized() {
		return nil, payment.ErrNotInitialized
	}

	lines, _, err := s.ResolveItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	o := buildOrder(userID, lines, req)
	if err := s.orders.Create(o); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": o.ID,
		"user_id":  userID,
		"amount":   o.TotalAmount,
	}).Info("Order created")
	s.publish("order.created", o)

	paymentID := "payment-" + uuid.NewString()
	requestErr := s.gateway.RequestPayment(&payment.PaymentRequest{
		PaymentID:   paymentID,
		OrderName:   o.OrderName,
		TotalAmount: o.TotalAmount,
		Currency:    o.Currency,
		PayMethod:   o.PaymentMethod,
		RedirectURL: s.config.External.PortOne.RedirectURL,
		OrderID:     o.ID,
	})
	if requestErr != nil {
		// The order stays pending; the sweep will abandon it if nobody
		// ever completes the payment.
		s.logger.WithField("order_id", o.ID).
			WithError(requestErr).
			Warn("Payment request failed after order creation")
	}

	return &PlaceOrderResult{Order: o, PaymentID: paymentID, RequestErr: requestErr}, nil
}

// buildOrder snapshots cart lines into an order. Totals are computed once
// here and never again.
func buildOrder(userID string, lines []cart.Line, req *PlaceOrderRequest) *order.Order {
	items := make([]order.OrderItem, 0, len(lines))
	var total int64
	for _, line := range lines {
		lineTotal := line.UnitPrice * int64(line.Quantity)
		total += lineTotal
		items = append(items, order.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		})
	}

	orderName := lines[0].Name
	if len(lines) > 1 {
		orderName = fmt.Sprintf("%s 외 %d건", lines[0].Name, len(lines)-1)
	}

	return &order.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		OrderName:     orderName,
		Status:        order.StatusPending,
		TotalAmount:   total,
		Currency:      "KRW",
		PaymentMethod: payment.TranslateMethod(req.PaymentMethod),
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		Address:       req.Address,
		AddressDetail: req.AddressDetail,
		PostalCode:    req.PostalCode,
		Memo:          req.Memo,
		Items:         items,
	}
}

// CompletionParams are the redirect query parameters handed back by the
// payment gateway. All three arrive as strings; absence is the empty string.
type CompletionParams struct {
	PaymentID string
	Status    string
	OrderID   string
}

// Succeeded reports whether the redirect describes a successful payment
func (p CompletionParams) Succeeded() bool {
	return p.Status == "success" && p.PaymentID != "" && p.OrderID != ""
}

// CompletePayment reconciles a gateway redirect into the order record. The
// operation is idempotent: replaying the same redirect against a terminal
// order changes nothing.
func (s *Service) CompletePayment(ctx context.Context, params CompletionParams) (*order.Order, error) {
	if params.OrderID == "" {
		// Nothing to reconcile against; never guess an order
		return nil, order.ErrNotFound
	}

	o, err := s.orders.GetByID(params.OrderID)
	if err != nil {
		return nil, err
	}

	if params.Succeeded() {
		if o.Status == order.StatusPaid {
			return o, nil
		}

		paidAt := time.Now().UTC()
		if err := s.orders.MarkPaid(o.ID, params.PaymentID, paidAt); err != nil {
			return nil, err
		}
		o.Status = order.StatusPaid
		o.PaymentID = params.PaymentID
		o.PaidAt = &paidAt

		// The order items own the purchase now; both cart records go
		if err := s.carts.ClearAll(ctx, o.UserID); err != nil {
			s.logger.WithField("order_id", o.ID).
				WithError(err).
				Warn("Failed to clear cart after payment")
		}

		s.logger.WithFields(logrus.Fields{
			"order_id":   o.ID,
			"payment_id": params.PaymentID,
			"amount":     o.TotalAmount,
		}).Info("Payment completed")
		s.publish("order.paid", o)
		s.notify(o, true)
		return o, nil
	}

	// Failed or cancelled redirect; the cart survives for another attempt
	if o.IsTerminal() {
		return o, nil
	}
	if err := s.orders.MarkFailed(o.ID); err != nil {
		return nil, err
	}
	o.Status = order.StatusFailed

	s.logger.WithFields(logrus.Fields{
		"order_id": o.ID,
		"status":   params.Status,
	}).Info("Payment failed")
	s.publish("order.failed", o)
	s.notify(o, false)
	return o, nil
}

// orderEvent is the broker payload for order lifecycle events
type orderEvent struct {
	OrderID     string `json:"order_id"`
	UserID      string `json:"user_id"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"total_amount"`
	OrderName   string `json:"order_name"`
}

func (s *Service) publish(routingKey string, o *order.Order) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(routingKey, orderEvent{
		OrderID:     o.ID,
		UserID:      o.UserID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		OrderName:   o.OrderName,
	})
	if err != nil {
		s.logger.WithField("order_id", o.ID).
			WithError(err).
			Warn("Failed to publish order event")
	}
}

func (s *Service) notify(o *order.Order, paid bool) {
	if s.mailer == nil || s.profiles == nil {
		return
	}
	p, err := s.profiles.Get(o.UserID)
	if err != nil || p.Email == "" {
		return
	}

	if paid {
		err = s.mailer.SendPaymentConfirmation(p.Email, o)
	} else {
		err = s.mailer.SendPaymentFailure(p.Email, o)
	}
	if err != nil {
		s.logger.WithField("order_id", o.ID).
			WithError(err).
			Warn("Failed to send payment notification")
	}
}
