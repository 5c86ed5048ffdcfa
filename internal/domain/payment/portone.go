// internal/domain/payment/portone.go
package payment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
)

// ErrNotInitialized is returned when a payment operation runs before the
// gateway session has been established. Callers must treat it as a hard
// abort: no order may be created against an uninitialized gateway.
var ErrNotInitialized = errors.New("payment gateway not initialized")

// Method codes accepted by the gateway
const (
	MethodCard           = "CARD"
	MethodTransfer       = "TRANSFER"
	MethodMobile         = "MOBILE_PHONE"
	MethodVirtualAccount = "VIRTUAL_ACCOUNT"
)

// methodNames maps the storefront's display vocabulary onto gateway method
// codes. Unknown labels fall back to card.
var methodNames = map[string]string{
	"카드":   MethodCard,
	"계좌이체": MethodTransfer,
	"휴대폰":  MethodMobile,
	"무통장":  MethodVirtualAccount,
}

// TranslateMethod converts a display label to a gateway method code
func TranslateMethod(label string) string {
	if code, ok := methodNames[label]; ok {
		return code
	}
	return MethodCard
}

// PortOneClient talks to the PortOne payment API. Initialize must succeed
// once before any payment request; the client holds no mutable state after
// that besides the session flag.
type PortOneClient struct {
	storeCode  string
	apiSecret  string
	baseURL    string
	pgProvider string
	httpClient *http.Client
	logger     *logrus.Logger

	mu          sync.RWMutex
	initialized bool
	accessToken string
}

// NewPortOneClient creates a new PortOne client
func NewPortOneClient(cfg *config.Config, logger *logrus.Logger) *PortOneClient {
	return &PortOneClient{
		storeCode:  cfg.External.PortOne.StoreCode,
		apiSecret:  cfg.External.PortOne.APISecret,
		baseURL:    cfg.External.PortOne.BaseURL,
		pgProvider: cfg.External.PortOne.PGProvider,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Initialize establishes the gateway session by exchanging the API secret
// for an access token. Safe to call repeatedly; later calls refresh the
// token.
func (p *PortOneClient) Initialize() error {
	body, err := p.post("/login/api-secret", map[string]string{
		"apiSecret": p.apiSecret,
	}, false)
	if err != nil {
		return fmt.Errorf("failed to initialize payment gateway: %w", err)
	}

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse gateway login response: %w", err)
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("gateway login returned no access token")
	}

	p.mu.Lock()
	p.accessToken = resp.AccessToken
	p.initialized = true
	p.mu.Unlock()

	p.logger.WithField("store_code", p.storeCode).Info("Payment gateway initialized")
	return nil
}

// IsInitialized reports whether the gateway session is established
func (p *PortOneClient) IsInitialized() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.initialized
}

// PaymentRequest describes one payment attempt against the gateway
type PaymentRequest struct {
	PaymentID   string `json:"paymentId"`
	OrderName   string `json:"orderName"`
	TotalAmount int64  `json:"totalAmount"`
	Currency    string `json:"currency"`
	PayMethod   string `json:"payMethod"`
	RedirectURL string `json:"redirectUrl"`
	OrderID     string `json:"orderId"`
}

// PaymentResult is the gateway's view of one payment
type PaymentResult struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
	PaidAt    string `json:"paidAt"`
}

// RequestPayment submits a payment attempt. The gateway redirects the payer
// back to the completion endpoint; the synchronous return only covers
// submission errors, not payment outcome.
func (p *PortOneClient) RequestPayment(req *PaymentRequest) error {
	if !p.IsInitialized() {
		return ErrNotInitialized
	}
	if req.TotalAmount <= 0 {
		return fmt.Errorf("payment amount must be positive")
	}
	if req.PayMethod == "" {
		req.PayMethod = MethodCard
	}
	if req.Currency == "" {
		req.Currency = "KRW"
	}

	payload := map[string]interface{}{
		"storeId":     p.storeCode,
		"channelKey":  p.pgProvider,
		"paymentId":   req.PaymentID,
		"orderName":   req.OrderName,
		"totalAmount": req.TotalAmount,
		"currency":    req.Currency,
		"payMethod":   req.PayMethod,
		"redirectUrl": req.RedirectURL,
		"customData": map[string]string{
			"orderId": req.OrderID,
		},
	}

	if _, err := p.post("/payments/"+url.PathEscape(req.PaymentID)+"/instant", payload, true); err != nil {
		return fmt.Errorf("payment request rejected: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"payment_id": req.PaymentID,
		"order_id":   req.OrderID,
		"amount":     req.TotalAmount,
		"method":     req.PayMethod,
	}).Info("Payment requested")
	return nil
}

// GetPayment fetches the gateway's record of one payment
func (p *PortOneClient) GetPayment(paymentID string) (*PaymentResult, error) {
	if !p.IsInitialized() {
		return nil, ErrNotInitialized
	}

	body, err := p.get("/payments/" + url.PathEscape(paymentID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}

	var result PaymentResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse payment response: %w", err)
	}
	return &result, nil
}

func (p *PortOneClient) post(endpoint string, data interface{}, authed bool) ([]byte, error) {
	reqBody, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, p.baseURL+endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		p.mu.RLock()
		req.Header.Set("Authorization", "Bearer "+p.accessToken)
		p.mu.RUnlock()
	}

	return p.do(req)
}

func (p *PortOneClient) get(endpoint string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, p.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	p.mu.RLock()
	req.Header.Set("Authorization", "Bearer "+p.accessToken)
	p.mu.RUnlock()

	return p.do(req)
}

func (p *PortOneClient) do(req *http.Request) ([]byte, error) {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	var respBody bytes.Buffer
	if _, err := respBody.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, respBody.String())
	}
	return respBody.Bytes(), nil
}
