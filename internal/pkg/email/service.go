// internal/pkg/email/service.go
package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// EmailService sends payment result notifications to buyers
type EmailService struct {
	config *config.Config
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{config: cfg}
}

type paymentMailData struct {
	StoreName string
	OrderName string
	OrderID   string
	Amount    int64
	Method    string
	Items     []order.OrderItem
	Succeeded bool
}

// SendPaymentConfirmation sends the order confirmation mail after a
// successful payment.
func (s *EmailService) SendPaymentConfirmation(to string, o *order.Order) error {
	return s.sendPaymentResult(to, o, true)
}

// SendPaymentFailure notifies the buyer that a payment attempt failed
func (s *EmailService) SendPaymentFailure(to string, o *order.Order) error {
	return s.sendPaymentResult(to, o, false)
}

func (s *EmailService) sendPaymentResult(to string, o *order.Order, succeeded bool) error {
	data := paymentMailData{
		StoreName: s.config.App.StoreName,
		OrderName: o.OrderName,
		OrderID:   o.ID,
		Amount:    o.TotalAmount,
		Method:    o.PaymentMethod,
		Items:     o.Items,
		Succeeded: succeeded,
	}

	var buf bytes.Buffer
	if err := paymentResultTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render payment email: %w", err)
	}

	subject := fmt.Sprintf("[%s] 주문이 완료되었습니다: %s", data.StoreName, o.OrderName)
	mailType := EmailTypePaymentSuccess
	if !succeeded {
		subject = fmt.Sprintf("[%s] 결제에 실패했습니다: %s", data.StoreName, o.OrderName)
		mailType = EmailTypePaymentFailed
	}

	return s.sendSMTPEmail(&Email{
		To:          []string{to},
		Subject:     subject,
		HTMLContent: buf.String(),
		Type:        mailType,
	})
}

var paymentResultTemplate = template.Must(template.New("payment_result").Parse(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: sans-serif; color: #333;">
  <h2>{{.StoreName}}</h2>
  {{if .Succeeded}}
  <p>주문이 정상적으로 완료되었습니다.</p>
  {{else}}
  <p>결제가 완료되지 않았습니다. 다시 시도해 주세요.</p>
  {{end}}
  <p><strong>주문명:</strong> {{.OrderName}}</p>
  <p><strong>주문번호:</strong> {{.OrderID}}</p>
  <p><strong>결제수단:</strong> {{.Method}}</p>
  <table style="border-collapse: collapse; width: 100%;">
    <tr>
      <th style="text-align: left; border-bottom: 1px solid #ddd; padding: 8px;">상품</th>
      <th style="text-align: right; border-bottom: 1px solid #ddd; padding: 8px;">수량</th>
      <th style="text-align: right; border-bottom: 1px solid #ddd; padding: 8px;">금액</th>
    </tr>
    {{range .Items}}
    <tr>
      <td style="padding: 8px;">{{.Name}}</td>
      <td style="text-align: right; padding: 8px;">{{.Quantity}}</td>
      <td style="text-align: right; padding: 8px;">{{.LineTotal}}원</td>
    </tr>
    {{end}}
  </table>
  <p style="font-size: 18px;"><strong>총 결제금액: {{.Amount}}원</strong></p>
</body>
</html>
`))
