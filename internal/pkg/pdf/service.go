// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateReceipt renders a payment receipt for a paid order. Unpaid orders
// have no receipt; callers gate on status before asking for one.
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	if o.Status != order.StatusPaid {
		return nil, fmt.Errorf("receipt is only available for paid orders")
	}

	paidAt := time.Now()
	if o.PaidAt != nil {
		paidAt = *o.PaidAt
	}

	data := ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCP-%s", o.ID),
		IssuedDate:    time.Now().Format("2006-01-02"),
		PaidDate:      paidAt.Format("2006-01-02 15:04"),
		Order:         o,
		Store: StoreInfo{
			Name:  s.config.App.StoreName,
			Email: s.config.App.StoreEmail,
			URL:   s.config.App.BaseURL,
		},
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	err = pdfg.Create()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data ReceiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string       `json:"receipt_number"`
	IssuedDate    string       `json:"issued_date"`
	PaidDate      string       `json:"paid_date"`
	Order         *order.Order `json:"order"`
	Store         StoreInfo    `json:"store"`
}

// StoreInfo represents the issuing store
type StoreInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	URL   string `json:"url"`
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>영수증 {{.ReceiptNumber}}</title>
    <style>
        body {
            font-family: sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .receipt-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .details table {
            width: 100%;
        }
        .details td {
            padding: 5px 0;
            vertical-align: top;
        }
        .details .label {
            font-weight: bold;
            width: 150px;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin: 30px 0;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .qty-col,
        .items-table .price-col,
        .items-table .total-col {
            text-align: right;
            width: 100px;
        }
        .totals {
            float: right;
            width: 300px;
        }
        .totals table {
            width: 100%;
            border-collapse: collapse;
        }
        .totals td {
            padding: 8px;
            border-bottom: 1px solid #eee;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333 !important;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <h1>{{.Store.Name}}</h1>
            <p>{{.Store.Email}}</p>
            <p>{{.Store.URL}}</p>
        </div>
        <div style="text-align: right;">
            <div class="receipt-title">영수증</div>
            <p><strong>영수증 번호:</strong> {{.ReceiptNumber}}</p>
            <p><strong>발행일:</strong> {{.IssuedDate}}</p>
        </div>
    </div>

    <div class="details">
        <table>
            <tr>
                <td class="label">주문명:</td>
                <td>{{.Order.OrderName}}</td>
            </tr>
            <tr>
                <td class="label">주문번호:</td>
                <td>{{.Order.ID}}</td>
            </tr>
            <tr>
                <td class="label">결제일시:</td>
                <td>{{.PaidDate}}</td>
            </tr>
            <tr>
                <td class="label">결제수단:</td>
                <td>{{.Order.PaymentMethod}}</td>
            </tr>
            <tr>
                <td class="label">받는 분:</td>
                <td>{{.Order.RecipientName}} ({{.Order.Phone}})</td>
            </tr>
            <tr>
                <td class="label">배송지:</td>
                <td>{{.Order.Address}} {{.Order.AddressDetail}}</td>
            </tr>
        </table>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>상품명</th>
                <th class="qty-col">수량</th>
                <th class="price-col">단가</th>
                <th class="total-col">금액</th>
            </tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td>{{.Name}}</td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">{{.UnitPrice}}원</td>
                <td class="total-col">{{.LineTotal}}원</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr class="total-row">
                <td>총 결제금액</td>
                <td style="text-align: right;">{{.Order.TotalAmount}}원</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>이용해 주셔서 감사합니다.</p>
        <p>문의: {{.Store.Email}}</p>
    </div>
</body>
</html>
`
