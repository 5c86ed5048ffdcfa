// internal/pkg/email/types.go
package email

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypePaymentSuccess EmailType = "payment_success"
	EmailTypePaymentFailed  EmailType = "payment_failed"
)

// Email represents an email message
type Email struct {
	To          []string  `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"html_content"`
	Type        EmailType `json:"type"`
}
