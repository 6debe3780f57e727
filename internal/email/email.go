package email

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
)

// Service sends transactional mail through SendGrid.
type Service struct {
	client *sendgrid.Client
	sender string
}

// NewService reads SENDGRID_API_KEY and EMAIL_SENDER from the environment.
func NewService() (*Service, error) {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY is not set")
	}
	sender := os.Getenv("EMAIL_SENDER")
	if sender == "" {
		sender = "orders@nativesins.com"
	}
	return &Service{
		client: sendgrid.NewSendClient(apiKey),
		sender: sender,
	}, nil
}

// SendOrderConfirmation mails the customer after a successful charge.
func (s *Service) SendOrderConfirmation(toEmail, reference string, grandTotal decimal.Decimal) error {
	from := mail.NewEmail("Native Sins", s.sender)
	to := mail.NewEmail("", toEmail)
	subject := "Order Confirmation"
	plain := fmt.Sprintf("Thank you for your order!\n\nOrder reference: %s\nTotal charged: £%s\n\nWe'll let you know when it's on its way.", reference, grandTotal.StringFixed(2))
	html := fmt.Sprintf("<strong>Thank you for your order!</strong><br><br>Order reference: %s<br>Total charged: <strong>£%s</strong><br><br>We'll let you know when it's on its way.", reference, grandTotal.StringFixed(2))

	response, err := s.client.Send(mail.NewSingleEmail(from, subject, to, plain, html))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected email: %d %s", response.StatusCode, response.Body)
	}
	return nil
}
