package email

import (
	"context"
	"fmt"
	"html"

	"github.com/hypernova-labs/agency-functions/internal/config"
	"github.com/hypernova-labs/agency-functions/internal/models"
	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

// ResendService maneja el envío de correos electrónicos usando Resend API
type ResendService struct {
	client    *resend.Client
	fromEmail string
	company   config.CompanyConfig
	logger    *logrus.Logger
}

// NewResendService crea una nueva instancia de ResendService
func NewResendService(cfg config.EmailConfig, company config.CompanyConfig, logger *logrus.Logger) *ResendService {
	return &ResendService{
		client:    resend.NewClient(cfg.ResendAPIKey),
		fromEmail: cfg.FromAddress,
		company:   company,
		logger:    logger,
	}
}

// SendInvoicePDF envía la factura como adjunto PDF
func (s *ResendService) SendInvoicePDF(ctx context.Context, msg models.InvoiceEmail) error {
	if msg.To == "" {
		return fmt.Errorf("customer has no email address")
	}

	subject := fmt.Sprintf("Invoice %s from %s", msg.InvoiceNumber, s.company.Name)

	request := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.company.Name, s.fromEmail),
		To:      []string{msg.To},
		Subject: subject,
		Html:    s.invoiceBody(msg),
		Attachments: []*resend.Attachment{
			{
				Content:     msg.PDF,
				Filename:    msg.FileName,
				ContentType: "application/pdf",
			},
		},
	}

	result, err := s.client.Emails.SendWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("error sending email via Resend: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"email_id":       result.Id,
		"to":             msg.To,
		"invoice_number": msg.InvoiceNumber,
	}).Info("Invoice email sent successfully via Resend")

	return nil
}

// invoiceBody arma el HTML del correo; los textos del cliente se escapan
func (s *ResendService) invoiceBody(msg models.InvoiceEmail) string {
	due := ""
	if msg.DueDate != nil && msg.BalanceDue > 0 {
		due = fmt.Sprintf("<p>Payment is due by <strong>%s</strong>.</p>", msg.DueDate.Format("Jan 2, 2006"))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice %[1]s</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #212529; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: %[2]s; color: #ffffff; padding: 20px; border-radius: 8px; }
        .total { font-size: 18px; font-weight: bold; }
        .footer { margin-top: 30px; font-size: 13px; color: #6c757d; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>%[3]s</h1>
            <p>Invoice %[1]s</p>
        </div>
        <p>Hello %[4]s,</p>
        <p>Your invoice is attached to this email as a PDF.</p>
        <p>Total: <span class="total">$%.2[5]f</span><br>Balance due: <span class="total">$%.2[6]f</span></p>
        %[7]s
        <div class="footer">
            <p>Questions about this invoice? Reply to this email or write to %[8]s.</p>
        </div>
    </div>
</body>
</html>`,
		html.EscapeString(msg.InvoiceNumber),
		html.EscapeString(s.company.BrandColor),
		html.EscapeString(s.company.Name),
		html.EscapeString(msg.CustomerName),
		msg.TotalAmount,
		msg.BalanceDue,
		due,
		html.EscapeString(s.company.Email),
	)
}
