package services

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// EmailSender delivers billing notifications. Implementations must be safe to
// call after the triggering write has committed; failures are logged by
// callers, never propagated into the billing flow.
type EmailSender interface {
	SendInvoiceIssued(ctx context.Context, params InvoiceEmailParams) error
	SendPaymentReceived(ctx context.Context, params InvoiceEmailParams) error
}

// InvoiceEmailParams carries the fields the notification templates render.
type InvoiceEmailParams struct {
	To            string
	ClientName    string
	InvoiceNumber string
	AmountCents   int64
	DueDate       time.Time
}

// EmailService sends notifications through Resend.
type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	logger   *zap.Logger
}

// NewEmailService creates a Resend-backed sender. from is the verified sender
// address, fromName the display name.
func NewEmailService(apiKey, from, fromName string, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:   resend.NewClient(apiKey),
		from:     from,
		fromName: fromName,
		logger:   logger,
	}
}

func (s *EmailService) SendInvoiceIssued(ctx context.Context, params InvoiceEmailParams) error {
	subject := fmt.Sprintf("Invoice %s", params.InvoiceNumber)
	html := fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Your invoice <strong>%s</strong> for <strong>%s</strong> is ready.</p>
<p>Payment is due by %s.</p>`,
		params.ClientName,
		params.InvoiceNumber,
		formatCents(params.AmountCents),
		params.DueDate.Format("January 2, 2006"),
	)
	return s.send(ctx, params.To, subject, html)
}

func (s *EmailService) SendPaymentReceived(ctx context.Context, params InvoiceEmailParams) error {
	subject := fmt.Sprintf("Payment received for invoice %s", params.InvoiceNumber)
	html := fmt.Sprintf(
		`<p>Hi %s,</p>
<p>We received your payment of <strong>%s</strong> for invoice <strong>%s</strong>. Thank you!</p>`,
		params.ClientName,
		formatCents(params.AmountCents),
		params.InvoiceNumber,
	)
	return s.send(ctx, params.To, subject, html)
}

func (s *EmailService) send(ctx context.Context, to, subject, html string) error {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.fromName, s.from),
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debug("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("email_id", sent.Id))
	return nil
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// NoopEmailSender is used when no email provider is configured.
type NoopEmailSender struct{}

func (NoopEmailSender) SendInvoiceIssued(ctx context.Context, params InvoiceEmailParams) error {
	return nil
}

func (NoopEmailSender) SendPaymentReceived(ctx context.Context, params InvoiceEmailParams) error {
	return nil
}
