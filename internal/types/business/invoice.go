package business

import (
	"fmt"
	"math"
)

// Invoice statuses. An invoice is created unpaid, moves to sent once a
// checkout session exists, and to paid when the gateway confirms a payment
// covering the full amount. A full refund moves it back to unpaid.
const (
	InvoiceStatusDraft         = "draft"
	InvoiceStatusUnpaid        = "unpaid"
	InvoiceStatusSent          = "sent"
	InvoiceStatusPaid          = "paid"
	InvoiceStatusPartiallyPaid = "partially_paid"
	InvoiceStatusOverdue       = "overdue"
	InvoiceStatusCancelled     = "cancelled"
)

// ValidInvoiceStatuses lists every status an invoice may carry.
var ValidInvoiceStatuses = map[string]bool{
	InvoiceStatusDraft:         true,
	InvoiceStatusUnpaid:        true,
	InvoiceStatusSent:          true,
	InvoiceStatusPaid:          true,
	InvoiceStatusPartiallyPaid: true,
	InvoiceStatusOverdue:       true,
	InvoiceStatusCancelled:     true,
}

// InvoiceLineItem is a single line on an invoice. Amounts are integer cents.
type InvoiceLineItem struct {
	Description    string  `json:"description"`
	Quantity       float64 `json:"quantity"`
	UnitPriceCents int64   `json:"unit_price_cents"`
	TotalCents     int64   `json:"total_cents"`
}

// Validate checks the internal consistency of a line item. The stored total
// must match quantity times unit price to the cent.
func (li InvoiceLineItem) Validate() error {
	if li.Description == "" {
		return fmt.Errorf("line item description is required")
	}
	if li.Quantity <= 0 {
		return fmt.Errorf("line item quantity must be positive, got %v", li.Quantity)
	}
	if li.UnitPriceCents < 0 {
		return fmt.Errorf("line item unit price must not be negative, got %d", li.UnitPriceCents)
	}
	if expected := RoundCents(li.Quantity * float64(li.UnitPriceCents)); expected != li.TotalCents {
		return fmt.Errorf("line item total %d does not match quantity x unit price (%d)", li.TotalCents, expected)
	}
	return nil
}

// ValidateLineItems validates every item in an invoice line item list.
func ValidateLineItems(items []InvoiceLineItem) error {
	if len(items) == 0 {
		return fmt.Errorf("invoice requires at least one line item")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("line item %d: %w", i, err)
		}
	}
	return nil
}

// SumLineItems returns the sum of line item totals in cents.
func SumLineItems(items []InvoiceLineItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.TotalCents
	}
	return sum
}

// RoundCents rounds a fractional cent amount to the nearest whole cent.
func RoundCents(v float64) int64 {
	return int64(math.Round(v))
}

// TaxAmountCents computes the tax on a subtotal for a fractional rate
// (e.g. 0.19), rounded to the nearest cent.
func TaxAmountCents(subtotalCents int64, taxRate float64) int64 {
	return RoundCents(float64(subtotalCents) * taxRate)
}

// DefaultTaxRate applies when an estimation carries no explicit rate.
const DefaultTaxRate = 0.19

// DefaultPaymentTermDays is the issue-to-due window for new invoices.
const DefaultPaymentTermDays = 30

// ClientSnapshot is the client identity captured on an invoice at creation
// time. Snapshotting keeps historical invoices stable when the client record
// changes later.
type ClientSnapshot struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}
