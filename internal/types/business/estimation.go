package business

import "fmt"

// Estimation statuses. Only approved estimations may be invoiced.
const (
	EstimationStatusDraft    = "draft"
	EstimationStatusSent     = "sent"
	EstimationStatusApproved = "approved"
	EstimationStatusRejected = "rejected"
)

// CostBreakdown is the optional structured extras attached to an estimation.
// It is stored as JSONB alongside the hours-based cost.
type CostBreakdown struct {
	AdditionalItems []AdditionalItem `json:"additionalItems,omitempty"`
}

// AdditionalItem is one extra cost entry in an estimation's breakdown.
// Quantity and unit price are optional in the stored form; TotalCents may be
// supplied explicitly or derived from quantity x unit price.
type AdditionalItem struct {
	Description    string   `json:"description"`
	Quantity       *float64 `json:"quantity,omitempty"`
	UnitPriceCents *int64   `json:"unit_price_cents,omitempty"`
	TotalCents     *int64   `json:"total_cents,omitempty"`
}

// ToLineItem normalizes an additional item into an invoice line item.
// Malformed entries are rejected rather than silently defaulted, so a bad
// breakdown cannot corrupt invoice totals.
func (a AdditionalItem) ToLineItem() (InvoiceLineItem, error) {
	if a.Description == "" {
		return InvoiceLineItem{}, fmt.Errorf("additional item is missing a description")
	}

	quantity := 1.0
	if a.Quantity != nil {
		if *a.Quantity <= 0 {
			return InvoiceLineItem{}, fmt.Errorf("additional item %q has non-positive quantity", a.Description)
		}
		quantity = *a.Quantity
	}

	var unitPrice int64
	switch {
	case a.UnitPriceCents != nil:
		if *a.UnitPriceCents < 0 {
			return InvoiceLineItem{}, fmt.Errorf("additional item %q has negative unit price", a.Description)
		}
		unitPrice = *a.UnitPriceCents
	case a.TotalCents != nil:
		// Back-derive the unit price so the per-item invariant holds.
		if *a.TotalCents < 0 {
			return InvoiceLineItem{}, fmt.Errorf("additional item %q has negative total", a.Description)
		}
		unitPrice = RoundCents(float64(*a.TotalCents) / quantity)
	default:
		return InvoiceLineItem{}, fmt.Errorf("additional item %q has neither unit price nor total", a.Description)
	}

	total := RoundCents(quantity * float64(unitPrice))
	if a.TotalCents != nil && a.UnitPriceCents != nil && *a.TotalCents != total {
		return InvoiceLineItem{}, fmt.Errorf("additional item %q total %d does not match quantity x unit price (%d)",
			a.Description, *a.TotalCents, total)
	}

	return InvoiceLineItem{
		Description:    a.Description,
		Quantity:       quantity,
		UnitPriceCents: unitPrice,
		TotalCents:     total,
	}, nil
}
