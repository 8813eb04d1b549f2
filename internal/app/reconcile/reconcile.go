package reconcile

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billingworks/statements/internal/app/dates"
	"github.com/billingworks/statements/internal/app/entity"
)

var ErrInvalidInput = errors.New("order is missing a required identifier or amount")

// DefaultTolerance absorbs one minor currency unit of rounding drift
// between the two systems.
var DefaultTolerance = decimal.NewFromFloat(0.01)

// Reconciler derives canonical per-order balances and cross-validates them
// against the ledger system's figures. The tolerance is injected so tenants
// with different currencies never share a hidden constant.
type Reconciler struct {
	tolerance decimal.Decimal
}

func NewReconciler(tolerance decimal.Decimal) *Reconciler {
	if tolerance.LessThanOrEqual(decimal.Zero) {
		tolerance = DefaultTolerance
	}
	return &Reconciler{tolerance: tolerance}
}

// Reconcile computes an order's paid and outstanding amounts, classifies it
// against the supplied now, and attaches advisory mismatch records when a
// ledger invoice disagrees beyond tolerance. Pure function of its inputs.
//
// A nil ledgerInvoice is valid: orders unknown to the ledger system carry no
// mismatch data. Overpayment yields a negative outstanding amount and is
// surfaced, never clamped.
func (r *Reconciler) Reconcile(order entity.OrderRecord, ledgerInvoice *entity.LedgerInvoiceRecord, now time.Time) (entity.ReconciledOrder, error) {
	if order.OrderID == "" || order.GrandTotal == nil {
		return entity.ReconciledOrder{}, fmt.Errorf("order %q: %w", order.OrderID, ErrInvalidInput)
	}

	paid := decimal.Zero
	for _, p := range order.Payments {
		paid = paid.Add(p.Amount)
	}

	grandTotal := *order.GrandTotal
	outstanding := grandTotal.Sub(paid)

	rec := entity.ReconciledOrder{
		OrderID:           order.OrderID,
		DatePlaced:        order.DatePlaced,
		DatePaymentDue:    order.DatePaymentDue,
		GrandTotal:        grandTotal,
		Payments:          order.Payments,
		PaidAmount:        paid,
		OutstandingAmount: outstanding,
		IsPastDue:         outstanding.IsPositive() && dates.PastDue(order.DatePaymentDue, now),
	}

	if ledgerInvoice != nil {
		rec.Mismatches = r.compare(rec, *ledgerInvoice)
	}

	return rec, nil
}

// compare checks each figure independently; several fields may disagree at
// once and every one gets its own record.
func (r *Reconciler) compare(rec entity.ReconciledOrder, inv entity.LedgerInvoiceRecord) []entity.MismatchInfo {
	var mismatches []entity.MismatchInfo

	pairs := []struct {
		field  string
		ours   decimal.Decimal
		theirs decimal.Decimal
	}{
		{entity.MismatchFieldTotal, rec.GrandTotal, inv.Total},
		{entity.MismatchFieldPaidAmount, rec.PaidAmount, inv.AmountPaid},
		{entity.MismatchFieldOutstanding, rec.OutstandingAmount, inv.AmountDue},
	}

	for _, p := range pairs {
		delta := p.ours.Sub(p.theirs).Abs()
		if delta.GreaterThan(r.tolerance) {
			mismatches = append(mismatches, entity.MismatchInfo{
				Field:             p.field,
				OrderSystemValue:  p.ours,
				LedgerSystemValue: p.theirs,
				Delta:             delta,
			})
		}
	}

	return mismatches
}

// SkippedOrder records a single order that failed reconciliation inside an
// otherwise successful batch.
type SkippedOrder struct {
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

// SyncResult is the outcome of a batch reconciliation pass.
type SyncResult struct {
	Success    bool                     `json:"success"`
	Reconciled []entity.ReconciledOrder `json:"reconciled"`
	Skipped    []SkippedOrder           `json:"skipped,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

// SynchronizeStatement reconciles a batch of orders against their ledger
// invoices. Invoices correlate with orders by position; the matching key
// that produced that ordering is the caller's concern. A nil invoice slice
// means no ledger data at all; a non-nil slice must match the order count.
//
// Success is false only for structural violations. Orders that individually
// fail validation are reported in Skipped and do not poison the batch.
func (r *Reconciler) SynchronizeStatement(orders []entity.OrderRecord, ledgerInvoices []*entity.LedgerInvoiceRecord, now time.Time) SyncResult {
	if len(orders) == 0 {
		return SyncResult{Error: "no orders supplied"}
	}
	if ledgerInvoices != nil && len(ledgerInvoices) != len(orders) {
		return SyncResult{Error: fmt.Sprintf("ledger invoice count %d does not match order count %d", len(ledgerInvoices), len(orders))}
	}

	result := SyncResult{
		Success:    true,
		Reconciled: make([]entity.ReconciledOrder, 0, len(orders)),
	}

	for i, order := range orders {
		var inv *entity.LedgerInvoiceRecord
		if ledgerInvoices != nil {
			inv = ledgerInvoices[i]
		}

		rec, err := r.Reconcile(order, inv, now)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedOrder{OrderID: order.OrderID, Reason: err.Error()})
			continue
		}
		result.Reconciled = append(result.Reconciled, rec)
	}

	return result
}
