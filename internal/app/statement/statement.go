package statement

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billingworks/statements/internal/app/dates"
	"github.com/billingworks/statements/internal/app/entity"
	"github.com/billingworks/statements/internal/app/money"
)

// Options control row formatting only; summary figures stay exact decimals
// regardless of how the rows are rendered.
type Options struct {
	DateLocale            string
	IncludeCurrencySymbol bool
}

// Table is one customer's statement: sorted presentation rows plus the
// summary totals derived from the same reconciled set.
type Table struct {
	Rows    []entity.StatementRow  `json:"rows"`
	Summary entity.StatementSummary `json:"summary"`
}

// BuildTable sorts reconciled orders by placement date, projects them into
// presentation rows and computes the summary. Orders without a placement
// date sort as if placed at the epoch so they surface first for
// investigation. Pure and deterministic; safe to call repeatedly.
func BuildTable(reconciled []entity.ReconciledOrder, opts Options) Table {
	sorted := make([]entity.ReconciledOrder, len(reconciled))
	copy(sorted, reconciled)

	sort.SliceStable(sorted, func(i, j int) bool {
		return placedAt(sorted[i]).Before(placedAt(sorted[j]))
	})

	rows := make([]entity.StatementRow, 0, len(sorted))
	grandTotal := decimal.Zero
	pastDueTotal := decimal.Zero

	for i, rec := range sorted {
		rows = append(rows, entity.StatementRow{
			Index:      i + 1,
			OrderID:    rec.OrderID,
			DatePlaced: dates.Format(rec.DatePlaced, opts.DateLocale),
			DueDate:    dates.Format(rec.DatePaymentDue, opts.DateLocale),
			OrderTotal: money.Format(rec.GrandTotal, opts.IncludeCurrencySymbol),
			Payments:   money.Format(rec.PaidAmount, opts.IncludeCurrencySymbol),
			Balance:    money.Format(rec.OutstandingAmount, opts.IncludeCurrencySymbol),
			IsPastDue:  rec.IsPastDue,
		})

		grandTotal = grandTotal.Add(rec.OutstandingAmount)
		if rec.IsPastDue {
			pastDueTotal = pastDueTotal.Add(rec.OutstandingAmount)
		}
	}

	return Table{
		Rows: rows,
		Summary: entity.StatementSummary{
			GrandTotal:   grandTotal,
			PastDueTotal: pastDueTotal,
		},
	}
}

func placedAt(rec entity.ReconciledOrder) time.Time {
	if rec.DatePlaced == nil {
		return time.Time{}
	}
	return *rec.DatePlaced
}
