package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentEntry is one payment transaction recorded against an order.
type PaymentEntry struct {
	Amount decimal.Decimal `json:"amount"`
}

// OrderRecord is the orders-system view of a single order. Optional fields
// are pointers so absence stays distinguishable from a zero value.
type OrderRecord struct {
	OrderID        string           `json:"orderId"`
	Username       string           `json:"username"`
	Email          string           `json:"email"`
	OrderStatus    string           `json:"orderStatus"`
	GrandTotal     *decimal.Decimal `json:"grandTotal"`
	DatePaymentDue *time.Time       `json:"datePaymentDue"`
	DatePlaced     *time.Time       `json:"datePlaced"`
	Payments       []PaymentEntry   `json:"payments"`
}

// LedgerInvoiceRecord holds the ledger system's independently computed
// figures for one order. Used for cross-validation only.
type LedgerInvoiceRecord struct {
	Total      decimal.Decimal `json:"total"`
	AmountPaid decimal.Decimal `json:"amountPaid"`
	AmountDue  decimal.Decimal `json:"amountDue"`
}

const (
	MismatchFieldTotal       = "total"
	MismatchFieldPaidAmount  = "paidAmount"
	MismatchFieldOutstanding = "outstandingAmount"
)

// MismatchInfo records one field-level disagreement between the orders
// system and the ledger system beyond tolerance.
type MismatchInfo struct {
	Field             string          `json:"field"`
	OrderSystemValue  decimal.Decimal `json:"orderSystemValue"`
	LedgerSystemValue decimal.Decimal `json:"ledgerSystemValue"`
	Delta             decimal.Decimal `json:"delta"`
}

// ReconciledOrder is the canonical per-order balance derived from an
// OrderRecord and an optional LedgerInvoiceRecord. Immutable once produced.
type ReconciledOrder struct {
	OrderID           string          `json:"orderId"`
	DatePlaced        *time.Time      `json:"datePlaced"`
	DatePaymentDue    *time.Time      `json:"datePaymentDue"`
	GrandTotal        decimal.Decimal `json:"grandTotal"`
	Payments          []PaymentEntry  `json:"payments"`
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	OutstandingAmount decimal.Decimal `json:"outstandingAmount"`
	IsPastDue         bool            `json:"isPastDue"`
	Mismatches        []MismatchInfo  `json:"mismatches,omitempty"`
}

// StatementRow is the presentation-ready projection of a ReconciledOrder.
// Amounts and dates are pre-formatted strings; the exact decimals stay on
// the ReconciledOrder.
type StatementRow struct {
	Index      int    `json:"index" db:"row_index"`
	OrderID    string `json:"orderId" db:"order_id"`
	DatePlaced string `json:"datePlaced" db:"date_placed"`
	DueDate    string `json:"dueDate" db:"due_date"`
	OrderTotal string `json:"orderTotal" db:"order_total"`
	Payments   string `json:"payments" db:"payments"`
	Balance    string `json:"balance" db:"balance"`
	IsPastDue  bool   `json:"isPastDue" db:"is_past_due"`
}

// StatementSummary aggregates one customer's reconciled orders.
type StatementSummary struct {
	GrandTotal   decimal.Decimal `json:"grandTotal"`
	PastDueTotal decimal.Decimal `json:"pastDueTotal"`
}

type BillingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
}

type CustomerRecord struct {
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	BillingAddress BillingAddress  `json:"billingAddress"`
	AccountBalance decimal.Decimal `json:"accountBalance"`
}
