package customer

import (
	"strings"

	"github.com/billingworks/statements/internal/app/entity"
)

// SelectBillable keeps customers whose account balance is strictly positive.
// Zero balances and credit balances (negative) both drop out: a statement is
// only worth generating when the customer actually owes something.
func SelectBillable(customers []entity.CustomerRecord) []entity.CustomerRecord {
	billable := make([]entity.CustomerRecord, 0, len(customers))
	for _, c := range customers {
		if c.AccountBalance.IsPositive() {
			billable = append(billable, c)
		}
	}
	return billable
}

// DisplayName derives a human-readable name from a billing address:
// "First Last (Company)", falling back to whichever parts are present.
// Whitespace-only parts count as absent. ok is false when nothing usable
// exists.
func DisplayName(addr entity.BillingAddress) (name string, ok bool) {
	first := strings.TrimSpace(addr.FirstName)
	last := strings.TrimSpace(addr.LastName)
	company := strings.TrimSpace(addr.Company)

	parts := make([]string, 0, 2)
	if first != "" {
		parts = append(parts, first)
	}
	if last != "" {
		parts = append(parts, last)
	}
	full := strings.Join(parts, " ")

	switch {
	case full != "" && company != "":
		return full + " (" + company + ")", true
	case full != "":
		return full, true
	case company != "":
		return company, true
	default:
		return "", false
	}
}
