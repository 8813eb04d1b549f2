package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"plain string", "1500.00", "1500"},
		{"grouped string", "1,500.25", "1500.25"},
		{"symbol prefix", "$750.50", "750.5"},
		{"negative", "-50.00", "-50"},
		{"negative with symbol", "-$50.00", "-50"},
		{"float", 99.99, "99.99"},
		{"int", 42, "42"},
		{"json number", json.Number("10.05"), "10.05"},
		{"decimal passthrough", decimal.RequireFromString("7.77"), "7.77"},
		{"nil", nil, "0"},
		{"empty string", "", "0"},
		{"garbage", "not a number", "0"},
		{"bool", true, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		symbol bool
		want   string
	}{
		{"two fraction digits", "5", false, "5.00"},
		{"thousands separator", "1500", false, "1,500.00"},
		{"large amount", "1234567.89", false, "1,234,567.89"},
		{"with symbol", "1500", true, "$1,500.00"},
		{"negative", "-1234.5", false, "-1,234.50"},
		{"negative with symbol", "-1234.5", true, "-$1,234.50"},
		{"zero", "0", false, "0.00"},
		{"zero with symbol", "0", true, "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(decimal.RequireFromString(tt.in), tt.symbol)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatPtrAbsence(t *testing.T) {
	assert.Equal(t, "0.00", FormatPtr(nil, false))
	assert.Equal(t, "$0.00", FormatPtr(nil, true))

	v := decimal.RequireFromString("12.5")
	assert.Equal(t, "12.50", FormatPtr(&v, false))
}
