package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrdersNormalizesMixedCasePayload(t *testing.T) {
	// PascalCase keys and string amounts, as an XML-derived source sends them.
	body := `[{
		"OrderID": "SO-1001",
		"Username": "ada",
		"Email": "ada@example.com",
		"OrderStatus": "Completed",
		"GrandTotal": "1,500.00",
		"DatePaymentDue": "2023-04-01",
		"DatePlaced": "2023-03-01T09:30:00Z",
		"Payments": [{"Amount": "500.00"}, {"Amount": 300}]
	}]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/ada", r.URL.Path)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	cli := NewOrdersCli(srv.URL, 5)
	resp, err := cli.GetOrders("ada")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, resp.Orders, 1)

	order := resp.Orders[0]
	assert.Equal(t, "SO-1001", order.OrderID)
	require.NotNil(t, order.GrandTotal)
	assert.True(t, order.GrandTotal.Equal(decimal.RequireFromString("1500.00")))
	require.NotNil(t, order.DatePlaced)
	require.NotNil(t, order.DatePaymentDue)
	require.Len(t, order.Payments, 2)
	assert.True(t, order.Payments[0].Amount.Equal(decimal.RequireFromString("500.00")))
	assert.True(t, order.Payments[1].Amount.Equal(decimal.RequireFromString("300")))
}

func TestGetOrdersAbsentAndMalformedFields(t *testing.T) {
	body := `[{
		"orderId": "SO-2",
		"datePlaced": "not a date"
	}]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	cli := NewOrdersCli(srv.URL, 5)
	resp, err := cli.GetOrders("ada")
	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)

	order := resp.Orders[0]
	// Structurally absent total stays nil; the reconciler rejects it later.
	assert.Nil(t, order.GrandTotal)
	assert.Nil(t, order.DatePlaced)
	assert.Nil(t, order.DatePaymentDue)
	assert.Empty(t, order.Payments)
}

func TestGetOrdersNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cli := NewOrdersCli(srv.URL, 5)
	resp, err := cli.GetOrders("ada")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Empty(t, resp.Orders)
}

func TestGetCustomers(t *testing.T) {
	body := `[
		{"username": "ada", "billingAddress": {"firstName": "Ada", "lastName": "Lovelace"}, "accountBalance": "120.00"},
		{"Username": "grace", "BillingAddress": {"Company": "Navy"}, "AccountBalance": 0}
	]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/customers", r.URL.Path)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	cli := NewOrdersCli(srv.URL, 5)
	resp, err := cli.GetCustomers()
	require.NoError(t, err)
	require.Len(t, resp.Customers, 2)

	assert.Equal(t, "Ada", resp.Customers[0].BillingAddress.FirstName)
	assert.True(t, resp.Customers[0].AccountBalance.Equal(decimal.RequireFromString("120.00")))
	assert.Equal(t, "Navy", resp.Customers[1].BillingAddress.Company)
	assert.True(t, resp.Customers[1].AccountBalance.IsZero())
}

func TestGetInvoiceFound(t *testing.T) {
	body := `{"foundCount": 1, "invoices": [{"total": "1500.00", "amountPaid": 800, "amountDue": "700.00"}]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/invoices/SO-1001", r.URL.Path)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	cli := NewLedgerCli(srv.URL, 5)
	resp, err := cli.GetInvoice("SO-1001")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.FoundCount)
	require.NotNil(t, resp.Invoice)
	assert.True(t, resp.Invoice.Total.Equal(decimal.RequireFromString("1500.00")))
	assert.True(t, resp.Invoice.AmountPaid.Equal(decimal.RequireFromString("800")))
	assert.True(t, resp.Invoice.AmountDue.Equal(decimal.RequireFromString("700.00")))
}

func TestGetInvoiceNotFound(t *testing.T) {
	body := `{"foundCount": 0, "invoices": []}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	cli := NewLedgerCli(srv.URL, 5)
	resp, err := cli.GetInvoice("SO-404")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.FoundCount)
	assert.Nil(t, resp.Invoice)
}

func TestGetInvoiceMultipleUsesFirst(t *testing.T) {
	body := `{"foundCount": 2, "invoices": [{"total": "10.00"}, {"total": "99.00"}]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	cli := NewLedgerCli(srv.URL, 5)
	resp, err := cli.GetInvoice("SO-1")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.FoundCount)
	require.NotNil(t, resp.Invoice)
	assert.True(t, resp.Invoice.Total.Equal(decimal.RequireFromString("10.00")))
}
