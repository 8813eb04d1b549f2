package client

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/billingworks/statements/internal/app/dates"
	"github.com/billingworks/statements/internal/app/entity"
	"github.com/billingworks/statements/internal/app/money"
)

const (
	ordersQuery    = "/api/orders/"
	customersQuery = "/api/customers"
	invoicesQuery  = "/api/invoices/"
)

// Raw upstream shapes. Amounts arrive as strings or numbers depending on
// the source (XML-derived payloads use PascalCase keys, JSON ones camelCase;
// encoding/json matches keys case-insensitively, which covers both). They
// are normalized here so the engine's input contract stays fixed.
type rawPayment struct {
	Amount interface{} `json:"amount"`
}

type rawOrder struct {
	OrderID        string       `json:"orderId"`
	Username       string       `json:"username"`
	Email          string       `json:"email"`
	OrderStatus    string       `json:"orderStatus"`
	GrandTotal     interface{}  `json:"grandTotal"`
	DatePaymentDue string       `json:"datePaymentDue"`
	DatePlaced     string       `json:"datePlaced"`
	Payments       []rawPayment `json:"payments"`
}

type rawBillingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
}

type rawCustomer struct {
	Username       string            `json:"username"`
	Email          string            `json:"email"`
	BillingAddress rawBillingAddress `json:"billingAddress"`
	AccountBalance interface{}       `json:"accountBalance"`
}

type rawInvoice struct {
	Total      interface{} `json:"total"`
	AmountPaid interface{} `json:"amountPaid"`
	AmountDue  interface{} `json:"amountDue"`
}

type rawInvoiceList struct {
	FoundCount int          `json:"foundCount"`
	Invoices   []rawInvoice `json:"invoices"`
}

type OrdersResponse struct {
	StatusCode int
	Orders     []entity.OrderRecord
}

type CustomersResponse struct {
	StatusCode int
	Customers  []entity.CustomerRecord
}

// LedgerResponse carries zero or one invoice. FoundCount reports how many
// the ledger system actually returned; when it exceeds one the first is
// used and the caller sees the count.
type LedgerResponse struct {
	StatusCode int
	FoundCount int
	Invoice    *entity.LedgerInvoiceRecord
}

type OrdersClient interface {
	GetOrders(username string) (OrdersResponse, error)
	GetCustomers() (CustomersResponse, error)
}

type LedgerClient interface {
	GetInvoice(orderRef string) (LedgerResponse, error)
}

type ordersCli struct {
	host       string
	httpClient *http.Client
}

func NewOrdersCli(host string, timeout int) OrdersClient {
	return &ordersCli{
		host:       host,
		httpClient: &http.Client{Timeout: time.Duration(timeout * int(time.Second))},
	}
}

func (c *ordersCli) GetOrders(username string) (OrdersResponse, error) {
	var ordersResp OrdersResponse
	res, err := c.httpClient.Get(c.host + ordersQuery + username)
	if err != nil {
		return ordersResp, err
	}
	defer res.Body.Close()

	ordersResp.StatusCode = res.StatusCode
	if res.StatusCode == http.StatusOK {
		body, err := ioutil.ReadAll(res.Body)
		if err != nil {
			return ordersResp, err
		}
		var raws []rawOrder
		if err = json.Unmarshal(body, &raws); err != nil {
			return ordersResp, err
		}
		for _, r := range raws {
			ordersResp.Orders = append(ordersResp.Orders, normalizeOrder(r))
		}
	}
	return ordersResp, nil
}

func (c *ordersCli) GetCustomers() (CustomersResponse, error) {
	var customersResp CustomersResponse
	res, err := c.httpClient.Get(c.host + customersQuery)
	if err != nil {
		return customersResp, err
	}
	defer res.Body.Close()

	customersResp.StatusCode = res.StatusCode
	if res.StatusCode == http.StatusOK {
		body, err := ioutil.ReadAll(res.Body)
		if err != nil {
			return customersResp, err
		}
		var raws []rawCustomer
		if err = json.Unmarshal(body, &raws); err != nil {
			return customersResp, err
		}
		for _, r := range raws {
			customersResp.Customers = append(customersResp.Customers, entity.CustomerRecord{
				Username: r.Username,
				Email:    r.Email,
				BillingAddress: entity.BillingAddress{
					FirstName: r.BillingAddress.FirstName,
					LastName:  r.BillingAddress.LastName,
					Company:   r.BillingAddress.Company,
				},
				AccountBalance: money.Parse(r.AccountBalance),
			})
		}
	}
	return customersResp, nil
}

func normalizeOrder(r rawOrder) entity.OrderRecord {
	order := entity.OrderRecord{
		OrderID:        r.OrderID,
		Username:       r.Username,
		Email:          r.Email,
		OrderStatus:    r.OrderStatus,
		DatePaymentDue: dates.ParseISO(r.DatePaymentDue),
		DatePlaced:     dates.ParseISO(r.DatePlaced),
	}

	// A grand total that is present but malformed parses to zero; only a
	// structurally absent field stays nil.
	if r.GrandTotal != nil {
		total := money.Parse(r.GrandTotal)
		order.GrandTotal = &total
	}

	for _, p := range r.Payments {
		order.Payments = append(order.Payments, entity.PaymentEntry{Amount: money.Parse(p.Amount)})
	}
	return order
}

type ledgerCli struct {
	host       string
	httpClient *http.Client
}

func NewLedgerCli(host string, timeout int) LedgerClient {
	return &ledgerCli{
		host:       host,
		httpClient: &http.Client{Timeout: time.Duration(timeout * int(time.Second))},
	}
}

func (c *ledgerCli) GetInvoice(orderRef string) (LedgerResponse, error) {
	var ledgerResp LedgerResponse
	res, err := c.httpClient.Get(c.host + invoicesQuery + orderRef)
	if err != nil {
		return ledgerResp, err
	}
	defer res.Body.Close()

	ledgerResp.StatusCode = res.StatusCode
	if res.StatusCode == http.StatusOK {
		body, err := ioutil.ReadAll(res.Body)
		if err != nil {
			return ledgerResp, err
		}
		var raw rawInvoiceList
		if err = json.Unmarshal(body, &raw); err != nil {
			return ledgerResp, err
		}
		ledgerResp.FoundCount = raw.FoundCount
		if raw.FoundCount > 0 && len(raw.Invoices) > 0 {
			inv := raw.Invoices[0]
			ledgerResp.Invoice = &entity.LedgerInvoiceRecord{
				Total:      money.Parse(inv.Total),
				AmountPaid: money.Parse(inv.AmountPaid),
				AmountDue:  money.Parse(inv.AmountDue),
			}
		}
	}
	return ledgerResp, nil
}
