package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billingworks/statements/internal/app/client"
	"github.com/billingworks/statements/internal/app/entity"
	"github.com/billingworks/statements/internal/app/storage"
)

type fakeRepo struct {
	snapshots map[string]storage.StatementSnapshot
	synced    []string
}

func (f *fakeRepo) CreateUser(login, passwordHash string) (string, error) { return "1", nil }
func (f *fakeRepo) AuthUser(login, passwordHash string) (string, error)  { return "1", nil }
func (f *fakeRepo) SyncStatement(username string) {
	f.synced = append(f.synced, username)
}
func (f *fakeRepo) GetStatement(username string) (storage.StatementSnapshot, error) {
	s, ok := f.snapshots[username]
	if !ok {
		return storage.StatementSnapshot{}, storage.ErrNoStatement
	}
	return s, nil
}
func (f *fakeRepo) Close() {}

type fakeOrdersClient struct {
	customers []entity.CustomerRecord
}

func (f *fakeOrdersClient) GetOrders(username string) (client.OrdersResponse, error) {
	return client.OrdersResponse{StatusCode: http.StatusOK}, nil
}
func (f *fakeOrdersClient) GetCustomers() (client.CustomersResponse, error) {
	return client.CustomersResponse{StatusCode: http.StatusOK, Customers: f.customers}, nil
}

func sessionCookie(t *testing.T, h *BaseHandler) *http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/user/login",
		strings.NewReader(`{"login":"ops","password":"secret"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func TestStatementEndpointsRequireAuth(t *testing.T) {
	h := NewBaseHandler(&fakeRepo{}, &fakeOrdersClient{}, "test-key")

	req := httptest.NewRequest(http.MethodGet, "/api/statements/ada", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSyncStatementEnqueues(t *testing.T) {
	repo := &fakeRepo{}
	h := NewBaseHandler(repo, &fakeOrdersClient{}, "test-key")
	cookie := sessionCookie(t, h)

	req := httptest.NewRequest(http.MethodPost, "/api/statements/ada", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"ada"}, repo.synced)
}

func TestGetStatementNoSnapshot(t *testing.T) {
	h := NewBaseHandler(&fakeRepo{}, &fakeOrdersClient{}, "test-key")
	cookie := sessionCookie(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/ada", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGetStatementServesLatestSnapshot(t *testing.T) {
	repo := &fakeRepo{
		snapshots: map[string]storage.StatementSnapshot{
			"ada": {
				Run: storage.StatementRun{
					RunID:        "run-1",
					Username:     "ada",
					GrandTotal:   decimal.RequireFromString("950.00"),
					PastDueTotal: decimal.RequireFromString("700.00"),
				},
				Rows: []entity.StatementRow{
					{Index: 1, OrderID: "SO-1", Balance: "700.00", IsPastDue: true},
					{Index: 2, OrderID: "SO-2", Balance: "250.00"},
				},
			},
		},
	}
	h := NewBaseHandler(repo, &fakeOrdersClient{}, "test-key")
	cookie := sessionCookie(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/ada", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var snapshot storage.StatementSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, "ada", snapshot.Run.Username)
	require.Len(t, snapshot.Rows, 2)
	assert.True(t, snapshot.Rows[0].IsPastDue)
}

func TestBillableCustomers(t *testing.T) {
	oc := &fakeOrdersClient{
		customers: []entity.CustomerRecord{
			{Username: "zero", AccountBalance: decimal.Zero},
			{
				Username:       "ada",
				BillingAddress: entity.BillingAddress{FirstName: "Ada", LastName: "Lovelace"},
				AccountBalance: decimal.RequireFromString("120.00"),
			},
		},
	}
	h := NewBaseHandler(&fakeRepo{}, oc, "test-key")
	cookie := sessionCookie(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/customers/billable", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var out []BillableCustomer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "ada", out[0].Username)
	assert.Equal(t, "Ada Lovelace", out[0].DisplayName)
}
