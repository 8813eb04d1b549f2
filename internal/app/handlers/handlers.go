package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"

	"github.com/billingworks/statements/internal/app/customer"
	"github.com/billingworks/statements/internal/app/entity"
	"github.com/billingworks/statements/internal/app/logger"
	"github.com/billingworks/statements/internal/app/storage"
)

const invalidCredentials = "Invalid credentials"

type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// BillableCustomer is a CustomerRecord plus the display name derived from
// its billing address.
type BillableCustomer struct {
	entity.CustomerRecord
	DisplayName string `json:"displayName,omitempty"`
}

func getPasswordHash(password string) string {
	h := sha256.New()
	h.Write([]byte(password))
	hash := h.Sum(nil)
	passwordHash := hex.EncodeToString(hash)
	return passwordHash
}

func createSession(userID string, secretKey string) string {
	userIDBytes := []byte(userID)

	key := sha256.Sum256([]byte(secretKey))
	h := hmac.New(sha256.New, key[:])
	h.Write(userIDBytes)
	dst := h.Sum(nil)

	sessionBytes := append(userIDBytes[:], dst[:]...)
	session := hex.EncodeToString(sessionBytes)

	return session
}

func (bh *BaseHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var creds Credentials
		if err := json.NewDecoder(req.Body).Decode(&creds); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			logger.Logger.Err(err).Msg("")
			return
		}

		passwordHash := getPasswordHash(creds.Password)

		_, err := bh.repo.CreateUser(creds.Login, passwordHash)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
				http.Error(w, "Login already in use", http.StatusConflict)
				logger.Logger.Err(err).Msg("")
				return
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			logger.Logger.Err(err).Msg("")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}
}

func (bh *BaseHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var creds Credentials
		if err := json.NewDecoder(req.Body).Decode(&creds); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			logger.Logger.Err(err).Msg("")
			return
		}

		passwordHash := getPasswordHash(creds.Password)

		userID, err := bh.repo.AuthUser(creds.Login, passwordHash)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, invalidCredentials, http.StatusUnauthorized)
				logger.Logger.Err(err).Msg("")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			logger.Logger.Err(err).Msg("")
			return
		}

		session := createSession(userID, bh.secretKey)

		cookie := &http.Cookie{
			Name:  cookieName,
			Value: session,
			Path:  cookiePath,
		}
		http.SetCookie(w, cookie)

		w.WriteHeader(http.StatusOK)
	}
}

func (bh *BaseHandler) syncStatement() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		username := chi.URLParam(req, "username")
		if username == "" {
			http.Error(w, "Username required", http.StatusBadRequest)
			return
		}

		bh.repo.SyncStatement(username)
		w.WriteHeader(http.StatusAccepted)
	}
}

func (bh *BaseHandler) getStatement() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		username := chi.URLParam(req, "username")
		if username == "" {
			http.Error(w, "Username required", http.StatusBadRequest)
			return
		}

		snapshot, err := bh.repo.GetStatement(username)
		if err != nil {
			if errors.Is(err, storage.ErrNoStatement) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			logger.Logger.Err(err).Msg("")
			return
		}

		var buf bytes.Buffer
		json.NewEncoder(&buf).Encode(snapshot)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}

func (bh *BaseHandler) billableCustomers() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		customersResp, err := bh.ordersClient.GetCustomers()
		if err != nil {
			http.Error(w, "Orders system unavailable", http.StatusBadGateway)
			logger.Logger.Err(err).Msg("")
			return
		}
		if customersResp.StatusCode != http.StatusOK {
			http.Error(w, "Orders system refused request", http.StatusBadGateway)
			logger.Logger.Warn().Int("status", customersResp.StatusCode).Msg("customer listing refused")
			return
		}

		billable := customer.SelectBillable(customersResp.Customers)

		out := make([]BillableCustomer, 0, len(billable))
		for _, c := range billable {
			bc := BillableCustomer{CustomerRecord: c}
			if name, ok := customer.DisplayName(c.BillingAddress); ok {
				bc.DisplayName = name
			}
			out = append(out, bc)
		}

		var buf bytes.Buffer
		json.NewEncoder(&buf).Encode(out)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}
