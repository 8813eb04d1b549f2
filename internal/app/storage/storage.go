package storage

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billingworks/statements/internal/app/entity"
)

var ErrNoStatement = errors.New("no statement snapshot for user")

// StatementRun is one persisted reconciliation pass for a customer.
type StatementRun struct {
	RunID        string          `json:"runId" db:"run_id"`
	Username     string          `json:"username" db:"username"`
	GrandTotal   decimal.Decimal `json:"grandTotal" db:"grand_total"`
	PastDueTotal decimal.Decimal `json:"pastDueTotal" db:"past_due_total"`
	SyncedAt     time.Time       `json:"syncedAt" db:"synced_at"`
}

// StatementSnapshot is a run together with its row projection, served back
// to renderers exactly as persisted.
type StatementSnapshot struct {
	Run  StatementRun          `json:"run"`
	Rows []entity.StatementRow `json:"rows"`
}

type Repository interface {
	CreateUser(login string, passwordHash string) (string, error)
	AuthUser(login string, passwordHash string) (string, error)
	SyncStatement(username string)
	GetStatement(username string) (StatementSnapshot, error)
	Close()
}
