package storage

import (
	"database/sql"
	"errors"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/billingworks/statements/internal/app/client"
	"github.com/billingworks/statements/internal/app/entity"
	"github.com/billingworks/statements/internal/app/logger"
	"github.com/billingworks/statements/internal/app/reconcile"
	"github.com/billingworks/statements/internal/app/statement"
)

var schema = `
CREATE TABLE IF NOT EXISTS users(
	user_id			SERIAL PRIMARY KEY,
	login			TEXT NOT NULL UNIQUE,
	password_hash	VARCHAR(64) NOT NULL
);

CREATE TABLE IF NOT EXISTS statement_runs(
	run_id			UUID PRIMARY KEY,
	username		TEXT NOT NULL,
	grand_total		NUMERIC(15,2) NOT NULL DEFAULT 0.00,
	past_due_total	NUMERIC(15,2) NOT NULL DEFAULT 0.00,
	synced_at		TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE TABLE IF NOT EXISTS statement_rows(
	run_id			UUID NOT NULL,
	row_index		INTEGER NOT NULL,
	order_id		TEXT NOT NULL,
	date_placed		TEXT NOT NULL,
	due_date		TEXT NOT NULL,
	order_total		TEXT NOT NULL,
	payments		TEXT NOT NULL,
	balance			TEXT NOT NULL,
	is_past_due		BOOLEAN NOT NULL
);`

type Task struct {
	username string
}

type Worker struct {
	id    int
	repo  *RepoDB
	timer *time.Timer
}

// loop drains the sync queue: fetch orders and ledger invoices, reconcile,
// build the statement table and persist the snapshot. A 429 from either
// upstream backs the worker off before it touches the queue again; a 5xx
// requeues the task.
func (w *Worker) loop() {
	for {
		<-w.timer.C
	taskloop:
		for {
			task := <-w.repo.taskCh

			ordersResp, err := w.repo.ordersClient.GetOrders(task.username)
			if err != nil {
				logger.Logger.Err(err).Int("worker", w.id).Str("user", task.username).Msg("orders fetch failed")
				continue
			}

			switch ordersResp.StatusCode {
			case 200:
			case 429:
				w.repo.taskCh <- task
				w.timer.Reset(10 * time.Second)
				break taskloop
			case 500:
				w.repo.taskCh <- task
				continue
			default:
				logger.Logger.Warn().Int("worker", w.id).Str("user", task.username).
					Int("status", ordersResp.StatusCode).Msg("orders system refused request")
				continue
			}

			invoices, retry := w.fetchInvoices(task, ordersResp.Orders)
			if retry {
				break taskloop
			}
			if invoices == nil && len(ordersResp.Orders) > 0 {
				continue
			}

			result := w.repo.reconciler.SynchronizeStatement(ordersResp.Orders, invoices, time.Now())
			if !result.Success {
				logger.Logger.Warn().Int("worker", w.id).Str("user", task.username).
					Str("reason", result.Error).Msg("statement sync failed")
				continue
			}
			for _, skipped := range result.Skipped {
				logger.Logger.Warn().Str("user", task.username).Str("order", skipped.OrderID).
					Str("reason", skipped.Reason).Msg("order skipped")
			}
			for _, rec := range result.Reconciled {
				for _, m := range rec.Mismatches {
					logger.Logger.Warn().Str("user", task.username).Str("order", rec.OrderID).
						Str("field", m.Field).Str("delta", m.Delta.String()).Msg("ledger mismatch")
				}
			}

			table := statement.BuildTable(result.Reconciled, w.repo.opts)
			if err := w.repo.saveSnapshot(task.username, table); err != nil {
				logger.Logger.Err(err).Int("worker", w.id).Str("user", task.username).Msg("snapshot save failed")
			}
		}
	}
}

// fetchInvoices queries the ledger system per order, keeping the invoice
// slice aligned with the order slice by position. retry means the whole
// task was requeued on a 429.
func (w *Worker) fetchInvoices(task *Task, orders []entity.OrderRecord) (invoices []*entity.LedgerInvoiceRecord, retry bool) {
	invoices = make([]*entity.LedgerInvoiceRecord, 0, len(orders))
	for _, order := range orders {
		ledgerResp, err := w.repo.ledgerClient.GetInvoice(order.OrderID)
		if err != nil {
			logger.Logger.Err(err).Int("worker", w.id).Str("order", order.OrderID).Msg("invoice fetch failed")
			return nil, false
		}

		switch ledgerResp.StatusCode {
		case 200:
			if ledgerResp.FoundCount > 1 {
				logger.Logger.Warn().Str("order", order.OrderID).
					Int("foundCount", ledgerResp.FoundCount).Msg("multiple ledger invoices, using first")
			}
			invoices = append(invoices, ledgerResp.Invoice)
		case 429:
			w.repo.taskCh <- task
			w.timer.Reset(10 * time.Second)
			return nil, true
		case 500:
			w.repo.taskCh <- task
			return nil, false
		default:
			// Treat any other refusal as "no ledger data for this order".
			invoices = append(invoices, nil)
		}
	}
	return invoices, false
}

type RepoDB struct {
	db           *sqlx.DB
	ordersClient client.OrdersClient
	ledgerClient client.LedgerClient
	reconciler   *reconcile.Reconciler
	opts         statement.Options
	taskCh       chan *Task
}

func NewRepoDB(databaseURI string, ordersClient client.OrdersClient, ledgerClient client.LedgerClient, reconciler *reconcile.Reconciler, opts statement.Options) (*RepoDB, error) {
	db, err := sqlx.Connect("pgx", databaseURI)
	if err != nil {
		return nil, err
	}

	db.MustExec(schema)

	r := &RepoDB{
		db:           db,
		ordersClient: ordersClient,
		ledgerClient: ledgerClient,
		reconciler:   reconciler,
		opts:         opts,
		taskCh:       make(chan *Task),
	}

	workers := make([]*Worker, 0, runtime.NumCPU())
	for i := 0; i < runtime.NumCPU(); i++ {
		workers = append(workers, &Worker{i, r, time.NewTimer(0)})
	}

	for _, w := range workers {
		go w.loop()
	}

	return r, nil
}

func (r *RepoDB) CreateUser(login string, passwordHash string) (string, error) {
	var userID int64
	querySaveUser := `INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING user_id;`
	err := r.db.Get(&userID, querySaveUser, login, passwordHash)
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(userID, 10), nil
}

func (r *RepoDB) AuthUser(login string, passwordHash string) (string, error) {
	var userID int64
	queryAuthUser := `SELECT user_id FROM users WHERE login = ($1) AND password_hash = ($2)`
	err := r.db.Get(&userID, queryAuthUser, login, passwordHash)
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(userID, 10), nil
}

// SyncStatement enqueues a reconciliation pass for the customer.
func (r *RepoDB) SyncStatement(username string) {
	go func() {
		r.taskCh <- &Task{username}
	}()
}

func (r *RepoDB) saveSnapshot(username string, table statement.Table) error {
	queryInsertRun := `INSERT INTO statement_runs (run_id, username, grand_total, past_due_total, synced_at) VALUES ($1, $2, $3, $4, $5)`
	queryInsertRow := `INSERT INTO statement_rows (run_id, row_index, order_id, date_placed, due_date, order_total, payments, balance, is_past_due)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		err := tx.Rollback()
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			logger.Logger.Err(err).Msg("rollback failed")
		}
	}(tx)

	runID := uuid.NewString()
	_, err = tx.Exec(queryInsertRun, runID, username,
		table.Summary.GrandTotal, table.Summary.PastDueTotal, time.Now().Truncate(time.Second))
	if err != nil {
		return err
	}

	for _, row := range table.Rows {
		_, err = tx.Exec(queryInsertRow, runID, row.Index, row.OrderID,
			row.DatePlaced, row.DueDate, row.OrderTotal, row.Payments, row.Balance, row.IsPastDue)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetStatement returns the latest persisted snapshot for the customer.
func (r *RepoDB) GetStatement(username string) (StatementSnapshot, error) {
	var snapshot StatementSnapshot

	queryGetRun := `SELECT run_id, username, grand_total, past_due_total, synced_at
		FROM statement_runs WHERE username = ($1) ORDER BY synced_at DESC LIMIT 1`
	err := r.db.Get(&snapshot.Run, queryGetRun, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return snapshot, ErrNoStatement
		}
		return snapshot, err
	}

	queryGetRows := `SELECT row_index, order_id, date_placed, due_date, order_total, payments, balance, is_past_due
		FROM statement_rows WHERE run_id = ($1) ORDER BY row_index ASC`
	err = r.db.Select(&snapshot.Rows, queryGetRows, snapshot.Run.RunID)
	if err != nil {
		return snapshot, err
	}

	return snapshot, nil
}

func (r *RepoDB) Close() {
	r.db.Close()
}
