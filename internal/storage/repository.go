package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"hushall/internal/core"
	"hushall/internal/store"

	_ "modernc.org/sqlite"
)

// Repository is the SQLite-backed store adapter. Change subscriptions are
// fed by the repository's own mutations, which is enough for a
// single-process deployment.
type Repository struct {
	db *sql.DB

	mu         sync.Mutex
	nextSub    int
	periodSubs map[int]func([]core.BudgetPeriod)
	txSubs     map[int]txSub
}

type txSub struct {
	periodID string
	fn       func([]core.Transaction)
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{
		db:         db,
		periodSubs: make(map[int]func([]core.BudgetPeriod)),
		txSubs:     make(map[int]txSub),
	}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const periodColumns = `id, author, members, from_date, to_date,
	total_income, total_expenses, category_expense_totals, created_at, last_updated`

func (r *Repository) InsertPeriod(ctx context.Context, p core.BudgetPeriod) error {
	members, err := json.Marshal(p.Members)
	if err != nil {
		return fmt.Errorf("encode members: %w", err)
	}
	totals, err := json.Marshal(p.CategoryExpenseTotals)
	if err != nil {
		return fmt.Errorf("encode category totals: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO budget_periods (`+periodColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Author, string(members),
		p.FromDate.UTC().Format(time.RFC3339), p.ToDate.UTC().Format(time.RFC3339),
		p.TotalIncome, p.TotalExpenses, string(totals),
		p.CreatedAt.UTC().Format(time.RFC3339), p.LastUpdated.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert period: %w", err)
	}

	slog.InfoContext(ctx, "Budget period saved",
		"id", p.ID,
		"author", p.Author,
		"members", len(p.Members))

	r.notifyPeriods(ctx)
	return nil
}

func (r *Repository) PeriodByID(ctx context.Context, id string) (core.BudgetPeriod, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+periodColumns+` FROM budget_periods WHERE id = ?`, id)

	p, err := scanPeriod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BudgetPeriod{}, store.ErrPeriodNotFound
	}
	if err != nil {
		return core.BudgetPeriod{}, fmt.Errorf("get period: %w", err)
	}
	return p, nil
}

func (r *Repository) Periods(ctx context.Context) ([]core.BudgetPeriod, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+periodColumns+` FROM budget_periods ORDER BY to_date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	defer rows.Close()

	var periods []core.BudgetPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (r *Repository) UpdatePeriod(ctx context.Context, id string, patch store.PeriodPatch) (core.BudgetPeriod, error) {
	p, err := r.PeriodByID(ctx, id)
	if err != nil {
		return core.BudgetPeriod{}, err
	}
	patch.ApplyTo(&p, time.Now().UTC())

	members, err := json.Marshal(p.Members)
	if err != nil {
		return core.BudgetPeriod{}, fmt.Errorf("encode members: %w", err)
	}
	totals, err := json.Marshal(p.CategoryExpenseTotals)
	if err != nil {
		return core.BudgetPeriod{}, fmt.Errorf("encode category totals: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE budget_periods SET
			members = ?, from_date = ?, to_date = ?,
			total_income = ?, total_expenses = ?, category_expense_totals = ?,
			last_updated = ?
		WHERE id = ?`,
		string(members),
		p.FromDate.UTC().Format(time.RFC3339), p.ToDate.UTC().Format(time.RFC3339),
		p.TotalIncome, p.TotalExpenses, string(totals),
		p.LastUpdated.UTC().Format(time.RFC3339), id)
	if err != nil {
		return core.BudgetPeriod{}, fmt.Errorf("update period: %w", err)
	}

	r.notifyPeriods(ctx)
	return p, nil
}

// DeletePeriod removes the period together with its transactions, in one
// database transaction.
func (r *Repository) DeletePeriod(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete period: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE period_id = ?`, id); err != nil {
		return fmt.Errorf("delete period transactions: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM budget_periods WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete period: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete period rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrPeriodNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete period: %w", err)
	}

	slog.InfoContext(ctx, "Budget period deleted", "id", id)

	r.notifyPeriods(ctx)
	r.notifyTransactions(ctx, id)
	return nil
}

func (r *Repository) SubscribePeriods(ctx context.Context, fn func([]core.BudgetPeriod)) (func(), error) {
	snapshot, err := r.Periods(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.periodSubs[id] = fn
	r.mu.Unlock()

	fn(snapshot)

	return func() {
		r.mu.Lock()
		delete(r.periodSubs, id)
		r.mu.Unlock()
	}, nil
}

const transactionColumns = `id, period_id, author, label, amount, category,
	tx_date, shared, optional, created_at, last_updated`

func (r *Repository) InsertTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.PeriodID, t.Author, t.Label, t.Amount, string(t.Category),
		t.Date.UTC().Format(time.RFC3339), boolInt(t.Shared), boolInt(t.Optional),
		t.CreatedAt.UTC().Format(time.RFC3339), t.LastUpdated.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"period_id", t.PeriodID,
		"label", t.Label,
		"amount", t.Amount,
		"category", t.Category)

	r.notifyTransactions(ctx, t.PeriodID)
	return nil
}

func (r *Repository) TransactionByID(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, id string, patch store.TransactionPatch) (core.Transaction, error) {
	t, err := r.TransactionByID(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}

	patch.ApplyTo(&t, time.Now().UTC())

	_, err = r.db.ExecContext(ctx, `
		UPDATE transactions SET
			label = ?, amount = ?, category = ?, tx_date = ?,
			shared = ?, optional = ?, last_updated = ?
		WHERE id = ?`,
		t.Label, t.Amount, string(t.Category), t.Date.UTC().Format(time.RFC3339),
		boolInt(t.Shared), boolInt(t.Optional),
		t.LastUpdated.UTC().Format(time.RFC3339), id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	r.notifyTransactions(ctx, t.PeriodID)
	return t, nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	var periodID string
	err := r.db.QueryRowContext(ctx,
		`SELECT period_id FROM transactions WHERE id = ?`, id).Scan(&periodID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrTransactionNotFound
	}
	if err != nil {
		return fmt.Errorf("get transaction period: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "period_id", periodID)

	r.notifyTransactions(ctx, periodID)
	return nil
}

func (r *Repository) TransactionsForPeriod(ctx context.Context, periodID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE period_id = ?
		ORDER BY tx_date DESC, id`, periodID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (r *Repository) SubscribeTransactions(ctx context.Context, periodID string, fn func([]core.Transaction)) (func(), error) {
	snapshot, err := r.TransactionsForPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.txSubs[id] = txSub{periodID: periodID, fn: fn}
	r.mu.Unlock()

	fn(snapshot)

	return func() {
		r.mu.Lock()
		delete(r.txSubs, id)
		r.mu.Unlock()
	}, nil
}

func (r *Repository) notifyPeriods(ctx context.Context) {
	r.mu.Lock()
	fns := make([]func([]core.BudgetPeriod), 0, len(r.periodSubs))
	for _, fn := range r.periodSubs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	if len(fns) == 0 {
		return
	}
	snapshot, err := r.Periods(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load period snapshot for listeners", "error", err)
		return
	}
	for _, fn := range fns {
		fn(snapshot)
	}
}

func (r *Repository) notifyTransactions(ctx context.Context, periodID string) {
	r.mu.Lock()
	var fns []func([]core.Transaction)
	for _, sub := range r.txSubs {
		if sub.periodID == periodID {
			fns = append(fns, sub.fn)
		}
	}
	r.mu.Unlock()

	if len(fns) == 0 {
		return
	}
	snapshot, err := r.TransactionsForPeriod(ctx, periodID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load transaction snapshot for listeners",
			"period_id", periodID, "error", err)
		return
	}
	for _, fn := range fns {
		fn(snapshot)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPeriod(row rowScanner) (core.BudgetPeriod, error) {
	var (
		p                core.BudgetPeriod
		members, totals  string
		fromDate, toDate string
		created, updated string
	)
	err := row.Scan(&p.ID, &p.Author, &members, &fromDate, &toDate,
		&p.TotalIncome, &p.TotalExpenses, &totals, &created, &updated)
	if err != nil {
		return core.BudgetPeriod{}, err
	}

	if err := json.Unmarshal([]byte(members), &p.Members); err != nil {
		return core.BudgetPeriod{}, fmt.Errorf("decode members: %w", err)
	}
	if err := json.Unmarshal([]byte(totals), &p.CategoryExpenseTotals); err != nil {
		return core.BudgetPeriod{}, fmt.Errorf("decode category totals: %w", err)
	}

	if p.FromDate, err = time.Parse(time.RFC3339, fromDate); err != nil {
		return core.BudgetPeriod{}, fmt.Errorf("parse from_date: %w", err)
	}
	if p.ToDate, err = time.Parse(time.RFC3339, toDate); err != nil {
		return core.BudgetPeriod{}, fmt.Errorf("parse to_date: %w", err)
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return core.BudgetPeriod{}, fmt.Errorf("parse created_at: %w", err)
	}
	if p.LastUpdated, err = time.Parse(time.RFC3339, updated); err != nil {
		return core.BudgetPeriod{}, fmt.Errorf("parse last_updated: %w", err)
	}
	return p, nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                core.Transaction
		category         string
		date             string
		shared, optional int64
		created, updated string
	)
	err := row.Scan(&t.ID, &t.PeriodID, &t.Author, &t.Label, &t.Amount,
		&category, &date, &shared, &optional, &created, &updated)
	if err != nil {
		return core.Transaction{}, err
	}

	t.Category = core.Category(category)
	t.Shared = shared != 0
	t.Optional = optional != 0

	if t.Date, err = time.Parse(time.RFC3339, date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse tx_date: %w", err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at: %w", err)
	}
	if t.LastUpdated, err = time.Parse(time.RFC3339, updated); err != nil {
		return core.Transaction{}, fmt.Errorf("parse last_updated: %w", err)
	}
	return t, nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
