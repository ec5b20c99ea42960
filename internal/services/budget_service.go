package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"hushall/internal/core"
	"hushall/internal/history"
	"hushall/internal/importer"
	"hushall/internal/store"
)

// DirtyPublisher queues a totals reconcile request for a period.
type DirtyPublisher interface {
	PublishPeriodDirty(ctx context.Context, periodID string) error
}

// BudgetService orchestrates period and transaction operations across the
// store and the reconcile queue. Writes succeed locally even when the
// queue is down; the periodic sweep catches up later.
type BudgetService struct {
	store     store.Store
	publisher DirtyPublisher
	inference *importer.Inferencer
}

func NewBudgetService(st store.Store, publisher DirtyPublisher, ref *history.Reference) *BudgetService {
	return &BudgetService{
		store:     st,
		publisher: publisher,
		inference: importer.NewInferencer(ref),
	}
}

// CreatePeriod opens a new budget period owned by author.
func (s *BudgetService) CreatePeriod(ctx context.Context, author string, members []string, from, to time.Time) (core.BudgetPeriod, error) {
	now := time.Now().UTC()
	p := core.BudgetPeriod{
		ID:                    uuid.NewString(),
		Author:                author,
		Members:               members,
		FromDate:              from,
		ToDate:                to,
		CategoryExpenseTotals: core.EmptyCategoryTotals(),
		CreatedAt:             now,
		LastUpdated:           now,
	}
	if err := p.Validate(); err != nil {
		return core.BudgetPeriod{}, fmt.Errorf("validate period: %w", err)
	}

	if err := s.store.InsertPeriod(ctx, p); err != nil {
		return core.BudgetPeriod{}, fmt.Errorf("save period: %w", err)
	}
	return p, nil
}

func (s *BudgetService) Periods(ctx context.Context) ([]core.BudgetPeriod, error) {
	return s.store.Periods(ctx)
}

func (s *BudgetService) PeriodByID(ctx context.Context, id string) (core.BudgetPeriod, error) {
	return s.store.PeriodByID(ctx, id)
}

// DeletePeriod removes the period and everything recorded in it.
func (s *BudgetService) DeletePeriod(ctx context.Context, id string) error {
	return s.store.DeletePeriod(ctx, id)
}

// AddTransaction records a single transaction. Missing id and timestamps
// are stamped here.
func (s *BudgetService) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.LastUpdated = now

	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}
	if _, err := s.store.PeriodByID(ctx, t.PeriodID); err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.InsertTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.markDirty(ctx, t.PeriodID)
	return t, nil
}

func (s *BudgetService) UpdateTransaction(ctx context.Context, id string, patch store.TransactionPatch) (core.Transaction, error) {
	t, err := s.store.UpdateTransaction(ctx, id, patch)
	if err != nil {
		return core.Transaction{}, err
	}

	s.markDirty(ctx, t.PeriodID)
	return t, nil
}

func (s *BudgetService) DeleteTransaction(ctx context.Context, id string) error {
	t, err := s.store.TransactionByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.markDirty(ctx, t.PeriodID)
	return nil
}

func (s *BudgetService) TransactionByID(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.TransactionByID(ctx, id)
}

func (s *BudgetService) TransactionsForPeriod(ctx context.Context, periodID string) ([]core.Transaction, error) {
	return s.store.TransactionsForPeriod(ctx, periodID)
}

// ImportPreview turns pasted text into candidate transactions without
// touching the store. With autoFormat set, a loose line-per-field paste is
// regrouped first. An empty roles slice means positional defaults.
func (s *BudgetService) ImportPreview(ctx context.Context, periodID, author, text string, autoFormat bool, roles []importer.Role) ([]core.Transaction, int, error) {
	if _, err := s.store.PeriodByID(ctx, periodID); err != nil {
		return nil, 0, err
	}

	if autoFormat {
		text = importer.AutoFormat(text)
	}
	rows := importer.ParseTable(text)

	var assigner *importer.RoleAssigner
	if len(roles) > 0 {
		assigner = importer.AssignerFromRoles(roles)
	} else {
		assigner = importer.NewRoleAssigner(importer.MaxColumns(rows))
	}

	candidates, dropped := importer.Preview(rows, assigner, s.inference, periodID, author)
	if dropped > 0 {
		slog.InfoContext(ctx, "Import preview dropped unresolvable rows",
			"period_id", periodID,
			"dropped", dropped,
			"kept", len(candidates))
	}
	return candidates, dropped, nil
}

// CommitImport persists reviewed candidates. All candidates are validated
// before anything is written.
func (s *BudgetService) CommitImport(ctx context.Context, candidates []core.Transaction) (int, error) {
	now := time.Now().UTC()
	for i := range candidates {
		if candidates[i].ID == "" {
			candidates[i].ID = uuid.NewString()
		}
		if candidates[i].CreatedAt.IsZero() {
			candidates[i].CreatedAt = now
		}
		candidates[i].LastUpdated = now
		if err := candidates[i].Validate(); err != nil {
			return 0, fmt.Errorf("validate candidate %d: %w", i, err)
		}
	}

	dirty := make(map[string]struct{})
	for i, t := range candidates {
		if err := s.store.InsertTransaction(ctx, t); err != nil {
			return i, fmt.Errorf("save candidate %d: %w", i, err)
		}
		dirty[t.PeriodID] = struct{}{}
	}

	for periodID := range dirty {
		s.markDirty(ctx, periodID)
	}
	return len(candidates), nil
}

// Summary aggregates the period's transactions.
func (s *BudgetService) Summary(ctx context.Context, periodID string) (core.Summary, error) {
	txs, err := s.store.TransactionsForPeriod(ctx, periodID)
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(txs), nil
}

// MemberSummaries splits the period's transactions across its members.
func (s *BudgetService) MemberSummaries(ctx context.Context, periodID string) ([]core.MemberSummary, error) {
	p, err := s.store.PeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.TransactionsForPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	return core.PerMember(txs, p.Members), nil
}

// DuplicateIDs lists transactions that look like accidental re-entries of
// one another, sorted for stable output.
func (s *BudgetService) DuplicateIDs(ctx context.Context, periodID string) ([]string, error) {
	txs, err := s.store.TransactionsForPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	set := core.FindDuplicateIDs(txs)
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *BudgetService) markDirty(ctx context.Context, periodID string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Reconcile queue not available, relying on periodic sweep",
			"period_id", periodID)
		return
	}
	if err := s.publisher.PublishPeriodDirty(ctx, periodID); err != nil {
		// The write already succeeded locally, so don't fail the request.
		slog.ErrorContext(ctx, "Failed to publish period dirty message",
			"period_id", periodID, "error", err)
	}
}

// Close releases the store and, when the publisher owns a connection, the
// publisher too.
func (s *BudgetService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if closer, ok := s.publisher.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close budget service: %v", errs)
	}
	return nil
}
