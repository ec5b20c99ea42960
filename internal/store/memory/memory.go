// Package memory is an in-memory store adapter used for tests and for
// running without a database file.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"hushall/internal/core"
	"hushall/internal/store"
)

type Store struct {
	mu           sync.Mutex
	periods      map[string]core.BudgetPeriod
	transactions map[string]core.Transaction

	nextSub    int
	periodSubs map[int]func([]core.BudgetPeriod)
	txSubs     map[int]txSub
}

type txSub struct {
	periodID string
	fn       func([]core.Transaction)
}

func NewStore() *Store {
	return &Store{
		periods:      make(map[string]core.BudgetPeriod),
		transactions: make(map[string]core.Transaction),
		periodSubs:   make(map[int]func([]core.BudgetPeriod)),
		txSubs:       make(map[int]txSub),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) InsertPeriod(_ context.Context, p core.BudgetPeriod) error {
	s.mu.Lock()
	s.periods[p.ID] = clonePeriod(p)
	s.mu.Unlock()

	s.notifyPeriods()
	return nil
}

func (s *Store) PeriodByID(_ context.Context, id string) (core.BudgetPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.periods[id]
	if !ok {
		return core.BudgetPeriod{}, store.ErrPeriodNotFound
	}
	return clonePeriod(p), nil
}

func (s *Store) Periods(_ context.Context) ([]core.BudgetPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.periodSnapshot(), nil
}

func (s *Store) UpdatePeriod(_ context.Context, id string, patch store.PeriodPatch) (core.BudgetPeriod, error) {
	s.mu.Lock()
	p, ok := s.periods[id]
	if !ok {
		s.mu.Unlock()
		return core.BudgetPeriod{}, store.ErrPeriodNotFound
	}
	patch.ApplyTo(&p, time.Now().UTC())
	s.periods[id] = p
	updated := clonePeriod(p)
	s.mu.Unlock()

	s.notifyPeriods()
	return updated, nil
}

// DeletePeriod removes the period and every transaction recorded in it.
func (s *Store) DeletePeriod(_ context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.periods[id]; !ok {
		s.mu.Unlock()
		return store.ErrPeriodNotFound
	}
	delete(s.periods, id)
	for txID, t := range s.transactions {
		if t.PeriodID == id {
			delete(s.transactions, txID)
		}
	}
	s.mu.Unlock()

	s.notifyPeriods()
	s.notifyTransactions(id)
	return nil
}

func (s *Store) SubscribePeriods(_ context.Context, fn func([]core.BudgetPeriod)) (func(), error) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.periodSubs[id] = fn
	snapshot := s.periodSnapshot()
	s.mu.Unlock()

	fn(snapshot)

	return func() {
		s.mu.Lock()
		delete(s.periodSubs, id)
		s.mu.Unlock()
	}, nil
}

func (s *Store) InsertTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	s.transactions[t.ID] = t
	s.mu.Unlock()

	s.notifyTransactions(t.PeriodID)
	return nil
}

func (s *Store) TransactionByID(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, store.ErrTransactionNotFound
	}
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, id string, patch store.TransactionPatch) (core.Transaction, error) {
	s.mu.Lock()
	t, ok := s.transactions[id]
	if !ok {
		s.mu.Unlock()
		return core.Transaction{}, store.ErrTransactionNotFound
	}
	patch.ApplyTo(&t, time.Now().UTC())
	s.transactions[id] = t
	s.mu.Unlock()

	s.notifyTransactions(t.PeriodID)
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	t, ok := s.transactions[id]
	if !ok {
		s.mu.Unlock()
		return store.ErrTransactionNotFound
	}
	delete(s.transactions, id)
	s.mu.Unlock()

	s.notifyTransactions(t.PeriodID)
	return nil
}

func (s *Store) TransactionsForPeriod(_ context.Context, periodID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactionSnapshot(periodID), nil
}

func (s *Store) SubscribeTransactions(_ context.Context, periodID string, fn func([]core.Transaction)) (func(), error) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.txSubs[id] = txSub{periodID: periodID, fn: fn}
	snapshot := s.transactionSnapshot(periodID)
	s.mu.Unlock()

	fn(snapshot)

	return func() {
		s.mu.Lock()
		delete(s.txSubs, id)
		s.mu.Unlock()
	}, nil
}

// periodSnapshot returns all periods ordered by end date, newest first.
// Callers must hold the lock.
func (s *Store) periodSnapshot() []core.BudgetPeriod {
	out := make([]core.BudgetPeriod, 0, len(s.periods))
	for _, p := range s.periods {
		out = append(out, clonePeriod(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ToDate.Equal(out[j].ToDate) {
			return out[i].ToDate.After(out[j].ToDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// transactionSnapshot returns the period's transactions ordered by date,
// newest first. Callers must hold the lock.
func (s *Store) transactionSnapshot(periodID string) []core.Transaction {
	var out []core.Transaction
	for _, t := range s.transactions {
		if t.PeriodID == periodID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Listeners run outside the lock so they can call back into the store.
func (s *Store) notifyPeriods() {
	s.mu.Lock()
	fns := make([]func([]core.BudgetPeriod), 0, len(s.periodSubs))
	for _, fn := range s.periodSubs {
		fns = append(fns, fn)
	}
	snapshot := s.periodSnapshot()
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

func (s *Store) notifyTransactions(periodID string) {
	s.mu.Lock()
	var fns []func([]core.Transaction)
	for _, sub := range s.txSubs {
		if sub.periodID == periodID {
			fns = append(fns, sub.fn)
		}
	}
	snapshot := s.transactionSnapshot(periodID)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

func clonePeriod(p core.BudgetPeriod) core.BudgetPeriod {
	p.Members = append([]string(nil), p.Members...)
	if p.CategoryExpenseTotals != nil {
		totals := make(map[core.Category]float64, len(p.CategoryExpenseTotals))
		for c, v := range p.CategoryExpenseTotals {
			totals[c] = v
		}
		p.CategoryExpenseTotals = totals
	}
	return p
}
