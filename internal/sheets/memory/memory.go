// Package memory is an in-memory export adapter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"hushall/internal/core"
	ports "hushall/internal/sheets"
)

type Exporter struct {
	mu   sync.Mutex
	rows []core.BudgetPeriod
}

var _ ports.SummaryExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

// AppendPeriodTotals stores the period snapshot and returns a synthetic
// row reference.
func (e *Exporter) AppendPeriodTotals(_ context.Context, p core.BudgetPeriod) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = append(e.rows, p)
	return fmt.Sprintf("mem:%d", len(e.rows)), nil
}

// Rows returns the exported snapshots in append order.
func (e *Exporter) Rows() []core.BudgetPeriod {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]core.BudgetPeriod(nil), e.rows...)
}
