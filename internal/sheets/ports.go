package sheets

import (
	"context"

	"hushall/internal/core"
)

// Ports for outbound export adapters.
type (
	// SummaryExporter mirrors reconciled period totals to an external
	// report, one row per period per export.
	SummaryExporter interface {
		AppendPeriodTotals(ctx context.Context, p core.BudgetPeriod) (rowRef string, err error)
	}
)
