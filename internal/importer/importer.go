package importer

import (
	"time"

	"github.com/google/uuid"

	"hushall/internal/core"
)

// Preview maps parsed rows to candidate transactions for the given period
// and author. Rows that do not resolve under the role assignment are dropped
// without error; the second return is how many were dropped. Candidates get
// a fresh id so the review step can address them individually before commit.
func Preview(rows [][]string, assigner *RoleAssigner, inf *Inferencer, periodID, author string) ([]core.Transaction, int) {
	var (
		candidates []core.Transaction
		dropped    int
	)
	now := time.Now().UTC()

	for _, row := range rows {
		resolved, ok := assigner.ResolveRow(row)
		if !ok {
			dropped++
			continue
		}

		candidates = append(candidates, core.Transaction{
			ID:          uuid.NewString(),
			PeriodID:    periodID,
			Author:      author,
			Label:       resolved.Label,
			Amount:      resolved.Amount,
			Category:    inf.Infer(resolved.Label, resolved.RawAmount),
			Date:        resolved.Date,
			CreatedAt:   now,
			LastUpdated: now,
		})
	}

	return candidates, dropped
}
