package http

import (
	"time"

	"hushall/internal/core"
	"hushall/internal/store"
)

type periodJSON struct {
	ID                    string             `json:"id"`
	Author                string             `json:"author"`
	Members               []string           `json:"members"`
	FromDate              string             `json:"fromDate"`
	ToDate                string             `json:"toDate"`
	TotalIncome           float64            `json:"totalIncome"`
	TotalExpenses         float64            `json:"totalExpenses"`
	CategoryExpenseTotals map[string]float64 `json:"categoryExpenseTotals"`
	CreatedAt             time.Time          `json:"createdAt"`
	LastUpdated           time.Time          `json:"lastUpdated"`
}

func toPeriodJSON(p core.BudgetPeriod) periodJSON {
	totals := make(map[string]float64, len(p.CategoryExpenseTotals))
	for c, v := range p.CategoryExpenseTotals {
		totals[string(c)] = v
	}
	return periodJSON{
		ID:                    p.ID,
		Author:                p.Author,
		Members:               p.Members,
		FromDate:              p.FromDate.Format("2006-01-02"),
		ToDate:                p.ToDate.Format("2006-01-02"),
		TotalIncome:           p.TotalIncome,
		TotalExpenses:         p.TotalExpenses,
		CategoryExpenseTotals: totals,
		CreatedAt:             p.CreatedAt,
		LastUpdated:           p.LastUpdated,
	}
}

type transactionJSON struct {
	ID          string    `json:"id"`
	PeriodID    string    `json:"periodId"`
	Author      string    `json:"author"`
	Label       string    `json:"label"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Shared      bool      `json:"shared"`
	Optional    bool      `json:"optional"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		PeriodID:    t.PeriodID,
		Author:      t.Author,
		Label:       t.Label,
		Amount:      t.Amount,
		Category:    string(t.Category),
		Date:        t.Date.Format("2006-01-02"),
		Shared:      t.Shared,
		Optional:    t.Optional,
		CreatedAt:   t.CreatedAt,
		LastUpdated: t.LastUpdated,
	}
}

func toTransactionListJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, len(txs))
	for i, t := range txs {
		out[i] = toTransactionJSON(t)
	}
	return out
}

func (t transactionJSON) toDomain() (core.Transaction, error) {
	date, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return core.Transaction{}, core.ErrInvalidDate
	}
	return core.Transaction{
		ID:          t.ID,
		PeriodID:    t.PeriodID,
		Author:      t.Author,
		Label:       t.Label,
		Amount:      t.Amount,
		Category:    core.Category(t.Category),
		Date:        date,
		Shared:      t.Shared,
		Optional:    t.Optional,
		CreatedAt:   t.CreatedAt,
		LastUpdated: t.LastUpdated,
	}, nil
}

type createPeriodRequest struct {
	Author   string   `json:"author"`
	Members  []string `json:"members"`
	FromDate string   `json:"fromDate"`
	ToDate   string   `json:"toDate"`
}

type createTransactionRequest struct {
	Author   string  `json:"author"`
	Label    string  `json:"label"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Shared   bool    `json:"shared"`
	Optional bool    `json:"optional"`
}

type updateTransactionRequest struct {
	Label    *string  `json:"label"`
	Amount   *float64 `json:"amount"`
	Category *string  `json:"category"`
	Date     *string  `json:"date"`
	Shared   *bool    `json:"shared"`
	Optional *bool    `json:"optional"`
}

func (r updateTransactionRequest) toPatch() (store.TransactionPatch, error) {
	patch := store.TransactionPatch{
		Label:    r.Label,
		Amount:   r.Amount,
		Shared:   r.Shared,
		Optional: r.Optional,
	}
	if r.Category != nil {
		c := core.Category(*r.Category)
		if !c.Valid() {
			return store.TransactionPatch{}, core.ErrInvalidCategory
		}
		patch.Category = &c
	}
	if r.Date != nil {
		d, err := time.Parse("2006-01-02", *r.Date)
		if err != nil {
			return store.TransactionPatch{}, core.ErrInvalidDate
		}
		patch.Date = &d
	}
	return patch, nil
}

type importPreviewRequest struct {
	Author     string   `json:"author"`
	Text       string   `json:"text"`
	AutoFormat bool     `json:"autoFormat"`
	Roles      []string `json:"roles"`
}

type importPreviewResponse struct {
	Candidates []transactionJSON `json:"candidates"`
	Dropped    int               `json:"dropped"`
}

type importCommitRequest struct {
	Transactions []transactionJSON `json:"transactions"`
}

type importCommitResponse struct {
	Committed int `json:"committed"`
}

type categorySummaryJSON struct {
	Category     string            `json:"category"`
	DisplayName  string            `json:"displayName"`
	Total        float64           `json:"total"`
	DisplayTotal int64             `json:"displayTotal"`
	Percentage   float64           `json:"percentage"`
	Transactions []transactionJSON `json:"transactions"`
}

type summaryJSON struct {
	TotalIncome             float64               `json:"totalIncome"`
	TotalExpenses           float64               `json:"totalExpenses"`
	TotalLeft               float64               `json:"totalLeft"`
	PotentialSavings        float64               `json:"potentialSavings"`
	DisplayTotalLeft        int64                 `json:"displayTotalLeft"`
	DisplayPotentialSavings int64                 `json:"displayPotentialSavings"`
	Categories              []categorySummaryJSON `json:"categories"`
}

func toSummaryJSON(s core.Summary) summaryJSON {
	out := summaryJSON{
		TotalIncome:             s.TotalIncome,
		TotalExpenses:           s.TotalExpenses,
		TotalLeft:               s.TotalLeft,
		PotentialSavings:        s.PotentialSavings,
		DisplayTotalLeft:        core.DisplayMoney(s.TotalLeft),
		DisplayPotentialSavings: core.DisplayMoney(s.PotentialSavings),
	}
	for _, c := range core.Categories() {
		txs, ok := s.ByCategory[c]
		if !ok {
			continue
		}
		total := s.CategoryTotal(c)
		entry := categorySummaryJSON{
			Category:     string(c),
			DisplayName:  c.DisplayName(),
			Total:        total,
			DisplayTotal: core.DisplayMoney(total),
			Transactions: toTransactionListJSON(txs),
		}
		if !c.IsIncome() {
			entry.Percentage = s.ExpensePercentage(c)
		}
		out.Categories = append(out.Categories, entry)
	}
	return out
}

type memberSummaryJSON struct {
	Member     string             `json:"member"`
	Income     float64            `json:"income"`
	Left       float64            `json:"left"`
	ByCategory map[string]float64 `json:"byCategory"`
}

func toMemberSummaryJSON(ms []core.MemberSummary) []memberSummaryJSON {
	out := make([]memberSummaryJSON, len(ms))
	for i, m := range ms {
		byCategory := make(map[string]float64, len(m.ByCategory))
		for c, v := range m.ByCategory {
			byCategory[string(c)] = v
		}
		out[i] = memberSummaryJSON{
			Member:     m.Member,
			Income:     m.Income,
			Left:       m.Left,
			ByCategory: byCategory,
		}
	}
	return out
}

type duplicatesResponse struct {
	DuplicateIDs []string `json:"duplicateIds"`
}
