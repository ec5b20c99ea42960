package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"hushall/internal/core"
	"hushall/internal/history"
	applog "hushall/internal/log"
	"hushall/internal/services"
	"hushall/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ref := history.New([]history.Record{{Label: "Coop", Category: string(core.Food)}})
	budget := services.NewBudgetService(memory.NewStore(), nil, ref)
	return NewServer(":0", budget, applog.New(applog.DefaultConfig()), nil)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return out
}

func createPeriod(t *testing.T, s *Server) periodJSON {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/periods", createPeriodRequest{
		Author:   "alice",
		Members:  []string{"alice", "bob"},
		FromDate: "2022-05-01",
		ToDate:   "2022-05-31",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create period: %d %s", rec.Code, rec.Body.String())
	}
	return decode[periodJSON](t, rec)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d", rec.Code)
	}
}

func TestCreateAndListPeriods(t *testing.T) {
	s := newTestServer(t)
	p := createPeriod(t, s)

	if p.ID == "" || p.Author != "alice" {
		t.Fatalf("period = %+v", p)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/periods", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	periods := decode[[]periodJSON](t, rec)
	if len(periods) != 1 || periods[0].ID != p.ID {
		t.Fatalf("periods = %+v", periods)
	}
}

func TestCreatePeriodValidation(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/periods", createPeriodRequest{
		Author:   "alice",
		FromDate: "2022-05-01",
		ToDate:   "2022-05-31",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("no members = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/periods", createPeriodRequest{
		Author:   "alice",
		Members:  []string{"alice"},
		FromDate: "05/01/2022",
		ToDate:   "2022-05-31",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date = %d, want 400", rec.Code)
	}
}

func TestUnknownPeriodIs404(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{
		"/api/periods/nope",
		"/api/periods/nope/summary",
		"/api/periods/nope/members",
		"/api/periods/nope/duplicates",
	} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s = %d, want 404", path, rec.Code)
		}
	}
}

func TestTransactionLifecycle(t *testing.T) {
	s := newTestServer(t)
	p := createPeriod(t, s)
	base := "/api/periods/" + p.ID

	rec := doJSON(t, s, http.MethodPost, base+"/transactions", createTransactionRequest{
		Author:   "alice",
		Label:    "Hyra",
		Amount:   8000,
		Category: string(core.Living),
		Date:     "2022-05-01",
		Shared:   true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}
	created := decode[transactionJSON](t, rec)

	newLabel := "Hyra maj"
	rec = doJSON(t, s, http.MethodPut, "/api/transactions/"+created.ID, updateTransactionRequest{Label: &newLabel})
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d %s", rec.Code, rec.Body.String())
	}
	updated := decode[transactionJSON](t, rec)
	if updated.Label != "Hyra maj" || updated.Amount != 8000 {
		t.Fatalf("updated = %+v", updated)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, base+"/transactions", nil)
	txs := decode[[]transactionJSON](t, rec)
	if len(txs) != 0 {
		t.Fatalf("transactions after delete = %+v", txs)
	}
}

func TestImportPreviewAndCommit(t *testing.T) {
	s := newTestServer(t)
	p := createPeriod(t, s)
	base := "/api/periods/" + p.ID

	rec := doJSON(t, s, http.MethodPost, base+"/import/preview", importPreviewRequest{
		Author:     "alice",
		Text:       "2022-05-10\nLön\n50000\nCoop\n-1000\nSALDO",
		AutoFormat: true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("preview = %d %s", rec.Code, rec.Body.String())
	}
	preview := decode[importPreviewResponse](t, rec)
	if len(preview.Candidates) != 2 || preview.Dropped != 0 {
		t.Fatalf("preview = %+v", preview)
	}
	if preview.Candidates[0].Category != string(core.Income) {
		t.Errorf("Lön category = %s", preview.Candidates[0].Category)
	}
	if preview.Candidates[1].Category != string(core.Food) {
		t.Errorf("Coop category = %s", preview.Candidates[1].Category)
	}

	rec = doJSON(t, s, http.MethodPost, base+"/import", importCommitRequest{Transactions: preview.Candidates})
	if rec.Code != http.StatusCreated {
		t.Fatalf("commit = %d %s", rec.Code, rec.Body.String())
	}
	committed := decode[importCommitResponse](t, rec)
	if committed.Committed != 2 {
		t.Fatalf("committed = %d", committed.Committed)
	}

	rec = doJSON(t, s, http.MethodGet, base+"/summary", nil)
	summary := decode[summaryJSON](t, rec)
	if summary.TotalIncome != 50000 || summary.TotalExpenses != 1000 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.TotalLeft != 49000 {
		t.Errorf("TotalLeft = %v", summary.TotalLeft)
	}
}

func TestSummaryCacheInvalidatedByWrites(t *testing.T) {
	s := newTestServer(t)
	p := createPeriod(t, s)
	base := "/api/periods/" + p.ID

	// Prime the cache with an empty summary.
	rec := doJSON(t, s, http.MethodGet, base+"/summary", nil)
	if sum := decode[summaryJSON](t, rec); sum.TotalExpenses != 0 {
		t.Fatalf("initial summary = %+v", sum)
	}

	rec = doJSON(t, s, http.MethodPost, base+"/transactions", createTransactionRequest{
		Author:   "alice",
		Label:    "Coop",
		Amount:   1000,
		Category: string(core.Food),
		Date:     "2022-05-10",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, base+"/summary", nil)
	if sum := decode[summaryJSON](t, rec); sum.TotalExpenses != 1000 {
		t.Fatalf("summary after write = %+v, cache not invalidated", sum)
	}
}

func TestDuplicatesEndpoint(t *testing.T) {
	s := newTestServer(t)
	p := createPeriod(t, s)
	base := "/api/periods/" + p.ID

	for i := 0; i < 2; i++ {
		rec := doJSON(t, s, http.MethodPost, base+"/transactions", createTransactionRequest{
			Author:   "alice",
			Label:    "Coop",
			Amount:   1000,
			Category: string(core.Food),
			Date:     "2022-05-10",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %d = %d", i, rec.Code)
		}
	}

	rec := doJSON(t, s, http.MethodGet, base+"/duplicates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("duplicates = %d", rec.Code)
	}
	dup := decode[duplicatesResponse](t, rec)
	if len(dup.DuplicateIDs) != 2 {
		t.Fatalf("duplicates = %+v", dup)
	}
}

func TestMemberSummariesEndpoint(t *testing.T) {
	s := newTestServer(t)
	p := createPeriod(t, s)
	base := "/api/periods/" + p.ID

	rec := doJSON(t, s, http.MethodPost, base+"/transactions", createTransactionRequest{
		Author:   "alice",
		Label:    "Hyra",
		Amount:   8000,
		Category: string(core.Living),
		Date:     "2022-05-01",
		Shared:   true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, base+"/members", nil)
	members := decode[[]memberSummaryJSON](t, rec)
	if len(members) != 2 {
		t.Fatalf("members = %+v", members)
	}
	for _, m := range members {
		if m.ByCategory[string(core.Living)] != 4000 {
			t.Errorf("member %s share = %v, want 4000", m.Member, m.ByCategory[string(core.Living)])
		}
	}
}

func TestDeletePeriodCascadesOverHTTP(t *testing.T) {
	s := newTestServer(t)
	p := createPeriod(t, s)
	base := "/api/periods/" + p.ID

	rec := doJSON(t, s, http.MethodPost, base+"/transactions", createTransactionRequest{
		Author:   "alice",
		Label:    "Coop",
		Amount:   1000,
		Category: string(core.Food),
		Date:     "2022-05-10",
	})
	created := decode[transactionJSON](t, rec)

	rec = doJSON(t, s, http.MethodDelete, base, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete period = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, base, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted period = %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/transactions/%s", created.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete cascaded transaction = %d, want 404", rec.Code)
	}
}

func TestInvalidRoleRejected(t *testing.T) {
	s := newTestServer(t)
	p := createPeriod(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/periods/"+p.ID+"/import/preview", importPreviewRequest{
		Author: "alice",
		Text:   "2022-05-10\tCoop\t-1000",
		Roles:  []string{"banana"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid role = %d, want 400", rec.Code)
	}
}
