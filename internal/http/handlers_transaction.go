package http

import (
	"net/http"
	"time"

	"hushall/internal/core"
	applog "hushall/internal/log"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.budget.PeriodByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	txs, err := s.budget.TransactionsForPeriod(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionListJSON(txs))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		badRequest(w, "date must be YYYY-MM-DD")
		return
	}

	periodID := r.PathValue("id")
	saved, err := s.budget.AddTransaction(r.Context(), core.Transaction{
		PeriodID: periodID,
		Author:   req.Author,
		Label:    req.Label,
		Amount:   req.Amount,
		Category: core.Category(req.Category),
		Date:     date,
		Shared:   req.Shared,
		Optional: req.Optional,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.summaryCache.Delete(periodID)
	s.logger.InfoContext(r.Context(), "Transaction created",
		applog.FieldPeriodID, periodID,
		applog.FieldLabel, saved.Label,
		applog.FieldAmount, saved.Amount,
		applog.FieldCategory, saved.Category)
	writeJSON(w, http.StatusCreated, toTransactionJSON(saved))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.budget.UpdateTransaction(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	s.summaryCache.Delete(updated.PeriodID)
	writeJSON(w, http.StatusOK, toTransactionJSON(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Resolve the period first so the right summary cache entry goes.
	t, err := s.budget.TransactionByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.budget.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	s.summaryCache.Delete(t.PeriodID)
	w.WriteHeader(http.StatusNoContent)
}
