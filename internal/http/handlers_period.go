package http

import (
	"net/http"
	"strings"
	"time"

	applog "hushall/internal/log"
)

func (s *Server) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := s.budget.Periods(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]periodJSON, len(periods))
	for i, p := range periods {
		out[i] = toPeriodJSON(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePeriod(w http.ResponseWriter, r *http.Request) {
	var req createPeriodRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(req.Author) == "" {
		badRequest(w, "author is required")
		return
	}

	from, err := time.Parse("2006-01-02", req.FromDate)
	if err != nil {
		badRequest(w, "fromDate must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", req.ToDate)
	if err != nil {
		badRequest(w, "toDate must be YYYY-MM-DD")
		return
	}

	p, err := s.budget.CreatePeriod(r.Context(), req.Author, req.Members, from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.InfoContext(r.Context(), "Period created",
		applog.FieldPeriodID, p.ID,
		applog.FieldAuthor, p.Author)
	writeJSON(w, http.StatusCreated, toPeriodJSON(p))
}

func (s *Server) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	p, err := s.budget.PeriodByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodJSON(p))
}

func (s *Server) handleDeletePeriod(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.budget.DeletePeriod(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	s.summaryCache.Delete(id)
	s.logger.InfoContext(r.Context(), "Period deleted", applog.FieldPeriodID, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if cached, ok := s.summaryCache.Get(id); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	// The summary endpoint recomputes from live transactions; the cached
	// totals on the period itself are for listings only.
	if _, err := s.budget.PeriodByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	summary, err := s.budget.Summary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	out := toSummaryJSON(summary)
	s.summaryCache.Set(id, out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMemberSummaries(w http.ResponseWriter, r *http.Request) {
	members, err := s.budget.MemberSummaries(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberSummaryJSON(members))
}

func (s *Server) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	if _, err := s.budget.PeriodByID(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	ids, err := s.budget.DuplicateIDs(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, duplicatesResponse{DuplicateIDs: ids})
}
