package http

import (
	"net/http"
	"strings"

	"hushall/internal/core"
	"hushall/internal/importer"
	applog "hushall/internal/log"
)

func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	var req importPreviewRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(req.Author) == "" {
		badRequest(w, "author is required")
		return
	}

	roles, err := parseRoles(req.Roles)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	periodID := r.PathValue("id")
	candidates, dropped, err := s.budget.ImportPreview(r.Context(), periodID, req.Author, req.Text, req.AutoFormat, roles)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, importPreviewResponse{
		Candidates: toTransactionListJSON(candidates),
		Dropped:    dropped,
	})
}

func (s *Server) handleImportCommit(w http.ResponseWriter, r *http.Request) {
	var req importCommitRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	periodID := r.PathValue("id")
	if _, err := s.budget.PeriodByID(r.Context(), periodID); err != nil {
		writeError(w, err)
		return
	}

	candidates := make([]core.Transaction, len(req.Transactions))
	for i, tj := range req.Transactions {
		t, err := tj.toDomain()
		if err != nil {
			writeError(w, err)
			return
		}
		t.PeriodID = periodID
		candidates[i] = t
	}

	n, err := s.budget.CommitImport(r.Context(), candidates)
	if err != nil {
		writeError(w, err)
		return
	}

	s.summaryCache.Delete(periodID)
	s.logger.InfoContext(r.Context(), "Import committed",
		applog.FieldPeriodID, periodID,
		applog.FieldCount, n)
	writeJSON(w, http.StatusCreated, importCommitResponse{Committed: n})
}

func parseRoles(raw []string) ([]importer.Role, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	roles := make([]importer.Role, len(raw))
	for i, r := range raw {
		switch role := importer.Role(r); role {
		case importer.RoleDate, importer.RoleLabel, importer.RoleAmount, importer.RoleNone:
			roles[i] = role
		default:
			return nil, errInvalidRole(r)
		}
	}
	return roles, nil
}

type errInvalidRole string

func (e errInvalidRole) Error() string {
	return "invalid column role: " + string(e)
}
