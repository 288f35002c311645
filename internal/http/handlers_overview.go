package http

import (
	"net/http"
	"strconv"
	"strings"

	"moneyrec/internal/core"
	"moneyrec/internal/services"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	period, start, end, err := parsePeriod(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	mode := core.GroupNone
	if v := strings.TrimSpace(r.URL.Query().Get("grouping")); v != "" {
		mode = core.GroupingMode(v)
		if !mode.Valid() {
			badRequest(w, "invalid grouping "+strconv.Quote(v))
			return
		}
	}

	order := services.SortDateDesc
	if v := strings.TrimSpace(r.URL.Query().Get("sort")); v != "" {
		switch services.SortOrder(v) {
		case services.SortDateDesc, services.SortDateAsc:
			order = services.SortOrder(v)
		default:
			badRequest(w, "invalid sort "+strconv.Quote(v))
			return
		}
	}

	overview, err := s.overview.Load(r.Context(), period, start, end, mode, order)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fromOverview(overview))
}

// handleReport serves category breakdowns; the path names the side of
// the ledger to break down (expense or income).
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var typ core.TransactionType
	switch r.PathValue("type") {
	case "expense":
		typ = core.TypeExpense
	case "income":
		typ = core.TypeIncome
	default:
		badRequest(w, "report type must be expense or income")
		return
	}

	period, start, end, err := parsePeriod(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	shares, err := s.reports.CategoryBreakdown(r.Context(), typ, period, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fromCategoryShares(shares))
}
