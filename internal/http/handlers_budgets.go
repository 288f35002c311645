package http

import (
	"net/http"
)

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.budgets.Budgets(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]budgetJSON, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, fromBudget(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSaveBudget(w http.ResponseWriter, r *http.Request) {
	var payload budgetJSON
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}

	budget := payload.toBudget()
	budget.ID = 0
	if err := s.budgets.Save(r.Context(), &budget); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fromBudget(budget))
}

// handleUpdateBudgetLimit changes only the limit of an existing budget.
func (s *Server) handleUpdateBudgetLimit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var payload struct {
		LimitAmount positiveAmount `json:"limit_amount"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.budgets.UpdateLimit(r.Context(), id, payload.LimitAmount.Decimal); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.budgets.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	period, start, end, err := parsePeriod(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	overview, err := s.budgets.Progress(r.Context(), period, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := budgetOverviewJSON{
		Budgets:    make([]budgetProgressJSON, 0, len(overview.Budgets)),
		TotalLimit: overview.TotalLimit,
		TotalSpent: overview.TotalSpent,
	}
	for _, p := range overview.Budgets {
		out.Budgets = append(out.Budgets, fromBudgetProgress(p))
	}
	writeJSON(w, http.StatusOK, out)
}
