package http

import (
	"net/http"

	"moneyrec/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	period, start, end, err := parsePeriod(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var items []core.Transaction
	if r.URL.Query().Has("period") {
		rangeStart, rangeEnd := core.DateRange(period, start, end)
		items, err = s.transactions.ByDateRange(r.Context(), rangeStart, rangeEnd)
	} else {
		items, err = s.transactions.Transactions(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fromTransactions(items))
}

func (s *Server) handleSaveTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionJSON
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}

	transaction := payload.toTransaction()
	if r.Method == http.MethodPut {
		id, err := pathID(r)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		transaction.ID = id
	} else {
		transaction.ID = 0
	}

	if err := s.transactions.Save(r.Context(), &transaction); err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, status, fromTransaction(transaction))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.transactions.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
