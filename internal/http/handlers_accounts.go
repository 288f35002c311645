package http

import (
	"net/http"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.accounts.Accounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]accountJSON, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, fromAccount(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	account, err := s.accounts.Account(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fromAccount(*account))
}

// handleSaveAccount serves both creation (POST, id from body must be
// zero) and update (PUT, id from path).
func (s *Server) handleSaveAccount(w http.ResponseWriter, r *http.Request) {
	var payload accountJSON
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}

	account := payload.toAccount()
	if r.Method == http.MethodPut {
		id, err := pathID(r)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		account.ID = id
	} else {
		account.ID = 0
	}

	if err := s.accounts.Save(r.Context(), &account); err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, status, fromAccount(account))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.accounts.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAccountBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.balances.AllAccountBalances(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]accountBalanceJSON, 0, len(balances))
	for _, b := range balances {
		out = append(out, accountBalanceJSON{
			AccountID:      b.AccountID,
			AccountName:    b.AccountName,
			CurrentBalance: b.CurrentBalance,
			LastActivity:   b.LastActivity,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
