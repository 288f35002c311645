package http

import (
	"net/http"
)

func (s *Server) handleListTransfers(w http.ResponseWriter, r *http.Request) {
	transfers, err := s.transfers.Transfers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]transferJSON, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, fromTransfer(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	transfer, err := s.transfers.Transfer(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fromTransfer(*transfer))
}

func (s *Server) handleSaveTransfer(w http.ResponseWriter, r *http.Request) {
	var payload transferJSON
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}

	transfer := payload.toTransfer()
	if r.Method == http.MethodPut {
		id, err := pathID(r)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		transfer.ID = id
	} else {
		transfer.ID = 0
	}

	if err := s.transfers.Save(r.Context(), &transfer); err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, status, fromTransfer(transfer))
}

func (s *Server) handleDeleteTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.transfers.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
