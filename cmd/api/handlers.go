package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stonktronk/internal/domain/portfolio"
)

type addHoldingRequest struct {
	Ticker        string  `json:"ticker"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchase_price"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *server) handleListHoldings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Holdings())
}

func (s *server) handleAddHolding(w http.ResponseWriter, r *http.Request) {
	var in addHoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	h, err := s.svc.AddHolding(r.Context(), in.Ticker, in.Shares, in.PurchasePrice)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, h)
}

func (s *server) handleRemoveHolding(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.RemoveHolding(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func (s *server) handleValuation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Value(r.Context()))
}

func (s *server) handleLookup(w http.ResponseWriter, r *http.Request) {
	q, err := s.svc.Lookup(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, portfolio.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, portfolio.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, portfolio.ErrProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
