package search

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/v1/search", searchHandler(svc))
}

type searchRequest struct {
	CaseID string `json:"case_id"`
	// Puntero para distinguir "omitido" (=> default) de 0 explícito (=> 422).
	TopK *int `json:"top_k"`
}

type candidateItem struct {
	PetID string  `json:"pet_id"`
	Score float64 `json:"score"`
	Band  string  `json:"band"`
}

type searchResponse struct {
	Candidates []candidateItem `json:"candidates"`
}

func searchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		topK := DefaultTopK
		if req.TopK != nil {
			topK = *req.TopK
		}
		if topK <= 0 {
			http.Error(w, "top_k must be positive", http.StatusUnprocessableEntity)
			return
		}

		candidates, err := svc.Search(r.Context(), req.CaseID, topK)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := searchResponse{Candidates: make([]candidateItem, 0, len(candidates))}
		for _, c := range candidates {
			out.Candidates = append(out.Candidates, candidateItem{
				PetID: c.PetID,
				Score: c.Score,
				Band:  string(c.Band),
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
