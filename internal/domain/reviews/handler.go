package reviews

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-lostfound/internal/domain/cases"
)

func RegisterRoutes(r chi.Router, svc *Service, casesSvc *cases.Service) {
	r.Route("/internal/cases/{caseID}/reviews", func(rr chi.Router) {
		rr.Get("/", listReviewsHandler(svc))
		rr.Post("/", recordReviewHandler(svc, casesSvc))
	})
}

type candidateDecisionRequest struct {
	CandidatePetID string  `json:"candidate_pet_id"`
	Band           string  `json:"band"`
	Score          float64 `json:"score"`
	Decision       string  `json:"decision"`
}

type recordReviewResponse struct {
	ReviewID string `json:"review_id"`
}

type reviewItem struct {
	ID             string    `json:"id"`
	CaseID         string    `json:"case_id"`
	CandidatePetID string    `json:"candidate_pet_id"`
	Decision       string    `json:"decision"`
	Band           string    `json:"band"`
	Score          float64   `json:"score"`
	CreatedAt      time.Time `json:"created_at"`
}

type reviewListResponse struct {
	Reviews []reviewItem `json:"reviews"`
}

func recordReviewHandler(svc *Service, casesSvc *cases.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID := chi.URLParam(r, "caseID")

		// El caso tiene que existir antes de aceptar decisiones.
		if _, err := casesSvc.GetByID(r.Context(), caseID); err != nil {
			if errors.Is(err, cases.ErrNotFound) {
				http.Error(w, "case not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		var req candidateDecisionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rev, err := svc.Record(r.Context(), caseID, RecordInput{
			CandidatePetID: req.CandidatePetID,
			Decision:       req.Decision,
			Band:           req.Band,
			Score:          req.Score,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, recordReviewResponse{ReviewID: rev.ID})
	}
}

func listReviewsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByCase(r.Context(), chi.URLParam(r, "caseID"), 0)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := reviewListResponse{Reviews: make([]reviewItem, 0, len(items))}
		for _, rev := range items {
			out.Reviews = append(out.Reviews, reviewItem{
				ID:             rev.ID,
				CaseID:         rev.CaseID,
				CandidatePetID: rev.CandidatePetID,
				Decision:       string(rev.Decision),
				Band:           string(rev.Band),
				Score:          rev.Score,
				CreatedAt:      rev.CreatedAt,
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
