package alerts

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/internal/alerts", listAlertsHandler(svc))

	// Alias legacy que todavía consumen los prototipos viejos de UI.
	r.Get("/alerts.json", listAlertsHandler(svc))
}

type alertItem struct {
	ID          string    `json:"id"`
	PetID       string    `json:"pet_id"`
	RoomID      string    `json:"room_id,omitempty"`
	Kind        string    `json:"kind"`
	Severity    string    `json:"severity"`
	State       string    `json:"state"`
	EvidenceURL string    `json:"evidence_url,omitempty"`
	TS          time.Time `json:"ts"`
	CreatedAt   time.Time `json:"created_at"`
}

type alertsResponse struct {
	Alerts []alertItem `json:"alerts"`
}

func listAlertsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListRecent(r.Context(), 0)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := alertsResponse{Alerts: make([]alertItem, 0, len(items))}
		for _, a := range items {
			out.Alerts = append(out.Alerts, alertItem{
				ID:          a.ID,
				PetID:       a.PetID,
				RoomID:      a.RoomID,
				Kind:        a.Kind,
				Severity:    string(a.Severity),
				State:       string(a.State),
				EvidenceURL: a.EvidenceURL,
				TS:          a.TS,
				CreatedAt:   a.CreatedAt,
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
