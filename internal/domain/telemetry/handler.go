package telemetry

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/internal/events", listEventsHandler(svc))
}

type eventItem struct {
	ID        string         `json:"id"`
	Source    string         `json:"source"`
	PetID     string         `json:"pet_id"`
	Type      string         `json:"type"`
	TS        time.Time      `json:"ts"`
	DurationS *float64       `json:"duration_s"`
	Conf      *float64       `json:"conf"`
	Payload   map[string]any `json:"payload_json"`
	CreatedAt time.Time      `json:"created_at"`
}

type eventsResponse struct {
	Events []eventItem `json:"events"`
}

func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListRecent(r.Context(), 0)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := eventsResponse{Events: make([]eventItem, 0, len(items))}
		for _, e := range items {
			out.Events = append(out.Events, eventItem{
				ID:        e.ID,
				Source:    e.Source,
				PetID:     e.PetID,
				Type:      e.Type,
				TS:        e.TS,
				DurationS: e.DurationS,
				Conf:      e.Conf,
				Payload:   e.Payload,
				CreatedAt: e.CreatedAt,
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
