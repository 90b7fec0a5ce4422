package cases

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-lostfound/internal/domain/alerts"
	"pet-lostfound/internal/domain/telemetry"
)

// Límite del binario de foto aceptado en memoria.
const maxPhotoBytes = 10 << 20 // 10MB

func RegisterRoutes(r chi.Router, svc *Service, alertsSvc *alerts.Service, eventsSvc *telemetry.Service) {
	// Superficie pública (dueños reportando casos)
	r.Route("/v1/cases", func(cr chi.Router) {
		cr.Post("/", createCaseHandler(svc))
		cr.Post("/{caseID}/photos", uploadPhotoHandler(svc))
	})

	// Superficie interna (consola de privacidad / dashboards)
	r.Route("/internal/cases/{caseID}", func(cr chi.Router) {
		cr.Get("/", getCaseDetailHandler(svc))
		cr.Get("/export", exportCaseHandler(svc, alertsSvc, eventsSvc))
		cr.Delete("/", eraseCaseHandler(svc))
	})
}

type consentPayload struct {
	ShareVectors bool `json:"shareVectors"`
	SharePhotos  bool `json:"sharePhotos"`
}

type createCaseRequest struct {
	UserID   string         `json:"user_id"`
	Type     string         `json:"type"`
	Species  string         `json:"species"`
	Geohash6 string         `json:"geohash6"`
	Consent  consentPayload `json:"consent"`
}

type createCaseResponse struct {
	CaseID string `json:"case_id"`
}

type photoUploadResponse struct {
	PhotoID string `json:"photo_id"`
}

type caseDetail struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Type      string         `json:"type"`
	Species   string         `json:"species"`
	Geohash6  string         `json:"geohash6"`
	Consent   consentPayload `json:"consent"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
}

type photoMetadata struct {
	ID           string    `json:"id"`
	CaseID       string    `json:"case_id"`
	URLEncrypted string    `json:"url_encrypted,omitempty"`
	View         string    `json:"view,omitempty"`
	Hash         string    `json:"hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type caseDetailResponse struct {
	Case   caseDetail      `json:"case"`
	Photos []photoMetadata `json:"photos"`
}

type caseExportResponse struct {
	Case   caseDetail        `json:"case"`
	Photos []photoMetadata   `json:"photos"`
	Alerts []alertExportItem `json:"alerts"`
	Events []eventExportItem `json:"events"`
}

type alertExportItem struct {
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

type eventExportItem struct {
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

type caseEraseResponse struct {
	CaseID  string `json:"case_id"`
	Deleted bool   `json:"deleted"`
}

func createCaseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Create(r.Context(), CreateInput{
			UserID:   req.UserID,
			Type:     req.Type,
			Species:  req.Species,
			Geohash6: req.Geohash6,
			Consent: Consent{
				ShareVectors: req.Consent.ShareVectors,
				SharePhotos:  req.Consent.SharePhotos,
			},
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, createCaseResponse{CaseID: c.ID})
	}
}

func uploadPhotoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID := chi.URLParam(r, "caseID")

		if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file field required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		contents, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		p, err := svc.AddPhoto(r.Context(), caseID, header.Filename, contents, r.FormValue("view"))
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "case not found", http.StatusNotFound)
			case errors.Is(err, ErrEmptyUpload):
				http.Error(w, "empty upload", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, photoUploadResponse{PhotoID: p.ID})
	}
}

func getCaseDetailHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, photos, err := svc.Detail(r.Context(), chi.URLParam(r, "caseID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "case not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, caseDetailResponse{
			Case:   toCaseDetail(c),
			Photos: toPhotoList(photos),
		})
	}
}

// exportCaseHandler arma el payload para tooling de privacidad: caso,
// fotos, y los eventos/alertas recientes (no filtrados por caso; el
// recorte fino lo hace la herramienta downstream).
func exportCaseHandler(svc *Service, alertsSvc *alerts.Service, eventsSvc *telemetry.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, photos, err := svc.Detail(r.Context(), chi.URLParam(r, "caseID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "case not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		recentAlerts, err := alertsSvc.ListRecent(r.Context(), 0)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		recentEvents, err := eventsSvc.ListRecent(r.Context(), 0)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := caseExportResponse{
			Case:   toCaseDetail(c),
			Photos: toPhotoList(photos),
			Alerts: make([]alertExportItem, 0, len(recentAlerts)),
			Events: make([]eventExportItem, 0, len(recentEvents)),
		}
		for _, a := range recentAlerts {
			out.Alerts = append(out.Alerts, alertExportItem{
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
		for _, e := range recentEvents {
			out.Events = append(out.Events, eventExportItem{
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

func eraseCaseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID := chi.URLParam(r, "caseID")
		deleted, err := svc.Erase(r.Context(), caseID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, caseEraseResponse{CaseID: caseID, Deleted: deleted})
	}
}

func toCaseDetail(c Case) caseDetail {
	return caseDetail{
		ID:       c.ID,
		UserID:   c.UserID,
		Type:     string(c.Type),
		Species:  c.Species,
		Geohash6: c.Geohash6,
		Consent: consentPayload{
			ShareVectors: c.Consent.ShareVectors,
			SharePhotos:  c.Consent.SharePhotos,
		},
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		ExpiresAt: c.ExpiresAt,
	}
}

func toPhotoList(photos []Photo) []photoMetadata {
	out := make([]photoMetadata, 0, len(photos))
	for _, p := range photos {
		out = append(out, photoMetadata{
			ID:           p.ID,
			CaseID:       p.CaseID,
			URLEncrypted: p.URLEncrypted,
			View:         p.View,
			Hash:         p.Hash,
			CreatedAt:    p.CreatedAt,
		})
	}
	return out
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// para no extraer helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
