// Package edge contiene el pipeline de ingesta: validación de payloads
// del bus, persistencia y evaluación de anomalías.
package edge

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidationError describe un payload inválido con el campo y la razón.
// Un payload inválido se loguea y se descarta: el retry no lo arregla.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// LitterEvent es el payload validado de la familia events.litter.*.
type LitterEvent struct {
	PetID     string
	Type      string
	TS        time.Time
	DurationS float64
	Conf      float64
	Payload   map[string]any
}

// PlayroomAlert es el payload validado de la familia playroom.alerts.*.
type PlayroomAlert struct {
	PetID       string
	RoomID      string
	Kind        string
	Severity    string
	State       string
	EvidenceURL string
	TS          time.Time
}

// Esquemas explícitos por tipo de mensaje: punteros para distinguir
// "campo ausente" de "zero value". Nada de reflection.
type litterEventWire struct {
	PetID     *string        `json:"pet_id"`
	Type      *string        `json:"type"`
	TS        *string        `json:"ts"`
	DurationS *float64       `json:"duration_s"`
	Conf      *float64       `json:"conf"`
	Payload   map[string]any `json:"payload"`
}

type playroomAlertWire struct {
	PetID       *string `json:"pet_id"`
	RoomID      *string `json:"room_id"`
	Kind        *string `json:"kind"`
	Severity    *string `json:"severity"`
	State       *string `json:"state"`
	EvidenceURL *string `json:"evidence_url"`
	TS          *string `json:"ts"`
}

// ParseLitterEvent valida estructuralmente un evento litter/feeder.
// Sin efectos: o devuelve el evento tipado o un *ValidationError.
func ParseLitterEvent(data []byte) (LitterEvent, error) {
	var w litterEventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return LitterEvent{}, decodeError(err)
	}

	if w.PetID == nil || strings.TrimSpace(*w.PetID) == "" {
		return LitterEvent{}, invalid("pet_id", "required non-empty string")
	}
	if w.Type == nil || strings.TrimSpace(*w.Type) == "" {
		return LitterEvent{}, invalid("type", "required non-empty string")
	}
	ts, verr := parseTimestamp("ts", w.TS)
	if verr != nil {
		return LitterEvent{}, verr
	}
	if w.DurationS == nil {
		return LitterEvent{}, invalid("duration_s", "required")
	}
	if *w.DurationS < 0 {
		return LitterEvent{}, invalid("duration_s", "must be >= 0")
	}
	if w.Conf == nil {
		return LitterEvent{}, invalid("conf", "required")
	}

	payload := w.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	return LitterEvent{
		PetID:     *w.PetID,
		Type:      *w.Type,
		TS:        ts,
		DurationS: *w.DurationS,
		Conf:      *w.Conf, // no se clampa: rango [0,1] es recomendado, no exigido
		Payload:   payload,
	}, nil
}

// ParsePlayroomAlert valida estructuralmente una alerta de playroom.
func ParsePlayroomAlert(data []byte) (PlayroomAlert, error) {
	var w playroomAlertWire
	if err := json.Unmarshal(data, &w); err != nil {
		return PlayroomAlert{}, decodeError(err)
	}

	for field, v := range map[string]*string{
		"pet_id":   w.PetID,
		"room_id":  w.RoomID,
		"kind":     w.Kind,
		"severity": w.Severity,
		"state":    w.State,
	} {
		if v == nil || strings.TrimSpace(*v) == "" {
			return PlayroomAlert{}, invalid(field, "required non-empty string")
		}
	}

	if w.EvidenceURL == nil {
		return PlayroomAlert{}, invalid("evidence_url", "required")
	}
	u, err := url.Parse(*w.EvidenceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return PlayroomAlert{}, invalid("evidence_url", "must be an absolute URL")
	}

	ts, verr := parseTimestamp("ts", w.TS)
	if verr != nil {
		return PlayroomAlert{}, verr
	}

	return PlayroomAlert{
		PetID:       *w.PetID,
		RoomID:      *w.RoomID,
		Kind:        *w.Kind,
		Severity:    *w.Severity,
		State:       *w.State,
		EvidenceURL: *w.EvidenceURL,
		TS:          ts,
	}, nil
}

func parseTimestamp(field string, raw *string) (time.Time, *ValidationError) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return time.Time{}, invalid(field, "required")
	}
	ts, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return time.Time{}, invalid(field, "must be an RFC3339 UTC timestamp")
	}
	return ts.UTC(), nil
}

// decodeError traduce errores de json a ValidationError con el path del
// campo cuando el tipo no matchea.
func decodeError(err error) *ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return invalid(typeErr.Field, fmt.Sprintf("expected %s", typeErr.Type))
	}
	return invalid("(body)", "malformed json")
}
