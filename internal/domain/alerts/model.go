package alerts

import "time"

// Severity es la urgencia de la alerta. Las derivadas del motor de
// anomalías usan moderate/high; las de playroom se guardan tal cual llegan.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// State del ciclo de vida. Las alertas nuevas nacen "open";
// transiciones posteriores quedan fuera de este núcleo.
type State string

const (
	StateOpen State = "open"
)

const (
	// KindLitterAnomaly es el kind de las alertas sintetizadas
	// desde eventos de arenero.
	KindLitterAnomaly = "litter-anomaly"
)

// Alert es una señal que requiere atención: o reportada directamente por
// un playroom de guardería, o derivada de un evento por el motor de reglas.
// Las derivadas no llevan evidence_url ni room_id, y no guardan FK al
// evento que las disparó (la trazabilidad es por pet_id + ts).
type Alert struct {
	ID    string
	PetID string

	RoomID   string // solo playroom
	Kind     string
	Severity Severity
	State    State

	EvidenceURL string // solo playroom

	TS        time.Time
	CreatedAt time.Time
}
