package reviews

import (
	"time"

	"pet-lostfound/internal/domain/search"
)

// Decision del revisor sobre un candidato.
type Decision string

const (
	DecisionConfirmed Decision = "confirmed"
	DecisionRejected  Decision = "rejected"
)

// Review registra la decisión de un revisor sobre un candidato de búsqueda.
type Review struct {
	ID     string
	CaseID string

	CandidatePetID string
	Decision       Decision
	Band           search.Band
	Score          float64

	CreatedAt time.Time
}
