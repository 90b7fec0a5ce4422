package search

// Band agrupa el score del candidato en franjas para la UI.
type Band string

const (
	BandStrong   Band = "strong"
	BandModerate Band = "moderate"
	BandWeak     Band = "weak"
)

// Candidate es un resultado pre-rankeado que devuelve el scorer externo.
type Candidate struct {
	PetID string
	Score float64
	Band  Band
}
