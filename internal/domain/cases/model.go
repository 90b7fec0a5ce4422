package cases

import "time"

// CaseType define la naturaleza del caso.
// @Enum lost, found
type CaseType string

const (
	TypeLost  CaseType = "lost"
	TypeFound CaseType = "found"
)

// Status del caso. Solo "open" por ahora; el cierre llega con el matching.
type Status string

const (
	StatusOpen Status = "open"
)

// Consent son los flags de privacidad que controlan qué se comparte
// con otros casos durante la búsqueda.
type Consent struct {
	ShareVectors bool
	SharePhotos  bool
}

// Case representa un reporte de mascota perdida o encontrada.
type Case struct {
	ID     string
	UserID string

	Type     CaseType
	Species  string
	Geohash6 string // ubicación aproximada, geohash de 6 a 12 chars

	Consent Consent
	Status  Status

	CreatedAt time.Time
	ExpiresAt *time.Time
}

// Photo es metadata de una foto subida a un caso.
// El binario no se guarda acá: solo el hash y la URL sintetizada.
type Photo struct {
	ID     string
	CaseID string

	URLEncrypted string
	View         string // front, side, etc. (libre)
	Hash         string // sha256 del contenido

	CreatedAt time.Time
}
