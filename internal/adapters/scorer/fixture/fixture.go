// Package fixture implementa el scorer de búsqueda contra un JSON local
// de candidatos pre-rankeados. Es el default en dev y tests: el ranking
// real corre en un servicio externo.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"pet-lostfound/internal/domain/search"
	"pet-lostfound/internal/platform/logger"
)

type Scorer struct {
	path string
	log  logger.Logger

	once       sync.Once
	loadErr    error
	candidates []search.Candidate
}

func New(path string, log logger.Logger) *Scorer {
	if log == nil {
		log = logger.Nop()
	}
	return &Scorer{path: path, log: log}
}

type candidateFile struct {
	PetID string  `json:"pet_id"`
	Score float64 `json:"score"`
	Band  string  `json:"band"`
}

// Candidates devuelve los candidatos del fixture, ya ordenados.
// El archivo se lee una sola vez; si no existe, lista vacía (igual
// que en dev sin fixtures cargados) con un warning para que un
// search_fixture mal configurado no pase desapercibido.
func (s *Scorer) Candidates(ctx context.Context, caseID string) ([]search.Candidate, error) {
	s.once.Do(s.load)
	if s.loadErr != nil {
		return nil, s.loadErr
	}

	out := make([]search.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out, nil
}

func (s *Scorer) load() {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.log.Warn("search fixture not found, serving empty candidates", map[string]any{
			"path": s.path,
		})
		s.candidates = []search.Candidate{}
		return
	}
	if err != nil {
		s.loadErr = fmt.Errorf("read search fixture: %w", err)
		return
	}

	var rows []candidateFile
	if err := json.Unmarshal(raw, &rows); err != nil {
		s.loadErr = fmt.Errorf("parse search fixture: %w", err)
		return
	}

	s.candidates = make([]search.Candidate, 0, len(rows))
	for _, row := range rows {
		s.candidates = append(s.candidates, search.Candidate{
			PetID: row.PetID,
			Score: row.Score,
			Band:  search.Band(row.Band),
		})
	}
}
