package search

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// DefaultTopK se usa cuando el request no trae top_k.
const DefaultTopK = 10

// Scorer es el ranking visual externo. Acá es opaco: devuelve candidatos
// ya ordenados y este servicio solo corta el top-K.
type Scorer interface {
	Candidates(ctx context.Context, caseID string) ([]Candidate, error)
}

type Service struct {
	scorer Scorer
}

func NewService(scorer Scorer) *Service {
	return &Service{scorer: scorer}
}

// Search devuelve los primeros topK candidatos para el caso.
func (s *Service) Search(ctx context.Context, caseID string, topK int) ([]Candidate, error) {
	if strings.TrimSpace(caseID) == "" {
		return nil, ErrInvalidInput
	}
	if topK <= 0 {
		return nil, ErrInvalidInput
	}

	out, err := s.scorer.Candidates(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}
