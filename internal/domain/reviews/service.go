package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-lostfound/internal/domain/search"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

const defaultListLimit = 20

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RecordInput struct {
	CandidatePetID string
	Decision       string
	Band           string
	Score          float64
}

func (s *Service) Record(ctx context.Context, caseID string, in RecordInput) (Review, error) {
	if strings.TrimSpace(caseID) == "" {
		return Review{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.CandidatePetID) == "" {
		return Review{}, ErrInvalidInput
	}

	decision := Decision(in.Decision)
	if decision != DecisionConfirmed && decision != DecisionRejected {
		return Review{}, ErrInvalidInput
	}
	band := search.Band(in.Band)
	if band != search.BandStrong && band != search.BandModerate && band != search.BandWeak {
		return Review{}, ErrInvalidInput
	}

	r := Review{
		ID:             uuid.NewString(),
		CaseID:         caseID,
		CandidatePetID: in.CandidatePetID,
		Decision:       decision,
		Band:           band,
		Score:          in.Score,
		CreatedAt:      s.now(),
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return Review{}, err
	}
	return r, nil
}

// ListByCase devuelve el historial de reviews del caso (más recientes primero).
func (s *Service) ListByCase(ctx context.Context, caseID string, limit int) ([]Review, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.ListByCase(ctx, strings.TrimSpace(caseID), limit)
}
