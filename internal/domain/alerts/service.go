package alerts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

const defaultListLimit = 25

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
	PetID       string
	RoomID      string
	Kind        string
	Severity    string
	State       string
	EvidenceURL string
	TS          time.Time
}

// Record persiste una alerta reportada directamente (playroom), tal cual.
func (s *Service) Record(ctx context.Context, in RecordInput) (Alert, error) {
	if strings.TrimSpace(in.PetID) == "" {
		return Alert{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Kind) == "" || strings.TrimSpace(in.Severity) == "" {
		return Alert{}, ErrInvalidInput
	}
	if in.TS.IsZero() {
		return Alert{}, ErrInvalidInput
	}

	a := Alert{
		ID:          uuid.NewString(),
		PetID:       in.PetID,
		RoomID:      in.RoomID,
		Kind:        in.Kind,
		Severity:    Severity(in.Severity),
		State:       State(in.State),
		EvidenceURL: in.EvidenceURL,
		TS:          in.TS.UTC(),
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Alert{}, err
	}
	return a, nil
}

// CreateFromEvent sintetiza una alerta derivada de un evento:
// estado "open", ts actual, sin room ni evidencia.
func (s *Service) CreateFromEvent(ctx context.Context, petID, kind string, severity Severity) (Alert, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(kind) == "" {
		return Alert{}, ErrInvalidInput
	}
	if severity != SeverityModerate && severity != SeverityHigh {
		return Alert{}, ErrInvalidInput
	}

	now := s.now()
	a := Alert{
		ID:        uuid.NewString(),
		PetID:     petID,
		Kind:      kind,
		Severity:  severity,
		State:     StateOpen,
		TS:        now.UTC(),
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Alert{}, err
	}
	return a, nil
}

// ListRecent devuelve las alertas más recientes (orden ts desc).
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Alert, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
