package telemetry

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

const defaultListLimit = 50

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
	PetID     string
	Type      string
	TS        time.Time
	DurationS *float64
	Conf      *float64
	Payload   map[string]any
}

// Record persiste un evento tal cual llegó del bus. Bajo redelivery
// at-least-once pueden quedar filas duplicadas: no se deduplica acá.
func (s *Service) Record(ctx context.Context, source string, in RecordInput) (Event, error) {
	if strings.TrimSpace(source) == "" {
		return Event{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.PetID) == "" || strings.TrimSpace(in.Type) == "" {
		return Event{}, ErrInvalidInput
	}
	if in.TS.IsZero() {
		return Event{}, ErrInvalidInput
	}

	payload := in.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	e := Event{
		ID:        uuid.NewString(),
		Source:    source,
		PetID:     in.PetID,
		Type:      in.Type,
		TS:        in.TS.UTC(),
		DurationS: in.DurationS,
		Conf:      in.Conf,
		Payload:   payload,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// ListRecent devuelve los eventos más recientes (orden ts desc).
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
