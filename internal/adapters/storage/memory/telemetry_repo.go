package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-lostfound/internal/domain/telemetry"
)

type telemetryRepo struct {
	mu   sync.RWMutex
	rows []telemetry.Event
}

func NewTelemetryRepo() telemetry.Repository {
	return &telemetryRepo{}
}

func (r *telemetryRepo) Create(ctx context.Context, e telemetry.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("event id required")
	}

	// Los eventos son inmutables: se agregan, nunca se reemplazan.
	r.rows = append(r.rows, e)
	return nil
}

func (r *telemetryRepo) ListRecent(ctx context.Context, limit int) ([]telemetry.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]telemetry.Event, len(r.rows))
	copy(out, r.rows)

	sort.Slice(out, func(i, j int) bool {
		return out[i].TS.After(out[j].TS)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
