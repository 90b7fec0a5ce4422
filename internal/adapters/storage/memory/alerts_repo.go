package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-lostfound/internal/domain/alerts"
)

type alertsRepo struct {
	mu   sync.RWMutex
	rows []alerts.Alert
}

func NewAlertsRepo() alerts.Repository {
	return &alertsRepo{}
}

func (r *alertsRepo) Create(ctx context.Context, a alerts.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("alert id required")
	}

	r.rows = append(r.rows, a)
	return nil
}

func (r *alertsRepo) ListRecent(ctx context.Context, limit int) ([]alerts.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]alerts.Alert, len(r.rows))
	copy(out, r.rows)

	sort.Slice(out, func(i, j int) bool {
		return out[i].TS.After(out[j].TS)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
