package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-lostfound/internal/domain/reviews"
)

type reviewsRepo struct {
	mu   sync.RWMutex
	byID map[string]reviews.Review
}

func NewReviewsRepo() reviews.Repository {
	return &reviewsRepo{
		byID: make(map[string]reviews.Review),
	}
}

func (r *reviewsRepo) Create(ctx context.Context, rev reviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rev.ID == "" {
		return errors.New("review id required")
	}
	if _, exists := r.byID[rev.ID]; exists {
		return errors.New("review already exists")
	}

	r.byID[rev.ID] = rev
	return nil
}

func (r *reviewsRepo) ListByCase(ctx context.Context, caseID string, limit int) ([]reviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reviews.Review, 0)
	for _, rev := range r.byID {
		if rev.CaseID == caseID {
			out = append(out, rev)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteByCase replica en memoria la cascada que en Postgres hace la FK.
func (r *reviewsRepo) DeleteByCase(ctx context.Context, caseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rev := range r.byID {
		if rev.CaseID == caseID {
			delete(r.byID, id)
		}
	}
	return nil
}
