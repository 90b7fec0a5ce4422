// Package memory implementa los repositorios en memoria: modo dev y tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-lostfound/internal/domain/cases"
	"pet-lostfound/internal/domain/reviews"
)

type casesRepo struct {
	mu     sync.RWMutex
	byID   map[string]cases.Case
	photos map[string][]cases.Photo // caseID -> fotos en orden de alta

	// reviews participa de la cascada del erase (en Postgres lo hace la FK).
	reviews reviews.Repository
}

func NewCasesRepo(reviewsRepo reviews.Repository) cases.Repository {
	return &casesRepo{
		byID:    make(map[string]cases.Case),
		photos:  make(map[string][]cases.Photo),
		reviews: reviewsRepo,
	}
}

func (r *casesRepo) Create(ctx context.Context, c cases.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		return errors.New("case id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("case already exists")
	}

	r.byID[c.ID] = c
	return nil
}

func (r *casesRepo) GetByID(ctx context.Context, id string) (cases.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return cases.Case{}, cases.ErrNotFound
	}
	return c, nil
}

func (r *casesRepo) AddPhoto(ctx context.Context, p cases.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.CaseID]; !ok {
		return cases.ErrNotFound
	}
	r.photos[p.CaseID] = append(r.photos[p.CaseID], p)
	return nil
}

func (r *casesRepo) ListPhotos(ctx context.Context, caseID string) ([]cases.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]cases.Photo, len(r.photos[caseID]))
	copy(out, r.photos[caseID])

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *casesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return cases.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.photos, id) // cascada: fotos fuera junto con el caso

	if r.reviews != nil {
		return r.reviews.DeleteByCase(ctx, id)
	}
	return nil
}
