package cases

import "context"

type Repository interface {
	Create(ctx context.Context, c Case) error
	GetByID(ctx context.Context, id string) (Case, error)

	AddPhoto(ctx context.Context, p Photo) error
	ListPhotos(ctx context.Context, caseID string) ([]Photo, error)

	// Delete borra el caso en cascada (fotos y reviews incluidos).
	// Devuelve ErrNotFound si el caso no existe.
	Delete(ctx context.Context, id string) error
}
