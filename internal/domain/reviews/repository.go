package reviews

import "context"

type Repository interface {
	Create(ctx context.Context, r Review) error
	ListByCase(ctx context.Context, caseID string, limit int) ([]Review, error)

	// DeleteByCase borra las reviews del caso. Lo invoca la cascada del
	// erase; borrar un caso sin reviews no es error.
	DeleteByCase(ctx context.Context, caseID string) error
}
