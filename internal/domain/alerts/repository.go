package alerts

import "context"

type Repository interface {
	Create(ctx context.Context, a Alert) error
	ListRecent(ctx context.Context, limit int) ([]Alert, error)
}
