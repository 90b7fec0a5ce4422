package telemetry

import "context"

type Repository interface {
	Create(ctx context.Context, e Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
