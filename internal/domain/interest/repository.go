package interest

import "context"

type Repository interface {
	Create(ctx context.Context, r *Rule) error
	// List returns every rule in table order.
	List(ctx context.Context) ([]Rule, error)
}
