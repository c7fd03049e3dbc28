package precomputed

import "context"

// Repository reads materialised lookup rows. FindLatest returns the most
// recently computed row matching q.
type Repository interface {
	FindLatest(ctx context.Context, q Query) (Row, bool, error)
}
