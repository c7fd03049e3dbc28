package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/cricket-context/internal/domain/precomputed"
)

type LookupRepository struct {
	mu   sync.RWMutex
	rows []precomputed.Row
}

func NewLookupRepository(rows []precomputed.Row) *LookupRepository {
	return &LookupRepository{rows: append([]precomputed.Row(nil), rows...)}
}

func (r *LookupRepository) Append(rows ...precomputed.Row) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows = append(r.rows, rows...)
}

// FindLatest prefers the newest computed_at; ties go to the row appended last.
func (r *LookupRepository) FindLatest(ctx context.Context, q precomputed.Query) (precomputed.Row, bool, error) {
	if err := ctx.Err(); err != nil {
		return precomputed.Row{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best  precomputed.Row
		found bool
	)
	for _, row := range r.rows {
		if !q.Matches(row) {
			continue
		}
		if !found || !row.ComputedAt.Before(best.ComputedAt) {
			best = row
			found = true
		}
	}
	return best, found, nil
}
