package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"github.com/riskibarqy/cricket-context/internal/domain/match"
)

const pqQueryCanceled = "57014"

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isQueryCanceled matches statement_timeout and pg_cancel_backend failures.
func isQueryCanceled(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqQueryCanceled
	}
	return false
}

// wrapQueryError marks every read failure as a data-source error. Server-side
// cancellations are additionally marked as deadline errors.
func wrapQueryError(op string, err error) error {
	if isQueryCanceled(err) {
		err = crerr.Mark(err, context.DeadlineExceeded)
	}
	return match.MarkDataSource(fmt.Errorf("%s: %w", op, err))
}

func finiteOrZero(v sql.NullFloat64) float64 {
	if !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
		return 0
	}
	return v.Float64
}
