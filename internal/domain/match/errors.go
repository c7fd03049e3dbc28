package match

import crerr "github.com/cockroachdb/errors"

// ErrDataSource marks failures of the underlying store (unreachable, timed
// out, circuit open). Callers treat it as "no records at this level".
var ErrDataSource = crerr.New("data source unavailable")

// MarkDataSource tags err so that errors.Is(err, ErrDataSource) holds while
// keeping the original message and stack.
func MarkDataSource(err error) error {
	if err == nil {
		return nil
	}
	return crerr.Mark(err, ErrDataSource)
}

func IsDataSource(err error) bool {
	return crerr.Is(err, ErrDataSource)
}
