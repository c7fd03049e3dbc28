package httpapi

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-context/internal/usecase"
)

var cutoffLayouts = []string{time.RFC3339, "2006-01-02"}

// queryReader collects the first parse failure so handlers check once.
type queryReader struct {
	values url.Values
	err    error
}

func newQueryReader(values url.Values) *queryReader {
	return &queryReader{values: values}
}

func (q *queryReader) String(key string) string {
	return strings.TrimSpace(q.values.Get(key))
}

func (q *queryReader) Int(key string) int {
	raw := q.String(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(fmt.Errorf("%s must be an integer", key))
		return 0
	}
	return v
}

// RequiredInt is Int for parameters with no meaningful default.
func (q *queryReader) RequiredInt(key string) int {
	if q.String(key) == "" {
		q.fail(fmt.Errorf("%s is required", key))
		return 0
	}
	return q.Int(key)
}

func (q *queryReader) Bool(key string) bool {
	raw := q.String(key)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(fmt.Errorf("%s must be a boolean", key))
		return false
	}
	return v
}

func (q *queryReader) Time(key string) time.Time {
	raw := q.String(key)
	if raw == "" {
		return time.Time{}
	}
	t, err := parseCutoff(raw)
	if err != nil {
		q.fail(fmt.Errorf("%s: %w", key, err))
	}
	return t
}

func (q *queryReader) Err() error {
	if q.err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, q.err)
}

func (q *queryReader) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

func parseCutoff(raw string) (time.Time, error) {
	for _, layout := range cutoffLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("expected RFC3339 or YYYY-MM-DD")
}

type contextParams struct {
	Venue   string    `validate:"required"`
	League  string    `validate:"omitempty,max=200"`
	Before  time.Time `validate:"required"`
	Relaxed bool
}

func readContextParams(q *queryReader) contextParams {
	return contextParams{
		Venue:   q.String("venue"),
		League:  q.String("league"),
		Before:  q.Time("before"),
		Relaxed: q.Bool("relaxed"),
	}
}

type resourceRequest struct {
	contextParams
	Innings int `validate:"oneof=1 2"`
	Over    int
	Wickets int
}

type resourceTableRequest struct {
	contextParams
	Innings int `validate:"oneof=1 2"`
}

type winProbabilityRequest struct {
	contextParams
	Target  int `validate:"gte=0"`
	Over    int
	Ball    int
	Wickets int
	Score   int
}

func (r winProbabilityRequest) toQuery() usecase.WinProbabilityQuery {
	return usecase.WinProbabilityQuery{
		Venue:   r.Venue,
		League:  r.League,
		Target:  r.Target,
		Over:    r.Over,
		Ball:    r.Ball,
		Wickets: r.Wickets,
		Score:   r.Score,
		Before:  r.Before,
		Relaxed: r.Relaxed,
	}
}

type inningsWPARequest struct {
	Venue   string           `json:"venue" validate:"required"`
	League  string           `json:"league" validate:"omitempty,max=200"`
	Target  int              `json:"target" validate:"gte=1"`
	Before  string           `json:"before" validate:"required"`
	Relaxed bool             `json:"relaxed"`
	Balls   []ballWPARequest `json:"balls" validate:"required,min=1,max=400,dive"`
}

type ballWPARequest struct {
	Batter     string `json:"batter" validate:"omitempty,max=200"`
	Bowler     string `json:"bowler" validate:"omitempty,max=200"`
	RunsOffBat int    `json:"runs_off_bat" validate:"gte=0,lte=7"`
	Extras     int    `json:"extras" validate:"gte=0,lte=7"`
	Wicket     bool   `json:"wicket"`
	Illegal    bool   `json:"illegal"`
}
