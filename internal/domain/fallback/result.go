package fallback

// Source tags which level of the hierarchy produced an estimate.
type Source string

const (
	SourceVenue        Source = "venue"
	SourceVenueRelaxed Source = "venue_relaxed"
	SourceCluster      Source = "cluster"
	SourceLeague       Source = "league"
	SourceGlobal       Source = "global"
	SourceHeuristic    Source = "heuristic"
)

// LeakageFree reports whether the source honoured the chronological cutoff.
func (s Source) LeakageFree() bool {
	return s != SourceVenueRelaxed
}

// Result carries a computed value together with its provenance.
type Result[T any] struct {
	Value      T
	Source     Source
	SampleSize int
}

func Heuristic[T any](value T) Result[T] {
	return Result[T]{Value: value, Source: SourceHeuristic}
}
