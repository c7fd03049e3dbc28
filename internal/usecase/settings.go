package usecase

import (
	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
	"github.com/riskibarqy/cricket-context/internal/domain/match"
	"github.com/riskibarqy/cricket-context/internal/domain/winprob"
)

// LookupSettings is built once at startup and shared read-only by every service.
type LookupSettings struct {
	Format     match.Format
	Thresholds fallback.Thresholds
	Tolerances winprob.Tolerances

	// AllowRelaxed enables the venue_relaxed level for callers that request it.
	// Backtesting deployments leave it off so no answer can use future matches.
	AllowRelaxed     bool
	MonotoneResource bool
}

func DefaultLookupSettings() LookupSettings {
	return LookupSettings{
		Format:           match.T20(),
		Thresholds:       fallback.DefaultThresholds(),
		Tolerances:       winprob.DefaultTolerances(),
		AllowRelaxed:     false,
		MonotoneResource: true,
	}
}

const (
	lookupKindResource      = "resource"
	lookupKindResourceTable = "resource_table"
	lookupKindWinProb       = "win_probability"
	lookupKindPrecomputed   = "precomputed"
)

// Observer receives lookup and data-source events. *metrics.Registry implements it.
type Observer interface {
	ObserveLookup(kind, source string)
	ObserveDataSourceError(operation string)
}

type noopObserver struct{}

func (noopObserver) ObserveLookup(string, string)  {}
func (noopObserver) ObserveDataSourceError(string) {}

func observerOrNoop(o Observer) Observer {
	if o == nil {
		return noopObserver{}
	}
	return o
}
