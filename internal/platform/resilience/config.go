package resilience

import (
	"time"

	"github.com/cockroachdb/errors"
)

// CircuitBreakerConfig tunes the breaker in front of the match and wp_lookup
// stores. A disabled config turns Call into a pass-through.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// DatastoreDefaults trips after five straight store failures and retries one
// lookup after fifteen seconds. Lookups fall back to the heuristic meanwhile.
func DatastoreDefaults() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   1,
	}
}

// Validate rejects settings that could never close the breaker again.
func (c CircuitBreakerConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch {
	case c.FailureThreshold < 1:
		return errors.Newf("failure threshold must be >= 1, got %d", c.FailureThreshold)
	case c.OpenTimeout <= 0:
		return errors.Newf("open timeout must be > 0, got %s", c.OpenTimeout)
	case c.HalfOpenMaxReq < 1:
		return errors.Newf("half-open request limit must be >= 1, got %d", c.HalfOpenMaxReq)
	}
	return nil
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	defaults := DatastoreDefaults()
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaults.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaults.OpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return c
}
