package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldTraceRequest(t *testing.T) {
	tests := map[string]bool{
		"/healthz":                        false,
		" /healthz ":                      false,
		"/readyz":                         false,
		"/METRICS":                        false,
		"/v1/resource":                    true,
		"/v1/resource/table":              true,
		"/v1/win-probability":             true,
		"/v1/win-probability/precomputed": true,
		"/v1/venues/cluster":              true,
		"/v1/venues/hierarchy":            true,
		"/v1/wpa/innings":                 true,
	}
	for path, want := range tests {
		assert.Equal(t, want, shouldTraceRequest(path), path)
	}
}
