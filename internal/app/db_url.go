package app

import (
	"net/url"
	"strings"
)

func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	return setQueryDefault(raw, "disable_prepared_binary_result", "yes")
}

// withApplicationName tags connections so they show up in pg_stat_activity.
func withApplicationName(raw, name string) string {
	if strings.TrimSpace(name) == "" {
		return raw
	}

	return setQueryDefault(raw, "application_name", name)
}

// setQueryDefault sets key on URL-style DSNs unless it is already present.
// Keyword/value DSNs are returned unchanged.
func setQueryDefault(raw, key, value string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get(key) == "" {
		query.Set(key, value)
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
