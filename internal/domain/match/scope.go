package match

import (
	"sort"
	"strings"
)

// Scope selects the matches that feed one fallback level. An empty scope
// selects every match in the store.
type Scope struct {
	// Venues are exact raw venue strings.
	Venues []string
	// VenuePatterns match case-insensitively as substrings in either direction.
	VenuePatterns []string
	League        string
}

// Key is a stable identifier for caching. Venues keep their case because
// they are compared exactly; patterns and league fold like Includes does.
func (s Scope) Key() string {
	venues := trimmedSorted(s.Venues, false)
	patterns := trimmedSorted(s.VenuePatterns, true)

	var b strings.Builder
	b.WriteString("v=")
	b.WriteString(strings.Join(venues, "|"))
	b.WriteString(";p=")
	b.WriteString(strings.Join(patterns, "|"))
	b.WriteString(";l=")
	b.WriteString(strings.ToLower(strings.TrimSpace(s.League)))
	return b.String()
}

// Includes reports whether a match with the given venue and competition
// belongs to the scope.
func (s Scope) Includes(venue, competition string) bool {
	if league := strings.TrimSpace(s.League); league != "" && !strings.EqualFold(league, strings.TrimSpace(competition)) {
		return false
	}
	if len(s.Venues) == 0 && len(s.VenuePatterns) == 0 {
		return true
	}
	for _, v := range s.Venues {
		if v == venue {
			return true
		}
	}
	return MatchesAnyPattern(venue, s.VenuePatterns)
}

// MatchesAnyPattern applies the bidirectional, case-insensitive substring rule.
func MatchesAnyPattern(raw string, patterns []string) bool {
	needle := strings.ToLower(strings.TrimSpace(raw))
	if needle == "" {
		return false
	}
	for _, p := range patterns {
		pattern := strings.ToLower(strings.TrimSpace(p))
		if pattern == "" {
			continue
		}
		if strings.Contains(needle, pattern) || strings.Contains(pattern, needle) {
			return true
		}
	}
	return false
}

func trimmedSorted(items []string, fold bool) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if fold {
			item = strings.ToLower(item)
		}
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
