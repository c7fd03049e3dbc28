package venue

import (
	"sort"
	"strings"
)

// Manager normalises venue strings and classifies them into clusters.
// It is immutable after construction and safe for concurrent use.
type Manager struct {
	canonical map[string]string
	aliases   map[string][]string
	clusters  []Cluster
}

func NewManager(cfg Config) *Manager {
	m := &Manager{
		canonical: make(map[string]string, len(cfg.Aliases)),
		aliases:   make(map[string][]string),
		clusters:  make([]Cluster, 0, len(cfg.Clusters)),
	}

	for raw, canonical := range cfg.Aliases {
		raw = strings.TrimSpace(raw)
		canonical = strings.TrimSpace(canonical)
		m.canonical[lookupKey(raw)] = canonical
		m.aliases[canonical] = append(m.aliases[canonical], raw)
	}
	for canonical, raws := range m.aliases {
		sort.Strings(raws)
		m.aliases[canonical] = raws
	}

	for _, c := range cfg.Clusters {
		m.clusters = append(m.clusters, Cluster{
			Name:   strings.TrimSpace(c.Name),
			Venues: append([]string(nil), c.Venues...),
		})
	}
	return m
}

// NormalizeName maps known spelling variants to one canonical string.
// Unrecognised names pass through trimmed.
func (m *Manager) NormalizeName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := m.canonical[lookupKey(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// Aliases returns the canonical name followed by every raw spelling that
// normalises to it.
func (m *Manager) Aliases(raw string) []string {
	canonical := m.NormalizeName(raw)
	if canonical == "" {
		return nil
	}

	out := []string{canonical}
	seen := map[string]struct{}{canonical: {}}
	trimmed := strings.TrimSpace(raw)
	if _, ok := seen[trimmed]; !ok && trimmed != "" {
		out = append(out, trimmed)
		seen[trimmed] = struct{}{}
	}
	for _, alias := range m.aliases[canonical] {
		if _, ok := seen[alias]; ok {
			continue
		}
		seen[alias] = struct{}{}
		out = append(out, alias)
	}
	return out
}

// Cluster returns the first cluster, in priority order, with a member that is
// a case-insensitive substring of raw or that raw is a substring of.
func (m *Manager) Cluster(raw string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(raw))
	if needle == "" {
		return "", false
	}
	for _, c := range m.clusters {
		for _, v := range c.Venues {
			member := strings.ToLower(strings.TrimSpace(v))
			if strings.Contains(needle, member) || strings.Contains(member, needle) {
				return c.Name, true
			}
		}
	}
	return "", false
}

func (m *Manager) ClusterPatterns(name string) []string {
	for _, c := range m.clusters {
		if c.Name == name {
			return append([]string(nil), c.Venues...)
		}
	}
	return nil
}

func (m *Manager) Clusters() []string {
	out := make([]string, 0, len(m.clusters))
	for _, c := range m.clusters {
		out = append(out, c.Name)
	}
	return out
}

func lookupKey(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}
