package venue

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Cluster is a named group of venues considered statistically interchangeable.
// Venues are substrings matched case-insensitively in either direction.
type Cluster struct {
	Name   string   `yaml:"name"`
	Venues []string `yaml:"venues"`
}

// Config is the curated knowledge base. Clusters are evaluated in slice order,
// which is the explicit tie-break when a venue could match more than one.
type Config struct {
	Aliases  map[string]string `yaml:"aliases"`
	Clusters []Cluster         `yaml:"clusters"`
}

func DefaultConfig() Config {
	return Config{
		Aliases: map[string]string{
			"M. Chinnaswamy Stadium":                     "M Chinnaswamy Stadium",
			"M.Chinnaswamy Stadium":                      "M Chinnaswamy Stadium",
			"M Chinnaswamy Stadium, Bengaluru":           "M Chinnaswamy Stadium",
			"M Chinnaswamy Stadium, Bangalore":           "M Chinnaswamy Stadium",
			"Wankhede Stadium, Mumbai":                   "Wankhede Stadium",
			"Eden Gardens, Kolkata":                      "Eden Gardens",
			"MA Chidambaram Stadium, Chepauk":            "MA Chidambaram Stadium",
			"MA Chidambaram Stadium, Chepauk, Chennai":   "MA Chidambaram Stadium",
			"M. A. Chidambaram Stadium":                  "MA Chidambaram Stadium",
			"Feroz Shah Kotla":                           "Arun Jaitley Stadium",
			"Arun Jaitley Stadium, Delhi":                "Arun Jaitley Stadium",
			"Punjab Cricket Association Stadium, Mohali": "Punjab Cricket Association IS Bindra Stadium",
			"Rajiv Gandhi International Stadium, Uppal":  "Rajiv Gandhi International Stadium",
			"Sawai Mansingh Stadium, Jaipur":             "Sawai Mansingh Stadium",
			"Narendra Modi Stadium, Ahmedabad":           "Narendra Modi Stadium",
			"Sardar Patel Stadium, Motera":               "Narendra Modi Stadium",
			"Dubai International Cricket Stadium, Dubai": "Dubai International Cricket Stadium",
			"Sheikh Zayed Stadium, Abu Dhabi":            "Sheikh Zayed Stadium",
			"Zayed Cricket Stadium, Abu Dhabi":           "Sheikh Zayed Stadium",
			"Sharjah Cricket Stadium, Sharjah":           "Sharjah Cricket Stadium",
		},
		Clusters: []Cluster{
			{
				Name: "high_scoring",
				Venues: []string{
					"Chinnaswamy",
					"Wankhede",
					"Brabourne",
					"DY Patil",
					"Holkar",
				},
			},
			{
				Name: "bowling_friendly",
				Venues: []string{
					"Chidambaram",
					"Chepauk",
					"Ekana",
					"Barsapara",
				},
			},
			{
				Name: "balanced",
				Venues: []string{
					"Eden Gardens",
					"Arun Jaitley",
					"Feroz Shah Kotla",
					"Rajiv Gandhi International",
					"Sawai Mansingh",
					"Narendra Modi",
					"Bindra",
					"Punjab Cricket Association",
				},
			},
			{
				Name: "international",
				Venues: []string{
					"Dubai International",
					"Sheikh Zayed",
					"Sharjah",
				},
			},
		},
	}
}

// LoadConfig reads a YAML knowledge base. Missing sections fall back to the defaults.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read venue config %s: %w", path, err)
	}
	return ParseConfig(raw)
}

func ParseConfig(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode venue config: %w", err)
	}

	defaults := DefaultConfig()
	if cfg.Aliases == nil {
		cfg.Aliases = defaults.Aliases
	}
	if cfg.Clusters == nil {
		cfg.Clusters = defaults.Clusters
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Clusters))
	for i, cluster := range c.Clusters {
		name := strings.TrimSpace(cluster.Name)
		if name == "" {
			return fmt.Errorf("cluster %d has no name", i)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("duplicate cluster %q", name)
		}
		seen[name] = struct{}{}
		if len(cluster.Venues) == 0 {
			return fmt.Errorf("cluster %q has no venues", name)
		}
		for _, v := range cluster.Venues {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("cluster %q has an empty venue", name)
			}
		}
	}
	for raw, canonical := range c.Aliases {
		if strings.TrimSpace(raw) == "" || strings.TrimSpace(canonical) == "" {
			return fmt.Errorf("alias entries must be non-empty")
		}
	}
	return nil
}
