package httpapi

import (
	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
	"github.com/riskibarqy/cricket-context/internal/domain/resource"
	"github.com/riskibarqy/cricket-context/internal/usecase"
)

type lookupDTO struct {
	Value       float64 `json:"value"`
	Source      string  `json:"source"`
	SampleSize  int     `json:"sample_size"`
	LeakageFree bool    `json:"leakage_free"`
}

func lookupToDTO(r fallback.Result[float64]) lookupDTO {
	return lookupDTO{
		Value:       r.Value,
		Source:      string(r.Source),
		SampleSize:  r.SampleSize,
		LeakageFree: r.Source.LeakageFree(),
	}
}

type resourceTableDTO struct {
	Innings    int         `json:"innings"`
	Source     string      `json:"source"`
	SampleSize int         `json:"sample_size"`
	MaxOvers   int         `json:"max_overs"`
	MaxWickets int         `json:"max_wickets"`
	Rows       [][]float64 `json:"rows"`
	Origins    [][]string  `json:"origins"`
}

func resourceTableToDTO(r fallback.Result[resource.Table]) resourceTableDTO {
	table := r.Value
	origins := make([][]string, table.MaxOvers)
	for o := range origins {
		origins[o] = make([]string, table.MaxWickets)
		for w := range origins[o] {
			origins[o][w] = string(table.At(o, w).Origin)
		}
	}
	return resourceTableDTO{
		Innings:    table.Innings,
		Source:     string(r.Source),
		SampleSize: r.SampleSize,
		MaxOvers:   table.MaxOvers,
		MaxWickets: table.MaxWickets,
		Rows:       table.Rows(),
		Origins:    origins,
	}
}

type venueClusterDTO struct {
	Venue     string `json:"venue"`
	Canonical string `json:"canonical"`
	Cluster   string `json:"cluster,omitempty"`
	Found     bool   `json:"found"`
}

type levelCountDTO struct {
	Source    string `json:"source"`
	ScopeKey  string `json:"scope_key"`
	Matches   int    `json:"matches"`
	Threshold int    `json:"threshold"`
	Eligible  bool   `json:"eligible"`
}

type hierarchyDTO struct {
	Venue   string          `json:"venue"`
	Relaxed bool            `json:"relaxed"`
	Levels  []levelCountDTO `json:"levels"`
}

func hierarchyToDTO(h usecase.HierarchyCounts) hierarchyDTO {
	levels := make([]levelCountDTO, 0, len(h.Levels))
	for _, l := range h.Levels {
		levels = append(levels, levelCountDTO{
			Source:    string(l.Source),
			ScopeKey:  l.ScopeKey,
			Matches:   l.Matches,
			Threshold: l.Threshold,
			Eligible:  l.Eligible,
		})
	}
	return hierarchyDTO{Venue: h.Venue, Relaxed: h.Relaxed, Levels: levels}
}

type ballWPADTO struct {
	Index  int       `json:"index"`
	Over   int       `json:"over"`
	Ball   int       `json:"ball"`
	Batter string    `json:"batter,omitempty"`
	Bowler string    `json:"bowler,omitempty"`
	Pre    lookupDTO `json:"pre"`
	Post   lookupDTO `json:"post"`
	WPA    float64   `json:"wpa"`
}

type playerWPADTO struct {
	Name  string  `json:"name"`
	WPA   float64 `json:"wpa"`
	Balls int     `json:"balls"`
}

type inningsWPADTO struct {
	Balls   []ballWPADTO   `json:"balls"`
	Batters []playerWPADTO `json:"batters"`
	Bowlers []playerWPADTO `json:"bowlers"`
}

func inningsWPAToDTO(v usecase.InningsWPA) inningsWPADTO {
	out := inningsWPADTO{
		Balls:   make([]ballWPADTO, 0, len(v.Balls)),
		Batters: playersToDTO(v.Batters),
		Bowlers: playersToDTO(v.Bowlers),
	}
	for _, b := range v.Balls {
		out.Balls = append(out.Balls, ballWPADTO{
			Index:  b.Index,
			Over:   b.Over,
			Ball:   b.Ball,
			Batter: b.Batter,
			Bowler: b.Bowler,
			Pre:    lookupToDTO(b.Pre),
			Post:   lookupToDTO(b.Post),
			WPA:    b.WPA,
		})
	}
	return out
}

func playersToDTO(items []usecase.PlayerWPA) []playerWPADTO {
	out := make([]playerWPADTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerWPADTO{Name: p.Name, WPA: p.WPA, Balls: p.Balls})
	}
	return out
}
