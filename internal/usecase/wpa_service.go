package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
	"github.com/riskibarqy/cricket-context/internal/domain/match"
	"github.com/riskibarqy/cricket-context/internal/domain/winprob"
)

const defaultWPAWorkers = 4

// WinProbabilityReader is satisfied by both the live and the precomputed services.
type WinProbabilityReader interface {
	WinProbability(ctx context.Context, q WinProbabilityQuery) (fallback.Result[float64], error)
}

type BallInput struct {
	Batter     string
	Bowler     string
	RunsOffBat int
	Extras     int
	Wicket     bool
	// Illegal marks wides and no-balls, which do not advance the ball count.
	Illegal bool
}

type InningsInput struct {
	Venue   string
	League  string
	Target  int
	Before  time.Time
	Relaxed bool
	Balls   []BallInput
}

type BallWPA struct {
	Index  int
	Over   int
	Ball   int
	Batter string
	Bowler string
	Pre    fallback.Result[float64]
	Post   fallback.Result[float64]
	WPA    float64
}

type PlayerWPA struct {
	Name  string
	WPA   float64
	Balls int
}

type InningsWPA struct {
	Balls   []BallWPA
	Batters []PlayerWPA
	Bowlers []PlayerWPA
}

type WPAService struct {
	reader  WinProbabilityReader
	format  match.Format
	workers int
}

func NewWPAService(reader WinProbabilityReader, format match.Format, workers int) *WPAService {
	if workers <= 0 {
		workers = defaultWPAWorkers
	}
	return &WPAService{
		reader:  reader,
		format:  format,
		workers: workers,
	}
}

type ballStates struct {
	pre  match.State
	post match.State
}

// Innings credits each ball's win-probability swing to the batter and debits
// it from the bowler.
func (s *WPAService) Innings(ctx context.Context, input InningsInput) (InningsWPA, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WPAService.Innings")
	defer span.End()

	if err := validateLookupContext(input.Venue, input.Before); err != nil {
		return InningsWPA{}, err
	}
	if input.Target <= 0 {
		return InningsWPA{}, fmt.Errorf("%w: target must be > 0, got %d", ErrInvalidInput, input.Target)
	}
	if len(input.Balls) == 0 {
		return InningsWPA{}, fmt.Errorf("%w: at least one ball is required", ErrInvalidInput)
	}

	walked, err := s.walk(input)
	if err != nil {
		return InningsWPA{}, err
	}

	distinct := make([]match.State, 0, len(walked)+1)
	seen := make(map[match.State]struct{}, len(walked)+1)
	for _, b := range walked {
		for _, st := range []match.State{b.pre, b.post} {
			if _, ok := seen[st]; ok {
				continue
			}
			seen[st] = struct{}{}
			distinct = append(distinct, st)
		}
	}

	evaluated, err := s.evaluate(ctx, input, distinct)
	if err != nil {
		return InningsWPA{}, err
	}

	out := InningsWPA{Balls: make([]BallWPA, 0, len(walked))}
	batters := make(map[string]*PlayerWPA)
	bowlers := make(map[string]*PlayerWPA)
	for i, b := range walked {
		pre := evaluated[b.pre]
		post := evaluated[b.post]
		ball := input.Balls[i]
		delta := winprob.WPA(pre.Value, post.Value)
		out.Balls = append(out.Balls, BallWPA{
			Index:  i,
			Over:   b.pre.Over,
			Ball:   b.pre.Ball,
			Batter: strings.TrimSpace(ball.Batter),
			Bowler: strings.TrimSpace(ball.Bowler),
			Pre:    pre,
			Post:   post,
			WPA:    delta,
		})
		credit(batters, ball.Batter, delta)
		credit(bowlers, ball.Bowler, -delta)
	}
	out.Batters = sortedPlayers(batters)
	out.Bowlers = sortedPlayers(bowlers)
	return out, nil
}

// walk derives the pre and post state of every ball. A ball bowled once the
// chase is decided is rejected.
func (s *WPAService) walk(input InningsInput) ([]ballStates, error) {
	state := match.State{Target: input.Target}
	out := make([]ballStates, 0, len(input.Balls))
	for i, ball := range input.Balls {
		if ball.RunsOffBat < 0 || ball.Extras < 0 {
			return nil, fmt.Errorf("%w: ball %d has negative runs", ErrInvalidInput, i)
		}
		if _, decided := winprob.Terminal(state, s.format); decided {
			return nil, fmt.Errorf("%w: ball %d bowled after the innings ended", ErrInvalidInput, i)
		}
		if state.Ball == s.format.BallsPerOver {
			state.Over++
			state.Ball = 0
		}

		pre := state
		state.Score += ball.RunsOffBat + ball.Extras
		if ball.Wicket {
			state.Wickets++
		}
		if !ball.Illegal {
			state.Ball++
		}
		out = append(out, ballStates{pre: pre, post: state})
	}
	return out, nil
}

func (s *WPAService) evaluate(ctx context.Context, input InningsInput, states []match.State) (map[match.State]fallback.Result[float64], error) {
	pool, err := ants.NewPool(min(s.workers, len(states)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		firstErr error
		workers  sync.WaitGroup
	)
	results := make(map[match.State]fallback.Result[float64], len(states))
	for _, st := range states {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			result, err := s.reader.WinProbability(ctx, WinProbabilityQuery{
				Venue:   input.Venue,
				League:  input.League,
				Target:  st.Target,
				Over:    st.Over,
				Ball:    st.Ball,
				Wickets: st.Wickets,
				Score:   st.Score,
				Before:  input.Before,
				Relaxed: input.Relaxed,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			results[st] = result
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit state to worker pool: %w", err)
		}
	}
	workers.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func credit(totals map[string]*PlayerWPA, name string, delta float64) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	p, ok := totals[name]
	if !ok {
		p = &PlayerWPA{Name: name}
		totals[name] = p
	}
	p.WPA += delta
	p.Balls++
}

func sortedPlayers(totals map[string]*PlayerWPA) []PlayerWPA {
	out := make([]PlayerWPA, 0, len(totals))
	for _, p := range totals {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WPA != out[j].WPA {
			return out[i].WPA > out[j].WPA
		}
		return out[i].Name < out[j].Name
	})
	return out
}
