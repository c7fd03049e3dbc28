package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/match"
)

func validateLookupContext(rawVenue string, before time.Time) error {
	if strings.TrimSpace(rawVenue) == "" {
		return fmt.Errorf("%w: venue is required", ErrInvalidState)
	}
	if before.IsZero() {
		return fmt.Errorf("%w: before date is required", ErrInvalidState)
	}
	return nil
}

func validateInnings(innings int) error {
	if innings != 1 && innings != 2 {
		return fmt.Errorf("%w: innings must be 1 or 2, got %d", ErrInvalidState, innings)
	}
	return nil
}

func validateOverWickets(over, wickets int, format match.Format) error {
	if over < 0 || over >= format.MaxOvers {
		return fmt.Errorf("%w: over must be in [0,%d), got %d", ErrInvalidState, format.MaxOvers, over)
	}
	if wickets < 0 || wickets > format.MaxWickets {
		return fmt.Errorf("%w: wickets must be in [0,%d], got %d", ErrInvalidState, format.MaxWickets, wickets)
	}
	return nil
}

func validateChaseState(state match.State, format match.Format) error {
	if err := validateOverWickets(state.Over, state.Wickets, format); err != nil {
		return err
	}
	if state.Ball < 0 || state.Ball > format.BallsPerOver {
		return fmt.Errorf("%w: ball must be in [0,%d], got %d", ErrInvalidState, format.BallsPerOver, state.Ball)
	}
	if state.Score < 0 {
		return fmt.Errorf("%w: score must be >= 0, got %d", ErrInvalidState, state.Score)
	}
	if state.Target < 0 {
		return fmt.Errorf("%w: target must be >= 0, got %d", ErrInvalidState, state.Target)
	}
	return nil
}
