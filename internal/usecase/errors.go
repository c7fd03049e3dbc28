package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState rejects impossible match states. It wraps ErrInvalidInput.
	ErrInvalidState = fmt.Errorf("%w: invalid match state", ErrInvalidInput)
)
