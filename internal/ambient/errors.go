package ambient

import (
	"errors"
	"fmt"
)

// Configuration errors. All of them are reported at construction time.
var (
	// ErrPaletteTooSmall indicates a palette with fewer than two colors.
	ErrPaletteTooSmall = errors.New("ambient: palette needs at least two colors")

	// ErrInvalidBarCount indicates a non-positive number of bars.
	ErrInvalidBarCount = errors.New("ambient: bar count must be positive")

	// ErrInvalidViewport indicates a non-positive viewport width.
	ErrInvalidViewport = errors.New("ambient: viewport width must be positive")

	// ErrInvalidPeriod indicates a direction period below one tick.
	ErrInvalidPeriod = errors.New("ambient: period must be at least one tick")

	// ErrInvalidStepSize indicates a bar step outside (0, 1].
	ErrInvalidStepSize = errors.New("ambient: step size must be in (0, 1]")

	// ErrInvalidSpeed indicates a gradient speed outside (0, 1].
	ErrInvalidSpeed = errors.New("ambient: gradient speed must be in (0, 1]")

	// ErrInvalidInterval indicates a non-positive tick interval.
	ErrInvalidInterval = errors.New("ambient: tick interval must be positive")
)

// ErrClockRunning is returned when starting a clock or engine that is already running.
var ErrClockRunning = errors.New("ambient: clock already running")

// ConfigError wraps a configuration error with the offending field.
type ConfigError struct {
	Field   string
	Value   any
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s (%s=%v)", e.Wrapped.Error(), e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

func configErr(field string, value any, err error) error {
	return &ConfigError{Field: field, Value: value, Wrapped: err}
}
