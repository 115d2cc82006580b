package usecases

import "errors"

var (
	// ErrInvalidArgument marks caller mistakes; adapters map it to 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTooManyPoints is returned when a polyline exceeds the configured
	// point limit.
	ErrTooManyPoints = errors.New("too many points")
)
