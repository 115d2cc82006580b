package flexpolyline

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrInvalidPrecision      = errors.New("precision out of range [0,15]")
	ErrMissingElevation      = errors.New("point has no third dimension value")
	ErrEmptyInput            = errors.New("empty input")
	ErrTruncatedHeader       = errors.New("truncated header")
	ErrUnsupportedVersion    = errors.New("unsupported format version")
	ErrInvalidThirdDimension = errors.New("invalid third dimension")
	ErrInvalidCharacter      = errors.New("invalid character")
	ErrUnterminatedValue     = errors.New("unterminated value")
	ErrOverflow              = errors.New("value overflows 64 bits")
	ErrTrailingGarbage       = errors.New("trailing characters after last point")
	ErrNonFiniteCoordinate   = errors.New("coordinate is NaN or infinite")
)

// Error is returned by every failing codec operation.
type Error struct {
	Kind   error // one of the Err* values
	Offset int   // byte offset into the encoded string, -1 when not applicable
	Index  int   // index of the offending point, -1 when not applicable
}

func (e *Error) Error() string {
	msg := "flexpolyline: " + e.Kind.Error()
	if e.Index >= 0 {
		msg += fmt.Sprintf(" (point %d)", e.Index)
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

func offsetError(kind error, offset int) *Error {
	return &Error{Kind: kind, Offset: offset, Index: -1}
}

func pointError(kind error, index int) *Error {
	return &Error{Kind: kind, Offset: -1, Index: index}
}

// Code returns a stable snake_case identifier for the kind of err, suitable
// for metric labels and API error codes. It returns "unknown" for errors that
// did not come from this package.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPrecision):
		return "invalid_precision"
	case errors.Is(err, ErrMissingElevation):
		return "missing_elevation"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrTruncatedHeader):
		return "truncated_header"
	case errors.Is(err, ErrUnsupportedVersion):
		return "unsupported_version"
	case errors.Is(err, ErrInvalidThirdDimension):
		return "invalid_third_dimension"
	case errors.Is(err, ErrInvalidCharacter):
		return "invalid_character"
	case errors.Is(err, ErrUnterminatedValue):
		return "unterminated_value"
	case errors.Is(err, ErrOverflow):
		return "overflow"
	case errors.Is(err, ErrTrailingGarbage):
		return "trailing_garbage"
	case errors.Is(err, ErrNonFiniteCoordinate):
		return "non_finite_coordinate"
	default:
		return "unknown"
	}
}
