package flexpolyline

import (
	"errors"
	"fmt"
	"strings"
)

// FormatVersion is the only header version this package reads or writes.
const FormatVersion = 1

// ThirdDimension identifies what the optional third value of each point means.
type ThirdDimension uint8

const (
	Absent    ThirdDimension = 0
	Level     ThirdDimension = 1
	Altitude  ThirdDimension = 2
	Elevation ThirdDimension = 3 // elevation gradient
	// Codes 4 and 5 are reserved by the format.
	Custom1 ThirdDimension = 6
	Custom2 ThirdDimension = 7
)

// Valid reports whether t is a code the format assigns a meaning to.
func (t ThirdDimension) Valid() bool {
	switch t {
	case Absent, Level, Altitude, Elevation, Custom1, Custom2:
		return true
	}
	return false
}

func (t ThirdDimension) String() string {
	switch t {
	case Absent:
		return "absent"
	case Level:
		return "level"
	case Altitude:
		return "altitude"
	case Elevation:
		return "elevation"
	case Custom1:
		return "custom1"
	case Custom2:
		return "custom2"
	default:
		return fmt.Sprintf("reserved(%d)", uint8(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t ThirdDimension) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidThirdDimension, uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ThirdDimension) UnmarshalText(text []byte) error {
	v, err := ParseThirdDimension(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseThirdDimension parses a third dimension name as produced by String.
// The empty string and "none" are accepted as Absent.
func ParseThirdDimension(s string) (ThirdDimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "absent":
		return Absent, nil
	case "level":
		return Level, nil
	case "altitude":
		return Altitude, nil
	case "elevation":
		return Elevation, nil
	case "custom1":
		return Custom1, nil
	case "custom2":
		return Custom2, nil
	}
	return Absent, fmt.Errorf("%w: %q", ErrInvalidThirdDimension, s)
}

// Header is the metadata stored in front of the encoded points.
type Header struct {
	Version                 uint8          `json:"version"`
	Precision               uint8          `json:"precision"`
	ThirdDimension          ThirdDimension `json:"third_dimension"`
	ThirdDimensionPrecision uint8          `json:"third_dimension_precision"`
}

// Is3D reports whether points carry a third value.
func (h Header) Is3D() bool { return h.ThirdDimension != Absent }

func (h Header) validate() error {
	if h.Version != FormatVersion {
		return offsetError(ErrUnsupportedVersion, -1)
	}
	if h.Precision > MaxPrecision || h.ThirdDimensionPrecision > MaxPrecision {
		return offsetError(ErrInvalidPrecision, -1)
	}
	if !h.ThirdDimension.Valid() {
		return offsetError(ErrInvalidThirdDimension, -1)
	}
	return nil
}

func (h Header) appendTo(dst []byte) []byte {
	dst = appendUnsigned(dst, uint64(h.Version))
	content := uint64(h.Precision) |
		uint64(h.ThirdDimension)<<4 |
		uint64(h.ThirdDimensionPrecision)<<7
	return appendUnsigned(dst, content)
}

func readHeader(c *cursor) (Header, error) {
	version, err := readHeaderValue(c)
	if err != nil {
		return Header{}, err
	}
	if version != FormatVersion {
		return Header{}, offsetError(ErrUnsupportedVersion, 0)
	}

	contentAt := c.pos
	content, err := readHeaderValue(c)
	if err != nil {
		return Header{}, err
	}

	h := Header{
		Version:                 FormatVersion,
		Precision:               uint8(content & 0xf),
		ThirdDimension:          ThirdDimension((content >> 4) & 0x7),
		ThirdDimensionPrecision: uint8((content >> 7) & 0xf),
	}
	if !h.ThirdDimension.Valid() {
		return Header{}, offsetError(ErrInvalidThirdDimension, contentAt)
	}
	return h, nil
}

// readHeaderValue reads one header varint, reporting a missing or cut-off
// value as a truncated header.
func readHeaderValue(c *cursor) (uint64, error) {
	if c.done() {
		return 0, offsetError(ErrTruncatedHeader, c.pos)
	}
	v, err := c.readUnsigned()
	if errors.Is(err, ErrUnterminatedValue) {
		var e *Error
		errors.As(err, &e)
		return 0, offsetError(ErrTruncatedHeader, e.Offset)
	}
	return v, err
}
