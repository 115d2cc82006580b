package flexpolyline

const (
	// DefaultPrecision is the usual number of decimal digits for lat/lng.
	DefaultPrecision = 5
	// MaxPrecision is the largest precision that fits in the header.
	MaxPrecision = 15
)

// Point is a coordinate with an optional third value.
type Point struct {
	Lat float64  `json:"lat"`
	Lng float64  `json:"lng"`
	Z   *float64 `json:"z,omitempty"`
}

// NewPoint returns a 2D point.
func NewPoint(lat, lng float64) Point {
	return Point{Lat: lat, Lng: lng}
}

// NewPoint3D returns a point carrying a third dimension value.
func NewPoint3D(lat, lng, z float64) Point {
	return Point{Lat: lat, Lng: lng, Z: &z}
}

// Polyline is the result of decoding an encoded string.
type Polyline struct {
	Header
	Points []Point
}

// Encode serializes points into a Flexible Polyline string. precision applies
// to latitude and longitude, thirdDimPrecision to the third value. When
// thirdDim is Absent, any Z values on the points are ignored; otherwise every
// point must carry one.
func Encode(points []Point, precision int, thirdDim ThirdDimension, thirdDimPrecision int) (string, error) {
	if precision < 0 || precision > MaxPrecision ||
		thirdDimPrecision < 0 || thirdDimPrecision > MaxPrecision {
		return "", offsetError(ErrInvalidPrecision, -1)
	}
	h := Header{
		Version:                 FormatVersion,
		Precision:               uint8(precision),
		ThirdDimension:          thirdDim,
		ThirdDimensionPrecision: uint8(thirdDimPrecision),
	}
	return encode(h, points)
}

// EncodeDefault encodes 2D points with DefaultPrecision.
func EncodeDefault(points []Point) (string, error) {
	return Encode(points, DefaultPrecision, Absent, 0)
}

// Encode re-encodes p with its own header. A zero Version is taken as
// FormatVersion.
func (p *Polyline) Encode() (string, error) {
	h := p.Header
	if h.Version == 0 {
		h.Version = FormatVersion
	}
	return encode(h, p.Points)
}

func encode(h Header, points []Point) (string, error) {
	if err := h.validate(); err != nil {
		return "", err
	}

	t := newTracker(h)
	// Most deltas of real geometry take 1-4 characters.
	buf := make([]byte, 0, 4+len(points)*t.dims*3)
	buf = h.appendTo(buf)

	var values [3]float64
	for i, p := range points {
		values[0], values[1] = p.Lat, p.Lng
		if t.dims == 3 {
			if p.Z == nil {
				return "", pointError(ErrMissingElevation, i)
			}
			values[2] = *p.Z
		}
		for d := 0; d < t.dims; d++ {
			delta, err := t.delta(d, values[d])
			if err != nil {
				return "", pointError(err, i)
			}
			buf = appendSigned(buf, delta)
		}
	}
	return string(buf), nil
}

// Decode parses a Flexible Polyline string.
func Decode(s string) (*Polyline, error) {
	dec, err := NewDecoder(s)
	if err != nil {
		return nil, err
	}

	pl := &Polyline{Header: dec.Header(), Points: []Point{}}
	for dec.Next() {
		pl.Points = append(pl.Points, dec.Point())
	}
	if err := dec.Err(); err != nil {
		return nil, err
	}
	return pl, nil
}
