package flexpolyline

import "math"

var pow10 = [MaxPrecision + 1]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7,
	1e8, 1e9, 1e10, 1e11, 1e12, 1e13, 1e14, 1e15,
}

// tracker turns coordinates into integer deltas and back. It holds the last
// scaled value of each dimension for the duration of one encode or decode.
type tracker struct {
	dims   int
	factor [3]float64
	last   [3]int64
}

func newTracker(h Header) tracker {
	t := tracker{
		dims:   2,
		factor: [3]float64{pow10[h.Precision], pow10[h.Precision], pow10[h.ThirdDimensionPrecision]},
	}
	if h.Is3D() {
		t.dims = 3
	}
	return t
}

// delta scales value for dimension d and returns the difference to the
// previous value of that dimension.
func (t *tracker) delta(d int, value float64) (int64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrNonFiniteCoordinate
	}
	// math.Round breaks ties away from zero.
	scaled := math.Round(value * t.factor[d])
	if scaled >= 0x1p63 || scaled < -0x1p63 {
		return 0, ErrOverflow
	}
	s := int64(scaled)
	diff := s - t.last[d]
	if (s^t.last[d])&(s^diff) < 0 {
		return 0, ErrOverflow
	}
	t.last[d] = s
	return diff, nil
}

// apply adds delta to dimension d and returns the unscaled coordinate.
func (t *tracker) apply(d int, delta int64) (float64, error) {
	s := t.last[d] + delta
	if (t.last[d]^s)&(delta^s) < 0 {
		return 0, ErrOverflow
	}
	t.last[d] = s
	return float64(s) / t.factor[d], nil
}
