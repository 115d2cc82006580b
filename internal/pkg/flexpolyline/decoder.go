package flexpolyline

import "errors"

// Decoder reads the points of an encoded polyline one at a time. It reads
// the header eagerly and each point on demand, so memory does not grow with
// the input. A Decoder cannot be rewound; decode again with a new Decoder.
type Decoder struct {
	c      cursor
	header Header
	t      tracker
	point  Point
	index  int
	err    error
}

// NewDecoder reads the header of s and returns a Decoder positioned at the
// first point.
func NewDecoder(s string) (*Decoder, error) {
	if s == "" {
		return nil, offsetError(ErrEmptyInput, 0)
	}
	c := cursor{s: s}
	h, err := readHeader(&c)
	if err != nil {
		return nil, err
	}
	return &Decoder{c: c, header: h, t: newTracker(h)}, nil
}

// Header returns the decoded header.
func (d *Decoder) Header() Header { return d.header }

// Next decodes the next point. It returns false at the end of the input or
// on error; check Err afterwards.
//
// Deltas left over after the last complete point that do not make up a
// whole point are ignored.
func (d *Decoder) Next() bool {
	if d.err != nil || d.c.done() {
		return false
	}

	start := d.c.pos
	var values [3]float64
	for dim := 0; dim < d.t.dims; dim++ {
		if d.c.done() {
			return false
		}
		valueAt := d.c.pos
		delta, err := d.c.readSigned()
		if err != nil {
			if dim == 0 && errors.Is(err, ErrUnterminatedValue) {
				err = offsetError(ErrTrailingGarbage, start)
			}
			d.fail(err)
			return false
		}
		v, err := d.t.apply(dim, delta)
		if err != nil {
			d.fail(offsetError(err, valueAt))
			return false
		}
		values[dim] = v
	}

	d.point = Point{Lat: values[0], Lng: values[1]}
	if d.t.dims == 3 {
		z := values[2]
		d.point.Z = &z
	}
	d.index++
	return true
}

// Point returns the point decoded by the last successful call to Next.
func (d *Decoder) Point() Point { return d.point }

// Err returns the first error met by Next, if any.
func (d *Decoder) Err() error { return d.err }

func (d *Decoder) fail(err error) {
	var e *Error
	if errors.As(err, &e) {
		e.Index = d.index
	}
	d.err = err
}
