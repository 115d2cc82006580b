package domain

import (
	"time"
)

// EncodedGeometry is a Flexible Polyline string as returned by an upstream
// API together with its decoded form. Geometry is nil when the string could
// not be decoded; DecodeError then says why and Polyline is kept verbatim.
type EncodedGeometry struct {
	Polyline       string         `json:"polyline"`
	Precision      int            `json:"precision"`
	ThirdDimension string         `json:"third_dimension,omitempty"`
	Geometry       *GeoLineString `json:"geometry,omitempty"`
	DecodeError    string         `json:"decode_error,omitempty"`
}

// Decoded reports whether the geometry is usable.
func (g EncodedGeometry) Decoded() bool { return g.Geometry != nil }

// DecodedPolyline is the full result of decoding one string.
type DecodedPolyline struct {
	Precision               int        `json:"precision"`
	ThirdDimension          string     `json:"third_dimension"`
	ThirdDimensionPrecision int        `json:"third_dimension_precision"`
	Points                  []GeoPoint `json:"points"`
	Bounds                  *Bounds    `json:"bounds,omitempty"`
	LengthMeters            float64    `json:"length_meters"`
}

// EncodeRequest asks for a list of points to be encoded. A nil Precision
// means the configured default.
type EncodeRequest struct {
	Points                  []GeoPoint `json:"points"`
	Precision               *int       `json:"precision,omitempty"`
	ThirdDimension          string     `json:"third_dimension,omitempty"`
	ThirdDimensionPrecision int        `json:"third_dimension_precision,omitempty"`
}

// Place is a departure or arrival location of a route section.
type Place struct {
	Type     string     `json:"type"`
	Name     string     `json:"name,omitempty"`
	Location GeoPoint   `json:"location"`
	Time     *time.Time `json:"time,omitempty"`
}

// Transport describes how a section is travelled.
type Transport struct {
	Mode      string `json:"mode"`
	Name      string `json:"name,omitempty"`
	ShortName string `json:"short_name,omitempty"`
	Headsign  string `json:"headsign,omitempty"`
}

// RouteSummary holds per-section totals. Duration is in seconds, Length in
// meters.
type RouteSummary struct {
	Duration     int `json:"duration"`
	BaseDuration int `json:"base_duration,omitempty"`
	Length       int `json:"length"`
}

// RouteSection is one leg of a route with its own geometry.
type RouteSection struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Transport Transport       `json:"transport"`
	Departure Place           `json:"departure"`
	Arrival   Place           `json:"arrival"`
	Summary   RouteSummary    `json:"summary"`
	Geometry  EncodedGeometry `json:"geometry"`
}

// Route is one route alternative.
type Route struct {
	ID       string         `json:"id"`
	Sections []RouteSection `json:"sections"`
}

// PartialSections counts sections whose geometry failed to decode.
func (r Route) PartialSections() int {
	n := 0
	for _, s := range r.Sections {
		if !s.Geometry.Decoded() {
			n++
		}
	}
	return n
}

// RouteRequest asks for routes between two points.
type RouteRequest struct {
	Origin        GeoPoint   `json:"origin"`
	Destination   GeoPoint   `json:"destination"`
	Via           []GeoPoint `json:"via,omitempty"`
	TransportMode string     `json:"transport_mode"`
	DepartureTime *time.Time `json:"departure_time,omitempty"`
	Alternatives  int        `json:"alternatives,omitempty"`
	// Elevation requests 3D geometry from the upstream API.
	Elevation bool `json:"elevation,omitempty"`
}

// IsolineRange selects what an isoline measures and at which values.
type IsolineRange struct {
	Type   string `json:"type"` // distance, time or consumption
	Values []int  `json:"values"`
}

// IsolineRequest asks for reachable areas around a point.
type IsolineRequest struct {
	Origin        GeoPoint     `json:"origin"`
	Range         IsolineRange `json:"range"`
	TransportMode string       `json:"transport_mode"`
	DepartureTime *time.Time   `json:"departure_time,omitempty"`
}

// IsolinePolygon is one reachable area: an outer ring with optional holes.
type IsolinePolygon struct {
	Outer EncodedGeometry   `json:"outer"`
	Inner []EncodedGeometry `json:"inner,omitempty"`
}

// Isoline is the set of polygons for one range value.
type Isoline struct {
	RangeType  string           `json:"range_type"`
	RangeValue int              `json:"range_value"`
	Polygons   []IsolinePolygon `json:"polygons"`
}

// Geometry kinds stored by the archive.
const (
	KindRouteSection = "route_section"
	KindIsoline      = "isoline"
	KindManual       = "manual"
)

// StoredGeometry is an archived encoded geometry with derived metadata.
type StoredGeometry struct {
	ID             string         `json:"id"`
	Kind           string         `json:"kind"`
	Source         string         `json:"source"`
	Polyline       string         `json:"polyline"`
	Precision      int            `json:"precision"`
	ThirdDimension string         `json:"third_dimension"`
	PointCount     int            `json:"point_count"`
	LengthMeters   float64        `json:"length_meters"`
	Bounds         Bounds         `json:"bounds"`
	Geometry       *GeoLineString `json:"geometry,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// GeometryEvent announces an encoded geometry produced by a computation,
// e.g. a route section returned by HERE.
type GeometryEvent struct {
	Kind       string    `json:"kind"`
	Source     string    `json:"source"` // e.g. "route:<route id>/<section id>"
	Polyline   string    `json:"polyline"`
	ComputedAt time.Time `json:"computed_at"`
}

// DecodeFailure records an encoded string that could not be decoded.
type DecodeFailure struct {
	Source string    `json:"source"`
	Code   string    `json:"code"`
	Error  string    `json:"error"`
	Time   time.Time `json:"time"`
}
