// Package geospatial converts decoded polylines into the service's domain
// geometry and into the output formats clients ask for.
package geospatial

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"

	"github.com/samirrijal/geoflex/internal/core/domain"
	"github.com/samirrijal/geoflex/internal/pkg/flexpolyline"
)

// Points converts decoded flexpolyline points to domain points.
func Points(pl *flexpolyline.Polyline) []domain.GeoPoint {
	out := make([]domain.GeoPoint, len(pl.Points))
	for i, p := range pl.Points {
		out[i] = domain.GeoPoint{Lat: p.Lat, Lon: p.Lng, Elevation: p.Z}
	}
	return out
}

// FlexPoints converts domain points for encoding.
func FlexPoints(points []domain.GeoPoint) []flexpolyline.Point {
	out := make([]flexpolyline.Point, len(points))
	for i, p := range points {
		out[i] = flexpolyline.Point{Lat: p.Lat, Lng: p.Lon, Z: p.Elevation}
	}
	return out
}

// LineString drops elevation and orders each point lon, lat.
func LineString(points []domain.GeoPoint) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{p.Lon, p.Lat}
	}
	return ls
}

// BoundsOf returns the bounding box of points, or nil when there are none.
func BoundsOf(points []domain.GeoPoint) *domain.Bounds {
	if len(points) == 0 {
		return nil
	}
	b := LineString(points).Bound()
	return &domain.Bounds{
		MinLat: b.Min.Lat(),
		MinLon: b.Min.Lon(),
		MaxLat: b.Max.Lat(),
		MaxLon: b.Max.Lon(),
	}
}

// LengthMeters is the haversine length of the line through points.
func LengthMeters(points []domain.GeoPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	return geo.LengthHaversine(LineString(points))
}

// Describe builds the API view of a decoded polyline.
func Describe(pl *flexpolyline.Polyline) domain.DecodedPolyline {
	points := Points(pl)
	return domain.DecodedPolyline{
		Precision:               int(pl.Precision),
		ThirdDimension:          pl.ThirdDimension.String(),
		ThirdDimensionPrecision: int(pl.ThirdDimensionPrecision),
		Points:                  points,
		Bounds:                  BoundsOf(points),
		LengthMeters:            LengthMeters(points),
	}
}

// Feature renders a decoded polyline as a GeoJSON LineString feature. A
// single point becomes a Point geometry. Third dimension values go into the
// "z" property since orb geometry is 2D.
func Feature(d domain.DecodedPolyline) *geojson.Feature {
	var g orb.Geometry
	ls := LineString(d.Points)
	if len(ls) == 1 {
		g = ls[0]
	} else {
		g = ls
	}

	f := geojson.NewFeature(g)
	f.Properties["precision"] = d.Precision
	f.Properties["third_dimension"] = d.ThirdDimension
	if d.ThirdDimension != flexpolyline.Absent.String() {
		z := make([]float64, 0, len(d.Points))
		for _, p := range d.Points {
			if p.Elevation != nil {
				z = append(z, *p.Elevation)
			}
		}
		f.Properties["z"] = z
	}
	if len(ls) > 0 {
		bound := ls.Bound()
		f.BBox = geojson.NewBBox(bound)
	}
	return f
}

// GooglePolyline transcodes points to the Google encoded polyline format
// (precision 5, 2D).
func GooglePolyline(points []domain.GeoPoint) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Lat, p.Lon}
	}
	return string(polyline.EncodeCoords(coords))
}
