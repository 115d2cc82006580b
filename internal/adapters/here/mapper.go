package here

import (
	"github.com/samirrijal/geoflex/internal/core/domain"
	"github.com/samirrijal/geoflex/internal/pkg/geospatial"
	"github.com/samirrijal/geoflex/internal/pkg/metrics"
)

// toRoutes maps a routes response. Sections whose polyline does not decode
// are kept without geometry.
func toRoutes(api string, resp routesResponse) []domain.Route {
	routes := make([]domain.Route, 0, len(resp.Routes))
	for _, r := range resp.Routes {
		out := domain.Route{ID: r.ID, Sections: make([]domain.RouteSection, 0, len(r.Sections))}
		for _, s := range r.Sections {
			g := geospatial.DecodeGeometry(s.Polyline, metrics.SourceHERE)
			if !g.Decoded() {
				metrics.PartialGeometries.WithLabelValues(api).Inc()
			}
			sum := s.Summary
			if s.TravelSummary != nil {
				sum = *s.TravelSummary
			}
			out.Sections = append(out.Sections, domain.RouteSection{
				ID:   s.ID,
				Type: s.Type,
				Transport: domain.Transport{
					Mode:      s.Transport.Mode,
					Name:      s.Transport.Name,
					ShortName: s.Transport.ShortName,
					Headsign:  s.Transport.Headsign,
				},
				Departure: toPlace(s.Departure),
				Arrival:   toPlace(s.Arrival),
				Summary: domain.RouteSummary{
					Duration:     sum.Duration,
					BaseDuration: sum.BaseDuration,
					Length:       sum.Length,
				},
				Geometry: g,
			})
		}
		routes = append(routes, out)
	}
	return routes
}

func toPlace(s stop) domain.Place {
	return domain.Place{
		Type: s.Place.Type,
		Name: s.Place.Name,
		Location: domain.GeoPoint{
			Lat:       s.Place.Location.Lat,
			Lon:       s.Place.Location.Lng,
			Elevation: s.Place.Location.Elevation,
		},
		Time: s.Time,
	}
}

func toIsolines(api string, resp isolinesResponse) []domain.Isoline {
	isolines := make([]domain.Isoline, 0, len(resp.Isolines))
	for _, iso := range resp.Isolines {
		out := domain.Isoline{
			RangeType:  iso.Range.Type,
			RangeValue: iso.Range.Value,
			Polygons:   make([]domain.IsolinePolygon, 0, len(iso.Polygons)),
		}
		for _, p := range iso.Polygons {
			poly := domain.IsolinePolygon{Outer: decodeRing(api, p.Outer)}
			for _, inner := range p.Inner {
				poly.Inner = append(poly.Inner, decodeRing(api, inner))
			}
			out.Polygons = append(out.Polygons, poly)
		}
		isolines = append(isolines, out)
	}
	return isolines
}

func decodeRing(api, encoded string) domain.EncodedGeometry {
	g := geospatial.DecodeGeometry(encoded, metrics.SourceHERE)
	if !g.Decoded() {
		metrics.PartialGeometries.WithLabelValues(api).Inc()
	}
	return g
}
