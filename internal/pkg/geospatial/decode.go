package geospatial

import (
	"log/slog"

	"github.com/samirrijal/geoflex/internal/core/domain"
	"github.com/samirrijal/geoflex/internal/pkg/flexpolyline"
	"github.com/samirrijal/geoflex/internal/pkg/metrics"
)

// DecodeGeometry decodes an upstream polyline. A string that fails to decode
// does not fail the caller: the result keeps the raw string, has no
// geometry and carries the error code, and the failure is logged and
// counted under source.
func DecodeGeometry(s, source string) domain.EncodedGeometry {
	g := domain.EncodedGeometry{Polyline: s}

	pl, err := flexpolyline.Decode(s)
	if err != nil {
		metrics.ObserveDecode(source, 0, err)
		slog.Warn("polyline decode failed",
			"source", source,
			"code", flexpolyline.Code(err),
			"error", err,
			"length", len(s),
		)
		g.DecodeError = flexpolyline.Code(err)
		return g
	}
	metrics.ObserveDecode(source, len(pl.Points), nil)

	g.Precision = int(pl.Precision)
	if pl.Is3D() {
		g.ThirdDimension = pl.ThirdDimension.String()
	}
	g.Geometry = &domain.GeoLineString{Coordinates: Points(pl)}
	return g
}
