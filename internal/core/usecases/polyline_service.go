package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/geoflex/internal/core/domain"
	"github.com/samirrijal/geoflex/internal/core/ports"
	"github.com/samirrijal/geoflex/internal/pkg/flexpolyline"
	"github.com/samirrijal/geoflex/internal/pkg/geospatial"
	"github.com/samirrijal/geoflex/internal/pkg/metrics"
)

// PolylineOptions tunes PolylineService.
type PolylineOptions struct {
	DefaultPrecision int
	CacheTTL         time.Duration
	MaxPoints        int
}

// PolylineService encodes and decodes Flexible Polylines for API clients.
type PolylineService struct {
	cache     ports.CacheService
	publisher ports.EventPublisher
	opts      PolylineOptions
}

// NewPolylineService creates a new PolylineService. cache and publisher may
// be nil.
func NewPolylineService(cache ports.CacheService, publisher ports.EventPublisher, opts PolylineOptions) *PolylineService {
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = 100_000
	}
	return &PolylineService{cache: cache, publisher: publisher, opts: opts}
}

// Encode serializes req.Points. A missing precision falls back to the
// configured default.
func (s *PolylineService) Encode(ctx context.Context, req domain.EncodeRequest) (string, error) {
	if len(req.Points) > s.opts.MaxPoints {
		return "", fmt.Errorf("%w: %d > %d", ErrTooManyPoints, len(req.Points), s.opts.MaxPoints)
	}
	precision := s.opts.DefaultPrecision
	if req.Precision != nil {
		precision = *req.Precision
	}
	dim, err := flexpolyline.ParseThirdDimension(req.ThirdDimension)
	if err != nil {
		return "", err
	}

	encoded, err := flexpolyline.Encode(geospatial.FlexPoints(req.Points), precision, dim, req.ThirdDimensionPrecision)
	metrics.ObserveEncode(err)
	if err != nil {
		return "", err
	}
	return encoded, nil
}

// Decode parses an encoded string. Successful results are cached by content
// hash; failures are never cached.
func (s *PolylineService) Decode(ctx context.Context, encoded string) (*domain.DecodedPolyline, error) {
	cacheKey := decodeCacheKey(encoded)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var d domain.DecodedPolyline
			if err := json.Unmarshal(data, &d); err == nil {
				metrics.CacheHits.WithLabelValues("polyline_decode").Inc()
				return &d, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("polyline_decode").Inc()
	}

	pl, err := flexpolyline.Decode(encoded)
	if err != nil {
		metrics.ObserveDecode(metrics.SourceAPI, 0, err)
		s.reportFailure(ctx, err)
		return nil, err
	}
	metrics.ObserveDecode(metrics.SourceAPI, len(pl.Points), nil)
	if len(pl.Points) > s.opts.MaxPoints {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyPoints, len(pl.Points), s.opts.MaxPoints)
	}

	d := geospatial.Describe(pl)

	if s.cache != nil && s.opts.CacheTTL > 0 {
		if data, err := json.Marshal(d); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, int(s.opts.CacheTTL.Seconds()))
		}
	}

	return &d, nil
}

// Header reads only the header of an encoded string.
func (s *PolylineService) Header(encoded string) (flexpolyline.Header, error) {
	dec, err := flexpolyline.NewDecoder(encoded)
	if err != nil {
		return flexpolyline.Header{}, err
	}
	return dec.Header(), nil
}

// ToGeoJSON renders a decoded polyline as a GeoJSON feature.
func (s *PolylineService) ToGeoJSON(d *domain.DecodedPolyline) *geojson.Feature {
	return geospatial.Feature(*d)
}

// ToGooglePolyline transcodes a decoded polyline to Google's format.
func (s *PolylineService) ToGooglePolyline(d *domain.DecodedPolyline) string {
	return geospatial.GooglePolyline(d.Points)
}

func (s *PolylineService) reportFailure(ctx context.Context, err error) {
	if s.publisher == nil {
		return
	}
	f := &domain.DecodeFailure{
		Source: metrics.SourceAPI,
		Code:   flexpolyline.Code(err),
		Error:  err.Error(),
		Time:   time.Now().UTC(),
	}
	if perr := s.publisher.PublishDecodeFailure(ctx, f); perr != nil {
		slog.Debug("publish decode failure", "error", perr)
	}
}

func decodeCacheKey(encoded string) string {
	sum := sha256.Sum256([]byte(encoded))
	return "polyline:decode:" + hex.EncodeToString(sum[:])
}
