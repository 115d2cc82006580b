package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/geoflex/internal/core/domain"
	"github.com/samirrijal/geoflex/internal/core/ports"
)

const maxIsolineRanges = 10

var isolineModes = map[string]bool{
	"car": true, "truck": true, "pedestrian": true,
}

// IsolineService fetches reachable areas from HERE.
type IsolineService struct {
	here ports.HereClient
}

// NewIsolineService creates a new IsolineService.
func NewIsolineService(here ports.HereClient) *IsolineService {
	return &IsolineService{here: here}
}

// Isolines returns one isoline per requested range value.
func (s *IsolineService) Isolines(ctx context.Context, req domain.IsolineRequest) ([]domain.Isoline, error) {
	if err := validatePoint("origin", req.Origin); err != nil {
		return nil, err
	}
	switch req.Range.Type {
	case "distance", "time", "consumption":
	default:
		return nil, fmt.Errorf("%w: range type must be distance, time or consumption", ErrInvalidArgument)
	}
	if len(req.Range.Values) == 0 || len(req.Range.Values) > maxIsolineRanges {
		return nil, fmt.Errorf("%w: between 1 and %d range values required", ErrInvalidArgument, maxIsolineRanges)
	}
	for _, v := range req.Range.Values {
		if v <= 0 {
			return nil, fmt.Errorf("%w: range values must be positive", ErrInvalidArgument)
		}
	}
	if req.TransportMode == "" {
		req.TransportMode = "car"
	}
	if !isolineModes[req.TransportMode] {
		return nil, fmt.Errorf("%w: unsupported transport mode %q", ErrInvalidArgument, req.TransportMode)
	}

	isolines, err := s.here.CalculateIsolines(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("calculate isolines: %w", err)
	}

	for _, iso := range isolines {
		for _, p := range iso.Polygons {
			if !p.Outer.Decoded() {
				slog.Warn("isoline polygon without geometry",
					"range_type", iso.RangeType, "range_value", iso.RangeValue, "code", p.Outer.DecodeError)
			}
		}
	}
	return isolines, nil
}
