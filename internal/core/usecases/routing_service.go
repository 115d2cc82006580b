package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/samirrijal/geoflex/internal/core/domain"
	"github.com/samirrijal/geoflex/internal/core/ports"
)

var routeModes = map[string]bool{
	"car": true, "truck": true, "pedestrian": true, "bicycle": true,
	"scooter": true, "taxi": true, "bus": true, "privateBus": true,
}

// RoutingService fetches routes from HERE and announces their geometry.
type RoutingService struct {
	here      ports.HereClient
	publisher ports.EventPublisher
	now       func() time.Time
}

// NewRoutingService creates a new RoutingService. publisher may be nil.
func NewRoutingService(here ports.HereClient, publisher ports.EventPublisher) *RoutingService {
	return &RoutingService{here: here, publisher: publisher, now: time.Now}
}

// Routes returns route alternatives between two points.
func (s *RoutingService) Routes(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error) {
	if req.TransportMode == "" {
		req.TransportMode = "car"
	}
	if !routeModes[req.TransportMode] {
		return nil, fmt.Errorf("%w: unsupported transport mode %q", ErrInvalidArgument, req.TransportMode)
	}
	if err := validateRouteRequest(req); err != nil {
		return nil, err
	}

	routes, err := s.here.CalculateRoutes(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("calculate routes: %w", err)
	}
	s.announce(ctx, routes)
	return routes, nil
}

// IntermodalRoutes returns routes combining public transit, walking and
// shared mobility. The transport mode is chosen upstream.
func (s *RoutingService) IntermodalRoutes(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error) {
	req.TransportMode = ""
	if err := validateRouteRequest(req); err != nil {
		return nil, err
	}

	routes, err := s.here.CalculateIntermodalRoutes(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("calculate intermodal routes: %w", err)
	}
	s.announce(ctx, routes)
	return routes, nil
}

// announce publishes one event per decoded section so the archiver can
// store it. Publishing is best effort.
func (s *RoutingService) announce(ctx context.Context, routes []domain.Route) {
	for _, r := range routes {
		if n := r.PartialSections(); n > 0 {
			slog.Warn("route returned with undecodable sections",
				"route_id", r.ID, "partial", n, "sections", len(r.Sections))
		}
		if s.publisher == nil {
			continue
		}
		for _, sec := range r.Sections {
			if !sec.Geometry.Decoded() {
				continue
			}
			event := &domain.GeometryEvent{
				Kind:       domain.KindRouteSection,
				Source:     "route:" + r.ID + "/" + sec.ID,
				Polyline:   sec.Geometry.Polyline,
				ComputedAt: s.now().UTC(),
			}
			if err := s.publisher.PublishRouteComputed(ctx, event); err != nil {
				slog.Warn("publish route computed", "source", event.Source, "error", err)
			}
		}
	}
}

func validateRouteRequest(req domain.RouteRequest) error {
	if err := validatePoint("origin", req.Origin); err != nil {
		return err
	}
	if err := validatePoint("destination", req.Destination); err != nil {
		return err
	}
	for i, v := range req.Via {
		if err := validatePoint(fmt.Sprintf("via[%d]", i), v); err != nil {
			return err
		}
	}
	if req.Alternatives < 0 || req.Alternatives > 6 {
		return fmt.Errorf("%w: alternatives must be 0-6", ErrInvalidArgument)
	}
	return nil
}

func validatePoint(name string, p domain.GeoPoint) error {
	var problems []string
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < -90 || p.Lat > 90 {
		problems = append(problems, "latitude out of range")
	}
	if math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) || p.Lon < -180 || p.Lon > 180 {
		problems = append(problems, "longitude out of range")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, name, strings.Join(problems, ", "))
	}
	return nil
}
