package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/samirrijal/geoflex/internal/core/domain"
	"github.com/samirrijal/geoflex/internal/core/ports"
	"github.com/samirrijal/geoflex/internal/pkg/flexpolyline"
	"github.com/samirrijal/geoflex/internal/pkg/geospatial"
	"github.com/samirrijal/geoflex/internal/pkg/metrics"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var geometryKinds = map[string]bool{
	domain.KindRouteSection: true,
	domain.KindIsoline:      true,
	domain.KindManual:       true,
}

// GeometryService archives encoded geometries.
type GeometryService struct {
	repo      ports.GeometryRepository
	publisher ports.EventPublisher
	workflows ports.WorkflowStarter
}

// NewGeometryService creates a new GeometryService. publisher and workflows
// may be nil.
func NewGeometryService(repo ports.GeometryRepository, publisher ports.EventPublisher, workflows ports.WorkflowStarter) *GeometryService {
	return &GeometryService{repo: repo, publisher: publisher, workflows: workflows}
}

// Prepare decodes encoded and derives the metadata stored with it. The
// codec error is returned as is so callers can match its kind.
func (s *GeometryService) Prepare(kind, source, encoded string) (*domain.StoredGeometry, error) {
	if !geometryKinds[kind] {
		return nil, fmt.Errorf("%w: unknown geometry kind %q", ErrInvalidArgument, kind)
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: source is required", ErrInvalidArgument)
	}

	pl, err := flexpolyline.Decode(encoded)
	if err != nil {
		metrics.ObserveDecode(metrics.SourceArchive, 0, err)
		return nil, err
	}
	metrics.ObserveDecode(metrics.SourceArchive, len(pl.Points), nil)
	if len(pl.Points) == 0 {
		return nil, fmt.Errorf("%w: geometry has no points", ErrInvalidArgument)
	}

	d := geospatial.Describe(pl)
	return &domain.StoredGeometry{
		Kind:           kind,
		Source:         source,
		Polyline:       encoded,
		Precision:      d.Precision,
		ThirdDimension: d.ThirdDimension,
		PointCount:     len(d.Points),
		LengthMeters:   d.LengthMeters,
		Bounds:         *d.Bounds,
	}, nil
}

// Store saves a prepared geometry.
func (s *GeometryService) Store(ctx context.Context, g *domain.StoredGeometry) error {
	if err := s.repo.Save(ctx, g); err != nil {
		return fmt.Errorf("save geometry: %w", err)
	}
	return nil
}

// PublishStored announces a stored geometry.
func (s *GeometryService) PublishStored(ctx context.Context, g *domain.StoredGeometry) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.PublishGeometryStored(ctx, g)
}

// Archive prepares, stores and announces a geometry in one call. The
// announcement is best effort.
func (s *GeometryService) Archive(ctx context.Context, kind, source, encoded string) (*domain.StoredGeometry, error) {
	g, err := s.Prepare(kind, source, encoded)
	if err != nil {
		metrics.ArchiveOutcomes.WithLabelValues("rejected").Inc()
		return nil, err
	}
	if err := s.Store(ctx, g); err != nil {
		metrics.ArchiveOutcomes.WithLabelValues("failed").Inc()
		return nil, err
	}
	if err := s.PublishStored(ctx, g); err != nil {
		slog.Warn("publish geometry stored", "id", g.ID, "error", err)
	}
	metrics.ArchiveOutcomes.WithLabelValues("stored").Inc()
	return g, nil
}

// ScheduleArchive hands a computed geometry to the durable archive workflow.
func (s *GeometryService) ScheduleArchive(ctx context.Context, event *domain.GeometryEvent) (string, error) {
	if s.workflows == nil {
		return "", fmt.Errorf("no workflow starter configured")
	}
	if event.Polyline == "" {
		return "", fmt.Errorf("%w: event has no polyline", ErrInvalidArgument)
	}
	return s.workflows.StartArchive(ctx, event)
}

// GetByID returns a stored geometry with its decoded coordinates.
func (s *GeometryService) GetByID(ctx context.Context, id string) (*domain.StoredGeometry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: malformed id", ErrInvalidArgument)
	}
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pl, err := flexpolyline.Decode(g.Polyline)
	if err != nil {
		// Rows are validated on the way in, so this is data corruption.
		return nil, fmt.Errorf("stored geometry %s: %w", id, err)
	}
	g.Geometry = &domain.GeoLineString{Coordinates: geospatial.Points(pl)}
	return g, nil
}

// List returns one page of geometries and the total count.
func (s *GeometryService) List(ctx context.Context, offset, limit int) ([]domain.StoredGeometry, int, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count geometries: %w", err)
	}
	items, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list geometries: %w", err)
	}
	return items, total, nil
}

// Delete removes a stored geometry.
func (s *GeometryService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed id", ErrInvalidArgument)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.publisher != nil {
		data, _ := json.Marshal(map[string]string{"event": "geometry.deleted", "id": id})
		if err := s.publisher.PublishBroadcast(ctx, data); err != nil {
			slog.Warn("broadcast geometry deleted", "id", id, "error", err)
		}
	}
	return nil
}
