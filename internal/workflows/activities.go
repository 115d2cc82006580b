package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/geoflex/internal/core/domain"
	"github.com/samirrijal/geoflex/internal/core/ports"
	"github.com/samirrijal/geoflex/internal/core/usecases"
	"github.com/samirrijal/geoflex/internal/pkg/flexpolyline"
	"github.com/samirrijal/geoflex/internal/pkg/metrics"
)

// ArchiveActivities holds the activity implementations for the archive workflow.
type ArchiveActivities struct {
	Geometries *usecases.GeometryService
}

// DecodeGeometry validates the encoded string and derives its stored
// metadata. Undecodable input fails without retries.
func (a *ArchiveActivities) DecodeGeometry(ctx context.Context, input ArchiveInput) (*domain.StoredGeometry, error) {
	g, err := a.Geometries.Prepare(input.Kind, input.Source, input.Polyline)
	if err != nil {
		if errors.Is(err, usecases.ErrInvalidArgument) || flexpolyline.Code(err) != "unknown" {
			metrics.ArchiveOutcomes.WithLabelValues("rejected").Inc()
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), "invalid_geometry", err)
		}
		return nil, err
	}
	return g, nil
}

// StoreGeometry saves a decoded geometry and returns it with its ID.
func (a *ArchiveActivities) StoreGeometry(ctx context.Context, g *domain.StoredGeometry) (*domain.StoredGeometry, error) {
	if err := a.Geometries.Store(ctx, g); err != nil {
		metrics.ArchiveOutcomes.WithLabelValues("failed").Inc()
		return nil, err
	}
	activity.GetLogger(ctx).Info("geometry stored", "id", g.ID, "points", g.PointCount)
	return g, nil
}

// PublishStored announces a stored geometry.
func (a *ArchiveActivities) PublishStored(ctx context.Context, g *domain.StoredGeometry) error {
	if err := a.Geometries.PublishStored(ctx, g); err != nil {
		return fmt.Errorf("publish geometry %s: %w", g.ID, err)
	}
	metrics.ArchiveOutcomes.WithLabelValues("stored").Inc()
	return nil
}

// DeleteGeometry removes a stored geometry (saga compensation). A row that
// is already gone counts as deleted.
func (a *ArchiveActivities) DeleteGeometry(ctx context.Context, id string) error {
	err := a.Geometries.Delete(ctx, id)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("delete geometry %s: %w", id, err)
	}
	metrics.ArchiveOutcomes.WithLabelValues("compensated").Inc()
	activity.GetLogger(ctx).Info("geometry deleted (saga compensation)", "id", id)
	return nil
}
