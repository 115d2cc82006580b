package ports

import (
	"context"
	"errors"

	"github.com/samirrijal/geoflex/internal/core/domain"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("not found")

// GeometryRepository persists archived geometries.
type GeometryRepository interface {
	// Save inserts g and fills in its ID and CreatedAt.
	Save(ctx context.Context, g *domain.StoredGeometry) error
	GetByID(ctx context.Context, id string) (*domain.StoredGeometry, error)
	List(ctx context.Context, offset, limit int) ([]domain.StoredGeometry, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
