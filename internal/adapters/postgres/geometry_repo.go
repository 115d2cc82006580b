package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/geoflex/internal/core/domain"
	"github.com/samirrijal/geoflex/internal/core/ports"
)

// GeometryRepo implements ports.GeometryRepository with pgx.
type GeometryRepo struct {
	db *DB
}

// NewGeometryRepo creates a new GeometryRepo.
func NewGeometryRepo(db *DB) *GeometryRepo {
	return &GeometryRepo{db: db}
}

const geometryColumns = `id, kind, source, polyline, precision, third_dimension,
	point_count, length_meters, min_lat, min_lon, max_lat, max_lon, created_at`

// Save inserts g and fills in its ID and CreatedAt.
func (r *GeometryRepo) Save(ctx context.Context, g *domain.StoredGeometry) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO geometries (kind, source, polyline, precision, third_dimension,
		                        point_count, length_meters, min_lat, min_lon, max_lat, max_lon)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, g.Kind, g.Source, g.Polyline, g.Precision, g.ThirdDimension,
		g.PointCount, g.LengthMeters,
		g.Bounds.MinLat, g.Bounds.MinLon, g.Bounds.MaxLat, g.Bounds.MaxLon,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert geometry: %w", err)
	}
	return nil
}

// GetByID returns a geometry by UUID.
func (r *GeometryRepo) GetByID(ctx context.Context, id string) (*domain.StoredGeometry, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+geometryColumns+` FROM geometries WHERE id = $1`, id)
	g, err := scanGeometry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// List returns geometries newest first.
func (r *GeometryRepo) List(ctx context.Context, offset, limit int) ([]domain.StoredGeometry, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+geometryColumns+`
		FROM geometries
		ORDER BY created_at DESC, id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	geometries := []domain.StoredGeometry{}
	for rows.Next() {
		g, err := scanGeometry(rows)
		if err != nil {
			return nil, err
		}
		geometries = append(geometries, *g)
	}
	return geometries, rows.Err()
}

// Count returns the number of stored geometries.
func (r *GeometryRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM geometries`).Scan(&n)
	return n, err
}

// Delete removes a geometry. Deleting a missing row is ports.ErrNotFound.
func (r *GeometryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM geometries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func scanGeometry(row pgx.Row) (*domain.StoredGeometry, error) {
	var g domain.StoredGeometry
	err := row.Scan(
		&g.ID, &g.Kind, &g.Source, &g.Polyline, &g.Precision, &g.ThirdDimension,
		&g.PointCount, &g.LengthMeters,
		&g.Bounds.MinLat, &g.Bounds.MinLon, &g.Bounds.MaxLat, &g.Bounds.MaxLon,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
