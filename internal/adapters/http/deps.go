package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geoflex/internal/adapters/postgres"
	"github.com/samirrijal/geoflex/internal/adapters/valkey"
	"github.com/samirrijal/geoflex/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Polylines  *usecases.PolylineService
	Routing    *usecases.RoutingService
	Isolines   *usecases.IsolineService
	Geometries *usecases.GeometryService
	NATS       *nats.Conn
	DB         *postgres.DB
	Cache      *valkey.Cache
}
