package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/gridsquare/internal/adapters/postgres"
	"github.com/samirrijal/gridsquare/internal/adapters/valkey"
	"github.com/samirrijal/gridsquare/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers. Infrastructure
// fields may be nil when the backing service is unavailable.
type Dependencies struct {
	Grid       *usecases.GridService
	Regions    *usecases.RegionService
	Boundaries *usecases.BoundaryService
	Places     *usecases.PlaceService
	Views      *usecases.ViewService
	NATS       *nats.Conn
	DB         *postgres.DB
	Cache      *valkey.Cache
}
