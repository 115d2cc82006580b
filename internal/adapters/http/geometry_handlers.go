package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geoflex/internal/core/domain"
)

type archiveRequest struct {
	Kind     string `json:"kind"`
	Source   string `json:"source"`
	Polyline string `json:"polyline"`
}

// ListGeometriesHandler returns one page of archived geometries.
func ListGeometriesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 20)

		items, total, err := deps.Geometries.List(c.UserContext(), offset, limit)
		if err != nil {
			return writeError(c, err)
		}
		if items == nil {
			items = []domain.StoredGeometry{}
		}

		// Echo what the service actually used after clamping.
		if offset < 0 {
			offset = 0
		}
		switch {
		case limit <= 0:
			limit = 20
		case limit > 100:
			limit = 100
		}
		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		c.Set("Cache-Control", "no-cache")
		return c.JSON(PaginatedResponse{Data: items, Pagination: pg})
	}
}

// CreateGeometryHandler archives an encoded geometry synchronously.
func CreateGeometryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req archiveRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Polyline == "" {
			return errBadRequest(c, "polyline is required")
		}
		if req.Kind == "" {
			req.Kind = domain.KindManual
		}

		g, err := deps.Geometries.Archive(c.UserContext(), req.Kind, req.Source, req.Polyline)
		if err != nil {
			return writeError(c, err)
		}
		c.Location("/v1/geometries/" + g.ID)
		return c.Status(fiber.StatusCreated).JSON(g)
	}
}

// GetGeometryHandler returns a stored geometry with its coordinates.
func GetGeometryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		g, err := deps.Geometries.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(g)
	}
}

// DeleteGeometryHandler removes a stored geometry.
func DeleteGeometryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Geometries.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
