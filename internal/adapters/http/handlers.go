package http

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geoflex/internal/core/domain"
)

const maxPolylineLength = 1 << 20

type decodeRequest struct {
	Polyline string `json:"polyline"`
	Format   string `json:"format"`
}

type encodeResponse struct {
	Polyline string `json:"polyline"`
}

type googlePolylineResponse struct {
	Polyline  string `json:"polyline"`
	Precision int    `json:"precision"`
}

// EncodePolylineHandler encodes a list of points.
func EncodePolylineHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req domain.EncodeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.Points) == 0 {
			return errBadRequest(c, "points is required")
		}

		encoded, err := deps.Polylines.Encode(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(encodeResponse{Polyline: encoded})
	}
}

// DecodePolylineHandler decodes a polyline given as query parameter (GET)
// or JSON body (POST). format selects points (default), geojson or google.
func DecodePolylineHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := decodeRequest{Polyline: c.Query("polyline"), Format: c.Query("format")}
		if c.Method() == fiber.MethodPost {
			if err := c.BodyParser(&req); err != nil {
				return errBadRequest(c, "invalid request body")
			}
		}
		req.Polyline = strings.TrimSpace(req.Polyline)
		if req.Polyline == "" {
			return errBadRequest(c, "polyline is required")
		}
		if len(req.Polyline) > maxPolylineLength {
			return newError(c, fiber.StatusRequestEntityTooLarge, "payload_too_large", "polyline too long")
		}

		format := req.Format
		if format == "" {
			format = "points"
		}
		switch format {
		case "points", "geojson", "google":
		default:
			return errBadRequest(c, "format must be points, geojson or google")
		}

		d, err := deps.Polylines.Decode(c.UserContext(), req.Polyline)
		if err != nil {
			return writeError(c, err)
		}

		// The same string always decodes the same way.
		c.Set("Cache-Control", "public, max-age=86400, immutable")
		switch format {
		case "geojson":
			c.Set(fiber.HeaderContentType, "application/geo+json")
			data, err := deps.Polylines.ToGeoJSON(d).MarshalJSON()
			if err != nil {
				return errInternal(c, err.Error())
			}
			return c.Send(data)
		case "google":
			return c.JSON(googlePolylineResponse{Polyline: deps.Polylines.ToGooglePolyline(d), Precision: 5})
		}
		return c.JSON(d)
	}
}

// PolylineHeaderHandler returns only the header of an encoded string.
func PolylineHeaderHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := strings.TrimSpace(c.Query("polyline"))
		if s == "" {
			return errBadRequest(c, "polyline is required")
		}
		if len(s) > maxPolylineLength {
			return newError(c, fiber.StatusRequestEntityTooLarge, "payload_too_large", "polyline too long")
		}
		h, err := deps.Polylines.Header(s)
		if err != nil {
			return writeError(c, err)
		}
		c.Set("Cache-Control", "public, max-age=86400, immutable")
		return c.JSON(h)
	}
}

// RoutesHandler returns HERE route alternatives with decoded geometry.
func RoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseRouteRequest(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		routes, err := deps.Routing.Routes(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(routesResponse(routes))
	}
}

// IntermodalRoutesHandler returns HERE intermodal routes.
func IntermodalRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseRouteRequest(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		routes, err := deps.Routing.IntermodalRoutes(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(routesResponse(routes))
	}
}

func routesResponse(routes []domain.Route) fiber.Map {
	partial := 0
	for _, r := range routes {
		partial += r.PartialSections()
	}
	return fiber.Map{
		"routes":           routes,
		"count":            len(routes),
		"partial_sections": partial,
	}
}

// IsolinesHandler returns reachable areas around a point.
func IsolinesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin, err := parseLatLng(c.Query("origin"))
		if err != nil {
			return errBadRequest(c, "origin: "+err.Error())
		}
		values, err := parseInts(c.Query("range_values"))
		if err != nil {
			return errBadRequest(c, "range_values: "+err.Error())
		}
		req := domain.IsolineRequest{
			Origin:        origin,
			Range:         domain.IsolineRange{Type: c.Query("range_type", "time"), Values: values},
			TransportMode: c.Query("transport_mode"),
		}
		if req.DepartureTime, err = parseTime(c.Query("departure_time")); err != nil {
			return errBadRequest(c, "departure_time: "+err.Error())
		}

		isolines, err := deps.Isolines.Isolines(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"isolines": isolines, "count": len(isolines)})
	}
}

func parseRouteRequest(c *fiber.Ctx) (domain.RouteRequest, error) {
	var req domain.RouteRequest
	var err error

	if req.Origin, err = parseLatLng(c.Query("origin")); err != nil {
		return req, fmt.Errorf("origin: %w", err)
	}
	if req.Destination, err = parseLatLng(c.Query("destination")); err != nil {
		return req, fmt.Errorf("destination: %w", err)
	}
	for _, raw := range c.Context().QueryArgs().PeekMulti("via") {
		p, err := parseLatLng(string(raw))
		if err != nil {
			return req, fmt.Errorf("via: %w", err)
		}
		req.Via = append(req.Via, p)
	}
	if req.DepartureTime, err = parseTime(c.Query("departure_time")); err != nil {
		return req, fmt.Errorf("departure_time: %w", err)
	}
	req.TransportMode = c.Query("transport_mode")
	req.Alternatives = c.QueryInt("alternatives", 0)
	req.Elevation = c.QueryBool("elevation", false)
	return req, nil
}

// parseLatLng parses "lat,lng".
func parseLatLng(s string) (domain.GeoPoint, error) {
	if s == "" {
		return domain.GeoPoint{}, fmt.Errorf("required, as lat,lng")
	}
	latS, lngS, ok := strings.Cut(s, ",")
	if !ok {
		return domain.GeoPoint{}, fmt.Errorf("expected lat,lng, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latS), 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("bad latitude %q", latS)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngS), 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("bad longitude %q", lngS)
	}
	if !finite(lat) || !finite(lng) {
		return domain.GeoPoint{}, fmt.Errorf("coordinates must be finite, got %q", s)
	}
	return domain.GeoPoint{Lat: lat, Lon: lng}, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func parseInts(s string) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("required")
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad integer %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("expected RFC 3339 time")
	}
	return &t, nil
}
