package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/geoflex/internal/adapters/http"
	"github.com/samirrijal/geoflex/internal/adapters/here"
	"github.com/samirrijal/geoflex/internal/core/domain"
	"github.com/samirrijal/geoflex/internal/core/ports"
	"github.com/samirrijal/geoflex/internal/core/usecases"
)

const (
	reference = "BFoz5xJ67i1B1B7PzIhaxL7Y"
	storedID  = "7f9c2ba4-e88f-4d1c-9b3e-0d6a5c1f2e3a"
)

// ---- Mocks ----

type mockHere struct {
	routesFn   func(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error)
	isolinesFn func(ctx context.Context, req domain.IsolineRequest) ([]domain.Isoline, error)
}

func (m *mockHere) CalculateRoutes(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error) {
	if m.routesFn != nil {
		return m.routesFn(ctx, req)
	}
	return nil, nil
}
func (m *mockHere) CalculateIntermodalRoutes(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error) {
	return m.CalculateRoutes(ctx, req)
}
func (m *mockHere) CalculateIsolines(ctx context.Context, req domain.IsolineRequest) ([]domain.Isoline, error) {
	if m.isolinesFn != nil {
		return m.isolinesFn(ctx, req)
	}
	return nil, nil
}

type mockGeometryRepo struct {
	getByIDFn func(ctx context.Context, id string) (*domain.StoredGeometry, error)
	listFn    func(ctx context.Context, offset, limit int) ([]domain.StoredGeometry, error)
	countFn   func(ctx context.Context) (int, error)
}

func (m *mockGeometryRepo) Save(ctx context.Context, g *domain.StoredGeometry) error {
	g.ID = storedID
	g.CreatedAt = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	return nil
}
func (m *mockGeometryRepo) GetByID(ctx context.Context, id string) (*domain.StoredGeometry, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ports.ErrNotFound
}
func (m *mockGeometryRepo) List(ctx context.Context, offset, limit int) ([]domain.StoredGeometry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, nil
}
func (m *mockGeometryRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}
func (m *mockGeometryRepo) Delete(ctx context.Context, id string) error { return nil }

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	d := &handler.Dependencies{
		Polylines:  usecases.NewPolylineService(nil, nil, usecases.PolylineOptions{DefaultPrecision: 5, MaxPoints: 1000}),
		Routing:    usecases.NewRoutingService(&mockHere{}, nil),
		Isolines:   usecases.NewIsolineService(&mockHere{}),
		Geometries: usecases.NewGeometryService(&mockGeometryRepo{}, nil, nil),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]interface{}, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	headers := map[string]string{}
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	var out map[string]interface{}
	_ = json.Unmarshal(readBody(t, resp.Body), &out)
	return resp.StatusCode, out, headers
}

// ---- Polyline handler tests ----

func TestEncode_Success(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"points":[{"lat":50.1022829,"lon":8.6982122},{"lat":50.1020076,"lon":8.6956695},{"lat":50.1006313,"lon":8.6914960},{"lat":50.0987800,"lon":8.6875156}]}`
	status, out, _ := doJSON(t, app, "POST", "/v1/polylines/encode", body)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %v", status, out)
	}
	if out["polyline"] != reference {
		t.Errorf("expected %s, got %v", reference, out["polyline"])
	}
}

func TestEncode_Errors(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Polylines = usecases.NewPolylineService(nil, nil, usecases.PolylineOptions{DefaultPrecision: 5, MaxPoints: 1})
	})
	app := setupApp(deps)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"no points", `{"points":[]}`, 400, "bad_request"},
		{"malformed", `{"points":`, 400, "bad_request"},
		{"bad third dimension", `{"points":[{"lat":1,"lon":2}],"third_dimension":"depth"}`, 422, "invalid_polyline:invalid_third_dimension"},
		{"bad precision", `{"points":[{"lat":1,"lon":2}],"precision":16}`, 422, "invalid_polyline:invalid_precision"},
		{"missing z", `{"points":[{"lat":1,"lon":2}],"third_dimension":"altitude"}`, 422, "invalid_polyline:missing_elevation"},
		{"too many points", `{"points":[{"lat":1,"lon":2},{"lat":3,"lon":4}]}`, 413, "payload_too_large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out, _ := doJSON(t, app, "POST", "/v1/polylines/encode", tt.body)
			if status != tt.wantCode {
				t.Fatalf("expected %d, got %d: %v", tt.wantCode, status, out)
			}
			if out["code"] != tt.wantErr {
				t.Errorf("expected code %q, got %v", tt.wantErr, out["code"])
			}
		})
	}
}

func TestDecode_Points(t *testing.T) {
	app := setupApp(makeDeps())

	status, out, headers := doJSON(t, app, "GET", "/v1/polylines/decode?polyline="+reference, "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	points, _ := out["points"].([]interface{})
	if len(points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(points))
	}
	first := points[0].(map[string]interface{})
	if first["lat"] != 50.10228 || first["lon"] != 8.69821 {
		t.Errorf("unexpected first point %v", first)
	}
	if out["third_dimension"] != "absent" {
		t.Errorf("expected absent third dimension, got %v", out["third_dimension"])
	}
	if !strings.Contains(headers["Cache-Control"], "immutable") {
		t.Errorf("expected immutable Cache-Control, got %q", headers["Cache-Control"])
	}
}

func TestDecode_GeoJSON(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/polylines/decode?format=geojson&polyline="+reference, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/geo+json" {
		t.Errorf("expected application/geo+json, got %q", ct)
	}
	var f struct {
		Type     string `json:"type"`
		Geometry struct {
			Type        string      `json:"type"`
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		t.Fatal(err)
	}
	if f.Type != "Feature" || f.Geometry.Type != "LineString" || len(f.Geometry.Coordinates) != 4 {
		t.Errorf("unexpected feature %+v", f)
	}
	// GeoJSON orders lon, lat.
	if f.Geometry.Coordinates[0][0] != 8.69821 {
		t.Errorf("expected lon first, got %v", f.Geometry.Coordinates[0])
	}
}

func TestDecode_Google(t *testing.T) {
	app := setupApp(makeDeps())

	status, out, _ := doJSON(t, app, "POST", "/v1/polylines/decode", `{"polyline":"`+reference+`","format":"google"}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if s, _ := out["polyline"].(string); s == "" {
		t.Error("expected google polyline")
	}
	if out["precision"] != float64(5) {
		t.Errorf("expected precision 5, got %v", out["precision"])
	}
}

func TestDecode_Errors(t *testing.T) {
	app := setupApp(makeDeps())

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantErr  string
	}{
		{"missing", "/v1/polylines/decode", 400, "bad_request"},
		{"bad format", "/v1/polylines/decode?format=wkt&polyline=" + reference, 400, "bad_request"},
		{"unterminated", "/v1/polylines/decode?polyline=BFoz5xJ67i1B1B7", 422, "invalid_polyline:unterminated_value"},
		{"bad character", "/v1/polylines/decode?polyline=BF%23", 422, "invalid_polyline:invalid_character"},
		{"version", "/v1/polylines/decode?polyline=CF", 422, "invalid_polyline:unsupported_version"},
		{"trailing", "/v1/polylines/decode?polyline=BFoz5xJ67i1B1B7Pz", 422, "invalid_polyline:trailing_garbage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out, _ := doJSON(t, app, "GET", tt.target, "")
			if status != tt.wantCode {
				t.Fatalf("expected %d, got %d: %v", tt.wantCode, status, out)
			}
			if out["code"] != tt.wantErr {
				t.Errorf("expected code %q, got %v", tt.wantErr, out["code"])
			}
		})
	}
}

func TestDecode_DeprecatedAlias(t *testing.T) {
	app := setupApp(makeDeps())

	status, _, headers := doJSON(t, app, "GET", "/v1/decode?polyline="+reference, "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if headers["Deprecation"] != "true" {
		t.Errorf("expected Deprecation header, got %q", headers["Deprecation"])
	}
	if !strings.Contains(headers["Link"], "/v1/polylines/decode") {
		t.Errorf("expected successor link, got %q", headers["Link"])
	}
	if headers["Sunset"] == "" {
		t.Error("expected Sunset header")
	}
}

func TestPolylineHeader(t *testing.T) {
	app := setupApp(makeDeps())

	status, out, _ := doJSON(t, app, "GET", "/v1/polylines/header?polyline=BlBoz5xJ67i1BU", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if out["precision"] != float64(5) || out["third_dimension"] != "altitude" || out["version"] != float64(1) {
		t.Errorf("unexpected header %v", out)
	}
}

// ---- HERE handler tests ----

func TestRoutes_Success(t *testing.T) {
	var got domain.RouteRequest
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Routing = usecases.NewRoutingService(&mockHere{
			routesFn: func(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error) {
				got = req
				return []domain.Route{{
					ID: "r1",
					Sections: []domain.RouteSection{
						{ID: "s1", Geometry: domain.EncodedGeometry{Polyline: reference, Geometry: &domain.GeoLineString{}}},
						{ID: "s2", Geometry: domain.EncodedGeometry{Polyline: "BF#", DecodeError: "invalid_character"}},
					},
				}}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	target := "/v1/routes?origin=43.263,-2.935&destination=43.356,-3.011&via=43.3,-2.98&transport_mode=pedestrian&alternatives=2&departure_time=2026-10-15T08:00:00Z"
	status, out, _ := doJSON(t, app, "GET", target, "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %v", status, out)
	}
	if out["partial_sections"] != float64(1) || out["count"] != float64(1) {
		t.Errorf("unexpected response %v", out)
	}
	if got.TransportMode != "pedestrian" || got.Alternatives != 2 || len(got.Via) != 1 || got.DepartureTime == nil {
		t.Errorf("unexpected request %+v", got)
	}
	if got.Destination.Lon != -3.011 {
		t.Errorf("unexpected destination %+v", got.Destination)
	}
}

func TestRoutes_BadRequest(t *testing.T) {
	app := setupApp(makeDeps())

	for _, target := range []string{
		"/v1/routes?destination=43.356,-3.011",
		"/v1/routes?origin=43.263&destination=43.356,-3.011",
		"/v1/routes?origin=abc,1&destination=43.356,-3.011",
		"/v1/routes?origin=43.263,-2.935&destination=43.356,-3.011&departure_time=tomorrow",
		"/v1/routes?origin=43.263,-2.935&destination=43.356,-3.011&transport_mode=boat",
	} {
		status, _, _ := doJSON(t, app, "GET", target, "")
		if status != 400 {
			t.Errorf("%s: expected 400, got %d", target, status)
		}
	}
}

func TestRoutes_UpstreamError(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Routing = usecases.NewRoutingService(&mockHere{
			routesFn: func(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error) {
				return nil, &here.APIError{API: "routes", Status: 401, Title: "Unauthorized"}
			},
		}, nil)
	})
	app := setupApp(deps)

	status, out, _ := doJSON(t, app, "GET", "/v1/routes?origin=43.263,-2.935&destination=43.356,-3.011", "")
	if status != 502 {
		t.Fatalf("expected 502, got %d", status)
	}
	if out["code"] != "bad_gateway" {
		t.Errorf("expected bad_gateway, got %v", out["code"])
	}
}

func TestIsolines(t *testing.T) {
	var got domain.IsolineRequest
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Isolines = usecases.NewIsolineService(&mockHere{
			isolinesFn: func(ctx context.Context, req domain.IsolineRequest) ([]domain.Isoline, error) {
				got = req
				return []domain.Isoline{{RangeType: "distance", RangeValue: 1000}}, nil
			},
		})
	})
	app := setupApp(deps)

	status, out, _ := doJSON(t, app, "GET", "/v1/isolines?origin=43.263,-2.935&range_type=distance&range_values=1000,2000", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %v", status, out)
	}
	if got.Range.Type != "distance" || len(got.Range.Values) != 2 || got.Range.Values[1] != 2000 {
		t.Errorf("unexpected request %+v", got)
	}

	status, _, _ = doJSON(t, app, "GET", "/v1/isolines?origin=43.263,-2.935&range_values=ten", "")
	if status != 400 {
		t.Errorf("expected 400 for bad range values, got %d", status)
	}
}

// ---- Geometry handler tests ----

func TestGeometries_List(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Geometries = usecases.NewGeometryService(&mockGeometryRepo{
			listFn: func(ctx context.Context, offset, limit int) ([]domain.StoredGeometry, error) {
				return []domain.StoredGeometry{{ID: storedID, Kind: domain.KindManual}}, nil
			},
			countFn: func(ctx context.Context) (int, error) { return 45, nil },
		}, nil, nil)
	})
	app := setupApp(deps)

	status, out, headers := doJSON(t, app, "GET", "/v1/geometries?offset=20&limit=20", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	pg := out["pagination"].(map[string]interface{})
	if pg["total"] != float64(45) || pg["offset"] != float64(20) {
		t.Errorf("unexpected pagination %v", pg)
	}
	link := headers["Link"]
	for _, want := range []string{`offset=0&limit=20>; rel="first"`, `offset=40&limit=20>; rel="next"`, `offset=25&limit=20>; rel="last"`} {
		if !strings.Contains(link, want) {
			t.Errorf("Link %q missing %q", link, want)
		}
	}
}

func TestGeometries_Create(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/geometries", strings.NewReader(`{"source":"upload","polyline":"`+reference+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/geometries/"+storedID {
		t.Errorf("unexpected Location %q", loc)
	}
	var g domain.StoredGeometry
	if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
		t.Fatal(err)
	}
	if g.Kind != domain.KindManual || g.PointCount != 4 {
		t.Errorf("unexpected geometry %+v", g)
	}
}

func TestGeometries_CreateInvalid(t *testing.T) {
	app := setupApp(makeDeps())

	status, out, _ := doJSON(t, app, "POST", "/v1/geometries", `{"source":"upload","polyline":"BF#"}`)
	if status != 422 || out["code"] != "invalid_polyline:invalid_character" {
		t.Errorf("expected 422 invalid_character, got %d %v", status, out)
	}
	status, _, _ = doJSON(t, app, "POST", "/v1/geometries", `{"kind":"track","source":"upload","polyline":"`+reference+`"}`)
	if status != 400 {
		t.Errorf("expected 400 for unknown kind, got %d", status)
	}
}

func TestGeometries_Get(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Geometries = usecases.NewGeometryService(&mockGeometryRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.StoredGeometry, error) {
				return &domain.StoredGeometry{ID: id, Polyline: reference}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	status, out, _ := doJSON(t, app, "GET", "/v1/geometries/"+storedID, "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	geom := out["geometry"].(map[string]interface{})
	if coords := geom["coordinates"].([]interface{}); len(coords) != 4 {
		t.Errorf("expected 4 coordinates, got %d", len(coords))
	}
}

func TestGeometries_GetErrors(t *testing.T) {
	app := setupApp(makeDeps())

	if status, _, _ := doJSON(t, app, "GET", "/v1/geometries/not-a-uuid", ""); status != 400 {
		t.Errorf("expected 400, got %d", status)
	}
	if status, out, _ := doJSON(t, app, "GET", "/v1/geometries/"+storedID, ""); status != 404 || out["code"] != "not_found" {
		t.Errorf("expected 404, got %d %v", status, out)
	}
}

func TestGeometries_Delete(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("DELETE", "/v1/geometries/"+storedID, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

// ---- GraphQL ----

func TestGraphQL_Decode(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"query":"{ decode(polyline: \"` + reference + `\") { precision third_dimension points { lat lon } } }"}`
	status, out, _ := doJSON(t, app, "POST", "/graphql", body)
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if out["errors"] != nil {
		t.Fatalf("unexpected errors %v", out["errors"])
	}
	decoded := out["data"].(map[string]interface{})["decode"].(map[string]interface{})
	if decoded["precision"] != float64(5) || len(decoded["points"].([]interface{})) != 4 {
		t.Errorf("unexpected result %v", decoded)
	}
}

func TestGraphQL_Encode(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"query":"{ encode(points: [{lat: 50.1022829, lon: 8.6982122}, {lat: 50.1020076, lon: 8.6956695}, {lat: 50.1006313, lon: 8.6914960}, {lat: 50.0987800, lon: 8.6875156}]) }"}`
	status, out, _ := doJSON(t, app, "POST", "/graphql", body)
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	data := out["data"].(map[string]interface{})
	if data["encode"] != reference {
		t.Errorf("expected %s, got %v (errors %v)", reference, data["encode"], out["errors"])
	}
}

// ---- Health, caching ----

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps())

	status, out, _ := doJSON(t, app, "GET", "/v1/health", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if out["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", out["status"])
	}
}

func TestReady_NoDB(t *testing.T) {
	app := setupApp(makeDeps())

	status, _, _ := doJSON(t, app, "GET", "/v1/ready", "")
	if status != 503 {
		t.Fatalf("expected 503, got %d", status)
	}
}

func TestETag_NotModified(t *testing.T) {
	app := setupApp(makeDeps())
	target := "/v1/polylines/decode?polyline=" + reference

	resp, err := app.Test(httptest.NewRequest("GET", target, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	etag := resp.Header.Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("expected weak ETag, got %q", etag)
	}

	req := httptest.NewRequest("GET", target, nil)
	req.Header.Set("If-None-Match", etag)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 304 {
		t.Errorf("expected 304, got %d", resp.StatusCode)
	}
}

func TestDocs(t *testing.T) {
	app := setupApp(makeDeps())

	resp, err := app.Test(httptest.NewRequest("GET", "/docs/openapi.yaml", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 || !strings.HasPrefix(string(readBody(t, resp.Body)), "openapi: 3") {
		t.Errorf("expected the OpenAPI document, got %d", resp.StatusCode)
	}
}

func TestPolylineHeader_TooLong(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true, ReadBufferSize: 4 << 20})
	handler.SetupRoutes(app, makeDeps())

	long := "B" + strings.Repeat("F", 1<<20)
	status, out, _ := doJSON(t, app, "GET", "/v1/polylines/header?polyline="+long, "")
	if status != 413 || out["code"] != "payload_too_large" {
		t.Errorf("expected 413 payload_too_large, got %d %v", status, out)
	}
}

func TestRoutes_NonFiniteCoordinates(t *testing.T) {
	called := false
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Routing = usecases.NewRoutingService(&mockHere{
			routesFn: func(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error) {
				called = true
				return nil, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	for _, target := range []string{
		"/v1/routes?origin=NaN,NaN&destination=52.5,13.4",
		"/v1/routes?origin=43.263,-2.935&destination=Inf,13.4",
		"/v1/isolines?origin=43.263,-Inf&range_values=600",
	} {
		status, out, _ := doJSON(t, app, "GET", target, "")
		if status != 400 {
			t.Errorf("%s: expected 400, got %d %v", target, status, out)
		}
	}
	if called {
		t.Error("HERE must not be called with non-finite coordinates")
	}
}

func TestCaching_ErrorResponsesNotStored(t *testing.T) {
	fail := true
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Isolines = usecases.NewIsolineService(&mockHere{
			isolinesFn: func(ctx context.Context, req domain.IsolineRequest) ([]domain.Isoline, error) {
				if fail {
					return nil, &here.APIError{API: "isolines", Status: 503, Title: "Service Unavailable"}
				}
				return []domain.Isoline{{RangeType: "time", RangeValue: 600}}, nil
			},
		})
	})
	app := setupApp(deps)
	target := "/v1/isolines?origin=43.263,-2.935&range_values=600"

	status, _, headers := doJSON(t, app, "GET", target, "")
	if status != 502 {
		t.Fatalf("expected 502, got %d", status)
	}
	if headers["Cache-Control"] != "no-store" {
		t.Errorf("expected no-store on upstream failure, got %q", headers["Cache-Control"])
	}

	status, _, headers = doJSON(t, app, "GET", "/v1/ready", "")
	if status != 503 || headers["Cache-Control"] != "no-store" {
		t.Errorf("expected uncacheable 503 from ready, got %d %q", status, headers["Cache-Control"])
	}

	fail = false
	status, _, headers = doJSON(t, app, "GET", target, "")
	if status != 200 || headers["Cache-Control"] != "public, max-age=300" {
		t.Errorf("expected cacheable isolines, got %d %q", status, headers["Cache-Control"])
	}
}
