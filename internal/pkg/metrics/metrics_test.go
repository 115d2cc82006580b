package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/samirrijal/geoflex/internal/pkg/flexpolyline"
)

func TestObserveDecode(t *testing.T) {
	_, decodeErr := flexpolyline.Decode("BFoz5x#")

	before := testutil.ToFloat64(DecodeFailures.WithLabelValues(SourceHERE, "invalid_character"))
	okBefore := testutil.ToFloat64(PolylineOperations.WithLabelValues("decode", "ok"))

	ObserveDecode(SourceHERE, 0, decodeErr)
	ObserveDecode(SourceHERE, 4, nil)

	if got := testutil.ToFloat64(DecodeFailures.WithLabelValues(SourceHERE, "invalid_character")); got != before+1 {
		t.Errorf("decode failures = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(PolylineOperations.WithLabelValues("decode", "ok")); got != okBefore+1 {
		t.Errorf("ok decodes = %v, want %v", got, okBefore+1)
	}
}

func TestObserveEncode(t *testing.T) {
	before := testutil.ToFloat64(PolylineOperations.WithLabelValues("encode", "error"))
	ObserveEncode(errors.New("boom"))
	if got := testutil.ToFloat64(PolylineOperations.WithLabelValues("encode", "error")); got != before+1 {
		t.Errorf("encode errors = %v, want %v", got, before+1)
	}
}

type fakePool struct{}

func (fakePool) AcquiredConns() int32 { return 2 }
func (fakePool) IdleConns() int32     { return 3 }
func (fakePool) TotalConns() int32    { return 5 }

func TestUpdateDBPoolMetrics(t *testing.T) {
	UpdateDBPoolMetrics(fakePool{})
	if got := testutil.ToFloat64(DBPoolConnsOpen); got != 5 {
		t.Errorf("open = %v, want 5", got)
	}
	if got := testutil.ToFloat64(DBPoolConnsIdle); got != 3 {
		t.Errorf("idle = %v, want 3", got)
	}
}

func TestMiddlewareAndHandler(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/v1/geometries/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/geometries/abc", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	if err != nil {
		t.Fatalf("metrics request: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `geoflex_http_requests_total{method="GET",path="/v1/geometries/:id",status="200"}`) {
		t.Errorf("metrics output lacks the route pattern series")
	}
}
