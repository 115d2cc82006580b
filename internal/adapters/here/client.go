// Package here calls the HERE routing and isoline APIs and maps their
// responses, including every Flexible Polyline they carry, into domain
// types.
package here

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/geoflex/internal/core/domain"
	"github.com/samirrijal/geoflex/internal/core/ports"
	"github.com/samirrijal/geoflex/internal/pkg/config"
	"github.com/samirrijal/geoflex/internal/pkg/metrics"
	"github.com/samirrijal/geoflex/internal/pkg/telemetry"
)

// API names used in metric labels and span names.
const (
	apiRoutes     = "routes"
	apiIntermodal = "intermodal"
	apiIsolines   = "isolines"
)

var _ ports.HereClient = (*Client)(nil)

// Client talks to the HERE v8 APIs.
type Client struct {
	http          *fasthttp.Client
	apiKey        string
	routingURL    string
	isolineURL    string
	intermodalURL string
	timeout       time.Duration
}

// NewClient creates a HERE client from cfg.
func NewClient(cfg config.HEREConfig) *Client {
	return &Client{
		http: &fasthttp.Client{
			Name:                "geoflex",
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxConnsPerHost:     64,
			MaxIdleConnDuration: time.Minute,
		},
		apiKey:        cfg.APIKey,
		routingURL:    cfg.RoutingURL,
		isolineURL:    cfg.IsolineURL,
		intermodalURL: cfg.IntermodalURL,
		timeout:       cfg.Timeout,
	}
}

// CalculateRoutes calls the routing API.
func (c *Client) CalculateRoutes(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error) {
	q := routeQuery(req)
	q.Set("transportMode", req.TransportMode)
	ret := "polyline,summary"
	if req.Elevation {
		ret += ",elevation"
	}
	q.Set("return", ret)

	var resp routesResponse
	if err := c.get(ctx, apiRoutes, c.routingURL, q, &resp); err != nil {
		return nil, err
	}
	return toRoutes(apiRoutes, resp), nil
}

// CalculateIntermodalRoutes calls the intermodal routing API.
func (c *Client) CalculateIntermodalRoutes(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error) {
	q := routeQuery(req)
	q.Set("return", "polyline,travelSummary")

	var resp routesResponse
	if err := c.get(ctx, apiIntermodal, c.intermodalURL, q, &resp); err != nil {
		return nil, err
	}
	return toRoutes(apiIntermodal, resp), nil
}

// CalculateIsolines calls the isoline API.
func (c *Client) CalculateIsolines(ctx context.Context, req domain.IsolineRequest) ([]domain.Isoline, error) {
	values := make([]string, len(req.Range.Values))
	for i, v := range req.Range.Values {
		values[i] = strconv.Itoa(v)
	}

	q := url.Values{}
	q.Set("origin", latLng(req.Origin))
	q.Set("transportMode", req.TransportMode)
	q.Set("range[type]", req.Range.Type)
	q.Set("range[values]", strings.Join(values, ","))
	if req.DepartureTime != nil {
		q.Set("departureTime", req.DepartureTime.Format(time.RFC3339))
	}

	var resp isolinesResponse
	if err := c.get(ctx, apiIsolines, c.isolineURL, q, &resp); err != nil {
		return nil, err
	}
	return toIsolines(apiIsolines, resp), nil
}

func routeQuery(req domain.RouteRequest) url.Values {
	q := url.Values{}
	q.Set("origin", latLng(req.Origin))
	q.Set("destination", latLng(req.Destination))
	for _, v := range req.Via {
		q.Add("via", latLng(v))
	}
	if req.DepartureTime != nil {
		q.Set("departureTime", req.DepartureTime.Format(time.RFC3339))
	}
	if req.Alternatives > 0 {
		q.Set("alternatives", strconv.Itoa(req.Alternatives))
	}
	return q
}

func latLng(p domain.GeoPoint) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lon, 'f', -1, 64)
}

// get performs one GET and decodes a 2xx JSON body into out.
func (c *Client) get(ctx context.Context, api, endpoint string, q url.Values, out any) error {
	ctx, span := telemetry.Tracer().Start(ctx, "here."+api, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return err
	}
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	q.Set("apiKey", c.apiKey)

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint + "?" + q.Encode())
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	start := time.Now()
	err := c.http.DoDeadline(req, resp, deadline)
	metrics.UpstreamDuration.WithLabelValues(api).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(api, "network").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return fmt.Errorf("here %s: %w", api, err)
	}

	status := resp.StatusCode()
	span.SetAttributes(attribute.Int("http.status_code", status))
	if status >= 400 {
		metrics.UpstreamErrors.WithLabelValues(api, strconv.Itoa(status)).Inc()
		apiErr := parseError(api, status, resp.Body())
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, apiErr.Title)
		return apiErr
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		metrics.UpstreamErrors.WithLabelValues(api, "decode").Inc()
		return fmt.Errorf("here %s: decode response: %w", api, err)
	}
	return nil
}

func parseError(api string, status int, body []byte) *APIError {
	e := &APIError{API: api, Status: status}
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil {
		e.Title = er.Title
		e.Code = er.Code
		e.Cause = er.Cause
		e.Action = er.Action
		e.CorrelationID = er.CorrelationID
	}
	if e.Title == "" {
		e.Title = fasthttp.StatusMessage(status)
	}
	return e
}
