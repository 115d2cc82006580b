package here

import "time"

// Wire types for the HERE v8 routing, intermodal routing and isoline
// responses. Only the fields the service reads are declared.

type location struct {
	Lat       float64  `json:"lat"`
	Lng       float64  `json:"lng"`
	Elevation *float64 `json:"elv,omitempty"`
}

type place struct {
	Type     string   `json:"type"`
	Name     string   `json:"name,omitempty"`
	Location location `json:"location"`
}

type stop struct {
	Time  *time.Time `json:"time,omitempty"`
	Place place      `json:"place"`
}

type summary struct {
	Duration     int `json:"duration"`
	BaseDuration int `json:"baseDuration"`
	Length       int `json:"length"`
}

type transport struct {
	Mode      string `json:"mode"`
	Name      string `json:"name,omitempty"`
	ShortName string `json:"shortName,omitempty"`
	Headsign  string `json:"headsign,omitempty"`
}

type section struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Departure stop      `json:"departure"`
	Arrival   stop      `json:"arrival"`
	Summary   summary   `json:"summary"`
	Transport transport `json:"transport"`
	Polyline  string    `json:"polyline"`

	// Intermodal sections report travelSummary instead of summary.
	TravelSummary *summary `json:"travelSummary,omitempty"`
}

type route struct {
	ID       string    `json:"id"`
	Sections []section `json:"sections"`
}

type routesResponse struct {
	Routes []route `json:"routes"`
}

type isolineRange struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

type polygon struct {
	Outer string   `json:"outer"`
	Inner []string `json:"inner,omitempty"`
}

type isoline struct {
	Range    isolineRange `json:"range"`
	Polygons []polygon    `json:"polygons"`
}

type isolinesResponse struct {
	Isolines []isoline `json:"isolines"`
}

// errorResponse is the body HERE sends with 4xx and 5xx statuses.
type errorResponse struct {
	Title         string `json:"title"`
	Status        int    `json:"status"`
	Code          string `json:"code"`
	Cause         string `json:"cause"`
	Action        string `json:"action"`
	CorrelationID string `json:"correlationId"`
}
