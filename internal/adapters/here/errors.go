package here

import "fmt"

// APIError is a non-2xx answer from a HERE API.
type APIError struct {
	API           string
	Status        int
	Title         string
	Code          string
	Cause         string
	Action        string
	CorrelationID string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("here %s: HTTP %d", e.API, e.Status)
	if e.Title != "" {
		msg += ": " + e.Title
	}
	if e.Cause != "" {
		msg += " (" + e.Cause + ")"
	}
	return msg
}

// Temporary reports whether retrying the same request may succeed.
func (e *APIError) Temporary() bool {
	return e.Status == 429 || e.Status >= 500
}
