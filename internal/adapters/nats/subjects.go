package natsadapter

import "strings"

// Subjects used by geoflex. Everything lives under "geometry." so the
// WebSocket relay can follow it with one wildcard.
const (
	SubjectRouteComputed = "geometry.route.computed"
	SubjectStoredPrefix  = "geometry.stored."
	SubjectDecodeFailed  = "geometry.decode.failed"
	SubjectBroadcast     = "geometry.updates.broadcast"
	SubjectAll           = "geometry.>"
)

// storedSubject returns the subject for a stored geometry of kind, e.g.
// geometry.stored.route_section.
func storedSubject(kind string) string {
	kind = strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ':
			return '_'
		}
		return r
	}, kind)
	if kind == "" {
		kind = "unknown"
	}
	return SubjectStoredPrefix + kind
}
