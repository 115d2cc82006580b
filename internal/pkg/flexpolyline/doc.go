// Package flexpolyline implements HERE's Flexible Polyline encoding.
//
// A Flexible Polyline is a compact ASCII string holding a sequence of
// coordinates with configurable precision and an optional third dimension
// (level, altitude, elevation or a custom value). HERE Routing, Isoline and
// Intermodal Routing return route and isoline geometry in this format.
//
// # Format
//
// Every value is written as a variable-length integer: the value is split
// into 5-bit groups, least significant first, every group except the last
// carries the continuation bit 0x20, and each 6-bit result is mapped through
// a URL-safe 64 symbol alphabet.
//
//	[version][header content][lat0][lng0]([z0])[Δlat1][Δlng1]([Δz1])...
//
// The header holds the format version (always 1) and the packed metadata
//
//	precision | thirdDimension<<4 | thirdDimensionPrecision<<7
//
// Coordinates are scaled by 10^precision, rounded half away from zero and
// stored as zigzag-encoded deltas from the previous point.
//
// # Usage
//
//	encoded, err := flexpolyline.Encode(points, 5, flexpolyline.Altitude, 2)
//	if err != nil {
//	    return err
//	}
//
//	pl, err := flexpolyline.Decode(encoded)
//	if err != nil {
//	    return err
//	}
//
// Large inputs can be consumed point by point with a Decoder:
//
//	dec, err := flexpolyline.NewDecoder(encoded)
//	if err != nil {
//	    return err
//	}
//	for dec.Next() {
//	    p := dec.Point()
//	    ...
//	}
//	if err := dec.Err(); err != nil {
//	    return err
//	}
//
// # Errors
//
// Every failure is an *Error wrapping one of the Err* kinds, so callers can
// branch with errors.Is and read the byte offset or point index with
// errors.As. Malformed input is a deterministic failure; retrying the same
// string never helps.
//
// # Thread Safety
//
// Encode and Decode keep all state on the stack of the call and are safe for
// concurrent use. A Decoder must not be shared between goroutines.
package flexpolyline
