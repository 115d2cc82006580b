package flexpolyline_test

import (
	"math/rand"
	"testing"

	"github.com/samirrijal/geoflex/internal/pkg/flexpolyline"
)

func benchPoints(n int) []flexpolyline.Point {
	rng := rand.New(rand.NewSource(1))
	points := make([]flexpolyline.Point, n)
	lat, lng := 43.26, -2.93
	for i := range points {
		lat += (rng.Float64() - 0.5) * 0.001
		lng += (rng.Float64() - 0.5) * 0.001
		points[i] = flexpolyline.NewPoint3D(lat, lng, rng.Float64()*100)
	}
	return points
}

func BenchmarkEncode(b *testing.B) {
	points := benchPoints(1000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := flexpolyline.EncodeDefault(points); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	s, err := flexpolyline.EncodeDefault(benchPoints(1000))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := flexpolyline.Decode(s); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode3D(b *testing.B) {
	s, err := flexpolyline.Encode(benchPoints(1000), 6, flexpolyline.Altitude, 1)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := flexpolyline.Decode(s); err != nil {
			b.Fatal(err)
		}
	}
}
