package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMiles(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		delta                  float64
	}{
		{
			name: "same point",
			lat1: 34.05, lon1: -118.25, lat2: 34.05, lon2: -118.25,
			want: 0, delta: 0.0001,
		},
		{
			name: "new york to los angeles",
			lat1: 40.7128, lon1: -74.0060, lat2: 34.0522, lon2: -118.2437,
			want: 2445, delta: 15,
		},
		{
			name: "one degree of latitude",
			lat1: 34.0, lon1: -118.0, lat2: 35.0, lon2: -118.0,
			want: 69.1, delta: 0.5,
		},
		{
			name: "short hop",
			lat1: 34.05, lon1: -118.25, lat2: 34.0507, lon2: -118.25,
			want: 0.048, delta: 0.005,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMiles(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.delta)
		})
	}
}

func TestDistanceMilesSymmetry(t *testing.T) {
	d1 := DistanceMiles(40.7128, -74.0060, 34.0522, -118.2437)
	d2 := DistanceMiles(34.0522, -118.2437, 40.7128, -74.0060)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestValidCoordinate(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"valid", 34.05, -118.25, true},
		{"boundary lat", 90, 0, true},
		{"boundary lon", 0, -180, true},
		{"lat too high", 90.1, 0, false},
		{"lon too low", 0, -180.5, false},
		{"nan lat", math.NaN(), 0, false},
		{"inf lon", 0, math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCoordinate(tt.lat, tt.lon))
		})
	}
}

func TestCentroid(t *testing.T) {
	points := []Point{
		{Lat: 34.0, Lon: -118.0},
		{Lat: 36.0, Lon: -120.0},
	}
	c := Centroid(points)
	assert.InDelta(t, 35.0, c.Lat, 1e-9)
	assert.InDelta(t, -119.0, c.Lon, 1e-9)

	assert.Equal(t, Point{}, Centroid(nil))
}

func TestMaxDistanceFrom(t *testing.T) {
	origin := Point{Lat: 34.05, Lon: -118.25}
	points := []Point{
		{Lat: 34.05, Lon: -118.25},
		{Lat: 34.06, Lon: -118.25},
		{Lat: 35.05, Lon: -118.25}, // about 69 miles north
	}

	assert.InDelta(t, 69.1, MaxDistanceFrom(origin, points), 0.5)
	assert.Equal(t, 0.0, MaxDistanceFrom(origin, nil))
}
