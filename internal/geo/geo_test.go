// SPDX-License-Identifier: MIT

package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
		tol  float64
	}{
		{
			name: "zero distance",
			a:    Point{Lat: 31.3012, Lon: 120.5242},
			b:    Point{Lat: 31.3012, Lon: 120.5242},
			want: 0,
			tol:  1e-9,
		},
		{
			name: "suzhou station to humble administrators garden",
			a:    Point{Lat: 31.3012, Lon: 120.5242},
			b:    Point{Lat: 31.3264, Lon: 120.6297},
			want: 10.4,
			tol:  0.5,
		},
		{
			name: "suzhou to shanghai",
			a:    Point{Lat: 31.2990, Lon: 120.5853},
			b:    Point{Lat: 31.2304, Lon: 121.4737},
			want: 84.7,
			tol:  2.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, tt.tol)
			// symmetric
			assert.InDelta(t, got, Haversine(tt.b, tt.a), 1e-9)
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-0.2, 0, 1))
	assert.Equal(t, 1.0, Clamp(1.7, 0, 1))
	assert.Equal(t, 0.4, Clamp(0.4, 0, 1))
}
