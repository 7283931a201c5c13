package geo

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolKm                  float64
	}{
		{"same point", -45.9, -67.5, -45.9, -67.5, 0, 0.001},
		// One degree of latitude is ~111.2 km anywhere.
		{"one degree latitude", -45.0, -67.5, -46.0, -67.5, 111.2, 1.0},
		// Comodoro Rivadavia to Caleta Olivia, ~74 km.
		{"comodoro to caleta olivia", -45.8647, -67.4808, -46.4393, -67.5316, 64.2, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolKm {
				t.Errorf("DistanceKm = %.2f, want %.2f ± %.1f", got, tt.want, tt.tolKm)
			}
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	d1 := DistanceKm(-45.9, -67.5, -46.1, -67.8)
	d2 := DistanceKm(-46.1, -67.8, -45.9, -67.5)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", d1, d2)
	}
}
