package geo

import (
	"math"
	"testing"
)

func TestDistanceZero(t *testing.T) {
	if d := Distance(35.0, 135.0, 35.0, 135.0); d != 0 {
		t.Fatalf("distance between identical points = %v, want 0", d)
	}
}

func TestDistanceKnownPairs(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		wantKm                 float64
		tolKm                  float64
	}{
		{"tokyo-osaka", 35.6762, 139.6503, 34.6937, 135.5023, 397, 5},
		{"one degree of latitude", 0, 0, 1, 0, 111.19, 0.1},
		{"antipodal", 0, 0, 0, 180, math.Pi * EarthRadiusKm, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Distance(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
			if math.Abs(got-tc.wantKm) > tc.tolKm {
				t.Fatalf("Distance = %.2f km, want %.2f ± %.2f", got, tc.wantKm, tc.tolKm)
			}
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := Distance(35.0, 135.0, 36.0, 136.0)
	b := Distance(36.0, 136.0, 35.0, 135.0)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestDistanceSmallRadiusSeparation(t *testing.T) {
	// One degree of latitude (~111 km) must land far outside a 1 km radius.
	if d := Distance(35.0, 135.0, 36.0, 135.0); d <= 1.0 {
		t.Fatalf("expected > 1 km, got %v", d)
	}
	// ~500 m north stays inside a 1 km radius.
	if d := Distance(35.0, 135.0, 35.0045, 135.0); d > 1.0 {
		t.Fatalf("expected <= 1 km, got %v", d)
	}
}
