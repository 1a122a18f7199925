package domain

import "testing"

func TestDistanceMeters_SamePoint(t *testing.T) {
	p := Position{Lat: 48.85, Lon: 2.35}
	if d := DistanceMeters(p, p); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	a := Position{Lat: 48.85, Lon: 2.35}
	b := Position{Lat: 48.90, Lon: 2.40}
	if DistanceMeters(a, b) != DistanceMeters(b, a) {
		t.Error("distance is not symmetric")
	}
}

func TestDistanceMeters_KnownDistance(t *testing.T) {
	// one degree of latitude is ~111km
	a := Position{Lat: 48.0, Lon: 2.35}
	b := Position{Lat: 49.0, Lon: 2.35}
	d := DistanceMeters(a, b)
	if d < 110000 || d > 112000 {
		t.Errorf("expected ~111km, got %f", d)
	}
}

func TestDistanceMeters_SmallDisplacement(t *testing.T) {
	// ~0.0001° of latitude is ~11m, above the 10m noise threshold
	a := Position{Lat: 48.8500, Lon: 2.35}
	b := Position{Lat: 48.8501, Lon: 2.35}
	d := DistanceMeters(a, b)
	if d < 10 || d > 13 {
		t.Errorf("expected ~11m, got %f", d)
	}
}
