package geo

import (
	"testing"
)

func TestPointDistanceToLine(t *testing.T) {
	p1 := &Point{0, 0}
	p2 := &Point{100, 0}

	p := &Point{50, 70}

	d := p.DistanceToLine(p1, p2)

	if d != 70.0 {
		t.Fatalf("Expected 70.0 and got %v", d)
	}

	// beyond the segment end, distance is to the endpoint
	p = &Point{130, 40}
	d = p.DistanceToLine(p1, p2)
	if d != 50.0 {
		t.Fatalf("Expected 50.0 and got %v", d)
	}
}

func TestAddVector(t *testing.T) {
	start := &Point{1.5, 5.3}
	c := NewVector(-3.5, -2.3)
	p2 := start.AddVector(c)

	if p2.X != -2 || p2.Y != 3 {
		t.Fatalf("Expected resulting point to be (-2, 3), got %+v", p2)
	}
}

func TestVectorTo(t *testing.T) {
	p1 := &Point{1, 5}
	p2 := &Point{-2, 3}
	c := p1.VectorTo(p2)
	if c[0] != -3 || c[1] != -2 {
		t.Fatalf("Expected Vector to be (-3, -2), got %v", c)
	}

	c = p2.VectorTo(p1)
	if c[0] != 3 || c[1] != 2 {
		t.Fatalf("Expected Vector to be (3, 2), got %v", c)
	}
}

func TestInterpolate(t *testing.T) {
	a := NewPoint(0, 0)
	b := NewPoint(10, 20)

	mid := a.Interpolate(b, 0.5)
	if mid.X != 5 || mid.Y != 10 {
		t.Fatalf("Expected midpoint (5, 10), got %s", mid.ToString())
	}

	start := a.Interpolate(b, 0)
	if !start.Equals(a) {
		t.Fatalf("Expected %s, got %s", a.ToString(), start.ToString())
	}
}

func TestGetOrientation(t *testing.T) {
	center := NewPoint(0, 0)

	for _, tc := range []struct {
		to       *Point
		expected Orientation
	}{
		{NewPoint(10, 0), Left},
		{NewPoint(-10, 0), Right},
		{NewPoint(0, 10), Top},
		{NewPoint(0, -10), Bottom},
		{NewPoint(10, 10), TopLeft},
		{NewPoint(-10, -10), BottomRight},
	} {
		if o := center.GetOrientation(tc.to); o != tc.expected {
			t.Fatalf("Expected %s, got %s for point %s", tc.expected.ToString(), o.ToString(), tc.to.ToString())
		}
	}
}
