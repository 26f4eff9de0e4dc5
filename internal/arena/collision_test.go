package arena

import "testing"

func TestOverlaps(t *testing.T) {
	a := Rect{0, 0, 20, 20}

	if !Overlaps(a, Rect{10, 10, 20, 20}) {
		t.Error("boxes should overlap")
	}
	if Overlaps(a, Rect{20, 0, 20, 20}) {
		t.Error("boxes touching on the right edge should not overlap")
	}
	if Overlaps(a, Rect{0, 20, 20, 20}) {
		t.Error("boxes touching on the bottom edge should not overlap")
	}
	if Overlaps(a, Rect{20, 20, 5, 5}) {
		t.Error("corner touch should not overlap")
	}
	if !Overlaps(a, Rect{5, 5, 1, 1}) {
		t.Error("contained box should overlap")
	}
}

func TestOverlapsSymmetric(t *testing.T) {
	boxes := []Rect{
		{0, 0, 20, 20},
		{19.9, 0, 10, 10},
		{20, 20, 1, 1},
		{-5, -5, 10, 10},
		{5, 5, 100, 2},
		{50, 50, 0, 0},
	}
	for _, a := range boxes {
		for _, b := range boxes {
			want := a.X < b.X+b.W && a.X+a.W > b.X && a.Y < b.Y+b.H && a.Y+a.H > b.Y
			if got := Overlaps(a, b); got != want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", a, b, got, want)
			}
			if Overlaps(a, b) != Overlaps(b, a) {
				t.Errorf("Overlaps not symmetric for %v, %v", a, b)
			}
		}
	}
}

func TestCircleRect(t *testing.T) {
	r := Rect{100, 100, 20, 20}

	if !CircleRect(Vec{110, 110}, 5, r) {
		t.Error("center inside box should collide")
	}
	if !CircleRect(Vec{95, 110}, 5, r) {
		t.Error("circle touching left face should collide")
	}
	if CircleRect(Vec{94, 110}, 5, r) {
		t.Error("circle short of left face should not collide")
	}
	// corner at (120,120); 3,3 away is within radius 5
	if !CircleRect(Vec{123, 123}, 5, r) {
		t.Error("circle near corner should collide")
	}
	// 4,4 away is ~5.66 from the corner
	if CircleRect(Vec{124, 124}, 5, r) {
		t.Error("circle just off the corner should not collide")
	}
}

func TestWithinRadius(t *testing.T) {
	if !WithinRadius(Vec{0, 0}, Vec{30, 40}, 51) {
		t.Error("distance 50 should be within 51")
	}
	if WithinRadius(Vec{0, 0}, Vec{30, 40}, 50) {
		t.Error("distance 50 should not be strictly within 50")
	}
}
