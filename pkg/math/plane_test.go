package math

import "testing"

func TestPlaneThroughPoint(t *testing.T) {
	p := NewPlaneFromPoint(UnitX, Vec3{2, 0, 0})
	if p.Constant != -2 {
		t.Errorf("Constant: got %v, want -2", p.Constant)
	}
	if d := p.DistanceToPoint(Vec3{5, 1, 1}); d != 3 {
		t.Errorf("DistanceToPoint: got %v, want 3", d)
	}
	if got := p.CoplanarPoint(); got != (Vec3{2, 0, 0}) {
		t.Errorf("CoplanarPoint: got %v, want (2, 0, 0)", got)
	}
}

func TestPlaneProjectPoint(t *testing.T) {
	p := Plane{Normal: UnitY, Constant: -1}
	if got := p.ProjectPoint(Vec3{3, 5, -2}); got != (Vec3{3, 1, -2}) {
		t.Errorf("ProjectPoint: got %v, want (3, 1, -2)", got)
	}
}

func TestPlaneNegateTranslate(t *testing.T) {
	p := Plane{Normal: UnitY, Constant: -1}
	n := p.Negate()
	if n.Normal != (Vec3{0, -1, 0}) || n.Constant != 1 {
		t.Errorf("Negate: got %+v", n)
	}
	moved := p.Translate(Vec3{0, 2, 0})
	if moved.Constant != -3 {
		t.Errorf("Translate: got %v, want -3", moved.Constant)
	}
}

func TestBox3(t *testing.T) {
	b := EmptyBox()
	if !b.IsEmpty() {
		t.Fatal("EmptyBox should be empty")
	}
	b = b.ExpandByPoint(Vec3{-1, 0, 2}).ExpandByPoint(Vec3{3, 4, -2})
	if b.IsEmpty() {
		t.Fatal("box with points should not be empty")
	}
	if got := b.Center(); got != (Vec3{1, 2, 0}) {
		t.Errorf("Center: got %v", got)
	}
	if got := b.Size(); got != (Vec3{4, 4, 4}) {
		t.Errorf("Size: got %v", got)
	}
	if got := EmptyBox().Union(b); got != b {
		t.Errorf("Union with empty: got %v", got)
	}
}
