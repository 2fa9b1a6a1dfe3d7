package sketch

import (
	"math"
	"strings"
	"testing"

	"github.com/kpryor/burin/pkg/geom"
	"github.com/kpryor/burin/pkg/kernel"
)

func specDrawing(t *testing.T, circles []*Circle) *Drawing {
	t.Helper()
	d, err := NewDrawing("plate", geom.XY(0, 0), geom.XYZ(0, 0, 1),
		[]*Polygon{specRectangle(t)}, circles, SwapOnNegativeSweep)
	if err != nil {
		t.Fatalf("NewDrawing: %v", err)
	}
	return d
}

func TestProduceRectangle(t *testing.T) {
	d := specDrawing(t, nil)
	rec := kernel.NewRecorder()
	if err := d.Produce(rec); err != nil {
		t.Fatalf("Produce: %v", err)
	}

	// One construction anchor plus six boundary features.
	if got := len(rec.Primitives()); got != 7 {
		t.Fatalf("primitive count = %d, want 7", got)
	}
	if got := len(rec.Profile()); got != 6 {
		t.Fatalf("profile count = %d, want 6", got)
	}
	if rec.Recomputed() != 1 {
		t.Errorf("recompute count = %d, want 1", rec.Recomputed())
	}

	// Two square junctions, four arc junctions, two radius pins, and
	// explicit X/Y for both square junctions and both arc centers.
	want := map[kernel.ConstraintKind]int{
		kernel.Coincident: 2,
		kernel.Tangent:    4,
		kernel.Radius:     2,
		kernel.DistanceX:  4,
		kernel.DistanceY:  4,
	}
	for kind, n := range want {
		if got := rec.CountKind(kind); got != n {
			t.Errorf("%s count = %d, want %d", kind, got, n)
		}
	}
	if got := len(rec.Constraints()); got != 16 {
		t.Errorf("constraint count = %d, want 16", got)
	}
}

func TestProduceNormalizesToFirstQuadrant(t *testing.T) {
	d := specDrawing(t, nil)
	rec := kernel.NewRecorder()
	if err := d.Produce(rec); err != nil {
		t.Fatalf("Produce: %v", err)
	}
	// Lower-left at the origin means every emitted distance value is
	// non-negative.
	for _, c := range rec.Constraints() {
		if c.Kind == kernel.DistanceX || c.Kind == kernel.DistanceY {
			if c.Value < 0 {
				t.Errorf("constraint %s has negative distance", c)
			}
		}
	}
	// The rectangle spans 80x40, so the anchor sits at (0,0) and the
	// far junction distances reach the full span.
	anchor, ok := rec.Primitives()[0].(kernel.SketchPoint)
	if !ok {
		t.Fatalf("primitive 0 is %T, want SketchPoint", rec.Primitives()[0])
	}
	if !anchor.Location.EqualWithin(geom.XY(0, 0), tol) {
		t.Errorf("anchor at %s, want origin", anchor.Location)
	}
}

func TestProduceCircle(t *testing.T) {
	circ, err := NewCircle("bore", geom.Point{X: 0, Y: 0, Radius: 5})
	if err != nil {
		t.Fatalf("NewCircle: %v", err)
	}
	d := specDrawing(t, []*Circle{circ})
	rec := kernel.NewRecorder()
	if err := d.Produce(rec); err != nil {
		t.Fatalf("Produce: %v", err)
	}

	if got := rec.CountKind(kernel.Radius); got != 3 {
		t.Errorf("radius count = %d, want 3 (two fillets, one bore)", got)
	}
	if got := len(rec.Constraints()); got != 19 {
		t.Errorf("constraint count = %d, want 19", got)
	}

	// The bore is the last primitive; after quadrant normalization its
	// center lands at the middle of the 80x40 plate.
	prims := rec.Primitives()
	c, ok := prims[len(prims)-1].(kernel.Circle)
	if !ok {
		t.Fatalf("last primitive is %T, want Circle", prims[len(prims)-1])
	}
	if !c.Center.EqualWithin(geom.XY(40, 20), tol) {
		t.Errorf("bore center = %s, want (40,20)", c.Center)
	}
	if math.Abs(c.Radius-5) > tol {
		t.Errorf("bore radius = %g, want 5", c.Radius)
	}
}

func TestProduceDeterministic(t *testing.T) {
	d := specDrawing(t, nil)
	first := kernel.NewRecorder()
	if err := d.Produce(first); err != nil {
		t.Fatalf("first Produce: %v", err)
	}
	second := kernel.NewRecorder()
	if err := d.Produce(second); err != nil {
		t.Fatalf("second Produce: %v", err)
	}
	if first.Report() != second.Report() {
		t.Errorf("reports differ:\n--- first ---\n%s--- second ---\n%s", first.Report(), second.Report())
	}
}

func TestOriginIndexContract(t *testing.T) {
	d := specDrawing(t, nil)
	_, err := d.OriginIndex()
	if kind, ok := KindOf(err); !ok || kind != StateError {
		t.Fatalf("pre-production read: got %v, want StateError", err)
	}
	rec := kernel.NewRecorder()
	if err := d.Produce(rec); err != nil {
		t.Fatalf("Produce: %v", err)
	}
	idx, err := d.OriginIndex()
	if err != nil || idx != 0 {
		t.Fatalf("OriginIndex = %d, %v, want 0", idx, err)
	}
}

func TestProduceFromTiltedPlane(t *testing.T) {
	// A plate drawn on the x=0 plane with a +X normal produces the same
	// sketch as an XY-plane drawing of the same dimensions.
	corners := []geom.Point{
		geom.XYZ(0, -40, -20),
		geom.XYZ(0, 40, -20),
		geom.XYZ(0, 40, 20),
		geom.XYZ(0, -40, 20),
	}
	p, err := NewPolygon("side", corners)
	if err != nil {
		t.Fatalf("NewPolygon: %v", err)
	}
	d, err := NewDrawing("side", geom.XYZ(0, 0, 0), geom.XYZ(1, 0, 0),
		[]*Polygon{p}, nil, SwapOnNegativeSweep)
	if err != nil {
		t.Fatalf("NewDrawing: %v", err)
	}
	rec := kernel.NewRecorder()
	if err := d.Produce(rec); err != nil {
		t.Fatalf("Produce: %v", err)
	}
	if got := len(rec.Profile()); got != 4 {
		t.Fatalf("profile count = %d, want 4", got)
	}
	// Every produced vertex lies on the sketch plane with non-negative
	// X/Y after normalization.
	for _, prim := range rec.Profile() {
		seg, ok := prim.(kernel.LineSegment)
		if !ok {
			t.Fatalf("profile primitive is %T, want LineSegment", prim)
		}
		for _, pt := range []geom.Point{seg.Start, seg.End} {
			if math.Abs(pt.Z) > tol {
				t.Errorf("vertex %s off the sketch plane", pt)
			}
			if pt.X < -tol || pt.Y < -tol {
				t.Errorf("vertex %s outside the first quadrant", pt)
			}
		}
	}
}

func TestReorientRoundTrip(t *testing.T) {
	d := specDrawing(t, nil)
	spin, err := geom.Rotate(geom.XYZ(0, 0, 1), math.Pi/3)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	move := geom.Compose(spin, geom.Translate(geom.XYZ(7, -2, 3)))
	there, err := d.Reorient(move)
	if err != nil {
		t.Fatalf("Reorient: %v", err)
	}
	back, err := there.Reorient(move.Inverse())
	if err != nil {
		t.Fatalf("Reorient inverse: %v", err)
	}
	orig := d.Polygons()[0].Corners()
	got := back.Polygons()[0].Corners()
	for i := range orig {
		if !got[i].EqualWithin(orig[i], tol) {
			t.Errorf("corner %d = %s, want %s", i, got[i], orig[i])
		}
		if got[i].Radius != orig[i].Radius {
			t.Errorf("corner %d radius = %g, want %g", i, got[i].Radius, orig[i].Radius)
		}
	}
	if !back.Normal().EqualWithin(d.Normal(), tol) {
		t.Errorf("normal = %s, want %s", back.Normal(), d.Normal())
	}
}

func TestNewDrawingValidation(t *testing.T) {
	p := specRectangle(t)
	if _, err := NewDrawing("d", geom.XY(0, 0), geom.XYZ(0, 0, 0), []*Polygon{p}, nil, SwapOnNegativeSweep); err == nil {
		t.Error("zero normal accepted")
	}
	_, err := NewDrawing("d", geom.XY(0, 0), geom.XYZ(0, 0, 1), nil, nil, SwapOnNegativeSweep)
	if kind, ok := KindOf(err); !ok || kind != UnsupportedInput {
		t.Errorf("empty drawing: got %v, want UnsupportedInput", err)
	}
}

func TestProduceFailureLeavesSketchEmpty(t *testing.T) {
	// A sliver triangle whose fillet tangent lengths overrun the short
	// edges passes construction but fails during production. The good
	// rectangle comes first, so a per-shape emission would have already
	// pushed its primitives before the sliver is rejected.
	sliver, err := NewPolygon("sliver", []geom.Point{
		mustCorner(t, 0, 0, 3),
		geom.XY(40, 0),
		geom.XY(20, 5),
	})
	if err != nil {
		t.Fatalf("NewPolygon: %v", err)
	}
	d, err := NewDrawing("plate", geom.XY(0, 0), geom.XYZ(0, 0, 1),
		[]*Polygon{specRectangle(t), sliver}, nil, SwapOnNegativeSweep)
	if err != nil {
		t.Fatalf("NewDrawing: %v", err)
	}

	rec := kernel.NewRecorder()
	err = d.Produce(rec)
	if err == nil {
		t.Fatal("Produce accepted an infeasible fillet")
	}
	if !strings.Contains(err.Error(), "arcs are too big") {
		t.Fatalf("error = %v, want infeasible fillet", err)
	}
	if got := len(rec.Primitives()); got != 0 {
		t.Errorf("primitive count after failure = %d, want 0", got)
	}
	if got := len(rec.Constraints()); got != 0 {
		t.Errorf("constraint count after failure = %d, want 0", got)
	}
	if rec.Recomputed() != 0 {
		t.Errorf("recompute count after failure = %d, want 0", rec.Recomputed())
	}
}
