package sketch

import (
	"github.com/kpryor/burin/pkg/geom"
	"github.com/kpryor/burin/pkg/kernel"
)

// Line is a straight boundary segment between two tangent points or
// raw corners. A degenerate line (fully consumed by two adjacent
// fillet arcs) is omitted from the feature sequence entirely.
type Line struct {
	Start  geom.Point
	Finish geom.Point
}

type featureKind int

const (
	featureLine featureKind = iota
	featureArc
	featureCircle
)

// feature is one entry in a shape's ordered primitive sequence. The
// sequence is circular: a feature's neighbors are found by modular
// index arithmetic over the flat slice, not by backpointers.
//
// The sketch-primitive index is assigned exactly once, after the full
// ordered sequence is known; assigning twice or reading before
// assignment is a contract violation.
type feature struct {
	kind   featureKind
	line   *Line
	arc    *Arc
	circle *Circle

	index    int
	indexSet bool
}

func lineFeature(l *Line) *feature { return &feature{kind: featureLine, line: l} }

func arcFeature(a *Arc) *feature { return &feature{kind: featureArc, arc: a} }

func circleFeature(c *Circle) *feature { return &feature{kind: featureCircle, circle: c} }

func (f *feature) setIndex(i int) error {
	if f.indexSet {
		return geomErrf(StateError, "", -1, "feature index assigned twice (have %d, new %d)", f.index, i)
	}
	f.index = i
	f.indexSet = true
	return nil
}

func (f *feature) Index() (int, error) {
	if !f.indexSet {
		return 0, geomErrf(StateError, "", -1, "feature index read before assignment")
	}
	return f.index, nil
}

// startPoint returns the geometric start of the feature's boundary
// traversal.
func (f *feature) startPoint() geom.Point {
	switch f.kind {
	case featureLine:
		return f.line.Start
	case featureArc:
		return f.arc.Start
	default:
		return f.circle.Center
	}
}

// finishPoint returns the geometric end of the feature's boundary
// traversal.
func (f *feature) finishPoint() geom.Point {
	switch f.kind {
	case featureLine:
		return f.line.Finish
	case featureArc:
		return f.arc.Finish
	default:
		return f.circle.Center
	}
}

// startKey returns the constraint-facing key of the geometric start.
func (f *feature) startKey() kernel.Key {
	if f.kind == featureArc {
		return f.arc.StartKey()
	}
	return kernel.KeyStart
}

// finishKey returns the constraint-facing key of the geometric end.
func (f *feature) finishKey() kernel.Key {
	if f.kind == featureArc {
		return f.arc.FinishKey()
	}
	return kernel.KeyEnd
}

// primitive returns the kernel primitive for this feature.
func (f *feature) primitive() kernel.Primitive {
	switch f.kind {
	case featureLine:
		return kernel.LineSegment{Start: f.line.Start, End: f.line.Finish}
	case featureArc:
		return f.arc.Primitive()
	default:
		return kernel.Circle{Center: f.circle.Center, Radius: f.circle.Radius()}
	}
}
