package kernel

import (
	"fmt"

	"github.com/kpryor/burin/pkg/geom"
)

// Primitive is the interface for geometric primitives placed into a
// sketch: line segments, circular arcs, circles, and reference points.
type Primitive interface {
	primitive() // marker method restricting implementations to this package

	// String renders the primitive deterministically for reports.
	String() string
}

// LineSegment is a straight segment from Start to End.
type LineSegment struct {
	Start geom.Point
	End   geom.Point
}

func (LineSegment) primitive() {}

func (l LineSegment) String() string {
	return fmt.Sprintf("Line[(%.6f,%.6f)->(%.6f,%.6f)]", l.Start.X, l.Start.Y, l.End.X, l.End.Y)
}

// ArcOfCircle is a circular arc traversed counterclockwise from
// StartAngle to EndAngle (radians, EndAngle > StartAngle). The sketch
// primitive's own start point (endpoint key 1) is the point at
// StartAngle regardless of the traversal direction the emitting
// geometry was constructed in.
type ArcOfCircle struct {
	Center     geom.Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

func (ArcOfCircle) primitive() {}

func (a ArcOfCircle) String() string {
	return fmt.Sprintf("Arc[c=(%.6f,%.6f) r=%.6f a=%.6f..%.6f]",
		a.Center.X, a.Center.Y, a.Radius, a.StartAngle, a.EndAngle)
}

// Circle is a full circle.
type Circle struct {
	Center geom.Point
	Radius float64
}

func (Circle) primitive() {}

func (c Circle) String() string {
	return fmt.Sprintf("Circle[c=(%.6f,%.6f) r=%.6f]", c.Center.X, c.Center.Y, c.Radius)
}

// SketchPoint is a bare reference point, typically the construction
// point all distance constraints are anchored to.
type SketchPoint struct {
	Location geom.Point
}

func (SketchPoint) primitive() {}

func (p SketchPoint) String() string {
	return fmt.Sprintf("Point[(%.6f,%.6f)]", p.Location.X, p.Location.Y)
}
