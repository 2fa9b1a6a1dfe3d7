// Package geom provides the point/vector algebra, bounding boxes, and
// affine transforms used by the sketch engine. All types are immutable
// values: every operation returns a new value and never mutates its
// operands.
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// normEpsilon is the magnitude below which a vector cannot be normalized.
const normEpsilon = 1e-10

// Point is an immutable 3D point. Radius is an optional fillet radius
// attached to the point when it is used as a polygon corner (0 means no
// fillet). Name is a debug label with no geometric meaning.
type Point struct {
	X, Y, Z float64
	Radius  float64
	Name    string
}

// XY returns a point on the Z=0 plane.
func XY(x, y float64) Point {
	return Point{X: x, Y: y}
}

// XYZ returns a point with all three coordinates set.
func XYZ(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// Corner returns a polygon corner point with a fillet radius.
// A negative radius is rejected.
func Corner(x, y, radius float64) (Point, error) {
	if radius < 0 {
		return Point{}, fmt.Errorf("corner (%g,%g): fillet radius %g is negative", x, y, radius)
	}
	return Point{X: x, Y: y, Radius: radius}, nil
}

// FromVec converts a gonum r3 vector to a Point.
func FromVec(v r3.Vec) Point {
	return Point{X: v.X, Y: v.Y, Z: v.Z}
}

// Vec returns the point as a gonum r3 vector, dropping radius and name.
func (p Point) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// Vec2 returns the XY projection as a gonum r2 vector.
func (p Point) Vec2() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Named returns a copy of the point carrying the given name.
func (p Point) Named(name string) Point {
	p.Name = name
	return p
}

// WithRadius returns a copy of the point carrying the given fillet radius.
// A negative radius is rejected.
func (p Point) WithRadius(radius float64) (Point, error) {
	if radius < 0 {
		return Point{}, fmt.Errorf("point %s: fillet radius %g is negative", p, radius)
	}
	p.Radius = radius
	return p, nil
}

// Add returns p + o. The radius and name of p are preserved.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z, Radius: p.Radius, Name: p.Name}
}

// Sub returns p - o. The radius and name of p are preserved.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z, Radius: p.Radius, Name: p.Name}
}

// Scale returns p scaled by f. The radius and name of p are preserved.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f, Z: p.Z * f, Radius: p.Radius, Name: p.Name}
}

// Div returns p scaled by 1/f.
func (p Point) Div(f float64) Point {
	return p.Scale(1 / f)
}

// Neg returns -p.
func (p Point) Neg() Point {
	return p.Scale(-1)
}

// Magnitude returns the Euclidean length of p treated as a vector.
func (p Point) Magnitude() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Normalize returns the unit vector in the direction of p. A vector
// whose magnitude is below 1e-10 cannot be normalized.
func (p Point) Normalize() (Point, error) {
	m := p.Magnitude()
	if m < normEpsilon {
		return Point{}, fmt.Errorf("cannot normalize zero-magnitude vector %s", p)
	}
	return p.Div(m), nil
}

// Atan2 returns math.Atan2(p.Y, p.X) in radians, range (-pi, pi].
func (p Point) Atan2() float64 {
	return math.Atan2(p.Y, p.X)
}

// Dot returns the 3D dot product of p and o.
func (p Point) Dot(o Point) float64 {
	return p.X*o.X + p.Y*o.Y + p.Z*o.Z
}

// Cross returns the 3D cross product of p and o.
func (p Point) Cross(o Point) Point {
	return Point{
		X: p.Y*o.Z - p.Z*o.Y,
		Y: p.Z*o.X - p.X*o.Z,
		Z: p.X*o.Y - p.Y*o.X,
	}
}

// Cross2D returns the Z component of the cross product of p and o,
// i.e. the signed area spanned by their XY projections.
func (p Point) Cross2D(o Point) float64 {
	return p.X*o.Y - p.Y*o.X
}

// Distance returns the Euclidean distance between p and o.
func (p Point) Distance(o Point) float64 {
	return p.Sub(o).Magnitude()
}

// EqualWithin reports whether p and o coincide within tol on every axis.
// Radius and name are ignored.
func (p Point) EqualWithin(o Point, tol float64) bool {
	return math.Abs(p.X-o.X) <= tol &&
		math.Abs(p.Y-o.Y) <= tol &&
		math.Abs(p.Z-o.Z) <= tol
}

func (p Point) String() string {
	if p.Name != "" {
		return fmt.Sprintf("%s(%.4f,%.4f,%.4f)", p.Name, p.X, p.Y, p.Z)
	}
	return fmt.Sprintf("(%.4f,%.4f,%.4f)", p.X, p.Y, p.Z)
}
