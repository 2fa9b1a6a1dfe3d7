package sketch

import "github.com/kpryor/burin/pkg/geom"

// Circle is a full circle; the center point's Radius field doubles as
// the circle radius. A circle maps to exactly one sketch feature.
type Circle struct {
	name   string
	Center geom.Point
	box    geom.Box
}

// NewCircle builds a circle from a center point carrying a positive
// radius.
func NewCircle(name string, center geom.Point) (*Circle, error) {
	if center.Radius <= 0 {
		return nil, geomErrf(UnsupportedInput, name, -1,
			"circle requires a positive radius, got %g", center.Radius)
	}
	r := center.Radius
	box, err := geom.BoxFromPoints([]geom.Point{
		center.Add(geom.XY(-r, -r)),
		center.Add(geom.XY(r, r)),
	})
	if err != nil {
		return nil, geomErrf(InvalidGeometry, name, -1, "bounding box: %v", err)
	}
	return &Circle{name: name, Center: center, box: box}, nil
}

// Name returns the circle's label.
func (c *Circle) Name() string { return c.name }

// Radius returns the circle radius.
func (c *Circle) Radius() float64 { return c.Center.Radius }

// Bounds returns the circle's bounding box.
func (c *Circle) Bounds() geom.Box { return c.box }

// transformed returns a new circle with its center transformed.
func (c *Circle) transformed(t geom.Transform) (*Circle, error) {
	return NewCircle(c.name, t.Apply(c.Center))
}
