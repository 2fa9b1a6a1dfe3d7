package sketch

import (
	"math"

	"github.com/kpryor/burin/pkg/geom"
)

// suppressionTolerance is the distance tolerance (mm) for deciding that
// a connecting line between two fillet arcs has been fully consumed.
const suppressionTolerance = 1e-9

// collinearTolerance bounds the normalized cross product below which
// three consecutive corners are treated as collinear.
const collinearTolerance = 1e-9

// Polygon is a closed boundary defined by an ordered sequence of corner
// points, each optionally carrying a fillet radius. Corner order is
// semantically significant: it defines traversal direction and
// adjacency. A Polygon is immutable after construction.
type Polygon struct {
	name    string
	corners []geom.Point
	box     geom.Box
}

// NewPolygon validates and builds a polygon from at least three ordered
// corners. Construction fails when corners are malformed, a fillet
// radius is negative, three consecutive corners are collinear, or two
// adjacent fillet radii cannot both fit on their shared edge.
func NewPolygon(name string, corners []geom.Point) (*Polygon, error) {
	n := len(corners)
	if n < 3 {
		return nil, geomErrf(UnsupportedInput, name, -1, "polygon needs at least 3 corners, got %d", n)
	}
	for i, c := range corners {
		if c.Radius < 0 {
			return nil, geomErrf(UnsupportedInput, name, i, "negative fillet radius %g", c.Radius)
		}
	}
	for i := range corners {
		before := corners[(i+n-1)%n]
		apex := corners[i]
		after := corners[(i+1)%n]
		ab := before.Sub(apex)
		ae := after.Sub(apex)
		if ab.Magnitude() < suppressionTolerance || ae.Magnitude() < suppressionTolerance {
			return nil, geomErrf(InvalidGeometry, name, i, "duplicate adjacent corners at %s", apex)
		}
		cross := ab.Cross(ae).Magnitude() / (ab.Magnitude() * ae.Magnitude())
		if cross < collinearTolerance {
			return nil, geomErrf(InvalidGeometry, name, i, "collinear corner triple at %s", apex)
		}
	}
	// Adjacent fillet radii must not overlap on their shared edge.
	for i := range corners {
		j := (i + 1) % n
		edge := corners[i].Distance(corners[j])
		if corners[i].Radius+corners[j].Radius > edge {
			return nil, geomErrf(InfeasibleFillet, name, i,
				"adjacent fillet radii %g + %g exceed edge length %g",
				corners[i].Radius, corners[j].Radius, edge)
		}
	}
	box, err := geom.BoxFromPoints(corners)
	if err != nil {
		return nil, geomErrf(InvalidGeometry, name, -1, "bounding box: %v", err)
	}
	cs := make([]geom.Point, n)
	copy(cs, corners)
	return &Polygon{name: name, corners: cs, box: box}, nil
}

// Name returns the polygon's label.
func (p *Polygon) Name() string { return p.name }

// Corners returns a copy of the ordered corner points.
func (p *Polygon) Corners() []geom.Point {
	out := make([]geom.Point, len(p.corners))
	copy(out, p.corners)
	return out
}

// Bounds returns the bounding box of the raw corner points.
func (p *Polygon) Bounds() geom.Box { return p.box }

// transformed returns a new polygon with every corner transformed.
// Fillet radii are preserved; rigid transforms do not change them.
func (p *Polygon) transformed(t geom.Transform) (*Polygon, error) {
	corners := make([]geom.Point, len(p.corners))
	for i, c := range p.corners {
		corners[i] = t.Apply(c)
	}
	return NewPolygon(p.name, corners)
}

// features extracts the ordered line/arc feature sequence tracing the
// closed polygon boundary exactly once.
//
// Four passes: (1) solve one tangent arc per filleted corner; (2)
// compute the connecting line into each corner, suppressing lines fully
// consumed by two adjacent arcs and rejecting radii too big for their
// edge; (3) assemble the sequence, the line leading into a corner
// always preceding that corner's arc; (4) neighbors are then implicit
// in the flat slice via modular indexing.
func (p *Polygon) features(conv EndpointConvention) ([]*feature, error) {
	n := len(p.corners)

	// Pass 1: one arc (or nil) per corner, aligned with the corner list.
	arcs := make([]*Arc, n)
	for i, c := range p.corners {
		if c.Radius <= minFilletRadius {
			continue
		}
		before := p.corners[(i+n-1)%n]
		after := p.corners[(i+1)%n]
		a, err := solveFillet(before, c, after, c.Radius, conv, p.name, i)
		if err != nil {
			return nil, err
		}
		arcs[i] = a
	}

	// Pass 2: the connecting line into each corner, from the previous
	// corner's arc finish (or raw point) to this corner's arc start
	// (or raw point).
	lines := make([]*Line, n)
	for i := range p.corners {
		h := (i + n - 1) % n
		start := p.corners[h]
		if arcs[h] != nil {
			start = arcs[h].Finish
		}
		finish := p.corners[i]
		if arcs[i] != nil {
			finish = arcs[i].Start
		}

		edge := p.corners[h].Distance(p.corners[i])
		consumed := 0.0
		if arcs[h] != nil {
			consumed += arcs[h].TangentLength()
		}
		if arcs[i] != nil {
			consumed += arcs[i].TangentLength()
		}
		if consumed > edge+suppressionTolerance {
			return nil, geomErrf(InfeasibleFillet, p.name, i,
				"arcs are too big: tangent lengths %g exceed edge length %g", consumed, edge)
		}
		if arcs[h] != nil && arcs[i] != nil && math.Abs(edge-consumed) <= suppressionTolerance {
			// The two arcs meet tangent to each other; no straight
			// segment remains.
			continue
		}
		if start.Distance(finish) <= suppressionTolerance {
			continue
		}
		lines[i] = &Line{Start: start, Finish: finish}
	}

	// Pass 3: assemble in traversal order.
	feats := make([]*feature, 0, 2*n)
	for i := range p.corners {
		if lines[i] != nil {
			feats = append(feats, lineFeature(lines[i]))
		}
		if arcs[i] != nil {
			feats = append(feats, arcFeature(arcs[i]))
		}
	}
	if len(feats) == 0 {
		return nil, geomErrf(InvalidGeometry, p.name, -1, "polygon produced no features")
	}
	return feats, nil
}
