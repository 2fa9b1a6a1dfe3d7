// Package sdfx implements the kernel.Body interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Sketch profiles are
// lowered to 2D polygon SDFs (arcs faceted at a fixed angular
// resolution) and extruded or subtracted to build part solids.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/kpryor/burin/pkg/geom"
	"github.com/kpryor/burin/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Body = (*Body)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// arcFacetAngle is the angular step used when flattening sketch arcs
// into polygon segments.
const arcFacetAngle = math.Pi / 36

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Body implements kernel.Body using sdfx.
type Body struct {
	meshCells int
}

// New returns a Body with the default mesh resolution.
func New() *Body {
	return &Body{meshCells: defaultMeshCells}
}

// NewWithResolution returns a Body with a custom marching cubes cell
// count, primarily for fast tests.
func NewWithResolution(cells int) *Body {
	return &Body{meshCells: cells}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// profileSDF2 lowers a closed sketch profile into a 2D SDF. Line and
// arc primitives are traced in order into one polygon loop; circles
// become cutouts in that loop. A profile consisting only of circles
// uses the first circle as the outer boundary.
func profileSDF2(profile []kernel.Primitive) (sdf.SDF2, error) {
	if len(profile) == 0 {
		return nil, fmt.Errorf("empty sketch profile")
	}

	var verts []v2.Vec
	var circles []kernel.Circle
	// Arcs carry a counterclockwise parameterization regardless of the
	// direction the loop traverses them, so track the chain's current
	// endpoint and reverse the facet run when the loop arrives at the
	// arc's end angle.
	var last v2.Vec
	haveLast := false
	for _, p := range profile {
		switch prim := p.(type) {
		case kernel.LineSegment:
			verts = append(verts, v2.Vec{X: prim.Start.X, Y: prim.Start.Y})
			last = v2.Vec{X: prim.End.X, Y: prim.End.Y}
			haveLast = true
		case kernel.ArcOfCircle:
			startPt := arcPoint(prim, prim.StartAngle)
			endPt := arcPoint(prim, prim.EndAngle)
			reverse := haveLast && sqDist(last, endPt) < sqDist(last, startPt)
			verts = append(verts, facetArc(prim, reverse)...)
			if reverse {
				last = startPt
			} else {
				last = endPt
			}
			haveLast = true
		case kernel.Circle:
			circles = append(circles, prim)
		case kernel.SketchPoint:
			// Reference geometry, not part of the boundary.
		default:
			return nil, fmt.Errorf("primitive %s cannot appear in an extrusion profile", p)
		}
	}

	if len(verts) == 0 && len(circles) == 0 {
		return nil, fmt.Errorf("profile has no boundary geometry")
	}

	var outer sdf.SDF2
	if len(verts) == 0 {
		outer2, err := sdf.Polygon2D(facetCircle(circles[0]))
		if err != nil {
			return nil, err
		}
		outer, circles = outer2, circles[1:]
	} else {
		if len(verts) < 3 {
			return nil, fmt.Errorf("profile has %d boundary vertices, need at least 3", len(verts))
		}
		outer2, err := sdf.Polygon2D(verts)
		if err != nil {
			return nil, err
		}
		outer = outer2
	}

	for _, c := range circles {
		cut, err := sdf.Polygon2D(facetCircle(c))
		if err != nil {
			return nil, err
		}
		outer = sdf.Difference2D(outer, cut)
	}
	return outer, nil
}

// arcPoint evaluates an arc's circle at the given angle.
func arcPoint(a kernel.ArcOfCircle, angle float64) v2.Vec {
	return v2.Vec{
		X: a.Center.X + a.Radius*math.Cos(angle),
		Y: a.Center.Y + a.Radius*math.Sin(angle),
	}
}

// sqDist returns the squared distance between two points.
func sqDist(a, b v2.Vec) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// facetArc samples an arc from its start angle up to, but not
// including, its end angle; the closing vertex is supplied by the next
// primitive in the loop. With reverse set, sampling runs from the end
// angle toward (but not including) the start angle, for loops that
// traverse the arc against its parameterization.
func facetArc(a kernel.ArcOfCircle, reverse bool) []v2.Vec {
	sweep := a.EndAngle - a.StartAngle
	n := int(math.Ceil(sweep / arcFacetAngle))
	if n < 1 {
		n = 1
	}
	step := sweep / float64(n)
	verts := make([]v2.Vec, n)
	for i := 0; i < n; i++ {
		angle := a.StartAngle + float64(i)*step
		if reverse {
			angle = a.EndAngle - float64(i)*step
		}
		verts[i] = arcPoint(a, angle)
	}
	return verts
}

// facetCircle samples a full circle counterclockwise.
func facetCircle(c kernel.Circle) []v2.Vec {
	n := int(math.Ceil(2 * math.Pi / arcFacetAngle))
	verts := make([]v2.Vec, n)
	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		verts[i] = v2.Vec{
			X: c.Center.X + c.Radius*math.Cos(angle),
			Y: c.Center.Y + c.Radius*math.Sin(angle),
		}
	}
	return verts
}

// Pad extrudes the profile from z=0 by length along +Z, or along -Z
// when reversed.
func (b *Body) Pad(profile []kernel.Primitive, length float64, reversed bool) (kernel.Solid, error) {
	if length <= 0 {
		return nil, fmt.Errorf("pad length %g must be positive", length)
	}
	s2, err := profileSDF2(profile)
	if err != nil {
		return nil, fmt.Errorf("pad profile: %w", err)
	}
	s3 := sdf.Extrude3D(s2, length)
	// Extrude3D is symmetric about z=0; shift to [0,length] (or
	// [-length,0] when reversed).
	offset := length / 2
	if reversed {
		offset = -offset
	}
	m := sdf.Translate3d(v3.Vec{Z: offset})
	return wrap(sdf.Transform3D(s3, m)), nil
}

// Pocket removes the profile's extrusion from base, cutting depth down
// from the base's top face.
func (b *Body) Pocket(base kernel.Solid, profile []kernel.Primitive, depth float64) (kernel.Solid, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("pocket depth %g must be positive", depth)
	}
	s2, err := profileSDF2(profile)
	if err != nil {
		return nil, fmt.Errorf("pocket profile: %w", err)
	}
	topZ := unwrap(base).BoundingBox().Max.Z
	cut := sdf.Extrude3D(s2, depth)
	m := sdf.Translate3d(v3.Vec{Z: topZ - depth/2})
	return wrap(sdf.Difference3D(unwrap(base), sdf.Transform3D(cut, m))), nil
}

// Hole drills a cylinder into base at center, depth down from the top
// face.
func (b *Body) Hole(base kernel.Solid, center geom.Point, diameter, depth float64) (kernel.Solid, error) {
	if diameter <= 0 || depth <= 0 {
		return nil, fmt.Errorf("hole diameter %g and depth %g must be positive", diameter, depth)
	}
	cyl, err := sdf.Cylinder3D(depth, diameter/2, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Cylinder3D: %w", err)
	}
	topZ := unwrap(base).BoundingBox().Max.Z
	m := sdf.Translate3d(v3.Vec{X: center.X, Y: center.Y, Z: topZ - depth/2})
	return wrap(sdf.Difference3D(unwrap(base), sdf.Transform3D(cyl, m))), nil
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (b *Body) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(b.meshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
