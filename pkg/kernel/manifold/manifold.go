//go:build manifold

// Package manifold implements the kernel.Body interface using the
// Manifold C library (https://github.com/elalish/manifold). Manifold
// provides guaranteed-manifold mesh boolean operations, which makes it
// an alternative to the default sdfx backend when exact booleans
// matter more than ease of installation.
//
// This package requires the Manifold C library (manifoldc) to be
// installed. Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/kpryor/burin/pkg/geom"
	"github.com/kpryor/burin/pkg/kernel"
)

// Compile-time interface checks.
var _ kernel.Body = (*Body)(nil)
var _ kernel.Solid = (*manifoldSolid)(nil)

// arcFacetAngle matches the sdfx backend's faceting resolution so the
// two backends produce comparable boundaries.
const arcFacetAngle = math.Pi / 36

// manifoldSolid wraps a C ManifoldManifold pointer and implements kernel.Solid.
type manifoldSolid struct {
	ptr *C.ManifoldManifold
}

// BoundingBox returns the axis-aligned bounding box of the solid.
func (s *manifoldSolid) BoundingBox() (min, max [3]float64) {
	alloc := C.manifold_alloc_box()
	bbox := C.manifold_bounding_box(alloc, s.ptr)
	defer C.manifold_delete_box(bbox)

	min[0] = float64(C.manifold_box_min_x(bbox))
	min[1] = float64(C.manifold_box_min_y(bbox))
	min[2] = float64(C.manifold_box_min_z(bbox))
	max[0] = float64(C.manifold_box_max_x(bbox))
	max[1] = float64(C.manifold_box_max_y(bbox))
	max[2] = float64(C.manifold_box_max_z(bbox))
	return min, max
}

// newSolid wraps a C ManifoldManifold pointer with Go-side finalizer
// for automatic memory management.
func newSolid(ptr *C.ManifoldManifold) *manifoldSolid {
	s := &manifoldSolid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *manifoldSolid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

// Body implements kernel.Body using the Manifold C library.
type Body struct{}

// New creates a new manifold-backed Body. Returns an error if the
// Manifold C library cannot be initialized.
func New() (kernel.Body, error) {
	return &Body{}, nil
}

// profileLoops lowers a sketch profile into polygon loops: one outer
// boundary traced from line and arc primitives, plus one reversed loop
// per circle cutout. Loop orientation encodes solid versus hole.
func profileLoops(profile []kernel.Primitive) ([][]C.ManifoldVec2, error) {
	if len(profile) == 0 {
		return nil, fmt.Errorf("empty sketch profile")
	}

	var outer []C.ManifoldVec2
	var circles []kernel.Circle
	// Arcs carry a counterclockwise parameterization regardless of the
	// direction the loop traverses them, so track the chain's current
	// endpoint and reverse the facet run when the loop arrives at the
	// arc's end angle.
	var lastX, lastY float64
	haveLast := false
	for _, p := range profile {
		switch prim := p.(type) {
		case kernel.LineSegment:
			outer = append(outer, C.ManifoldVec2{
				x: C.double(prim.Start.X), y: C.double(prim.Start.Y),
			})
			lastX, lastY = prim.End.X, prim.End.Y
			haveLast = true
		case kernel.ArcOfCircle:
			sweep := prim.EndAngle - prim.StartAngle
			n := int(math.Ceil(sweep / arcFacetAngle))
			if n < 1 {
				n = 1
			}
			step := sweep / float64(n)
			sx := prim.Center.X + prim.Radius*math.Cos(prim.StartAngle)
			sy := prim.Center.Y + prim.Radius*math.Sin(prim.StartAngle)
			ex := prim.Center.X + prim.Radius*math.Cos(prim.EndAngle)
			ey := prim.Center.Y + prim.Radius*math.Sin(prim.EndAngle)
			toStart := (lastX-sx)*(lastX-sx) + (lastY-sy)*(lastY-sy)
			toEnd := (lastX-ex)*(lastX-ex) + (lastY-ey)*(lastY-ey)
			reverse := haveLast && toEnd < toStart
			for i := 0; i < n; i++ {
				angle := prim.StartAngle + float64(i)*step
				if reverse {
					angle = prim.EndAngle - float64(i)*step
				}
				outer = append(outer, C.ManifoldVec2{
					x: C.double(prim.Center.X + prim.Radius*math.Cos(angle)),
					y: C.double(prim.Center.Y + prim.Radius*math.Sin(angle)),
				})
			}
			if reverse {
				lastX, lastY = sx, sy
			} else {
				lastX, lastY = ex, ey
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

	var loops [][]C.ManifoldVec2
	if len(outer) > 0 {
		if len(outer) < 3 {
			return nil, fmt.Errorf("profile has %d boundary vertices, need at least 3", len(outer))
		}
		loops = append(loops, outer)
	}
	facets := int(math.Ceil(2 * math.Pi / arcFacetAngle))
	for _, c := range circles {
		loop := make([]C.ManifoldVec2, facets)
		for j := 0; j < facets; j++ {
			angle := float64(j) * 2 * math.Pi / float64(facets)
			if len(loops) > 0 {
				// Clockwise, so the loop cuts a hole.
				angle = -angle
			}
			loop[j] = C.ManifoldVec2{
				x: C.double(c.Center.X + c.Radius*math.Cos(angle)),
				y: C.double(c.Center.Y + c.Radius*math.Sin(angle)),
			}
		}
		loops = append(loops, loop)
	}
	if len(loops) == 0 {
		return nil, fmt.Errorf("profile has no boundary geometry")
	}
	return loops, nil
}

// extrudeProfile builds a solid by extruding the profile loops from
// z=0 up by length.
func extrudeProfile(profile []kernel.Primitive, length float64) (*C.ManifoldManifold, error) {
	loops, err := profileLoops(profile)
	if err != nil {
		return nil, err
	}

	simple := make([]*C.ManifoldSimplePolygon, len(loops))
	for i, loop := range loops {
		simple[i] = C.manifold_simple_polygon(
			C.manifold_alloc_simple_polygon(),
			&loop[0], C.size_t(len(loop)),
		)
	}
	polys := C.manifold_polygons(
		C.manifold_alloc_polygons(),
		&simple[0], C.size_t(len(simple)),
	)

	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_extrude(alloc, polys,
		C.double(length),
		C.int(0),    // slices
		C.double(0), // twist
		C.double(1), C.double(1),
	)
	return ptr, nil
}

// Pad extrudes the profile from z=0 by length along +Z, or along -Z
// when reversed.
func (b *Body) Pad(profile []kernel.Primitive, length float64, reversed bool) (kernel.Solid, error) {
	if length <= 0 {
		return nil, fmt.Errorf("pad length %g must be positive", length)
	}
	ptr, err := extrudeProfile(profile, length)
	if err != nil {
		return nil, fmt.Errorf("pad profile: %w", err)
	}
	if reversed {
		alloc := C.manifold_alloc_manifold()
		moved := C.manifold_translate(alloc, ptr, C.double(0), C.double(0), C.double(-length))
		C.manifold_delete_manifold(ptr)
		ptr = moved
	}
	return newSolid(ptr), nil
}

// Pocket removes the profile's extrusion from base, cutting depth down
// from the base's top face.
func (b *Body) Pocket(base kernel.Solid, profile []kernel.Primitive, depth float64) (kernel.Solid, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("pocket depth %g must be positive", depth)
	}
	sb := base.(*manifoldSolid)
	_, max := sb.BoundingBox()

	cut, err := extrudeProfile(profile, depth)
	if err != nil {
		return nil, fmt.Errorf("pocket profile: %w", err)
	}
	defer C.manifold_delete_manifold(cut)

	alloc := C.manifold_alloc_manifold()
	placed := C.manifold_translate(alloc, cut, C.double(0), C.double(0), C.double(max[2]-depth))
	defer C.manifold_delete_manifold(placed)

	alloc = C.manifold_alloc_manifold()
	return newSolid(C.manifold_difference(alloc, sb.ptr, placed)), nil
}

// Hole drills a cylinder into base at center, depth down from the top
// face.
func (b *Body) Hole(base kernel.Solid, center geom.Point, diameter, depth float64) (kernel.Solid, error) {
	if diameter <= 0 || depth <= 0 {
		return nil, fmt.Errorf("hole diameter %g and depth %g must be positive", diameter, depth)
	}
	sb := base.(*manifoldSolid)
	_, max := sb.BoundingBox()

	segments := int(math.Ceil(2 * math.Pi / arcFacetAngle))
	alloc := C.manifold_alloc_manifold()
	cyl := C.manifold_cylinder(alloc,
		C.double(depth),
		C.double(diameter/2), C.double(diameter/2),
		C.int(segments),
		C.int(0), // center=false, cylinder spans [0, depth]
	)
	defer C.manifold_delete_manifold(cyl)

	alloc = C.manifold_alloc_manifold()
	placed := C.manifold_translate(alloc, cyl,
		C.double(center.X), C.double(center.Y), C.double(max[2]-depth))
	defer C.manifold_delete_manifold(placed)

	alloc = C.manifold_alloc_manifold()
	return newSolid(C.manifold_difference(alloc, sb.ptr, placed)), nil
}

// ToMesh extracts a triangle mesh from the solid using Manifold's MeshGL
// format. Vertex positions and normals are interleaved in MeshGL; this
// method separates them into the kernel.Mesh flat-array layout.
func (b *Body) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	ms := s.(*manifoldSolid)

	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_get_meshgl(meshAlloc, ms.ptr)
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))

	if numVert == 0 || numTri == 0 {
		return &kernel.Mesh{}, nil
	}

	// MeshGL stores vertex properties in a flat float array. The first
	// 3 per vertex are always position; normals follow at 3..5 when
	// present.
	numProp := int(C.manifold_meshgl_num_prop(meshGL))

	propLen := numVert * numProp
	propData := make([]float32, propLen)
	C.manifold_meshgl_vert_properties(
		(*C.float)(unsafe.Pointer(&propData[0])),
		meshGL,
	)

	triLen := numTri * 3
	indices := make([]uint32, triLen)
	C.manifold_meshgl_tri_verts(
		(*C.uint32_t)(unsafe.Pointer(&indices[0])),
		meshGL,
	)

	vertices := make([]float32, numVert*3)
	var normals []float32
	hasNormals := numProp >= 6
	if hasNormals {
		normals = make([]float32, numVert*3)
	}

	for i := 0; i < numVert; i++ {
		base := i * numProp
		vertices[i*3+0] = propData[base+0]
		vertices[i*3+1] = propData[base+1]
		vertices[i*3+2] = propData[base+2]
		if hasNormals {
			normals[i*3+0] = propData[base+3]
			normals[i*3+1] = propData[base+4]
			normals[i*3+2] = propData[base+5]
		}
	}

	if !hasNormals {
		normals = computeFlatNormals(vertices, indices)
	}

	mesh := &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}

	if mesh.VertexCount() != numVert {
		return nil, fmt.Errorf("manifold: vertex count mismatch: got %d, expected %d",
			mesh.VertexCount(), numVert)
	}

	return mesh, nil
}

// computeFlatNormals generates per-vertex normals by averaging the face
// normals of all triangles incident on each vertex. This is a fallback
// when MeshGL does not include normals in the vertex properties.
func computeFlatNormals(vertices []float32, indices []uint32) []float32 {
	numVerts := len(vertices) / 3
	normals := make([]float32, numVerts*3)

	numTris := len(indices) / 3
	for t := 0; t < numTris; t++ {
		i0 := indices[t*3+0]
		i1 := indices[t*3+1]
		i2 := indices[t*3+2]

		ax, ay, az := float64(vertices[i0*3]), float64(vertices[i0*3+1]), float64(vertices[i0*3+2])
		bx, by, bz := float64(vertices[i1*3]), float64(vertices[i1*3+1]), float64(vertices[i1*3+2])
		cx, cy, cz := float64(vertices[i2*3]), float64(vertices[i2*3+1]), float64(vertices[i2*3+2])

		e1x, e1y, e1z := bx-ax, by-ay, bz-az
		e2x, e2y, e2z := cx-ax, cy-ay, cz-az

		nx := float32(e1y*e2z - e1z*e2y)
		ny := float32(e1z*e2x - e1x*e2z)
		nz := float32(e1x*e2y - e1y*e2x)

		for _, idx := range []uint32{i0, i1, i2} {
			normals[idx*3+0] += nx
			normals[idx*3+1] += ny
			normals[idx*3+2] += nz
		}
	}

	for i := 0; i < numVerts; i++ {
		nx := float64(normals[i*3+0])
		ny := float64(normals[i*3+1])
		nz := float64(normals[i*3+2])
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if length > 1e-12 {
			normals[i*3+0] = float32(nx / length)
			normals[i*3+1] = float32(ny / length)
			normals[i*3+2] = float32(nz / length)
		}
	}

	return normals
}
