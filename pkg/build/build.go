// Package build walks a validated part plan and produces solids and
// triangle meshes using a geometry kernel. Each pad starts a new part;
// pockets and holes cut into the part most recently started.
package build

import (
	"fmt"
	"strings"

	"github.com/kpryor/burin/pkg/kernel"
	"github.com/kpryor/burin/pkg/plan"
	"github.com/kpryor/burin/pkg/sketch"
)

// Part is one finished solid with its mesh.
type Part struct {
	Name  string
	Solid kernel.Solid
	Mesh  *kernel.Mesh
}

// Result bundles the finished parts with a deterministic production
// report describing every sketch and operation in walk order.
type Result struct {
	Parts  []*Part
	Report string
}

// Builder drives the plan walk against a kernel body backend.
type Builder struct {
	body kernel.Body
	conv sketch.EndpointConvention
}

// NewBuilder creates a Builder with the default arc endpoint
// convention.
func NewBuilder(body kernel.Body) *Builder {
	return &Builder{body: body, conv: sketch.SwapOnNegativeSweep}
}

// mountSketch is the produced sketch for one mount, built once and
// reused by every operation referencing the mount.
type mountSketch struct {
	name     string
	drawing  *sketch.Drawing
	recorder *kernel.Recorder
}

// Build validates the plan, produces one sketch per mount, and executes
// the plan's operations in order. The walk is read-only with respect to
// the plan; repeated builds of an unchanged plan produce identical
// reports.
func (b *Builder) Build(p *plan.Plan) (*Result, error) {
	if p == nil {
		return &Result{}, nil
	}
	if result := plan.ValidateAll(p); !result.OK() {
		return nil, fmt.Errorf("build: plan is invalid: %v", result.Errors[0])
	}

	sketches := make(map[plan.NodeID]*mountSketch)
	var report strings.Builder

	produce := func(mountID plan.NodeID) (*mountSketch, error) {
		if ms, ok := sketches[mountID]; ok {
			return ms, nil
		}
		node := p.Get(mountID)
		d, err := b.drawingFor(p, node)
		if err != nil {
			return nil, err
		}
		rec := kernel.NewRecorder()
		if err := d.Produce(rec); err != nil {
			return nil, fmt.Errorf("mount %q: %w", mountName(node), err)
		}
		ms := &mountSketch{name: mountName(node), drawing: d, recorder: rec}
		sketches[mountID] = ms
		fmt.Fprintf(&report, "sketch %s: %d primitives, %d constraints\n",
			ms.name, len(rec.Primitives()), len(rec.Constraints()))
		return ms, nil
	}

	var parts []*Part
	var active *Part

	for _, op := range p.Operations() {
		switch d := op.Data.(type) {
		case plan.PadData:
			ms, err := produce(d.Mount)
			if err != nil {
				return nil, err
			}
			solid, err := b.body.Pad(ms.recorder.Profile(), d.Length, d.Reversed)
			if err != nil {
				return nil, fmt.Errorf("pad on mount %q: %w", ms.name, err)
			}
			active = &Part{Name: ms.name, Solid: solid}
			parts = append(parts, active)
			fmt.Fprintf(&report, "pad %s length=%g reversed=%t\n", ms.name, d.Length, d.Reversed)

		case plan.PocketData:
			ms, err := produce(d.Mount)
			if err != nil {
				return nil, err
			}
			if active == nil {
				return nil, fmt.Errorf("pocket on mount %q: no part to cut", ms.name)
			}
			solid, err := b.body.Pocket(active.Solid, ms.recorder.Profile(), d.Depth)
			if err != nil {
				return nil, fmt.Errorf("pocket on mount %q: %w", ms.name, err)
			}
			active.Solid = solid
			fmt.Fprintf(&report, "pocket %s depth=%g\n", ms.name, d.Depth)

		case plan.HoleData:
			ms, err := produce(d.Mount)
			if err != nil {
				return nil, err
			}
			if active == nil {
				return nil, fmt.Errorf("hole on mount %q: no part to drill", ms.name)
			}
			solid, err := b.body.Hole(active.Solid, d.Center, d.Diameter, d.Depth)
			if err != nil {
				return nil, fmt.Errorf("hole on mount %q: %w", ms.name, err)
			}
			active.Solid = solid
			fmt.Fprintf(&report, "hole %s diameter=%g depth=%g\n", ms.name, d.Diameter, d.Depth)
		}
	}

	for _, part := range parts {
		mesh, err := b.body.ToMesh(part.Solid)
		if err != nil {
			return nil, fmt.Errorf("meshing part %q: %w", part.Name, err)
		}
		mesh.PartName = part.Name
		part.Mesh = mesh
		fmt.Fprintf(&report, "mesh %s: %d triangles\n", part.Name, mesh.TriangleCount())
	}

	return &Result{Parts: parts, Report: report.String()}, nil
}

// drawingFor assembles the sketch drawing for a mount from its shape
// declarations.
func (b *Builder) drawingFor(p *plan.Plan, mount *plan.Node) (*sketch.Drawing, error) {
	md := mount.Data.(plan.MountData)

	var polygons []*sketch.Polygon
	var circles []*sketch.Circle
	for _, sid := range md.Shapes {
		shapeNode := p.Get(sid)
		sd := shapeNode.Data.(plan.ShapeData)
		switch sd.Shape {
		case plan.ShapePolygon:
			poly, err := sketch.NewPolygon(shapeNode.Name, sd.Corners)
			if err != nil {
				return nil, err
			}
			polygons = append(polygons, poly)
		case plan.ShapeCircle:
			circ, err := sketch.NewCircle(shapeNode.Name, sd.Center)
			if err != nil {
				return nil, err
			}
			circles = append(circles, circ)
		default:
			return nil, fmt.Errorf("shape %q has unknown kind %d", shapeNode.Name, sd.Shape)
		}
	}

	return sketch.NewDrawing(mountName(mount), md.Contact, md.Normal, polygons, circles, b.conv)
}

func mountName(n *plan.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}
