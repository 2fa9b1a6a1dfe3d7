package plan

import (
	"fmt"
	"strings"

	"github.com/kpryor/burin/pkg/geom"
)

// ---------------------------------------------------------------------------
// Shapes
// ---------------------------------------------------------------------------

// ShapeKind distinguishes between sketch shape declarations.
type ShapeKind int

const (
	ShapePolygon ShapeKind = iota
	ShapeCircle
)

func (k ShapeKind) String() string {
	switch k {
	case ShapePolygon:
		return "polygon"
	case ShapeCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// ShapeData is a declarative sketch shape. A polygon carries its corner
// list with per-corner fillet radii; a circle carries a center point
// whose Radius field is the circle radius. Geometric soundness is
// checked during validation, not at declaration time, so a script can
// be fully evaluated before any errors are reported.
type ShapeData struct {
	Shape   ShapeKind    `json:"shape"`
	Corners []geom.Point `json:"corners,omitempty"`
	Center  geom.Point   `json:"center,omitempty"`
}

func (ShapeData) nodeData() {}

func (d ShapeData) payload() string {
	if d.Shape == ShapeCircle {
		return fmt.Sprintf("circle %s r=%g", d.Center, d.Center.Radius)
	}
	parts := make([]string, len(d.Corners))
	for i, c := range d.Corners {
		parts[i] = fmt.Sprintf("%s r=%g", c, c.Radius)
	}
	return "polygon " + strings.Join(parts, " ")
}

// ---------------------------------------------------------------------------
// Mounts
// ---------------------------------------------------------------------------

// MountData binds one or more shapes to a placement plane. The plane is
// given by a contact point and an outward normal; the build walk
// assembles the referenced shapes into a single drawing on that plane.
type MountData struct {
	Contact geom.Point `json:"contact"`
	Normal  geom.Point `json:"normal"`
	Shapes  []NodeID   `json:"shapes"`
}

func (MountData) nodeData() {}

func (d MountData) payload() string {
	refs := make([]string, len(d.Shapes))
	for i, id := range d.Shapes {
		refs[i] = id.Short()
	}
	return fmt.Sprintf("contact=%s normal=%s shapes=[%s]", d.Contact, d.Normal, strings.Join(refs, " "))
}

// ---------------------------------------------------------------------------
// Solid operations
// ---------------------------------------------------------------------------

// PadData extrudes a mount's profile into a solid. Each pad starts a
// new part; cuts that follow apply to the most recent pad's part. A
// reversed pad grows away from the mount normal instead of along it.
type PadData struct {
	Mount    NodeID  `json:"mount"`
	Length   float64 `json:"length"`
	Reversed bool    `json:"reversed,omitempty"`
}

func (PadData) nodeData() {}

func (d PadData) payload() string {
	return fmt.Sprintf("mount=%s length=%g reversed=%t", d.Mount.Short(), d.Length, d.Reversed)
}

// PocketData removes a mount's profile to a fixed depth below the
// mount plane.
type PocketData struct {
	Mount NodeID  `json:"mount"`
	Depth float64 `json:"depth"`
}

func (PocketData) nodeData() {}

func (d PocketData) payload() string {
	return fmt.Sprintf("mount=%s depth=%g", d.Mount.Short(), d.Depth)
}

// HoleData bores a cylinder of the given diameter to a fixed depth
// below the mount plane.
type HoleData struct {
	Mount    NodeID     `json:"mount"`
	Center   geom.Point `json:"center"`
	Diameter float64    `json:"diameter"`
	Depth    float64    `json:"depth"`
}

func (HoleData) nodeData() {}

func (d HoleData) payload() string {
	return fmt.Sprintf("mount=%s center=%s diameter=%g depth=%g", d.Mount.Short(), d.Center, d.Diameter, d.Depth)
}
