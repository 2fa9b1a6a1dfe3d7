package plan

import (
	"strings"
	"testing"

	"github.com/kpryor/burin/pkg/geom"
)

func TestValidateAllPassesOnValidPlan(t *testing.T) {
	result := ValidateAll(validPlan())
	if !result.OK() {
		t.Errorf("valid plan rejected: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestValidateAllShapeGeometry(t *testing.T) {
	cases := []struct {
		name string
		data ShapeData
		want string
	}{
		{
			"too few corners",
			ShapeData{Shape: ShapePolygon, Corners: []geom.Point{geom.XY(0, 0), geom.XY(1, 0)}},
			"corners",
		},
		{
			"collinear corners",
			ShapeData{Shape: ShapePolygon, Corners: []geom.Point{
				geom.XY(0, 0), geom.XY(5, 0), geom.XY(10, 0), geom.XY(5, 5),
			}},
			"collinear",
		},
		{
			"negative radius",
			ShapeData{Shape: ShapePolygon, Corners: []geom.Point{
				geom.XY(0, 0), geom.XY(10, 0), {X: 5, Y: 5, Radius: -1},
			}},
			"radius",
		},
		{
			"overlapping fillets",
			ShapeData{Shape: ShapePolygon, Corners: []geom.Point{
				geom.XY(0, 0), geom.XY(20, 0),
				{X: 20, Y: 40, Radius: 15}, {X: 0, Y: 40, Radius: 15},
			}},
			"radii",
		},
		{
			"zero-radius circle",
			ShapeData{Shape: ShapeCircle, Center: geom.XY(0, 0)},
			"radius",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := New()
			shape := p.AddShape("bad", tc.data)
			mount := p.AddMount("m", MountData{
				Normal: geom.XYZ(0, 0, 1),
				Shapes: []NodeID{shape.ID},
			})
			p.AddPad(PadData{Mount: mount.ID, Length: 10})

			result := ValidateAll(p)
			found := false
			for _, e := range result.Errors {
				if e.NodeID == shape.ID && strings.Contains(e.Message, tc.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors = %v, want one on the shape mentioning %q", result.Errors, tc.want)
			}
		})
	}
}

func TestValidateAllZeroNormal(t *testing.T) {
	p := New()
	shape := p.AddShape("s", rectShape())
	mount := p.AddMount("m", MountData{
		Normal: geom.XYZ(0, 0, 0),
		Shapes: []NodeID{shape.ID},
	})
	p.AddPad(PadData{Mount: mount.ID, Length: 10})

	result := ValidateAll(p)
	found := false
	for _, e := range result.Errors {
		if e.NodeID == mount.ID && strings.Contains(e.Message, "zero-length plane normal") {
			found = true
		}
	}
	if !found {
		t.Errorf("zero normal not reported: %v", result.Errors)
	}
}

func TestValidateAllDimensions(t *testing.T) {
	p := New()
	shape := p.AddShape("s", rectShape())
	mount := p.AddMount("m", MountData{Normal: geom.XYZ(0, 0, 1), Shapes: []NodeID{shape.ID}})
	p.AddPad(PadData{Mount: mount.ID, Length: 0})
	p.AddPocket(PocketData{Mount: mount.ID, Depth: -2})
	p.AddHole(HoleData{Mount: mount.ID, Center: geom.XY(1, 1), Diameter: 0, Depth: -1})

	result := ValidateAll(p)
	for _, field := range []string{"pad length", "pocket depth", "hole diameter", "hole depth"} {
		found := false
		for _, e := range result.Errors {
			if strings.Contains(e.Message, field) {
				found = true
			}
		}
		if !found {
			t.Errorf("%s violation not reported: %v", field, result.Errors)
		}
	}
}

func TestValidateAllFilletHeadroomWarning(t *testing.T) {
	// A 10mm radius on a corner whose shortest adjacent edge is 16mm
	// is feasible but tight.
	p := New()
	shape := p.AddShape("s", ShapeData{
		Shape: ShapePolygon,
		Corners: []geom.Point{
			geom.XY(0, 0), geom.XY(40, 0),
			{X: 40, Y: 16, Radius: 10}, geom.XY(0, 16),
		},
	})
	mount := p.AddMount("m", MountData{Normal: geom.XYZ(0, 0, 1), Shapes: []NodeID{shape.ID}})
	p.AddPad(PadData{Mount: mount.ID, Length: 10})

	result := ValidateAll(p)
	if !result.OK() {
		t.Fatalf("plan rejected: %v", result.Errors)
	}
	found := false
	for _, w := range result.Warnings {
		if w.NodeID == shape.ID && strings.Contains(w.Message, "headroom") {
			found = true
		}
	}
	if !found {
		t.Errorf("headroom warning missing: %v", result.Warnings)
	}
}

func TestValidateAllSkipsGeometryWhenStructureBroken(t *testing.T) {
	p := New()
	mount := p.AddMount("m", MountData{
		Normal: geom.XYZ(0, 0, 0), // would be a Tier 2 error
		Shapes: []NodeID{NodeID("deadbeefdeadbeef")},
	})
	p.AddPad(PadData{Mount: mount.ID, Length: 10})

	result := ValidateAll(p)
	for _, e := range result.Errors {
		if strings.Contains(e.Message, "zero-length plane normal") {
			t.Errorf("geometric check ran on structurally broken plan: %v", e)
		}
	}
}
