package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/kpryor/burin/pkg/geom"
	"github.com/kpryor/burin/pkg/plan"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(polygon :name "profile")`,
			expect: `(polygon "__kw_name" "profile")`,
		},
		{
			name:   "multiple keywords",
			input:  `(pad :mount "top" :length 19)`,
			expect: `(pad "__kw_mount" "top" "__kw_length" 19)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(origin-pin :shape-a ref)`,
			expect: `(origin_pin "__kw_shape-a" ref)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:head-dia`,
			expect: `"__kw_head-dia"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Shape declaration tests
// ---------------------------------------------------------------------------

func TestPolygonBuiltin(t *testing.T) {
	eng := NewEngine()

	source := `
(polygon :name "profile"
         :corners [(corner -40 -20)
                   (corner 40 -20)
                   (corner 40 20 :radius 10)
                   (corner -40 20 :radius 10)])
`
	p, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if p.NodeCount() != 1 {
		t.Fatalf("expected 1 node, got %d", p.NodeCount())
	}

	node := p.Lookup("profile")
	if node == nil {
		t.Fatal("expected node named 'profile'")
	}
	if node.Kind != plan.NodeShape {
		t.Errorf("expected NodeShape, got %s", node.Kind)
	}

	sd, ok := node.Data.(plan.ShapeData)
	if !ok {
		t.Fatalf("expected ShapeData, got %T", node.Data)
	}
	if sd.Shape != plan.ShapePolygon {
		t.Fatalf("expected polygon, got %s", sd.Shape)
	}
	if len(sd.Corners) != 4 {
		t.Fatalf("expected 4 corners, got %d", len(sd.Corners))
	}
	if sd.Corners[2].Radius != 10 {
		t.Errorf("corner 2 radius = %g, want 10", sd.Corners[2].Radius)
	}
	if !sd.Corners[0].EqualWithin(geom.XY(-40, -20), 1e-12) {
		t.Errorf("corner 0 = %s, want (-40,-20)", sd.Corners[0])
	}
}

func TestPolygonTupleCorners(t *testing.T) {
	eng := NewEngine()

	// A corner may also be written as a (point radius) tuple.
	source := `
(polygon :name "p"
         :corners [(corner 0 0)
                   (corner 80 0)
                   [(vec3 80 40 0) 10]
                   (corner 0 40)])
`
	p, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	sd := p.Lookup("p").Data.(plan.ShapeData)
	if sd.Corners[2].Radius != 10 {
		t.Errorf("tuple corner radius = %g, want 10", sd.Corners[2].Radius)
	}
}

func TestPolygonRejectsBadCorner(t *testing.T) {
	eng := NewEngine()

	source := `(polygon :name "p" :corners [(corner 0 0) "not-a-corner" (corner 1 1)])`
	p, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if p != nil {
		t.Fatal("expected nil plan on corner error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
}

func TestCornerRejectsNegativeRadius(t *testing.T) {
	eng := NewEngine()

	p, evalErrs, err := eng.Evaluate(`(corner 0 0 :radius -1)`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if p != nil {
		t.Fatal("expected nil plan on negative radius")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
}

func TestCircleBuiltin(t *testing.T) {
	eng := NewEngine()

	source := `(circle :name "bore" :center (vec3 0 0 0) :diameter 10)`
	p, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	sd := p.Lookup("bore").Data.(plan.ShapeData)
	if sd.Shape != plan.ShapeCircle {
		t.Fatalf("expected circle, got %s", sd.Shape)
	}
	if math.Abs(sd.Center.Radius-5) > 1e-12 {
		t.Errorf("circle radius = %g, want 5 (half the diameter)", sd.Center.Radius)
	}
}

// ---------------------------------------------------------------------------
// Mount and operation tests
// ---------------------------------------------------------------------------

const plateSource = `
(polygon :name "profile"
         :corners [(corner -40 -20)
                   (corner 40 -20)
                   (corner 40 20 :radius 10)
                   (corner -40 20 :radius 10)])
(circle :name "bore" :center (vec3 0 0 0) :diameter 10)
(mount :name "top" :contact (vec3 0 0 0) :normal (vec3 0 0 1)
       :shapes ["profile" "bore"])
(pad :mount "top" :length 19)
(hole :mount "top" :center (vec3 20 10 0) :diameter 6 :depth 19)
`

func TestPlateScript(t *testing.T) {
	eng := NewEngine()

	p, evalErrs, err := eng.Evaluate(plateSource)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if p.NodeCount() != 5 {
		t.Fatalf("expected 5 nodes, got %d", p.NodeCount())
	}

	mount := p.Lookup("top")
	if mount == nil || mount.Kind != plan.NodeMount {
		t.Fatalf("mount node missing or wrong kind: %v", mount)
	}
	md := mount.Data.(plan.MountData)
	if len(md.Shapes) != 2 {
		t.Fatalf("mount shapes = %d, want 2", len(md.Shapes))
	}
	if md.Shapes[0] != p.Lookup("profile").ID {
		t.Errorf("mount shape 0 does not reference the profile")
	}
	if !md.Normal.EqualWithin(geom.XYZ(0, 0, 1), 1e-12) {
		t.Errorf("mount normal = %s, want +Z", md.Normal)
	}

	ops := p.Operations()
	if len(ops) != 2 {
		t.Fatalf("operations = %d, want 2", len(ops))
	}
	pad := ops[0].Data.(plan.PadData)
	if pad.Mount != mount.ID || pad.Length != 19 || pad.Reversed {
		t.Errorf("pad = %+v", pad)
	}
	hole := ops[1].Data.(plan.HoleData)
	if hole.Diameter != 6 || hole.Depth != 19 {
		t.Errorf("hole = %+v", hole)
	}

	// The evaluated plan should validate clean.
	result := plan.ValidateAll(p)
	if !result.OK() {
		t.Errorf("plan failed validation: %v", result.Errors)
	}
}

func TestMountRefByNodeValue(t *testing.T) {
	eng := NewEngine()

	// The mount form returns a reference usable directly.
	source := `
(polygon :name "p" :corners [(corner 0 0) (corner 10 0) (corner 10 10) (corner 0 10)])
(def m (mount :name "face" :normal (vec3 0 0 1) :shapes ["p"]))
(pad :mount m :length 5)
`
	p, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	pad := p.Operations()[0].Data.(plan.PadData)
	if pad.Mount != p.Lookup("face").ID {
		t.Error("pad does not reference the mount returned by the mount form")
	}
}

func TestUnknownMountName(t *testing.T) {
	eng := NewEngine()

	p, evalErrs, err := eng.Evaluate(`(pad :mount "nowhere" :length 5)`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if p != nil {
		t.Fatal("expected nil plan on unknown mount")
	}
	found := false
	for _, e := range evalErrs {
		if strings.Contains(e.Message, "nowhere") {
			found = true
		}
	}
	if !found {
		t.Errorf("eval errors do not name the missing mount: %v", evalErrs)
	}
}

func TestReversedPad(t *testing.T) {
	eng := NewEngine()

	source := `
(polygon :name "p" :corners [(corner 0 0) (corner 10 0) (corner 10 10) (corner 0 10)])
(mount :name "m" :normal (vec3 0 0 1) :shapes ["p"])
(pad :mount "m" :length 5 :reversed true)
`
	p, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	pad := p.Operations()[0].Data.(plan.PadData)
	if !pad.Reversed {
		t.Error("reversed flag not carried through")
	}
}

func TestScriptWithComments(t *testing.T) {
	eng := NewEngine()

	source := `
; a plate with one rounded corner
(polygon :name "p" ;; inline comment
         :corners [(corner 0 0) (corner 10 0) (corner 10 10 :radius 2) (corner 0 10)])
`
	p, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if p.Lookup("p") == nil {
		t.Error("shape not declared")
	}
}
