package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/kpryor/burin/pkg/geom"
	"github.com/kpryor/burin/pkg/plan"
	"github.com/kpryor/burin/pkg/sketch"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms Burin script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: origin-pin -> origin_pin
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a geom.Point so corners, vectors, and centers can be
// passed between builtins.
type sexpPoint struct {
	p geom.Point
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	if p.p.Radius > 0 {
		return fmt.Sprintf("(corner %.1f %.1f :radius %.1f)", p.p.X, p.p.Y, p.p.Radius)
	}
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", p.p.X, p.p.Y, p.p.Z)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef wraps a plan.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   plan.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value; treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toPoint extracts a geom.Point from a sexpPoint.
func toPoint(s zygo.Sexp) (geom.Point, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return geom.Point{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// cornerEntry lowers a corner list element into the neutral form the
// sketch layer's corner validation accepts: a bare point, or a
// 2-element (point, radius) tuple.
func cornerEntry(s zygo.Sexp) (interface{}, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	entry := make([]interface{}, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case *sexpPoint:
			entry[i] = v.p
		case *zygo.SexpInt:
			entry[i] = float64(v.Val)
		case *zygo.SexpFloat:
			entry[i] = v.Val
		default:
			entry[i] = item
		}
	}
	return entry, nil
}

// shapeRef resolves a shape argument: either a node reference returned
// by polygon/circle, or the declared name as a string.
func shapeRef(p *plan.Plan, s zygo.Sexp) (plan.NodeID, error) {
	return nodeRef(p, s, "shape")
}

// mountRef resolves a mount argument: either a node reference returned
// by mount, or the declared name as a string.
func mountRef(p *plan.Plan, s zygo.Sexp) (plan.NodeID, error) {
	return nodeRef(p, s, "mount")
}

func nodeRef(p *plan.Plan, s zygo.Sexp, what string) (plan.NodeID, error) {
	switch v := s.(type) {
	case *sexpNodeRef:
		return v.id, nil
	case *zygo.SexpStr:
		if strings.HasPrefix(v.S, kwPrefix) {
			return "", fmt.Errorf("expected %s reference or name, got keyword :%s", what, v.S[len(kwPrefix):])
		}
		n := p.Lookup(v.S)
		if n == nil {
			return "", fmt.Errorf("no %s named %q", what, v.S)
		}
		return n.ID, nil
	}
	return "", fmt.Errorf("expected %s reference or name, got %T (%s)", what, s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all Burin DSL builtins into a zygomys environment.
// The builtins operate on the provided Plan, populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, p *plan.Plan) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		return &sexpPoint{p: geom.XYZ(x, y, z)}, nil
	})

	// -----------------------------------------------------------------------
	// (corner 40 20 :radius 10)
	// -----------------------------------------------------------------------
	env.AddFunction("corner", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("corner requires x and y, got %d positional arguments", len(pa.positional))
		}
		x, err := toFloat64(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("corner: x: %w", err)
		}
		y, err := toFloat64(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("corner: y: %w", err)
		}
		radius := 0.0
		if v, ok := pa.kw["radius"]; ok {
			radius, err = toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("corner: radius: %w", err)
			}
		}
		pt, err := geom.Corner(x, y, radius)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("corner: %w", err)
		}
		return &sexpPoint{p: pt}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon :name "profile" :corners [(corner 0 0) (corner 80 0) ...])
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		shapeName := ""
		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: name: %w", err)
			}
			shapeName = s
		}

		v, ok := pa.kw["corners"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("polygon %q: missing :corners", shapeName)
		}
		items, err := sexpListToSlice(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon %q: corners: %w", shapeName, err)
		}

		corners := make([]geom.Point, len(items))
		for i, item := range items {
			entry, err := cornerEntry(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon %q: corner %d: %w", shapeName, i, err)
			}
			pt, err := sketch.CornerSpec(shapeName, i, entry)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon %q: %w", shapeName, err)
			}
			corners[i] = pt
		}

		node := p.AddShape(shapeName, plan.ShapeData{Shape: plan.ShapePolygon, Corners: corners})
		return &sexpNodeRef{id: node.ID, name: shapeName}, nil
	})

	// -----------------------------------------------------------------------
	// (circle :name "bore" :center (vec3 0 0 0) :diameter 10)
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		shapeName := ""
		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: name: %w", err)
			}
			shapeName = s
		}

		center := geom.XYZ(0, 0, 0)
		if v, ok := pa.kw["center"]; ok {
			pt, err := toPoint(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle %q: center: %w", shapeName, err)
			}
			center = pt
		}

		v, ok := pa.kw["diameter"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("circle %q: missing :diameter", shapeName)
		}
		dia, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle %q: diameter: %w", shapeName, err)
		}
		center.Radius = dia / 2

		node := p.AddShape(shapeName, plan.ShapeData{Shape: plan.ShapeCircle, Center: center})
		return &sexpNodeRef{id: node.ID, name: shapeName}, nil
	})

	// -----------------------------------------------------------------------
	// (mount :name "top" :contact (vec3 0 0 19) :normal (vec3 0 0 1)
	//        :shapes ["profile" "bore"])
	// -----------------------------------------------------------------------
	env.AddFunction("mount", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		mountName := ""
		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mount: name: %w", err)
			}
			mountName = s
		}

		md := plan.MountData{Normal: geom.XYZ(0, 0, 1)}
		if v, ok := pa.kw["contact"]; ok {
			pt, err := toPoint(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mount %q: contact: %w", mountName, err)
			}
			md.Contact = pt
		}
		if v, ok := pa.kw["normal"]; ok {
			pt, err := toPoint(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mount %q: normal: %w", mountName, err)
			}
			md.Normal = pt
		}

		v, ok := pa.kw["shapes"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("mount %q: missing :shapes", mountName)
		}
		items, err := sexpListToSlice(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mount %q: shapes: %w", mountName, err)
		}
		for i, item := range items {
			id, err := shapeRef(p, item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mount %q: shape %d: %w", mountName, i, err)
			}
			md.Shapes = append(md.Shapes, id)
		}

		node := p.AddMount(mountName, md)
		return &sexpNodeRef{id: node.ID, name: mountName}, nil
	})

	// -----------------------------------------------------------------------
	// (pad :mount "top" :length 19 :reversed true)
	// -----------------------------------------------------------------------
	env.AddFunction("pad", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		pd := plan.PadData{}

		v, ok := pa.kw["mount"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("pad: missing :mount")
		}
		id, err := mountRef(p, v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pad: mount: %w", err)
		}
		pd.Mount = id

		v, ok = pa.kw["length"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("pad: missing :length")
		}
		pd.Length, err = toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pad: length: %w", err)
		}

		if v, ok := pa.kw["reversed"]; ok {
			pd.Reversed, err = toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("pad: reversed: %w", err)
			}
		}

		node := p.AddPad(pd)
		return &sexpNodeRef{id: node.ID}, nil
	})

	// -----------------------------------------------------------------------
	// (pocket :mount "top" :depth 5)
	// -----------------------------------------------------------------------
	env.AddFunction("pocket", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		pd := plan.PocketData{}

		v, ok := pa.kw["mount"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("pocket: missing :mount")
		}
		id, err := mountRef(p, v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pocket: mount: %w", err)
		}
		pd.Mount = id

		v, ok = pa.kw["depth"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("pocket: missing :depth")
		}
		pd.Depth, err = toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pocket: depth: %w", err)
		}

		node := p.AddPocket(pd)
		return &sexpNodeRef{id: node.ID}, nil
	})

	// -----------------------------------------------------------------------
	// (hole :mount "top" :center (vec3 40 20 0) :diameter 6 :depth 19)
	// -----------------------------------------------------------------------
	env.AddFunction("hole", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		hd := plan.HoleData{}

		v, ok := pa.kw["mount"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("hole: missing :mount")
		}
		id, err := mountRef(p, v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hole: mount: %w", err)
		}
		hd.Mount = id

		if v, ok := pa.kw["center"]; ok {
			pt, err := toPoint(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("hole: center: %w", err)
			}
			hd.Center = pt
		}

		v, ok = pa.kw["diameter"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("hole: missing :diameter")
		}
		hd.Diameter, err = toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hole: diameter: %w", err)
		}

		v, ok = pa.kw["depth"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("hole: missing :depth")
		}
		hd.Depth, err = toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hole: depth: %w", err)
		}

		node := p.AddHole(hd)
		return &sexpNodeRef{id: node.ID}, nil
	})
}
