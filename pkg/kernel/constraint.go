package kernel

import "fmt"

// Key selects which characteristic point of a primitive a constraint
// refers to.
type Key int

const (
	KeyStart  Key = 1 // arc/line start point
	KeyEnd    Key = 2 // arc/line end point
	KeyCenter Key = 3 // arc/circle center point
)

// ConstraintKind enumerates the constraint types a sketch solver
// accepts.
type ConstraintKind int

const (
	Coincident ConstraintKind = iota // glue two endpoints together
	Tangent                          // smooth junction at two endpoints
	Radius                           // fix an arc/circle radius
	DistanceX                        // fix the X offset between two points
	DistanceY                        // fix the Y offset between two points
)

func (k ConstraintKind) String() string {
	switch k {
	case Coincident:
		return "Coincident"
	case Tangent:
		return "Tangent"
	case Radius:
		return "Radius"
	case DistanceX:
		return "DistanceX"
	case DistanceY:
		return "DistanceY"
	default:
		return "unknown"
	}
}

// Constraint references previously added primitives by index.
//
// Field usage by kind:
//   - Coincident, Tangent: First/FirstKey and Second/SecondKey name the
//     two glued endpoints.
//   - Radius: First names the arc or circle, Value is the radius.
//   - DistanceX, DistanceY: First/FirstKey is the anchor point,
//     Second/SecondKey the measured point, Value the axis offset.
type Constraint struct {
	Kind      ConstraintKind
	First     int
	FirstKey  Key
	Second    int
	SecondKey Key
	Value     float64
}

// NewCoincident glues endpoint fk of primitive f to endpoint sk of
// primitive s.
func NewCoincident(f int, fk Key, s int, sk Key) Constraint {
	return Constraint{Kind: Coincident, First: f, FirstKey: fk, Second: s, SecondKey: sk}
}

// NewTangent makes primitives f and s tangent at the glued endpoints.
func NewTangent(f int, fk Key, s int, sk Key) Constraint {
	return Constraint{Kind: Tangent, First: f, FirstKey: fk, Second: s, SecondKey: sk}
}

// NewRadius fixes the radius of arc/circle f.
func NewRadius(f int, radius float64) Constraint {
	return Constraint{Kind: Radius, First: f, Value: radius}
}

// NewDistanceX fixes the X offset from anchor point (f, fk) to point
// (s, sk).
func NewDistanceX(f int, fk Key, s int, sk Key, value float64) Constraint {
	return Constraint{Kind: DistanceX, First: f, FirstKey: fk, Second: s, SecondKey: sk, Value: value}
}

// NewDistanceY fixes the Y offset from anchor point (f, fk) to point
// (s, sk).
func NewDistanceY(f int, fk Key, s int, sk Key, value float64) Constraint {
	return Constraint{Kind: DistanceY, First: f, FirstKey: fk, Second: s, SecondKey: sk, Value: value}
}

// String renders the constraint deterministically for reports.
func (c Constraint) String() string {
	switch c.Kind {
	case Radius:
		return fmt.Sprintf("%s(%d,%.6f)", c.Kind, c.First, c.Value)
	case DistanceX, DistanceY:
		return fmt.Sprintf("%s(%d,%d,%d,%d,%.6f)", c.Kind, c.First, c.FirstKey, c.Second, c.SecondKey, c.Value)
	default:
		return fmt.Sprintf("%s(%d,%d,%d,%d)", c.Kind, c.First, c.FirstKey, c.Second, c.SecondKey)
	}
}
