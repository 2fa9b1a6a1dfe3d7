package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a rigid affine transform: rotate about the origin, then
// translate. The zero value is the identity. Transforms compose like
// matrices: Compose(a, b) applies b first, then a.
type Transform struct {
	q quat.Number // rotation as a unit quaternion, stored minus identity real part
	t r3.Vec      // translation applied after rotation
}

// quaternion returns the stored rotation as a proper unit quaternion.
// The identity real part is re-added so the zero Transform is identity.
func (t Transform) quaternion() quat.Number {
	q := t.q
	q.Real++
	return q
}

// Translate returns the pure translation by v.
func Translate(v Point) Transform {
	return Transform{t: v.Vec()}
}

// Rotate returns the rotation about the origin around the given axis by
// a signed angle in radians. The axis need not be normalized but must be
// nonzero.
func Rotate(axis Point, angle float64) (Transform, error) {
	u, err := axis.Normalize()
	if err != nil {
		return Transform{}, fmt.Errorf("rotation axis: %w", err)
	}
	s, c := math.Sincos(angle / 2)
	q := quat.Number{Real: c, Imag: s * u.X, Jmag: s * u.Y, Kmag: s * u.Z}
	q.Real--
	return Transform{q: q}, nil
}

// RotationBetween returns the rotation mapping the direction of from
// onto the direction of to. For antiparallel inputs a stable
// perpendicular axis is chosen.
func RotationBetween(from, to Point) (Transform, error) {
	uf, err := from.Normalize()
	if err != nil {
		return Transform{}, fmt.Errorf("rotation source vector: %w", err)
	}
	ut, err := to.Normalize()
	if err != nil {
		return Transform{}, fmt.Errorf("rotation target vector: %w", err)
	}
	cross := FromVec(r3.Cross(uf.Vec(), ut.Vec()))
	sin := cross.Magnitude()
	cos := uf.Dot(ut)
	if sin < normEpsilon {
		if cos > 0 {
			return Transform{}, nil // already aligned
		}
		// Antiparallel: rotate pi about any axis perpendicular to from.
		return Rotate(perpendicular(uf), math.Pi)
	}
	return Rotate(cross, math.Atan2(sin, cos))
}

// perpendicular returns a vector perpendicular to the unit vector u,
// chosen deterministically from u's smallest component.
func perpendicular(u Point) Point {
	ax, ay, az := math.Abs(u.X), math.Abs(u.Y), math.Abs(u.Z)
	var other Point
	switch {
	case ax <= ay && ax <= az:
		other = XYZ(1, 0, 0)
	case ay <= az:
		other = XYZ(0, 1, 0)
	default:
		other = XYZ(0, 0, 1)
	}
	return FromVec(r3.Cross(u.Vec(), other.Vec()))
}

// Compose returns the transform equivalent to applying b first, then a.
func Compose(a, b Transform) Transform {
	qa := a.quaternion()
	qb := b.quaternion()
	q := quat.Mul(qa, qb)
	q.Real--
	rot := r3.Rotation(qa)
	return Transform{
		q: q,
		t: r3.Add(rot.Rotate(b.t), a.t),
	}
}

// Apply transforms the point, preserving its radius and name. Rigid
// transforms leave fillet radii unchanged.
func (t Transform) Apply(p Point) Point {
	v := r3.Rotation(t.quaternion()).Rotate(p.Vec())
	out := FromVec(r3.Add(v, t.t))
	out.Radius = p.Radius
	out.Name = p.Name
	return out
}

// Inverse returns the transform undoing t.
func (t Transform) Inverse() Transform {
	qi := quat.Conj(t.quaternion()) // unit quaternion inverse
	ti := r3.Rotation(qi).Rotate(r3.Scale(-1, t.t))
	qi.Real--
	return Transform{q: qi, t: ti}
}
