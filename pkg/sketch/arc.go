package sketch

import (
	"math"

	"github.com/kpryor/burin/pkg/geom"
	"github.com/kpryor/burin/pkg/kernel"
)

// minFilletRadius is the radius below which a corner is left sharp and
// no fillet is computed.
const minFilletRadius = 1e-10

// EndpointConvention selects how a fillet arc's constraint-facing
// endpoint keys relate to its geometric construction order.
//
// A kernel arc primitive's own start/end is always the
// counterclockwise (non-negative angle) traversal, independent of the
// order the tangent points were computed in. When the signed sweep of
// the constructed arc is negative, the geometric start point is the
// primitive's end point and vice versa, so the keys used for adjacency
// constraints must swap; otherwise constraint emission silently
// cross-wires adjacent tangency points.
//
// Historical sketch solvers disagreed on which sign triggers the swap,
// so both conventions are available. SwapOnNegativeSweep matches
// kernels whose arcs run counterclockwise from the primitive start;
// pick SwapOnNonNegativeSweep only for a kernel verified to use the
// opposite winding.
type EndpointConvention int

const (
	SwapOnNegativeSweep EndpointConvention = iota
	SwapOnNonNegativeSweep
)

// Arc is the tangent arc replacing a filleted polygon corner. It is
// immutable once computed.
type Arc struct {
	Apex   geom.Point // the original sharp corner
	Center geom.Point
	Start  geom.Point // tangent point on the edge toward the previous corner
	Middle geom.Point // arc point nearest the apex, disambiguating minor vs major arc
	Finish geom.Point // tangent point on the edge toward the next corner
	Radius float64

	// StartAngle and FinishAngle are the polar angles of Start and
	// Finish about Center; Sweep = FinishAngle - StartAngle normalized
	// into (-pi, pi].
	StartAngle  float64
	FinishAngle float64
	Sweep       float64

	startKey  kernel.Key
	finishKey kernel.Key
}

// StartKey returns the constraint-facing endpoint key of the geometric
// start tangent point.
func (a *Arc) StartKey() kernel.Key { return a.startKey }

// FinishKey returns the constraint-facing endpoint key of the geometric
// finish tangent point.
func (a *Arc) FinishKey() kernel.Key { return a.finishKey }

// TangentLength returns the distance from the apex to each tangent
// point along the adjoining edges.
func (a *Arc) TangentLength() float64 {
	return a.Apex.Distance(a.Start)
}

// Primitive returns the kernel arc primitive, always parameterized as
// the counterclockwise traversal.
func (a *Arc) Primitive() kernel.ArcOfCircle {
	if a.Sweep >= 0 {
		return kernel.ArcOfCircle{
			Center:     a.Center,
			Radius:     a.Radius,
			StartAngle: a.StartAngle,
			EndAngle:   a.StartAngle + a.Sweep,
		}
	}
	return kernel.ArcOfCircle{
		Center:     a.Center,
		Radius:     a.Radius,
		StartAngle: a.FinishAngle,
		EndAngle:   a.FinishAngle - a.Sweep,
	}
}

// solveFillet computes the tangent arc rounding the corner at apex,
// where before and after are the adjacent corner points and radius the
// requested fillet radius.
//
// The construction uses the right triangle formed by the apex, a
// tangent point, and the arc center: the center lies on the corner
// bisector, the tangent distance along each edge is r/tan(theta) for
// half-angle theta, and the apex-to-center distance is sqrt(r^2+d^2).
func solveFillet(before, apex, after geom.Point, radius float64, conv EndpointConvention, polygon string, corner int) (*Arc, error) {
	uAB, err := before.Sub(apex).Normalize()
	if err != nil {
		return nil, geomErrf(InvalidGeometry, polygon, corner,
			"zero-length edge toward previous corner at %s", apex)
	}
	uAE, err := after.Sub(apex).Normalize()
	if err != nil {
		return nil, geomErrf(InvalidGeometry, polygon, corner,
			"zero-length edge toward next corner at %s", apex)
	}

	// Bisector. Degenerates exactly when before/apex/after are
	// collinear with the apex between its neighbors.
	uAC, err := uAB.Add(uAE).Normalize()
	if err != nil {
		return nil, geomErrf(InvalidGeometry, polygon, corner,
			"collinear corner triple at %s", apex)
	}

	cos := uAC.Dot(uAE)
	cos = math.Max(-1, math.Min(1, cos))
	theta := math.Acos(cos)
	tan := math.Tan(theta)
	if tan < 1e-12 {
		return nil, geomErrf(InvalidGeometry, polygon, corner,
			"degenerate corner angle at %s: tangent circle undefined", apex)
	}

	d := radius / tan                    // apex to tangent point, along each edge
	ac := math.Sqrt(radius*radius + d*d) // apex to arc center

	a := &Arc{
		Apex:   apex,
		Center: apex.Add(uAC.Scale(ac)),
		Start:  apex.Add(uAB.Scale(d)),
		Middle: apex.Add(uAC.Scale(ac - radius)),
		Finish: apex.Add(uAE.Scale(d)),
		Radius: radius,
	}
	a.StartAngle = a.Start.Sub(a.Center).Atan2()
	a.FinishAngle = a.Finish.Sub(a.Center).Atan2()

	// Signed sweep normalized into (-pi, pi]. Fillet angles are
	// bounded below pi in magnitude, so at most one wraparound.
	sweep := a.FinishAngle - a.StartAngle
	if sweep > math.Pi {
		sweep -= 2 * math.Pi
	} else if sweep <= -math.Pi {
		sweep += 2 * math.Pi
	}
	if math.Abs(sweep) < 1e-12 {
		return nil, geomErrf(InvalidGeometry, polygon, corner,
			"zero-sweep fillet arc at %s", apex)
	}
	a.Sweep = sweep

	swap := sweep < 0
	if conv == SwapOnNonNegativeSweep {
		swap = sweep >= 0
	}
	if swap {
		a.startKey, a.finishKey = kernel.KeyEnd, kernel.KeyStart
	} else {
		a.startKey, a.finishKey = kernel.KeyStart, kernel.KeyEnd
	}
	return a, nil
}
