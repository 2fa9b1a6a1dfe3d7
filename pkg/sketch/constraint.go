package sketch

import (
	"github.com/kpryor/burin/pkg/geom"
	"github.com/kpryor/burin/pkg/kernel"
)

// polygonConstraints emits the constraint sequence fully and
// unambiguously determining one polygon's feature chain:
//
//   - every adjacent feature pair is glued, with Tangent when either
//     side of the junction is an arc, and Coincident plus explicit
//     DistanceX/DistanceY from the origin anchor otherwise (so the
//     sketch is positionally, not just topologically, determined);
//   - every arc gets a Radius constraint, plus DistanceX/DistanceY
//     pinning its center unless it sits directly between two other
//     arcs, whose two tangencies already fix the center; explicit X/Y
//     there would over-constrain the solver.
//
// Emission follows feature traversal order, so output is deterministic.
func polygonConstraints(feats []*feature, originIndex int, origin geom.Point) ([]kernel.Constraint, error) {
	n := len(feats)
	var cs []kernel.Constraint
	for i, f := range feats {
		prev := feats[(i+n-1)%n]
		next := feats[(i+1)%n]

		fi, err := f.Index()
		if err != nil {
			return nil, err
		}
		pi, err := prev.Index()
		if err != nil {
			return nil, err
		}

		// Glue the junction at this feature's start.
		if prev.kind == featureArc || f.kind == featureArc {
			cs = append(cs, kernel.NewTangent(pi, prev.finishKey(), fi, f.startKey()))
		} else {
			junction := f.startPoint()
			cs = append(cs,
				kernel.NewCoincident(pi, prev.finishKey(), fi, f.startKey()),
				kernel.NewDistanceX(originIndex, kernel.KeyStart, fi, f.startKey(), junction.X-origin.X),
				kernel.NewDistanceY(originIndex, kernel.KeyStart, fi, f.startKey(), junction.Y-origin.Y),
			)
		}

		if f.kind == featureArc {
			cs = append(cs, kernel.NewRadius(fi, f.arc.Radius))
			if prev.kind == featureArc && next.kind == featureArc {
				continue // center already fixed by the two tangencies
			}
			center := f.arc.Center
			cs = append(cs,
				kernel.NewDistanceX(originIndex, kernel.KeyStart, fi, kernel.KeyCenter, center.X-origin.X),
				kernel.NewDistanceY(originIndex, kernel.KeyStart, fi, kernel.KeyCenter, center.Y-origin.Y),
			)
		}
	}
	return cs, nil
}

// circleConstraints pins a circle's radius and center. Circles are
// never chained, so the explicit X/Y never over-constrains.
func circleConstraints(f *feature, originIndex int, origin geom.Point) ([]kernel.Constraint, error) {
	fi, err := f.Index()
	if err != nil {
		return nil, err
	}
	center := f.circle.Center
	return []kernel.Constraint{
		kernel.NewRadius(fi, f.circle.Radius()),
		kernel.NewDistanceX(originIndex, kernel.KeyStart, fi, kernel.KeyCenter, center.X-origin.X),
		kernel.NewDistanceY(originIndex, kernel.KeyStart, fi, kernel.KeyCenter, center.Y-origin.Y),
	}, nil
}
