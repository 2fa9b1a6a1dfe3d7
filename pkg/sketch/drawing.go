package sketch

import (
	"github.com/kpryor/burin/pkg/geom"
	"github.com/kpryor/burin/pkg/kernel"
)

// Drawing composes polygons and circles in one coordinate frame defined
// by a contact point and a plane normal, and drives feature extraction
// and constraint emission against a kernel sketch.
//
// A Drawing is immutable after construction except for the origin
// anchor index, which is assigned during production. Reorientation
// produces an entirely new Drawing graph rather than mutating in
// place.
type Drawing struct {
	name     string
	contact  geom.Point
	normal   geom.Point
	polygons []*Polygon
	circles  []*Circle
	conv     EndpointConvention
	box      geom.Box

	originIndex int
	originSet   bool
}

// NewDrawing builds a drawing from at least one shape. The normal must
// be a nonzero vector; shapes are expected to lie on the plane through
// contact perpendicular to it.
func NewDrawing(name string, contact, normal geom.Point, polygons []*Polygon, circles []*Circle, conv EndpointConvention) (*Drawing, error) {
	if _, err := normal.Normalize(); err != nil {
		return nil, geomErrf(InvalidGeometry, "", -1, "drawing %q: zero-length plane normal", name)
	}
	if len(polygons)+len(circles) == 0 {
		return nil, geomErrf(UnsupportedInput, "", -1, "drawing %q has no shapes", name)
	}
	boxes := make([]geom.Box, 0, len(polygons)+len(circles))
	for _, p := range polygons {
		boxes = append(boxes, p.Bounds())
	}
	for _, c := range circles {
		boxes = append(boxes, c.Bounds())
	}
	box, err := geom.BoxFromBoxes(boxes)
	if err != nil {
		return nil, geomErrf(InvalidGeometry, "", -1, "drawing %q: %v", name, err)
	}
	return &Drawing{
		name:     name,
		contact:  contact,
		normal:   normal,
		polygons: polygons,
		circles:  circles,
		conv:     conv,
		box:      box,
	}, nil
}

// Name returns the drawing's label.
func (d *Drawing) Name() string { return d.name }

// Contact returns the plane contact point.
func (d *Drawing) Contact() geom.Point { return d.contact }

// Normal returns the plane normal vector.
func (d *Drawing) Normal() geom.Point { return d.normal }

// Bounds returns the combined bounding box of all shapes.
func (d *Drawing) Bounds() geom.Box { return d.box }

// Polygons returns the drawing's polygons in insertion order.
func (d *Drawing) Polygons() []*Polygon { return d.polygons }

// Circles returns the drawing's circles in insertion order.
func (d *Drawing) Circles() []*Circle { return d.circles }

// OriginIndex returns the sketch index of the origin anchor point. It
// is set during the first successful Produce; reading it earlier is a
// contract violation.
func (d *Drawing) OriginIndex() (int, error) {
	if !d.originSet {
		return 0, geomErrf(StateError, "", -1, "drawing %q: origin index read before production", d.name)
	}
	return d.originIndex, nil
}

// Reorient applies a rigid transform to every shape, the contact point,
// and the normal, returning a new Drawing. Corner radii are preserved;
// bounding boxes and fillet geometry are recomputed from scratch on the
// rebuilt shapes.
func (d *Drawing) Reorient(t geom.Transform) (*Drawing, error) {
	polygons := make([]*Polygon, len(d.polygons))
	for i, p := range d.polygons {
		np, err := p.transformed(t)
		if err != nil {
			return nil, err
		}
		polygons[i] = np
	}
	circles := make([]*Circle, len(d.circles))
	for i, c := range d.circles {
		nc, err := c.transformed(t)
		if err != nil {
			return nil, err
		}
		circles[i] = nc
	}
	// The normal is a direction: rotate it without translating.
	rotOnly := geom.Compose(geom.Translate(t.Apply(geom.XYZ(0, 0, 0)).Neg()), t)
	return NewDrawing(d.name, t.Apply(d.contact), rotOnly.Apply(d.normal), polygons, circles, d.conv)
}

// Produce lowers the drawing into the sketch. The pass is a strict
// sequence: align the plane normal onto +Z, translate the combined
// bounding box's lower-left corner to the origin (so all emitted
// distance values are non-negative), place the origin anchor, add all
// shape geometry, then emit all constraints, then recompute. Any
// failure aborts the whole production; no partial sketch is left
// behind in the returned error case.
//
// Produce may be called again with a fresh sketch; repeated productions
// of an unchanged drawing emit byte-identical sequences.
func (d *Drawing) Produce(sk kernel.Sketch) error {
	// Unaligned -> Z-aligned: move contact to the origin, then map the
	// normal onto +Z.
	rot, err := geom.RotationBetween(d.normal, geom.XYZ(0, 0, 1))
	if err != nil {
		return geomErrf(InvalidGeometry, "", -1, "drawing %q: %v", d.name, err)
	}
	aligned, err := d.Reorient(geom.Compose(rot, geom.Translate(d.contact.Neg())))
	if err != nil {
		return err
	}

	// Z-aligned -> quadrant-normalized: lower-left corner to the true
	// origin. This keeps DistanceX/DistanceY values non-negative, a
	// stability property of the emitted constraints.
	lower := aligned.box.Lower()
	normalized := aligned
	if lower.Magnitude() > 0 {
		normalized, err = aligned.Reorient(geom.Translate(lower.Neg()))
		if err != nil {
			return err
		}
	}
	origin := normalized.box.Lower()

	// Extract every shape's features before the sketch is touched, so a
	// bad shape cannot leave earlier shapes' primitives behind in the
	// kernel.
	type featureBatch struct {
		feats  []*feature
		circle bool
	}
	batches := make([]featureBatch, 0, len(normalized.polygons)+len(normalized.circles))
	for _, p := range normalized.polygons {
		feats, err := p.features(normalized.conv)
		if err != nil {
			return err
		}
		batches = append(batches, featureBatch{feats: feats})
	}
	for _, c := range normalized.circles {
		batches = append(batches, featureBatch{feats: []*feature{circleFeature(c)}, circle: true})
	}

	// Origin anchor: a construction point every distance constraint is
	// measured from.
	originIndex := sk.AddGeometry([]kernel.Primitive{kernel.SketchPoint{Location: origin}}, true)
	if d.originSet && d.originIndex != originIndex {
		return geomErrf(StateError, "", -1,
			"drawing %q: origin index changed across productions (%d -> %d)", d.name, d.originIndex, originIndex)
	}

	// Geometry first, then all constraints, then recompute.
	var constraints []kernel.Constraint
	for _, b := range batches {
		prims := make([]kernel.Primitive, len(b.feats))
		for i, f := range b.feats {
			prims[i] = f.primitive()
		}
		base := sk.AddGeometry(prims, false)
		for i, f := range b.feats {
			if err := f.setIndex(base + i); err != nil {
				return err
			}
		}
		var cs []kernel.Constraint
		if b.circle {
			cs, err = circleConstraints(b.feats[0], originIndex, origin)
		} else {
			cs, err = polygonConstraints(b.feats, originIndex, origin)
		}
		if err != nil {
			return err
		}
		constraints = append(constraints, cs...)
	}

	if err := sk.AddConstraints(constraints); err != nil {
		return err
	}
	if err := sk.Recompute(); err != nil {
		return err
	}
	d.originIndex = originIndex
	d.originSet = true
	return nil
}
