package geom

import (
	"errors"
	"math"
)

// Box is an axis-aligned bounding box. It is computed once from a set of
// points (or child boxes) and never mutated; transforming geometry
// produces a new Box.
type Box struct {
	lower Point
	upper Point
}

// BoxFromPoints computes the bounding box of a non-empty point set.
func BoxFromPoints(points []Point) (Box, error) {
	if len(points) == 0 {
		return Box{}, errors.New("bounding box of empty point set")
	}
	lo := points[0]
	hi := points[0]
	for _, p := range points[1:] {
		lo = minElem(lo, p)
		hi = maxElem(hi, p)
	}
	lo.Radius, lo.Name = 0, ""
	hi.Radius, hi.Name = 0, ""
	return Box{lower: lo, upper: hi}, nil
}

// BoxFromBoxes computes the bounding box enclosing a non-empty set of boxes.
func BoxFromBoxes(boxes []Box) (Box, error) {
	if len(boxes) == 0 {
		return Box{}, errors.New("bounding box of empty box set")
	}
	lo := boxes[0].lower
	hi := boxes[0].upper
	for _, b := range boxes[1:] {
		lo = minElem(lo, b.lower)
		hi = maxElem(hi, b.upper)
	}
	return Box{lower: lo, upper: hi}, nil
}

// Lower returns the component-wise minimum corner.
func (b Box) Lower() Point { return b.lower }

// Upper returns the component-wise maximum corner.
func (b Box) Upper() Point { return b.upper }

// Center returns the box midpoint.
func (b Box) Center() Point {
	return b.lower.Add(b.upper).Scale(0.5)
}

func minElem(a, b Point) Point {
	return Point{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		Z: math.Min(a.Z, b.Z),
	}
}

func maxElem(a, b Point) Point {
	return Point{
		X: math.Max(a.X, b.X),
		Y: math.Max(a.Y, b.Y),
		Z: math.Max(a.Z, b.Z),
	}
}
