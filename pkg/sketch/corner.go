package sketch

import "github.com/kpryor/burin/pkg/geom"

// CornerSpec validates one entry of a polygon corner list as supplied
// by a part script. An entry is either a geom.Point (its own Radius
// field supplies the fillet radius) or a 2-element tuple of
// (geom.Point, radius). Anything else is rejected before any geometry
// is computed.
func CornerSpec(polygon string, index int, entry interface{}) (geom.Point, error) {
	switch v := entry.(type) {
	case geom.Point:
		return v, nil
	case []interface{}:
		if len(v) != 2 {
			return geom.Point{}, geomErrf(UnsupportedInput, polygon, index,
				"corner tuple has %d elements, expected 2 (point, radius)", len(v))
		}
		p, ok := v[0].(geom.Point)
		if !ok {
			return geom.Point{}, geomErrf(UnsupportedInput, polygon, index,
				"corner tuple first element is %T, expected a point", v[0])
		}
		r, ok := toRadius(v[1])
		if !ok {
			return geom.Point{}, geomErrf(UnsupportedInput, polygon, index,
				"corner tuple second element is %T, expected a number", v[1])
		}
		p, err := p.WithRadius(r)
		if err != nil {
			return geom.Point{}, geomErrf(UnsupportedInput, polygon, index, "%v", err)
		}
		return p, nil
	default:
		return geom.Point{}, geomErrf(UnsupportedInput, polygon, index,
			"corner entry is %T, expected a point or a (point, radius) tuple", entry)
	}
}

func toRadius(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
