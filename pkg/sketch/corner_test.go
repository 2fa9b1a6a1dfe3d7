package sketch

import (
	"testing"

	"github.com/kpryor/burin/pkg/geom"
)

func TestCornerSpecAcceptsPoint(t *testing.T) {
	p, err := CornerSpec("p", 0, geom.XY(3, 4))
	if err != nil {
		t.Fatalf("CornerSpec: %v", err)
	}
	if !p.EqualWithin(geom.XY(3, 4), 0) || p.Radius != 0 {
		t.Errorf("got %s radius %g", p, p.Radius)
	}
}

func TestCornerSpecAcceptsTuple(t *testing.T) {
	for _, radius := range []interface{}{2.5, float32(2.5), 2, int64(2)} {
		p, err := CornerSpec("p", 1, []interface{}{geom.XY(3, 4), radius})
		if err != nil {
			t.Fatalf("CornerSpec(%T): %v", radius, err)
		}
		if p.Radius <= 0 {
			t.Errorf("radius %T: got %g, want positive", radius, p.Radius)
		}
	}
}

func TestCornerSpecRejections(t *testing.T) {
	cases := []struct {
		name  string
		entry interface{}
	}{
		{"wrong arity", []interface{}{geom.XY(0, 0)}},
		{"three elements", []interface{}{geom.XY(0, 0), 1.0, 2.0}},
		{"first not a point", []interface{}{"origin", 1.0}},
		{"second not a number", []interface{}{geom.XY(0, 0), "big"}},
		{"negative radius", []interface{}{geom.XY(0, 0), -1.0}},
		{"bare string", "corner"},
		{"bare number", 7.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CornerSpec("plate", 2, tc.entry)
			if kind, ok := KindOf(err); !ok || kind != UnsupportedInput {
				t.Errorf("got %v, want UnsupportedInput", err)
			}
		})
	}
}
