package kernel

import (
	"strings"
	"testing"

	"github.com/kpryor/burin/pkg/geom"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	if m := (&Mesh{}); !m.IsEmpty() {
		t.Error("IsEmpty() = false for empty mesh, want true")
	}
	if m := (&Mesh{Vertices: []float32{1, 2, 3}}); m.IsEmpty() {
		t.Error("IsEmpty() = true for non-empty mesh, want false")
	}
}

// --- Recorder tests ---

func TestRecorderIndices(t *testing.T) {
	r := NewRecorder()
	first := r.AddGeometry([]Primitive{SketchPoint{Location: geom.XY(0, 0)}}, true)
	if first != 0 {
		t.Errorf("first index = %d, want 0", first)
	}
	second := r.AddGeometry([]Primitive{
		LineSegment{Start: geom.XY(0, 0), End: geom.XY(10, 0)},
		LineSegment{Start: geom.XY(10, 0), End: geom.XY(0, 0)},
	}, false)
	if second != 1 {
		t.Errorf("second batch index = %d, want 1", second)
	}
	if len(r.Primitives()) != 3 {
		t.Errorf("primitive count = %d, want 3", len(r.Primitives()))
	}
	// The construction point is excluded from the profile.
	if len(r.Profile()) != 2 {
		t.Errorf("profile count = %d, want 2", len(r.Profile()))
	}
}

func TestRecorderConstraintValidation(t *testing.T) {
	r := NewRecorder()
	r.AddGeometry([]Primitive{
		LineSegment{Start: geom.XY(0, 0), End: geom.XY(1, 0)},
		LineSegment{Start: geom.XY(1, 0), End: geom.XY(0, 0)},
	}, false)

	if err := r.AddConstraints([]Constraint{NewCoincident(0, KeyEnd, 1, KeyStart)}); err != nil {
		t.Fatalf("valid constraint rejected: %v", err)
	}
	if err := r.AddConstraints([]Constraint{NewCoincident(0, KeyEnd, 7, KeyStart)}); err == nil {
		t.Fatal("expected error for out-of-range primitive reference")
	}
	if err := r.AddConstraints([]Constraint{NewRadius(5, 1.0)}); err == nil {
		t.Fatal("expected error for out-of-range radius target")
	}
}

func TestRecorderReportDeterminism(t *testing.T) {
	build := func() *Recorder {
		r := NewRecorder()
		r.AddGeometry([]Primitive{SketchPoint{Location: geom.XY(0, 0)}}, true)
		r.AddGeometry([]Primitive{
			Circle{Center: geom.XY(5, 5), Radius: 2.5},
		}, false)
		_ = r.AddConstraints([]Constraint{
			NewRadius(1, 2.5),
			NewDistanceX(0, KeyStart, 1, KeyCenter, 5),
			NewDistanceY(0, KeyStart, 1, KeyCenter, 5),
		})
		return r
	}
	a := build().Report()
	b := build().Report()
	if a != b {
		t.Fatalf("reports differ:\n%s\n---\n%s", a, b)
	}
	if !strings.Contains(a, "construction") {
		t.Errorf("report missing construction flag:\n%s", a)
	}
	if !strings.Contains(a, "Radius(1,2.500000)") {
		t.Errorf("report missing radius constraint:\n%s", a)
	}
}
