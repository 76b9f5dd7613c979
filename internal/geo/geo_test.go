package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/mapsketch/mapsketch/internal/common"
)

func TestNewShape_MinVertices(t *testing.T) {
	tests := []struct {
		kind    Kind
		n       int
		wantErr bool
	}{
		{KindPoint, 1, false},
		{KindPoint, 0, true},
		{KindLineString, 2, false},
		{KindLineString, 1, true},
		{KindPolygon, 3, false},
		{KindPolygon, 2, true},
	}

	for _, tt := range tests {
		vertices := make([]LatLng, tt.n)
		for i := range vertices {
			vertices[i] = LatLng{Lat: float64(i), Lng: float64(i)}
		}
		_, err := NewShape(tt.kind, vertices, "")
		if tt.wantErr && !errors.Is(err, common.ErrInvalidInput) {
			t.Errorf("NewShape(%s, %d vertices) error = %v, want ErrInvalidInput", tt.kind, tt.n, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("NewShape(%s, %d vertices) unexpected error: %v", tt.kind, tt.n, err)
		}
	}
}

func TestNewShape_RejectsNonFinite(t *testing.T) {
	_, err := NewShape(KindPoint, []LatLng{{Lat: math.NaN(), Lng: 0}}, "")
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
	_, err = NewShape(KindPoint, []LatLng{{Lat: 0, Lng: math.Inf(1)}}, "")
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestNewShape_CopiesVertices(t *testing.T) {
	src := []LatLng{{Lat: 1, Lng: 2}}
	s, err := NewShape(KindPoint, src, "")
	if err != nil {
		t.Fatalf("NewShape error: %v", err)
	}
	src[0].Lat = 99
	if s.Vertices[0].Lat != 1 {
		t.Fatalf("vertices aliased with caller slice")
	}
}

func TestDocument_OrderAndLookup(t *testing.T) {
	d := NewDocument()
	var ids []string
	for i := 0; i < 3; i++ {
		s, err := NewShape(KindPoint, []LatLng{{Lat: float64(i), Lng: 0}}, "")
		if err != nil {
			t.Fatalf("NewShape error: %v", err)
		}
		d.Add(s)
		ids = append(ids, s.ID)
	}

	shapes := d.Shapes()
	if len(shapes) != 3 {
		t.Fatalf("len = %d, want 3", len(shapes))
	}
	for i, s := range shapes {
		if s.ID != ids[i] {
			t.Fatalf("insertion order not preserved at index %d", i)
		}
	}

	if _, ok := d.Get(ids[1]); !ok {
		t.Fatalf("Get(%q) not found", ids[1])
	}
}

func TestDocument_Remove(t *testing.T) {
	d := NewDocument()
	s1, _ := NewShape(KindPoint, []LatLng{{Lat: 1, Lng: 1}}, "")
	s2, _ := NewShape(KindPoint, []LatLng{{Lat: 2, Lng: 2}}, "")
	d.Add(s1)
	d.Add(s2)

	if !d.Remove(s1.ID) {
		t.Fatalf("Remove returned false for existing shape")
	}
	if d.Remove(s1.ID) {
		t.Fatalf("Remove returned true for already removed shape")
	}
	if d.Len() != 1 {
		t.Fatalf("Len = %d, want 1", d.Len())
	}
	if _, ok := d.Get(s1.ID); ok {
		t.Fatalf("removed shape still resolvable")
	}
}

func TestDocument_Clear(t *testing.T) {
	d := NewDocument()
	s, _ := NewShape(KindPoint, []LatLng{{Lat: 1, Lng: 1}}, "")
	d.Add(s)
	d.Clear()
	if d.Len() != 0 {
		t.Fatalf("Len = %d after Clear, want 0", d.Len())
	}
	if _, ok := d.Get(s.ID); ok {
		t.Fatalf("shape resolvable after Clear")
	}
}

func TestLatLng_DistanceTo(t *testing.T) {
	// One degree of latitude is roughly 111 km.
	a := LatLng{Lat: 0, Lng: 0}
	b := LatLng{Lat: 1, Lng: 0}
	d := a.DistanceTo(b)
	if d < 110000 || d > 112000 {
		t.Fatalf("DistanceTo = %f, want ~111km", d)
	}
	if a.DistanceTo(a) != 0 {
		t.Fatalf("distance to self should be 0")
	}
}
