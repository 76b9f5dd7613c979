// Package geo holds the in-memory geometry model: shapes drawn on the map
// and the document that collects them. It has no rendering or transport
// dependencies.
package geo

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/mapsketch/mapsketch/internal/common"
)

// Kind identifies the geometry variant of a Shape. The set is closed;
// code dispatches on Kind with a switch rather than through interfaces.
type Kind int

const (
	KindPoint Kind = iota
	KindLineString
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindLineString:
		return "LineString"
	case KindPolygon:
		return "Polygon"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MinVertices returns the minimum number of vertices a committed shape of
// this kind must have. A polygon ring is stored unclosed, so three vertices
// suffice.
func (k Kind) MinVertices() int {
	switch k {
	case KindPoint:
		return 1
	case KindLineString:
		return 2
	case KindPolygon:
		return 3
	default:
		return 0
	}
}

const earthRadiusMeters = 6371000.0

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// Valid reports whether both components are finite numbers.
func (p LatLng) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lng) && !math.IsInf(p.Lng, 0)
}

// DistanceTo returns the great-circle distance to q in meters.
func (p LatLng) DistanceTo(q LatLng) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := q.Lat * math.Pi / 180
	dLat := (q.Lat - p.Lat) * math.Pi / 180
	dLng := (q.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Shape is one drawn object: a point, a line, or a polygon ring, with an
// optional display label. Vertices are stored in (lat, lng) order; a polygon
// ring is stored unclosed.
type Shape struct {
	ID       string
	Kind     Kind
	Vertices []LatLng
	Label    string
}

// NewShape validates the vertices for the given kind and returns a shape
// with a fresh identifier. Vertices are copied.
func NewShape(kind Kind, vertices []LatLng, label string) (*Shape, error) {
	if len(vertices) < kind.MinVertices() {
		return nil, fmt.Errorf("%w: %s needs at least %d vertices, got %d",
			common.ErrInvalidInput, kind, kind.MinVertices(), len(vertices))
	}
	for _, v := range vertices {
		if !v.Valid() {
			return nil, fmt.Errorf("%w: non-finite coordinate", common.ErrInvalidInput)
		}
	}
	return &Shape{
		ID:       uuid.NewString(),
		Kind:     kind,
		Vertices: append([]LatLng(nil), vertices...),
		Label:    label,
	}, nil
}

// SetVertices replaces the shape's vertices, keeping the kind's minimum-vertex
// rule. Used by move/drag operations.
func (s *Shape) SetVertices(vertices []LatLng) error {
	if len(vertices) < s.Kind.MinVertices() {
		return fmt.Errorf("%w: %s needs at least %d vertices, got %d",
			common.ErrInvalidInput, s.Kind, s.Kind.MinVertices(), len(vertices))
	}
	for _, v := range vertices {
		if !v.Valid() {
			return fmt.Errorf("%w: non-finite coordinate", common.ErrInvalidInput)
		}
	}
	s.Vertices = append([]LatLng(nil), vertices...)
	return nil
}
