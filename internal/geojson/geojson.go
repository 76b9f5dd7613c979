// Package geojson converts between the in-memory geometry model and the
// GeoJSON interchange format. Coordinates are (lng, lat) on the wire and
// (lat, lng) in memory; polygon rings are closed on export and unclosed
// in memory.
package geojson

import (
	"encoding/json"
	"fmt"

	"github.com/mapsketch/mapsketch/internal/common"
	"github.com/mapsketch/mapsketch/internal/geo"
)

const featureCollectionType = "FeatureCollection"

// FeatureCollection is the wire form of a document.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

// Geometry keeps Coordinates raw: their nesting depth depends on Type.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

type Properties struct {
	Name string `json:"name,omitempty"`
}

// DefaultLabel returns the display name used when a shape has no label.
func DefaultLabel(kind geo.Kind) string {
	switch kind {
	case geo.KindPoint:
		return "Marker"
	case geo.KindLineString:
		return "Line"
	default:
		return "Polygon"
	}
}

// position is a GeoJSON coordinate pair: [lng, lat].
type position [2]float64

func toPosition(v geo.LatLng) position {
	return position{v.Lng, v.Lat}
}

func fromPosition(p position) geo.LatLng {
	return geo.LatLng{Lat: p[1], Lng: p[0]}
}

// Export converts a document to a FeatureCollection, preserving shape order.
// Unlabeled shapes get a kind-specific default name.
func Export(d *geo.Document) (*FeatureCollection, error) {
	fc := &FeatureCollection{
		Type:     featureCollectionType,
		Features: make([]Feature, 0, d.Len()),
	}

	for _, s := range d.Shapes() {
		var coords any
		switch s.Kind {
		case geo.KindPoint:
			coords = toPosition(s.Vertices[0])
		case geo.KindLineString:
			line := make([]position, len(s.Vertices))
			for i, v := range s.Vertices {
				line[i] = toPosition(v)
			}
			coords = line
		case geo.KindPolygon:
			ring := make([]position, 0, len(s.Vertices)+1)
			for _, v := range s.Vertices {
				ring = append(ring, toPosition(v))
			}
			// The format requires a closed ring.
			ring = append(ring, toPosition(s.Vertices[0]))
			coords = [][]position{ring}
		default:
			return nil, fmt.Errorf("%w: unknown shape kind %v", common.ErrInternal, s.Kind)
		}

		raw, err := json.Marshal(coords)
		if err != nil {
			return nil, fmt.Errorf("marshal coordinates: %w", err)
		}

		name := s.Label
		if name == "" {
			name = DefaultLabel(s.Kind)
		}

		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: s.Kind.String(), Coordinates: raw},
			Properties: Properties{Name: name},
		})
	}

	return fc, nil
}

// Import converts a FeatureCollection back to a document. Features with an
// unrecognized geometry type are skipped so that foreign documents load;
// a recognized geometry that cannot be parsed into valid shape data fails
// with ErrMalformedDocument.
func Import(fc *FeatureCollection) (*geo.Document, error) {
	if fc == nil || fc.Type != featureCollectionType || fc.Features == nil {
		return nil, common.ErrMalformedDocument
	}

	d := geo.NewDocument()
	for _, f := range fc.Features {
		var (
			kind     geo.Kind
			vertices []geo.LatLng
		)

		switch f.Geometry.Type {
		case "Point":
			var p position
			if err := json.Unmarshal(f.Geometry.Coordinates, &p); err != nil {
				return nil, fmt.Errorf("%w: point coordinates: %v", common.ErrMalformedDocument, err)
			}
			kind = geo.KindPoint
			vertices = []geo.LatLng{fromPosition(p)}

		case "LineString":
			var line []position
			if err := json.Unmarshal(f.Geometry.Coordinates, &line); err != nil {
				return nil, fmt.Errorf("%w: linestring coordinates: %v", common.ErrMalformedDocument, err)
			}
			kind = geo.KindLineString
			for _, p := range line {
				vertices = append(vertices, fromPosition(p))
			}

		case "Polygon":
			var rings [][]position
			if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
				return nil, fmt.Errorf("%w: polygon coordinates: %v", common.ErrMalformedDocument, err)
			}
			if len(rings) == 0 {
				return nil, fmt.Errorf("%w: polygon without rings", common.ErrMalformedDocument)
			}
			ring := rings[0]
			// Drop the closing vertex; the model stores rings unclosed.
			if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
				ring = ring[:len(ring)-1]
			}
			kind = geo.KindPolygon
			for _, p := range ring {
				vertices = append(vertices, fromPosition(p))
			}

		default:
			continue
		}

		s, err := geo.NewShape(kind, vertices, f.Properties.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrMalformedDocument, err)
		}
		d.Add(s)
	}

	return d, nil
}

// Decode parses raw JSON into a FeatureCollection, checking the top-level
// shape of the document.
func Decode(data []byte) (*FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedDocument, err)
	}
	if fc.Type != featureCollectionType || fc.Features == nil {
		return nil, common.ErrMalformedDocument
	}
	return &fc, nil
}

// Validate reports whether data is a loadable FeatureCollection. It runs a
// full import so invalid geometry is caught at the boundary, not at load time.
func Validate(data []byte) error {
	fc, err := Decode(data)
	if err != nil {
		return err
	}
	_, err = Import(fc)
	return err
}
