package canvas

import (
	"math"

	"github.com/mapsketch/mapsketch/internal/geo"
)

// Hit tolerances in meters, matching the interactive feel of the map UI:
// markers are easy to grab, lines need a closer click.
const (
	pointTolerance = 20.0
	lineTolerance  = 10.0
)

// hitTest scans the document for shapes matching the query point and returns
// the nearest match. Points match within pointTolerance; lines within
// lineTolerance of any segment; polygons when the point falls inside their
// bounding box. Containment is ranked by distance to the ring's centroid so
// that overlapping candidates resolve to the closest shape, not to whichever
// happened to be iterated last.
func hitTest(d *geo.Document, p geo.LatLng) (string, bool) {
	var (
		bestID    string
		bestScore = math.Inf(1)
	)

	for _, s := range d.Shapes() {
		score, ok := hitScore(s, p)
		if ok && score < bestScore {
			bestID = s.ID
			bestScore = score
		}
	}

	return bestID, bestID != ""
}

func hitScore(s *geo.Shape, p geo.LatLng) (float64, bool) {
	switch s.Kind {
	case geo.KindPoint:
		d := s.Vertices[0].DistanceTo(p)
		return d, d < pointTolerance

	case geo.KindLineString:
		best := math.Inf(1)
		for i := 0; i < len(s.Vertices)-1; i++ {
			if d := distanceToSegment(p, s.Vertices[i], s.Vertices[i+1]); d < best {
				best = d
			}
		}
		return best, best < lineTolerance

	case geo.KindPolygon:
		if !boundsContain(s.Vertices, p) {
			return 0, false
		}
		return centroid(s.Vertices).DistanceTo(p), true

	default:
		return 0, false
	}
}

// distanceToSegment returns the distance in meters from p to the segment ab,
// using a local equirectangular projection around the segment. Accurate
// enough at interactive click scales.
func distanceToSegment(p, a, b geo.LatLng) float64 {
	cosLat := math.Cos(a.Lat * math.Pi / 180)

	// Degrees to meters in the local tangent plane.
	const metersPerDegree = 111320.0
	ax, ay := 0.0, 0.0
	bx := (b.Lng - a.Lng) * cosLat * metersPerDegree
	by := (b.Lat - a.Lat) * metersPerDegree
	px := (p.Lng - a.Lng) * cosLat * metersPerDegree
	py := (p.Lat - a.Lat) * metersPerDegree

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = (px*dx + py*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}

	cx, cy := t*dx, t*dy
	return math.Hypot(px-cx, py-cy)
}

func boundsContain(ring []geo.LatLng, p geo.LatLng) bool {
	minLat, maxLat := math.Inf(1), math.Inf(-1)
	minLng, maxLng := math.Inf(1), math.Inf(-1)
	for _, v := range ring {
		minLat = math.Min(minLat, v.Lat)
		maxLat = math.Max(maxLat, v.Lat)
		minLng = math.Min(minLng, v.Lng)
		maxLng = math.Max(maxLng, v.Lng)
	}
	return p.Lat >= minLat && p.Lat <= maxLat && p.Lng >= minLng && p.Lng <= maxLng
}

func centroid(vertices []geo.LatLng) geo.LatLng {
	var lat, lng float64
	for _, v := range vertices {
		lat += v.Lat
		lng += v.Lng
	}
	n := float64(len(vertices))
	return geo.LatLng{Lat: lat / n, Lng: lng / n}
}
