// Package canvas implements the client-side drawing state machine: it turns
// pointer clicks into committed shapes, keeps an in-progress preview for
// multi-point tools, and resolves clicks to shapes for selection/deletion.
//
// Rendering is delegated to a MapHost so the state machine can be unit
// tested without a live map.
package canvas

import "github.com/mapsketch/mapsketch/internal/geo"

// MapHost is the rendering collaborator. The host owns screen-to-coordinate
// translation and delivers clicks to the canvas as geographic coordinates;
// the canvas tells the host what to draw.
type MapHost interface {
	// RenderShape draws a committed shape as a layer.
	RenderShape(s *geo.Shape)

	// RemoveShape removes the layer for the given shape ID.
	RemoveShape(id string)

	// RenderPreview draws the dashed in-progress geometry for a multi-point
	// tool. It replaces any previous preview.
	RenderPreview(kind geo.Kind, vertices []geo.LatLng)

	// ClearPreview removes the in-progress geometry, if any.
	ClearPreview()

	// Highlight marks the shape with the given ID as selected.
	Highlight(id string)

	// Unhighlight restores the shape's normal styling.
	Unhighlight(id string)
}

// NopHost is a MapHost that does nothing. Useful for tests and headless use.
type NopHost struct{}

func (NopHost) RenderShape(*geo.Shape)                 {}
func (NopHost) RemoveShape(string)                     {}
func (NopHost) RenderPreview(geo.Kind, []geo.LatLng)   {}
func (NopHost) ClearPreview()                          {}
func (NopHost) Highlight(string)                       {}
func (NopHost) Unhighlight(string)                     {}
