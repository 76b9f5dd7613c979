package cli

import (
	"fmt"

	"github.com/mapsketch/mapsketch/internal/client/canvas"
	"github.com/mapsketch/mapsketch/internal/common"
	"github.com/mapsketch/mapsketch/internal/geo"
)

var toolNames = map[string]canvas.Tool{
	"none":    canvas.ToolNone,
	"marker":  canvas.ToolMarker,
	"line":    canvas.ToolLine,
	"polygon": canvas.ToolPolygon,
	"delete":  canvas.ToolDelete,
}

// Tool switches the active drawing tool. Switching finalizes any in-progress
// multi-point shape.
func (a *App) Tool(name string) error {
	t, ok := toolNames[name]
	if !ok {
		printlnFn("Unknown tool:", name, "(available: none, marker, line, polygon, delete)")
		return fmt.Errorf("%w: unknown tool %q", common.ErrInvalidInput, name)
	}
	a.mu.Lock()
	a.canvas.SetTool(t)
	a.mu.Unlock()
	printlnFn("Tool:", t.String())
	return nil
}

// Click delivers a map click at the given coordinate to the canvas.
func (a *App) Click(lat, lng float64) error {
	p := geo.LatLng{Lat: lat, Lng: lng}
	if !p.Valid() {
		return fmt.Errorf("%w: coordinates out of range", common.ErrInvalidInput)
	}
	a.mu.Lock()
	a.canvas.Click(p)
	a.mu.Unlock()
	return nil
}

// Finish finalizes the in-progress shape and resets the drawing state, the
// terminal equivalent of pressing Escape.
func (a *App) Finish() error {
	a.mu.Lock()
	a.canvas.Finish()
	a.mu.Unlock()
	return nil
}

// Select resolves a click to the nearest shape within tolerance and marks
// it selected.
func (a *App) Select(lat, lng float64) error {
	a.mu.Lock()
	id, ok := a.canvas.SelectAt(geo.LatLng{Lat: lat, Lng: lng})
	if !ok {
		a.mu.Unlock()
		printlnFn("Nothing there")
		return nil
	}
	s, _ := a.canvas.Document().Get(id)
	kind, label := s.Kind, s.Label
	a.mu.Unlock()
	printlnFn(fmt.Sprintf("Selected %s %q", kind, label))
	return nil
}

// Move replaces the vertices of the shape with the given ID, the terminal
// equivalent of dragging it.
func (a *App) Move(id string, vertices []geo.LatLng) error {
	a.mu.Lock()
	err := a.canvas.MoveShape(id, vertices)
	a.mu.Unlock()
	if err != nil {
		printlnFn("Move failed:", err.Error())
		return err
	}
	printlnFn("Moved", id)
	return nil
}

// Shapes prints every shape in the current document, in insertion order.
func (a *App) Shapes() error {
	a.mu.Lock()
	shapes := a.canvas.Document().Shapes()
	a.mu.Unlock()
	if len(shapes) == 0 {
		printlnFn("No shapes")
		return nil
	}
	for _, s := range shapes {
		printlnFn(fmt.Sprintf("%s  %-9s %q (%d vertices)", s.ID, s.Kind, s.Label, len(s.Vertices)))
	}
	return nil
}

// Clear removes every shape from the canvas.
func (a *App) Clear() error {
	a.mu.Lock()
	a.canvas.ClearAll()
	a.mu.Unlock()
	printlnFn("Cleared")
	return nil
}
