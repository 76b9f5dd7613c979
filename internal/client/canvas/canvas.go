package canvas

import (
	"context"

	"github.com/mapsketch/mapsketch/internal/geo"
	"github.com/mapsketch/mapsketch/internal/logging"
)

// Tool selects how the next click is interpreted.
type Tool int

const (
	ToolNone Tool = iota
	ToolMarker
	ToolLine
	ToolPolygon
	ToolDelete
)

func (t Tool) String() string {
	switch t {
	case ToolMarker:
		return "marker"
	case ToolLine:
		return "line"
	case ToolPolygon:
		return "polygon"
	case ToolDelete:
		return "delete"
	default:
		return "none"
	}
}

// Canvas owns the drawing context (active tool, pending vertices, selection)
// and the geometry document it edits. It is single-owner state: all methods
// must be called from one event loop, never concurrently.
//
// Selection is held as a shape ID and resolved through the document on each
// use, so deleting a shape can never leave a dangling reference.
type Canvas struct {
	doc  *geo.Document
	host MapHost
	log  logging.Logger

	tool       Tool
	pending    []geo.LatLng
	selectedID string

	onChange func()
}

func New(host MapHost, log logging.Logger) *Canvas {
	return &Canvas{
		doc:  geo.NewDocument(),
		host: host,
		log:  log.With("module", "canvas"),
	}
}

// SetOnChange registers the edit notification callback, fired after every
// mutation of the document (commit, delete, move, clear). Loading a document
// does not fire it, so a load can never trigger an autosave of itself.
func (c *Canvas) SetOnChange(fn func()) {
	c.onChange = fn
}

func (c *Canvas) notifyChange() {
	if c.onChange != nil {
		c.onChange()
	}
}

// Document returns the live document being edited.
func (c *Canvas) Document() *geo.Document {
	return c.doc
}

func (c *Canvas) Tool() Tool {
	return c.tool
}

// Pending returns a copy of the in-progress vertices.
func (c *Canvas) Pending() []geo.LatLng {
	return append([]geo.LatLng(nil), c.pending...)
}

// SetTool switches the active tool. Any in-progress multi-point shape is
// finalized first (committed when it meets the minimum-vertex rule,
// silently discarded otherwise).
func (c *Canvas) SetTool(t Tool) {
	c.finalizePending()
	c.tool = t
}

// Click interprets a pointer click at p according to the active tool.
func (c *Canvas) Click(p geo.LatLng) {
	switch c.tool {
	case ToolMarker:
		s, err := geo.NewShape(geo.KindPoint, []geo.LatLng{p}, "")
		if err != nil {
			c.log.Warn(context.Background(), "ignoring invalid click", "error", err)
			return
		}
		c.commit(s)

	case ToolLine:
		c.appendPending(p, geo.KindLineString)

	case ToolPolygon:
		c.appendPending(p, geo.KindPolygon)

	case ToolDelete:
		if id, ok := c.SelectAt(p); ok {
			c.Delete(id)
		}
	}
}

func (c *Canvas) appendPending(p geo.LatLng, kind geo.Kind) {
	if !p.Valid() {
		c.log.Warn(context.Background(), "ignoring non-finite click")
		return
	}
	c.pending = append(c.pending, p)
	c.host.ClearPreview()
	c.host.RenderPreview(kind, c.Pending())
}

func (c *Canvas) commit(s *geo.Shape) {
	c.doc.Add(s)
	c.host.RenderShape(s)
	c.notifyChange()
}

// finalizePending commits the in-progress shape when it satisfies the active
// tool's minimum-vertex rule, or discards it otherwise. Too few vertices
// means "drawing cancelled", not an error.
func (c *Canvas) finalizePending() {
	defer func() {
		c.pending = nil
		c.host.ClearPreview()
	}()

	var kind geo.Kind
	switch c.tool {
	case ToolLine:
		kind = geo.KindLineString
	case ToolPolygon:
		kind = geo.KindPolygon
	default:
		return
	}

	if len(c.pending) < kind.MinVertices() {
		return
	}

	s, err := geo.NewShape(kind, c.pending, "")
	if err != nil {
		c.log.Warn(context.Background(), "discarding invalid pending shape", "error", err)
		return
	}
	c.commit(s)
}

// Finish finalizes any in-progress shape and fully resets the drawing
// context, including the active tool. Bound to the cancel key.
func (c *Canvas) Finish() {
	c.finalizePending()
	c.Reset(true)
}

// Reset clears pending vertices and the preview. With full set, the active
// tool is reset to none as well.
func (c *Canvas) Reset(full bool) {
	c.pending = nil
	c.host.ClearPreview()
	if full {
		c.tool = ToolNone
	}
}

// Select highlights the shape with the given ID, de-highlighting the
// previous selection. Unknown IDs clear the selection.
func (c *Canvas) Select(id string) {
	if c.selectedID != "" {
		c.host.Unhighlight(c.selectedID)
	}
	if _, ok := c.doc.Get(id); !ok {
		c.selectedID = ""
		return
	}
	c.selectedID = id
	c.host.Highlight(id)
}

// SelectAt resolves the click position to the nearest matching shape and
// selects it. Returns false when nothing is within tolerance.
func (c *Canvas) SelectAt(p geo.LatLng) (string, bool) {
	id, ok := hitTest(c.doc, p)
	if !ok {
		return "", false
	}
	c.Select(id)
	return id, true
}

// Selected returns the currently selected shape, resolved by identity.
func (c *Canvas) Selected() (*geo.Shape, bool) {
	if c.selectedID == "" {
		return nil, false
	}
	return c.doc.Get(c.selectedID)
}

// ClearSelection de-highlights and forgets the current selection.
func (c *Canvas) ClearSelection() {
	if c.selectedID != "" {
		c.host.Unhighlight(c.selectedID)
		c.selectedID = ""
	}
}

// Delete destroys the shape with the given ID. A selection referring to it
// is cleared.
func (c *Canvas) Delete(id string) bool {
	if !c.doc.Remove(id) {
		return false
	}
	if c.selectedID == id {
		c.selectedID = ""
	}
	c.host.RemoveShape(id)
	c.notifyChange()
	return true
}

// MoveShape replaces the vertices of an existing shape (drag/move).
func (c *Canvas) MoveShape(id string, vertices []geo.LatLng) error {
	s, ok := c.doc.Get(id)
	if !ok {
		return nil
	}
	if err := s.SetVertices(vertices); err != nil {
		return err
	}
	c.host.RemoveShape(id)
	c.host.RenderShape(s)
	c.notifyChange()
	return nil
}

// ClearAll wipes the whole document and resets the drawing context.
func (c *Canvas) ClearAll() {
	for _, s := range c.doc.Shapes() {
		c.host.RemoveShape(s.ID)
	}
	c.doc.Clear()
	c.selectedID = ""
	c.Reset(true)
	c.notifyChange()
}

// Load replaces the document with the given one and renders its shapes.
// It intentionally does not fire the change callback: a freshly loaded
// document is already persisted.
func (c *Canvas) Load(doc *geo.Document) {
	for _, s := range c.doc.Shapes() {
		c.host.RemoveShape(s.ID)
	}
	c.selectedID = ""
	c.Reset(true)

	c.doc = doc
	for _, s := range doc.Shapes() {
		c.host.RenderShape(s)
	}
}
