package geo

// Document is an ordered collection of shapes. Iteration order is insertion
// order; lookup by shape ID is O(1). Document is not safe for concurrent use;
// all mutation is expected to happen on a single event loop.
type Document struct {
	shapes []*Shape
	byID   map[string]*Shape
}

func NewDocument() *Document {
	return &Document{byID: make(map[string]*Shape)}
}

// Add appends the shape. A shape with a duplicate ID is ignored.
func (d *Document) Add(s *Shape) {
	if _, ok := d.byID[s.ID]; ok {
		return
	}
	d.shapes = append(d.shapes, s)
	d.byID[s.ID] = s
}

// Get returns the shape with the given ID.
func (d *Document) Get(id string) (*Shape, bool) {
	s, ok := d.byID[id]
	return s, ok
}

// Remove deletes the shape with the given ID, preserving the order of the
// remaining shapes. Returns false when no such shape exists.
func (d *Document) Remove(id string) bool {
	if _, ok := d.byID[id]; !ok {
		return false
	}
	delete(d.byID, id)
	for i, s := range d.shapes {
		if s.ID == id {
			d.shapes = append(d.shapes[:i], d.shapes[i+1:]...)
			break
		}
	}
	return true
}

// Shapes returns the shapes in insertion order. The slice is a copy; the
// shapes themselves are shared.
func (d *Document) Shapes() []*Shape {
	return append([]*Shape(nil), d.shapes...)
}

func (d *Document) Len() int {
	return len(d.shapes)
}

// Clear removes every shape.
func (d *Document) Clear() {
	d.shapes = nil
	d.byID = make(map[string]*Shape)
}
