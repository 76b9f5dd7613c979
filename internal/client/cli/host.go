package cli

import (
	"fmt"

	"github.com/mapsketch/mapsketch/internal/geo"
)

// consoleHost renders canvas events as console lines. It stands in for a
// real map widget in the terminal client.
type consoleHost struct{}

func (consoleHost) RenderShape(s *geo.Shape) {
	printlnFn(fmt.Sprintf("[map] %s %q (%d vertices)", s.Kind, s.Label, len(s.Vertices)))
}

func (consoleHost) RemoveShape(id string) {
	printlnFn("[map] removed", id)
}

func (consoleHost) RenderPreview(kind geo.Kind, vertices []geo.LatLng) {
	printlnFn(fmt.Sprintf("[map] preview %s (%d vertices)", kind, len(vertices)))
}

func (consoleHost) ClearPreview() {}

func (consoleHost) Highlight(id string) {
	printlnFn("[map] selected", id)
}

func (consoleHost) Unhighlight(id string) {}
