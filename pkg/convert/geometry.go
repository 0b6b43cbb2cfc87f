package convert

import (
	"github.com/gardar/altoconv/pkg/alto"
	"github.com/gardar/altoconv/pkg/source"
)

// Aggregate returns the smallest box enclosing every input box.
// Callers must not pass an empty set; ErrEmptyGeometry is returned instead of
// a degenerate box.
func Aggregate(boxes ...source.Box) (source.Box, error) {
	if len(boxes) == 0 {
		return source.Box{}, ErrEmptyGeometry
	}

	result := boxes[0]
	for _, b := range boxes[1:] {
		result.Left = min(result.Left, b.Left)
		result.Top = min(result.Top, b.Top)
		result.Right = max(result.Right, b.Right)
		result.Bottom = max(result.Bottom, b.Bottom)
	}
	return result, nil
}

// toALTO converts source edges to ALTO position and size
func toALTO(b source.Box) alto.Box {
	return alto.NewBox(b.Left, b.Top, b.Right, b.Bottom)
}
