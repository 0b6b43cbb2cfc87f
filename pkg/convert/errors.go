package convert

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyGeometry is returned when a bounding box is requested for an
	// empty set of boxes.
	ErrEmptyGeometry = errors.New("empty geometry")

	// ErrMalformedCharacterStream is returned when a character stream cannot
	// be segmented into words with valid geometry.
	ErrMalformedCharacterStream = errors.New("malformed character stream")

	// ErrInvalidGeometry is returned when a source node carries edges with a
	// negative extent.
	ErrInvalidGeometry = errors.New("invalid geometry")
)

// UnitError locates a conversion failure inside an output unit.
// Page, Block and Line are 1-based source positions, 0 when not applicable.
type UnitError struct {
	Unit  string
	Stage Stage
	Page  int
	Block int
	Line  int
	Err   error
}

func (e *UnitError) Error() string {
	var loc []string
	if e.Page > 0 {
		loc = append(loc, fmt.Sprintf("page %d", e.Page))
	}
	if e.Block > 0 {
		loc = append(loc, fmt.Sprintf("block %d", e.Block))
	}
	if e.Line > 0 {
		loc = append(loc, fmt.Sprintf("line %d", e.Line))
	}
	where := ""
	if len(loc) > 0 {
		where = " (" + strings.Join(loc, ", ") + ")"
	}
	return fmt.Sprintf("unit %s: %s%s: %v", e.Unit, e.Stage, where, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}
