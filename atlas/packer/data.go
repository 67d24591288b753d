// Package packer places rectangles into a small bounding box without
// overlap. Results are deterministic for a given input order.
package packer

import (
	"fmt"
)

type (
	Rect struct {
		ID     int
		Width  uint32
		Height uint32
	}
	PackedRect struct {
		ID     int
		X      uint32
		Y      uint32
		Width  uint32
		Height uint32
	}
	Result struct {
		// Placements are sorted by ID.
		Placements []PackedRect
		Width      uint32
		Height     uint32
	}
	InvalidRectError struct {
		ID     int
		Width  uint32
		Height uint32
	}
)

func (r InvalidRectError) Error() string {
	return fmt.Sprintf("rect %d has zero area (%dx%d)", r.ID, r.Width, r.Height)
}

func (r PackedRect) Right() uint32 {
	return r.X + r.Width
}

func (r PackedRect) Bottom() uint32 {
	return r.Y + r.Height
}

func (r PackedRect) Overlaps(other PackedRect) bool {
	return r.X < other.Right() && other.X < r.Right() &&
		r.Y < other.Bottom() && other.Y < r.Bottom()
}
