// Package sprite holds the editable sprite list of an atlas and the
// coordinate transforms between pixel and UV space.
package sprite

import (
	"image"
	"math"

	"github.com/samber/lo"
)

type (
	// Origin is the sprite pivot in [0, 1] x [0, 1].
	Origin struct {
		X float32 `json:"x"`
		Y float32 `json:"y"`
	}
	// Record is a sprite rectangle in atlas pixels with a top-left origin.
	// Writers keep End = Start + size.
	Record struct {
		Name   string  `json:"name"`
		StartX float64 `json:"start_x"`
		StartY float64 `json:"start_y"`
		EndX   float64 `json:"end_x"`
		EndY   float64 `json:"end_y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
		Origin Origin  `json:"origin"`
	}
)

var DefaultOrigin = Origin{X: 0.5, Y: 0.5}

func New(name string, x float64, y float64, width float64, height float64) Record {
	return Record{
		Name:   name,
		StartX: x,
		StartY: y,
		EndX:   x + width,
		EndY:   y + height,
		Width:  width,
		Height: height,
		Origin: DefaultOrigin,
	}
}

func sameBits(a float64, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}

// Equal compares every field bit for bit.
func (r Record) Equal(other Record) bool {
	return r.Name == other.Name &&
		sameBits(r.StartX, other.StartX) &&
		sameBits(r.StartY, other.StartY) &&
		sameBits(r.EndX, other.EndX) &&
		sameBits(r.EndY, other.EndY) &&
		sameBits(r.Width, other.Width) &&
		sameBits(r.Height, other.Height) &&
		math.Float32bits(r.Origin.X) == math.Float32bits(other.Origin.X) &&
		math.Float32bits(r.Origin.Y) == math.Float32bits(other.Origin.Y)
}

// MoveTo places the sprite at (x, y) keeping its size.
func (r Record) MoveTo(x float64, y float64) Record {
	r.StartX, r.StartY = x, y
	r.EndX, r.EndY = x+r.Width, y+r.Height
	return r
}

// Resize keeps the start corner and updates the end corner.
func (r Record) Resize(width float64, height float64) Record {
	r.Width, r.Height = width, height
	r.EndX, r.EndY = r.StartX+width, r.StartY+height
	return r
}

// Bounds is the pixel rectangle covered by the sprite, rounded to whole
// pixels.
func (r Record) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Round(r.StartX)),
		int(math.Round(r.StartY)),
		int(math.Round(r.EndX)),
		int(math.Round(r.EndY)),
	)
}

func contains(records []Record, record Record) bool {
	return lo.SomeBy(records, func(other Record) bool {
		return other.Equal(record)
	})
}

// ListsEqual compares two sprite lists as sets: order and repetition are
// ignored.
func ListsEqual(a []Record, b []Record) bool {
	return lo.EveryBy(a, func(record Record) bool { return contains(b, record) }) &&
		lo.EveryBy(b, func(record Record) bool { return contains(a, record) })
}

// Find returns the index of the first sprite called name.
func Find(records []Record, name string) (int, bool) {
	_, i, ok := lo.FindIndexOf(records, func(record Record) bool {
		return record.Name == name
	})
	return i, ok
}
