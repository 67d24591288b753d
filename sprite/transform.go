package sprite

import (
	"github.com/samber/lo"
)

// UVRect is a sprite rectangle in normalized texture coordinates with a
// bottom-left origin.
type UVRect struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// MapRange maps value from [inMin, inMax] onto [outMin, outMax]. The value is
// clamped to the input range first.
func MapRange(value float64, inMin float64, inMax float64, outMin float64, outMax float64) float64 {
	lower, upper := inMin, inMax
	if lower > upper {
		lower, upper = upper, lower
	}
	value = lo.Clamp(value, lower, upper)
	return (value-inMin)/(inMax-inMin)*(outMax-outMin) + outMin
}

// PixelToUV converts a record into UV space of an atlas of width x height.
func PixelToUV(record Record, width float64, height float64) UVRect {
	return UVRect{
		X:      float32(record.StartX / width),
		Y:      float32(MapRange(record.EndY, 0, height, height, 0) / height),
		Width:  float32(record.Width / width),
		Height: float32(record.Height / height),
	}
}

// UVToPixel is the inverse of PixelToUV. The origin is left at its default.
func UVToPixel(name string, uv UVRect, width float64, height float64) Record {
	w := float64(uv.Width) * width
	h := float64(uv.Height) * height
	startX := float64(uv.X) * width
	endY := MapRange(float64(uv.Y)*height, 0, height, height, 0)
	return Record{
		Name:   name,
		StartX: startX,
		StartY: endY - h,
		EndX:   startX + w,
		EndY:   endY,
		Width:  w,
		Height: h,
		Origin: DefaultOrigin,
	}
}

// PivotToOrigin maps a pivot offset in [-0.5, 0.5] onto an origin in [0, 1].
func PivotToOrigin(x float32, y float32) Origin {
	return Origin{
		X: float32(MapRange(float64(x), -0.5, 0.5, 0, 1)),
		Y: float32(MapRange(float64(y), -0.5, 0.5, 0, 1)),
	}
}

func (r Origin) Pivot() (float32, float32) {
	return float32(MapRange(float64(r.X), 0, 1, -0.5, 0.5)),
		float32(MapRange(float64(r.Y), 0, 1, -0.5, 0.5))
}
