// Package tcodec converts texture payloads to and from images. Payloads store
// rows bottom-up; images are top-down. Each direction flips exactly once.
package tcodec

import (
	"image"

	"atlas-repacker/texture/tformat"
	"atlas-repacker/texture/tpixel"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

type (
	// Platform carries the platform specific parameters stored next to a
	// payload. A non-empty blob marks a swizzled console layout.
	Platform struct {
		Blob []byte
	}
	Options struct {
		// MipCount is the requested number of levels; zero means one.
		MipCount int
		// KeepMipCount writes MipCount levels (up to the full chain) even for
		// non power of two sizes. It is set when a texture keeps its size.
		KeepMipCount bool
		ColorSpace tformat.ColorSpace
		Platform   Platform
	}
	Result struct {
		Payload  []byte
		MipCount int
		Width    int
		Height   int
	}
)

func (r Platform) IsSwizzled() bool {
	return len(r.Blob) > 0
}

func lookup(format tformat.Format, platform Platform) (tpixel.Codec, error) {
	if platform.IsSwizzled() {
		return tpixel.Codec{}, UnsupportedFormatError{Format: format, Reason: "platform specific layout"}
	}
	if !format.IsKnown() {
		return tpixel.Codec{}, UnsupportedFormatError{Format: format, Reason: "unknown format"}
	}
	codec, ok := tpixel.Lookup(format)
	if !ok {
		return tpixel.Codec{}, UnsupportedFormatError{Format: format, Reason: "no codec registered"}
	}
	return codec, nil
}

// Decode returns level 0 of a payload as a top-down image.
func Decode(
	format tformat.Format,
	width int,
	height int,
	mipCount int,
	platform Platform,
	payload []byte,
) (*image.NRGBA, error) {
	codec, err := lookup(format, platform)
	if err != nil {
		return nil, err
	}
	expected, _ := tformat.PayloadSize(width, height, format, mipCount)
	if len(payload) != expected {
		return nil, PayloadSizeError{Format: format, Expected: expected, Actual: len(payload)}
	}
	levelSize, _ := tformat.LevelSize(width, height, format)
	img := codec.Decode(payload[:levelSize], width, height)
	return imaging.FlipV(img), nil
}

// Encode stores img in format. Mip levels past the first are downsampled
// with a 2x2 box filter; sRGB textures are averaged in linear light. A mip
// chain is only built for power of two sizes unless options.KeepMipCount is
// set, otherwise a single level is written.
func Encode(img image.Image, format tformat.Format, options Options) (Result, error) {
	codec, err := lookup(format, options.Platform)
	if err != nil {
		return Result{}, err
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 1 || height < 1 {
		return Result{}, UnsupportedFormatError{Format: format, Reason: "empty image"}
	}

	mipCount := effectiveMipCount(width, height, options.MipCount, options.KeepMipCount)
	level := imaging.FlipV(img)
	payload := make([]byte, 0, mustPayloadSize(width, height, format, mipCount))
	for i := 0; i < mipCount; i++ {
		if i > 0 {
			w, h := tformat.LevelDimensions(width, height, i)
			level = downsample(level, w, h, options.ColorSpace)
		}
		payload = append(payload, codec.Encode(level)...)
	}

	return Result{
		Payload:  payload,
		MipCount: mipCount,
		Width:    width,
		Height:   height,
	}, nil
}

func effectiveMipCount(width int, height int, requested int, keep bool) int {
	if requested <= 1 {
		return 1
	}
	if !keep && (!tformat.IsPowerOfTwo(width) || !tformat.IsPowerOfTwo(height)) {
		return 1
	}
	full := tformat.FullMipCount(width, height)
	if requested > full {
		return full
	}
	return requested
}

func mustPayloadSize(width int, height int, format tformat.Format, mipCount int) int {
	size, _ := tformat.PayloadSize(width, height, format, mipCount)
	return size
}

func downsample(img *image.NRGBA, width int, height int, colorSpace tformat.ColorSpace) *image.NRGBA {
	if colorSpace == tformat.ColorSpaceSRGB {
		return downsampleLinear(img, width, height)
	}
	return imaging.Resize(img, width, height, imaging.Box)
}

// downsampleLinear averages each 2x2 source block after converting sRGB
// channels to linear light. Blocks at the edge of a side of length 1 reuse
// the last row or column. src must start at the origin.
func downsampleLinear(src *image.NRGBA, width int, height int) *image.NRGBA {
	srcWidth, srcHeight := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, g, b, a float64
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					sx := clampIndex(2*x+dx, srcWidth)
					sy := clampIndex(2*y+dy, srcHeight)
					c := src.NRGBAAt(sx, sy)
					lr, lg, lb := colorful.Color{
						R: float64(c.R) / 255,
						G: float64(c.G) / 255,
						B: float64(c.B) / 255,
					}.LinearRgb()
					r += lr
					g += lg
					b += lb
					a += float64(c.A)
				}
			}
			cr, cg, cb := colorful.LinearRgb(r/4, g/4, b/4).Clamped().RGB255()
			offset := dst.PixOffset(x, y)
			dst.Pix[offset+0] = cr
			dst.Pix[offset+1] = cg
			dst.Pix[offset+2] = cb
			dst.Pix[offset+3] = uint8(a/4 + 0.5)
		}
	}
	return dst
}

func clampIndex(i int, n int) int {
	if i >= n {
		return n - 1
	}
	return i
}
