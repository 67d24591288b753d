package tpixel

import (
	"encoding/binary"
	"image"
)

// mapPixels calls fn with the stored bytes of each pixel and the matching
// NRGBA quadruple.
func mapPixels(img *image.NRGBA, data []byte, bytesPerPixel int, fn func(stored []byte, pix []byte)) {
	width, height := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * bytesPerPixel
			offset := img.PixOffset(img.Rect.Min.X+x, img.Rect.Min.Y+y)
			fn(data[i:i+bytesPerPixel], img.Pix[offset:offset+4])
		}
	}
}

func decodeWith(data []byte, width int, height int, bytesPerPixel int, fn func(stored []byte, pix []byte)) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	mapPixels(img, data, bytesPerPixel, fn)
	return img
}

func encodeWith(img *image.NRGBA, bytesPerPixel int, fn func(stored []byte, pix []byte)) []byte {
	data := make([]byte, img.Rect.Dx()*img.Rect.Dy()*bytesPerPixel)
	mapPixels(img, data, bytesPerPixel, fn)
	return data
}

func expand4(v uint16) uint8 {
	return uint8(v&0xF) * 17
}

func quantize4(v uint8) uint16 {
	return (uint16(v)*15 + 127) / 255
}

func decodeAlpha8(data []byte, width int, height int) *image.NRGBA {
	return decodeWith(data, width, height, 1, func(stored []byte, pix []byte) {
		pix[0], pix[1], pix[2], pix[3] = 255, 255, 255, stored[0]
	})
}

func encodeAlpha8(img *image.NRGBA) []byte {
	return encodeWith(img, 1, func(stored []byte, pix []byte) {
		stored[0] = pix[3]
	})
}

func decodeR8(data []byte, width int, height int) *image.NRGBA {
	return decodeWith(data, width, height, 1, func(stored []byte, pix []byte) {
		pix[0], pix[1], pix[2], pix[3] = stored[0], stored[0], stored[0], 255
	})
}

func encodeR8(img *image.NRGBA) []byte {
	return encodeWith(img, 1, func(stored []byte, pix []byte) {
		stored[0] = pix[0]
	})
}

func decodeR16(data []byte, width int, height int) *image.NRGBA {
	return decodeWith(data, width, height, 2, func(stored []byte, pix []byte) {
		v := uint8(binary.LittleEndian.Uint16(stored) >> 8)
		pix[0], pix[1], pix[2], pix[3] = v, v, v, 255
	})
}

func encodeR16(img *image.NRGBA) []byte {
	return encodeWith(img, 2, func(stored []byte, pix []byte) {
		binary.LittleEndian.PutUint16(stored, uint16(pix[0])*257)
	})
}

func decodeARGB4444(data []byte, width int, height int) *image.NRGBA {
	return decodeWith(data, width, height, 2, func(stored []byte, pix []byte) {
		v := binary.LittleEndian.Uint16(stored)
		pix[0], pix[1], pix[2], pix[3] = expand4(v>>8), expand4(v>>4), expand4(v), expand4(v>>12)
	})
}

func encodeARGB4444(img *image.NRGBA) []byte {
	return encodeWith(img, 2, func(stored []byte, pix []byte) {
		v := quantize4(pix[3])<<12 | quantize4(pix[0])<<8 | quantize4(pix[1])<<4 | quantize4(pix[2])
		binary.LittleEndian.PutUint16(stored, v)
	})
}

func decodeRGBA4444(data []byte, width int, height int) *image.NRGBA {
	return decodeWith(data, width, height, 2, func(stored []byte, pix []byte) {
		v := binary.LittleEndian.Uint16(stored)
		pix[0], pix[1], pix[2], pix[3] = expand4(v>>12), expand4(v>>8), expand4(v>>4), expand4(v)
	})
}

func encodeRGBA4444(img *image.NRGBA) []byte {
	return encodeWith(img, 2, func(stored []byte, pix []byte) {
		v := quantize4(pix[0])<<12 | quantize4(pix[1])<<8 | quantize4(pix[2])<<4 | quantize4(pix[3])
		binary.LittleEndian.PutUint16(stored, v)
	})
}

func decodeRGB565(data []byte, width int, height int) *image.NRGBA {
	return decodeWith(data, width, height, 2, func(stored []byte, pix []byte) {
		r, g, b := unpack565(binary.LittleEndian.Uint16(stored))
		pix[0], pix[1], pix[2], pix[3] = r, g, b, 255
	})
}

func encodeRGB565(img *image.NRGBA) []byte {
	return encodeWith(img, 2, func(stored []byte, pix []byte) {
		binary.LittleEndian.PutUint16(stored, pack565(pix[0], pix[1], pix[2]))
	})
}

func decodeRGB24(data []byte, width int, height int) *image.NRGBA {
	return decodeWith(data, width, height, 3, func(stored []byte, pix []byte) {
		pix[0], pix[1], pix[2], pix[3] = stored[0], stored[1], stored[2], 255
	})
}

func encodeRGB24(img *image.NRGBA) []byte {
	return encodeWith(img, 3, func(stored []byte, pix []byte) {
		stored[0], stored[1], stored[2] = pix[0], pix[1], pix[2]
	})
}

func decodeRGBA32(data []byte, width int, height int) *image.NRGBA {
	return decodeWith(data, width, height, 4, func(stored []byte, pix []byte) {
		copy(pix, stored)
	})
}

func encodeRGBA32(img *image.NRGBA) []byte {
	return encodeWith(img, 4, func(stored []byte, pix []byte) {
		copy(stored, pix)
	})
}

func decodeARGB32(data []byte, width int, height int) *image.NRGBA {
	return decodeWith(data, width, height, 4, func(stored []byte, pix []byte) {
		pix[0], pix[1], pix[2], pix[3] = stored[1], stored[2], stored[3], stored[0]
	})
}

func encodeARGB32(img *image.NRGBA) []byte {
	return encodeWith(img, 4, func(stored []byte, pix []byte) {
		stored[0], stored[1], stored[2], stored[3] = pix[3], pix[0], pix[1], pix[2]
	})
}

func decodeBGRA32(data []byte, width int, height int) *image.NRGBA {
	return decodeWith(data, width, height, 4, func(stored []byte, pix []byte) {
		pix[0], pix[1], pix[2], pix[3] = stored[2], stored[1], stored[0], stored[3]
	})
}

func encodeBGRA32(img *image.NRGBA) []byte {
	return encodeWith(img, 4, func(stored []byte, pix []byte) {
		stored[0], stored[1], stored[2], stored[3] = pix[2], pix[1], pix[0], pix[3]
	})
}
