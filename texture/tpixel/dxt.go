package tpixel

import (
	"encoding/binary"
	"image"
)

type (
	rgba       [4]uint8
	colorBlock struct {
		pixels [16]rgba
		valid  [16]bool
	}
)

func unpack565(c uint16) (uint8, uint8, uint8) {
	r := uint8(c>>11) & 0x1F
	g := uint8(c>>5) & 0x3F
	b := uint8(c) & 0x1F
	return r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2
}

func pack565(r uint8, g uint8, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

func mix(a uint8, b uint8, weightA int, weightB int) uint8 {
	return uint8((int(a)*weightA + int(b)*weightB) / (weightA + weightB))
}

// colorPalette expands two 565 endpoints. Three-color mode puts the midpoint
// at index 2 and transparent black at index 3.
func colorPalette(c0 uint16, c1 uint16, fourColor bool) [4]rgba {
	r0, g0, b0 := unpack565(c0)
	r1, g1, b1 := unpack565(c1)
	palette := [4]rgba{
		{r0, g0, b0, 255},
		{r1, g1, b1, 255},
	}
	if fourColor {
		palette[2] = rgba{mix(r0, r1, 2, 1), mix(g0, g1, 2, 1), mix(b0, b1, 2, 1), 255}
		palette[3] = rgba{mix(r0, r1, 1, 2), mix(g0, g1, 1, 2), mix(b0, b1, 1, 2), 255}
	} else {
		palette[2] = rgba{mix(r0, r1, 1, 1), mix(g0, g1, 1, 1), mix(b0, b1, 1, 1), 255}
		palette[3] = rgba{0, 0, 0, 0}
	}
	return palette
}

func alphaPalette(a0 uint8, a1 uint8) [8]uint8 {
	palette := [8]uint8{a0, a1}
	if a0 > a1 {
		for i := 2; i < 8; i++ {
			palette[i] = uint8((int(a0)*(8-i) + int(a1)*(i-1)) / 7)
		}
	} else {
		for i := 2; i < 6; i++ {
			palette[i] = uint8((int(a0)*(6-i) + int(a1)*(i-1)) / 5)
		}
		palette[6] = 0
		palette[7] = 255
	}
	return palette
}

// forEachBlock walks the 4x4 blocks of a level in storage order.
func forEachBlock(width int, height int, blockBytes int, fn func(offset int, bx int, by int)) {
	blocksX := (width + 3) / 4
	blocksY := (height + 3) / 4
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			fn((by*blocksX+bx)*blockBytes, bx, by)
		}
	}
}

func blockPixel(img *image.NRGBA, bx int, by int, i int) (int, bool) {
	x := bx*4 + i%4
	y := by*4 + i/4
	if x >= img.Rect.Dx() || y >= img.Rect.Dy() {
		return 0, false
	}
	return img.PixOffset(img.Rect.Min.X+x, img.Rect.Min.Y+y), true
}

func readBlock(img *image.NRGBA, bx int, by int) colorBlock {
	block := colorBlock{}
	for i := 0; i < 16; i++ {
		offset, ok := blockPixel(img, bx, by, i)
		if !ok {
			continue
		}
		copy(block.pixels[i][:], img.Pix[offset:offset+4])
		block.valid[i] = true
	}
	return block
}

func decodeColorBlock(img *image.NRGBA, data []byte, bx int, by int, fourColorOnly bool, alphas *[16]uint8) {
	c0 := binary.LittleEndian.Uint16(data[0:2])
	c1 := binary.LittleEndian.Uint16(data[2:4])
	indices := binary.LittleEndian.Uint32(data[4:8])
	palette := colorPalette(c0, c1, fourColorOnly || c0 > c1)
	for i := 0; i < 16; i++ {
		offset, ok := blockPixel(img, bx, by, i)
		if !ok {
			continue
		}
		color := palette[(indices>>(2*i))&3]
		if alphas != nil {
			color[3] = alphas[i]
		}
		copy(img.Pix[offset:offset+4], color[:])
	}
}

func decodeDXT1(data []byte, width int, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	forEachBlock(width, height, 8, func(offset int, bx int, by int) {
		decodeColorBlock(img, data[offset:offset+8], bx, by, false, nil)
	})
	return img
}

func decodeDXT5(data []byte, width int, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	forEachBlock(width, height, 16, func(offset int, bx int, by int) {
		block := data[offset : offset+16]
		palette := alphaPalette(block[0], block[1])
		var bits uint64
		for i := 0; i < 6; i++ {
			bits |= uint64(block[2+i]) << (8 * i)
		}
		alphas := [16]uint8{}
		for i := range alphas {
			alphas[i] = palette[(bits>>(3*i))&7]
		}
		decodeColorBlock(img, block[8:16], bx, by, true, &alphas)
	})
	return img
}

func colorDistance(a rgba, b rgba) int {
	dr := int(a[0]) - int(b[0])
	dg := int(a[1]) - int(b[1])
	db := int(a[2]) - int(b[2])
	return dr*dr + dg*dg + db*db
}

func isTransparent(pixel rgba) bool {
	return pixel[3] < 128
}

// encodeColorBlock picks the per-channel minimum and maximum of the block as
// endpoints and maps every pixel to its nearest palette entry. With
// allowTransparent, pixels whose alpha is below one half use the three-color
// mode's transparent index.
func encodeColorBlock(block colorBlock, allowTransparent bool) []byte {
	low := rgba{255, 255, 255, 255}
	high := rgba{0, 0, 0, 255}
	transparent := false
	opaque := 0
	for i, pixel := range block.pixels {
		if !block.valid[i] {
			continue
		}
		if allowTransparent && isTransparent(pixel) {
			transparent = true
			continue
		}
		opaque++
		for c := 0; c < 3; c++ {
			if pixel[c] < low[c] {
				low[c] = pixel[c]
			}
			if pixel[c] > high[c] {
				high[c] = pixel[c]
			}
		}
	}
	if opaque == 0 {
		low, high = rgba{}, rgba{}
	}

	c0 := pack565(high[0], high[1], high[2])
	c1 := pack565(low[0], low[1], low[2])
	fourColor := !allowTransparent || (!transparent && c0 > c1)
	if transparent && c0 > c1 {
		c0, c1 = c1, c0
	}
	palette := colorPalette(c0, c1, fourColor)
	candidates := 4
	if !fourColor {
		candidates = 3
	}

	var indices uint32
	for i, pixel := range block.pixels {
		if !block.valid[i] {
			continue
		}
		index := 0
		if allowTransparent && transparent && isTransparent(pixel) {
			index = 3
		} else {
			best := colorDistance(pixel, palette[0])
			for j := 1; j < candidates; j++ {
				if d := colorDistance(pixel, palette[j]); d < best {
					best, index = d, j
				}
			}
		}
		indices |= uint32(index) << (2 * i)
	}

	data := make([]byte, 8)
	binary.LittleEndian.PutUint16(data[0:2], c0)
	binary.LittleEndian.PutUint16(data[2:4], c1)
	binary.LittleEndian.PutUint32(data[4:8], indices)
	return data
}

func encodeAlphaBlock(block colorBlock) []byte {
	a0, a1 := uint8(0), uint8(255)
	for i, pixel := range block.pixels {
		if !block.valid[i] {
			continue
		}
		if pixel[3] > a0 {
			a0 = pixel[3]
		}
		if pixel[3] < a1 {
			a1 = pixel[3]
		}
	}
	if a0 < a1 {
		a0, a1 = 0, 0
	}

	data := make([]byte, 8)
	data[0], data[1] = a0, a1
	if a0 == a1 {
		return data
	}
	palette := alphaPalette(a0, a1)
	var bits uint64
	for i, pixel := range block.pixels {
		if !block.valid[i] {
			continue
		}
		index, best := 0, 256
		for j, candidate := range palette {
			d := int(pixel[3]) - int(candidate)
			if d < 0 {
				d = -d
			}
			if d < best {
				best, index = d, j
			}
		}
		bits |= uint64(index) << (3 * i)
	}
	for i := 0; i < 6; i++ {
		data[2+i] = uint8(bits >> (8 * i))
	}
	return data
}

func encodeDXT1(img *image.NRGBA) []byte {
	width, height := img.Rect.Dx(), img.Rect.Dy()
	data := make([]byte, ((width+3)/4)*((height+3)/4)*8)
	forEachBlock(width, height, 8, func(offset int, bx int, by int) {
		copy(data[offset:], encodeColorBlock(readBlock(img, bx, by), true))
	})
	return data
}

func encodeDXT5(img *image.NRGBA) []byte {
	width, height := img.Rect.Dx(), img.Rect.Dy()
	data := make([]byte, ((width+3)/4)*((height+3)/4)*16)
	forEachBlock(width, height, 16, func(offset int, bx int, by int) {
		block := readBlock(img, bx, by)
		copy(data[offset:], encodeAlphaBlock(block))
		copy(data[offset+8:], encodeColorBlock(block, false))
	})
	return data
}
