// Package tformat describes texture formats: their block layout, the size of
// a payload holding a mip chain, and the mip count policy used on re-encode.
package tformat

import (
	"fmt"
	"math/bits"
)

type (
	// Format mirrors the engine's texture format enum values.
	Format     int32
	ColorSpace int32
	BlockInfo  struct {
		BlockWidth  int
		BlockHeight int
		BlockBytes  int
	}
	formatInfo struct {
		name  string
		block BlockInfo
	}
)

const (
	Alpha8     = Format(1)
	ARGB4444   = Format(2)
	RGB24      = Format(3)
	RGBA32     = Format(4)
	ARGB32     = Format(5)
	RGB565     = Format(7)
	R16        = Format(9)
	DXT1       = Format(10)
	DXT5       = Format(12)
	RGBA4444   = Format(13)
	BGRA32     = Format(14)
	BC7        = Format(25)
	ETC_RGB4   = Format(34)
	ETC2_RGBA8 = Format(47)
	ASTC_4x4   = Format(48)
	R8         = Format(63)
)

const (
	ColorSpaceLinear = ColorSpace(0)
	ColorSpaceSRGB   = ColorSpace(1)
)

var formatInfos = map[Format]formatInfo{
	Alpha8:     {name: "Alpha8", block: BlockInfo{1, 1, 1}},
	ARGB4444:   {name: "ARGB4444", block: BlockInfo{1, 1, 2}},
	RGB24:      {name: "RGB24", block: BlockInfo{1, 1, 3}},
	RGBA32:     {name: "RGBA32", block: BlockInfo{1, 1, 4}},
	ARGB32:     {name: "ARGB32", block: BlockInfo{1, 1, 4}},
	RGB565:     {name: "RGB565", block: BlockInfo{1, 1, 2}},
	R16:        {name: "R16", block: BlockInfo{1, 1, 2}},
	DXT1:       {name: "DXT1", block: BlockInfo{4, 4, 8}},
	DXT5:       {name: "DXT5", block: BlockInfo{4, 4, 16}},
	RGBA4444:   {name: "RGBA4444", block: BlockInfo{1, 1, 2}},
	BGRA32:     {name: "BGRA32", block: BlockInfo{1, 1, 4}},
	BC7:        {name: "BC7", block: BlockInfo{4, 4, 16}},
	ETC_RGB4:   {name: "ETC_RGB4", block: BlockInfo{4, 4, 8}},
	ETC2_RGBA8: {name: "ETC2_RGBA8", block: BlockInfo{4, 4, 16}},
	ASTC_4x4:   {name: "ASTC_RGBA_4x4", block: BlockInfo{4, 4, 16}},
	R8:         {name: "R8", block: BlockInfo{1, 1, 1}},
}

func (r Format) String() string {
	if info, ok := formatInfos[r]; ok {
		return info.name
	}
	return fmt.Sprintf("Format(%d)", int32(r))
}

func (r Format) IsKnown() bool {
	_, ok := formatInfos[r]
	return ok
}

// IsBlockCompressed reports whether pixels are stored in blocks larger than
// one pixel.
func (r Format) IsBlockCompressed() bool {
	info, ok := formatInfos[r]
	return ok && (info.block.BlockWidth > 1 || info.block.BlockHeight > 1)
}

func (r ColorSpace) String() string {
	switch r {
	case ColorSpaceLinear:
		return "Linear"
	case ColorSpaceSRGB:
		return "sRGB"
	default:
		return fmt.Sprintf("ColorSpace(%d)", int32(r))
	}
}

func Info(format Format) (BlockInfo, bool) {
	info, ok := formatInfos[format]
	return info.block, ok
}

// LevelDimensions returns the size of mip level i, never smaller than 1x1.
func LevelDimensions(width int, height int, level int) (int, int) {
	w, h := width>>level, height>>level
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// LevelSize is the byte size of one level of the given dimensions.
func LevelSize(width int, height int, format Format) (int, bool) {
	block, ok := Info(format)
	if !ok {
		return 0, false
	}
	blocksX := (width + block.BlockWidth - 1) / block.BlockWidth
	blocksY := (height + block.BlockHeight - 1) / block.BlockHeight
	return blocksX * blocksY * block.BlockBytes, true
}

// PayloadSize is the byte size of a whole mip chain starting at level 0.
func PayloadSize(width int, height int, format Format, mipCount int) (int, bool) {
	if mipCount < 1 {
		mipCount = 1
	}
	total := 0
	for level := 0; level < mipCount; level++ {
		w, h := LevelDimensions(width, height, level)
		size, ok := LevelSize(w, h, format)
		if !ok {
			return 0, false
		}
		total += size
	}
	return total, true
}

// FullMipCount is the number of levels of a chain halving down to 1x1.
func FullMipCount(width int, height int) int {
	largest := width
	if height > largest {
		largest = height
	}
	if largest < 1 {
		return 1
	}
	return bits.Len(uint(largest))
}

func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// MipCountFor picks the mip count of a texture re-encoded at newWidth x
// newHeight. The old count is kept when the size did not change. A resized
// texture gets a full chain when both sides are powers of two, and a single
// level otherwise.
func MipCountFor(newWidth int, newHeight int, oldWidth int, oldHeight int, oldMipCount int) int {
	if oldMipCount <= 1 {
		return 1
	}
	if newWidth == oldWidth && newHeight == oldHeight {
		return oldMipCount
	}
	if IsPowerOfTwo(newWidth) && IsPowerOfTwo(newHeight) {
		return FullMipCount(newWidth, newHeight)
	}
	return 1
}
