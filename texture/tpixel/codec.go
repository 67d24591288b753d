// Package tpixel converts single texture levels between their stored pixel
// layout and image.NRGBA. Rows are kept in stored order; orientation is the
// caller's concern.
package tpixel

import (
	"image"

	"atlas-repacker/texture/tformat"
)

type (
	// DecodeFunc expects data to hold exactly one level of width x height.
	DecodeFunc func(data []byte, width int, height int) *image.NRGBA
	EncodeFunc func(img *image.NRGBA) []byte
	Codec      struct {
		Decode DecodeFunc
		Encode EncodeFunc
		// Lossless codecs reproduce stored bytes exactly after a decode.
		Lossless bool
	}
)

var codecs = map[tformat.Format]Codec{
	tformat.Alpha8:   {Decode: decodeAlpha8, Encode: encodeAlpha8, Lossless: true},
	tformat.R8:       {Decode: decodeR8, Encode: encodeR8, Lossless: true},
	tformat.R16:      {Decode: decodeR16, Encode: encodeR16},
	tformat.ARGB4444: {Decode: decodeARGB4444, Encode: encodeARGB4444, Lossless: true},
	tformat.RGBA4444: {Decode: decodeRGBA4444, Encode: encodeRGBA4444, Lossless: true},
	tformat.RGB565:   {Decode: decodeRGB565, Encode: encodeRGB565, Lossless: true},
	tformat.RGB24:    {Decode: decodeRGB24, Encode: encodeRGB24, Lossless: true},
	tformat.RGBA32:   {Decode: decodeRGBA32, Encode: encodeRGBA32, Lossless: true},
	tformat.ARGB32:   {Decode: decodeARGB32, Encode: encodeARGB32, Lossless: true},
	tformat.BGRA32:   {Decode: decodeBGRA32, Encode: encodeBGRA32, Lossless: true},
	tformat.DXT1:     {Decode: decodeDXT1, Encode: encodeDXT1},
	tformat.DXT5:     {Decode: decodeDXT5, Encode: encodeDXT5},
}

func Lookup(format tformat.Format) (Codec, bool) {
	codec, ok := codecs[format]
	return codec, ok
}

func Supported() []tformat.Format {
	formats := make([]tformat.Format, 0, len(codecs))
	for format := range codecs {
		formats = append(formats, format)
	}
	return formats
}
