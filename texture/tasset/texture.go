// Package tasset is a typed view over a Texture2D field tree.
package tasset

import (
	"image"

	"atlas-repacker/asset/afield"
	"atlas-repacker/asset/avalue"
	"atlas-repacker/texture/tcodec"
	"atlas-repacker/texture/tformat"
	"github.com/pkg/errors"
)

type Texture struct {
	Name         string
	Width        uint32
	Height       uint32
	Format       tformat.Format
	MipCount     uint32
	HasMipMaps   bool
	IsReadable   bool
	ColorSpace   tformat.ColorSpace
	PlatformBlob []byte
	Payload      []byte
}

const (
	fieldName       = "m_Name"
	fieldWidth      = "m_Width"
	fieldHeight     = "m_Height"
	fieldImageSize  = "m_CompleteImageSize"
	fieldFormat     = "m_TextureFormat"
	fieldMipCount   = "m_MipCount"
	fieldIsReadable = "m_IsReadable"
	fieldColorSpace = "m_ColorSpace"
	fieldBlob       = "m_PlatformBlob"
	fieldImageData  = "image data"
)

// fieldReader keeps the first error and turns later reads into no-ops.
type fieldReader struct {
	instance *afield.Instance
	err      error
}

func readField[T avalue.Scalar](r *fieldReader, path string) T {
	var zero T
	if r.err != nil {
		return zero
	}
	t, err := afield.Read[T](r.instance, path)
	if err != nil {
		r.err = err
		return zero
	}
	return t
}

func readFields(instance *afield.Instance) (Texture, error) {
	fr := &fieldReader{instance: instance}
	texture := Texture{
		Name:         readField[string](fr, fieldName),
		IsReadable:   readField[bool](fr, fieldIsReadable),
		PlatformBlob: readField[[]byte](fr, fieldBlob),
		Payload:      readField[[]byte](fr, fieldImageData),
	}
	width := readField[int32](fr, fieldWidth)
	height := readField[int32](fr, fieldHeight)
	format := readField[int32](fr, fieldFormat)
	mipCount := readField[int32](fr, fieldMipCount)
	colorSpace := readField[int32](fr, fieldColorSpace)
	if fr.err != nil {
		return Texture{}, fr.err
	}
	if width < 0 || height < 0 {
		return Texture{}, errors.Errorf("negative texture size %dx%d", width, height)
	}
	if mipCount < 1 {
		mipCount = 1
	}

	texture.Width = uint32(width)
	texture.Height = uint32(height)
	texture.Format = tformat.Format(format)
	texture.MipCount = uint32(mipCount)
	texture.HasMipMaps = mipCount > 1
	texture.ColorSpace = tformat.ColorSpace(colorSpace)
	return texture, nil
}

// Read loads a texture from its field tree. The payload length must match
// the size implied by the dimensions, format and mip count.
func Read(instance *afield.Instance) (*Texture, error) {
	texture, err := readFields(instance)
	if err != nil {
		return nil, errors.Wrap(err, "tasset.Read error")
	}
	if err := texture.Validate(); err != nil {
		return nil, err
	}
	return &texture, nil
}

// Validate checks the payload length for formats with a known layout.
func (r *Texture) Validate() error {
	expected, ok := tformat.PayloadSize(int(r.Width), int(r.Height), r.Format, int(r.MipCount))
	if !ok {
		return nil
	}
	if len(r.Payload) != expected {
		return tcodec.PayloadSizeError{Format: r.Format, Expected: expected, Actual: len(r.Payload)}
	}
	return nil
}

func (r *Texture) platform() tcodec.Platform {
	return tcodec.Platform{Blob: r.PlatformBlob}
}

// Image decodes level 0.
func (r *Texture) Image() (*image.NRGBA, error) {
	return tcodec.Decode(r.Format, int(r.Width), int(r.Height), int(r.MipCount), r.platform(), r.Payload)
}

// SetImage re-encodes the texture from img in its current format. The mip
// count is kept for an unchanged size and recomputed otherwise.
func (r *Texture) SetImage(img image.Image) error {
	bounds := img.Bounds()
	sameSize := bounds.Dx() == int(r.Width) && bounds.Dy() == int(r.Height)
	mipCount := tformat.MipCountFor(bounds.Dx(), bounds.Dy(), int(r.Width), int(r.Height), int(r.MipCount))
	result, err := tcodec.Encode(img, r.Format, tcodec.Options{
		MipCount:     mipCount,
		KeepMipCount: sameSize,
		ColorSpace:   r.ColorSpace,
		Platform:     r.platform(),
	})
	if err != nil {
		return err
	}
	r.Width = uint32(result.Width)
	r.Height = uint32(result.Height)
	r.MipCount = uint32(result.MipCount)
	r.HasMipMaps = result.MipCount > 1
	r.Payload = result.Payload
	return nil
}

// Write stores the texture back into its field tree.
func (r *Texture) Write(instance *afield.Instance) error {
	writes := []func() error{
		func() error { return afield.Write(instance, fieldName, r.Name) },
		func() error { return afield.Write(instance, fieldWidth, int32(r.Width)) },
		func() error { return afield.Write(instance, fieldHeight, int32(r.Height)) },
		func() error { return afield.Write(instance, fieldImageSize, uint32(len(r.Payload))) },
		func() error { return afield.Write(instance, fieldFormat, int32(r.Format)) },
		func() error { return afield.Write(instance, fieldMipCount, int32(r.MipCount)) },
		func() error { return afield.Write(instance, fieldIsReadable, r.IsReadable) },
		func() error { return afield.Write(instance, fieldColorSpace, int32(r.ColorSpace)) },
		func() error { return afield.Write(instance, fieldBlob, r.PlatformBlob) },
		func() error { return afield.Write(instance, fieldImageData, r.Payload) },
	}
	for _, write := range writes {
		if err := write(); err != nil {
			return errors.Wrap(err, "tasset.Write error")
		}
	}
	return nil
}
