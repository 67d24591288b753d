// Package fixture writes small data directories of asset containers for
// tests: one container holding the material and the atlas texture, and one
// holding the atlas object that points at the material through an external
// reference.
package fixture

import (
	"image"
	"math"
	"os"
	"path/filepath"

	"atlas-repacker/asset/acodec"
	"atlas-repacker/asset/afield"
	"atlas-repacker/asset/avalue"
	"atlas-repacker/container"
	"atlas-repacker/schema"
	"atlas-repacker/sprite"
	"atlas-repacker/texture/tasset"
	"atlas-repacker/texture/tformat"
	"github.com/pkg/errors"
)

const (
	TextureFile = "sharedassets0.assets"
	AtlasFile   = "sharedassets1.assets"

	MaterialPathID = int64(1)
	TexturePathID  = int64(2)
	AtlasPathID    = int64(1)
)

type Atlas struct {
	Name    string
	Image   *image.NRGBA
	Sprites []sprite.Record
	// LowRes names the SmoothMoves objects with their low resolution suffixes.
	LowRes bool
	Format tformat.Format
}

// fieldWriter keeps the first error and turns later writes into no-ops.
type fieldWriter struct {
	err error
}

func writeField[T avalue.Scalar](r *fieldWriter, instance *afield.Instance, path string, t T) {
	if r.err != nil {
		return
	}
	r.err = afield.Write(instance, path, t)
}

func (r *fieldWriter) appendTo(instance *afield.Instance, path string) *afield.Instance {
	if r.err != nil {
		return nil
	}
	array, err := instance.Get(path)
	if err != nil {
		r.err = err
		return nil
	}
	element, err := array.NewElement()
	if err != nil {
		r.err = err
		return nil
	}
	r.err = array.Add(element)
	return element
}

func (r *fieldWriter) pptr(instance *afield.Instance, path string, pptr container.PPtr) {
	writeField(r, instance, path+".m_FileID", pptr.FileID)
	writeField(r, instance, path+".m_PathID", pptr.PathID)
}

func newInstance(s *schema.Schema, typeName string) (*afield.Instance, error) {
	root, err := s.Root(typeName)
	if err != nil {
		return nil, err
	}
	return afield.DefaultValueFromTemplate(root), nil
}

func encodeObject(file *container.File, pathID int64, typeName string, instance *afield.Instance) error {
	data, err := acodec.Encode(instance, file.Rules)
	if err != nil {
		return err
	}
	file.Objects = append(file.Objects, container.NewObject(pathID, typeName, data, true))
	return nil
}

// textureName follows the suffix conventions the discovery scan matches on.
func textureName(name string, smoothMoves bool, lowRes bool) string {
	switch {
	case !smoothMoves:
		return name
	case lowRes:
		return name + "_LR"
	default:
		return name + "_HR"
	}
}

func writeTextureFile(dir string, s *schema.Schema, atlas Atlas, smoothMoves bool) error {
	file := container.New(acodec.DefaultRules())
	fw := &fieldWriter{}

	material, err := newInstance(s, schema.TypeMaterial)
	if err != nil {
		return err
	}
	writeField(fw, material, "m_Name", atlas.Name)
	env := fw.appendTo(material, "m_SavedProperties.m_TexEnvs.Array")
	if fw.err == nil {
		writeField(fw, env, "first", "_MainTex")
		fw.pptr(env, "second.m_Texture", container.PPtr{PathID: TexturePathID})
		writeField(fw, env, "second.m_Scale.x", float32(1))
		writeField(fw, env, "second.m_Scale.y", float32(1))
	}
	if fw.err != nil {
		return fw.err
	}
	if err := encodeObject(file, MaterialPathID, schema.TypeMaterial, material); err != nil {
		return err
	}

	instance, err := newInstance(s, schema.TypeTexture2D)
	if err != nil {
		return err
	}
	format := atlas.Format
	if format == 0 {
		format = tformat.RGBA32
	}
	bounds := atlas.Image.Bounds()
	texture := &tasset.Texture{
		Name:         textureName(atlas.Name, smoothMoves, atlas.LowRes),
		Width:        uint32(bounds.Dx()),
		Height:       uint32(bounds.Dy()),
		Format:       format,
		MipCount:     1,
		IsReadable:   true,
		ColorSpace:   tformat.ColorSpaceSRGB,
		PlatformBlob: []byte{},
	}
	if err := texture.SetImage(atlas.Image); err != nil {
		return err
	}
	if err := texture.Write(instance); err != nil {
		return err
	}
	if err := encodeObject(file, TexturePathID, schema.TypeTexture2D, instance); err != nil {
		return err
	}
	return WriteFile(filepath.Join(dir, TextureFile), file)
}

func atlasFile() *container.File {
	file := container.New(acodec.DefaultRules())
	file.Externals = []string{TextureFile}
	return file
}

// WriteNGUI writes an NGUI atlas named atlas.Name into dir.
func WriteNGUI(dir string, atlas Atlas) error {
	s, err := schema.Load()
	if err != nil {
		return err
	}
	if err := writeTextureFile(dir, s, atlas, false); err != nil {
		return errors.Wrap(err, "fixture.WriteNGUI error")
	}

	instance, err := newInstance(s, schema.TypeUIAtlas)
	if err != nil {
		return err
	}
	fw := &fieldWriter{}
	writeField(fw, instance, "m_Enabled", uint8(1))
	writeField(fw, instance, "m_Name", atlas.Name)
	fw.pptr(instance, "material", container.PPtr{FileID: 1, PathID: MaterialPathID})
	writeField(fw, instance, "mPixelSize", float32(1))
	for _, record := range atlas.Sprites {
		element := fw.appendTo(instance, "mSprites.Array")
		if fw.err != nil {
			break
		}
		writeField(fw, element, "name", record.Name)
		writeField(fw, element, "x", int32(math.Round(record.StartX)))
		writeField(fw, element, "y", int32(math.Round(record.StartY)))
		writeField(fw, element, "width", int32(math.Round(record.Width)))
		writeField(fw, element, "height", int32(math.Round(record.Height)))
		writeField(fw, element, "borderLeft", int32(1))
	}
	if fw.err != nil {
		return errors.Wrap(fw.err, "fixture.WriteNGUI error")
	}

	file := atlasFile()
	if err := encodeObject(file, AtlasPathID, schema.TypeUIAtlas, instance); err != nil {
		return err
	}
	return WriteFile(filepath.Join(dir, AtlasFile), file)
}

// WriteSmoothMoves writes a SmoothMoves atlas named atlas.Name into dir.
func WriteSmoothMoves(dir string, atlas Atlas) error {
	s, err := schema.Load()
	if err != nil {
		return err
	}
	if err := writeTextureFile(dir, s, atlas, true); err != nil {
		return errors.Wrap(err, "fixture.WriteSmoothMoves error")
	}

	instance, err := newInstance(s, schema.TypeTextureAtlas)
	if err != nil {
		return err
	}
	name := atlas.Name
	if atlas.LowRes {
		name += "_low"
	}
	width := float64(atlas.Image.Bounds().Dx())
	height := float64(atlas.Image.Bounds().Dy())

	fw := &fieldWriter{}
	writeField(fw, instance, "m_Enabled", uint8(1))
	writeField(fw, instance, "m_Name", name)
	writeField(fw, instance, "lastBuildID", "20200101000000512")
	fw.pptr(instance, "material", container.PPtr{FileID: 1, PathID: MaterialPathID})
	for _, record := range atlas.Sprites {
		uv := sprite.PixelToUV(record, width, height)
		pivotX, pivotY := record.Origin.Pivot()

		element := fw.appendTo(instance, "uvs.Array")
		if fw.err != nil {
			break
		}
		writeField(fw, element, "x", uv.X)
		writeField(fw, element, "y", uv.Y)
		writeField(fw, element, "width", uv.Width)
		writeField(fw, element, "height", uv.Height)

		writeField(fw, fw.appendTo(instance, "textureNames.Array"), "", record.Name)
		writeField(fw, fw.appendTo(instance, "textureGUIDs.Array"), "", "00000000000000000000000000000000")
		writeField(fw, fw.appendTo(instance, "texturePaths.Array"), "", "Assets/"+record.Name+".png")

		size := fw.appendTo(instance, "textureSizes.Array")
		writeField(fw, size, "x", float32(record.Width))
		writeField(fw, size, "y", float32(record.Height))

		pivot := fw.appendTo(instance, "defaultPivotOffsets.Array")
		writeField(fw, pivot, "x", pivotX)
		writeField(fw, pivot, "y", pivotY)
	}
	if fw.err != nil {
		return errors.Wrap(fw.err, "fixture.WriteSmoothMoves error")
	}

	file := atlasFile()
	if err := encodeObject(file, AtlasPathID, schema.TypeTextureAtlas, instance); err != nil {
		return err
	}
	return WriteFile(filepath.Join(dir, AtlasFile), file)
}

// WriteJunk writes a file that is not a container.
func WriteJunk(dir string, name string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte("not a container"), 0o644)
}

func WriteFile(path string, file *container.File) error {
	bs, err := file.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, bs, 0o644)
}
