package sheet

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"
	"strconv"
	"time"

	"atlas-repacker/asset/afield"
	"atlas-repacker/asset/avalue"
	"atlas-repacker/discovery"
	"atlas-repacker/sprite"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// layout converts between an atlas object's field tree and sprite records.
// width and height are the atlas image size in pixels.
type layout interface {
	readSprites(atlas *afield.Instance, width float64, height float64) ([]sprite.Record, error)
	writeSprites(atlas *afield.Instance, records []sprite.Record, width float64, height float64) error
}

type (
	// nguiLayout stores integer pixel rectangles in mSprites.
	nguiLayout struct{}
	// smoothMovesLayout stores UV rectangles with a bottom-left origin and
	// keeps several parallel arrays in step.
	smoothMovesLayout struct {
		texturePath func(name string) string
		now         func() time.Time
		random      io.Reader
	}
)

const (
	nguiSprites = "mSprites.Array"

	smUVs         = "uvs.Array"
	smNames       = "textureNames.Array"
	smGUIDs       = "textureGUIDs.Array"
	smPaths       = "texturePaths.Array"
	smSizes       = "textureSizes.Array"
	smPivots      = "defaultPivotOffsets.Array"
	smLastBuildID = "lastBuildID"

	buildIDLayout = "20060102150405"
)

// nguiCarried are copied from the previous element with the same sprite name.
var nguiCarried = []string{
	"borderLeft", "borderRight", "borderTop", "borderBottom",
	"paddingLeft", "paddingRight", "paddingTop", "paddingBottom",
}

// fieldReader keeps the first error and turns later reads into no-ops.
type fieldReader struct {
	err error
}

func readField[T avalue.Scalar](r *fieldReader, instance *afield.Instance, path string) T {
	var zero T
	if r.err != nil {
		return zero
	}
	t, err := afield.Read[T](instance, path)
	if err != nil {
		r.err = err
		return zero
	}
	return t
}

func writeField[T avalue.Scalar](r *fieldReader, instance *afield.Instance, path string, t T) {
	if r.err != nil {
		return
	}
	r.err = afield.Write(instance, path, t)
}

func layoutFor(l discovery.Layout, texturePath func(string) string, now func() time.Time, random io.Reader) layout {
	if l == discovery.LayoutSmoothMoves {
		return smoothMovesLayout{texturePath: texturePath, now: now, random: random}
	}
	return nguiLayout{}
}

func (r nguiLayout) readSprites(atlas *afield.Instance, _ float64, _ float64) ([]sprite.Record, error) {
	array, err := atlas.Get(nguiSprites)
	if err != nil {
		return nil, err
	}
	fr := &fieldReader{}
	records := lo.Map(array.Children(), func(element *afield.Instance, _ int) sprite.Record {
		return sprite.New(
			readField[string](fr, element, "name"),
			float64(readField[int32](fr, element, "x")),
			float64(readField[int32](fr, element, "y")),
			float64(readField[int32](fr, element, "width")),
			float64(readField[int32](fr, element, "height")),
		)
	})
	if fr.err != nil {
		return nil, errors.Wrap(fr.err, "nguiLayout.readSprites error")
	}
	return records, nil
}

func round32(v float64) int32 {
	return int32(math.Round(v))
}

func (r nguiLayout) writeSprites(atlas *afield.Instance, records []sprite.Record, _ float64, _ float64) error {
	array, err := atlas.Get(nguiSprites)
	if err != nil {
		return err
	}
	previous := array.Children()
	elements := make([]*afield.Instance, 0, len(records))
	fw := &fieldReader{}
	for _, record := range records {
		element := afield.DefaultValueFromTemplate(array.Template().Element())
		old, ok := lo.Find(previous, func(el *afield.Instance) bool {
			name, err := afield.Read[string](el, "name")
			return err == nil && name == record.Name
		})
		if ok {
			for _, field := range nguiCarried {
				writeField(fw, element, field, readField[int32](fw, old, field))
			}
		}
		writeField(fw, element, "name", record.Name)
		writeField(fw, element, "x", round32(record.StartX))
		writeField(fw, element, "y", round32(record.StartY))
		writeField(fw, element, "width", round32(record.Width))
		writeField(fw, element, "height", round32(record.Height))
		elements = append(elements, element)
	}
	if fw.err != nil {
		return errors.Wrap(fw.err, "nguiLayout.writeSprites error")
	}

	if err := array.Clear(); err != nil {
		return err
	}
	for _, element := range elements {
		if err := array.Add(element); err != nil {
			return err
		}
	}
	return nil
}

func (r smoothMovesLayout) readSprites(atlas *afield.Instance, width float64, height float64) ([]sprite.Record, error) {
	uvs, err := atlas.Get(smUVs)
	if err != nil {
		return nil, err
	}
	pivots, err := atlas.Get(smPivots)
	if err != nil {
		return nil, err
	}
	names, err := afield.ReadElements[string](atlas, smNames)
	if err != nil {
		return nil, err
	}
	if len(names) != uvs.Len() || pivots.Len() != uvs.Len() {
		return nil, errors.Errorf(
			"smoothMovesLayout.readSprites error: %d uvs, %d names and %d pivots",
			uvs.Len(), len(names), pivots.Len(),
		)
	}

	fr := &fieldReader{}
	records := make([]sprite.Record, 0, uvs.Len())
	for i, element := range uvs.Children() {
		uv := sprite.UVRect{
			X:      readField[float32](fr, element, "x"),
			Y:      readField[float32](fr, element, "y"),
			Width:  readField[float32](fr, element, "width"),
			Height: readField[float32](fr, element, "height"),
		}
		record := sprite.UVToPixel(names[i], uv, width, height)
		pivot := pivots.At(i)
		record.Origin = sprite.PivotToOrigin(
			readField[float32](fr, pivot, "x"),
			readField[float32](fr, pivot, "y"),
		)
		records = append(records, record)
	}
	if fr.err != nil {
		return nil, errors.Wrap(fr.err, "smoothMovesLayout.readSprites error")
	}
	return records, nil
}

func (r smoothMovesLayout) newGUID() (string, error) {
	bs := make([]byte, 16)
	if _, err := io.ReadFull(r.random, bs); err != nil {
		return "", errors.Wrap(err, "smoothMovesLayout.newGUID error")
	}
	return hex.EncodeToString(bs), nil
}

// newBuildID is the current time followed by a number in [0, 1024).
func (r smoothMovesLayout) newBuildID() (string, error) {
	bs := make([]byte, 2)
	if _, err := io.ReadFull(r.random, bs); err != nil {
		return "", errors.Wrap(err, "smoothMovesLayout.newBuildID error")
	}
	n := binary.LittleEndian.Uint16(bs) % 1024
	return r.now().Format(buildIDLayout) + strconv.Itoa(int(n)), nil
}

// arrays resolves every parallel array.
func (r smoothMovesLayout) arrays(atlas *afield.Instance) (map[string]*afield.Instance, error) {
	arrays := make(map[string]*afield.Instance)
	for _, path := range []string{smUVs, smNames, smGUIDs, smPaths, smSizes, smPivots} {
		array, err := atlas.Get(path)
		if err != nil {
			return nil, err
		}
		arrays[path] = array
	}
	return arrays, nil
}

func (r smoothMovesLayout) writeSprites(atlas *afield.Instance, records []sprite.Record, width float64, height float64) error {
	arrays, err := r.arrays(atlas)
	if err != nil {
		return err
	}
	buildID, err := r.newBuildID()
	if err != nil {
		return err
	}

	// Elements are built first so a failure leaves the tree untouched.
	elements := make(map[string][]*afield.Instance)
	fw := &fieldReader{}
	add := func(path string) *afield.Instance {
		element := afield.DefaultValueFromTemplate(arrays[path].Template().Element())
		elements[path] = append(elements[path], element)
		return element
	}
	for _, record := range records {
		guid, err := r.newGUID()
		if err != nil {
			return err
		}
		uv := sprite.PixelToUV(record, width, height)
		pivotX, pivotY := record.Origin.Pivot()

		uvElement := add(smUVs)
		writeField(fw, uvElement, "x", uv.X)
		writeField(fw, uvElement, "y", uv.Y)
		writeField(fw, uvElement, "width", uv.Width)
		writeField(fw, uvElement, "height", uv.Height)

		writeField(fw, add(smGUIDs), "", guid)

		size := add(smSizes)
		writeField(fw, size, "x", float32(record.Width))
		writeField(fw, size, "y", float32(record.Height))

		pivot := add(smPivots)
		writeField(fw, pivot, "x", pivotX)
		writeField(fw, pivot, "y", pivotY)

		writeField(fw, add(smNames), "", record.Name)
		writeField(fw, add(smPaths), "", r.texturePath(record.Name))
	}
	if fw.err != nil {
		return errors.Wrap(fw.err, "smoothMovesLayout.writeSprites error")
	}
	if err := afield.Write(atlas, smLastBuildID, buildID); err != nil {
		return err
	}

	for path, array := range arrays {
		if err := array.Replace(elements[path]); err != nil {
			return err
		}
	}
	return nil
}
