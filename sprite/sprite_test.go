package sprite

import (
	"image"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEqual(t *testing.T) {
	a := New("head", 1, 2, 30, 40)
	b := New("head", 1, 2, 30, 40)
	assert.True(t, a.Equal(b))
	assert.Equal(t, 31.0, a.EndX)
	assert.Equal(t, 42.0, a.EndY)
	assert.Equal(t, DefaultOrigin, a.Origin)

	b.Origin.X = 0.25
	assert.False(t, a.Equal(b))

	zero := New("z", 0, 0, 1, 1)
	negativeZero := zero
	negativeZero.StartX = math.Copysign(0, -1)
	assert.False(t, zero.Equal(negativeZero))
}

func TestListsEqual(t *testing.T) {
	a := New("a", 0, 0, 1, 1)
	b := New("b", 1, 0, 1, 1)
	assert.True(t, ListsEqual([]Record{a, b}, []Record{b, a}))
	assert.True(t, ListsEqual(nil, []Record{}))
	assert.False(t, ListsEqual([]Record{a}, []Record{a, b}))
	assert.False(t, ListsEqual([]Record{a, b}, []Record{a, b.MoveTo(5, 5)}))

	i, ok := Find([]Record{a, b}, "b")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = Find([]Record{a}, "c")
	assert.False(t, ok)
}

func TestMoveResize(t *testing.T) {
	r := New("a", 0, 0, 10, 5).MoveTo(3, 4)
	assert.Equal(t, New("a", 3, 4, 10, 5), r)
	r = r.Resize(2, 2)
	assert.Equal(t, New("a", 3, 4, 2, 2), r)
	assert.Equal(t, image.Rect(3, 4, 5, 6), r.Bounds())
}

func TestMapRange(t *testing.T) {
	assert.Equal(t, 75.0, MapRange(25, 0, 100, 100, 0))
	assert.Equal(t, 100.0, MapRange(-5, 0, 100, 100, 0))
	assert.Equal(t, 0.5, MapRange(0, -0.5, 0.5, 0, 1))
	assert.Equal(t, 1.0, MapRange(2, -0.5, 0.5, 0, 1))
}

func TestUVInverse(t *testing.T) {
	const width, height = 512.0, 256.0
	records := []Record{
		New("a", 0, 0, 512, 256),
		New("b", 10, 20, 30, 40),
		New("c", 500, 250, 12, 6),
		New("d", 123.5, 77.25, 1, 1),
	}
	for _, record := range records {
		uv := PixelToUV(record, width, height)
		back := UVToPixel(record.Name, uv, width, height)
		assert.InDelta(t, record.StartX, back.StartX, 1e-3, record.Name)
		assert.InDelta(t, record.StartY, back.StartY, 1e-3, record.Name)
		assert.InDelta(t, record.EndX, back.EndX, 1e-3, record.Name)
		assert.InDelta(t, record.EndY, back.EndY, 1e-3, record.Name)
		assert.InDelta(t, record.Width, back.Width, 1e-3, record.Name)
		assert.InDelta(t, record.Height, back.Height, 1e-3, record.Name)
	}

	uv := PixelToUV(New("top", 0, 0, 10, 16), 64, 64)
	assert.Equal(t, UVRect{X: 0, Y: 0.75, Width: 10.0 / 64, Height: 0.25}, uv)
}

func TestPivot(t *testing.T) {
	origin := PivotToOrigin(-0.5, 0.25)
	assert.Equal(t, Origin{X: 0, Y: 0.75}, origin)
	x, y := origin.Pivot()
	assert.Equal(t, float32(-0.5), x)
	assert.Equal(t, float32(0.25), y)

	x, y = DefaultOrigin.Pivot()
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestImportExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprites.json")
	records := []Record{New("a", 1, 2, 3, 4), New("b", 5, 6, 7, 8)}
	require.NoError(t, Export(path, records))

	imported, err := Import(path)
	require.NoError(t, err)
	assert.True(t, ListsEqual(records, imported))
	assert.Equal(t, records, imported)

	data, err := Marshal(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	partial, err := Unmarshal([]byte(`[
		{"name": "a", "start_x": 1, "start_y": 2, "end_x": 50, "end_y": 50, "width": 10, "height": 20},
		{"name": "b", "start_x": 4, "start_y": 4, "end_x": 6, "end_y": 9, "origin": {"x": 0.25, "y": 1}}
	]`))
	require.NoError(t, err)
	require.Len(t, partial, 2)
	assert.Equal(t, DefaultOrigin, partial[0].Origin)
	assert.Equal(t, New("a", 1, 2, 10, 20), partial[0])
	assert.Equal(t, Origin{X: 0.25, Y: 1}, partial[1].Origin)
	assert.Equal(t, 2.0, partial[1].Width)
	assert.Equal(t, 5.0, partial[1].Height)

	_, err = Unmarshal([]byte("{"))
	assert.Error(t, err)
	_, err = Import(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
