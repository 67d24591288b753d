package render

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"atlas-repacker/atlas/packer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(width int, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestComposite(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	halfBlue := color.NRGBA{B: 255, A: 128}
	placements := []packer.PackedRect{
		{ID: 0, X: 0, Y: 0, Width: 2, Height: 2},
		{ID: 1, X: 3, Y: 1, Width: 1, Height: 3},
	}
	canvas, err := Composite(placements, []image.Image{
		filled(2, 2, red),
		filled(1, 3, halfBlue),
	}, 5, 4)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 5, 4), canvas.Rect)
	assert.Equal(t, red, canvas.NRGBAAt(1, 1))
	assert.Equal(t, halfBlue, canvas.NRGBAAt(3, 3))
	assert.Equal(t, color.NRGBA{}, canvas.NRGBAAt(2, 0))
	assert.Equal(t, color.NRGBA{}, canvas.NRGBAAt(4, 3))

	_, err = Composite(placements, []image.Image{filled(1, 1, red)}, 5, 4)
	assert.Error(t, err)

	_, err = Composite(placements, []image.Image{filled(2, 2, red), filled(1, 3, red)}, 3, 3)
	assert.Error(t, err)
}

func TestCropSaveLoad(t *testing.T) {
	atlas := filled(4, 4, color.NRGBA{G: 255, A: 255})
	atlas.SetNRGBA(2, 1, color.NRGBA{R: 9, G: 8, B: 7, A: 255})

	sprite := Crop(atlas, image.Rect(2, 1, 4, 3))
	assert.Equal(t, image.Rect(0, 0, 2, 2), sprite.Rect)
	assert.Equal(t, color.NRGBA{R: 9, G: 8, B: 7, A: 255}, sprite.NRGBAAt(0, 0))

	path := filepath.Join(t.TempDir(), "sprite.png")
	require.NoError(t, Save(sprite, path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sprite.Pix, loaded.Pix)

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
