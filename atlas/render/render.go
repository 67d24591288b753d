// Package render draws packed sprites into an atlas image and cuts sprites
// back out of one.
package render

import (
	"image"
	"image/draw"

	"atlas-repacker/atlas/packer"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Composite draws images[i] at placements[i] onto a transparent canvas of
// exactly width x height. Sprites overwrite whatever is below them.
func Composite(placements []packer.PackedRect, images []image.Image, width uint32, height uint32) (*image.NRGBA, error) {
	if len(placements) != len(images) {
		return nil, errors.Errorf(
			"render.Composite error: %d placements for %d images",
			len(placements), len(images),
		)
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, int(width), int(height)))
	for i, placement := range placements {
		target := image.Rect(
			int(placement.X),
			int(placement.Y),
			int(placement.Right()),
			int(placement.Bottom()),
		)
		if !target.In(canvas.Rect) {
			return nil, errors.Errorf(
				"render.Composite error: placement %d at %v is outside the %dx%d canvas",
				placement.ID, target, width, height,
			)
		}
		src := images[i]
		draw.Draw(canvas, target, src, src.Bounds().Min, draw.Src)
	}
	return canvas, nil
}

// Crop copies a region of the atlas. The region is clipped to the atlas.
func Crop(atlas image.Image, rect image.Rectangle) *image.NRGBA {
	return imaging.Crop(atlas, rect)
}

func Load(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "render.Load error: path=%s", path)
	}
	return imaging.Clone(img), nil
}

// Save writes img in the format implied by the file extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return errors.Wrapf(err, "render.Save error: path=%s", path)
	}
	return nil
}
