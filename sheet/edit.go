package sheet

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"atlas-repacker/atlas/packer"
	"atlas-repacker/atlas/render"
	"atlas-repacker/ds"
	"atlas-repacker/logger"
	"atlas-repacker/sprite"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

func (r *Manager) current() snapshot {
	return snapshot{sprites: ds.ShallowCopy(r.sprites), atlas: r.atlas}
}

func (r *Manager) restore(s snapshot) {
	r.sprites = s.sprites
	r.atlas = s.atlas
	r.state = StateMutated
}

// mutate records the current state for Undo before a change.
func (r *Manager) mutate(sprites []sprite.Record, atlas *image.NRGBA) {
	r.undo.Push(r.current())
	r.redo.Clear()
	r.sprites = sprites
	r.atlas = atlas
	r.state = StateMutated
}

func (r *Manager) SetSprites(records []sprite.Record) ReturnCode {
	if !r.isLoaded() {
		return r.fail(NoAtlasLoaded, errors.New("nothing is loaded"), "Setting sprites")
	}
	r.mutate(ds.ShallowCopy(records), r.atlas)
	return Success
}

// Undo reverts the last change. It reports false when there is nothing to
// undo.
func (r *Manager) Undo() bool {
	previous, ok := r.undo.Pop()
	if !ok {
		return false
	}
	r.redo.Push(r.current())
	r.restore(previous)
	return true
}

func (r *Manager) Redo() bool {
	next, ok := r.redo.Pop()
	if !ok {
		return false
	}
	r.undo.Push(r.current())
	r.restore(next)
	return true
}

func (r *Manager) CanUndo() bool {
	return !r.undo.IsEmpty()
}

func (r *Manager) CanRedo() bool {
	return !r.redo.IsEmpty()
}

func pixelSize(v float64) uint32 {
	return uint32(math.Max(1, math.Ceil(v)))
}

// pack lays out records with their images and renders the new atlas.
func pack(records []sprite.Record, images []image.Image, spacing uint32) ([]sprite.Record, *image.NRGBA, error) {
	rects := lo.Map(records, func(record sprite.Record, i int) packer.Rect {
		return packer.Rect{ID: i, Width: pixelSize(record.Width), Height: pixelSize(record.Height)}
	})
	result, err := packer.Pack(rects, spacing)
	if err != nil {
		return nil, nil, err
	}
	atlas, err := render.Composite(result.Placements, images, result.Width, result.Height)
	if err != nil {
		return nil, nil, err
	}
	packed := lo.Map(result.Placements, func(placement packer.PackedRect, _ int) sprite.Record {
		record := records[placement.ID]
		return record.MoveTo(float64(placement.X), float64(placement.Y))
	})
	return packed, atlas, nil
}

func (r *Manager) crops() []image.Image {
	return lo.Map(r.sprites, func(record sprite.Record, _ int) image.Image {
		return render.Crop(r.atlas, record.Bounds())
	})
}

// Repack packs every sprite again, with spacing pixels between them, and
// renders a new atlas image.
func (r *Manager) Repack(spacing uint32) ReturnCode {
	const message = "Repacking sprites"
	if !r.isLoaded() {
		return r.fail(NoAtlasLoaded, errors.New("nothing is loaded"), message)
	}
	if len(r.sprites) == 0 {
		return r.fail(NoSpritesLoaded, errors.New("there are no sprites to pack"), message)
	}
	sprites, atlas, err := pack(r.sprites, r.crops(), spacing)
	if err != nil {
		return r.fail(UnknownError, err, message)
	}
	r.mutate(sprites, atlas)
	logger.Info(r.options.Sink, "Repacked %d sprites into %dx%d.", len(sprites), atlas.Bounds().Dx(), atlas.Bounds().Dy())
	return Success
}

// pngFiles lists the PNG files of dir, or returns path itself when it is a
// file.
func pngFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	files := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		return filepath.Join(path, entry.Name()),
			entry.Type().IsRegular() && strings.EqualFold(filepath.Ext(entry.Name()), ".png")
	})
	sort.Strings(files)
	return files, nil
}

// ImportSprites adds every PNG found at paths (files or directories) as a
// sprite named after the file, replacing sprites of the same name, and
// repacks the atlas.
func (r *Manager) ImportSprites(paths []string, spacing uint32) ReturnCode {
	const message = "Importing sprites"
	if !r.isLoaded() {
		return r.fail(NoAtlasLoaded, errors.New("nothing is loaded"), message)
	}

	records := ds.ShallowCopy(r.sprites)
	images := r.crops()
	imported := 0
	for _, path := range paths {
		files, err := pngFiles(path)
		if err != nil {
			return r.fail(ImportFailed, err, message)
		}
		for _, file := range files {
			img, err := render.Load(file)
			if err != nil {
				return r.fail(ImportFailed, err, message)
			}
			name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			bounds := img.Bounds()
			record := sprite.New(name, 0, 0, float64(bounds.Dx()), float64(bounds.Dy()))
			if i, ok := sprite.Find(records, name); ok {
				record.Origin = records[i].Origin
				records[i] = record
				images[i] = img
			} else {
				records = append(records, record)
				images = append(images, img)
			}
			imported++
		}
	}
	if imported == 0 {
		return r.fail(ImportFailed, errors.New("no PNG files found"), message)
	}

	sprites, atlas, err := pack(records, images, spacing)
	if err != nil {
		return r.fail(ImportFailed, err, message)
	}
	r.mutate(sprites, atlas)
	logger.Info(r.options.Sink, "Imported %d sprites.", imported)
	return Success
}

// ExportSprites writes every sprite as <name>.png into dir.
func (r *Manager) ExportSprites(dir string) ReturnCode {
	const message = "Exporting sprites"
	if !r.isLoaded() {
		return r.fail(NoAtlasLoaded, errors.New("nothing is loaded"), message)
	}
	if len(r.sprites) == 0 {
		return r.fail(NoSpritesLoaded, errors.New("there are no sprites to export"), message)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return r.fail(UnknownError, err, message)
	}
	for i, img := range r.crops() {
		path := filepath.Join(dir, r.sprites[i].Name+".png")
		if err := render.Save(img, path); err != nil {
			return r.fail(UnknownError, err, message)
		}
		logger.Debugf(r.options.Sink, "Exported sprite %d/%d to %s", i+1, len(r.sprites), path)
	}
	return Success
}

// ImportAtlas replaces the atlas image with the picture at path. Sprites
// keep their rectangles.
func (r *Manager) ImportAtlas(path string) ReturnCode {
	const message = "Importing atlas image"
	if !r.isLoaded() {
		return r.fail(NoAtlasLoaded, errors.New("nothing is loaded"), message)
	}
	img, err := render.Load(path)
	if err != nil {
		return r.fail(ImportFailed, err, message)
	}
	r.mutate(ds.ShallowCopy(r.sprites), img)
	return Success
}

func (r *Manager) ExportAtlas(path string) ReturnCode {
	const message = "Exporting atlas image"
	if !r.isLoaded() {
		return r.fail(NoAtlasLoaded, errors.New("nothing is loaded"), message)
	}
	if err := render.Save(r.atlas, path); err != nil {
		return r.fail(UnknownError, err, message)
	}
	return Success
}

// Import replaces the sprite list with the records stored at path.
func (r *Manager) Import(path string) ReturnCode {
	const message = "Importing sprite data"
	if !r.isLoaded() {
		return r.fail(NoAtlasLoaded, errors.New("nothing is loaded"), message)
	}
	records, err := sprite.Import(path)
	if err != nil {
		return r.fail(ImportFailed, err, message)
	}
	r.mutate(records, r.atlas)
	logger.Info(r.options.Sink, "Imported %d sprite records.", len(records))
	return Success
}

// Export writes the sprite list to path as JSON.
func (r *Manager) Export(path string) ReturnCode {
	const message = "Exporting sprite data"
	if !r.isLoaded() {
		return r.fail(NoAtlasLoaded, errors.New("nothing is loaded"), message)
	}
	if err := sprite.Export(path, r.sprites); err != nil {
		return r.fail(UnknownError, err, message)
	}
	return Success
}
