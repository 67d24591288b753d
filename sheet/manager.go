package sheet

import (
	"context"
	"crypto/rand"
	"image"
	"io"
	"time"

	"atlas-repacker/asset/afield"
	"atlas-repacker/config"
	"atlas-repacker/container"
	"atlas-repacker/discovery"
	"atlas-repacker/ds"
	"atlas-repacker/lfile"
	"atlas-repacker/logger"
	"atlas-repacker/schema"
	"atlas-repacker/sprite"
	"atlas-repacker/texture/tasset"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type (
	Options struct {
		Config  config.Config
		Locator *discovery.Locator
		Schema  *schema.Schema
		Sink    logger.Sink
		// Now and Random default to the wall clock and crypto/rand.
		Now    func() time.Time
		Random io.Reader
	}

	// Manager owns one atlas: its located assets, the containers they live
	// in, the sprite list and the atlas image. It is not safe for concurrent
	// use.
	Manager struct {
		options Options
		name    string
		lowRes  bool

		state   State
		entry   discovery.Entry
		layout  layout
		files   map[string]*container.File
		texture *tasset.Texture

		sprites      []sprite.Record
		atlas        *image.NRGBA
		savedSprites []sprite.Record
		savedAtlas   *image.NRGBA

		undo *ds.Stack[snapshot]
		redo *ds.Stack[snapshot]
	}
)

const filePerm = 0o644

func New(name string, lowRes bool, options Options) *Manager {
	if options.Sink == nil {
		options.Sink = logger.Discard
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Random == nil {
		options.Random = rand.Reader
	}
	return &Manager{
		options: options,
		name:    discovery.StripSuffixes(name),
		lowRes:  lowRes,
		undo:    ds.NewStack[snapshot](),
		redo:    ds.NewStack[snapshot](),
	}
}

func (r *Manager) Name() string {
	return r.name
}

func (r *Manager) State() State {
	return r.state
}

func (r *Manager) Layout() discovery.Layout {
	return r.entry.Layout
}

func (r *Manager) Entry() discovery.Entry {
	return r.entry
}

// Sprites returns a copy of the sprite list.
func (r *Manager) Sprites() []sprite.Record {
	return ds.ShallowCopy(r.sprites)
}

func (r *Manager) Atlas() *image.NRGBA {
	return r.atlas
}

func (r *Manager) isLoaded() bool {
	return r.state != StateUnloaded
}

// IsDirty reports unsaved changes to the sprite list or the atlas image.
func (r *Manager) IsDirty() bool {
	if !r.isLoaded() {
		return false
	}
	return r.atlas != r.savedAtlas || !sprite.ListsEqual(r.sprites, r.savedSprites)
}

func (r *Manager) fail(code ReturnCode, err error, message string) ReturnCode {
	if code == Cancelled {
		logger.Info(r.options.Sink, "%s: cancelled.", message)
		return code
	}
	logger.Error(r.options.Sink, err, "%s: %s", message, code)
	return code
}

func (r *Manager) openFile(asset discovery.Asset, files map[string]*container.File) (*container.File, error) {
	if file, ok := files[asset.File]; ok {
		return file, nil
	}
	file, err := container.ReadFile(r.options.Locator.Path(asset))
	if err != nil {
		return nil, err
	}
	files[asset.File] = file
	return file, nil
}

// decode reads the field tree of asset from files.
func (r *Manager) decode(asset discovery.Asset, files map[string]*container.File) (*container.File, *container.Object, *afield.Instance, error) {
	file, err := r.openFile(asset, files)
	if err != nil {
		return nil, nil, nil, err
	}
	object, ok := file.Find(asset.PathID)
	if !ok {
		return nil, nil, nil, container.ObjectError{PathID: asset.PathID, Cause: container.ErrObjectNotFound}
	}
	root, err := r.options.Schema.Root(object.TypeName)
	if err != nil {
		return nil, nil, nil, err
	}
	instance, err := file.Decode(object, root)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "sheet.Manager.decode error: %s in %s", asset.Name, asset.File)
	}
	return file, object, instance, nil
}

func (r *Manager) atlasAssets() []discovery.Asset {
	return r.entry.All(r.entry.Layout.AtlasType())
}

// Load locates the atlas, decodes its texture and reads the sprite list.
// A previous state is discarded.
func (r *Manager) Load(ctx context.Context) ReturnCode {
	const message = "Loading atlas"
	logger.Info(r.options.Sink, "Loading atlas %s..", r.name)
	r.Reset()

	entry, err := r.options.Locator.Locate(ctx, r.name, r.lowRes)
	if err != nil {
		return r.fail(codeOf(err), err, message)
	}
	textureAsset, ok := entry.First(discovery.TypeTexture2D).Get()
	atlasAsset, atlasOK := entry.First(entry.Layout.AtlasType()).Get()
	if !ok || !atlasOK || !entry.First(discovery.TypeMaterial).IsSome() {
		return r.fail(NoSpriteSheetFound, errors.New("an asset is missing"), message)
	}

	files := make(map[string]*container.File)
	_, _, textureInstance, err := r.decode(textureAsset, files)
	if err != nil {
		r.options.Locator.Forget(r.name, r.lowRes)
		return r.fail(UnknownError, err, message)
	}
	texture, err := tasset.Read(textureInstance)
	if err != nil {
		return r.fail(UnknownError, err, message)
	}
	atlas, err := texture.Image()
	if err != nil {
		return r.fail(UnknownError, err, message)
	}

	_, _, atlasInstance, err := r.decode(atlasAsset, files)
	if err != nil {
		r.options.Locator.Forget(r.name, r.lowRes)
		return r.fail(UnknownError, err, message)
	}
	l := layoutFor(entry.Layout, r.options.Config.TexturePath, r.options.Now, r.options.Random)
	sprites, err := l.readSprites(atlasInstance, float64(texture.Width), float64(texture.Height))
	if err != nil {
		return r.fail(UnknownError, err, message)
	}

	r.entry = entry
	r.layout = l
	r.files = files
	r.texture = texture
	r.sprites = sprites
	r.atlas = atlas
	r.markSaved()
	r.state = StateLoaded
	logger.Info(r.options.Sink, "Loaded %s atlas %s with %d sprites.", entry.Layout, r.name, len(sprites))
	return Success
}

func (r *Manager) markSaved() {
	r.savedSprites = ds.ShallowCopy(r.sprites)
	r.savedAtlas = r.atlas
}

// Save writes the sprite list and, when it changed, the atlas image back to
// the containers. Every container is encoded in memory before any file is
// replaced.
func (r *Manager) Save(ctx context.Context) ReturnCode {
	const message = "Saving atlas"
	if !r.isLoaded() {
		return r.fail(NoAtlasLoaded, errors.New("nothing is loaded"), message)
	}
	logger.Info(r.options.Sink, "Saving atlas %s..", r.name)

	files := lo.MapValues(r.files, func(file *container.File, _ string) *container.File {
		return file.Clone()
	})
	touched := make([]string, 0)
	touch := func(name string) {
		if !lo.Contains(touched, name) {
			touched = append(touched, name)
		}
	}

	bounds := r.atlas.Bounds()
	width, height := float64(bounds.Dx()), float64(bounds.Dy())

	texture := r.texture
	if r.atlas != r.savedAtlas {
		textureAsset, _ := r.entry.First(discovery.TypeTexture2D).Get()
		file, object, instance, err := r.decode(textureAsset, files)
		if err != nil {
			return r.fail(UnknownError, err, message)
		}
		updated := *r.texture
		if err := updated.SetImage(r.atlas); err != nil {
			return r.fail(UnknownError, err, message)
		}
		if err := updated.Write(instance); err != nil {
			return r.fail(UnknownError, err, message)
		}
		if err := file.Encode(object, instance); err != nil {
			return r.fail(UnknownError, err, message)
		}
		texture = &updated
		touch(textureAsset.File)
	}

	for _, asset := range r.atlasAssets() {
		file, object, instance, err := r.decode(asset, files)
		if err != nil {
			return r.fail(UnknownError, err, message)
		}
		if err := r.layout.writeSprites(instance, r.sprites, width, height); err != nil {
			return r.fail(UnknownError, err, message)
		}
		if err := file.Encode(object, instance); err != nil {
			return r.fail(UnknownError, err, message)
		}
		touch(asset.File)
	}

	commits := make([]lfile.Commit, 0, len(touched))
	for _, name := range touched {
		data, err := files[name].Bytes()
		if err != nil {
			return r.fail(UnknownError, err, message)
		}
		commits = append(commits, lfile.Commit{
			Path: r.options.Locator.FilePath(name),
			Data: data,
		})
	}
	if err := ctx.Err(); err != nil {
		return r.fail(Cancelled, err, message)
	}
	if err := lfile.WriteAllAtomic(commits, filePerm); err != nil {
		return r.fail(UnknownError, err, message)
	}

	r.files = files
	r.texture = texture
	r.markSaved()
	r.state = StateSaved
	logger.Info(r.options.Sink, "Saved atlas %s: %d files replaced.", r.name, len(commits))
	return Success
}

// Reset discards everything and returns to the unloaded state.
func (r *Manager) Reset() {
	r.state = StateUnloaded
	r.entry = discovery.Entry{}
	r.layout = nil
	r.files = nil
	r.texture = nil
	r.sprites = nil
	r.atlas = nil
	r.savedSprites = nil
	r.savedAtlas = nil
	r.undo.Clear()
	r.redo.Clear()
}
