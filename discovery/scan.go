package discovery

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"atlas-repacker/asset/afield"
	"atlas-repacker/container"
	"atlas-repacker/logger"
	"atlas-repacker/schema"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const maxNGUIAtlases = 2

// Scanner searches the top level of a data directory for atlas objects.
type Scanner struct {
	DataDir    string
	Schema     *schema.Schema
	Sink       logger.Sink
	OnProgress func(Progress)
}

// session caches the containers opened during one scan.
type session struct {
	scanner *Scanner
	files   map[string]*container.File
}

func NewScanner(dataDir string, s *schema.Schema, sink logger.Sink) *Scanner {
	if sink == nil {
		sink = logger.Discard
	}
	return &Scanner{DataDir: dataDir, Schema: s, Sink: sink}
}

func skipped(name string) bool {
	return strings.Contains(name, "level") ||
		strings.Contains(name, ".resource") ||
		strings.Contains(name, ".resS")
}

// candidates lists the container files worth opening, sorted by name.
func (r *Scanner) candidates() ([]string, error) {
	entries, err := os.ReadDir(r.DataDir)
	if err != nil {
		return nil, ErrNoData
	}
	files := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		return entry.Name(), entry.Type().IsRegular()
	})
	if len(files) == 0 {
		return nil, ErrNoData
	}
	return lo.Filter(files, func(name string, _ int) bool { return !skipped(name) }), nil
}

func (r *Scanner) report(progress Progress) {
	if r.OnProgress != nil {
		r.OnProgress(progress)
	}
}

// Scan looks for the atlas called name. Resolution suffixes are stripped from
// name first; lowRes selects the low resolution SmoothMoves atlas. ctx is
// checked before each file and each material, and a cancelled scan returns
// ctx.Err().
func (r *Scanner) Scan(ctx context.Context, name string, lowRes bool) (Entry, error) {
	name = StripSuffixes(name)
	files, err := r.candidates()
	if err != nil {
		return Entry{}, err
	}

	sess := &session{scanner: r, files: map[string]*container.File{}}
	nguiAssets := make([]Asset, 0)
	smoothMovesAssets := make([]Asset, 0)
	nguiFound := 0
	failed := 0

	logger.Info(r.Sink, "Searching %d files for atlas %s..", len(files), name)
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			logger.Info(r.Sink, "Search cancelled after %d files", i)
			return Entry{}, err
		}

		assets, count, smoothMoves, err := sess.check(file, name, lowRes)
		if err != nil {
			failed++
			logger.Debugf(r.Sink, "Skipping %s: %v", file, err)
		}
		nguiAssets = appendUnique(nguiAssets, assets...)
		nguiFound += count
		smoothMovesAssets = appendUnique(smoothMovesAssets, smoothMoves...)

		r.report(Progress{Searched: i + 1, Total: len(files), Failed: failed, File: file})
		if len(smoothMovesAssets) > 0 || nguiFound >= maxNGUIAtlases {
			break
		}
	}
	logger.Info(r.Sink, "Searching %d files for atlas %s.. Done!", len(files), name)

	entry := Entry{Name: name, LowRes: lowRes, Layout: LayoutSmoothMoves, Assets: smoothMovesAssets}
	if nguiFound > 0 {
		entry.Layout = LayoutNGUI
		entry.Assets = nguiAssets
	}
	if len(entry.Assets) == 0 {
		return Entry{}, ScanError{Name: name, Failed: failed, Total: len(files), Cause: ErrNotFound}
	}

	if err := sess.attachTexture(ctx, &entry); err != nil {
		logger.Info(r.Sink, "Search cancelled while matching materials")
		return Entry{}, err
	}
	if !entry.IsComplete() {
		return Entry{}, ScanError{Name: name, Failed: failed, Total: len(files), Cause: ErrNotFound}
	}
	return entry, nil
}

func appendUnique(assets []Asset, more ...Asset) []Asset {
	for _, asset := range more {
		if !lo.Contains(assets, asset) {
			assets = append(assets, asset)
		}
	}
	return assets
}

// check searches one container for both layouts.
func (r *session) check(file string, name string, lowRes bool) ([]Asset, int, []Asset, error) {
	f, err := r.open(file)
	if err != nil {
		return nil, 0, nil, err
	}
	ngui, count, err := r.checkNGUI(file, f, name)
	if err != nil {
		return nil, 0, nil, err
	}
	smoothMoves, err := r.checkSmoothMoves(file, f, name, lowRes)
	if err != nil {
		return ngui, count, nil, err
	}
	return ngui, count, smoothMoves, nil
}

func (r *session) open(file string) (*container.File, error) {
	if f, ok := r.files[file]; ok {
		return f, nil
	}
	f, err := container.ReadFile(filepath.Join(r.scanner.DataDir, file))
	if err != nil {
		return nil, err
	}
	r.files[file] = f
	return f, nil
}

func (r *session) decode(f *container.File, object *container.Object) (*afield.Instance, error) {
	root, err := r.scanner.Schema.Root(object.TypeName)
	if err != nil {
		return nil, err
	}
	return f.Decode(object, root)
}

// resolve follows a pointer found in the container named file.
func (r *session) resolve(file string, pptr container.PPtr) (string, *container.File, *container.Object, error) {
	f, err := r.open(file)
	if err != nil {
		return "", nil, nil, err
	}
	external, ok, err := f.ExternalPath(pptr)
	if err != nil {
		return "", nil, nil, err
	}
	if ok {
		file = filepath.Base(external)
		if f, err = r.open(file); err != nil {
			return "", nil, nil, err
		}
	}
	object, found := f.Find(pptr.PathID)
	if !found {
		return "", nil, nil, container.ObjectError{PathID: pptr.PathID, Cause: container.ErrObjectNotFound}
	}
	return file, f, object, nil
}

// materialOf resolves the material pointer of an atlas object.
func (r *session) materialOf(file string, atlas *afield.Instance) (Asset, error) {
	field, err := atlas.Get("material")
	if err != nil {
		return Asset{}, err
	}
	pptr, err := container.ReadPPtr(field)
	if err != nil {
		return Asset{}, err
	}
	materialFile, f, object, err := r.resolve(file, pptr)
	if err != nil {
		return Asset{}, errors.Wrap(err, "discovery.materialOf error")
	}
	material, err := r.decode(f, object)
	if err != nil {
		return Asset{}, err
	}
	name, err := afield.Read[string](material, "m_Name")
	if err != nil {
		return Asset{}, err
	}
	return Asset{Type: TypeMaterial, Name: name, File: materialFile, PathID: object.PathID}, nil
}

func (r *session) checkNGUI(file string, f *container.File, name string) ([]Asset, int, error) {
	assets := make([]Asset, 0)
	count := 0
	for _, object := range f.ObjectsOfType(schema.TypeUIAtlas) {
		atlas, err := r.decode(f, object)
		if err != nil {
			return nil, 0, err
		}
		atlasName, err := afield.Read[string](atlas, "m_Name")
		if err != nil {
			return nil, 0, err
		}
		if atlasName != name {
			continue
		}
		material, err := r.materialOf(file, atlas)
		if err != nil {
			return nil, 0, err
		}
		assets = appendUnique(assets,
			Asset{Type: TypeUIAtlas, Name: atlasName, File: file, PathID: object.PathID},
			material,
		)
		count++
	}
	return assets, count, nil
}

func (r *session) checkSmoothMoves(file string, f *container.File, name string, lowRes bool) ([]Asset, error) {
	target := lo.Ternary(lowRes, name+"_low", name)
	for _, object := range f.ObjectsOfType(schema.TypeTextureAtlas) {
		atlas, err := r.decode(f, object)
		if err != nil {
			return nil, err
		}
		atlasName, err := afield.Read[string](atlas, "m_Name")
		if err != nil {
			return nil, err
		}
		if atlasName != target {
			continue
		}
		material, err := r.materialOf(file, atlas)
		if err != nil {
			return nil, err
		}
		return []Asset{
			{Type: TypeTextureAtlas, Name: atlasName, File: file, PathID: object.PathID},
			material,
		}, nil
	}
	return nil, nil
}

// textureOf returns the main texture of a material. Materials with more than
// one texture slot belong to other effects and are rejected.
func (r *session) textureOf(material Asset) (Asset, error) {
	f, err := r.open(material.File)
	if err != nil {
		return Asset{}, err
	}
	object, ok := f.Find(material.PathID)
	if !ok {
		return Asset{}, container.ObjectError{PathID: material.PathID, Cause: container.ErrObjectNotFound}
	}
	instance, err := r.decode(f, object)
	if err != nil {
		return Asset{}, err
	}
	envs, err := instance.Get("m_SavedProperties.m_TexEnvs.Array")
	if err != nil {
		return Asset{}, err
	}
	if envs.Len() != 1 {
		return Asset{}, errors.Errorf("material %s has %d texture slots", material.Name, envs.Len())
	}
	field, err := instance.Get("m_SavedProperties.m_TexEnvs.Array[0].second.m_Texture")
	if err != nil {
		return Asset{}, err
	}
	pptr, err := container.ReadPPtr(field)
	if err != nil {
		return Asset{}, err
	}
	textureFile, tf, textureObject, err := r.resolve(material.File, pptr)
	if err != nil {
		return Asset{}, err
	}
	texture, err := r.decode(tf, textureObject)
	if err != nil {
		return Asset{}, err
	}
	name, err := afield.Read[string](texture, "m_Name")
	if err != nil {
		return Asset{}, err
	}
	return Asset{Type: TypeTexture2D, Name: name, File: textureFile, PathID: textureObject.PathID}, nil
}

func textureMatches(texture string, entry Entry) bool {
	if entry.Layout == LayoutSmoothMoves {
		suffix := lo.Ternary(entry.LowRes, "_LR", "_HR")
		return strings.Contains(texture, suffix) && strings.Contains(texture, entry.Name)
	}
	return !strings.Contains(texture, "_HR") && !strings.Contains(texture, "_LR") && texture == entry.Name
}

// attachTexture adds the texture of the first matching material and keeps
// only that material.
func (r *session) attachTexture(ctx context.Context, entry *Entry) error {
	for _, material := range entry.All(TypeMaterial) {
		if err := ctx.Err(); err != nil {
			return err
		}
		texture, err := r.textureOf(material)
		if err != nil {
			logger.Debugf(r.scanner.Sink, "Skipping material %s: %v", material.Name, err)
			continue
		}
		if !textureMatches(texture.Name, *entry) {
			continue
		}
		entry.Assets = lo.Filter(entry.Assets, func(asset Asset, _ int) bool {
			return asset.Type != TypeMaterial
		})
		entry.Assets = append(entry.Assets, texture, material)
		return nil
	}
	return nil
}
