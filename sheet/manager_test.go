package sheet

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"atlas-repacker/asset/afield"
	"atlas-repacker/atlas/render"
	"atlas-repacker/config"
	"atlas-repacker/container"
	"atlas-repacker/discovery"
	"atlas-repacker/fixture"
	"atlas-repacker/logger"
	"atlas-repacker/schema"
	"atlas-repacker/sprite"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ManagerTestSuite struct {
	DataDir   string
	CachePath string
	Schema    *schema.Schema
	Locator   *discovery.Locator
	Sink      *logger.Recorder
	Image     *image.NRGBA
	Sprites   []sprite.Record
	R         *require.Assertions
	suite.Suite
}

// fixedReader returns the same byte forever.
type fixedReader byte

func (r fixedReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r)
	}
	return len(p), nil
}

func gradient(width int, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 30), B: 100, A: 255})
		}
	}
	return img
}

func (suite *ManagerTestSuite) SetupTest() {
	suite.R = suite.Require()
	s, err := schema.Load()
	suite.R.NoError(err)
	suite.Schema = s
	suite.DataDir = suite.T().TempDir()
	suite.CachePath = filepath.Join(suite.T().TempDir(), "discovery.cache")
	suite.Sink = logger.NewRecorder()
	scanner := discovery.NewScanner(suite.DataDir, s, suite.Sink)
	suite.Locator = discovery.NewLocator(scanner, nil, suite.CachePath)

	suite.Image = gradient(8, 8)
	body := sprite.New("body", 4, 0, 4, 8)
	body.Origin = sprite.Origin{X: 0.25, Y: 0.75}
	suite.Sprites = []sprite.Record{sprite.New("head", 0, 0, 4, 4), body}
}

func (suite *ManagerTestSuite) newManager(name string, lowRes bool) *Manager {
	cfg := config.Default()
	cfg.DataDir = suite.DataDir
	return New(name, lowRes, Options{
		Config:  cfg,
		Locator: suite.Locator,
		Schema:  suite.Schema,
		Sink:    suite.Sink,
		Now:     func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
		Random:  fixedReader(0xab),
	})
}

func (suite *ManagerTestSuite) writeNGUI() {
	suite.R.NoError(fixture.WriteNGUI(suite.DataDir, fixture.Atlas{
		Name:    "Hero",
		Image:   suite.Image,
		Sprites: suite.Sprites,
	}))
}

func (suite *ManagerTestSuite) writeSmoothMoves() {
	suite.R.NoError(fixture.WriteSmoothMoves(suite.DataDir, fixture.Atlas{
		Name:    "Hero",
		Image:   suite.Image,
		Sprites: suite.Sprites,
	}))
}

func (suite *ManagerTestSuite) load(name string) *Manager {
	manager := suite.newManager(name, false)
	suite.R.Equal(Success, manager.Load(context.Background()))
	return manager
}

func (suite *ManagerTestSuite) readAtlasObject() *afield.Instance {
	file, err := container.ReadFile(filepath.Join(suite.DataDir, fixture.AtlasFile))
	suite.R.NoError(err)
	object, ok := file.Find(fixture.AtlasPathID)
	suite.R.True(ok)
	root, err := suite.Schema.Root(object.TypeName)
	suite.R.NoError(err)
	instance, err := file.Decode(object, root)
	suite.R.NoError(err)
	return instance
}

func (suite *ManagerTestSuite) TestLoadNGUI() {
	suite.writeNGUI()
	manager := suite.load("Hero_HR")

	suite.R.Equal(StateLoaded, manager.State())
	suite.R.Equal(discovery.LayoutNGUI, manager.Layout())
	suite.R.False(manager.IsDirty())
	suite.R.Equal(suite.Image.Pix, manager.Atlas().Pix)

	sprites := manager.Sprites()
	suite.R.Len(sprites, 2)
	suite.R.True(sprites[0].Equal(suite.Sprites[0]))
	suite.R.Equal(sprite.DefaultOrigin, sprites[1].Origin)
	suite.R.Equal(4.0, sprites[1].StartX)
	suite.R.Equal(8.0, sprites[1].EndX)
}

func (suite *ManagerTestSuite) TestSaveUnchangedKeepsBytes() {
	suite.writeNGUI()
	path := filepath.Join(suite.DataDir, fixture.AtlasFile)
	before, err := os.ReadFile(path)
	suite.R.NoError(err)

	manager := suite.load("Hero")
	suite.R.Equal(Success, manager.Save(context.Background()))
	suite.R.Equal(StateSaved, manager.State())

	after, err := os.ReadFile(path)
	suite.R.NoError(err)
	suite.R.Equal(before, after)
}

func (suite *ManagerTestSuite) TestSaveWithoutSprites() {
	suite.writeNGUI()
	manager := suite.load("Hero")
	suite.R.Equal(Success, manager.SetSprites(nil))
	suite.R.True(manager.IsDirty())
	suite.R.Equal(Success, manager.Save(context.Background()))
	suite.R.False(manager.IsDirty())
	suite.R.Empty(manager.Sprites())

	reloaded := suite.load("Hero")
	suite.R.Empty(reloaded.Sprites())
}

func (suite *ManagerTestSuite) TestNGUIKeepsBorders() {
	suite.writeNGUI()
	manager := suite.load("Hero")
	sprites := manager.Sprites()
	sprites[0] = sprites[0].MoveTo(1.5, 2.5)
	suite.R.Equal(Success, manager.SetSprites(sprites))
	suite.R.Equal(Success, manager.Save(context.Background()))

	instance := suite.readAtlasObject()
	x, err := afield.Read[int32](instance, "mSprites.Array[0].x")
	suite.R.NoError(err)
	suite.R.Equal(int32(2), x)
	y, err := afield.Read[int32](instance, "mSprites.Array[0].y")
	suite.R.NoError(err)
	suite.R.Equal(int32(3), y)
	border, err := afield.Read[int32](instance, "mSprites.Array[0].borderLeft")
	suite.R.NoError(err)
	suite.R.Equal(int32(1), border)
}

func (suite *ManagerTestSuite) TestRepackAndSave() {
	suite.writeNGUI()
	manager := suite.load("Hero")
	suite.R.Equal(Success, manager.Repack(2))
	suite.R.Equal(StateMutated, manager.State())
	suite.R.True(manager.IsDirty())

	packed := manager.Sprites()
	atlas := manager.Atlas()
	for i, record := range packed {
		suite.R.Equal(suite.Sprites[i].Name, record.Name)
		suite.R.Equal(suite.Sprites[i].Width, record.Width)
		suite.R.True(record.Bounds().In(atlas.Bounds()))
		suite.R.Equal(
			render.Crop(suite.Image, suite.Sprites[i].Bounds()).Pix,
			render.Crop(atlas, record.Bounds()).Pix,
		)
	}

	suite.R.Equal(Success, manager.Save(context.Background()))
	reloaded := suite.load("Hero")
	suite.R.True(sprite.ListsEqual(
		withDefaultOrigins(packed),
		reloaded.Sprites(),
	))
	suite.R.Equal(atlas.Rect, reloaded.Atlas().Rect)
	suite.R.Equal(atlas.Pix, reloaded.Atlas().Pix)
}

func withDefaultOrigins(records []sprite.Record) []sprite.Record {
	return lo.Map(records, func(record sprite.Record, _ int) sprite.Record {
		record.Origin = sprite.DefaultOrigin
		return record
	})
}

func (suite *ManagerTestSuite) TestSmoothMovesRoundTrip() {
	suite.writeSmoothMoves()
	manager := suite.load("Hero")
	suite.R.Equal(discovery.LayoutSmoothMoves, manager.Layout())
	suite.R.True(sprite.ListsEqual(suite.Sprites, manager.Sprites()))

	suite.R.Equal(Success, manager.Save(context.Background()))
	instance := suite.readAtlasObject()

	guids, err := afield.ReadElements[string](instance, "textureGUIDs.Array")
	suite.R.NoError(err)
	suite.R.Len(guids, 2)
	for _, guid := range guids {
		suite.R.Regexp(regexp.MustCompile(`^[0-9a-f]{32}$`), guid)
	}
	paths, err := afield.ReadElements[string](instance, "texturePaths.Array")
	suite.R.NoError(err)
	suite.R.Equal([]string{
		"Assets/Heroic/CustomAssetInjector/head.png",
		"Assets/Heroic/CustomAssetInjector/body.png",
	}, paths)
	buildID, err := afield.Read[string](instance, "lastBuildID")
	suite.R.NoError(err)
	suite.R.Equal("20240102030405939", buildID)
	width, err := afield.Read[float32](instance, "textureSizes.Array[1].x")
	suite.R.NoError(err)
	suite.R.Equal(float32(4), width)

	reloaded := suite.load("Hero")
	suite.R.True(sprite.ListsEqual(suite.Sprites, reloaded.Sprites()))
}

func (suite *ManagerTestSuite) TestLoadLowRes() {
	suite.R.NoError(fixture.WriteSmoothMoves(suite.DataDir, fixture.Atlas{
		Name:    "Hero",
		Image:   suite.Image,
		Sprites: suite.Sprites,
		LowRes:  true,
	}))
	suite.R.Equal(NoSpriteSheetFound, suite.newManager("Hero", false).Load(context.Background()))
	manager := suite.newManager("Hero_LR", true)
	suite.R.Equal(Success, manager.Load(context.Background()))
	suite.R.Len(manager.Sprites(), 2)
}

func (suite *ManagerTestSuite) TestLoadFailures() {
	suite.R.Equal(NoObb, suite.newManager("Hero", false).Load(context.Background()))

	suite.writeNGUI()
	suite.R.Equal(NoSpriteSheetFound, suite.newManager("Villain", false).Load(context.Background()))
	suite.R.NotEmpty(suite.Sink.Messages(logger.Exception))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	manager := suite.newManager("Hero", false)
	suite.R.Equal(Cancelled, manager.Load(ctx))
	suite.R.Equal(StateUnloaded, manager.State())
	_, err := os.Stat(suite.CachePath)
	suite.R.True(errors.Is(err, os.ErrNotExist))
}

func (suite *ManagerTestSuite) TestNotLoaded() {
	manager := suite.newManager("Hero", false)
	suite.R.Equal(NoAtlasLoaded, manager.Save(context.Background()))
	suite.R.Equal(NoAtlasLoaded, manager.Export(filepath.Join(suite.T().TempDir(), "dump.json")))
	suite.R.Equal(NoAtlasLoaded, manager.Repack(2))
	suite.R.Equal(NoAtlasLoaded, manager.SetSprites(nil))
	suite.R.False(manager.IsDirty())
}

func (suite *ManagerTestSuite) TestUndoRedo() {
	suite.writeNGUI()
	manager := suite.load("Hero")
	suite.R.False(manager.Undo())

	suite.R.Equal(Success, manager.SetSprites(suite.Sprites[:1]))
	suite.R.Equal(Success, manager.Repack(0))
	suite.R.Len(manager.Sprites(), 1)

	suite.R.True(manager.Undo())
	suite.R.Len(manager.Sprites(), 1)
	suite.R.True(manager.Undo())
	suite.R.Len(manager.Sprites(), 2)
	suite.R.False(manager.IsDirty())
	suite.R.False(manager.CanUndo())

	suite.R.True(manager.Redo())
	suite.R.Len(manager.Sprites(), 1)
	suite.R.True(manager.CanRedo())

	suite.R.Equal(Success, manager.SetSprites(nil))
	suite.R.False(manager.CanRedo())

	manager.Reset()
	suite.R.Equal(StateUnloaded, manager.State())
	suite.R.False(manager.CanUndo())
}

func (suite *ManagerTestSuite) TestImportExport() {
	suite.writeNGUI()
	manager := suite.load("Hero")
	path := filepath.Join(suite.T().TempDir(), "dump.json")
	suite.R.Equal(Success, manager.Export(path))

	suite.R.Equal(Success, manager.SetSprites(nil))
	suite.R.Equal(Success, manager.Import(path))
	suite.R.True(sprite.ListsEqual(manager.Sprites(), suite.load("Hero").Sprites()))

	suite.R.Equal(ImportFailed, manager.Import(filepath.Join(suite.T().TempDir(), "missing.json")))
}

func (suite *ManagerTestSuite) TestImportWithoutOrigin() {
	suite.writeSmoothMoves()
	manager := suite.load("Hero")
	path := filepath.Join(suite.T().TempDir(), "partial.json")
	suite.R.NoError(os.WriteFile(path, []byte(`[
		{"name": "head", "start_x": 0, "start_y": 0, "end_x": 99, "end_y": 99, "width": 4, "height": 4}
	]`), 0o644))

	suite.R.Equal(Success, manager.Import(path))
	sprites := manager.Sprites()
	suite.R.Len(sprites, 1)
	suite.R.True(sprites[0].Equal(sprite.New("head", 0, 0, 4, 4)))

	suite.R.Equal(Success, manager.Save(context.Background()))
	instance := suite.readAtlasObject()
	pivotX, err := afield.Read[float32](instance, "defaultPivotOffsets.Array[0].x")
	suite.R.NoError(err)
	suite.R.Equal(float32(0), pivotX)
	pivotY, err := afield.Read[float32](instance, "defaultPivotOffsets.Array[0].y")
	suite.R.NoError(err)
	suite.R.Equal(float32(0), pivotY)
}

func (suite *ManagerTestSuite) TestImportExportSprites() {
	suite.writeNGUI()
	manager := suite.load("Hero")
	dir := filepath.Join(suite.T().TempDir(), "sprites")
	suite.R.Equal(Success, manager.ExportSprites(dir))

	head, err := render.Load(filepath.Join(dir, "head.png"))
	suite.R.NoError(err)
	suite.R.Equal(render.Crop(suite.Image, image.Rect(0, 0, 4, 4)).Pix, head.Pix)

	suite.R.NoError(render.Save(gradient(3, 5), filepath.Join(dir, "tail.png")))
	suite.R.Equal(Success, manager.ImportSprites([]string{dir}, 2))

	sprites := manager.Sprites()
	suite.R.Len(sprites, 3)
	i, ok := sprite.Find(sprites, "tail")
	suite.R.True(ok)
	suite.R.Equal(3.0, sprites[i].Width)
	suite.R.Equal(5.0, sprites[i].Height)

	suite.R.Equal(ImportFailed, manager.ImportSprites([]string{suite.T().TempDir()}, 2))
	suite.R.Equal(Success, manager.SetSprites(nil))
	suite.R.Equal(NoSpritesLoaded, manager.ExportSprites(dir))
}

func (suite *ManagerTestSuite) TestImportExportAtlas() {
	suite.writeNGUI()
	manager := suite.load("Hero")
	path := filepath.Join(suite.T().TempDir(), "atlas.png")
	suite.R.Equal(Success, manager.ExportAtlas(path))

	suite.R.Equal(Success, manager.ImportAtlas(path))
	suite.R.True(manager.IsDirty())
	suite.R.Equal(suite.Image.Pix, manager.Atlas().Pix)
	suite.R.Equal(ImportFailed, manager.ImportAtlas(filepath.Join(suite.T().TempDir(), "missing.png")))
}

func TestManagerTestSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, Success, codeOf(nil))
	require.Equal(t, Cancelled, codeOf(errors.Wrap(context.Canceled, "scan")))
	require.Equal(t, NoObb, codeOf(discovery.ErrNoData))
	require.Equal(t, NoSpriteSheetFound, codeOf(discovery.ScanError{Cause: discovery.ErrNotFound}))
	require.Equal(t, UnknownError, codeOf(errors.New("boom")))
	require.Equal(t, "NoAtlasLoaded", NoAtlasLoaded.String())
	require.Equal(t, "Saved", StateSaved.String())
}
