// Package config holds the runtime settings shared by every command. Values
// come from flags or ATLAS_* environment variables.
package config

import (
	"path/filepath"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"
)

type Config struct {
	DataDir     string `arg:"--data-dir,env:ATLAS_DATA_DIR" help:"directory of extracted asset containers" placeholder:"DIR"`
	WorkDir     string `arg:"--work-dir,env:ATLAS_WORK_DIR" default:"." help:"directory for the atlas preview and exports" placeholder:"DIR"`
	CachePath   string `arg:"--cache,env:ATLAS_CACHE" help:"discovery cache file (default: <work-dir>/discovery.cache)" placeholder:"FILE"`
	LogPath     string `arg:"--log,env:ATLAS_LOG" default:"atlas-exceptions.txt" help:"file receiving exception details" placeholder:"FILE"`
	Spacing     uint32 `arg:"--spacing,env:ATLAS_SPACING" default:"2" help:"gutter in pixels between repacked sprites"`
	AssetPrefix string `arg:"--asset-prefix,env:ATLAS_ASSET_PREFIX" default:"Assets/Heroic/CustomAssetInjector" help:"path prefix written into texturePaths" placeholder:"PATH"`
	Verbose     bool   `arg:"-v,--verbose" help:"print debug events"`
}

const (
	defaultCacheName = "discovery.cache"
	atlasImageName   = "atlas.png"
)

// Default is the configuration used when nothing is given.
func Default() Config {
	return Config{
		WorkDir:     ".",
		LogPath:     "atlas-exceptions.txt",
		Spacing:     2,
		AssetPrefix: "Assets/Heroic/CustomAssetInjector",
	}
}

// Parse reads a Config from args and the environment.
func Parse(args []string) (Config, error) {
	cfg := Config{}
	parser, err := arg.NewParser(arg.Config{Program: "atlas-repacker"}, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(err, "config.Parse error")
	}
	if err := parser.Parse(args); err != nil {
		return Config{}, errors.Wrap(err, "config.Parse error")
	}
	return cfg, nil
}

func (r Config) Validate() error {
	if r.DataDir == "" {
		return errors.New("data directory is not set; use --data-dir or ATLAS_DATA_DIR")
	}
	return nil
}

func (r Config) CacheFile() string {
	if r.CachePath != "" {
		return r.CachePath
	}
	return filepath.Join(r.WorkDir, defaultCacheName)
}

func (r Config) AtlasImagePath() string {
	return filepath.Join(r.WorkDir, atlasImageName)
}

// TexturePath is the editor path recorded for a sprite texture.
func (r Config) TexturePath(spriteName string) string {
	return r.AssetPrefix + "/" + spriteName + ".png"
}
