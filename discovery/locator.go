package discovery

import (
	"context"
	"path/filepath"

	"atlas-repacker/logger"
)

// Locator answers from the cache and falls back to a scan. Found entries are
// added to the cache and, when CachePath is set, written to disk.
type Locator struct {
	Scanner   *Scanner
	Cache     *Cache
	CachePath string
}

func NewLocator(scanner *Scanner, cache *Cache, cachePath string) *Locator {
	if cache == nil {
		cache = NewCache()
	}
	return &Locator{Scanner: scanner, Cache: cache, CachePath: cachePath}
}

func (r *Locator) Locate(ctx context.Context, name string, lowRes bool) (Entry, error) {
	if entry, ok := r.Cache.Lookup(name, lowRes); ok {
		logger.Info(r.Scanner.Sink, "Atlas %s found in cache!", entry.Name)
		return entry, nil
	}

	entry, err := r.Scanner.Scan(ctx, name, lowRes)
	if err != nil {
		return Entry{}, err
	}
	logger.Info(r.Scanner.Sink, "Found %s atlas %s.", entry.Layout, entry.Name)

	if r.Cache.Put(entry) && r.CachePath != "" {
		if err := r.Cache.Save(r.CachePath); err != nil {
			logger.Error(r.Scanner.Sink, err, "Could not write the discovery cache")
		}
	}
	return entry, nil
}

// Forget drops a cached entry, for example after its files changed.
func (r *Locator) Forget(name string, lowRes bool) {
	if r.Cache.Remove(name, lowRes) && r.CachePath != "" {
		if err := r.Cache.Save(r.CachePath); err != nil {
			logger.Error(r.Scanner.Sink, err, "Could not write the discovery cache")
		}
	}
}

// Path returns the path of an asset's container.
func (r *Locator) Path(asset Asset) string {
	return r.FilePath(asset.File)
}

func (r *Locator) FilePath(file string) string {
	return filepath.Join(r.Scanner.DataDir, file)
}
