package discovery

import (
	"bytes"
	"encoding/json"
	"os"

	"atlas-repacker/lfile"
	"github.com/bkaradzic/go-lz4"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/crypto/blake2b"
)

// Cache remembers located atlases by name and resolution.
//
// On disk it is a signature, the blake2b-256 sum of the body, and the body:
// the JSON entry list compressed with LZ4.
type Cache struct {
	entries []Entry
}

const cacheSignature = "ATLDSC01"

func NewCache() *Cache {
	return &Cache{entries: make([]Entry, 0)}
}

func (r *Cache) Entries() []Entry {
	return r.entries
}

func (r *Cache) Len() int {
	return len(r.entries)
}

func sameKey(entry Entry, name string, lowRes bool) bool {
	return entry.Name == name && entry.LowRes == lowRes
}

func (r *Cache) Lookup(name string, lowRes bool) (Entry, bool) {
	name = StripSuffixes(name)
	return lo.Find(r.entries, func(entry Entry) bool { return sameKey(entry, name, lowRes) })
}

// Put stores entry, replacing the one with the same key. It reports whether
// the cache changed.
func (r *Cache) Put(entry Entry) bool {
	_, i, ok := lo.FindIndexOf(r.entries, func(e Entry) bool { return sameKey(e, entry.Name, entry.LowRes) })
	if !ok {
		r.entries = append(r.entries, entry)
		return true
	}
	if r.entries[i].Equal(entry) {
		return false
	}
	r.entries[i] = entry
	return true
}

func (r *Cache) Remove(name string, lowRes bool) bool {
	name = StripSuffixes(name)
	_, i, ok := lo.FindIndexOf(r.entries, func(e Entry) bool { return sameKey(e, name, lowRes) })
	if !ok {
		return false
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	return true
}

func (r *Cache) MarshalBinary() ([]byte, error) {
	body, err := json.Marshal(r.entries)
	if err != nil {
		return nil, errors.Wrap(err, "discovery.Cache.MarshalBinary error")
	}
	compressed, err := lz4.Encode(nil, body)
	if err != nil {
		return nil, errors.Wrap(err, "discovery.Cache.MarshalBinary error: compress")
	}
	sum := blake2b.Sum256(compressed)

	var buf bytes.Buffer
	buf.WriteString(cacheSignature)
	buf.Write(sum[:])
	buf.Write(compressed)
	return buf.Bytes(), nil
}

func (r *Cache) UnmarshalBinary(data []byte) error {
	headerSize := len(cacheSignature) + blake2b.Size256
	if len(data) < headerSize || string(data[:len(cacheSignature)]) != cacheSignature {
		return errors.New("discovery.Cache.UnmarshalBinary error: not a discovery cache")
	}
	compressed := data[headerSize:]
	sum := blake2b.Sum256(compressed)
	if !bytes.Equal(sum[:], data[len(cacheSignature):headerSize]) {
		return ErrChecksum
	}
	body, err := lz4.Decode(nil, compressed)
	if err != nil {
		return errors.Wrap(err, "discovery.Cache.UnmarshalBinary error: decompress")
	}
	entries := make([]Entry, 0)
	if err := json.Unmarshal(body, &entries); err != nil {
		return errors.Wrap(err, "discovery.Cache.UnmarshalBinary error: decode entries")
	}
	r.entries = entries
	return nil
}

// LoadCache reads the cache at path. A missing file is an empty cache.
func LoadCache(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewCache(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, `discovery.LoadCache error: read "%s"`, path)
	}
	cache := NewCache()
	if err := cache.UnmarshalBinary(data); err != nil {
		return nil, errors.Wrapf(err, `discovery.LoadCache error: "%s"`, path)
	}
	return cache, nil
}

func (r *Cache) Save(path string) error {
	data, err := r.MarshalBinary()
	if err != nil {
		return err
	}
	return lfile.WriteAtomic(path, data, 0o644)
}
