// Package discovery finds the objects that make up a sprite atlas inside a
// directory of asset containers, and remembers what it found.
package discovery

import (
	"strings"

	"atlas-repacker/ds"
	"github.com/samber/lo"
)

type (
	ObjectType int
	Layout     int

	// Asset points at one object: a container file name relative to the data
	// directory and a path id inside it.
	Asset struct {
		Type   ObjectType `json:"type"`
		Name   string     `json:"name"`
		File   string     `json:"file"`
		PathID int64      `json:"path_id"`
	}
	// Entry is the result of locating one atlas.
	Entry struct {
		Name   string  `json:"name"`
		LowRes bool    `json:"low_res"`
		Layout Layout  `json:"layout"`
		Assets []Asset `json:"assets"`
	}
	// Progress reports how far a scan got.
	Progress struct {
		Searched int
		Total    int
		Failed   int
		File     string
	}
)

const (
	TypeNone ObjectType = iota - 1
	TypeUIAtlas
	// TypeTextureAtlas is the SmoothMoves atlas behaviour.
	TypeTextureAtlas
	TypeTexture2D
	TypeMaterial
)

const (
	LayoutNGUI Layout = iota
	LayoutSmoothMoves
)

func (r ObjectType) String() string {
	switch r {
	case TypeUIAtlas:
		return "UIAtlas"
	case TypeTextureAtlas:
		return "TextureAtlas"
	case TypeTexture2D:
		return "Texture2D"
	case TypeMaterial:
		return "Material"
	default:
		return "None"
	}
}

func (r Layout) String() string {
	if r == LayoutSmoothMoves {
		return "SmoothMoves"
	}
	return "NGUI"
}

// AtlasType is the object type holding the sprite list of the layout.
func (r Layout) AtlasType() ObjectType {
	if r == LayoutSmoothMoves {
		return TypeTextureAtlas
	}
	return TypeUIAtlas
}

// StripSuffixes removes the resolution suffixes from an atlas name.
func StripSuffixes(name string) string {
	return strings.NewReplacer("_LR", "", "_HR", "", "_low", "").Replace(name)
}

// First returns the first asset of type t.
func (r Entry) First(t ObjectType) ds.Option[Asset] {
	asset, ok := lo.Find(r.Assets, func(asset Asset) bool { return asset.Type == t })
	if !ok {
		return ds.None[Asset]()
	}
	return ds.Some(asset)
}

func (r Entry) All(t ObjectType) []Asset {
	return lo.Filter(r.Assets, func(asset Asset, _ int) bool { return asset.Type == t })
}

// IsComplete reports whether the entry names an atlas object, a material and
// a texture.
func (r Entry) IsComplete() bool {
	return r.First(r.Layout.AtlasType()).IsSome() &&
		r.First(TypeMaterial).IsSome() &&
		r.First(TypeTexture2D).IsSome()
}

// Equal compares assets as sets.
func (r Entry) Equal(other Entry) bool {
	if r.Name != other.Name || r.LowRes != other.LowRes || r.Layout != other.Layout {
		return false
	}
	return lo.EveryBy(r.Assets, func(asset Asset) bool { return lo.Contains(other.Assets, asset) }) &&
		lo.EveryBy(other.Assets, func(asset Asset) bool { return lo.Contains(r.Assets, asset) })
}
