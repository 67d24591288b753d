// Package sheet loads a sprite atlas out of its containers, edits the sprite
// list and atlas image in memory, and writes both back.
package sheet

import (
	"context"
	"fmt"
	"image"

	"atlas-repacker/discovery"
	"atlas-repacker/sprite"
	"github.com/pkg/errors"
)

type (
	State      int
	ReturnCode int

	// snapshot is one entry of the undo history.
	snapshot struct {
		sprites []sprite.Record
		atlas   *image.NRGBA
	}
)

const (
	StateUnloaded State = iota
	StateLoaded
	StateMutated
	StateSaved
)

const (
	UnknownError ReturnCode = iota - 1
	Success
	NoObb
	NoSpriteSheetFound
	NoSpritesLoaded
	NoAtlasLoaded
	ImportFailed
	Cancelled
)

func (r State) String() string {
	switch r {
	case StateUnloaded:
		return "Unloaded"
	case StateLoaded:
		return "Loaded"
	case StateMutated:
		return "Mutated"
	case StateSaved:
		return "Saved"
	default:
		return fmt.Sprintf("State(%d)", int(r))
	}
}

func (r ReturnCode) String() string {
	switch r {
	case UnknownError:
		return "UnknownError"
	case Success:
		return "Success"
	case NoObb:
		return "NoObb"
	case NoSpriteSheetFound:
		return "NoSpriteSheetFound"
	case NoSpritesLoaded:
		return "NoSpritesLoaded"
	case NoAtlasLoaded:
		return "NoAtlasLoaded"
	case ImportFailed:
		return "ImportFailed"
	case Cancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("ReturnCode(%d)", int(r))
	}
}

// codeOf maps an error from locating or loading an atlas to a return code.
func codeOf(err error) ReturnCode {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Cancelled
	case errors.Is(err, discovery.ErrNoData):
		return NoObb
	case errors.Is(err, discovery.ErrNotFound):
		return NoSpriteSheetFound
	default:
		return UnknownError
	}
}
