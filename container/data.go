// Package container reads and writes asset container files: a header, a
// list of external file references and a table of serialized objects, each
// optionally LZ4 compressed.
//
// The container layout itself is little-endian. Object payloads use the byte
// order and alignment recorded in the header.
package container

import (
	"golang.org/x/crypto/blake2b"

	"atlas-repacker/asset/acodec"
)

type (
	File struct {
		Version   uint32
		Rules     acodec.Rules
		Externals []string
		Objects   []*Object
	}
	Object struct {
		PathID   int64
		TypeName string
		// Compressed selects LZ4 compression of the payload on write.
		Compressed bool

		data []byte
		hash [blake2b.Size256]byte
		// stored is the payload exactly as read from disk; it is written back
		// unchanged while the object is untouched.
		stored []byte
	}
	// PPtr references an object, in this file (FileID 0) or in the external
	// file at index FileID-1.
	PPtr struct {
		FileID int32
		PathID int64
	}
)

const (
	signature      = "\x89ASSETS\n"
	currentVersion = uint32(1)

	flagBigEndian  = uint32(1)
	flagCompressed = uint32(1)
)

func (r PPtr) IsNull() bool {
	return r.PathID == 0
}
