package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"atlas-repacker/asset/acodec"
	"github.com/anaminus/parse"
	"github.com/bkaradzic/go-lz4"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

func decodeError(r *parse.BinaryReader, err error) error {
	r.Add(0, err)
	err = r.Err()
	if err != nil {
		return DataError{Offset: r.N(), Cause: err}
	}
	return nil
}

func readString(f *parse.BinaryReader, limit int, data *string) (failed bool) {
	if f.Err() != nil {
		return true
	}

	var length uint32
	if f.Number(&length) {
		return true
	}
	if int64(length) > int64(limit) {
		f.Add(0, ErrCountTooLarge)
		return true
	}

	s := make([]byte, length)
	if f.Bytes(s) {
		return true
	}

	*data = string(s)

	return false
}

func writeString(f *parse.BinaryWriter, data string) (failed bool) {
	if f.Err() != nil {
		return true
	}

	if f.Number(uint32(len(data))) {
		return true
	}

	return f.Bytes([]byte(data))
}

func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, `container.ReadFile error: read "%s"`, path)
	}
	file, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, `container.ReadFile error: decode "%s"`, path)
	}
	return file, nil
}

// Decode parses a whole container held in memory.
func Decode(data []byte) (*File, error) {
	fr := parse.NewBinaryReader(bytes.NewReader(data))
	limit := len(data)
	file := &File{}

	sig := make([]byte, len(signature))
	if fr.Bytes(sig) {
		return nil, decodeError(fr, nil)
	}
	if string(sig) != signature {
		return nil, DataError{Offset: fr.N(), Cause: ErrSignature}
	}
	if fr.Number(&file.Version) {
		return nil, decodeError(fr, nil)
	}
	if file.Version != currentVersion {
		return nil, DataError{Offset: fr.N(), Cause: fmt.Errorf("%w: %d", ErrVersion, file.Version)}
	}

	var flags, alignment, maxArrayCount uint32
	if fr.Number(&flags) || fr.Number(&alignment) || fr.Number(&maxArrayCount) {
		return nil, decodeError(fr, nil)
	}
	file.Rules = acodec.Rules{
		Order:         binary.LittleEndian,
		Alignment:     int(alignment),
		MaxArrayCount: int(maxArrayCount),
	}
	if flags&flagBigEndian != 0 {
		file.Rules.Order = binary.BigEndian
	}

	var externalCount uint32
	if fr.Number(&externalCount) {
		return nil, decodeError(fr, nil)
	}
	if int64(externalCount) > int64(limit) {
		return nil, DataError{Offset: fr.N(), Cause: ErrCountTooLarge}
	}
	file.Externals = make([]string, externalCount)
	for i := range file.Externals {
		if readString(fr, limit, &file.Externals[i]) {
			return nil, decodeError(fr, nil)
		}
	}

	var objectCount uint32
	if fr.Number(&objectCount) {
		return nil, decodeError(fr, nil)
	}
	if int64(objectCount) > int64(limit) {
		return nil, DataError{Offset: fr.N(), Cause: ErrCountTooLarge}
	}
	seen := map[int64]struct{}{}
	file.Objects = make([]*Object, 0, objectCount)
	for i := 0; i < int(objectCount); i++ {
		object := &Object{}
		if readObject(fr, limit, object) {
			return nil, decodeError(fr, nil)
		}
		if _, existed := seen[object.PathID]; existed {
			return nil, DataError{Offset: fr.N(), Cause: fmt.Errorf("%w: %d", ErrDuplicatePathID, object.PathID)}
		}
		seen[object.PathID] = struct{}{}
		file.Objects = append(file.Objects, object)
	}

	if _, err := fr.End(); err != nil {
		return nil, DataError{Offset: fr.N(), Cause: err}
	}
	return file, nil
}

func readObject(fr *parse.BinaryReader, limit int, object *Object) (failed bool) {
	if fr.Number(&object.PathID) {
		return true
	}
	if readString(fr, limit, &object.TypeName) {
		return true
	}

	var flags, compressedLength, length uint32
	if fr.Number(&flags) || fr.Number(&compressedLength) || fr.Number(&length) {
		return true
	}
	object.Compressed = flags&flagCompressed != 0

	storedLength := length
	if object.Compressed {
		storedLength = compressedLength
	}
	if int64(storedLength) > int64(limit) {
		fr.Add(0, ErrCountTooLarge)
		return true
	}
	object.stored = make([]byte, storedLength)
	if fr.Bytes(object.stored) {
		return true
	}

	if !object.Compressed {
		object.data = object.stored
	} else {
		// lz4 expects the uncompressed length in front of the compressed data.
		framed := make([]byte, len(object.stored)+4)
		binary.LittleEndian.PutUint32(framed, length)
		copy(framed[4:], object.stored)
		data, err := lz4.Decode(nil, framed)
		if err != nil {
			fr.Add(0, fmt.Errorf("lz4: %s", err.Error()))
			return true
		}
		if len(data) != int(length) {
			fr.Add(0, ErrLengthMismatch)
			return true
		}
		object.data = data
	}
	object.hash = blake2b.Sum256(object.data)
	return false
}

// Bytes encodes the container in memory.
func (r *File) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *File) WriteTo(w io.Writer) (int64, error) {
	fw := parse.NewBinaryWriter(w)

	if fw.Bytes([]byte(signature)) {
		return fw.End()
	}
	var flags uint32
	if r.Rules.Order == binary.BigEndian {
		flags |= flagBigEndian
	}
	if fw.Number(r.Version) ||
		fw.Number(flags) ||
		fw.Number(uint32(r.Rules.Alignment)) ||
		fw.Number(uint32(r.Rules.MaxArrayCount)) {
		return fw.End()
	}

	if fw.Number(uint32(len(r.Externals))) {
		return fw.End()
	}
	for _, external := range r.Externals {
		if writeString(fw, external) {
			return fw.End()
		}
	}

	if fw.Number(uint32(len(r.Objects))) {
		return fw.End()
	}
	for _, object := range r.Objects {
		if writeObject(fw, object) {
			return fw.End()
		}
	}
	return fw.End()
}

func writeObject(fw *parse.BinaryWriter, object *Object) (failed bool) {
	if fw.Number(object.PathID) {
		return true
	}
	if writeString(fw, object.TypeName) {
		return true
	}

	stored := object.stored
	if stored == nil {
		stored = object.data
		if object.Compressed {
			var compressedData []byte
			compressedData, err := lz4.Encode(compressedData, object.data)
			if fw.Add(0, err) {
				return true
			}
			// lz4 prepends the uncompressed length, which the table stores separately.
			stored = compressedData[4:]
		}
	}

	flags := uint32(0)
	compressedLength := uint32(0)
	if object.Compressed {
		flags |= flagCompressed
		compressedLength = uint32(len(stored))
	}
	if fw.Number(flags) ||
		fw.Number(compressedLength) ||
		fw.Number(uint32(len(object.data))) {
		return true
	}
	return fw.Bytes(stored)
}

// New returns an empty container using the given payload rules.
func New(rules acodec.Rules) *File {
	return &File{
		Version: currentVersion,
		Rules:   rules,
	}
}
