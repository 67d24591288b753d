package container

import (
	"golang.org/x/crypto/blake2b"

	"atlas-repacker/asset/acodec"
	"atlas-repacker/asset/afield"
	"atlas-repacker/asset/atemplate"
	"atlas-repacker/ds"
)

// NewObject creates an object that has never been written.
func NewObject(pathID int64, typeName string, data []byte, compressed bool) *Object {
	object := &Object{
		PathID:     pathID,
		TypeName:   typeName,
		Compressed: compressed,
	}
	object.SetData(data)
	return object
}

// Data returns a copy of the decompressed payload.
func (r *Object) Data() []byte {
	return ds.ShallowCopy(r.data)
}

func (r *Object) Hash() [blake2b.Size256]byte {
	return r.hash
}

// SetData replaces the payload. Setting identical content keeps the object
// untouched, so its stored bytes are written back as they were.
func (r *Object) SetData(data []byte) {
	hash := blake2b.Sum256(data)
	if r.stored != nil && hash == r.hash {
		return
	}
	r.data = ds.ShallowCopy(data)
	r.hash = hash
	r.stored = nil
}

// IsModified reports whether the object will be re-encoded on write.
func (r *Object) IsModified() bool {
	return r.stored == nil
}

// Decode reads the object's field tree.
func (r *File) Decode(object *Object, root *atemplate.Template) (*afield.Instance, error) {
	instance, err := acodec.Decode(object.data, root, r.Rules)
	if err != nil {
		return nil, ObjectError{PathID: object.PathID, Cause: err}
	}
	return instance, nil
}

// Encode writes a field tree back into the object.
func (r *File) Encode(object *Object, instance *afield.Instance) error {
	data, err := acodec.Encode(instance, r.Rules)
	if err != nil {
		return ObjectError{PathID: object.PathID, Cause: err}
	}
	object.SetData(data)
	return nil
}

func (r *File) Find(pathID int64) (*Object, bool) {
	for _, object := range r.Objects {
		if object.PathID == pathID {
			return object, true
		}
	}
	return nil, false
}

func (r *File) ObjectsOfType(typeName string) []*Object {
	objects := make([]*Object, 0)
	for _, object := range r.Objects {
		if object.TypeName == typeName {
			objects = append(objects, object)
		}
	}
	return objects
}

// ExternalPath returns the external file a pointer refers to; ok is false for
// pointers into this file.
func (r *File) ExternalPath(pptr PPtr) (path string, ok bool, err error) {
	if pptr.FileID == 0 {
		return "", false, nil
	}
	index := int(pptr.FileID) - 1
	if index < 0 || index >= len(r.Externals) {
		return "", false, ObjectError{PathID: pptr.PathID, Cause: ErrObjectNotFound}
	}
	return r.Externals[index], true, nil
}

// Clone copies the file table. Payloads are shared until replaced with SetData.
func (r *File) Clone() *File {
	cloned := *r
	cloned.Externals = ds.ShallowCopy(r.Externals)
	cloned.Objects = make([]*Object, 0, len(r.Objects))
	for _, object := range r.Objects {
		copied := *object
		cloned.Objects = append(cloned.Objects, &copied)
	}
	return &cloned
}

// ReadPPtr reads a pointer field made of m_FileID and m_PathID.
func ReadPPtr(instance *afield.Instance) (PPtr, error) {
	fileID, err := afield.Read[int32](instance, "m_FileID")
	if err != nil {
		return PPtr{}, err
	}
	pathID, err := afield.Read[int64](instance, "m_PathID")
	if err != nil {
		return PPtr{}, err
	}
	return PPtr{FileID: fileID, PathID: pathID}, nil
}
