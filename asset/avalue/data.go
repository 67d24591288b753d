package avalue

type (
	Kind int

	// Value is a single typed scalar, string or byte blob. Struct and array
	// kinds carry no payload of their own; their content lives in the field tree.
	Value struct {
		kind  Kind
		bits  uint64
		str   string
		bytes []byte
	}

	// Scalar lists the Go types that map one-to-one onto a leaf Kind.
	Scalar interface {
		int8 | int16 | int32 | int64 |
			uint8 | uint16 | uint32 | uint64 |
			float32 | float64 | bool | string | []byte
	}
)

const (
	KindInvalid = Kind(iota)
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUInt8
	KindUInt16
	KindUInt32
	KindUInt64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindByteArray
	KindStruct
	KindArrayOfStruct
)

var kindNames = map[Kind]string{
	KindInvalid:       "invalid",
	KindInt8:          "int8",
	KindInt16:         "int16",
	KindInt32:         "int32",
	KindInt64:         "int64",
	KindUInt8:         "uint8",
	KindUInt16:        "uint16",
	KindUInt32:        "uint32",
	KindUInt64:        "uint64",
	KindFloat32:       "float32",
	KindFloat64:       "float64",
	KindBool:          "bool",
	KindString:        "string",
	KindByteArray:     "bytes",
	KindStruct:        "struct",
	KindArrayOfStruct: "array",
}

var kindSizes = map[Kind]int{
	KindInt8:    1,
	KindInt16:   2,
	KindInt32:   4,
	KindInt64:   8,
	KindUInt8:   1,
	KindUInt16:  2,
	KindUInt32:  4,
	KindUInt64:  8,
	KindFloat32: 4,
	KindFloat64: 8,
	KindBool:    1,
}

func (r Kind) String() string {
	name, ok := kindNames[r]
	if !ok {
		return "unknown"
	}
	return name
}

// IsLeaf reports whether values of the kind are stored in a Value rather
// than in child nodes.
func (r Kind) IsLeaf() bool {
	return r != KindInvalid && r != KindStruct && r != KindArrayOfStruct && r.IsKnown()
}

func (r Kind) IsKnown() bool {
	_, ok := kindNames[r]
	return ok && r != KindInvalid
}

func (r Kind) IsNumeric() bool {
	_, ok := kindSizes[r]
	return ok && r != KindBool
}

// FixedSize is the wire width of fixed-width kinds; zero for everything else.
func (r Kind) FixedSize() int {
	return kindSizes[r]
}

// KindByName maps a primitive type name ("int32", "string", ...) to its Kind.
func KindByName(name string) (Kind, bool) {
	for kind, kindName := range kindNames {
		if kindName == name && kind.IsLeaf() {
			return kind, true
		}
	}
	return KindInvalid, false
}
