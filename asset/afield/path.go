package afield

import (
	"fmt"
	"strconv"
	"strings"
)

type (
	SegmentKind int
	Segment     struct {
		Kind  SegmentKind
		Name  string
		Index int
	}
	// Path is a parsed field path such as "m_TexEnvs.Array[0].second".
	Path struct {
		raw      string
		segments []Segment
	}
	PathSyntaxError struct {
		Path   string
		Reason string
	}
)

const (
	SegmentName = SegmentKind(iota)
	// SegmentArray addresses the element list of an array field.
	SegmentArray
	// SegmentIndex picks one element; it always follows SegmentArray.
	SegmentIndex
)

const arraySegment = "Array"

func (r PathSyntaxError) Error() string {
	return fmt.Sprintf(`invalid path "%s": %s`, r.Path, r.Reason)
}

func (r Segment) String() string {
	switch r.Kind {
	case SegmentArray:
		return arraySegment
	case SegmentIndex:
		return strconv.Itoa(r.Index)
	default:
		return r.Name
	}
}

func (r Path) String() string {
	return r.raw
}

func (r Path) Segments() []Segment {
	segments := make([]Segment, len(r.segments))
	copy(segments, r.segments)
	return segments
}

func (r Path) IsRoot() bool {
	return len(r.segments) == 0
}

func MustParsePath(s string) Path {
	path, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return path
}

// ParsePath parses a dotted path. "Array" addresses the elements of an array
// field and may be followed by an index, either as "Array[2]" or "Array.2".
// The empty string is the root.
func ParsePath(s string) (Path, error) {
	path := Path{raw: s}
	if s == "" {
		return path, nil
	}
	for _, part := range strings.Split(s, ".") {
		name := part
		index := -1
		if open := strings.IndexByte(part, '['); open >= 0 {
			if !strings.HasSuffix(part, "]") {
				return Path{}, PathSyntaxError{Path: s, Reason: fmt.Sprintf(`unclosed index in "%s"`, part)}
			}
			parsed, err := strconv.Atoi(part[open+1 : len(part)-1])
			if err != nil || parsed < 0 {
				return Path{}, PathSyntaxError{Path: s, Reason: fmt.Sprintf(`invalid index in "%s"`, part)}
			}
			name = part[:open]
			index = parsed
		}

		switch {
		case name == "":
			return Path{}, PathSyntaxError{Path: s, Reason: "empty segment"}
		case name == arraySegment:
			path.segments = append(path.segments, Segment{Kind: SegmentArray})
		case isDigits(name):
			if index >= 0 || !path.lastIs(SegmentArray) {
				return Path{}, PathSyntaxError{Path: s, Reason: fmt.Sprintf(`index "%s" must follow "Array"`, name)}
			}
			parsed, _ := strconv.Atoi(name)
			path.segments = append(path.segments, Segment{Kind: SegmentIndex, Index: parsed})
			continue
		default:
			path.segments = append(path.segments, Segment{Kind: SegmentName, Name: name})
		}

		if index >= 0 {
			if !path.lastIs(SegmentArray) {
				return Path{}, PathSyntaxError{Path: s, Reason: fmt.Sprintf(`index in "%s" must follow "Array"`, part)}
			}
			path.segments = append(path.segments, Segment{Kind: SegmentIndex, Index: index})
		}
	}
	return path, nil
}

func (r Path) lastIs(kind SegmentKind) bool {
	return len(r.segments) > 0 && r.segments[len(r.segments)-1].Kind == kind
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
