package ameta

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type (
	TypeRefSyntaxError struct {
		Expression string
		Position   int
		Reason     string
	}
)

func (r TypeRefSyntaxError) Error() string {
	return fmt.Sprintf(`invalid type expression "%s" at %d: %s`, r.Expression, r.Position, r.Reason)
}

func (r TypeRef) IsGeneric() bool {
	return len(r.Args) > 0
}

func (r TypeRef) String() string {
	if len(r.Args) == 0 {
		return r.Name
	}
	args := lo.Map(
		r.Args,
		func(arg TypeRef, _ int) string {
			return arg.String()
		},
	)
	return r.Name + "<" + strings.Join(args, ", ") + ">"
}

func (r TypeRef) Equal(other TypeRef) bool {
	return r.String() == other.String()
}

// Depth is 1 for a plain name and grows by one per level of generic nesting.
func (r TypeRef) Depth() int {
	deepest := 0
	for _, arg := range r.Args {
		if depth := arg.Depth(); depth > deepest {
			deepest = depth
		}
	}
	return deepest + 1
}

func MustParseTypeRef(expression string) TypeRef {
	ref, err := ParseTypeRef(expression)
	if err != nil {
		panic(err)
	}
	return ref
}

// ParseTypeRef parses expressions of the form Name or Name<Arg, ...>.
func ParseTypeRef(expression string) (TypeRef, error) {
	parser := typeRefParser{input: expression}
	ref, err := parser.parse()
	if err != nil {
		return TypeRef{}, errors.Wrap(err, "ParseTypeRef error")
	}
	parser.skipSpaces()
	if parser.pos != len(parser.input) {
		return TypeRef{}, parser.fail("unexpected trailing input")
	}
	return ref, nil
}

type typeRefParser struct {
	input string
	pos   int
}

func (r *typeRefParser) fail(reason string) error {
	return TypeRefSyntaxError{Expression: r.input, Position: r.pos, Reason: reason}
}

func (r *typeRefParser) skipSpaces() {
	for r.pos < len(r.input) && r.input[r.pos] == ' ' {
		r.pos++
	}
}

func isNameByte(c byte) bool {
	return c == '_' || c == '.' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

func (r *typeRefParser) parse() (TypeRef, error) {
	r.skipSpaces()
	start := r.pos
	for r.pos < len(r.input) && isNameByte(r.input[r.pos]) {
		r.pos++
	}
	if start == r.pos {
		return TypeRef{}, r.fail("expected a type name")
	}
	ref := TypeRef{Name: r.input[start:r.pos]}
	r.skipSpaces()
	if r.pos >= len(r.input) || r.input[r.pos] != '<' {
		return ref, nil
	}
	r.pos++
	for {
		arg, err := r.parse()
		if err != nil {
			return TypeRef{}, err
		}
		ref.Args = append(ref.Args, arg)
		r.skipSpaces()
		if r.pos >= len(r.input) {
			return TypeRef{}, r.fail(`expected "," or ">"`)
		}
		switch r.input[r.pos] {
		case ',':
			r.pos++
		case '>':
			r.pos++
			return ref, nil
		default:
			return TypeRef{}, r.fail(`expected "," or ">"`)
		}
	}
}
