package directive

import (
	"fmt"
	"strings"

	"github.com/roc-wong/auto-assembler/utils"
)

// Kind discriminates what a field directive declares.
type Kind int

const (
	KindNone  Kind = iota // plain name matching
	KindConst             // literal constant overriding any source lookup
	KindFrom              // explicit alternate source property path

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

func (k Kind) String() string {
	switch k {
	default:
		return "unknown"
	case KindNone:
		return "none"
	case KindConst:
		return "const"
	case KindFrom:
		return "from"
	}
}

// Field is one property's resolved directive. The zero value means plain
// name matching.
type Field struct {
	Kind  Kind
	Value string // literal for KindConst
	Path  Path   // parsed source path for KindFrom
}

// IsZero reports whether the directive declares nothing.
func (f Field) IsZero() bool {
	return f.Kind == KindNone
}

// ParseTag parses the value of an `asm` struct tag. The empty tag is the
// zero directive.
func ParseTag(tag string) (Field, error) {
	if tag == "" {
		return Field{}, nil
	}

	if !strings.Contains(tag, "=") {
		return Field{}, fmt.Errorf("asm tag %q: want key=value", tag)
	}

	key, rest := utils.Unpack2(strings.SplitN(tag, "=", 2))

	switch key {
	case "const":
		return Field{Kind: KindConst, Value: rest}, nil

	case "from":
		p, err := ParsePath(rest)
		if err != nil {
			return Field{}, fmt.Errorf("asm tag %q: %w", tag, err)
		}

		return Field{Kind: KindFrom, Path: p}, nil

	default:
		return Field{}, fmt.Errorf("asm tag %q: unknown directive key %q", tag, key)
	}
}

// Path is a dotted property path on the opposite side of a transformation.
type Path []string

// ParsePath parses a dotted path like "Customer.Email" into its segments.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("empty property path")
	}

	segments := strings.Split(s, ".")
	for _, seg := range segments {
		if !isValidIdent(seg) {
			return nil, fmt.Errorf("invalid path %q: bad segment %q", s, seg)
		}
	}

	return Path(segments), nil
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return false
			}
		} else {
			if !isLetter(r) && !isDigit(r) && r != '_' {
				return false
			}
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
