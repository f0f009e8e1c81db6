package path

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/formic-dev/formic/pkg/ctree"
)

// Segment is one step into the nested data tree: either a map key or a
// sequence index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key creates a key segment.
func Key(k string) Segment { return Segment{Key: k} }

// Index creates an index segment.
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

// Path is an ordered sequence of segments locating a value inside the
// nested data tree. The canonical text form uses dots for keys and
// brackets for indices: user.addresses[0].city.
type Path []Segment

// String renders the canonical text form.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.IsIndex {
			fmt.Fprintf(&b, "[%d]", seg.Index)
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Key)
	}
	return b.String()
}

// Parse converts a control name into a Path. Parsing is pure and total
// over its input: the same name always yields the same path.
func Parse(name string) (Path, error) {
	if name == "" {
		return nil, fmt.Errorf("formic: empty field name")
	}

	var p Path
	rest := name
	for rest != "" {
		// Key part runs up to the next '.' or '['.
		end := strings.IndexAny(rest, ".[")
		if end == -1 {
			p = append(p, Key(rest))
			break
		}
		if end > 0 {
			p = append(p, Key(rest[:end]))
		} else if rest[0] == '.' || len(p) == 0 && rest[0] == '[' {
			// Empty key between dots, or a name starting with an index.
			if rest[0] == '.' {
				return nil, fmt.Errorf("formic: empty segment in field name %q", name)
			}
			return nil, fmt.Errorf("formic: field name %q starts with an index", name)
		}
		rest = rest[end:]

		// Consume any run of [N] suffixes.
		for strings.HasPrefix(rest, "[") {
			close := strings.IndexByte(rest, ']')
			if close == -1 {
				return nil, fmt.Errorf("formic: unclosed index in field name %q", name)
			}
			idx, err := strconv.Atoi(rest[1:close])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("formic: invalid index %q in field name %q", rest[1:close], name)
			}
			p = append(p, Index(idx))
			rest = rest[close+1:]
		}

		if strings.HasPrefix(rest, ".") {
			rest = rest[1:]
			if rest == "" {
				return nil, fmt.Errorf("formic: trailing dot in field name %q", name)
			}
		}
	}
	return p, nil
}

// MustParse is Parse for statically known names.
func MustParse(name string) Path {
	p, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return p
}

// ResolvePath derives a control's path from its name attribute plus the
// optional explicit index hint. Controls without a name, or with a
// malformed one, resolve to (nil, false) and are ignored by the engine.
// Resolution depends only on the control's own attributes, never on
// sibling ordering.
func ResolvePath(n *ctree.Node) (Path, bool) {
	name, ok := n.Name()
	if !ok {
		return nil, false
	}
	p, err := Parse(name)
	if err != nil {
		return nil, false
	}
	if idx, ok := ResolveIndex(n); ok {
		p = append(p, Index(idx))
	}
	return p, true
}

// ResolveIndex recovers the explicit array index hint used to
// disambiguate same-named repeated controls across list rows.
func ResolveIndex(n *ctree.Node) (int, bool) {
	v, ok := n.Attr(ctree.AttrIndex)
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(v)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}
