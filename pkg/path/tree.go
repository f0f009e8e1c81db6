package path

import "github.com/formic-dev/formic/pkg/ctree"

// Tree is the nested data structure mirroring form field names.
// Sequences are []any, mappings are map[string]any, everything else is
// a leaf.
type Tree = map[string]any

// Get returns the value at p, if present.
func Get(root Tree, p Path) (any, bool) {
	var cur any = root
	for _, seg := range p {
		if seg.IsIndex {
			sl, ok := cur.([]any)
			if !ok || seg.Index >= len(sl) {
				return nil, false
			}
			cur = sl[seg.Index]
			continue
		}
		m, ok := cur.(Tree)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg.Key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set writes v at p, creating intermediate maps and growing sequences
// as needed, and returns the root (allocated when nil).
func Set(root Tree, p Path, v any) Tree {
	if root == nil {
		root = Tree{}
	}
	if len(p) == 0 {
		return root
	}
	setInMap(root, p, v)
	return root
}

func setInMap(m Tree, p Path, v any) {
	seg := p[0]
	if len(p) == 1 {
		m[seg.Key] = v
		return
	}
	if p[1].IsIndex {
		sl, _ := m[seg.Key].([]any)
		m[seg.Key] = setInSlice(sl, p[1:], v)
		return
	}
	child, ok := m[seg.Key].(Tree)
	if !ok {
		child = Tree{}
		m[seg.Key] = child
	}
	setInMap(child, p[1:], v)
}

func setInSlice(sl []any, p Path, v any) []any {
	i := p[0].Index
	for len(sl) <= i {
		sl = append(sl, nil)
	}
	if len(p) == 1 {
		sl[i] = v
		return sl
	}
	if p[1].IsIndex {
		child, _ := sl[i].([]any)
		sl[i] = setInSlice(child, p[1:], v)
		return sl
	}
	child, ok := sl[i].(Tree)
	if !ok {
		child = Tree{}
		sl[i] = child
	}
	setInMap(child, p[1:], v)
	return sl
}

// Unset removes the value at p. Sequence entries are spliced out, so
// later indices shift down, matching list-row removal. Containers left
// empty are pruned on the way back up.
func Unset(root Tree, p Path) Tree {
	if root == nil || len(p) == 0 {
		return root
	}
	unsetInMap(root, p)
	return root
}

// unsetInMap removes p from m and reports whether m is now empty.
func unsetInMap(m Tree, p Path) bool {
	seg := p[0]
	if len(p) == 1 {
		delete(m, seg.Key)
		return len(m) == 0
	}
	switch child := m[seg.Key].(type) {
	case Tree:
		if !p[1].IsIndex && unsetInMap(child, p[1:]) {
			delete(m, seg.Key)
		}
	case []any:
		if p[1].IsIndex {
			child, empty := unsetInSlice(child, p[1:])
			if empty {
				delete(m, seg.Key)
			} else {
				m[seg.Key] = child
			}
		}
	}
	return len(m) == 0
}

func unsetInSlice(sl []any, p Path) ([]any, bool) {
	i := p[0].Index
	if i >= len(sl) {
		return sl, len(sl) == 0
	}
	if len(p) == 1 {
		sl = append(sl[:i], sl[i+1:]...)
		return sl, len(sl) == 0
	}
	switch child := sl[i].(type) {
	case Tree:
		if !p[1].IsIndex && unsetInMap(child, p[1:]) {
			sl = append(sl[:i], sl[i+1:]...)
		}
	case []any:
		if p[1].IsIndex {
			child, empty := unsetInSlice(child, p[1:])
			if empty {
				sl = append(sl[:i], sl[i+1:]...)
			} else {
				sl[i] = child
			}
		}
	}
	return sl, len(sl) == 0
}

// Merge deep-merges overlay into base and returns base. Base wins on
// every conflict; overlay values only fill paths base does not have.
// This is the re-baseline rule: recomputed defaults never clobber live
// user state.
func Merge(base, overlay Tree) Tree {
	if base == nil {
		base = Tree{}
	}
	for k, ov := range overlay {
		bv, ok := base[k]
		if !ok {
			base[k] = Copy(ov)
			continue
		}
		switch bt := bv.(type) {
		case Tree:
			if ot, ok := ov.(Tree); ok {
				base[k] = Merge(bt, ot)
			}
		case []any:
			if os, ok := ov.([]any); ok {
				base[k] = mergeSlices(bt, os)
			}
		}
	}
	return base
}

func mergeSlices(base, overlay []any) []any {
	for i, ov := range overlay {
		if i >= len(base) {
			base = append(base, Copy(ov))
			continue
		}
		switch bt := base[i].(type) {
		case Tree:
			if ot, ok := ov.(Tree); ok {
				base[i] = Merge(bt, ot)
			}
		case []any:
			if os, ok := ov.([]any); ok {
				base[i] = mergeSlices(bt, os)
			}
		}
	}
	return base
}

// Shape returns a tree with the same structure as v and every leaf
// replaced by leaf. Used to initialize and bulk-set shadow trees.
func Shape(v, leaf any) any {
	switch t := v.(type) {
	case Tree:
		out := make(Tree, len(t))
		for k, cv := range t {
			out[k] = Shape(cv, leaf)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, cv := range t {
			out[i] = Shape(cv, leaf)
		}
		return out
	default:
		return leaf
	}
}

// Copy deep-copies a tree value. Leaves are value types (strings,
// numbers, bools, ctree.File slices) and are copied by value.
func Copy(v any) any {
	switch t := v.(type) {
	case Tree:
		out := make(Tree, len(t))
		for k, cv := range t {
			out[k] = Copy(cv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, cv := range t {
			out[i] = Copy(cv)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case []ctree.File:
		return append([]ctree.File(nil), t...)
	default:
		return v
	}
}

// CopyTree is Copy specialized to a whole tree.
func CopyTree(t Tree) Tree {
	if t == nil {
		return Tree{}
	}
	return Copy(t).(Tree)
}

// Some reports whether any leaf of v satisfies pred.
func Some(v any, pred func(any) bool) bool {
	switch t := v.(type) {
	case Tree:
		for _, cv := range t {
			if Some(cv, pred) {
				return true
			}
		}
		return false
	case []any:
		for _, cv := range t {
			if Some(cv, pred) {
				return true
			}
		}
		return false
	default:
		return pred(v)
	}
}
