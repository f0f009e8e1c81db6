package form

import (
	"strconv"

	"github.com/formic-dev/formic/pkg/ctree"
	"github.com/formic-dev/formic/pkg/path"
)

// Scan returns every bindable control under root in document order:
// control-capable elements that carry a name and are not flagged with
// the ignore marker. Everything else is invisible to the engine.
func Scan(root *ctree.Node) []*ctree.Node {
	var controls []*ctree.Node
	root.Walk(func(n *ctree.Node) {
		if !ctree.IsControl(n) || n.Ignored() {
			return
		}
		if _, ok := n.Name(); !ok {
			return
		}
		controls = append(controls, n)
	})
	return controls
}

// controlGroup is the set of controls sharing one resolved path.
type controlGroup struct {
	path    path.Path
	members []*ctree.Node
}

// groupControls buckets scanned controls by canonical path, preserving
// first-seen document order. Checkbox and radio groups fall out of
// this: controls that legitimately share a name group together, with
// the explicit index hint as the only disambiguator.
func groupControls(controls []*ctree.Node) []*controlGroup {
	var order []*controlGroup
	byPath := map[string]*controlGroup{}
	for _, ctl := range controls {
		p, ok := path.ResolvePath(ctl)
		if !ok {
			continue
		}
		key := p.String()
		g, ok := byPath[key]
		if !ok {
			g = &controlGroup{path: p}
			byPath[key] = g
			order = append(order, g)
		}
		g.members = append(g.members, ctl)
	}
	return order
}

// Defaults builds the initial-value tree from each control's declared
// default. Scanning the same static tree twice yields identical trees.
func Defaults(root *ctree.Node) path.Tree {
	tree := path.Tree{}
	for _, g := range groupControls(Scan(root)) {
		tree = path.Set(tree, g.path, groupDefault(g))
	}
	return tree
}

// groupDefault computes the bound default value for one control group.
func groupDefault(g *controlGroup) any {
	first := g.members[0]
	switch kind := ctree.KindOf(first); kind {
	case ctree.KindCheckbox:
		return checkboxValue(g.members)
	case ctree.KindRadio:
		return radioValue(g.members)
	default:
		// Non-grouping kinds: the last control wins, matching how a
		// duplicated scalar field behaves in a flat form encoding.
		return controlValue(g.members[len(g.members)-1], kind)
	}
}

// controlValue extracts the current value of a single, non-grouping
// control. The switch is exhaustive over Kind.
func controlValue(n *ctree.Node, kind ctree.Kind) any {
	switch kind {
	case ctree.KindText, ctree.KindTextArea:
		return n.Value
	case ctree.KindNumber:
		return coerceNumber(n.Value)
	case ctree.KindSelect:
		return selectValue(n)
	case ctree.KindSelectMultiple:
		return multiSelectValue(n)
	case ctree.KindFile:
		return append([]ctree.File{}, n.Files...)
	case ctree.KindCheckbox:
		return n.Checked
	case ctree.KindRadio:
		return radioValue([]*ctree.Node{n})
	default:
		return n.Value
	}
}

// checkboxValue implements the group merge rule: a single member binds
// a boolean, two or more bind the array of checked values.
func checkboxValue(members []*ctree.Node) any {
	if len(members) == 1 {
		return members[0].Checked
	}
	checked := []any{}
	for _, m := range members {
		if m.Checked {
			checked = append(checked, m.Value)
		}
	}
	return checked
}

// radioValue binds the checked member's value, or "" when none is
// checked.
func radioValue(members []*ctree.Node) any {
	for _, m := range members {
		if m.Checked {
			return m.Value
		}
	}
	return ""
}

// selectValue binds the selected option, falling back to the first
// option when none is marked, which is what a rendered select shows.
func selectValue(n *ctree.Node) any {
	if sel := n.SelectedOptions(); len(sel) > 0 {
		return sel[0]
	}
	if opts := n.Options(); len(opts) > 0 {
		return opts[0].Attrs["value"]
	}
	return ""
}

// multiSelectValue binds the array of selected option values.
func multiSelectValue(n *ctree.Node) any {
	sel := n.SelectedOptions()
	out := make([]any, len(sel))
	for i, v := range sel {
		out[i] = v
	}
	return out
}

// coerceNumber parses a numeric input's text value. Blank or
// unparsable input binds nil, mirroring an empty number field.
func coerceNumber(s string) any {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return f
}
