package form

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/formic-dev/formic/pkg/ctree"
	"github.com/formic-dev/formic/pkg/path"
)

// messagePolicy strips markup from validator messages before they land
// in control presentation attributes. Validator output can originate
// from servers or third-party schema layers and is not trusted.
var messagePolicy = bluemonday.StrictPolicy()

// attachListeners wires the three value-event handlers plus the ambient
// submit handler onto the root. Removal closures accumulate on the
// binding for Destroy.
func (b *Binding) attachListeners() {
	b.removers = append(b.removers,
		b.root.On(ctree.EventInput, b.onInput),
		b.root.On(ctree.EventChange, b.onChange),
		b.root.On(ctree.EventBlur, b.onBlur),
		b.root.On(ctree.EventSubmit, b.onSubmitEvent),
	)
}

// bindable filters events down to controls the engine owns and
// resolves their path. Unnamed and ignore-flagged controls opt out of
// all automatic binding; this is how custom widgets coexist with the
// engine.
func (b *Binding) bindable(e *ctree.Event) (*ctree.Node, path.Path, bool) {
	t := e.Target
	if t == nil || !ctree.IsControl(t) || t.Ignored() {
		return nil, nil, false
	}
	p, ok := path.ResolvePath(t)
	if !ok {
		return nil, nil, false
	}
	return t, p, true
}

// onInput handles text-like edits: write the coerced value, mark the
// form dirty, and touch when configured. Checkbox/radio/file/select
// controls are committed through change events instead.
func (b *Binding) onInput(e *ctree.Event) {
	t, p, ok := b.bindable(e)
	if !ok {
		return
	}
	kind := ctree.KindOf(t)
	if !kind.TextLike() {
		return
	}

	var v any = t.Value
	if kind == ctree.KindNumber {
		v = coerceNumber(t.Value)
	}
	b.Data.Update(func(d path.Tree) path.Tree { return path.Set(d, p, v) })
	b.IsDirty.Set(true)
	if b.cfg.TouchOnInput {
		b.touch(p)
	}
}

// onChange handles committed checkbox/radio/file/select changes with
// the group-resolved value.
func (b *Binding) onChange(e *ctree.Event) {
	t, p, ok := b.bindable(e)
	if !ok {
		return
	}
	kind := ctree.KindOf(t)
	if kind.TextLike() {
		return
	}

	var v any
	switch kind {
	case ctree.KindCheckbox:
		v = checkboxValue(b.groupMembers(p, ctree.KindCheckbox))
	case ctree.KindRadio:
		v = radioValue(b.groupMembers(p, ctree.KindRadio))
	case ctree.KindSelect:
		v = selectValue(t)
	case ctree.KindSelectMultiple:
		v = multiSelectValue(t)
	case ctree.KindFile:
		v = append([]ctree.File{}, t.Files...)
	default:
		return
	}
	b.Data.Update(func(d path.Tree) path.Tree { return path.Set(d, p, v) })
	b.IsDirty.Set(true)
	if b.cfg.TouchOnChange {
		b.touch(p)
	}
}

// onBlur only touches; it never mutates data.
func (b *Binding) onBlur(e *ctree.Event) {
	_, p, ok := b.bindable(e)
	if !ok {
		return
	}
	if b.cfg.TouchOnBlur {
		b.touch(p)
	}
}

func (b *Binding) touch(p path.Path) {
	b.Touched.Update(func(t path.Tree) path.Tree { return path.Set(t, p, true) })
}

// groupMembers returns the controls of the given kind currently in the
// tree that resolve to the same path.
func (b *Binding) groupMembers(p path.Path, kind ctree.Kind) []*ctree.Node {
	key := p.String()
	var members []*ctree.Node
	for _, ctl := range Scan(b.root) {
		if ctree.KindOf(ctl) != kind {
			continue
		}
		cp, ok := path.ResolvePath(ctl)
		if !ok || cp.String() != key {
			continue
		}
		members = append(members, ctl)
	}
	return members
}

// reflectErrors subscribes to the errors store and mirrors messages
// onto control presentation attributes. A per-control cache keeps
// unrelated error changes from storming the tree with redundant
// attribute writes.
func (b *Binding) reflectErrors() {
	b.removers = append(b.removers, b.Errors.Subscribe(func(errs path.Tree) {
		for _, ctl := range Scan(b.root) {
			p, ok := path.ResolvePath(ctl)
			if !ok {
				continue
			}
			v, _ := path.Get(errs, p)
			msg := messagePolicy.Sanitize(errorMessage(v))

			last, seen := b.lastMessage[ctl]
			if seen && last == msg || !seen && msg == "" {
				continue
			}
			b.lastMessage[ctl] = msg
			if msg == "" {
				ctl.RemoveAttr(ctree.AttrValidationMessage)
				ctl.RemoveAttr(ctree.AttrInvalid)
			} else {
				ctl.SetAttr(ctree.AttrValidationMessage, msg)
				ctl.SetAttr(ctree.AttrInvalid, "true")
			}
		}
	}))
}

// errorMessage flattens an error-tree leaf into the display string:
// plain strings pass through, slices join on newlines.
func errorMessage(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(nonEmpty(t), "\n")
	case []any:
		var msgs []string
		for _, m := range t {
			if s, ok := m.(string); ok && s != "" {
				msgs = append(msgs, s)
			}
		}
		return strings.Join(msgs, "\n")
	default:
		return ""
	}
}

func nonEmpty(ss []string) []string {
	var out []string
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
