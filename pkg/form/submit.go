package form

import (
	"context"

	"github.com/formic-dev/formic/pkg/ctree"
	"github.com/formic-dev/formic/pkg/path"
)

// Handler is an async-capable submit handler. It can be driven by a
// tree submit event or invoked programmatically with a nil event.
type Handler func(ctx context.Context, evt *ctree.Event) error

// SubmitOption overrides parts of the binding configuration for one
// handler. Grounds for overrides: multi-button forms where each button
// submits through a differently configured pipeline.
type SubmitOption func(*submitConfig)

type submitConfig struct {
	onSubmit   SubmitFunc
	onError    RecoverFunc
	validators []ValidateFunc
	warners    []ValidateFunc
}

// SubmitAction overrides the submit action for this handler.
func SubmitAction(fn SubmitFunc) SubmitOption {
	return func(c *submitConfig) { c.onSubmit = fn }
}

// SubmitOnError overrides the recovery function for this handler.
func SubmitOnError(fn RecoverFunc) SubmitOption {
	return func(c *submitConfig) { c.onError = fn }
}

// SubmitValidators replaces the validator set for this handler.
func SubmitValidators(fns ...ValidateFunc) SubmitOption {
	return func(c *submitConfig) { c.validators = fns }
}

// SubmitWarners replaces the warner set for this handler.
func SubmitWarners(fns ...ValidateFunc) SubmitOption {
	return func(c *submitConfig) { c.warners = fns }
}

// CreateSubmitHandler builds a submit handler for this binding. With no
// resolvable submit action the handler is a deliberate no-op rather
// than an error: callers must not rely on a thrown signal here.
//
// Nothing serializes overlapping submissions; a second call while one
// is in flight starts independently and the two interleave at the
// scheduler's discretion.
func (b *Binding) CreateSubmitHandler(overrides ...SubmitOption) Handler {
	sc := submitConfig{
		onSubmit:   b.cfg.OnSubmit,
		onError:    b.cfg.OnError,
		validators: b.cfg.Validators,
		warners:    b.cfg.Warners,
	}
	for _, o := range overrides {
		o(&sc)
	}

	if sc.onSubmit == nil {
		return func(context.Context, *ctree.Event) error { return nil }
	}

	return func(ctx context.Context, evt *ctree.Event) (err error) {
		if evt != nil {
			evt.PreventDefault()
		}

		b.IsSubmitting.Set(true)
		// Guaranteed release on every exit path, including panics in
		// the submit action.
		defer b.IsSubmitting.Set(false)

		// The snapshot freezes this submission against concurrent
		// edits; validation and transport only ever see the copy.
		snapshot := path.CopyTree(b.Data.Get())

		errTree := path.Tree{}
		for _, validate := range sc.validators {
			found, verr := validate(ctx, snapshot)
			if verr != nil {
				return verr
			}
			errTree = mergeMessages(errTree, found)
		}

		warnTree := path.Tree{}
		for _, warn := range sc.warners {
			found, werr := warn(ctx, snapshot)
			if werr != nil {
				return werr
			}
			warnTree = mergeMessages(warnTree, found)
		}
		b.Warnings.Set(warnTree)

		// A submit attempt touches the whole tree.
		b.Touched.Update(func(t path.Tree) path.Tree {
			return path.Shape(t, true).(path.Tree)
		})

		if path.Some(errTree, truthyMessage) {
			b.Errors.Set(errTree)
			b.notifySubmitError(ctx, snapshot, errTree)
			return nil
		}
		b.Errors.Set(path.Tree{})

		serr := sc.onSubmit(ctx, snapshot, &SubmitContext{
			Root:     b.root,
			Controls: Scan(b.root),
			Config:   &b.cfg,
		})
		if serr == nil {
			return nil
		}
		if sc.onError == nil {
			return serr
		}
		if replacement, ok := sc.onError(ctx, serr); ok {
			b.Errors.Set(replacement)
			b.notifySubmitError(ctx, snapshot, replacement)
		}
		return nil
	}
}

// HandleSubmit is the ambient default handler, usable directly as a
// submit-event listener.
func (b *Binding) HandleSubmit(ctx context.Context, evt *ctree.Event) error {
	return b.handleSubmit(ctx, evt)
}

// onSubmitEvent adapts tree submit events to the ambient handler.
// Unrecovered transport failures have no caller here, so they are
// logged instead of lost.
func (b *Binding) onSubmitEvent(e *ctree.Event) {
	if err := b.handleSubmit(context.Background(), e); err != nil {
		b.logger().Error("formic: submit failed", "error", err)
	}
}

// mergeMessages merges one validator's findings into the accumulated
// error tree. Findings for the same path accumulate instead of
// overwriting each other.
func mergeMessages(base, overlay path.Tree) path.Tree {
	for k, ov := range overlay {
		bv, ok := base[k]
		if !ok {
			base[k] = ov
			continue
		}
		if bt, ok := bv.(path.Tree); ok {
			if ot, ok := ov.(path.Tree); ok {
				base[k] = mergeMessages(bt, ot)
				continue
			}
		}
		base[k] = appendMessages(bv, ov)
	}
	return base
}

// appendMessages flattens two message leaves into one []string.
func appendMessages(a, b any) any {
	out := collectMessages(nil, a)
	out = collectMessages(out, b)
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return out
	}
}

func collectMessages(out []string, v any) []string {
	switch t := v.(type) {
	case string:
		if t != "" {
			out = append(out, t)
		}
	case []string:
		out = append(out, nonEmpty(t)...)
	case []any:
		for _, m := range t {
			if s, ok := m.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// truthyMessage reports whether an error-tree leaf carries a message.
func truthyMessage(v any) bool {
	switch t := v.(type) {
	case string:
		return t != ""
	case []string:
		return len(nonEmpty(t)) > 0
	case []any:
		for _, m := range t {
			if s, ok := m.(string); ok && s != "" {
				return true
			}
		}
		return false
	default:
		return false
	}
}
