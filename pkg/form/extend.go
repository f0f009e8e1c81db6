package form

import (
	"context"

	"github.com/formic-dev/formic/pkg/ctree"
	"github.com/formic-dev/formic/pkg/path"
	"github.com/formic-dev/formic/pkg/store"
)

// Stage tells an extender why it is being instantiated.
type Stage uint8

const (
	// StageMount is the initial instantiation when the tree is bound.
	StageMount Stage = iota
	// StageUpdate is a remount after a structural change.
	StageUpdate
)

// String returns the string representation of the Stage.
func (s Stage) String() string {
	switch s {
	case StageMount:
		return "mount"
	case StageUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Extender is a factory for a lifecycle-bound observer attached to a
// binding. It is invoked once on mount and again after every
// structural update, each time with a fresh context. It may return nil
// when it has nothing to keep alive.
//
// The returned instance may implement either of two optional
// capabilities, discovered by type assertion:
//
//	interface{ OnSubmitError(ctx context.Context, data, errors path.Tree) }
//	interface{ Destroy() }
type Extender func(ec ExtenderContext) any

// ExtenderContext is the bundle handed to extender factories.
type ExtenderContext struct {
	Root     *ctree.Node
	Stage    Stage
	Controls []*ctree.Node

	Data     *store.Store[path.Tree]
	Touched  *store.Store[path.Tree]
	Errors   *store.Store[path.Tree]
	Warnings *store.Store[path.Tree]

	IsSubmitting *store.Store[bool]
	IsDirty      *store.Store[bool]

	Config *Config

	// CreateSubmitHandler builds a submit handler bound to this
	// binding, so extenders can trigger programmatic submission.
	CreateSubmitHandler func(overrides ...SubmitOption) Handler
}

type submitErrorHandler interface {
	OnSubmitError(ctx context.Context, data, errors path.Tree)
}

type destroyer interface {
	Destroy()
}

// mountExtenders destroys the current extender instances and creates a
// new generation. Exactly one generation is live at any time; every
// instance is destroyed once before its replacement exists and none
// survives a remount.
func (b *Binding) mountExtenders(stage Stage) {
	b.destroyExtenders()

	ec := ExtenderContext{
		Root:                b.root,
		Stage:               stage,
		Controls:            Scan(b.root),
		Data:                b.Data,
		Touched:             b.Touched,
		Errors:              b.Errors,
		Warnings:            b.Warnings,
		IsSubmitting:        b.IsSubmitting,
		IsDirty:             b.IsDirty,
		Config:              &b.cfg,
		CreateSubmitHandler: b.CreateSubmitHandler,
	}
	for _, factory := range b.cfg.Extenders {
		if inst := factory(ec); inst != nil {
			b.extenders = append(b.extenders, inst)
		}
	}
}

// destroyExtenders tears down the live generation.
func (b *Binding) destroyExtenders() {
	for _, inst := range b.extenders {
		if d, ok := inst.(destroyer); ok {
			d.Destroy()
		}
	}
	b.extenders = nil
}

// notifySubmitError fans a failed submission out to the live extender
// instances that care.
func (b *Binding) notifySubmitError(ctx context.Context, data, errs path.Tree) {
	for _, inst := range b.extenders {
		if h, ok := inst.(submitErrorHandler); ok {
			h.OnSubmitError(ctx, data, errs)
		}
	}
}
