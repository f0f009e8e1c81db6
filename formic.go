// Package formic binds HTML-shaped control trees to reactive data
// stores: values flow from user events into a value tree, and error,
// warning and touched trees shadow it through validation and
// submission.
//
// This is the recommended import for most applications:
//
//	import "github.com/formic-dev/formic"
//
// Usage:
//
//	root := ctree.Form(ctree.Text("user.name"))
//	b := formic.Bind(root,
//	    formic.WithValidators(validate),
//	    formic.WithOnSubmit(transport.HTTP("https://api.example.com/signup")),
//	)
//	defer b.Destroy()
package formic

import (
	"github.com/formic-dev/formic/pkg/ctree"
	"github.com/formic-dev/formic/pkg/form"
	"github.com/formic-dev/formic/pkg/path"
)

// =============================================================================
// Binding (re-export from pkg/form)
// =============================================================================

// Binding is a live connection between a control tree and its stores.
type Binding = form.Binding

// Config carries the binding configuration assembled from options.
type Config = form.Config

// Option configures a binding.
type Option = form.Option

// Bind attaches the engine to a control tree and returns the live
// binding.
//
// Example:
//
//	b := formic.Bind(root, formic.WithInitialValues(path.Tree{"name": "Ada"}))
//	b.Data.Subscribe(func(t path.Tree) { ... })
func Bind(root *ctree.Node, opts ...Option) *Binding {
	return form.Bind(root, opts...)
}

// Binding options.
var (
	WithInitialValues = form.WithInitialValues
	WithValidators    = form.WithValidators
	WithWarners       = form.WithWarners
	WithOnSubmit      = form.WithOnSubmit
	WithOnError       = form.WithOnError
	WithExtenders     = form.WithExtenders
	WithTouchTriggers = form.WithTouchTriggers
	WithLogger        = form.WithLogger
)

// =============================================================================
// Callbacks and submission
// =============================================================================

// ValidateFunc inspects a value snapshot and returns messages shaped
// like the data.
type ValidateFunc = form.ValidateFunc

// SubmitFunc carries an accepted snapshot to its destination.
type SubmitFunc = form.SubmitFunc

// RecoverFunc maps a failed submission onto the error tree.
type RecoverFunc = form.RecoverFunc

// SubmitContext gives submit actions access to the bound tree.
type SubmitContext = form.SubmitContext

// Handler runs one submission through the pipeline.
type Handler = form.Handler

// SubmitOption overrides binding configuration for one handler.
type SubmitOption = form.SubmitOption

// Per-handler overrides.
var (
	SubmitAction     = form.SubmitAction
	SubmitOnError    = form.SubmitOnError
	SubmitValidators = form.SubmitValidators
	SubmitWarners    = form.SubmitWarners
)

// =============================================================================
// Extenders
// =============================================================================

// Extender observes and augments a binding's lifecycle.
type Extender = form.Extender

// ExtenderContext is what each extender factory receives.
type ExtenderContext = form.ExtenderContext

// Extender mount stages.
const (
	StageMount  = form.StageMount
	StageUpdate = form.StageUpdate
)

// =============================================================================
// Trees and paths (re-export from pkg/path)
// =============================================================================

// Tree is the nested value representation bound to a form.
type Tree = path.Tree

// Path addresses one leaf in a tree.
type Path = path.Path

// Path and tree helpers.
var (
	ParsePath = path.Parse
	MustPath  = path.MustParse
	Get       = path.Get
	Set       = path.Set
	Unset     = path.Unset
	Merge     = path.Merge
)

// =============================================================================
// Scanning
// =============================================================================

// Scan returns the bindable controls under a root in document order.
func Scan(root *ctree.Node) []*ctree.Node { return form.Scan(root) }

// Defaults reads the control tree's declared values into a Tree.
func Defaults(root *ctree.Node) Tree { return form.Defaults(root) }
