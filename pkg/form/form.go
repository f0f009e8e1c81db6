package form

import (
	"log/slog"

	"github.com/formic-dev/formic/pkg/ctree"
	"github.com/formic-dev/formic/pkg/path"
	"github.com/formic-dev/formic/pkg/store"
)

// Binding is the live connection between one control tree and its
// stores. All lifecycle state, including the current extender
// generation, is owned here; there are no package-level slots.
type Binding struct {
	root *ctree.Node
	cfg  Config

	// Data mirrors the control values as a nested tree. The engine
	// never keeps a private copy: reads go through Get, writes through
	// Update, submissions through deep-copied snapshots.
	Data *store.Store[path.Tree]

	// Touched, Errors and Warnings are shadow trees sharing Data's
	// shape.
	Touched  *store.Store[path.Tree]
	Errors   *store.Store[path.Tree]
	Warnings *store.Store[path.Tree]

	// IsSubmitting is true exactly while one submission handler body
	// runs. IsDirty latches true on the first recognized edit.
	IsSubmitting *store.Store[bool]
	IsDirty      *store.Store[bool]

	extenders    []any
	removers     []func()
	observer     *ctree.Observer
	lastMessage  map[*ctree.Node]string
	handleSubmit Handler
	destroyed    bool
}

// Bind attaches the engine to a control tree: scan controls, initialize
// the stores from declared defaults merged under any supplied initial
// values, attach value-event listeners and the structural observer, and
// mount extenders.
func Bind(root *ctree.Node, opts ...Option) *Binding {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &Binding{
		root:        root,
		cfg:         cfg,
		lastMessage: map[*ctree.Node]string{},
	}

	data := path.Merge(path.CopyTree(cfg.InitialValues), Defaults(root))
	b.Data = store.New(data)
	b.Touched = store.New(path.Shape(data, false).(path.Tree))
	b.Errors = store.New(path.Shape(data, nil).(path.Tree))
	b.Warnings = store.New(path.Shape(data, nil).(path.Tree))
	b.IsSubmitting = store.New(false)
	b.IsDirty = store.New(false)

	b.handleSubmit = b.CreateSubmitHandler()

	b.attachListeners()
	b.reflectErrors()
	b.observer = root.Observe(b.reconcile)
	b.mountExtenders(StageMount)

	return b
}

// Root returns the bound control tree root.
func (b *Binding) Root() *ctree.Node {
	return b.root
}

// Destroy tears the binding down: listeners and the structural observer
// are removed and extender resources released. It does not abort an
// in-flight submission; a pending submit action runs to completion
// against its snapshot.
func (b *Binding) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true

	for _, remove := range b.removers {
		remove()
	}
	b.removers = nil
	b.observer.Disconnect()
	b.destroyExtenders()
}

func (b *Binding) logger() *slog.Logger {
	if b.cfg.Logger != nil {
		return b.cfg.Logger
	}
	return slog.Default()
}
