package form

import (
	"context"
	"log/slog"

	"github.com/formic-dev/formic/pkg/ctree"
	"github.com/formic-dev/formic/pkg/path"
)

// ValidateFunc checks a data snapshot and returns an error tree with the
// same shape as the data (leaves: string, []string or nil). A nil tree
// means no findings. A non-nil error is a hard failure of the function
// itself (not a validation result) and aborts the submission.
type ValidateFunc func(ctx context.Context, data path.Tree) (path.Tree, error)

// SubmitFunc performs the side-effecting submission of a snapshot.
type SubmitFunc func(ctx context.Context, data path.Tree, sc *SubmitContext) error

// RecoverFunc turns a submit failure into a replacement error tree.
// Returning ok=false stores nothing; either way the failure is
// considered handled and does not propagate.
type RecoverFunc func(ctx context.Context, err error) (errors path.Tree, ok bool)

// SubmitContext is passed to the submit action alongside the snapshot.
type SubmitContext struct {
	Root     *ctree.Node
	Controls []*ctree.Node
	Config   *Config
}

// Config is the merged binding configuration.
type Config struct {
	InitialValues path.Tree

	Validators []ValidateFunc
	Warners    []ValidateFunc

	OnSubmit SubmitFunc
	OnError  RecoverFunc

	Extenders []Extender

	// Touch triggers. Data writes are unconditional; touching is
	// configurable per event family.
	TouchOnInput  bool
	TouchOnChange bool
	TouchOnBlur   bool

	Logger *slog.Logger
}

// Option configures a binding.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		TouchOnInput:  false,
		TouchOnChange: true,
		TouchOnBlur:   true,
		Logger:        slog.Default(),
	}
}

// WithInitialValues supplies externally provided initial values. They
// win over scanned control defaults; defaults only fill gaps.
func WithInitialValues(values path.Tree) Option {
	return func(c *Config) { c.InitialValues = values }
}

// WithValidators appends validation functions run on every submission.
func WithValidators(fns ...ValidateFunc) Option {
	return func(c *Config) { c.Validators = append(c.Validators, fns...) }
}

// WithWarners appends warning functions. Warnings are stored but never
// block submission.
func WithWarners(fns ...ValidateFunc) Option {
	return func(c *Config) { c.Warners = append(c.Warners, fns...) }
}

// WithOnSubmit sets the submit action.
func WithOnSubmit(fn SubmitFunc) Option {
	return func(c *Config) { c.OnSubmit = fn }
}

// WithOnError sets the submit-failure recovery function.
func WithOnError(fn RecoverFunc) Option {
	return func(c *Config) { c.OnError = fn }
}

// WithExtenders registers extender factories mounted with the binding.
func WithExtenders(exts ...Extender) Option {
	return func(c *Config) { c.Extenders = append(c.Extenders, exts...) }
}

// WithTouchTriggers selects which event families mark paths touched.
func WithTouchTriggers(onInput, onChange, onBlur bool) Option {
	return func(c *Config) {
		c.TouchOnInput = onInput
		c.TouchOnChange = onChange
		c.TouchOnBlur = onBlur
	}
}

// WithLogger sets the structured logger used for non-fatal engine
// events (ambient submit failures, reconciliation notes).
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}
