package extenders

import (
	"context"
	"log/slog"

	"github.com/formic-dev/formic/pkg/form"
	"github.com/formic-dev/formic/pkg/path"
)

// Logging creates an extender that logs binding lifecycle and
// submission outcomes through a structured logger. A nil logger uses
// slog.Default().
func Logging(logger *slog.Logger) form.Extender {
	return func(ec form.ExtenderContext) any {
		l := logger
		if l == nil {
			l = slog.Default()
		}
		l.Debug("formic: extenders mounted",
			"stage", ec.Stage.String(),
			"controls", len(ec.Controls),
		)

		inst := &loggingInstance{logger: l}
		inst.unsub = ec.IsSubmitting.Subscribe(func(submitting bool) {
			if submitting && !inst.inFlight {
				inst.inFlight = true
				l.Debug("formic: submission started")
				return
			}
			if !submitting && inst.inFlight {
				inst.inFlight = false
				l.Debug("formic: submission settled")
			}
		})
		return inst
	}
}

type loggingInstance struct {
	logger   *slog.Logger
	unsub    func()
	inFlight bool
}

func (i *loggingInstance) OnSubmitError(_ context.Context, _, errs path.Tree) {
	i.logger.Warn("formic: submission failed", "error_paths", countMessages(errs))
}

func (i *loggingInstance) Destroy() {
	i.unsub()
}
