package clish

// ConfigHook runs once per executed line (spec.md §6 externalized),
// after the line has parsed and before the bound Action is dispatched.
// A nonzero code aborts the command: the Action does not run and the
// view stack is left unchanged.
type ConfigHook func(ctx *ParseContext) int

// LogHook runs once per executed line, after the bound Action returns,
// recording fullLine and the action's exit code for audit purposes.
type LogHook func(ctx *ParseContext, fullLine string, code int) int

// Hook wraps a ConfigHook or LogHook with the permanence flag that
// governs whether it still runs under Config.DryRun.
type Hook struct {
	Config    ConfigHook
	Log       LogHook
	Permanent bool
}

// Hooks is the ordered set of hooks registered on a Shell.
type Hooks struct {
	entries []Hook
}

// Register appends h to the hook chain, in the order it should run.
func (h *Hooks) Register(hook Hook) {
	h.entries = append(h.entries, hook)
}

// RunConfig invokes every registered ConfigHook in order, skipping
// non-permanent hooks when dryRun is set, stopping at (and returning)
// the first nonzero code.
func (h *Hooks) RunConfig(ctx *ParseContext, dryRun bool) int {
	if h == nil {
		return 0
	}
	for _, hook := range h.entries {
		if hook.Config == nil {
			continue
		}
		if dryRun && !hook.Permanent {
			continue
		}
		if code := hook.Config(ctx); code != 0 {
			return code
		}
	}
	return 0
}

// RunLog invokes every registered LogHook in order, skipping
// non-permanent hooks when dryRun is set. Unlike RunConfig, a nonzero
// return from one log hook does not stop the rest from running — log
// hooks record, they don't gate.
func (h *Hooks) RunLog(ctx *ParseContext, fullLine string, code int, dryRun bool) {
	if h == nil {
		return
	}
	for _, hook := range h.entries {
		if hook.Log == nil {
			continue
		}
		if dryRun && !hook.Permanent {
			continue
		}
		hook.Log(ctx, fullLine, code)
	}
}
