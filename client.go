package clish

import (
	"context"
	"sync"
)

// Shell is the engine's single per-session orchestrator: it owns the
// read-only Registry/Catalogue built at schema-load time, the
// session-owned ViewStack, and the hook chain, and exposes the three
// operations an interactive front end drives a line through (spec.md
// §1, §5): ExecuteLine, HelpLine, CompleteLine.
type Shell struct {
	Registry  *Registry
	Catalogue *Catalogue
	Stack     *ViewStack
	Hooks     *Hooks
	Config    Config

	mutex sync.RWMutex
}

// NewShell builds a Shell over a schema already loaded into registry
// and catalogue, starting the view stack at root.
func NewShell(registry *Registry, catalogue *Catalogue, root *View, cfg Config) *Shell {
	return &Shell{
		Registry:  registry,
		Catalogue: catalogue,
		Stack:     NewViewStack(root),
		Hooks:     &Hooks{},
		Config:    cfg,
	}
}

// ExecuteResult is the outcome of running one line to completion.
type ExecuteResult struct {
	Parse  *ParseResult
	Action ActionResult
	Err    *Error
}

// currentContext builds the ParseContext for the current view-stack
// state, useAltName coming from the caller (the editor/session layer
// owns that predicate per spec.md §9).
func (sh *Shell) currentContext(bindings *PArgV, useAltName bool) *ParseContext {
	ctx := NewParseContext(bindings, sh.Stack, useAltName)
	if top := sh.Stack.Top(); top != nil {
		ctx.InInterfaceFamily = isInterfaceFamily(top.Name)
	}
	return ctx
}

func isInterfaceFamily(name string) bool {
	return len(name) >= len("interface") && name[:len("interface")] == "interface"
}

// ExecuteLine resolves line against the current view, parses it to
// completion, and — on a fully satisfied OK parse — dispatches the
// command's Action under the advisory lock and runs the hook chain
// (spec.md §4.4, §4.6, §4.9). A non-OK parse status is reported as the
// matching Error and no Action runs.
func (sh *Shell) ExecuteLine(ctx context.Context, line string) ExecuteResult {
	sh.mutex.Lock()
	defer sh.mutex.Unlock()

	tokens := Tokenize(line)
	pctx := sh.currentContext(nil, false)

	view := sh.Stack.Top()
	res := view.ResolveCommand(line, pctx)

	if len(res.Ambiguous) > 0 {
		return ExecuteResult{Err: AmbiguousCommandError()}
	}
	if res.Command == nil {
		suggestion := suggestCommand(firstWord(tokens), view.allCandidates())
		return ExecuteResult{Err: UnknownCommandError(tokens, 0, 0, suggestion)}
	}

	cmd := res.Command
	result := ParseCommand(cmd, tokens, -1, nil, sh.currentContext(nil, false))

	switch result.Status {
	case StatusPartial:
		return ExecuteResult{Parse: result, Err: PartialCommandError()}
	case StatusBadCmd:
		suggestion := suggestCommand(firstWord(tokens), view.allCandidates())
		return ExecuteResult{Parse: result, Err: UnknownCommandError(tokens, result.ErrToken, result.StrMatchLen, suggestion)}
	case StatusBadParam:
		return ExecuteResult{Parse: result, Err: BadParameterError(tokens, result, result.FailedCause)}
	}

	execCtx := sh.currentContext(result.Bindings, false)

	lock, err := sh.acquireLock()
	if err != nil {
		return ExecuteResult{Parse: result, Err: SystemErrorOf(err)}
	}
	defer lock.Release()

	if code := sh.Hooks.RunConfig(execCtx, sh.Config.DryRun); code != 0 {
		return ExecuteResult{Parse: result, Err: ScriptErrorOf(code)}
	}

	action := Dispatch(ctx, cmd, execCtx, result.Bindings)
	sh.Hooks.RunLog(execCtx, line, action.ExitCode, sh.Config.DryRun)

	vars := viewVarsFromBindings(cmd, result.Bindings, execCtx)
	sh.Stack.Apply(cmd, sh.Catalogue, vars)

	out := ExecuteResult{Parse: result, Action: action}
	if action.ExitCode != 0 {
		out.Err = ScriptErrorOf(action.ExitCode)
	}
	return out
}

// viewVarsFromBindings expands cmd.Viewid (if set) against execCtx into
// the variable map the new view-stack frame carries, per spec.md §6.
func viewVarsFromBindings(cmd *Command, bindings *PArgV, execCtx *ParseContext) map[string]string {
	if cmd.Viewid == "" {
		return nil
	}
	return map[string]string{"id": Expand(cmd.Viewid, execCtx)}
}

func (sh *Shell) acquireLock() (*FileLock, error) {
	if sh.Config.Lockless || sh.Config.LockPath == "" {
		return nil, nil
	}
	return AcquireLock(sh.Config.LockPath, false)
}

// HelpLine services a `?` request at the cursor token index needIndex
// within line (spec.md §4.5).
func (sh *Shell) HelpLine(line string, needIndex int) []HelpRow {
	sh.mutex.RLock()
	defer sh.mutex.RUnlock()

	tokens := Tokenize(line)
	ctx := sh.currentContext(nil, false)
	return Help(sh.Stack.Top(), tokens, needIndex, ctx)
}

// CompleteLine services a Tab request at the cursor token index
// needIndex within line (spec.md §4.5).
func (sh *Shell) CompleteLine(line string, needIndex int) CompleteResult {
	sh.mutex.RLock()
	defer sh.mutex.RUnlock()

	tokens := Tokenize(line)
	ctx := sh.currentContext(nil, false)
	view := sh.Stack.Top()

	typed := ""
	if needIndex < len(tokens) {
		typed = tokens[needIndex].Text
	}

	collector := NewCollector()
	if res := view.ResolveCommand(line, ctx); res.Command != nil {
		ParseCommand(res.Command, tokens, needIndex, collector, ctx)
	} else {
		for _, c := range view.allCandidates() {
			if c.Hidden {
				continue
			}
			if c.Test != "" && !EvalTest(c.Test, ctx) {
				continue
			}
			words := c.NameWords()
			if needIndex < len(words) && priorWordsAbbreviate(words, tokens, needIndex) {
				collector.Add(&Param{Name: c.Name, Mode: ModeSubcommand, Value: words[needIndex]})
			}
		}
	}

	return Complete(collector.Params(), typed)
}

func firstWord(tokens []Token) string {
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0].Text
}
