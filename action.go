package clish

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
)

// maxCapturedStdout bounds how much of a CapturingAction's stdout the
// engine will buffer before discarding the remainder (spec.md §6
// externalized — see SPEC_FULL.md §4.6).
const maxCapturedStdout = 1 << 20 // 1 MiB

// Action is the pluggable implementation bound to a Command (spec.md
// §1's "external collaborator"). It is a closed tagged union of the two
// shapes below, mirroring the teacher's Commander/CommanderClient split
// in execute.go: a command either produces its own stdout string
// directly, or writes to the process's stdout stream and asks the
// engine to capture it.
type Action interface {
	isAction()
}

// SimpleAction runs ctx/argv and reports its own exit code, optional
// stdout, and error directly — no capture plumbing involved.
type SimpleAction func(ctx context.Context, pctx *ParseContext, argv *PArgV) (exitCode int, stdout *string, err error)

func (SimpleAction) isAction() {}

// CapturingAction runs ctx/argv, writing any output to os.Stdout; the
// engine redirects that descriptor through a pipe for the duration of
// the call and returns what was captured alongside the reported exit
// code and error.
type CapturingAction func(ctx context.Context, pctx *ParseContext, argv *PArgV) (exitCode int, err error)

func (CapturingAction) isAction() {}

// ActionResult is the normalized outcome of Dispatch, regardless of
// which Action shape ran.
type ActionResult struct {
	ExitCode int
	Stdout   string
	Err      error
}

// Dispatch runs cmd.Action against pctx/argv, normalizing both Action
// shapes into a single ActionResult. A nil Action is a no-op success,
// used by commands whose only effect is a view transition.
func Dispatch(ctx context.Context, cmd *Command, pctx *ParseContext, argv *PArgV) ActionResult {
	switch action := cmd.Action.(type) {
	case nil:
		return ActionResult{}

	case SimpleAction:
		code, stdout, err := action(ctx, pctx, argv)
		out := ""
		if stdout != nil {
			out = *stdout
		}
		return ActionResult{ExitCode: code, Stdout: out, Err: err}

	case CapturingAction:
		return dispatchCapturing(ctx, action, pctx, argv)

	default:
		return ActionResult{ExitCode: 1, Err: SystemErrorOf(errUnknownActionShape)}
	}
}

var errUnknownActionShape = errors.New("action is neither SimpleAction nor CapturingAction")

// dispatchCapturing redirects os.Stdout through a pipe for the duration
// of action's call, draining it in a goroutine into a buffer capped at
// maxCapturedStdout so a runaway action can't exhaust memory.
func dispatchCapturing(ctx context.Context, action CapturingAction, pctx *ParseContext, argv *PArgV) ActionResult {
	r, w, err := os.Pipe()
	if err != nil {
		return ActionResult{ExitCode: 1, Err: SystemErrorOf(err)}
	}

	realStdout := os.Stdout
	os.Stdout = w

	done := make(chan struct{})
	cw := &cappedWriter{limit: maxCapturedStdout}

	go func() {
		defer close(done)
		io.Copy(cw, r)
	}()

	code, actionErr := action(ctx, pctx, argv)

	os.Stdout = realStdout
	w.Close()
	<-done
	r.Close()

	return ActionResult{ExitCode: code, Stdout: cw.buf.String(), Err: actionErr}
}

// cappedWriter accepts an unbounded stream (so the pipe is always fully
// drained and the writer side never blocks) but buffers only the first
// limit bytes, discarding the rest.
type cappedWriter struct {
	buf   bytes.Buffer
	limit int
}

func (c *cappedWriter) Write(p []byte) (int, error) {
	if room := c.limit - c.buf.Len(); room > 0 {
		if room > len(p) {
			room = len(p)
		}
		c.buf.Write(p[:room])
	}
	return len(p), nil
}
