package clish

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pongAction(_ context.Context, _ *ParseContext, _ *PArgV) (int, *string, error) {
	out := "pong\n"
	return 0, &out, nil
}

func newTestShell(t *testing.T) (*Shell, *Command) {
	t.Helper()

	root := NewView("root", "clish> ")
	ping := &Command{Name: "ping", Text: "reachability check", Action: SimpleAction(pongAction)}
	root.AddCommand(ping)
	root.AddCommand(buildShowCommand())

	catalogue := NewCatalogue()
	catalogue.AddView(root)

	sh := NewShell(NewRegistry(), catalogue, root, DefaultConfig())
	return sh, ping
}

// TestShellExecuteLineDispatchesAction covers the ExecuteLine happy path:
// a fully satisfied command dispatches its Action and surfaces the
// stdout it returns with no Err.
func TestShellExecuteLineDispatchesAction(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t)

	result := sh.ExecuteLine(context.Background(), "ping")

	require.Nil(t, result.Err)
	assert.Equal(t, "pong\n", result.Action.Stdout)
	assert.Equal(t, 0, result.Action.ExitCode)
}

// TestShellExecuteLineUnknownCommand covers the UnknownCommand path: a
// line that abbreviates no registered command name is reported with
// KindUnknownCommand and no Action runs.
func TestShellExecuteLineUnknownCommand(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t)

	result := sh.ExecuteLine(context.Background(), "pong")

	require.NotNil(t, result.Err)
	assert.Equal(t, KindUnknownCommand, result.Err.Kind)
}

// TestShellExecuteLineBadParameter covers the BadParameter path end to
// end through the Shell: an out-of-range numeric argument surfaces the
// dedicated range message via ParseResult.FailedCause.
func TestShellExecuteLineBadParameter(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t)

	result := sh.ExecuteLine(context.Background(), "show eth0 9000")

	require.NotNil(t, result.Err)
	assert.Equal(t, KindBadParameter, result.Err.Kind)
	assert.Contains(t, result.Err.Message, "out of range")
}

// TestShellHelpLine covers Shell.HelpLine delegating to Help() over the
// current view-stack top.
func TestShellHelpLine(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t)

	rows := sh.HelpLine("sh", 0)

	require.Len(t, rows, 1)
	assert.Equal(t, "show", rows[0].Name)
}

// TestShellCompleteLine covers Shell.CompleteLine completing a partial
// first word of a not-yet-resolvable multi-word command name against the
// current view's candidates.
func TestShellCompleteLine(t *testing.T) {
	t.Parallel()

	root := NewView("root", "")
	root.AddCommand(&Command{Name: "configure terminal"})

	catalogue := NewCatalogue()
	catalogue.AddView(root)

	sh := NewShell(NewRegistry(), catalogue, root, DefaultConfig())

	result := sh.CompleteLine("conf", 0)

	require.False(t, result.Ambiguous)
	assert.Equal(t, "igure ", result.Replacement)
}
