package clish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolveCommandAbbreviates covers S3: "conf t" resolves to
// "configure terminal" via independent per-word abbreviation.
func TestResolveCommandAbbreviates(t *testing.T) {
	t.Parallel()

	v := NewView("root", "")
	v.AddCommand(&Command{Name: "configure terminal"})
	v.AddCommand(&Command{Name: "copy running-config startup-config"})

	res := v.ResolveCommand("conf t", nil)

	require.NotNil(t, res.Command)
	assert.Equal(t, "configure terminal", res.Command.Name)
	assert.Empty(t, res.Ambiguous)
}

// TestResolveCommandLongerNameWins covers the longer-name-wins tie-break:
// "show int" abbreviates both the one-word "show" command and the
// two-word "show interface" command, and the two-word name wins.
func TestResolveCommandLongerNameWins(t *testing.T) {
	t.Parallel()

	v := NewView("root", "")
	v.AddCommand(&Command{Name: "show"})
	v.AddCommand(&Command{Name: "show interface"})

	res := v.ResolveCommand("show int", nil)

	require.NotNil(t, res.Command)
	assert.Equal(t, "show interface", res.Command.Name)
}

// TestResolveCommandAmbiguous covers spec.md §7's AmbiguousCommand case:
// two distinct commands whose names both abbreviate equally against the
// typed line, with neither containing the other, are reported as a tied
// set rather than an arbitrary pick.
func TestResolveCommandAmbiguous(t *testing.T) {
	t.Parallel()

	v := NewView("root", "")
	v.AddCommand(&Command{Name: "clear counters"})
	v.AddCommand(&Command{Name: "clear console"})

	res := v.ResolveCommand("clear co", nil)

	assert.Nil(t, res.Command)
	assert.Len(t, res.Ambiguous, 2)
}

// TestResolveCommandGlobalFallback covers spec.md §4.3's view composition:
// a command declared only on the Global view still resolves from a child
// view that does not itself declare it.
func TestResolveCommandGlobalFallback(t *testing.T) {
	t.Parallel()

	global := NewView("global", "")
	global.AddCommand(&Command{Name: "exit"})

	child := NewView("interface", "")
	child.Global = global
	child.AddCommand(&Command{Name: "shutdown"})

	res := child.ResolveCommand("exit", nil)

	require.NotNil(t, res.Command)
	assert.Equal(t, "exit", res.Command.Name)
}

// TestResolveCommandHonorsTest covers spec.md §4.3's Test-gating: a
// candidate whose Test expression evaluates false is not considered a
// match by ResolveCommand (unlike ResolvePrefix, which ignores Test).
func TestResolveCommandHonorsTest(t *testing.T) {
	t.Parallel()

	v := NewView("root", "")
	v.AddCommand(&Command{Name: "debug", Test: "0"})

	assert.NotNil(t, v.ResolvePrefix("debug").Command)
	assert.Nil(t, v.ResolveCommand("debug", &ParseContext{}).Command)
}
