package clish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// interfaceItems returns the three-way ethernet/vlan/portchannel select
// list shared by the tests below, with ext_help text so the usename
// policy's UseName rows carry a help string (mirrors the engine's
// "show <ifname>" family of commands).
func interfaceItems() []SelectItem {
	return []SelectItem{
		{Name: "ethernet", ExtHelp: "<ethernet id>"},
		{Name: "vlan", ExtHelp: "<vlan id>"},
		{Name: "portchannel", ExtHelp: "<portchannel id>"},
	}
}

// buildShowCommand builds a single-word "show" command taking a
// mandatory ifname (regexp-select) followed by a mandatory num
// (unsignedInteger), the fixture scenarios S1/S2/S5/S6 are built around.
func buildShowCommand() *Command {
	ifname := &Param{
		Name: "ifname",
		Mode: ModeCommon,
		Ptype: &PType{
			Name:    "ifname",
			Method:  MethodRegexpSelect,
			Pattern: `[A-Za-z]+\s*[0-9/]*`,
			Items:   interfaceItems(),
		},
	}
	num := &Param{
		Name: "num",
		Mode: ModeCommon,
		Ptype: &PType{
			Name:    "num",
			Method:  MethodUnsignedInteger,
			Pattern: "0..4096",
		},
	}
	return &Command{
		Name:   "show",
		Text:   "display interface counters",
		Paramv: ParamV{ifname, num},
	}
}

// TestParseS1ShortFormBinds covers S1: a short-form token expands to its
// full item name and binds alongside the trailing numeric argument.
func TestParseS1ShortFormBinds(t *testing.T) {
	t.Parallel()

	cmd := buildShowCommand()
	tokens := Tokenize("show eth 10")

	result := ParseCommand(cmd, tokens, -1, nil, nil)

	require.Equal(t, StatusOK, result.Status)
	ifname, ok := result.Bindings.Get("ifname")
	require.True(t, ok)
	assert.Equal(t, "ethernet", ifname)
	num, ok := result.Bindings.Get("num")
	require.True(t, ok)
	assert.Equal(t, "10", num)
}

// TestParseS2HelpNarrowsToTypedAlternative covers S2: asking for help on
// a partially typed token ("vla") narrows the regexp-select's usename
// policy from USE_RANGE to USE_NAME, producing a single "vlan" row
// instead of the collapsed <ethernet/vlan/portchannel> range.
func TestParseS2HelpNarrowsToTypedAlternative(t *testing.T) {
	t.Parallel()

	cmd := buildShowCommand()
	view := NewView("root", "")
	view.AddCommand(cmd)

	tokens := Tokenize("show vla")
	rows := Help(view, tokens, 1, nil)

	require.Len(t, rows, 1)
	assert.Equal(t, HelpRow{Name: "vlan", Help: "<vlan id>"}, rows[0])
}

// TestParseS5PartialCommandNoHelpCR covers S5: a mandatory param still
// outstanding reports PARTIAL, and the help surface for the empty next
// token lists every alternative collapsed to a single range row, with no
// trailing <cr> (the command is not yet satisfied).
func TestParseS5PartialCommandNoHelpCR(t *testing.T) {
	t.Parallel()

	cmd := buildShowCommand()
	view := NewView("root", "")
	view.AddCommand(cmd)

	tokens := Tokenize("show")
	result := ParseCommand(cmd, tokens, -1, nil, nil)
	require.Equal(t, StatusPartial, result.Status)

	rows := Help(view, tokens, 1, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, "<ethernet/vlan/portchannel>", rows[0].Name)
	for _, r := range rows {
		assert.NotEqual(t, crRow, r)
	}
}

// TestParseS6CaretColumn covers S6: a token that fails every item's
// prefix check is a BAD_PARAM whose caret column is the sum of every
// earlier token's width plus the longest partial match against the
// failing type's item names.
func TestParseS6CaretColumn(t *testing.T) {
	t.Parallel()

	cmd := buildShowCommand()
	tokens := Tokenize("show xyzzy")

	result := ParseCommand(cmd, tokens, -1, nil, nil)

	require.Equal(t, StatusBadParam, result.Status)
	assert.Equal(t, 1, result.ErrToken)
	assert.Equal(t, 0, result.StrMatchLen)
	assert.Equal(t, 5, CaretColumn(tokens, result))
	assert.Error(t, result.FailedCause)
}

// TestParseCaretColumnPartialPrefix exercises a failing token that does
// share a partial prefix with one of the type's items, verifying the
// caret lands past that shared prefix rather than at the token's start.
func TestParseCaretColumnPartialPrefix(t *testing.T) {
	t.Parallel()

	cmd := buildShowCommand()
	tokens := Tokenize("show eab")

	result := ParseCommand(cmd, tokens, -1, nil, nil)

	require.Equal(t, StatusBadParam, result.Status)
	assert.Equal(t, 1, result.StrMatchLen)
	assert.Equal(t, 6, CaretColumn(tokens, result))
}

// buildSetCommand builds a "set" command with two optional, unordered
// switch params (proto: tcp/udp; dir: in/out), the fixture S4's
// optional/unordered rewind-to-checkpoint semantics are built around.
func buildSetCommand() *Command {
	proto := &Param{
		Name: "proto", Mode: ModeSwitch, Optional: true,
		Children: ParamV{
			{Name: "tcp", Mode: ModeSubcommand, Value: "tcp"},
			{Name: "udp", Mode: ModeSubcommand, Value: "udp"},
		},
	}
	dir := &Param{
		Name: "dir", Mode: ModeSwitch, Optional: true,
		Children: ParamV{
			{Name: "in", Mode: ModeSubcommand, Value: "in"},
			{Name: "out", Mode: ModeSubcommand, Value: "out"},
		},
	}
	return &Command{Name: "set", Paramv: ParamV{proto, dir}}
}

// TestParseS4OptionalUnorderedRewind covers S4: two optional, unordered
// switches bind correctly regardless of which order their alternatives
// appear on the line.
func TestParseS4OptionalUnorderedRewind(t *testing.T) {
	t.Parallel()

	cmd := buildSetCommand()
	tokens := Tokenize("set out tcp")

	result := ParseCommand(cmd, tokens, -1, nil, nil)

	require.Equal(t, StatusOK, result.Status)
	proto, ok := result.Bindings.Get("proto")
	require.True(t, ok)
	assert.Equal(t, "tcp", proto)
	dir, ok := result.Bindings.Get("dir")
	require.True(t, ok)
	assert.Equal(t, "out", dir)
}

// TestParseSwitchMutualExclusivity covers spec.md §8's switch mutual
// exclusivity property: a second token that could only bind to an
// alternative of an already-satisfied switch is left unconsumed and
// rejected as BAD_CMD, not silently re-bound.
func TestParseSwitchMutualExclusivity(t *testing.T) {
	t.Parallel()

	cmd := buildSetCommand()
	tokens := Tokenize("set tcp udp")

	result := ParseCommand(cmd, tokens, -1, nil, nil)

	require.Equal(t, StatusBadCmd, result.Status)
	assert.Equal(t, 2, result.ErrToken)
}

// TestParseOptionalDoesNotStarveMandatory covers spec.md §8's optional
// does-not-starve-mandatory property: an optional switch that fails to
// match still yields the walk position to the mandatory param behind it.
func TestParseOptionalDoesNotStarveMandatory(t *testing.T) {
	t.Parallel()

	verbose := &Param{
		Name: "verbose", Mode: ModeSwitch, Optional: true,
		Children: ParamV{{Name: "flag", Mode: ModeSubcommand, Value: "-v"}},
	}
	ifname := &Param{
		Name: "ifname", Mode: ModeCommon,
		Ptype: &PType{
			Name:    "ifname",
			Method:  MethodRegexpSelect,
			Pattern: `[A-Za-z]+\s*[0-9/]*`,
			Items:   interfaceItems(),
		},
	}
	cmd := &Command{Name: "ping", Paramv: ParamV{verbose, ifname}}

	tokens := Tokenize("ping eth0")
	result := ParseCommand(cmd, tokens, -1, nil, nil)

	require.Equal(t, StatusOK, result.Status)
	bound, ok := result.Bindings.Get("ifname")
	require.True(t, ok)
	assert.Equal(t, "ethernet0", bound)
	assert.False(t, result.Bindings.Has("verbose"))
}

// TestCompleteClosure covers spec.md §8's completion-closure property:
// Tab against an unambiguous prefix reduces to the single remaining
// completion plus a trailing space; against no prefix at all it reports
// every alternative as ambiguous.
func TestCompleteClosure(t *testing.T) {
	t.Parallel()

	ifname := &Param{
		Name: "ifname", Mode: ModeCommon,
		Ptype: &PType{Name: "ifname", Method: MethodRegexpSelect, Items: interfaceItems()},
	}

	unique := Complete([]*Param{ifname}, "e")
	require.False(t, unique.Ambiguous)
	assert.Equal(t, "thernet ", unique.Replacement)

	ambiguous := Complete([]*Param{ifname}, "")
	assert.True(t, ambiguous.Ambiguous)
	assert.Len(t, ambiguous.Names, 3)
}
