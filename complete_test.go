package clish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompleteUniqueAppendsTrailingSpace covers S2's Tab behavior: "vla"
// has exactly one completion ("vlan"), so Complete returns the remaining
// letters plus a trailing space ready to accept the next argument.
func TestCompleteUniqueAppendsTrailingSpace(t *testing.T) {
	t.Parallel()

	cmd := buildShowCommand()
	tokens := Tokenize("show vla")

	collector := NewCollector()
	ParseCommand(cmd, tokens, 1, collector, nil)

	result := Complete(collector.Params(), "vla")

	require.False(t, result.Ambiguous)
	assert.Equal(t, "n ", result.Replacement)
}

// TestHarvestSwitchKeywordShadowsPositional covers spec.md §9's
// keyword-shadows-positional rule: once a keyword alternative of a
// switch has matched this position, a plain (non-keyword) alternative
// behind it in Children is no longer offered as a completion candidate.
func TestHarvestSwitchKeywordShadowsPositional(t *testing.T) {
	t.Parallel()

	positional := &Param{
		Name: "raw", Mode: ModeCommon,
		Ptype: &PType{Name: "word", Method: MethodRegexp, Pattern: `[a-z]+`},
	}
	keyword := &Param{Name: "any", Mode: ModeSubcommand, Value: "any"}
	sw := &Param{Name: "target", Mode: ModeSwitch, Children: ParamV{keyword, positional}}
	cmd := &Command{Name: "match", Paramv: ParamV{sw}}

	tokens := Tokenize("match an")
	collector := NewCollector()
	ParseCommand(cmd, tokens, 1, collector, nil)

	var names []string
	for _, p := range collector.Params() {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "any")
	assert.NotContains(t, names, "raw")
}

// TestHarvestRegexpSelectEchoPastNeed covers the "need_index one past the
// matched token" special case: asking for help right after a fully typed
// regexp-select value re-anchors on that Param with PastNeed set, so the
// usename policy renders USE_VALUE instead of re-listing every
// alternative.
func TestHarvestRegexpSelectEchoPastNeed(t *testing.T) {
	t.Parallel()

	cmd := buildShowCommand()
	tokens := Tokenize("show ethernet ")

	collector := NewCollector()
	ParseCommand(cmd, tokens, 2, collector, nil)

	// The matched ifname re-echoes (PastNeed) alongside the next param,
	// num, which is harvested normally at the cursor position.
	require.Len(t, collector.Candidates(), 2)

	byName := map[string]Candidate{}
	for _, c := range collector.Candidates() {
		byName[c.Param.Name] = c
	}

	ifnameCand, ok := byName["ifname"]
	require.True(t, ok)
	assert.True(t, ifnameCand.PastNeed)

	numCand, ok := byName["num"]
	require.True(t, ok)
	assert.False(t, numCand.PastNeed)
}

// TestLongestCommonPrefixCaseInsensitive exercises the fold-aware prefix
// reduction Tab completion relies on when candidate names differ only by
// case from what the user typed.
func TestLongestCommonPrefixCaseInsensitive(t *testing.T) {
	t.Parallel()

	lcp := LongestCommonPrefix([]string{"Ethernet0", "ethernet1", "ETHERNET2"})
	assert.Equal(t, "Ethernet", lcp)
}
