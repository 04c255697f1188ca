package clish

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// HelpRow is one (name, help, detail) entry of the Help/Completion
// Surface (spec.md §4.5).
type HelpRow struct {
	Name   string
	Help   string
	Detail string
}

// crRow is the sentinel row appended when a command is fully satisfied;
// it always sorts last, never alongside the lexicographic rows.
var crRow = HelpRow{Name: "<cr>"}

// sortCommandsByName orders cmds case-insensitively by Name in place,
// the ordering used for help listings (spec.md §4.5) and view command
// enumeration (spec.md §4.3).
func sortCommandsByName(cmds []*Command) {
	slices.SortFunc(cmds, func(a, b *Command) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// Help builds the three parallel (name, help, detail) lists for a `?`
// request at needIndex against view v (spec.md §4.5). tokens is the
// full tokenized line; needIndex is the 0-based index of the token the
// cursor lies within (== len(tokens) when the cursor trails a space).
func Help(v *View, tokens []Token, needIndex int, ctx *ParseContext) []HelpRow {
	var rows []HelpRow
	seen := map[string]bool{}

	add := func(r HelpRow) {
		if seen[r.Name] {
			return
		}
		seen[r.Name] = true
		rows = append(rows, r)
	}

	namePassRows(v, tokens, needIndex, ctx, add)

	if _, satisfied := resolvedCommandRows(v, tokens, needIndex, ctx, add); satisfied {
		rows = append(rows, crRow)
	}

	return sortHelpRows(rows)
}

// namePassRows implements spec.md §4.5's first pass: one row per command
// whose name offers a next word at needIndex that case-insensitively
// prefixes the token currently being typed there, skipping hidden,
// test-failing commands, and commands whose name is already fully
// consumed by the prior words (those are handled by the second pass
// instead). Rows are funneled through add, which owns the seen-by-Name
// dedup; this pass performs no deduping of its own.
func namePassRows(v *View, tokens []Token, needIndex int, ctx *ParseContext, add func(HelpRow)) {
	partial := ""
	if needIndex < len(tokens) {
		partial = tokens[needIndex].Text
	}

	for _, c := range v.allCandidates() {
		if c.Hidden {
			continue
		}
		if ctx != nil && c.Test != "" && !EvalTest(c.Test, ctx) {
			continue
		}

		words := c.NameWords()
		if needIndex >= len(words) {
			continue
		}

		if !priorWordsAbbreviate(words, tokens, needIndex) {
			continue
		}

		next := words[needIndex]
		if partial != "" && !hasFoldPrefix(next, partial) {
			continue
		}

		help := next
		if len(words) == needIndex+1 {
			help = c.Text
		}
		add(HelpRow{Name: next, Help: help})
	}
}

// priorWordsAbbreviate reports whether every already-committed token
// before needIndex is a case-insensitive prefix of the corresponding
// name word.
func priorWordsAbbreviate(words []string, tokens []Token, needIndex int) bool {
	for i := 0; i < needIndex; i++ {
		if i >= len(words) || i >= len(tokens) {
			return false
		}
		if !hasFoldPrefix(words[i], tokens[i].Text) {
			return false
		}
	}
	return true
}

// resolvedCommandRows implements spec.md §4.5's second pass: if a
// command's name is fully identified by the tokens up to needIndex,
// run the Line Parser with needIndex as the harvest point and emit a
// row per harvested Param, per §4.1's usename policy. It reports the
// resolved command (nil if none) and whether it is already fully
// satisfied by the prior tokens (so a `<cr>` row should be appended).
func resolvedCommandRows(v *View, tokens []Token, needIndex int, ctx *ParseContext, add func(HelpRow)) (cmd *Command, satisfied bool) {
	line := JoinArgs(tokens)
	res := v.ResolveCommand(line, ctx)
	if res.Command == nil {
		return nil, false
	}
	cmd = res.Command

	partial := ""
	if needIndex < len(tokens) {
		partial = tokens[needIndex].Text
	}

	collector := NewCollector()
	ParseCommand(cmd, tokens, needIndex, collector, ctx)

	for _, cand := range collector.Candidates() {
		for _, row := range paramRows(cand, ctx, partial) {
			add(row)
		}
	}

	priorCount := needIndex
	if priorCount > len(tokens) {
		priorCount = len(tokens)
	}
	priorResult := ParseCommand(cmd, tokens[:priorCount], -1, nil, ctx)
	satisfied = priorResult.Status == StatusOK

	return cmd, satisfied
}

// paramRows renders a single harvested candidate into its help rows,
// applying the usename policy of spec.md §4.1 to regexp-select types.
// partial is the token currently being typed at the harvest position,
// used to filter enumerated item rows (spec.md §4.5's "select with
// ext_help ⇒ one row per item, optionally filtered by token prefix").
func paramRows(cand Candidate, ctx *ParseContext, partial string) []HelpRow {
	p := cand.Param

	if p.Mode == ModeSubcommand {
		return []HelpRow{{Name: p.Value, Help: p.Text}}
	}

	if p.Ptype == nil {
		return []HelpRow{{Name: p.Name, Help: p.Text}}
	}

	switch p.Ptype.Method {
	case MethodSelect:
		return selectRows(p, partial)

	case MethodRegexpSelect:
		matching := matchingItems(p.Ptype.Items, partial)
		setUseName(p.Ptype, cand.PastNeed, ctx, len(matching) > 1)
		return regexpSelectRows(p, matching)

	default:
		if p.Ptype.HasRange() {
			return []HelpRow{{Name: fmt.Sprintf("<%s>", p.Ptype.Name), Help: p.Text}}
		}
		text := p.Ptype.Text
		if text == "" {
			text = p.Ptype.Name
		}
		return []HelpRow{{Name: text, Help: p.Text}}
	}
}

// matchingItems returns the subset of items whose Name case-insensitively
// begins with partial, or every item when partial is empty. The usename
// policy's "more than one alternative" test (spec.md §4.1) is evaluated
// against this filtered set, not the type's full declared item list, so
// that typing enough of one alternative collapses USE_RANGE to USE_NAME.
func matchingItems(items []SelectItem, partial string) []SelectItem {
	if partial == "" {
		return items
	}
	var out []SelectItem
	for _, it := range items {
		if hasFoldPrefix(it.Name, partial) {
			out = append(out, it)
		}
	}
	return out
}

// setUseName applies spec.md §4.1's policy for a regexp-select Ptype at
// the current harvest position: PastNeed (cursor sits one token beyond
// the matched value) selects USE_VALUE; an interface-family command
// selects USE_NAME; more than one remaining alternative selects
// USE_RANGE; otherwise USE_NAME.
func setUseName(t *PType, pastNeed bool, ctx *ParseContext, hasMultiple bool) {
	switch {
	case pastNeed:
		t.SetUseName(UseValue)
	case ctx != nil && ctx.InInterfaceFamily:
		t.SetUseName(UseAsName)
	case hasMultiple:
		t.SetUseName(UseRange)
	default:
		t.SetUseName(UseAsName)
	}
}

func regexpSelectRows(p *Param, matching []SelectItem) []HelpRow {
	switch p.Ptype.UseName() {
	case UseValue:
		return []HelpRow{{Name: fmt.Sprintf("<%s>", p.Ptype.Name), Help: p.Text}}
	case UseRange:
		names := make([]string, len(matching))
		for i, it := range matching {
			names[i] = it.Name
		}
		return []HelpRow{{Name: fmt.Sprintf("<%s>", strings.Join(names, "/")), Help: p.Text}}
	default: // UseAsName
		rows := make([]HelpRow, len(matching))
		for i, it := range matching {
			rows[i] = HelpRow{Name: it.Name, Help: it.ExtHelp}
		}
		return rows
	}
}

// selectRows handles a plain select Ptype: a row per item when any
// carries ext_help, per spec.md §4.5's "select with ext_help" bullet;
// otherwise a single collapsed range row.
func selectRows(p *Param, partial string) []HelpRow {
	hasExt := false
	for _, it := range p.Ptype.Items {
		if it.ExtHelp != "" {
			hasExt = true
			break
		}
	}

	if !hasExt {
		return []HelpRow{{Name: fmt.Sprintf("<%s>", p.Ptype.Name), Help: p.Text}}
	}

	var rows []HelpRow
	for _, it := range p.Ptype.Items {
		if partial != "" && !hasFoldPrefix(it.Name, partial) {
			continue
		}
		rows = append(rows, HelpRow{Name: it.Name, Help: it.ExtHelp})
	}
	return rows
}

// sortHelpRows returns rows sorted lexicographically case-insensitively
// by Name, except the trailing `<cr>` sentinel, which stays last.
func sortHelpRows(rows []HelpRow) []HelpRow {
	var body []HelpRow
	hasCR := false

	for _, r := range rows {
		if r == crRow {
			hasCR = true
			continue
		}
		body = append(body, r)
	}

	slices.SortFunc(body, func(a, b HelpRow) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	if hasCR {
		body = append(body, crRow)
	}

	return body
}

// RenderHelp prints rows in two columns padded to the widest name, the
// presentation spec.md §4.5 describes for the `?` key.
func RenderHelp(rows []HelpRow) string {
	width := 0
	for _, r := range rows {
		if len(r.Name) > width {
			width = len(r.Name)
		}
	}

	var b strings.Builder
	for _, r := range rows {
		if r.Help == "" {
			fmt.Fprintf(&b, "  %s\n", r.Name)
			continue
		}
		fmt.Fprintf(&b, "  %-*s  %s\n", width, r.Name, r.Help)
	}
	return b.String()
}
