package clish

// Candidate is one harvested Param together with whether it was
// harvested through the regexp-select "one past the matched token"
// special case (spec.md §4.4 step 3) — needed by the help surface's
// usename policy (spec.md §4.1).
type Candidate struct {
	Param    *Param
	PastNeed bool
}

// Collector is the completion/help candidate accumulator threaded
// through a parse: the "separate PArgV" of candidate Params described by
// spec.md §3, deduplicated by Param identity so a switch alternative is
// never harvested twice.
type Collector struct {
	entries []Candidate
	seen    map[*Param]bool
}

// NewCollector creates an empty harvest collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[*Param]bool)}
}

// Add records param as a candidate, ignoring repeats.
func (c *Collector) Add(param *Param) {
	c.add(param, false)
}

func (c *Collector) add(param *Param, pastNeed bool) {
	if c == nil || param == nil || c.seen[param] {
		return
	}
	c.seen[param] = true
	c.entries = append(c.entries, Candidate{Param: param, PastNeed: pastNeed})
}

// Params returns every harvested candidate, in harvest order.
func (c *Collector) Params() []*Param {
	if c == nil {
		return nil
	}
	out := make([]*Param, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Param
	}
	return out
}

// Candidates returns every harvested candidate with its PastNeed flag,
// in harvest order.
func (c *Collector) Candidates() []Candidate {
	if c == nil {
		return nil
	}
	return c.entries
}

// Len reports how many distinct candidates have been harvested.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// harvest implements spec.md §4.4 step 3: at the token position the
// cursor is asking about (or the regexp-select "one past the matched
// token" special case), record every Param that is a legal candidate,
// applying the keyword-shadows-positional rule for switches (spec.md §9
// Open Question, replicated verbatim).
func (s *parserState) harvest(param *Param, idx int, arg *Token) {
	if s.collector == nil {
		return
	}

	atNeed := idx == s.needIndex
	pastNeed := idx+1 == s.needIndex

	if !atNeed && !pastNeed {
		return
	}

	if pastNeed {
		s.harvestRegexpSelectEcho(param, arg)
		return
	}

	if param.IsSwitch() {
		s.harvestSwitch(param, arg)
		return
	}

	s.harvestSingle(param, arg)
}

// harvestRegexpSelectEcho implements the "need_index one past the
// matched token" special case: a regexp-select Param's own help stays
// anchored on it (so "interface vlan ?" shows vlan's help), and for a
// switch this only fires through a regexp-select child whose pattern
// items prefix-match the current token.
func (s *parserState) harvestRegexpSelectEcho(param *Param, arg *Token) {
	if param.IsSwitch() {
		for _, alt := range param.Children {
			if alt.Mode == ModeCommon && alt.Ptype != nil && alt.Ptype.Method == MethodRegexpSelect &&
				arg != nil && itemsPrefixMatch(alt.Ptype, arg.Text) {
				s.collector.add(alt, true)
			}
		}
		return
	}

	if param.Mode == ModeCommon && param.Ptype != nil && param.Ptype.Method == MethodRegexpSelect {
		s.collector.add(param, true)
	}
}

func itemsPrefixMatch(t *PType, tok string) bool {
	if len(t.Items) == 0 {
		return true
	}
	for _, it := range t.Items {
		if hasFoldPrefix(it.Name, tok) {
			return true
		}
	}
	return false
}

// harvestSwitch applies the keyword-shadows-positional rule: a plain
// (non-keyword) alternative is only offered when no keyword alternative
// already matched this position.
func (s *parserState) harvestSwitch(param *Param, arg *Token) {
	keywordEmitted := false

	for _, alt := range param.Children {
		if alt.Test != "" && !EvalTest(alt.Test, s.ctx) {
			continue
		}

		switch {
		case alt.Mode == ModeSubcommand:
			if arg == nil || hasFoldPrefix(alt.Value, arg.Text) {
				s.collector.Add(alt)
				keywordEmitted = true
			}
		case alt.Mode == ModeCommon && alt.Ptype != nil && alt.Ptype.Method == MethodRegexpSelect:
			if arg == nil || itemsPrefixMatch(alt.Ptype, arg.Text) {
				s.collector.Add(alt)
				keywordEmitted = true
			}
		default:
			if !keywordEmitted {
				s.collector.Add(alt)
			}
		}
	}
}

func (s *parserState) harvestSingle(param *Param, arg *Token) {
	switch {
	case param.Mode == ModeSubcommand:
		if arg == nil || hasFoldPrefix(param.Value, arg.Text) {
			s.collector.Add(param)
		}
	case param.Mode == ModeCommon && param.Ptype != nil && param.Ptype.Method == MethodRegexpSelect:
		if arg == nil || itemsPrefixMatch(param.Ptype, arg.Text) {
			s.collector.Add(param)
		}
	default:
		s.collector.Add(param)
	}
}

// CompletionNames flattens a harvested Collector into the deduplicated
// display strings shown/matched by Tab, per spec.md §4.5.
func CompletionNames(candidates []*Param, prefix string) []string {
	seen := map[string]bool{}
	var names []string

	add := func(n string) {
		if n == "" || seen[n] {
			return
		}
		if prefix != "" && !hasFoldPrefix(n, prefix) {
			return
		}
		seen[n] = true
		names = append(names, n)
	}

	for _, p := range candidates {
		switch {
		case p.Mode == ModeSubcommand:
			add(p.Value)
		case p.Ptype != nil && (p.Ptype.Method == MethodSelect || p.Ptype.Method == MethodRegexpSelect):
			for _, it := range p.Ptype.Items {
				add(it.Name)
			}
		default:
			// Non-enumerable types have no finite completion set.
		}
	}

	return names
}

// LongestCommonPrefix returns the longest string that is a
// case-insensitive prefix of every entry in names, or "" if names is
// empty. Tab completion (spec.md §4.5) reduces candidates to this value.
func LongestCommonPrefix(names []string) string {
	if len(names) == 0 {
		return ""
	}

	common := names[0]

	for _, n := range names[1:] {
		common = commonFoldPrefix(common, n)
		if common == "" {
			break
		}
	}

	return common
}

func commonFoldPrefix(a, b string) string {
	n := commonFoldPrefixLen(a, b)
	return a[:n]
}

// CompleteResult is the outcome of a Tab request: either a unique
// replacement (spec.md §4.5 "unique triggers replacement"), an ambiguous
// listing, or no match at all.
type CompleteResult struct {
	Names       []string
	Replacement string
	Ambiguous   bool
}

// Complete reduces a harvested Collector plus the token currently being
// typed into a CompleteResult (spec.md §4.5 Tab key). Replacement is the
// text to insert after what the user already typed: a unique match
// completes the word and appends a trailing space (S2: "vla" -> "n ");
// an ambiguous match completes only the unambiguous common prefix and
// sets Ambiguous so the caller prints a listing instead.
func Complete(candidates []*Param, typed string) CompleteResult {
	names := CompletionNames(candidates, typed)

	switch len(names) {
	case 0:
		return CompleteResult{}
	case 1:
		return CompleteResult{Names: names, Replacement: remainder(names[0], typed) + " "}
	default:
		lcp := LongestCommonPrefix(names)
		if len(lcp) > len(typed) {
			return CompleteResult{Names: names, Replacement: remainder(lcp, typed), Ambiguous: true}
		}
		return CompleteResult{Names: names, Ambiguous: true}
	}
}

// remainder returns the part of full beyond what the user already typed,
// tolerating a case difference between the two (the user may have typed
// "ETH" against a declared item "ethernet").
func remainder(full, typed string) string {
	if len(typed) >= len(full) {
		return ""
	}
	return full[len(typed):]
}
