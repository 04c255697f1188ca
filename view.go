package clish

// Hotkey binds a keystroke name (e.g. "C-z") to a command line to run,
// declared per View. Hotkey execution itself is an external collaborator
// (spec.md §1); the engine only carries the binding table.
type Hotkey struct {
	Key  string
	Line string
}

// View is a named mode exposing a set of commands, analogous to a router
// CLI's `enable`/`configure`/`interface` modes. Views compose with a
// sibling Global view: command resolution always tries both (spec.md
// §4.3).
type View struct {
	Name           string
	PromptTemplate string
	Hotkeys        []Hotkey

	// Global, when set, is consulted by resolve_prefix/resolve_command
	// in addition to this view; the match whose name has more words
	// wins (see resolve for equal word counts).
	Global *View

	commands []*Command
	byName   map[string]*Command
}

// NewView creates an empty View.
func NewView(name, promptTemplate string) *View {
	return &View{
		Name:           name,
		PromptTemplate: promptTemplate,
		byName:         make(map[string]*Command),
	}
}

// AddCommand registers a Command in this view. Later registrations of
// the same name replace the earlier one.
func (v *View) AddCommand(c *Command) {
	c.View = v
	if _, exists := v.byName[c.Name]; !exists {
		v.commands = append(v.commands, c)
	} else {
		for i, existing := range v.commands {
			if existing.Name == c.Name {
				v.commands[i] = c
				break
			}
		}
	}
	v.byName[c.Name] = c
}

// Commands returns every command declared directly on this view, in
// registration order.
func (v *View) Commands() []*Command {
	return v.commands
}

// allCandidates returns this view's commands followed by the global
// view's commands (if any), in that order — the search order described
// by spec.md §4.3.
func (v *View) allCandidates() []*Command {
	cmds := append([]*Command(nil), v.commands...)
	if v.Global != nil {
		cmds = append(cmds, v.Global.commands...)
	}
	return cmds
}

// matchResult is an internal candidate produced while resolving a line
// against a view: the name's word count, used by the more-words-wins
// rule, and the candidate's position in the search order.
type matchResult struct {
	cmd      *Command
	nameLen  int
	regOrder int
}

// Resolution is the outcome of resolving a line prefix against a view:
// either a unique winner, or — when two or more distinct names with the
// same word count abbreviate the line — an ambiguous set (spec.md §7
// AmbiguousCommand). Such a tie is ambiguous even when one of the names
// is a prefix of another.
type Resolution struct {
	Command   *Command
	Ambiguous []*Command
}

// ResolvePrefix returns the command whose name forms a proper
// whitespace-delimited (abbreviation-aware) prefix of line, per spec.md
// §4.3. It does not evaluate Test; see ResolveCommand for that.
func (v *View) ResolvePrefix(line string) Resolution {
	return v.resolve(line, nil)
}

// ResolveCommand is ResolvePrefix further filtered by each candidate's
// Test expression evaluating true against ctx.
func (v *View) ResolveCommand(line string, ctx *ParseContext) Resolution {
	return v.resolve(line, ctx)
}

func (v *View) resolve(line string, ctx *ParseContext) Resolution {
	candidates := v.allCandidates()

	var best *matchResult
	var tied []*Command

	for order, c := range candidates {
		if !lineAbbreviates(line, c.Name) {
			continue
		}
		if ctx != nil && c.Test != "" && !EvalTest(c.Test, ctx) {
			continue
		}

		m := &matchResult{cmd: c, nameLen: len(c.NameWords()), regOrder: order}

		switch {
		case best == nil:
			best = m
			tied = []*Command{c}
		case m.nameLen > best.nameLen:
			best = m
			tied = []*Command{c}
		case m.nameLen == best.nameLen && best.cmd.Name != c.Name:
			// Same word count from two distinct command names: ambiguous,
			// whether or not one name is a prefix of the other. The same
			// name found again (declared on both this view and its
			// Global) keeps the first match, this view's own.
			tied = append(tied, c)
		}
	}

	if best == nil {
		return Resolution{}
	}

	if len(tied) > 1 {
		return Resolution{Ambiguous: tied}
	}

	return Resolution{Command: best.cmd}
}

// lineAbbreviates reports whether each whitespace-delimited word of line
// is a non-empty, case-insensitive prefix of the corresponding word of
// name — the abbreviation rule behind "conf t" matching "configure
// terminal" (spec.md §1, S3).
func lineAbbreviates(line, name string) bool {
	nameWords := splitWords(name)
	lineWords := splitWords(line)

	if len(lineWords) < len(nameWords) {
		return false
	}

	for i, w := range nameWords {
		if !hasFoldPrefix(w, lineWords[i]) {
			return false
		}
	}

	return true
}

// sortedVisibleCommands returns this view's non-hidden commands
// (including the global view's), sorted case-insensitively by name, for
// help listings (spec.md §4.5).
func (v *View) sortedVisibleCommands(ctx *ParseContext) []*Command {
	var out []*Command

	for _, c := range v.allCandidates() {
		if c.Hidden {
			continue
		}
		if ctx != nil && c.Test != "" && !EvalTest(c.Test, ctx) {
			continue
		}
		out = append(out, c)
	}

	sortCommandsByName(out)

	return out
}
