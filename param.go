package clish

// Mode classifies how a Param is matched against a token.
type Mode int

const (
	// ModeCommon is an ordinary typed parameter: its token is validated
	// against Ptype.
	ModeCommon Mode = iota
	// ModeSubcommand is a fixed keyword: its token must equal Value
	// case-insensitively.
	ModeSubcommand
	// ModeSwitch owns an ordered list of mutually exclusive alternative
	// Params (Children), at most one of which binds per occurrence.
	ModeSwitch
)

// Param is a declared position in a command's argument template. It is
// built once at schema-load time and is immutable thereafter, except for
// the parser's transient use of Ptype.usename.
type Param struct {
	Name    string
	Ptype   *PType // nil for ModeSubcommand and ModeSwitch
	Text    string
	Value   string // fixed keyword text, meaningful for ModeSubcommand
	Defval  string
	Mode    Mode
	Optional bool
	// Order is meaningful only when Optional: enforces left-to-right
	// consumption instead of free reordering.
	Order bool
	Hidden bool

	// Test, when non-empty, is a variable-expansion/test expression
	// gating this Param's eligibility on the current line (spec.md
	// §4.4 step 1).
	Test string
	// Completion holds the param's completion expression from the
	// schema. Neither the help harvest nor Tab completion evaluates it;
	// candidates come from Ptype's own item list only.
	Completion string

	Access   string
	Viewname string
	Viewid   string

	// Children holds switch alternatives (Mode == ModeSwitch) or nested
	// sub-params consumed after this Param matches (any Mode).
	Children ParamV
}

// IsSwitch reports whether this Param is a switch with alternatives.
func (p *Param) IsSwitch() bool { return p.Mode == ModeSwitch }

// IsSubcommand reports whether this Param is a fixed keyword.
func (p *Param) IsSubcommand() bool { return p.Mode == ModeSubcommand }

// ParamV is an ordered, value-semantics sequence of Param references. An
// empty ParamV is valid (spec.md §3).
type ParamV []*Param

// Len returns the number of direct children.
func (v ParamV) Len() int { return len(v) }

// At returns the child at index, or nil if out of range.
func (v ParamV) At(index int) *Param {
	if index < 0 || index >= len(v) {
		return nil
	}
	return v[index]
}

// Append adds a child Param and returns the extended ParamV, mirroring
// the value-semantics append idiom used throughout this module.
func (v ParamV) Append(p *Param) ParamV {
	return append(v, p)
}

// ByName returns the first direct child with the given name, or nil.
func (v ParamV) ByName(name string) *Param {
	for _, p := range v {
		if p.Name == name {
			return p
		}
	}
	return nil
}
