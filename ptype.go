// Package clish implements the command-resolution and parameter-parsing
// engine of an interactive, Cisco/Juniper-style network-device shell: a
// parser generator driven by a dynamically-typed grammar of ptypes and
// params, with abbreviation-aware matching, ?-driven help and Tab
// completion.
package clish

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Method is the validation discipline a PType applies to a candidate
// token. Once set on a PType it is fixed for that type's lifetime.
type Method int

const (
	MethodRegexp Method = iota
	MethodInteger
	MethodUnsignedInteger
	MethodSelect
	MethodCode
	MethodRegexpSelect
)

func (m Method) String() string {
	switch m {
	case MethodRegexp:
		return "regexp"
	case MethodInteger:
		return "integer"
	case MethodUnsignedInteger:
		return "unsignedInteger"
	case MethodSelect:
		return "select"
	case MethodCode:
		return "code"
	case MethodRegexpSelect:
		return "regexp-select"
	default:
		return "unknown"
	}
}

// Preprocess is applied to a token before Method dispatch.
type Preprocess int

const (
	PreprocessNone Preprocess = iota
	PreprocessToUpper
	PreprocessToLower
	// PreprocessMode only influences regexp-select's choice of primary
	// vs. alt pattern; it performs no case-folding of its own.
	PreprocessMode
)

// UseName selects how help text is rendered for a regexp-select PType on
// the current input line. It is transient, scribbled by the parser at
// each help/completion request rather than stored across calls.
type UseName int

const (
	UseAsName UseName = iota
	UseValue
	UseRange
)

// SelectItem is one `name(value)` entry of a select/regexp-select PType,
// with its optional extended-help string.
type SelectItem struct {
	Name    string
	Value   string
	ExtHelp string
}

// PType is a named parameter type: a validator plus the metadata needed
// to translate, complete and explain the tokens it accepts. Method is a
// closed tagged union (per spec.md §9's "model as a sum type" note); the
// fields below that are meaningful only for a subset of Methods are
// documented at their declaration.
type PType struct {
	Name       string
	Text       string
	Pattern    string
	Method     Method
	Preprocess Preprocess

	// Auxiliary patterns, meaningful only for MethodRegexpSelect.
	AltPattern    string
	ExtPattern    string
	AltExtPattern string

	// Select / regexp-select item list, in declaration order.
	Items []SelectItem

	// usename is transient scratch set by the parser during a
	// help/completion pass; never read before it is written for the
	// current request.
	usename UseName

	// Integer/unsignedInteger bounds, lazily parsed from Pattern's
	// "min..max" shape.
	min, max     int64
	umin, umax   uint64
	boundsParsed bool

	mu       sync.Mutex
	compiled *regexp.Regexp
	compAlt  *regexp.Regexp
}

// SetUseName records the presentation the help surface should use for
// this PType on the line currently being parsed/helped.
func (t *PType) SetUseName(u UseName) { t.usename = u }

// UseName returns the presentation recorded by the last SetUseName call.
func (t *PType) UseName() UseName { return t.usename }

// HasRange reports whether the type carries an enumerable set of
// alternatives (select/regexp-select with more than one item).
func (t *PType) HasRange() bool {
	return (t.Method == MethodSelect || t.Method == MethodRegexpSelect) && len(t.Items) > 1
}

func (t *PType) preprocess(tok string) string {
	switch t.Preprocess {
	case PreprocessToUpper:
		return strings.ToUpper(tok)
	case PreprocessToLower:
		return strings.ToLower(tok)
	default:
		return tok
	}
}

func (t *PType) pattern(useAltName bool) string {
	if t.Preprocess == PreprocessMode && useAltName && t.AltPattern != "" {
		return t.AltPattern
	}
	return t.Pattern
}

func (t *PType) regexpFor(useAltName bool) (*regexp.Regexp, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pat := t.pattern(useAltName)

	if useAltName && t.Preprocess == PreprocessMode {
		if t.compAlt != nil {
			return t.compAlt, nil
		}
	} else if t.compiled != nil {
		return t.compiled, nil
	}

	anchored := anchorPattern(pat)

	re, err := regexp.Compile(anchored)
	if err != nil {
		return nil, fmt.Errorf("ptype %q: bad pattern %q: %w", t.Name, pat, err)
	}

	if useAltName && t.Preprocess == PreprocessMode {
		t.compAlt = re
	} else {
		t.compiled = re
	}

	return re, nil
}

func anchorPattern(pat string) string {
	anchored := pat
	if !strings.HasPrefix(anchored, "^") {
		anchored = "^" + anchored
	}
	if !strings.HasSuffix(anchored, "$") {
		anchored += "$"
	}
	return anchored
}

func (t *PType) parseBounds() error {
	if t.boundsParsed {
		return nil
	}
	parts := strings.SplitN(t.Pattern, "..", 2)
	if len(parts) != 2 {
		return fmt.Errorf("ptype %q: integer pattern must be \"min..max\", got %q", t.Name, t.Pattern)
	}
	switch t.Method {
	case MethodUnsignedInteger:
		umin, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return fmt.Errorf("ptype %q: bad min %q: %w", t.Name, parts[0], err)
		}
		umax, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return fmt.Errorf("ptype %q: bad max %q: %w", t.Name, parts[1], err)
		}
		t.umin, t.umax = umin, umax
	default:
		min, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return fmt.Errorf("ptype %q: bad min %q: %w", t.Name, parts[0], err)
		}
		max, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return fmt.Errorf("ptype %q: bad max %q: %w", t.Name, parts[1], err)
		}
		t.min, t.max = min, max
	}
	t.boundsParsed = true
	return nil
}

// ErrOutOfRange is returned by Validate for integer/unsignedInteger
// methods whose token parses but falls outside [min,max].
type ErrOutOfRange struct {
	Ptype      string
	Min, Max   string
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("Value out of range(%s..%s).", e.Min, e.Max)
}

// Validate checks tok against the PType's method and, on success,
// returns the (preprocessed) string that should be bound. Idempotence
// (spec.md §8 property 1) holds because preprocessing is a pure
// projection: Validate(Validate(tok)) == Validate(tok) whenever the
// first call succeeds.
func (t *PType) Validate(tok string, useAltName bool) (string, error) {
	tok = t.preprocess(tok)

	switch t.Method {
	case MethodCode:
		// Validation deferred to the action layer; always succeeds here.
		return tok, nil

	case MethodRegexp:
		re, err := t.regexpFor(false)
		if err != nil {
			return "", err
		}
		if !re.MatchString(tok) {
			return "", fmt.Errorf("invalid input")
		}
		return tok, nil

	case MethodInteger:
		if err := t.parseBounds(); err != nil {
			return "", err
		}
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid input")
		}
		if n < t.min || n > t.max {
			return "", &ErrOutOfRange{t.Name, strconv.FormatInt(t.min, 10), strconv.FormatInt(t.max, 10)}
		}
		return tok, nil

	case MethodUnsignedInteger:
		if err := t.parseBounds(); err != nil {
			return "", err
		}
		n, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid input")
		}
		if n < t.umin || n > t.umax {
			return "", &ErrOutOfRange{t.Name, strconv.FormatUint(t.umin, 10), strconv.FormatUint(t.umax, 10)}
		}
		return tok, nil

	case MethodSelect:
		for _, it := range t.Items {
			if strings.EqualFold(it.Name, tok) {
				return it.Name, nil
			}
		}
		return "", fmt.Errorf("invalid input")

	case MethodRegexpSelect:
		return t.validateRegexpSelect(tok, useAltName)

	default:
		return "", fmt.Errorf("ptype %q: unknown method", t.Name)
	}
}

// validateRegexpSelect implements spec.md §4.1's regexp-select contract:
// a primary regex match, followed by short-form prefix expansion against
// the declared item names.
func (t *PType) validateRegexpSelect(tok string, useAltName bool) (string, error) {
	re, err := t.regexpFor(useAltName)
	if err != nil {
		return "", err
	}
	if !re.MatchString(tok) {
		return "", fmt.Errorf("invalid input")
	}

	if len(t.Items) == 0 {
		return tok, nil
	}

	prefixEnd := 0
	for prefixEnd < len(tok) && !isDigitByte(tok[prefixEnd]) {
		prefixEnd++
	}
	prefix := strings.TrimRight(tok[:prefixEnd], " \t")
	rest := strings.TrimLeft(tok[prefixEnd:], " \t")

	for _, it := range t.Items {
		if prefix != "" && hasFoldPrefix(it.Name, prefix) {
			return it.Name + rest, nil
		}
	}

	return "", fmt.Errorf("invalid input")
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

func hasFoldPrefix(s, prefix string) bool {
	if len(prefix) > len(s) {
		return false
	}
	return strings.EqualFold(s[:len(prefix)], prefix)
}

// Translate returns the substitution "value" half of a validated token
// for select/regexp-select methods (spec.md §8 property 2); for every
// other method translation is the identity.
func (t *PType) Translate(validated string) string {
	switch t.Method {
	case MethodSelect, MethodRegexpSelect:
		for _, it := range t.Items {
			if strings.EqualFold(it.Name, validated) {
				if it.Value != "" {
					return it.Value
				}
				return it.Name
			}
		}
		// A regexp-select token that matched the primary pattern but
		// carries no item prefix (e.g. a bare "code"-like literal)
		// translates to itself.
		return validated
	default:
		return validated
	}
}

// CompletionNames enumerates the token prefixes this type can complete
// to, for select/regexp-select methods. Other methods have no finite
// completion set and return nil.
func (t *PType) CompletionNames() []string {
	if t.Method != MethodSelect && t.Method != MethodRegexpSelect {
		return nil
	}
	names := make([]string, len(t.Items))
	for i, it := range t.Items {
		names[i] = it.Name
	}
	return names
}

// HelpRows returns the ordered (name, extended-help) pairs used by the
// help surface for select-family types.
func (t *PType) HelpRows() []SelectItem {
	return t.Items
}

// Registry is the set of PTypes known at schema-load time, read-only
// during serving (spec.md §5).
type Registry struct {
	byName map[string]*PType
	order  []string
}

// NewRegistry creates an empty PType registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*PType)}
}

// Register adds a PType to the registry. A duplicate name overwrites the
// prior definition, matching schema-reload semantics.
func (r *Registry) Register(t *PType) {
	if _, exists := r.byName[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.byName[t.Name] = t
}

// Lookup returns the named PType, or nil if undeclared.
func (r *Registry) Lookup(name string) *PType {
	return r.byName[name]
}

// All returns every registered PType in declaration order.
func (r *Registry) All() []*PType {
	out := make([]*PType, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.byName[n])
	}
	return out
}
