package clish

import (
	"os"
	"regexp"
	"strings"
)

// ParseContext carries everything a test/completion/expand expression
// may consult, plus the use_alt_name() predicate that spec.md §9 asks to
// be passed explicitly rather than read from process-global state.
type ParseContext struct {
	// Bindings are the PArgV values bound so far on the current line,
	// consulted first by Expand (spec.md §6).
	Bindings *PArgV

	// ViewVars are the viewid maps of the enclosing view-stack frames,
	// topmost (innermost) first.
	ViewVars []map[string]string

	// UseAltName is the nos_use_alt_name() predicate of the reference
	// implementation, made an explicit, pure field per spec.md §9.
	UseAltName bool

	// InInterfaceFamily reports whether the command currently being
	// parsed/helped has a name beginning with "interface" (or an
	// equivalent declared family), used by the usename policy of
	// spec.md §4.1.
	InInterfaceFamily bool
}

// NewParseContext builds a context over an (possibly nil) PArgV and the
// current view stack.
func NewParseContext(bindings *PArgV, stack *ViewStack, useAltName bool) *ParseContext {
	var vars []map[string]string
	if stack != nil {
		vars = stack.Vars()
	}
	return &ParseContext{Bindings: bindings, ViewVars: vars, UseAltName: useAltName}
}

var expandRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-?[^}]*)?\}`)

// Expand substitutes ${NAME} and ${NAME:default} references in s,
// resolving NAME against, in order: the current PArgV bindings, the
// viewid variables of the enclosing view-stack frames (top-down), then
// the process environment (spec.md §6).
func Expand(s string, ctx *ParseContext) string {
	return expandRef.ReplaceAllStringFunc(s, func(m string) string {
		sub := expandRef.FindStringSubmatch(m)
		name, def := sub[1], ""
		hasDefault := false

		if strings.HasPrefix(sub[2], ":-") {
			def, hasDefault = sub[2][2:], true
		} else if strings.HasPrefix(sub[2], ":") {
			def, hasDefault = sub[2][1:], true
		}

		if val, ok := lookupVar(name, ctx); ok {
			return val
		}

		if hasDefault {
			return def
		}

		return ""
	})
}

func lookupVar(name string, ctx *ParseContext) (string, bool) {
	if ctx != nil {
		if ctx.Bindings != nil {
			if val, ok := ctx.Bindings.Get(name); ok {
				return val, true
			}
		}
		for _, scope := range ctx.ViewVars {
			if val, ok := scope[name]; ok {
				return val, true
			}
		}
	}

	if val, ok := os.LookupEnv(name); ok {
		return val, true
	}

	return "", false
}

// EvalTest evaluates a Param/Command `test` expression against ctx.
// After ${...} expansion, an expression containing "==" or "!=" is a
// string comparison; anything else is truthy unless it expands to the
// empty string, "0" or "false".
func EvalTest(expr string, ctx *ParseContext) bool {
	expanded := strings.TrimSpace(Expand(expr, ctx))

	if idx := strings.Index(expanded, "!="); idx >= 0 {
		lhs := strings.TrimSpace(expanded[:idx])
		rhs := strings.TrimSpace(expanded[idx+2:])
		return lhs != rhs
	}

	if idx := strings.Index(expanded, "=="); idx >= 0 {
		lhs := strings.TrimSpace(expanded[:idx])
		rhs := strings.TrimSpace(expanded[idx+2:])
		return lhs == rhs
	}

	switch expanded {
	case "", "0", "false":
		return false
	default:
		return true
	}
}
