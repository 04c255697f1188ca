package clish

import "strings"

// Status is the outcome of parsing a line against a resolved command
// (spec.md §4.4).
type Status int

const (
	StatusOK Status = iota
	StatusPartial
	StatusBadCmd
	StatusBadParam
	StatusBadHistory
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusPartial:
		return "PARTIAL"
	case StatusBadCmd:
		return "BAD_CMD"
	case StatusBadParam:
		return "BAD_PARAM"
	case StatusBadHistory:
		return "BAD_HISTORY"
	default:
		return "UNKNOWN"
	}
}

// ParseResult is the fully populated outcome of ParseCommand.
type ParseResult struct {
	Status Status
	// Bindings holds every (Param, validated-token) pair recorded
	// before parsing stopped.
	Bindings *PArgV
	// ErrToken is the 0-based argv index of the token at which a
	// BadCmd/BadParam diverged.
	ErrToken int
	// StrMatchLen is the longest case-insensitive common prefix between
	// the failing token and the closest-matching candidate, used for
	// caret placement (spec.md §4.4 Error column computation).
	StrMatchLen int
	// FailedParam is the Param that rejected the token, set on
	// StatusBadParam.
	FailedParam *Param
	// FailedCause is the underlying Ptype.Validate error for the
	// rejected token, when one exists: nil for a subcommand-keyword
	// mismatch or a duplicate binding; for a switch, the error of the
	// last alternative that reported one (nil if none did).
	FailedCause error
}

// parserState is the scratch space threaded through one ParseCommand
// call: the token stream, the bindings arena, the variable context, and
// (optionally) the help/completion request being serviced.
type parserState struct {
	tokens []Token
	out    *PArgV
	ctx    *ParseContext

	// needIndex is the 0-based token index the cursor lies within, or
	// -1 when this parse is not servicing a help/completion request.
	needIndex int
	collector *Collector

	errP        int
	strMatchLen int
}

// ParseCommand walks cmd's Param Tree against tokens starting just past
// cmd's own name words, validating, binding and (optionally) harvesting
// completion candidates at needIndex (spec.md §4.4). Pass needIndex = -1
// and collector = nil for a plain execution parse.
func ParseCommand(cmd *Command, tokens []Token, needIndex int, collector *Collector, ctx *ParseContext) *ParseResult {
	s := &parserState{
		tokens:    tokens,
		out:       NewPArgV(),
		ctx:       ctx,
		needIndex: needIndex,
		collector: collector,
	}

	startIdx := len(cmd.NameWords())

	idx, status, failed, cause := s.walk(cmd.Paramv, startIdx)

	if status == StatusBadParam || status == StatusPartial {
		return &ParseResult{
			Status:      status,
			Bindings:    s.out,
			ErrToken:    s.errP,
			StrMatchLen: s.strMatchLen,
			FailedParam: failed,
			FailedCause: cause,
		}
	}

	if idx < len(tokens) {
		if cmd.Args != nil {
			value := JoinArgs(tokens[idx:])
			_ = s.out.Insert(cmd.Args, value)
			idx = len(tokens)
		} else {
			return &ParseResult{Status: StatusBadCmd, Bindings: s.out, ErrToken: idx}
		}
	}

	if collector != nil && cmd.Args != nil && collector.Len() == 0 && needIndex >= startIdx && needIndex <= len(tokens) {
		collector.Add(cmd.Args)
	}

	return &ParseResult{Status: StatusOK, Bindings: s.out}
}

// walk matches paramv positionally against the token stream starting at
// idx, recursing into a matched param's own Children. It returns the
// token index reached, the status (OK unless it broke out early), and
// (on BadParam) the Param that rejected the token.
func (s *parserState) walk(paramv ParamV, idx int) (int, Status, *Param, error) {
	noptIndex := -1
	pv := 0

	for pv < len(paramv) {
		param := paramv[pv]

		// Step 1: gate by test.
		if param.Test != "" && !EvalTest(param.Test, s.ctx) {
			pv++
			continue
		}

		var arg *Token
		if idx < len(s.tokens) {
			t := s.tokens[idx]
			arg = &t
		}

		// Step 3: help/completion harvest.
		s.harvest(param, idx, arg)

		// Step 4: validate (duplicate names never bind twice).
		if s.out.Has(param.Name) {
			if param.Optional {
				pv++
				continue
			}
			if arg == nil {
				return idx, StatusPartial, nil, nil
			}
			s.errP = idx
			return idx, StatusBadParam, param, nil
		}

		matched, consumed, value, strMatch, childParamv, chosen, cause := s.tryMatch(param, idx, arg)
		s.strMatchLen = maxInt(s.strMatchLen, strMatch)

		if !matched {
			if param.Optional {
				pv++
				continue
			}
			if arg == nil {
				return idx, StatusPartial, nil, nil
			}
			s.errP = idx
			return idx, StatusBadParam, param, cause
		}

		// Bind.
		_ = s.out.Insert(param, value)
		if param.IsSwitch() && chosen != nil {
			_ = s.out.Insert(chosen, value)
		}

		anchor := s.collector != nil && idx == s.needIndex && pv == len(paramv)-1
		if !anchor {
			idx += consumed
		}

		if param.Optional && !param.Order {
			pv = noptIndex + 1
		} else {
			noptIndex = pv
			pv++
		}

		if len(childParamv) > 0 {
			var status Status
			var failed *Param
			var childCause error
			idx, status, failed, childCause = s.walk(childParamv, idx)
			if status != StatusOK {
				return idx, status, failed, childCause
			}
		}
	}

	return idx, StatusOK, nil, nil
}

// tryMatch attempts to bind param against the token(s) at idx. For a
// switch Param it tries each alternative in declaration order and
// returns the first that validates; for any other Param it validates
// directly, including the regexp-select token-concatenation retry.
func (s *parserState) tryMatch(param *Param, idx int, arg *Token) (matched bool, consumed int, value string, strMatch int, childParamv ParamV, chosen *Param, cause error) {
	if param.IsSwitch() {
		var lastCause error
		for _, alt := range param.Children {
			if alt.Test != "" && !EvalTest(alt.Test, s.ctx) {
				continue
			}
			ok, cons, val, sm, child, _, altCause := s.tryMatch(alt, idx, arg)
			s.strMatchLen = maxInt(s.strMatchLen, sm)
			if ok {
				return true, cons, val, sm, child, alt, nil
			}
			if altCause != nil {
				lastCause = altCause
			}
		}
		return false, 0, "", 0, nil, nil, lastCause
	}

	if arg == nil {
		return false, 0, "", 0, nil, nil, nil
	}

	if param.Mode == ModeSubcommand {
		if hasFoldPrefix(param.Value, arg.Text) {
			return true, 1, param.Value, len(arg.Text), param.Children, nil, nil
		}
		return false, 0, "", 0, nil, nil, nil
	}

	// ModeCommon: validate against Ptype.
	if param.Ptype == nil {
		return false, 0, "", 0, nil, nil, nil
	}

	val, err := param.Ptype.Validate(arg.Text, s.ctx != nil && s.ctx.UseAltName)
	if err == nil {
		return true, 1, val, s.prefixMatchLen(param.Ptype, arg.Text), param.Children, nil, nil
	}

	// Token-concatenation retry for regexp-select (spec.md §4.4 step
	// 4), e.g. "ethernet" + "0/1/2" -> "ethernet0/1/2".
	if param.Ptype.Method == MethodRegexpSelect && idx+1 < len(s.tokens) {
		concat := arg.Text + s.tokens[idx+1].Text
		val2, err2 := param.Ptype.Validate(concat, s.ctx != nil && s.ctx.UseAltName)
		if err2 == nil {
			return true, 2, val2, s.prefixMatchLen(param.Ptype, concat), param.Children, nil, nil
		}
	}

	return false, 0, "", s.prefixMatchLen(param.Ptype, arg.Text), nil, nil, err
}

// prefixMatchLen computes strmatchLen for select/regexp-select types:
// the longest case-insensitive common prefix between tok and any
// declared item name (spec.md §4.4 step 4).
func (s *parserState) prefixMatchLen(t *PType, tok string) int {
	if t == nil || (t.Method != MethodSelect && t.Method != MethodRegexpSelect) {
		return 0
	}

	best := 0
	for _, it := range t.Items {
		n := commonFoldPrefixLen(tok, it.Name)
		if n > best {
			best = n
		}
	}
	return best
}

func commonFoldPrefixLen(a, b string) int {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	n := 0
	for n < len(la) && n < len(lb) && la[n] == lb[n] {
		n++
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// CaretColumn computes the visual column at which a BAD_CMD/BAD_PARAM
// diagnostic's caret should point: the sum of every earlier token's
// length plus one space per token, plus the failing token's
// StrMatchLen (spec.md §4.4 Error column computation).
func CaretColumn(tokens []Token, result *ParseResult) int {
	col := 0
	for i := 0; i < result.ErrToken && i < len(tokens); i++ {
		col += len(tokens[i].Text) + 1
	}
	return col + result.StrMatchLen
}
