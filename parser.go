package rejit

// groupFrame tracks one open composite (group or lookaround) awaiting
// its closing ')': the instruction it corresponds to, the source
// position of its first body token (reported if it turns out to be a
// variable-length lookbehind), and whether it is a lookbehind at all.
type groupFrame struct {
	instrIdx     int
	bodyPos      int
	isLookbehind bool
}

// Parse lowers pattern into IR using the default configuration.
func Parse(pattern string, flags Flags) (*Result, error) {
	return ParseWithConfig(pattern, flags, DefaultConfig())
}

// ParseWithConfig tokenizes, analyzes and lowers pattern into a
// Result, honoring flags both as given and as mutated by any inline
// "(?flags)" prefix groups encountered.
func ParseWithConfig(pattern string, flags Flags, cfg Config) (res *Result, err error) {
	defer recoverParseError(&err)
	cfg = cfg.normalize()

	src := []rune(pattern)
	toks := tokenize(pattern)
	st := analyzeStructure(toks, cfg)
	res = lower(src, toks, st, flags, cfg)
	return res, nil
}

func advancePastPrefix(toks []Token, j int, remaining int) int {
	for remaining > 0 && j < len(toks) {
		if toks[j].Length <= remaining {
			remaining -= toks[j].Length
			j++
		} else {
			toks[j].Position += remaining
			toks[j].Length -= remaining
			remaining = 0
		}
	}
	return j
}

// parseRepBody parses the "{m}" / "{m,n}" / "{m,}" body of a REP
// token. hasMax is false for the unbounded "{m,}" form.
func parseRepBody(src []rune, tok Token) (m, n int, hasMax bool) {
	body := src[tok.Position+1 : tok.Position+tok.Length-1]

	comma := -1
	for idx, r := range body {
		if r == ',' {
			comma = idx
			break
		}
	}

	parseInt := func(rs []rune) int {
		if len(rs) == 0 {
			fail(ErrInt, tok.Position)
		}
		v := 0
		for _, r := range rs {
			if r < '0' || r > '9' {
				fail(ErrInt, tok.Position)
			}
			v = v*10 + int(r-'0')
			if v > 1<<30 {
				fail(ErrInt, tok.Position)
			}
		}
		return v
	}

	if comma == -1 {
		m = parseInt(body)
		return m, m, true
	}
	m = parseInt(body[:comma])
	rest := body[comma+1:]
	if len(rest) == 0 {
		return m, 0, false
	}
	n = parseInt(rest)
	return m, n, true
}

func lower(src []rune, toks []Token, st structureResult, flags Flags, cfg Config) *Result {
	n := len(toks)
	instrs := make([]Instr, 0, n+1)
	groups := 0
	maxdepth := 0

	var groupStack []groupFrame
	var pipeStack []int
	forkInstrIdx := make(map[int]int)

	emit := func(in Instr) int {
		instrs = append(instrs, in)
		return len(instrs) - 1
	}

	// finalizeQuantifier completes a REP instruction's Len once its
	// single wrapped atom (at atomIdx) has fully emitted, whether
	// that atom was simple (same token, immediately) or composite
	// (closed much later at its own ')'). Every other quantifier
	// kind already got its fixed -1 Len at emission time, so this
	// only ever has work to do for IRep.
	finalizeQuantifier := func(atomIdx int) {
		if atomIdx == 0 {
			return
		}
		prev := &instrs[atomIdx-1]
		if prev.Kind != IRep || prev.Len != lenUnset {
			return
		}
		bodyLen := instrs[atomIdx].Len
		if prev.Value == prev.Value2 && bodyLen != -1 {
			prev.Len = bodyLen * prev.Value
		} else {
			prev.Len = -1
		}
	}

	i := 0
	for i < n {
		t := toks[i]

		// 1. Maxdepth, measured before this token can open/close a
		// group of its own.
		if len(groupStack) > maxdepth {
			maxdepth = len(groupStack)
		}

		// atomStart is where everything this token contributes will
		// begin: an existing alternation's mid/end pointer must
		// resolve here, since that's also where a brand new fork (if
		// any) is about to be emitted.
		atomStart := len(instrs)

		// 3. Alternation patching, against pipe records opened by an
		// earlier token.
		for len(pipeStack) > 0 {
			top := pipeStack[len(pipeStack)-1]
			if st.pipe[top].mid == i {
				instrs[forkInstrIdx[top]].Value = atomStart
			}
			if st.pipe[top].end == i {
				orIdx := forkInstrIdx[top]
				instrs[orIdx].Value2 = atomStart
				instrs[orIdx].Len = lengthOf(instrs, orIdx)
				pipeStack = pipeStack[:len(pipeStack)-1]
				delete(forkInstrIdx, top)
				continue
			}
			break
		}

		// 4. Fork emission. This must happen before this token's own
		// quantifier (below), so the OR instruction — not the
		// quantifier — is the outermost thing at atomStart: forward
		// pointers must resolve to content strictly after the
		// composite that owns them.
		if st.pipe[i].mid != -1 {
			orIdx := emit(Instr{Kind: IOr})
			forkInstrIdx[i] = orIdx
			pipeStack = append(pipeStack, i)
		}

		// 2. Suffix emission.
		if sufIdx := st.suffix[i]; sufIdx != -1 {
			sufTok := toks[sufIdx]
			var kind Kind
			value, value2 := 0, 0
			switch sufTok.Kind {
			case kStar:
				kind = IStar
			case kPlus:
				kind = IPlus
			case kQuestion:
				kind = IOpt
			case kRepeat:
				kind = IRep
				m, mx, hasMax := parseRepBody(src, sufTok)
				value = m
				if hasMax {
					value2 = mx
				} else {
					value2 = -1
				}
			}
			if kind == IStar || kind == IPlus {
				if next := sufIdx + 1; next < n && toks[next].Kind == kQuestion {
					if kind == IStar {
						kind = IMStar
					} else {
						kind = IMPlus
					}
				}
			}
			lenVal := -1
			if kind == IRep {
				lenVal = lenUnset
			}
			emit(Instr{Kind: kind, Value: value, Value2: value2, Len: lenVal})
		}

		// 5. Token dispatch.
		switch t.Kind {
		case kWord:
			bytes := decodeWord(src, t)
			idx := emit(Instr{Kind: IWord, Bytes: bytes, Len: len(bytes)})
			finalizeQuantifier(idx)
			i++

		case kCaret:
			idx := emit(Instr{Kind: IBegin})
			finalizeQuantifier(idx)
			i++

		case kDollar:
			idx := emit(Instr{Kind: IEnd})
			finalizeQuantifier(idx)
			i++

		case kDot:
			idx := emit(Instr{Kind: IDot, Len: 1})
			finalizeQuantifier(idx)
			i++

		case kSet:
			set := expandSet(src, t)
			kind := ISet
			if set.negated {
				kind = INSet
			}
			idx := emit(Instr{Kind: kind, Set: set, Len: 1})
			finalizeQuantifier(idx)
			i++

		case kMetaSet:
			letter := src[t.Position+1]
			neg := 0
			low := letter
			if letter >= 'A' && letter <= 'Z' {
				neg = 1
				low = letter + ('a' - 'A')
			}
			idx := emit(Instr{Kind: IUSet, Value: int(low), Value2: neg, Len: -1})
			finalizeQuantifier(idx)
			i++

		case kBackref:
			digit := src[t.Position+1]
			idx := emit(Instr{Kind: IBack, Value: int(digit-'0') - 1, Len: -1})
			finalizeQuantifier(idx)
			i++

		case kPipe:
			i++ // fully handled by the alternation steps above

		case kLParen:
			kind, consumed, newFlags := sniffGroupPrefix(src, t.Position)
			j := advancePastPrefix(toks, i+1, consumed)

			if kind == groupFlagsOnly {
				flags |= newFlags
				i = j
				continue
			}

			var instrKind Kind
			capIdx := -1
			switch kind {
			case groupCapture:
				instrKind = ICGroup
				capIdx = groups
				groups++
			case groupNonCapture:
				instrKind = IGroup
			case groupLookahead:
				instrKind = ILAhead
			case groupNegLookahead:
				instrKind = INLAhead
			case groupLookbehind:
				instrKind = ILBehind
			case groupNegLookbehind:
				instrKind = INLBehind
			}

			gi := emit(Instr{Kind: instrKind, Value2: capIdx})
			bodyPos := t.Position
			if j < n {
				bodyPos = toks[j].Position
			}
			groupStack = append(groupStack, groupFrame{
				instrIdx:     gi,
				bodyPos:      bodyPos,
				isLookbehind: instrKind == ILBehind || instrKind == INLBehind,
			})
			i = j

		case kRParen:
			if len(groupStack) == 0 {
				fail(ErrUnboundedToken, t.Position)
			}
			top := groupStack[len(groupStack)-1]
			groupStack = groupStack[:len(groupStack)-1]

			instrs[top.instrIdx].Value = len(instrs)
			bodyLen := lengthOfRange(instrs, top.instrIdx+1, len(instrs))
			instrs[top.instrIdx].Len = bodyLen
			if top.isLookbehind && bodyLen == -1 {
				fail(ErrLookbehindVariable, top.bodyPos)
			}
			finalizeQuantifier(top.instrIdx)
			i++

		default:
			// Suffix-kind tokens (STAR/PLUS/Q/REP) reached directly:
			// already consumed as part of the atom they bind to.
			i++
		}
	}

	// Termination: any alternation that ran to end-of-pattern never
	// saw its recorded end (a real token index), since it only
	// matches the sentinel position n. Close them now.
	for len(pipeStack) > 0 {
		top := pipeStack[len(pipeStack)-1]
		pipeStack = pipeStack[:len(pipeStack)-1]
		orIdx := forkInstrIdx[top]
		instrs[orIdx].Value2 = len(instrs)
		instrs[orIdx].Len = lengthOf(instrs, orIdx)
		delete(forkInstrIdx, top)
	}

	emit(Instr{Kind: INull})

	if len(groupStack) > 0 {
		fail(ErrUnboundedToken, len(src))
	}

	return &Result{Instrs: instrs, Groups: groups, MaxDepth: maxdepth, Flags: flags}
}
