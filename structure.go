package rejit

// pipeRecord holds the mid/end token indices of one alternation, keyed
// by its fork position (see structureResult.pipe).
type pipeRecord struct {
	mid int
	end int
}

// structureResult is the output of the Structure Analyzer: per token
// index, the index of its bound suffix operator (or -1), and a
// pipeRecord describing any alternation whose fork belongs at that
// index.
type structureResult struct {
	suffix []int
	pipe   []pipeRecord
}

// pipeScope tracks one open alternation chain: the token index of its
// fork position and the group-stack depth it was opened at. Depth
// identifies which alternations belong to the same enclosing scope.
type pipeScope struct {
	forkPos int
	depth   int
}

// analyzeStructure walks the token list once, producing the suffix
// and pipe arrays the Parser/Lowerer consumes. It never emits IR and
// never inspects set/repeat token bodies: it only needs token kinds
// and positions.
func analyzeStructure(toks []Token, cfg Config) structureResult {
	n := len(toks)
	suffix := make([]int, n)
	pipe := make([]pipeRecord, n)
	for i := range suffix {
		suffix[i] = -1
	}
	for i := range pipe {
		pipe[i] = pipeRecord{mid: -1, end: -1}
	}

	var groupStack []int
	var pipeStack []pipeScope
	prev := -1

	closeScopesAtDepth := func(depth, end int) {
		for len(pipeStack) > 0 && pipeStack[len(pipeStack)-1].depth == depth {
			top := pipeStack[len(pipeStack)-1]
			pipeStack = pipeStack[:len(pipeStack)-1]
			pipe[top.forkPos].end = end
		}
	}

	for i, t := range toks {
		switch {
		case t.Kind == kLParen:
			if len(groupStack) >= cfg.MaxStackDepth {
				fail(ErrOverflow, t.Position)
			}
			groupStack = append(groupStack, i)
			prev = -1

		case t.Kind == kRParen:
			depth := len(groupStack)
			closeScopesAtDepth(depth, i)
			if len(groupStack) > 0 {
				prev = groupStack[len(groupStack)-1]
				groupStack = groupStack[:len(groupStack)-1]
			} else {
				prev = -1
			}

		case t.Kind.isSuffix():
			if prev == -1 {
				if t.Kind != kQuestion {
					fail(ErrSyntax, t.Position)
				}
				// Stray '?' with no preceding atom: silently
				// ignored. This is what keeps "(?...)" prefix
				// groups parseable once their '?' is tokenized.
			} else {
				suffix[prev] = i
				prev = -1
			}

		case t.Kind == kPipe:
			if i == n-1 {
				fail(ErrSyntax, t.Position)
			}
			depth := len(groupStack)
			var forkPos int
			switch {
			case len(pipeStack) > 0 && pipeStack[len(pipeStack)-1].depth == depth:
				// Another '|' at the same open scope: nest a new
				// alternation starting where the previous one's
				// second arm was going to begin, i.e. right-fold
				// a|b|c into a|(b|c).
				forkPos = pipe[pipeStack[len(pipeStack)-1].forkPos].mid
			case len(groupStack) > 0:
				forkPos = groupStack[len(groupStack)-1] + 1
			default:
				forkPos = 0
			}
			if len(pipeStack) >= cfg.MaxStackDepth {
				fail(ErrOverflow, t.Position)
			}
			pipe[forkPos].mid = i + 1
			pipeStack = append(pipeStack, pipeScope{forkPos: forkPos, depth: depth})
			prev = -1

		default:
			prev = i
		}
	}

	closeScopesAtDepth(0, n)

	return structureResult{suffix: suffix, pipe: pipe}
}
