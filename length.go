package rejit

// nextSiblingIndex returns the instruction index immediately after
// the composite (or quantifier) rooted at i, i.e. the index to resume
// scanning a sequence of siblings from. Simple instructions just
// occupy one slot; composites skip to their stored end pointer; a
// quantifier skips past the single atom it wraps.
func nextSiblingIndex(instrs []Instr, i int) int {
	in := &instrs[i]
	switch in.Kind.normalize() {
	case IGroup, ICGroup, ILAhead, INLAhead, ILBehind, INLBehind:
		return in.Value
	case IOr:
		return in.Value2
	case IOpt, IStar, IPlus, IMStar, IMPlus, IRep:
		return nextSiblingIndex(instrs, i+1)
	default:
		return i + 1
	}
}

// lengthOf returns the fixed match width in bytes of the instruction
// at i, or -1 if it is variable, per the Length Analyzer's table.
func lengthOf(instrs []Instr, i int) int {
	in := &instrs[i]
	switch in.Kind.normalize() {
	case IWord:
		return len(in.Bytes)
	case ISet, INSet, IDot:
		return 1
	case IUSet, IOpt, IStar, IMStar, IPlus, IMPlus, IBack:
		return -1
	case IRep:
		if in.Value != in.Value2 {
			return -1
		}
		body := lengthOf(instrs, i+1)
		if body == -1 {
			return -1
		}
		return body * in.Value
	case IBegin, IEnd, ILAhead, INLAhead, ILBehind, INLBehind:
		return 0
	case IGroup, ICGroup:
		return lengthOfRange(instrs, i+1, in.Value)
	case IOr:
		left := lengthOfRange(instrs, i+1, in.Value)
		right := lengthOfRange(instrs, in.Value, in.Value2)
		if left == right {
			return left
		}
		return -1
	default:
		return 0
	}
}

// lengthOfRange sums the widths of the sibling sequence [start, end),
// returning -1 as soon as any sibling is variable-width.
func lengthOfRange(instrs []Instr, start, end int) int {
	total := 0
	for i := start; i < end; i = nextSiblingIndex(instrs, i) {
		w := lengthOf(instrs, i)
		if w == -1 {
			return -1
		}
		total += w
	}
	return total
}
