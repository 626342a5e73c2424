package rejit

// reader is a rune-scanning cursor over a pattern, used by the
// tokenizer (the set expander indexes the rune slice itself). It mirrors the call shape of the
// teacher's SafeReader (curr/nextCh/literal) rebuilt against a plain
// []rune since its own definition wasn't part of the retrieved
// source.
type reader struct {
	src []rune
	pos int
}

func newReader(pattern string) *reader {
	return &reader{src: []rune(pattern)}
}

func (r *reader) eof() bool {
	return r.pos >= len(r.src)
}

func (r *reader) curr() (rune, bool) {
	if r.eof() {
		return 0, false
	}
	return r.src[r.pos], true
}

func (r *reader) nextCh() (rune, bool) {
	ch, ok := r.curr()
	if ok {
		r.pos++
	}
	return ch, ok
}

// literal scans forward from the current position (already past the
// opening delimiter) until an unescaped close rune, returning the
// body between the delimiters. A backslash inside the body escapes
// the following rune so the close delimiter can appear literally.
func (r *reader) literal(close rune) (body []rune, ok bool) {
	start := r.pos
	for !r.eof() {
		ch, _ := r.curr()
		if ch == '\\' {
			r.pos += 2
			continue
		}
		if ch == close {
			body = r.src[start:r.pos]
			r.pos++
			return body, true
		}
		r.pos++
	}
	return nil, false
}
