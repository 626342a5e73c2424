package rejit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSniffGroupPrefixNonCapture(t *testing.T) {
	src := []rune("(?:ab)")
	kind, consumed, _ := sniffGroupPrefix(src, 0)
	require.Equal(t, groupNonCapture, kind)
	require.Equal(t, 2, consumed)
}

func TestSniffGroupPrefixLookahead(t *testing.T) {
	kind, consumed, _ := sniffGroupPrefix([]rune("(?=ab)"), 0)
	require.Equal(t, groupLookahead, kind)
	require.Equal(t, 2, consumed)
}

func TestSniffGroupPrefixNegLookahead(t *testing.T) {
	kind, consumed, _ := sniffGroupPrefix([]rune("(?!ab)"), 0)
	require.Equal(t, groupNegLookahead, kind)
	require.Equal(t, 2, consumed)
}

func TestSniffGroupPrefixLookbehind(t *testing.T) {
	kind, consumed, _ := sniffGroupPrefix([]rune("(?<=ab)"), 0)
	require.Equal(t, groupLookbehind, kind)
	require.Equal(t, 3, consumed)
}

func TestSniffGroupPrefixNegLookbehind(t *testing.T) {
	kind, consumed, _ := sniffGroupPrefix([]rune("(?<!ab)"), 0)
	require.Equal(t, groupNegLookbehind, kind)
	require.Equal(t, 3, consumed)
}

func TestSniffGroupPrefixFlagsOnly(t *testing.T) {
	kind, consumed, flags := sniffGroupPrefix([]rune("(?is)Ab"), 0)
	require.Equal(t, groupFlagsOnly, kind)
	require.Equal(t, 4, consumed)
	require.True(t, flags&FlagICase != 0)
	require.True(t, flags&FlagDotAll != 0)
}

func TestSniffGroupPrefixPlainCapture(t *testing.T) {
	kind, consumed, _ := sniffGroupPrefix([]rune("(ab)"), 0)
	require.Equal(t, groupCapture, kind)
	require.Equal(t, 0, consumed)
}

func TestSniffGroupPrefixBadLookbehindLetterErrors(t *testing.T) {
	perr := parseErrorFrom(func() { sniffGroupPrefix([]rune("(?<xab)"), 0) })
	require.NotNil(t, perr)
	require.Equal(t, ErrSyntax, perr.Kind)
}

func TestSniffGroupPrefixBadFlagLetterErrors(t *testing.T) {
	perr := parseErrorFrom(func() { sniffGroupPrefix([]rune("(?zab)"), 0) })
	require.NotNil(t, perr)
	require.Equal(t, ErrSyntax, perr.Kind)
}

func TestSniffGroupPrefixUnterminatedErrors(t *testing.T) {
	perr := parseErrorFrom(func() { sniffGroupPrefix([]rune("(?i"), 0) })
	require.NotNil(t, perr)
	require.Equal(t, ErrUnboundedToken, perr.Kind)
}

func TestAdvancePastPrefixShrinksSingleToken(t *testing.T) {
	toks := []Token{{Kind: kWord, Position: 1, Length: 5}}
	j := advancePastPrefix(toks, 0, 3)
	require.Equal(t, 0, j)
	require.Equal(t, 4, toks[0].Position)
	require.Equal(t, 2, toks[0].Length)
}

func TestAdvancePastPrefixConsumesWholeTokens(t *testing.T) {
	toks := []Token{
		{Kind: kWord, Position: 1, Length: 2},
		{Kind: kWord, Position: 3, Length: 3},
	}
	j := advancePastPrefix(toks, 0, 2)
	require.Equal(t, 1, j)
	require.Equal(t, Token{Kind: kWord, Position: 3, Length: 3}, toks[1])
}
