package minic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedPlatform feeds GetLine from a fixed queue of lines, modeling
// the host's line-input hook in interactive mode.
type scriptedPlatform struct {
	NullPlatform
	lines []string
	next  int
}

func (p *scriptedPlatform) GetLine(prompt string) ([]byte, bool) {
	if p.next >= len(p.lines) {
		return nil, false
	}
	line := p.lines[p.next]
	p.next++
	return []byte(line), true
}

func TestInteractiveCursorSpansMultipleTokenLines(t *testing.T) {
	cfg := NewConfig()
	platform := &scriptedPlatform{lines: []string{
		"int f(int x)\n",
		"{\n",
		"return x+1;\n",
		"}\n",
	}}
	interp, err := New(cfg, platform)
	require.NoError(t, err)
	defer interp.Cleanup()

	c := NewInteractiveCursor(interp, "<stdin>")

	var tokens []Token
	for i := 0; i < len(platform.lines); i++ {
		err := interp.ParseInteractiveLine(c, "", func(cur *Cursor, tok Token, val *DecodedValue) {
			tokens = append(tokens, tok)
		})
		require.NoError(t, err)
	}
	require.Contains(t, tokens, TokenReturn)
	require.Contains(t, tokens, TokenOpenBrace)
	require.Contains(t, tokens, TokenCloseBrace)
}

func TestInteractiveCursorPrunesPassedLines(t *testing.T) {
	cfg := NewConfig()
	platform := &scriptedPlatform{lines: []string{"int a;\n", "int b;\n"}}
	interp, err := New(cfg, platform)
	require.NoError(t, err)
	defer interp.Cleanup()

	c := NewInteractiveCursor(interp, "<stdin>")
	require.NoError(t, interp.ParseInteractiveLine(c, "", func(*Cursor, Token, *DecodedValue) {}))
	first := c.lineHead
	require.NoError(t, interp.ParseInteractiveLine(c, "", func(*Cursor, Token, *DecodedValue) {}))

	require.NotEqual(t, first, c.lineHead)
}

func TestCopyTokensStripsEOFAndTerminatesWithEndOfFunction(t *testing.T) {
	interp := newTestInterpreter(t)
	buf := interp.Lex("t.c", []byte("return 1;"))
	start := interp.newCursorFor("t.c", buf, false)
	end := interp.newCursorFor("t.c", buf, false)
	end.pos = len(buf)

	copied := CopyTokens(start, end)
	require.Equal(t, TokenEndOfFunction, Token(copied[len(copied)-1]))
	require.Len(t, copied, len(buf)-1) // 2-byte EOF pair dropped, 1-byte EndOfFunction added
}

// TestCopyTokensSpansMultipleInteractiveLines exercises the
// multi-node traversal branch: start and end sitting on different
// TokenLine nodes of the same interactive session (the shape an
// interactively-typed function definition takes).
func TestCopyTokensSpansMultipleInteractiveLines(t *testing.T) {
	cfg := NewConfig()
	platform := &scriptedPlatform{lines: []string{
		"int f(int x)\n",
		"{\n",
		"return x+1;\n",
		"}\n",
	}}
	interp, err := New(cfg, platform)
	require.NoError(t, err)
	defer interp.Cleanup()

	c := NewInteractiveCursor(interp, "<stdin>")

	require.NoError(t, interp.ParseInteractiveLine(c, "", func(*Cursor, Token, *DecodedValue) {}))
	require.NoError(t, interp.ParseInteractiveLine(c, "", func(*Cursor, Token, *DecodedValue) {}))
	startSnapshot := *c
	require.NoError(t, interp.ParseInteractiveLine(c, "", func(*Cursor, Token, *DecodedValue) {}))
	require.NoError(t, interp.ParseInteractiveLine(c, "", func(*Cursor, Token, *DecodedValue) {}))
	endSnapshot := *c

	require.NotEqual(t, startSnapshot.lineCur, endSnapshot.lineCur)

	copied := CopyTokens(&startSnapshot, &endSnapshot)
	require.Equal(t, TokenEndOfFunction, Token(copied[len(copied)-1]))
	require.Greater(t, len(copied), 1)
}
