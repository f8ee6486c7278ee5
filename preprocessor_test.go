package minic

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// defineIntMacro drives an actual `#define NAME value` through the
// lexer and GetToken, the same path a real source file takes, so the
// macro's FuncBody is populated exactly as handleHashDefine leaves it
// rather than hand-built to look like a scalar Value.
func defineIntMacro(t *testing.T, interp *Interpreter, name string, v int64) {
	t.Helper()
	src := fmt.Sprintf("#define %s %d\n", name, v)
	buf := interp.Lex("<test>", []byte(src))
	c := interp.newCursorFor("<test>", buf, false)
	for {
		tok, _ := c.GetToken(true)
		if tok == TokenEOF {
			break
		}
	}
}

func TestHashIfTakesTrueBranch(t *testing.T) {
	interp := newTestInterpreter(t)
	defineIntMacro(t, interp, "X", 1)

	buf := interp.Lex("t.c", []byte("#if X\nint a = 1;\n#else\nint a = 2;\n#endif\n"))
	c := interp.newCursorFor("t.c", buf, false)

	var seenAssignedValue int64 = -1
	for {
		tok, val := c.GetToken(true)
		if tok == TokenEOF {
			break
		}
		if tok == TokenIntegerConstant {
			seenAssignedValue = val.Int
		}
	}
	require.EqualValues(t, 1, seenAssignedValue)
}

func TestHashIfTakesElseBranch(t *testing.T) {
	interp := newTestInterpreter(t)
	defineIntMacro(t, interp, "X", 0)

	buf := interp.Lex("t.c", []byte("#if X\nint a = 1;\n#else\nint a = 2;\n#endif\n"))
	c := interp.newCursorFor("t.c", buf, false)

	var seenAssignedValue int64 = -1
	for {
		tok, val := c.GetToken(true)
		if tok == TokenEOF {
			break
		}
		if tok == TokenIntegerConstant {
			seenAssignedValue = val.Int
		}
	}
	require.EqualValues(t, 2, seenAssignedValue)
}

func TestHashIfUndefinedMacroFails(t *testing.T) {
	interp := newTestInterpreter(t)
	buf := interp.Lex("t.c", []byte("#if X\nint a = 1;\n#endif\n"))
	c := interp.newCursorFor("t.c", buf, false)

	err := guard(func() {
		for {
			tok, _ := c.GetToken(true)
			if tok == TokenEOF {
				break
			}
		}
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "undefined")
}

func TestHashEndifWithoutHashIfFails(t *testing.T) {
	interp := newTestInterpreter(t)
	buf := interp.Lex("t.c", []byte("#endif\n"))
	c := interp.newCursorFor("t.c", buf, false)

	err := guard(func() {
		c.GetToken(true)
	})
	require.Error(t, err)
}
