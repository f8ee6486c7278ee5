package minic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopeBeginEndHidesAndReactivatesStatics(t *testing.T) {
	interp := newTestInterpreter(t)
	buf := interp.Lex("t.c", []byte("{ int x; }"))
	c := interp.newCursorFor("t.c", buf, false)

	locals := NewTable()
	newID, prevID := ScopeBegin(c, locals)
	require.NotEqual(t, ScopeID(0), newID)

	v := interp.Arena.AllocValueFromType(interp.Types.Scalar(TypeInt), true, nil, LocationOnStack, interp.Types)
	require.NotNil(t, v)
	v.ScopeID = newID
	locals.Set("x", v, "t.c", 1, 1)

	_, ok := locals.Get("x")
	require.True(t, ok)

	ScopeEnd(c, locals, newID, prevID)

	_, ok = locals.Get("x")
	require.False(t, ok)
	require.True(t, VariableDefinedAndOutOfScope(locals, "x"))

	reenteredID, _ := ScopeBegin(c, locals)
	require.Equal(t, newID, reenteredID)
	_, ok = locals.Get("x")
	require.True(t, ok)
}

func TestStaticVariableSurvivesFramePop(t *testing.T) {
	interp := newTestInterpreter(t)
	buf := interp.Lex("t.c", []byte("void f(void){}"))
	c := interp.newCursorFor("t.c", buf, false)

	interp.FramePush(c, "f", 0)
	v := interp.Arena.AllocValueFromType(interp.Types.Scalar(TypeInt), true, nil, LocationOnHeap, interp.Types)
	require.NotNil(t, v)
	interp.DefineStatic(c, "f", "n", v)
	interp.FramePop()

	mangled := mangledStaticName("t.c", "f", "n")
	_, ok := interp.Globals.Get(interp.Interner.InternCString(mangled))
	require.True(t, ok)
}

func TestFramePushPopRestoresArenaMark(t *testing.T) {
	interp := newTestInterpreter(t)
	buf := interp.Lex("t.c", []byte("void f(void){}"))
	c := interp.newCursorFor("t.c", buf, false)

	mark := interp.Arena.Mark()
	interp.FramePush(c, "f", 2)
	interp.Arena.AllocStack(64)
	caller := interp.FramePop()

	require.Equal(t, mark, interp.Arena.Mark())
	require.Equal(t, c, caller)
}
