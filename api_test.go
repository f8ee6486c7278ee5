package minic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefinePlatformVarAliasesHostStorage(t *testing.T) {
	interp := newTestInterpreter(t)
	hostVar := make([]byte, 4)

	err := interp.DefinePlatformVar("counter", interp.Types.Scalar(TypeInt), hostVar, true)
	require.NoError(t, err)

	e, ok := interp.Globals.Get(interp.Interner.InternCString("counter"))
	require.True(t, ok)
	e.Value.Data[0] = 9
	require.EqualValues(t, 9, hostVar[0])
}

func TestDefinePlatformVarFromPointerCopiesBytes(t *testing.T) {
	interp := newTestInterpreter(t)
	hostVar := []byte{1, 0, 0, 0}

	err := interp.DefinePlatformVarFromPointer("counter", interp.Types.Scalar(TypeInt), hostVar, true)
	require.NoError(t, err)

	e, ok := interp.Globals.Get(interp.Interner.InternCString("counter"))
	require.True(t, ok)
	e.Value.Data[0] = 9
	require.EqualValues(t, 1, hostVar[0]) // unaffected: copied, not aliased
}

func TestDefinePlatformVarRejectsRedefinition(t *testing.T) {
	interp := newTestInterpreter(t)
	hostVar := make([]byte, 4)
	require.NoError(t, interp.DefinePlatformVar("x", interp.Types.Scalar(TypeInt), hostVar, true))
	err := interp.DefinePlatformVar("x", interp.Types.Scalar(TypeInt), hostVar, true)
	require.Error(t, err)
}

func TestCallUndefinedFunctionFails(t *testing.T) {
	interp := newTestInterpreter(t)
	err := interp.Call("missing", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "undefined")
}

func TestLibraryAddBindsNativeFunctions(t *testing.T) {
	interp := newTestInterpreter(t)
	table := NewTable()
	called := false

	err := interp.LibraryAdd(table, "mini", []NativeBuiltin{
		{Prototype: "int abs(int x)", Fn: func(args []*Value, result *Value) { called = true }},
	})
	require.NoError(t, err)

	e, ok := table.Get("abs")
	require.True(t, ok)
	fn, ok := NativeFn(e.Value)
	require.True(t, ok)
	fn(nil, nil)
	require.True(t, called)
}
