package minic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableSetIsInsertIfAbsent(t *testing.T) {
	table := NewTable()
	v := &Value{}
	require.True(t, table.Set("a", v, "f.c", 1, 1))
	require.False(t, table.Set("a", v, "f.c", 2, 2))
}

func TestTableDeleteRemovesEntry(t *testing.T) {
	table := NewTable()
	v := &Value{}
	table.Set("a", v, "f.c", 1, 1)
	require.Equal(t, v, table.Delete("a"))
	_, ok := table.Get("a")
	require.False(t, ok)
}

func TestTableForEachAndFindIf(t *testing.T) {
	table := NewTable()
	table.Set("a", &Value{}, "f.c", 1, 1)
	table.Set("b", &Value{}, "f.c", 1, 1)

	seen := map[string]bool{}
	table.ForEach(func(key string, e *TableEntry) { seen[key] = true })
	require.True(t, seen["a"] && seen["b"])

	found := table.FindIf(func(key string, e *TableEntry) bool { return key == "b" })
	require.NotNil(t, found)
}

func TestTableDeleteIf(t *testing.T) {
	table := NewTable()
	table.Set("a", &Value{}, "f.c", 1, 1)
	table.Set("b", &Value{}, "f.c", 1, 1)
	table.DeleteIf(func(key string, e *TableEntry) bool { return key == "a" })

	_, ok := table.Get("a")
	require.False(t, ok)
	_, ok = table.Get("b")
	require.True(t, ok)
}

func TestReservedWordTableSharesLookupPath(t *testing.T) {
	arena, err := NewArena(4096, false)
	require.NoError(t, err)
	in := NewInterner(arena)
	reserved := newReservedWordTable(in)

	e, ok := reserved.Get(in.InternCString("int"))
	require.True(t, ok)
	require.Equal(t, EntryReservedWord, e.Kind)
	require.Equal(t, TokenInt, e.ReservedToken)
}
