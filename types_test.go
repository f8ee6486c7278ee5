package minic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPointerTypesAreInterned(t *testing.T) {
	arena, err := NewArena(4096, false)
	require.NoError(t, err)
	reg := NewTypeRegistry(NewInterner(arena))

	intType := reg.Scalar(TypeInt)
	p1 := reg.Pointer(intType)
	p2 := reg.Pointer(intType)
	require.Same(t, p1, p2)
}

func TestArrayTypesAreInterned(t *testing.T) {
	arena, err := NewArena(4096, false)
	require.NoError(t, err)
	reg := NewTypeRegistry(NewInterner(arena))

	charType := reg.Scalar(TypeChar)
	a1 := reg.Array(charType, 8)
	a2 := reg.Array(charType, 8)
	a3 := reg.Array(charType, 16)
	require.Same(t, a1, a2)
	require.NotSame(t, a1, a3)
	require.Equal(t, 8, a1.Size)
}

func TestForwardDeclaredStructCompletesOnce(t *testing.T) {
	arena, err := NewArena(4096, false)
	require.NoError(t, err)
	reg := NewTypeRegistry(NewInterner(arena))

	s := reg.DeclareTagged(TypeStruct, "point")
	require.False(t, s.Complete)

	members := NewTable()
	reg.CompleteStruct(s, members, 8, 4)
	require.True(t, s.Complete)

	require.Panics(t, func() { reg.CompleteStruct(s, members, 8, 4) })
}

func TestDeclareTaggedReturnsSameTypeForSameTag(t *testing.T) {
	arena, err := NewArena(4096, false)
	require.NoError(t, err)
	reg := NewTypeRegistry(NewInterner(arena))

	a := reg.DeclareTagged(TypeStruct, "point")
	b := reg.DeclareTagged(TypeStruct, "point")
	require.Same(t, a, b)
}
