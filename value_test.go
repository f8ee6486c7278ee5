package minic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocValueFromTypeSizesPayload(t *testing.T) {
	arena, err := NewArena(4096, false)
	require.NoError(t, err)
	reg := NewTypeRegistry(NewInterner(arena))

	v := arena.AllocValueFromType(reg.Scalar(TypeInt), false, nil, OnHeap, reg)
	require.NotNil(t, v)
	require.Len(t, v.Data, 4)
}

func TestAllocValueSharedTracksLValueFrom(t *testing.T) {
	arena, err := NewArena(4096, false)
	require.NoError(t, err)
	reg := NewTypeRegistry(NewInterner(arena))

	owner := arena.AllocValueFromType(reg.Scalar(TypeInt), true, nil, OnHeap, reg)
	require.NotNil(t, owner)

	shared := AllocValueShared(owner)
	require.Equal(t, owner, shared.LValueFrom)
	require.Equal(t, owner.Data, shared.Data)
}

func TestAllocValueSharedFromNonLValueHasNilLValueFrom(t *testing.T) {
	arena, err := NewArena(4096, false)
	require.NoError(t, err)
	reg := NewTypeRegistry(NewInterner(arena))

	owner := arena.AllocValueFromType(reg.Scalar(TypeInt), false, nil, OnHeap, reg)
	shared := AllocValueShared(owner)
	require.Nil(t, shared.LValueFrom)
}

func TestAllocValueAndCopyDuplicatesPayload(t *testing.T) {
	arena, err := NewArena(4096, false)
	require.NoError(t, err)
	reg := NewTypeRegistry(NewInterner(arena))

	src := arena.AllocValueFromType(reg.Scalar(TypeInt), false, nil, OnHeap, reg)
	src.Data[0] = 42

	dup := arena.AllocValueAndCopy(src, OnHeap)
	require.Equal(t, src.Data, dup.Data)
	dup.Data[0] = 7
	require.EqualValues(t, 42, src.Data[0])
}

func TestFreeReclaimsMostRecentHeapAllocation(t *testing.T) {
	arena, err := NewArena(64, false)
	require.NoError(t, err)
	reg := NewTypeRegistry(NewInterner(arena))

	v := arena.AllocValueFromType(reg.Scalar(TypeLong), false, nil, OnHeap, reg)
	require.NotNil(t, v)
	before := arena.heapEnd
	arena.Free(v)
	require.Less(t, arena.heapEnd, before)
}
