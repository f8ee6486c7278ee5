package minic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArenaHeapAndStackDoNotCollide(t *testing.T) {
	a, err := NewArena(64, false)
	require.NoError(t, err)

	h := a.AllocHeap(32)
	require.NotNil(t, h)
	s := a.AllocStack(32)
	require.NotNil(t, s)

	require.Nil(t, a.AllocHeap(1))
	require.Nil(t, a.AllocStack(1))
}

func TestArenaFramePushPopRestoresMark(t *testing.T) {
	a, err := NewArena(256, false)
	require.NoError(t, err)

	mark := a.Mark()
	a.AllocStack(40)
	a.AllocStack(16)
	a.Release(mark)

	require.Equal(t, mark, a.Mark())
}

func TestArenaPopStackUnderrunFails(t *testing.T) {
	a, err := NewArena(64, false)
	require.NoError(t, err)

	require.False(t, a.PopStack(1000))
}

func TestArenaMMapBacked(t *testing.T) {
	a, err := NewArena(4096, true)
	require.NoError(t, err)
	defer a.Close()

	p := a.AllocHeap(128)
	require.NotNil(t, p)
	require.Len(t, p, 128)
}
