package minic

import mmap "github.com/edsrzf/mmap-go"

// MemoryLocation says which end of the Arena an allocation should come
// from: long-lived heap objects grow from the low end, scope-local
// stack frames grow down from the high end. A single contiguous region
// backs both so exhaustion is observed symmetrically.
type MemoryLocation int

const (
	LocationOnHeap MemoryLocation = iota
	LocationOnStack
)

// arenaBuffer is the storage an Arena bump-allocates into. A plain
// []byte satisfies it directly; mmapBuffer wraps an anonymous
// mmap.MMap region for hosts that want the heap page-aligned and
// OS-backed (Config "arena.use_mmap").
type arenaBuffer interface {
	Bytes() []byte
}

type sliceBuffer []byte

func (b sliceBuffer) Bytes() []byte { return b }

type mmapBuffer struct{ m mmap.MMap }

func (b mmapBuffer) Bytes() []byte { return b.m }

// Arena is the two-ended bump allocator that serves every dynamic
// allocation made by the interpreter. heapEnd only ever grows upward;
// stackEnd only ever shrinks downward. They must not cross.
type Arena struct {
	buf      arenaBuffer
	heapEnd  int
	stackEnd int
}

// NewArena allocates a contiguous region of size bytes, backed by an
// anonymous mmap mapping when useMMap is set, or a plain Go slice
// otherwise.
func NewArena(size int, useMMap bool) (*Arena, error) {
	if !useMMap {
		return &Arena{buf: make(sliceBuffer, size), heapEnd: 0, stackEnd: size}, nil
	}
	m, err := mmap.MapRegion(nil, size, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, err
	}
	return &Arena{buf: mmapBuffer{m: m}, heapEnd: 0, stackEnd: size}, nil
}

// Close unmaps the backing region if it was mmap-backed. A
// slice-backed arena has nothing to release explicitly.
func (a *Arena) Close() error {
	if m, ok := a.buf.(mmapBuffer); ok {
		return m.m.Unmap()
	}
	return nil
}

// AllocHeap serves a long-lived allocation, freed individually by
// FreeHeap. Returns nil when the arena is exhausted; callers surface
// that as the fatal "out of memory" condition.
func (a *Arena) AllocHeap(n int) []byte {
	if a.heapEnd+n > a.stackEnd {
		return nil
	}
	p := a.buf.Bytes()[a.heapEnd : a.heapEnd+n : a.heapEnd+n]
	a.heapEnd += n
	return p
}

// FreeHeap is a best-effort reclaim: the arena never compacts, so a
// free only reclaims space when it happens to be the most recent heap
// allocation; anything else is a no-op.
func (a *Arena) FreeHeap(p []byte) {
	if len(p) == 0 {
		return
	}
	buf := a.buf.Bytes()
	if len(p) <= a.heapEnd && samePointer(buf, a.heapEnd, p) {
		a.heapEnd -= len(p)
	}
}

func samePointer(buf []byte, end int, p []byte) bool {
	if end < len(p) || len(buf) == 0 {
		return false
	}
	return &buf[end-len(p)] == &p[0]
}

// AllocStack serves a frame-local allocation, released in LIFO order
// by PopStack (which must be given the same size as the matching
// AllocStack call) or wholesale by PopStackFrame.
func (a *Arena) AllocStack(n int) []byte {
	if a.stackEnd-n < a.heapEnd {
		return nil
	}
	a.stackEnd -= n
	buf := a.buf.Bytes()
	return buf[a.stackEnd : a.stackEnd+n : a.stackEnd+n]
}

// PopStack releases the most recent n-byte stack allocation. Success
// is false on underrun (popping more than was pushed), which the
// caller surfaces as "stack underrun".
func (a *Arena) PopStack(n int) bool {
	if a.stackEnd+n > len(a.buf.Bytes()) {
		return false
	}
	a.stackEnd += n
	return true
}

// Mark captures the current stack end, to be restored by Release. It
// is what a frame push records and a frame pop restores: the
// arena-level half of frame push/pop.
type Mark int

func (a *Arena) Mark() Mark { return Mark(a.stackEnd) }

// Release restores the stack end to a previously captured Mark,
// releasing every stack allocation made since. This is PopStackFrame:
// unconditional, wholesale, independent of individual AllocStack sizes.
func (a *Arena) Release(m Mark) { a.stackEnd = int(m) }
