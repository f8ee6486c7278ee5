package minic

// Interner deduplicates byte strings into stable, comparable handles.
// Every identifier, reserved word, and unescaped string literal passes
// through here exactly once before anything else sees it, so two
// lexically distinct slices with the same bytes always collapse to
// the same handle and can be compared with ==.
type Interner struct {
	arena *Arena
	byStr map[string]uint64
	byID  []string
}

// NewInterner seeds the table with the empty string at handle 0 so the
// zero value of a handle always resolves, serving as the sentinel for
// "no name" used by internally-constructed parser states.
func NewInterner(arena *Arena) *Interner {
	in := &Interner{arena: arena, byStr: make(map[string]uint64)}
	in.byStr[""] = 0
	in.byID = append(in.byID, "")
	return in
}

// Intern returns the canonical, deduplicated string for b. The returned
// string is an independent Go copy of the bytes, so it outlives any
// caller-owned buffer b was sliced from. Each new entry also reserves
// len(b) bytes of heap-arena space when available, but the string does
// not point into that space.
func (in *Interner) Intern(b []byte) string {
	if id, ok := in.byStr[string(b)]; ok {
		return in.byID[id]
	}
	stored := in.copyIntoArena(b)
	in.byStr[stored] = uint64(len(in.byID))
	in.byID = append(in.byID, stored)
	return stored
}

// HandleOf returns the token-stream handle for an already-interned
// string, used by the lexer to encode an Identifier/StringConstant
// payload. s must have come from Intern.
func (in *Interner) HandleOf(s string) uint64 {
	id, ok := in.byStr[s]
	if !ok {
		panic("minic: HandleOf on a non-interned string")
	}
	return id
}

// ByHandle resolves a token-stream handle back to its string, used by
// the cursor when decoding a token's payload.
func (in *Interner) ByHandle(h uint64) string {
	return in.byID[h]
}

// InternCString interns s as-is; a convenience for callers that already
// hold a Go string (host-supplied identifiers, reserved words).
func (in *Interner) InternCString(s string) string {
	return in.Intern([]byte(s))
}

func (in *Interner) copyIntoArena(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	dst := in.arena.AllocHeap(len(b))
	if dst == nil {
		return string(b)
	}
	copy(dst, b)
	return string(dst)
}

// Len reports how many distinct strings have been interned, for
// diagnostics and tests.
func (in *Interner) Len() int { return len(in.byStr) }
