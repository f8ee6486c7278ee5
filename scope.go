package minic

import (
	"fmt"
	"unsafe"
)

// stackFrame represents one active function call.
type stackFrame struct {
	caller     *Cursor // borrowed cursor to resume on return
	funcName   string
	params     []*Value
	locals     *Table
	prev       *stackFrame
	stackMark  Mark
	currentFn  string // for static-variable mangling
}

// ScopeBegin allocates a fresh scope id derived from the cursor's
// source pointer and current position, and reactivates any value
// already in the table tagged with that id that was marked
// out-of-scope: re-entering the same lexical position (e.g. a loop
// body, or a function called again) restores static storage without
// rerunning its initializer.
func ScopeBegin(c *Cursor, table *Table) (newID, prevID ScopeID) {
	prevID = c.scopeID
	newID = deriveScopeID(c)
	c.scopeID = newID
	table.ReactivateScope(newID)
	if c.interp != nil && c.interp.Config.GetBool("debug.scope") {
		c.interp.Log.Debugf("scope begin %s:%d: %d -> %d", c.fileName, c.line, prevID, newID)
	}
	return newID, prevID
}

// ScopeEnd marks every entry in table whose ScopeID equals newID as
// out-of-scope (not deleted) and restores the cursor's scope id to
// prevID.
func ScopeEnd(c *Cursor, table *Table, newID, prevID ScopeID) {
	table.MarkOutOfScope(newID)
	c.scopeID = prevID
	if c.interp != nil && c.interp.Config.GetBool("debug.scope") {
		c.interp.Log.Debugf("scope end %s:%d: %d -> %d", c.fileName, c.line, newID, prevID)
	}
}

// deriveScopeID derives a scope id from the buffer's identity and the
// cursor's position within it, so identical textual positions across
// repeated visits (loop iterations, repeated calls) yield identical
// ids — deliberately address-based rather than a monotonically
// increasing counter.
func deriveScopeID(c *Cursor) ScopeID {
	var bufAddr uintptr
	if len(c.buf) > 0 {
		bufAddr = sliceAddr(c.buf)
	}
	return ScopeID(uint64(bufAddr)^uint64(c.pos)) + 1 // +1 so it never collides with the zero "no scope" id
}

func sliceAddr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}

// FramePush captures the caller's cursor, allocates a parameter vector
// of length numParams, opens an empty local table, and links the new
// frame as current.
func (interp *Interpreter) FramePush(caller *Cursor, funcName string, numParams int) *stackFrame {
	f := &stackFrame{
		caller:    caller,
		funcName:  funcName,
		params:    make([]*Value, numParams),
		locals:    NewTable(),
		prev:      interp.topFrame,
		stackMark: interp.Arena.Mark(),
		currentFn: funcName,
	}
	interp.topFrame = f
	return f
}

// FramePop restores the caller's cursor and releases every frame-local
// stack allocation in one operation; the arena's stack end is restored
// exactly to its pre-push mark.
func (interp *Interpreter) FramePop() *Cursor {
	f := interp.topFrame
	if f == nil {
		panic("minic: frame pop with no active frame")
	}
	interp.Arena.Release(f.stackMark)
	interp.topFrame = f.prev
	return f.caller
}

// CurrentLocals returns the innermost active frame's local table, or
// nil at file scope.
func (interp *Interpreter) CurrentLocals() *Table {
	if interp.topFrame == nil {
		return nil
	}
	return interp.topFrame.locals
}

// mangledStaticName builds the `/<file>/<func>/<ident>` name under
// which a function-local static variable is stored in globals, so its
// storage outlives the frame that declared it.
func mangledStaticName(fileName, funcName, ident string) string {
	return fmt.Sprintf("/%s/%s/%s", fileName, funcName, ident)
}

// DefineStatic binds a static variable declared inside funcName: the
// value is stored in globals under its mangled name and mirrored in
// the current local table under its short name so ordinary lookup
// finds it.
func (interp *Interpreter) DefineStatic(c *Cursor, funcName, ident string, v *Value) {
	mangled := interp.Interner.InternCString(mangledStaticName(c.fileName, funcName, ident))
	v.ScopeID = 0 // static storage is never swept by scope_end
	interp.Globals.Set(mangled, v, c.fileName, c.line, c.column)
	locals := interp.CurrentLocals()
	if locals != nil {
		locals.Set(ident, v, c.fileName, c.line, c.column)
	} else {
		interp.Globals.Set(ident, v, c.fileName, c.line, c.column)
	}
}

// VariableDefinedAndOutOfScope reports whether ident is bound in
// table but currently hidden because it is out-of-scope, letting
// callers raise a precise "out of scope" diagnostic distinct from
// "undefined".
func VariableDefinedAndOutOfScope(table *Table, ident string) bool {
	e, ok := table.GetIgnoringScope(ident)
	return ok && e.Kind == EntryValue && e.Value.OutOfScope
}
