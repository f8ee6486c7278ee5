package minic

// This file is the host-facing surface: init/cleanup live on
// Interpreter itself (New/Cleanup), the remaining operations are
// methods here. Every one of them installs guard as its single
// recovery point, so a fatal diagnostic anywhere below unwinds to a
// returned error rather than a panic escaping the package.

// DefinePlatformVar registers a host-owned variable into globals,
// aliasing the host's storage directly: writes through the bound
// Value are writes to ptr.
func (interp *Interpreter) DefinePlatformVar(name string, t *ValueType, ptr []byte, writable bool) error {
	return guard(func() {
		key := interp.Interner.InternCString(name)
		v := AllocValueFromExistingData(t, ptr, writable, nil)
		if !interp.Globals.Set(key, v, "", 0, 0) {
			lexFail("", 0, 0, "'%s' is already defined", name)
		}
	})
}

// DefinePlatformVarFromPointer registers a host variable by copying
// its current bytes into interpreter-owned storage, for hosts whose
// variable address is not stable. Subsequent writes through the bound
// Value do not propagate back to ptr.
func (interp *Interpreter) DefinePlatformVarFromPointer(name string, t *ValueType, ptr []byte, writable bool) error {
	return guard(func() {
		key := interp.Interner.InternCString(name)
		v := interp.Arena.AllocValueFromType(t, writable, nil, LocationOnHeap, interp.Types)
		if v == nil {
			lexFail("", 0, 0, "out of memory")
		}
		copy(v.Data, ptr)
		if !interp.Globals.Set(key, v, "", 0, 0) {
			lexFail("", 0, 0, "'%s' is already defined", name)
		}
	})
}

// Parse tokenises source under fileName and drives the cursor to
// EOF. When isInteractive is set, source is not read: the cursor pulls
// its lines from the host's GetLine hook instead. The actual statement
// execution is the external evaluator's
// job; Parse's contract here is limited to what the core owns:
// lexing, scope bookkeeping, and pre-processor evaluation succeed or
// raise a Diagnostic. A non-nil eval callback is invoked once per
// top-level token read via GetToken, mirroring how the parser state
// hands tokens to the external evaluator.
func (interp *Interpreter) Parse(fileName string, source []byte, isInteractive bool, eval func(*Cursor, Token, *DecodedValue)) error {
	return guard(func() {
		var c *Cursor
		if isInteractive {
			c = NewInteractiveCursor(interp, fileName)
		} else {
			buf := interp.Lex(fileName, source)
			c = interp.newCursorFor(fileName, buf, interp.Config.GetBool("debug.lexer"))
		}
		for {
			tok, val := c.GetToken(true)
			if eval != nil {
				eval(c, tok, val)
			}
			if tok == TokenEOF {
				return
			}
		}
	})
}

// ParseInteractiveLine drives one REPL iteration: fetches and lexes
// one line via the host's GetLine hook and runs tokens through eval
// until the line's EndOfLine/EOF, then prunes any token-line nodes the
// cursor has passed (boundary scenario 5).
func (interp *Interpreter) ParseInteractiveLine(c *Cursor, prompt string, eval func(*Cursor, Token, *DecodedValue)) error {
	return guard(func() {
		if !c.fetchLine(prompt) {
			return
		}
		for {
			tok, val := c.GetToken(true)
			if eval != nil {
				eval(c, tok, val)
			}
			if tok == TokenEndOfLine || tok == TokenEOF {
				break
			}
		}
		c.PrunePassedLines()
	})
}

// Call invokes a previously defined function by name. Binding the
// parameter values and actually running the body is the external
// evaluator's job; Call's contract here is to look the function up
// and fail with "undefined" if it is missing.
func (interp *Interpreter) Call(functionName string, run func(fn *Value) error) error {
	return guard(func() {
		key := interp.Interner.InternCString(functionName)
		e, ok := interp.Globals.Get(key)
		if !ok || e.Kind != EntryValue || e.Value.Type == nil || e.Value.Type.Base != TypeFunction {
			lexFail("", 0, 0, "'%s' is undefined", functionName)
		}
		if run != nil {
			if err := run(e.Value); err != nil {
				lexFail("", 0, 0, "%s", err.Error())
			}
		}
	})
}

// NativeBuiltin is one entry of a LibraryAdd table: a C-syntax
// prototype and the Go function that implements it.
type NativeBuiltin struct {
	Prototype string
	Fn        func(args []*Value, result *Value)
}

// LibraryAdd parses each prototype with the core lexer and binds the
// resulting function value's implementation to fn natively, so the
// standard-library shim (an external collaborator) can register its
// built-ins through the same table/value machinery as user code.
func (interp *Interpreter) LibraryAdd(table *Table, libraryName string, builtins []NativeBuiltin) error {
	return guard(func() {
		for _, b := range builtins {
			name, params := parsePrototype(interp, b.Prototype)
			fnType := interp.Types.Function(params, interp.Types.Scalar(TypeInt), false)
			v := &Value{Type: fnType}
			nativeFns[v] = b.Fn
			if !table.Set(name, v, libraryName, 0, 0) {
				lexFail(libraryName, 0, 0, "'%s' is already defined", name)
			}
		}
	})
}

// nativeFns maps a Function-typed Value to its Go implementation,
// kept out of Value itself so Value stays a plain data record copyable
// by the rest of the package.
var nativeFns = map[*Value]func(args []*Value, result *Value){}

// NativeFn looks up the Go implementation bound to a function value by
// LibraryAdd, if any.
func NativeFn(v *Value) (func(args []*Value, result *Value), bool) {
	fn, ok := nativeFns[v]
	return fn, ok
}

// parsePrototype lexes a minimal "returnType name(paramType, ...)"
// prototype string and returns the interned name and parameter types.
// Only scalar parameter types are supported, matching the built-ins
// exposed by a compact C standard library shim.
func parsePrototype(interp *Interpreter, prototype string) (string, []*ValueType) {
	buf := interp.Lex("<builtin>", []byte(prototype))
	c := interp.newCursorFor("<builtin>", buf, false)

	_, _ = c.GetRawToken(true) // return type keyword, ignored here
	tok, val := c.GetRawToken(true)
	if tok != TokenIdentifier {
		c.programFail("malformed builtin prototype %q", prototype)
	}
	name := val.Ident

	tok, _ = c.GetRawToken(false)
	if tok != TokenOpenBracket {
		c.programFail("malformed builtin prototype %q", prototype)
	}
	var params []*ValueType
	for {
		tok, _ := c.GetRawToken(true)
		if tok == TokenCloseBracket {
			break
		}
		if tok == TokenVoid {
			continue
		}
		if t := scalarTokenType(interp, tok); t != nil {
			params = append(params, t)
			if c.Peek() == TokenAsterisk {
				c.GetRawToken(false)
				params[len(params)-1] = interp.Types.Pointer(t)
			}
		}
		if c.Peek() == TokenComma {
			c.GetRawToken(false)
		}
	}
	return name, params
}

func scalarTokenType(interp *Interpreter, tok Token) *ValueType {
	switch tok {
	case TokenInt:
		return interp.Types.Scalar(TypeInt)
	case TokenChar:
		return interp.Types.Scalar(TypeChar)
	case TokenLong:
		return interp.Types.Scalar(TypeLong)
	case TokenShort:
		return interp.Types.Scalar(TypeShort)
	case TokenDouble, TokenFloat:
		return interp.Types.Scalar(TypeFP)
	default:
		return nil
	}
}
