package minic

// This file implements the pre-processor directive engine: it is
// invoked from Cursor.GetToken whenever a directive token is read off
// the raw stream, using the same Table/Value machinery as ordinary
// symbol lookup (macros live in Globals, keyed by their interned
// name).

// handleHashDefine reads `NAME [( params )] body` and stores body as a
// Macro-typed value in globals. The body is the raw token range up to
// the next EndOfLine, copied and terminated with EndOfFunction.
func (c *Cursor) handleHashDefine() {
	tok, val := c.GetRawToken(true)
	if tok != TokenIdentifier || val == nil {
		c.programFail("identifier expected after #define")
	}
	name := val.Ident

	var params []string
	if c.Peek() == TokenOpenMacroBracket {
		c.GetRawToken(false)
		for {
			tok, val := c.GetRawToken(true)
			if tok == TokenCloseBracket {
				break
			}
			if tok != TokenIdentifier {
				c.programFail("parameter name expected in macro definition")
			}
			params = append(params, val.Ident)
			if c.Peek() == TokenComma {
				c.GetRawToken(false)
			}
		}
	}

	var body []byte
	for {
		tok := c.Peek()
		if tok == TokenEndOfLine || tok == TokenEOF {
			break
		}
		start := c.pos
		c.GetRawToken(false)
		body = append(body, c.buf[start:c.pos]...)
	}
	body = append(body, byte(TokenEndOfFunction))

	macroType := c.interp.Types.Function(nil, nil, false)
	macroType.Base = TypeMacro
	v := &Value{Type: macroType, FuncBody: body, ScopeID: c.scopeID}
	_ = params // parameter names are read and discarded; the stored Value holds only the body tokens
	c.interp.Globals.Set(name, v, c.fileName, c.line, c.column)
}

// handleHashInclude consumes the included-file string token; resolving
// and splicing its contents is an external file-loading collaborator's
// job — the core only makes sure HashInclude mode lexed the path
// correctly upstream.
func (c *Cursor) handleHashInclude() {
	c.GetRawToken(true)
}

// handleHashIf evaluates `#if expr`. Only a bare character or integer
// constant, or a single identifier naming a previously #defined
// integer macro, is supported; anything else is "value expected".
func (c *Cursor) handleHashIf() {
	c.hashIfLevel++
	active := c.hashIfEvaluateToLevel == c.hashIfLevel-1
	cond := false
	if active {
		cond = c.evalHashIfExpr()
	} else {
		c.ToEndOfLine()
	}
	if active && cond {
		c.hashIfEvaluateToLevel++
	}
	if c.interp != nil && c.interp.Config.GetBool("debug.lexer") {
		c.interp.Log.Debugf("#if %s:%d level=%d active=%v cond=%v", c.fileName, c.line, c.hashIfLevel, active, cond)
	}
}

func (c *Cursor) evalHashIfExpr() bool {
	tok, val := c.GetRawToken(true)
	var result bool
	switch tok {
	case TokenIntegerConstant:
		result = val.Int != 0
	case TokenCharacterConstant:
		result = val.Char != 0
	case TokenIdentifier:
		e, ok := c.interp.Globals.Get(val.Ident)
		if !ok {
			c.programFail("'%s' is undefined", val.Ident)
		}
		result = evalConstValue(c, e.Value)
	default:
		c.programFail("value expected after #if")
	}
	c.ToEndOfLine()
	return result
}

// evalConstValue reports the truthiness of a previously #defined
// macro. A macro's value lives in FuncBody as a copied token range, not
// in Data (Data is never populated for a Function/Macro-typed Value),
// so the first token of the body is decoded directly: a bare integer
// or character constant evaluates as non-zero/zero. A body with no
// leading constant (an empty macro, or one whose first token isn't a
// literal) raises "value expected".
func evalConstValue(c *Cursor, v *Value) bool {
	body := v.FuncBody
	if len(body) == 0 || Token(body[0]) == TokenEndOfFunction {
		c.programFail("value expected after #if")
	}
	tok := Token(body[0])
	size := tok.PayloadSize()
	if len(body) < 2+size {
		c.programFail("truncated macro body")
	}
	payload := body[2 : 2+size]
	switch tok {
	case TokenIntegerConstant:
		return decodeValue(c.interp, tok, payload).Int != 0
	case TokenCharacterConstant:
		return decodeValue(c.interp, tok, payload).Char != 0
	}
	c.programFail("value expected after #if")
	return false
}

// handleHashIfdef/handleHashIfndef check presence in globals. want is
// true for #ifdef, false for #ifndef.
func (c *Cursor) handleHashIfdef(want bool) {
	c.hashIfLevel++
	tok, val := c.GetRawToken(true)
	if tok != TokenIdentifier {
		c.programFail("identifier expected after #ifdef/#ifndef")
	}
	defined := false
	if _, ok := c.interp.Globals.Get(val.Ident); ok {
		defined = true
	}
	c.ToEndOfLine()
	active := c.hashIfEvaluateToLevel == c.hashIfLevel-1
	if active && defined == want {
		c.hashIfEvaluateToLevel++
	}
	if c.interp != nil && c.interp.Config.GetBool("debug.lexer") {
		c.interp.Log.Debugf("#ifdef %s:%d '%s' want=%v defined=%v", c.fileName, c.line, val.Ident, want, defined)
	}
}

// handleHashElse flips the active state at the current nesting level.
func (c *Cursor) handleHashElse() {
	if c.hashIfLevel == 0 {
		c.programFail("#else without #if")
	}
	if c.hashIfEvaluateToLevel == c.hashIfLevel {
		c.hashIfEvaluateToLevel--
	} else if c.hashIfEvaluateToLevel == c.hashIfLevel-1 {
		c.hashIfEvaluateToLevel++
	}
	c.ToEndOfLine()
}

// handleHashEndif decrements hashIfLevel and clamps
// hashIfEvaluateToLevel to it.
func (c *Cursor) handleHashEndif() {
	if c.hashIfLevel == 0 {
		c.programFail("#endif without #if")
	}
	c.hashIfLevel--
	if c.hashIfEvaluateToLevel > c.hashIfLevel {
		c.hashIfEvaluateToLevel = c.hashIfLevel
	}
	c.ToEndOfLine()
}
