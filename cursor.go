package minic

import (
	"encoding/binary"
	"math"
)

// RunMode is the cursor's current execution mode, consulted by the
// (external) evaluator to decide whether a statement actually runs or
// is merely being skipped over (e.g. the untaken side of an if, or a
// pre-processor branch).
type RunMode int

const (
	RunModeRun RunMode = iota
	RunModeSkip
	RunModeReturn
	RunModeBreak
	RunModeContinue
	RunModeGoto
	RunModeCaller
)

// TokenLine is one node of the interactive-mode linked list of
// per-line token buffers. Pruning may only remove nodes strictly
// before the live cursor.
type TokenLine struct {
	Buf  []byte
	Next *TokenLine
}

// Cursor is the parser-state record that threads through every
// component above the lexer: position in a token buffer, current
// source coordinates, pre-processor nesting counters, and (in
// interactive mode) the linked list of token lines it is walking.
type Cursor struct {
	interp *Interpreter

	buf []byte
	pos int

	fileName string
	line     int
	column   int

	runMode RunMode
	scopeID ScopeID

	hashIfLevel           int
	hashIfEvaluateToLevel int

	searchLabel string
	debugMode   bool

	lineHead *TokenLine // interactive mode only; nil for a whole-buffer parse
	lineCur  *TokenLine
}

// NewCursor positions a cursor at the start of a complete, already
// lexed token buffer (the non-interactive parse path).
func NewCursor(interp *Interpreter, fileName string, buf []byte, debugMode bool) *Cursor {
	return &Cursor{interp: interp, buf: buf, fileName: fileName, line: 1, column: 1, debugMode: debugMode}
}

// NewInteractiveCursor positions a cursor at the head of an
// interactive-mode token-line list that grows as GetRawToken requests
// more input through the host.
func NewInteractiveCursor(interp *Interpreter, fileName string) *Cursor {
	c := &Cursor{interp: interp, fileName: fileName, line: 1, column: 1}
	return c
}

func (c *Cursor) atEnd() bool { return c.pos >= len(c.buf) }

// fetchLine asks the host for one more line of interactive input,
// lexes it, and appends it to the token-line list, advancing into it.
// Returns false when the host signals end of input.
func (c *Cursor) fetchLine(prompt string) bool {
	if c.interp == nil || c.interp.Platform == nil {
		return false
	}
	line, ok := c.interp.Platform.GetLine(prompt)
	if !ok {
		return false
	}
	lx := NewLexer(c.interp.Interner, c.interp.ReservedWords, c.fileName, line, c.line)
	if c.interp.Config.GetBool("debug.lexer") {
		lx.log = c.interp.Log
	}
	tokens := lx.Lex()
	node := &TokenLine{Buf: tokens}
	if c.lineHead == nil {
		c.lineHead = node
	} else {
		c.lineCur.Next = node
	}
	c.lineCur = node
	c.buf = node.Buf
	c.pos = 0
	c.line = lx.line
	return true
}

// PrunePassedLines frees every token-line node strictly before the
// live cursor.
func (c *Cursor) PrunePassedLines() {
	for c.lineHead != nil && c.lineHead != c.lineCur {
		c.lineHead = c.lineHead.Next
	}
}

// Peek reads the next raw token without advancing the cursor.
func (c *Cursor) Peek() Token {
	if c.atEnd() {
		return TokenEOF
	}
	return Token(c.buf[c.pos])
}

// GetRawToken advances past the next token, optionally decoding its
// payload into a DecodedValue. In interactive mode, reaching the end
// of the current line's buffer triggers a host line fetch before
// reporting EOF.
func (c *Cursor) GetRawToken(wantValue bool) (Token, *DecodedValue) {
	for c.atEnd() {
		if !c.fetchLine("") {
			return TokenEOF, nil
		}
	}
	tok := Token(c.buf[c.pos])
	c.pos++
	c.column = int(c.buf[c.pos])
	c.pos++

	size := tok.PayloadSize()
	var payload []byte
	if size > 0 {
		if c.pos+size > len(c.buf) {
			c.programFail("truncated token payload")
		}
		payload = c.buf[c.pos : c.pos+size]
		c.pos += size
	}
	if tok == TokenEndOfLine {
		c.line++
		c.column = 1
	}
	if !wantValue || payload == nil {
		return tok, nil
	}
	return tok, decodeValue(c.interp, tok, payload)
}

// DecodedValue is the typed form of a literal token's payload bytes,
// handed to the external evaluator.
type DecodedValue struct {
	Int   int64
	FP    float64
	Char  byte
	Ident string
}

func decodeValue(interp *Interpreter, tok Token, payload []byte) *DecodedValue {
	switch tok {
	case TokenIntegerConstant:
		return &DecodedValue{Int: int64(binary.LittleEndian.Uint64(payload))}
	case TokenFPConstant:
		bits := binary.LittleEndian.Uint64(payload)
		return &DecodedValue{FP: math.Float64frombits(bits)}
	case TokenCharacterConstant:
		return &DecodedValue{Char: payload[0]}
	case TokenIdentifier, TokenStringConstant:
		h := binary.LittleEndian.Uint64(payload)
		return &DecodedValue{Ident: interp.Interner.ByHandle(h)}
	default:
		return nil
	}
}

// GetToken wraps GetRawToken with pre-processor handling: directives
// are consumed and evaluated here, and while hashIfEvaluateToLevel is
// behind hashIfLevel, returned tokens are silently skipped.
func (c *Cursor) GetToken(wantValue bool) (Token, *DecodedValue) {
	for {
		tok, val := c.GetRawToken(wantValue)
		switch tok {
		case TokenHashDefine:
			c.handleHashDefine()
			continue
		case TokenHashInclude:
			c.handleHashInclude()
			continue
		case TokenHashIf:
			c.handleHashIf()
			continue
		case TokenHashIfdef:
			c.handleHashIfdef(true)
			continue
		case TokenHashIfndef:
			c.handleHashIfdef(false)
			continue
		case TokenHashElse:
			c.handleHashElse()
			continue
		case TokenHashEndif:
			c.handleHashEndif()
			continue
		}
		if c.hashIfEvaluateToLevel < c.hashIfLevel {
			if tok == TokenEOF {
				return tok, val
			}
			continue
		}
		return tok, val
	}
}

// ToEndOfLine advances to the next EndOfLine or EOF.
func (c *Cursor) ToEndOfLine() {
	for {
		tok, _ := c.GetRawToken(false)
		if tok == TokenEndOfLine || tok == TokenEOF {
			return
		}
	}
}

// CopyTokens returns a fresh buffer containing the tokens from
// start's position through end's position inclusive, EOF markers
// stripped, terminated by EndOfFunction.
func CopyTokens(start, end *Cursor) []byte {
	if start.buf == nil {
		return []byte{byte(TokenEndOfFunction)}
	}
	var out []byte
	if start.lineCur == end.lineCur || start.lineHead == nil {
		out = append(out, stripEOF(start.buf[start.pos:end.pos])...)
	} else {
		node := start.lineCur
		out = append(out, stripEOF(node.Buf[start.pos:])...)
		node = node.Next
		for node != nil && node != end.lineCur {
			out = append(out, stripEOF(node.Buf)...)
			node = node.Next
		}
		if node != nil {
			out = append(out, stripEOF(node.Buf[:end.pos])...)
		}
	}
	out = append(out, byte(TokenEndOfFunction))
	return out
}

// stripEOF removes a trailing EOF token (its 2-byte [token, column]
// pair) from an encoded buffer, if present.
func stripEOF(buf []byte) []byte {
	if len(buf) >= 2 && Token(buf[len(buf)-2]) == TokenEOF {
		return buf[:len(buf)-2]
	}
	return buf
}
