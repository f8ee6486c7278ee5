package minic

import (
	"encoding/binary"
	"math"
)

// lexMode is the lexer's line-state, switched by directive keywords so
// that the following tokens parse differently.
type lexMode int

const (
	lexNormal lexMode = iota
	lexHashInclude
	lexHashDefine
	lexHashDefineSpace
	lexHashDefineSpaceIdent
)

// Lexer scans one source file's bytes into a compact token stream of
// token, column, payload triples, terminated by EOF. It never
// resynchronises after an illegal byte: an error there is always
// fatal.
type Lexer struct {
	in       *Interner
	reserved *Table
	src      []byte
	pos      int
	line     int
	column   int
	fileName string
	mode     lexMode
	out      []byte
	log      *Logger
}

func NewLexer(in *Interner, reserved *Table, fileName string, src []byte, startLine int) *Lexer {
	return &Lexer{in: in, reserved: reserved, src: src, fileName: fileName, line: startLine, column: 1, mode: lexNormal}
}

// Lex scans the whole of l.src and returns the encoded token stream,
// terminated by the EOF token that next emits at end of input.
func (l *Lexer) Lex() []byte {
	for {
		tok, ok := l.next()
		if !ok {
			break
		}
		if l.log != nil {
			l.log.Debugf("lex %s:%d:%d token=%d", l.fileName, l.line, l.column, tok)
		}
		if tok == TokenEOF {
			break
		}
	}
	return l.out
}

func (l *Lexer) emit(tok Token, col int, payload []byte) {
	l.out = append(l.out, byte(tok), byte(col))
	l.out = append(l.out, payload...)
}

func (l *Lexer) fail(format string, args ...any) {
	lexFail(l.fileName, l.line, l.column, format, args...)
}

func (l *Lexer) peekByte() (byte, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *Lexer) advanceByte() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return b
}

// next scans and emits exactly one token, returning (TokenEOF, true)
// once at end of input and (_, false) never (kept as a bool result to
// mirror get_raw_token's "more to read" shape for callers).
func (l *Lexer) next() (Token, bool) {
	l.skipWhitespaceAndComments()
	col := l.column
	b, ok := l.peekByte()
	if !ok {
		l.emit(TokenEOF, col, nil)
		return TokenEOF, true
	}

	switch {
	case isIdentStart(b):
		return l.scanIdentifier(col)
	case isDigit(b):
		return l.scanNumber(col)
	case b == '"':
		return l.scanString(col)
	case b == '\'':
		return l.scanChar(col)
	case b == '<' && l.mode == lexHashInclude:
		return l.scanAngleInclude(col)
	case b == '#':
		return l.scanDirective(col)
	case b == '\n':
		l.advanceByte()
		l.emit(TokenEndOfLine, col, nil)
		l.mode = lexNormal
		return TokenEndOfLine, true
	default:
		return l.scanOperator(col)
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isIdentCont(b byte) bool { return isIdentStart(b) || isDigit(b) }
func isDigit(b byte) bool     { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		b, ok := l.peekByte()
		if !ok {
			return
		}
		switch {
		case b == ' ' || b == '\t' || b == '\r':
			l.advanceByte()
			switch l.mode {
			case lexHashDefine:
				l.mode = lexHashDefineSpace
			case lexHashDefineSpaceIdent:
				l.mode = lexNormal
			}
		case b == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for {
				b, ok := l.peekByte()
				if !ok || b == '\n' {
					break
				}
				l.advanceByte()
			}
		case b == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			l.advanceByte()
			l.advanceByte()
			for {
				b, ok := l.peekByte()
				if !ok {
					l.fail("unterminated comment")
				}
				if b == '*' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
					l.advanceByte()
					l.advanceByte()
					break
				}
				l.advanceByte()
			}
		default:
			return
		}
	}
}

func (l *Lexer) scanIdentifier(col int) (Token, bool) {
	start := l.pos
	for {
		b, ok := l.peekByte()
		if !ok || !isIdentCont(b) {
			break
		}
		l.advanceByte()
	}
	word := l.src[start:l.pos]

	if l.mode == lexHashDefineSpace {
		h := l.in.Intern(word)
		l.emit(TokenIdentifier, col, l.encodeHandle(h))
		l.mode = lexHashDefineSpaceIdent
		return TokenIdentifier, true
	}

	if entry, ok := l.reserved.Get(string(word)); ok && entry.Kind == EntryReservedWord {
		l.emit(entry.ReservedToken, col, nil)
		if entry.ReservedToken == TokenHashDefine {
			l.mode = lexHashDefine
		} else if entry.ReservedToken == TokenHashInclude {
			l.mode = lexHashInclude
		}
		return entry.ReservedToken, true
	}
	h := l.in.Intern(word)
	l.emit(TokenIdentifier, col, l.encodeHandle(h))
	return TokenIdentifier, true
}

func (l *Lexer) encodeHandle(s string) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], l.in.HandleOf(s))
	return b[:]
}

func (l *Lexer) scanNumber(col int) (Token, bool) {
	start := l.pos
	isFloat := false
	if l.peekEq('0') && l.pos+1 < len(l.src) && (l.src[l.pos+1] == 'x' || l.src[l.pos+1] == 'X') {
		l.advanceByte()
		l.advanceByte()
		for {
			b, ok := l.peekByte()
			if !ok || !isHexDigit(b) {
				break
			}
			l.advanceByte()
		}
	} else if l.peekEq('0') && l.pos+1 < len(l.src) && (l.src[l.pos+1] == 'b' || l.src[l.pos+1] == 'B') {
		l.advanceByte()
		l.advanceByte()
		for {
			b, ok := l.peekByte()
			if !ok || (b != '0' && b != '1') {
				break
			}
			l.advanceByte()
		}
	} else {
		for {
			b, ok := l.peekByte()
			if !ok || !isDigit(b) {
				break
			}
			l.advanceByte()
		}
		if b, ok := l.peekByte(); ok && b == '.' {
			isFloat = true
			l.advanceByte()
			for {
				b, ok := l.peekByte()
				if !ok || !isDigit(b) {
					break
				}
				l.advanceByte()
			}
		}
		if b, ok := l.peekByte(); ok && (b == 'e' || b == 'E') {
			isFloat = true
			l.advanceByte()
			if b, ok := l.peekByte(); ok && b == '-' {
				l.advanceByte()
			}
			for {
				b, ok := l.peekByte()
				if !ok || !isDigit(b) {
					break
				}
				l.advanceByte()
			}
		}
	}
	text := string(l.src[start:l.pos])
	for {
		b, ok := l.peekByte()
		if !ok {
			break
		}
		if b == 'u' || b == 'U' || b == 'l' || b == 'L' || b == 'f' || b == 'F' {
			l.advanceByte()
			continue
		}
		break
	}
	if isFloat {
		f := parseFloatLiteral(text)
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		l.emit(TokenFPConstant, col, buf[:])
		return TokenFPConstant, true
	}
	n := parseIntLiteral(text)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	l.emit(TokenIntegerConstant, col, buf[:])
	return TokenIntegerConstant, true
}

func (l *Lexer) peekEq(b byte) bool {
	v, ok := l.peekByte()
	return ok && v == b
}

func (l *Lexer) scanString(col int) (Token, bool) {
	l.advanceByte() // opening quote
	var raw []byte
	for {
		b, ok := l.peekByte()
		if !ok {
			l.fail("unterminated string constant")
		}
		if b == '"' {
			l.advanceByte()
			break
		}
		if b == '\\' {
			raw = append(raw, l.scanEscape()...)
			continue
		}
		raw = append(raw, b)
		l.advanceByte()
	}
	// intern the unescaped bytes, so differently-escaped spellings of
	// the same bytes get the same handle. No string-literal table lookup
	// or char[] Value is made here; the token carries only the handle.
	handle := l.in.Intern(raw)
	l.emit(TokenStringConstant, col, l.encodeHandle(handle))
	return TokenStringConstant, true
}

func (l *Lexer) scanChar(col int) (Token, bool) {
	l.advanceByte() // opening quote
	var ch byte
	b, ok := l.peekByte()
	if !ok {
		l.fail("unterminated character constant")
	}
	if b == '\\' {
		esc := l.scanEscape()
		if len(esc) > 0 {
			ch = esc[0]
		}
	} else {
		ch = b
		l.advanceByte()
	}
	if !l.peekEq('\'') {
		l.fail("unterminated character constant")
	}
	l.advanceByte()
	l.emit(TokenCharacterConstant, col, []byte{ch})
	return TokenCharacterConstant, true
}

// scanEscape consumes a backslash escape and returns its decoded
// bytes. A line continuation (\<LF> or \<CR><LF>) decodes to nothing
// but still advances line counting via advanceByte.
func (l *Lexer) scanEscape() []byte {
	l.advanceByte() // backslash
	b, ok := l.peekByte()
	if !ok {
		l.fail("unterminated escape sequence")
	}
	switch b {
	case '\r':
		l.advanceByte()
		if l.peekEq('\n') {
			l.advanceByte()
		}
		return nil
	case '\n':
		l.advanceByte()
		return nil
	case '\\':
		l.advanceByte()
		return []byte{'\\'}
	case '\'':
		l.advanceByte()
		return []byte{'\''}
	case '"':
		l.advanceByte()
		return []byte{'"'}
	case 'a':
		l.advanceByte()
		return []byte{'\a'}
	case 'b':
		l.advanceByte()
		return []byte{'\b'}
	case 'f':
		l.advanceByte()
		return []byte{'\f'}
	case 'n':
		l.advanceByte()
		return []byte{'\n'}
	case 'r':
		l.advanceByte()
		return []byte{'\r'}
	case 't':
		l.advanceByte()
		return []byte{'\t'}
	case 'v':
		l.advanceByte()
		return []byte{'\v'}
	case 'x':
		l.advanceByte()
		v := 0
		for i := 0; i < 2; i++ {
			b, ok := l.peekByte()
			if !ok || !isHexDigit(b) {
				break
			}
			v = v*16 + hexVal(b)
			l.advanceByte()
		}
		return []byte{byte(v)}
	case '0', '1', '2', '3':
		v := 0
		for i := 0; i < 3; i++ {
			b, ok := l.peekByte()
			if !ok || b < '0' || b > '7' {
				break
			}
			v = v*8 + int(b-'0')
			l.advanceByte()
		}
		return []byte{byte(v)}
	default:
		l.fail("unknown escape sequence '\\%c'", b)
		return nil
	}
}

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	default:
		return int(b-'A') + 10
	}
}

func (l *Lexer) scanAngleInclude(col int) (Token, bool) {
	l.advanceByte() // '<'
	start := l.pos
	for {
		b, ok := l.peekByte()
		if !ok {
			l.fail("unterminated include path")
		}
		if b == '>' {
			break
		}
		l.advanceByte()
	}
	raw := l.src[start:l.pos]
	l.advanceByte() // '>'
	handle := l.in.Intern(raw)
	l.emit(TokenStringConstant, col, l.encodeHandle(handle))
	l.mode = lexNormal
	return TokenStringConstant, true
}

func (l *Lexer) scanDirective(col int) (Token, bool) {
	start := l.pos
	l.advanceByte() // '#'
	for {
		b, ok := l.peekByte()
		if !ok || !isIdentCont(b) {
			break
		}
		l.advanceByte()
	}
	word := string(l.src[start:l.pos])
	tok, ok := reservedWords[word]
	if !ok {
		l.fail("unknown preprocessor directive %s", word)
	}
	l.emit(tok, col, nil)
	switch tok {
	case TokenHashDefine:
		l.mode = lexHashDefine
	case TokenHashInclude:
		l.mode = lexHashInclude
	default:
		l.mode = lexNormal
	}
	return tok, true
}

// operator table entries are tried longest-prefix-first so maximal
// munch falls out of simple linear scan order.
var operatorTable = []struct {
	text string
	tok  Token
}{
	{"<<=", TokenShiftLeftEquals}, {">>=", TokenShiftRightEquals}, {"...", TokenDotDotDot},
	{"<<", TokenShiftLeft}, {">>", TokenShiftRight}, {"<=", TokenLessEqual}, {">=", TokenGreaterEqual},
	{"==", TokenEquality}, {"!=", TokenNotEqual}, {"&&", TokenLogicalAnd}, {"||", TokenLogicalOr},
	{"++", TokenPlusPlus}, {"--", TokenMinusMinus}, {"->", TokenArrow},
	{"+=", TokenPlusEquals}, {"-=", TokenMinusEquals}, {"*=", TokenAsteriskEquals}, {"/=", TokenSlashEquals},
	{"%=", TokenPercentEquals}, {"&=", TokenAmpersandEquals}, {"|=", TokenPipeEquals}, {"^=", TokenCaretEquals},
	{"+", TokenPlus}, {"-", TokenMinus}, {"*", TokenAsterisk}, {"/", TokenSlash}, {"%", TokenPercent},
	{"=", TokenAssign}, {"<", TokenLessThan}, {">", TokenGreaterThan}, {"!", TokenLogicalNot},
	{"&", TokenAmpersand}, {"|", TokenPipe}, {"^", TokenCaret}, {"~", TokenTilde},
	{"?", TokenQuestionMark}, {":", TokenColon}, {";", TokenSemicolon}, {",", TokenComma},
	{".", TokenDot}, {"(", TokenOpenBracket}, {")", TokenCloseBracket},
	{"[", TokenOpenSquareBracket}, {"]", TokenCloseSquareBracket},
	{"{", TokenOpenBrace}, {"}", TokenCloseBrace},
}

// parseIntLiteral decodes a decimal/hex/octal/binary integer literal
// (suffixes already stripped by the caller).
func parseIntLiteral(text string) int64 {
	neg := false
	if len(text) > 0 && text[0] == '-' {
		neg = true
		text = text[1:]
	}
	var n int64
	switch {
	case len(text) > 1 && (text[1] == 'x' || text[1] == 'X'):
		for i := 2; i < len(text); i++ {
			n = n*16 + int64(hexVal(text[i]))
		}
	case len(text) > 1 && (text[1] == 'b' || text[1] == 'B'):
		for i := 2; i < len(text); i++ {
			n = n*2 + int64(text[i]-'0')
		}
	case len(text) > 1 && text[0] == '0':
		for i := 1; i < len(text); i++ {
			n = n*8 + int64(text[i]-'0')
		}
	default:
		for i := 0; i < len(text); i++ {
			n = n*10 + int64(text[i]-'0')
		}
	}
	if neg {
		n = -n
	}
	return n
}

// parseFloatLiteral decodes a digits[.digits][[eE][-]digits] literal.
// It is written by hand (rather than strconv.ParseFloat) because the
// scanner has already validated the grammar and the suffix letter
// (f/F) has been stripped; a manual accumulate avoids re-validating.
func parseFloatLiteral(text string) float64 {
	var intPart, fracPart float64
	var fracDiv float64 = 1
	var exp int
	expNeg := false
	i := 0
	for i < len(text) && isDigit(text[i]) {
		intPart = intPart*10 + float64(text[i]-'0')
		i++
	}
	if i < len(text) && text[i] == '.' {
		i++
		for i < len(text) && isDigit(text[i]) {
			fracPart = fracPart*10 + float64(text[i]-'0')
			fracDiv *= 10
			i++
		}
	}
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		i++
		if i < len(text) && text[i] == '-' {
			expNeg = true
			i++
		}
		for i < len(text) && isDigit(text[i]) {
			exp = exp*10 + int(text[i]-'0')
			i++
		}
	}
	v := intPart + fracPart/fracDiv
	for j := 0; j < exp; j++ {
		if expNeg {
			v /= 10
		} else {
			v *= 10
		}
	}
	return v
}

func (l *Lexer) scanOperator(col int) (Token, bool) {
	for _, op := range operatorTable {
		n := len(op.text)
		if l.pos+n > len(l.src) {
			continue
		}
		if string(l.src[l.pos:l.pos+n]) != op.text {
			continue
		}
		tok := op.tok
		if tok == TokenOpenBracket && l.mode == lexHashDefineSpaceIdent {
			tok = TokenOpenMacroBracket
		}
		for i := 0; i < n; i++ {
			l.advanceByte()
		}
		if l.mode == lexHashDefineSpaceIdent {
			l.mode = lexNormal
		}
		l.emit(tok, col, nil)
		return tok, true
	}
	b, _ := l.peekByte()
	l.fail("illegal character '%c'", b)
	return TokenNone, false
}
