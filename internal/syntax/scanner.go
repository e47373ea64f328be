package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Scanner performs lexical analysis on Run source code.
//
// Besides plain forward scanning it supports undoing exactly one Scan
// (Rollback), literal matching (Expect), lookahead (Peek, Test) and the
// line/block skipping the parser uses for error recovery.
type Scanner struct {
	source // embedded character reader

	// Current token info
	tok    Token   // token type
	lit    string  // token literal (identifier name, number text, raw string content)
	kind   LitKind // literal kind (only valid when tok == _Literal)
	tokPos Pos     // token start position

	// Rollback state: the scanner as it was before the last Scan.
	saved    scanState
	canUndo  bool
	prevTok  Token // token before the current one (negative literal detection)
	litBuf   strings.Builder
	nlLength int // number of newlines collapsed into the current _EOL
}

// scanState is a snapshot of everything Scan mutates.
type scanState struct {
	cur     cursor
	tok     Token
	lit     string
	kind    LitKind
	tokPos  Pos
	prevTok Token
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error; if nil, errors are silently ignored.
func NewScanner(filename string, src io.Reader, errh func(line, col uint32, msg string)) *Scanner {
	s := &Scanner{
		source: *newSource(filename, src, errh),
		tok:    _EOL, // nothing scanned yet; behaves like the start of a line
	}
	return s
}

func (s *Scanner) snapshot() scanState {
	return scanState{cur: s.cursor, tok: s.tok, lit: s.lit, kind: s.kind, tokPos: s.tokPos, prevTok: s.prevTok}
}

func (s *Scanner) restore(st scanState) {
	s.cursor = st.cur
	s.tok = st.tok
	s.lit = st.lit
	s.kind = st.kind
	s.tokPos = st.tokPos
	s.prevTok = st.prevTok
}

// Scan advances to the next token and returns it.
func (s *Scanner) Scan() Token {
	s.saved = s.snapshot()
	s.canUndo = true
	s.prevTok = s.tok
	s.next()
	return s.tok
}

// Next advances to the next token.
func (s *Scanner) Next() {
	s.Scan()
}

// Rollback undoes the most recent Scan. Only one level of undo is kept;
// a second Rollback without an intervening Scan does nothing.
func (s *Scanner) Rollback() {
	if !s.canUndo {
		return
	}
	s.restore(s.saved)
	s.canUndo = false
}

// Expect scans the next token and keeps it only if its literal is lit.
// On mismatch the scan is rolled back and Expect reports false.
func (s *Scanner) Expect(lit string) bool {
	s.Scan()
	if s.lit == lit && s.tok != _Literal {
		return true
	}
	s.Rollback()
	return false
}

// Peek returns the token after the current one without consuming it.
func (s *Scanner) Peek() (Token, string) {
	st := s.snapshot()
	s.prevTok = s.tok
	s.next()
	tok, lit := s.tok, s.lit
	s.restore(st)
	return tok, lit
}

// Test reports whether the token after the current one is tok.
// It never consumes input.
func (s *Scanner) Test(tok Token) bool {
	next, _ := s.Peek()
	return next == tok
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string {
	return s.lit
}

// LitKind returns the current literal's kind (only valid when Token() == _Literal).
func (s *Scanner) LitKind() LitKind {
	return s.kind
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// SkipLine discards the rest of the current line.
// The next Scan returns the _EOL that ends it (or EOF).
func (s *Scanner) SkipLine() {
	if s.tok == _EOL || s.tok == _EOF {
		return
	}
	for s.ch >= 0 && s.ch != '\n' {
		s.nextch()
	}
	s.canUndo = false
}

// SkipBlock skips tokens until the '}' that closes the current block,
// tracking nested braces. When the current token is '{' it opens the
// block being skipped. The current token ends as that '}' (or EOF).
func (s *Scanner) SkipBlock() {
	depth := 1
	for s.tok != _EOF {
		s.Scan()
		switch s.tok {
		case _Lbrace:
			depth++
		case _Rbrace:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// next scans one token into the current token fields.
func (s *Scanner) next() {
redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	s.tokPos = s.pos()
	s.kind = 0

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case s.ch == '\n':
		s.scanNewlines()

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber(false)

	case s.ch == '-' && isDigit(s.peek()) && !endsOperand(s.prevTok):
		s.nextch()
		s.scanNumber(true)

	case s.ch == '"':
		s.scanString()

	case s.ch == '\'':
		s.scanChar()

	default:
		if s.scanOperator() {
			goto redo
		}
	}
}

// endsOperand reports whether tok can be the last token of an operand,
// in which case a following '-' is a binary minus.
func endsOperand(tok Token) bool {
	switch tok {
	case _Name, _Literal, _Rparen, _Rbrack, _This, _True, _False, _Null, _Inc, _Dec:
		return true
	}
	return false
}

// scanNewlines collapses a run of blank lines into one _EOL token.
func (s *Scanner) scanNewlines() {
	s.nlLength = 0
	for s.ch == '\n' || isWhitespace(s.ch) {
		if s.ch == '\n' {
			s.nlLength++
		}
		s.nextch()
	}
	s.tok = _EOL
	s.lit = "\n"
}

// startLit begins accumulating a literal.
func (s *Scanner) startLit() {
	s.litBuf.Reset()
	s.litBuf.WriteRune(s.ch)
}

// continueLit adds the current character to the literal being accumulated.
func (s *Scanner) continueLit() {
	s.litBuf.WriteRune(s.ch)
}

// scanIdent scans an identifier or keyword.
// Identifiers may start with at most three underscores and may not end with one.
func (s *Scanner) scanIdent() {
	pos := s.pos()
	s.startLit()
	s.nextch()

	for isLetter(s.ch) || isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}

	s.lit = s.litBuf.String()
	s.tok = LookupKeyword(s.lit)

	lead := len(s.lit) - len(strings.TrimLeft(s.lit, "_"))
	switch {
	case lead > 3:
		s.errorAt(pos, fmt.Sprintf("invalid identifier %q: too many leading underscores", s.lit))
	case strings.HasSuffix(s.lit, "_"):
		s.errorAt(pos, fmt.Sprintf("invalid identifier %q: trailing underscore", s.lit))
	}
}

// scanNumber scans an integer, hex or floating-point literal.
// A trailing f/F marks a single-precision float.
func (s *Scanner) scanNumber(negative bool) {
	s.litBuf.Reset()
	if negative {
		s.litBuf.WriteByte('-')
	}
	s.kind = IntLit

	if s.ch == '0' && lower(s.peek()) == 'x' {
		s.continueLit()
		s.nextch()
		s.continueLit()
		s.nextch()
		if !isHexDigit(s.ch) {
			s.error("invalid hex digit")
		}
		for isHexDigit(s.ch) {
			s.continueLit()
			s.nextch()
		}
		s.kind = HexLit
		s.lit = s.litBuf.String()
		s.tok = _Literal
		return
	}

	s.scanDigits()
	// "0..10" is a range, not a fraction.
	if s.ch == '.' && isDigit(s.peek()) {
		s.kind = DoubleLit
		s.continueLit()
		s.nextch()
		s.scanDigits()
	}
	if lower(s.ch) == 'e' {
		s.kind = DoubleLit
		s.continueLit()
		s.nextch()
		if s.ch == '+' || s.ch == '-' {
			s.continueLit()
			s.nextch()
		}
		if !isDigit(s.ch) {
			s.error("exponent has no digits")
		}
		s.scanDigits()
	}
	if lower(s.ch) == 'f' {
		s.kind = FloatLit
		s.continueLit()
		s.nextch()
	}

	s.lit = s.litBuf.String()
	s.tok = _Literal
}

func (s *Scanner) scanDigits() {
	for isDigit(s.ch) || s.ch == '_' && isDigit(s.peek()) {
		if s.ch != '_' {
			s.continueLit()
		}
		s.nextch()
	}
}

// scanString scans a string literal.
// The literal keeps escape sequences verbatim: the text is re-emitted into C.
func (s *Scanner) scanString() {
	s.nextch() // skip opening "
	s.litBuf.Reset()

	for {
		switch {
		case s.ch == '"':
			s.nextch()
			s.lit = s.litBuf.String()
			s.tok = _Literal
			s.kind = StringLit
			return

		case s.ch == '\\':
			s.scanEscape()

		case s.ch == '\n' || s.ch < 0:
			s.error("string not terminated")
			s.lit = s.litBuf.String()
			s.tok = _Literal
			s.kind = StringLit
			return

		default:
			s.continueLit()
			s.nextch()
		}
	}
}

// scanChar scans a character literal such as 'a' or '\n'.
// The literal keeps its quotes.
func (s *Scanner) scanChar() {
	s.litBuf.Reset()
	s.continueLit()
	s.nextch()

	switch s.ch {
	case '\\':
		s.scanEscape()
	case '\'', '\n', -1:
		s.error("empty character literal")
	default:
		s.continueLit()
		s.nextch()
	}

	if s.ch != '\'' {
		s.error("character literal not terminated")
	} else {
		s.continueLit()
		s.nextch()
	}
	s.lit = s.litBuf.String()
	s.tok = _Literal
	s.kind = CharLit
}

// scanEscape validates an escape sequence and copies it verbatim.
func (s *Scanner) scanEscape() {
	s.continueLit()
	s.nextch() // skip \

	switch s.ch {
	case 'n', 't', 'r', '\\', '"', '\'', '0', 'a', 'b', 'f', 'v':
		s.continueLit()
		s.nextch()
	case 'x':
		s.continueLit()
		s.nextch()
		for i := 0; i < 2; i++ {
			if !isHexDigit(s.ch) {
				s.error("invalid hex escape")
				return
			}
			s.continueLit()
			s.nextch()
		}
	default:
		s.error(fmt.Sprintf("unknown escape sequence: \\%c", s.ch))
		s.nextch()
	}
}

// scanOperator scans an operator or delimiter.
// Returns true if a comment was skipped (caller should rescan).
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '+':
		s.pick2(_Add, '+', _Inc, '=', _AddAssign)
	case '-':
		s.pick2(_Sub, '-', _Dec, '=', _SubAssign)
	case '*':
		s.pick2(_Mul, '=', _MulAssign, 0, 0)
	case '/':
		switch s.ch {
		case '/':
			for s.ch >= 0 && s.ch != '\n' {
				s.nextch()
			}
			return true
		case '*':
			s.skipBlockComment()
			return true
		}
		s.pick2(_Div, '=', _DivAssign, 0, 0)
	case '%':
		s.pick2(_Rem, '=', _RemAssign, 0, 0)
	case '&':
		s.pick2(_And, '&', _AndAnd, '=', _AndAssign)
	case '|':
		s.pick2(_Or, '|', _OrOr, '=', _OrAssign)
	case '^':
		s.set(_Xor)
	case '<':
		switch s.ch {
		case '=':
			s.nextch()
			if s.ch == '>' {
				s.nextch()
				s.set(_Cmp)
			} else {
				s.set(_Leq)
			}
		case '<':
			s.nextch()
			s.set(_Shl)
		default:
			s.set(_Lss)
		}
	case '>':
		s.pick2(_Gtr, '=', _Geq, '>', _Shr)
	case '=':
		s.pick2(_Assign, '=', _Eql, '>', _Arrow)
	case '!':
		s.pick2(_Not, '=', _Neq, 0, 0)
	case '?':
		s.set(_Question)
	case ':':
		s.set(_Colon)
	case '.':
		if s.ch == '.' {
			s.nextch()
			if s.ch == '.' {
				s.nextch()
				s.set(_Ellipsis)
			} else {
				s.set(_Range)
			}
		} else {
			s.set(_Dot)
		}
	case '(':
		s.set(_Lparen)
	case ')':
		s.set(_Rparen)
	case '[':
		s.set(_Lbrack)
	case ']':
		s.set(_Rbrack)
	case '{':
		s.set(_Lbrace)
	case '}':
		s.set(_Rbrace)
	case ',':
		s.set(_Comma)
	case ';':
		s.set(_Semi)
	case '@':
		s.set(_At)
	case '#':
		s.set(_Hash)
	default:
		s.errorAt(s.tokPos, fmt.Sprintf("unexpected character %q", ch))
		s.tok = _Illegal
		s.lit = string(ch)
	}
	return false
}

// set records a fixed-text token.
func (s *Scanner) set(tok Token) {
	s.tok = tok
	s.lit = tok.String()
}

// pick2 chooses between a one-character token and up to two
// two-character continuations.
func (s *Scanner) pick2(single Token, c1 rune, t1 Token, c2 rune, t2 Token) {
	switch {
	case c1 != 0 && s.ch == c1:
		s.nextch()
		s.set(t1)
	case c2 != 0 && s.ch == c2:
		s.nextch()
		s.set(t2)
	default:
		s.set(single)
	}
}

// skipBlockComment skips a /* ... */ comment. s.ch is the '*'.
func (s *Scanner) skipBlockComment() {
	s.nextch()
	for s.ch >= 0 {
		if s.ch == '*' && s.peek() == '/' {
			s.nextch()
			s.nextch()
			return
		}
		s.nextch()
	}
	s.error("comment not terminated")
}

// errorAt reports a lexical error at pos.
func (s *Scanner) errorAt(pos Pos, msg string) {
	if s.errh != nil {
		s.errh(pos.Line(), pos.Col(), msg)
	}
}
