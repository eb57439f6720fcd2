package lexer

// Scanner performs lexical analysis on Lua source.
type Scanner struct {
	source []byte
	cursor int
	line   int
}

// NewScanner creates a new scanner for the given source.
func NewScanner(source []byte) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
	}
}

// Reset re-initializes the scanner with new source for reuse.
func (s *Scanner) Reset(source []byte) {
	s.source = source
	s.cursor = 0
	s.line = 1
}

var keywords = map[string]Kind{
	"and":      KindAnd,
	"break":    KindBreak,
	"do":       KindDo,
	"else":     KindElse,
	"elseif":   KindElseif,
	"end":      KindEnd,
	"false":    KindFalse,
	"for":      KindFor,
	"function": KindFunction,
	"goto":     KindGoto,
	"if":       KindIf,
	"in":       KindIn,
	"local":    KindLocal,
	"nil":      KindNil,
	"not":      KindNot,
	"or":       KindOr,
	"repeat":   KindRepeat,
	"return":   KindReturn,
	"then":     KindThen,
	"true":     KindTrue,
	"until":    KindUntil,
	"while":    KindWhile,
}

// Next returns the next token from the source.
func (s *Scanner) Next() Token {
	s.skipWhitespace()

	if s.cursor >= len(s.source) {
		return Token{Kind: KindEOF, Line: uint32(s.line)}
	}

	start := s.cursor
	ch := s.source[s.cursor]

	// Comments: -- to end of line
	if ch == '-' && s.peek() == '-' {
		s.skipComment()
		return s.Next()
	}

	if ch == '"' || ch == '\'' {
		return s.scanString(ch)
	}

	if isDigit(ch) || (ch == '.' && isDigit(s.peek())) {
		return s.scanNumber()
	}

	if isAlpha(ch) {
		return s.scanIdentifier()
	}

	return s.scanOperator(start, ch)
}

func (s *Scanner) scanOperator(start int, ch byte) Token {
	s.cursor++
	kind := KindError
	switch ch {
	case '+':
		kind = KindAdd
	case '-':
		kind = KindSub
	case '*':
		kind = KindMul
	case '%':
		kind = KindMod
	case '^':
		kind = KindPow
	case '#':
		kind = KindLen
	case '&':
		kind = KindBitAnd
	case '|':
		kind = KindBitOr
	case '(':
		kind = KindParL
	case ')':
		kind = KindParR
	case '{':
		kind = KindCurlyL
	case '}':
		kind = KindCurlyR
	case '[':
		kind = KindSqurL
	case ']':
		kind = KindSqurR
	case ';':
		kind = KindSemiColon
	case ',':
		kind = KindComma
	case '/':
		kind = s.checkAhead('/', KindIdiv, KindDiv)
	case '=':
		kind = s.checkAhead('=', KindEqual, KindAssign)
	case '~':
		kind = s.checkAhead('=', KindNotEq, KindBitXor)
	case ':':
		kind = s.checkAhead(':', KindDoubColon, KindColon)
	case '<':
		kind = s.checkAhead2('=', KindLesEq, '<', KindShiftL, KindLess)
	case '>':
		kind = s.checkAhead2('=', KindGreEq, '>', KindShiftR, KindGreater)
	case '.':
		if s.cursor < len(s.source) && s.source[s.cursor] == '.' {
			s.cursor++
			if s.cursor < len(s.source) && s.source[s.cursor] == '.' {
				s.cursor++
				kind = KindDots
			} else {
				kind = KindConcat
			}
		} else {
			kind = KindDot
		}
	}
	return Token{Kind: kind, Offset: uint32(start), Length: uint32(s.cursor - start), Line: uint32(s.line)}
}

// checkAhead consumes want and returns long if the next byte matches,
// otherwise returns short.
func (s *Scanner) checkAhead(want byte, long, short Kind) Kind {
	if s.cursor < len(s.source) && s.source[s.cursor] == want {
		s.cursor++
		return long
	}
	return short
}

func (s *Scanner) checkAhead2(want1 byte, long1 Kind, want2 byte, long2 Kind, short Kind) Kind {
	if s.cursor < len(s.source) {
		switch s.source[s.cursor] {
		case want1:
			s.cursor++
			return long1
		case want2:
			s.cursor++
			return long2
		}
	}
	return short
}

func (s *Scanner) skipWhitespace() {
	for s.cursor < len(s.source) {
		ch := s.source[s.cursor]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			s.cursor++
		} else if ch == '\n' {
			s.line++
			s.cursor++
		} else {
			break
		}
	}
}

func (s *Scanner) skipComment() {
	for s.cursor < len(s.source) && s.source[s.cursor] != '\n' {
		s.cursor++
	}
}

func (s *Scanner) scanString(quote byte) Token {
	start := s.cursor
	s.cursor++ // skip opening quote
	for s.cursor < len(s.source) && s.source[s.cursor] != quote {
		ch := s.source[s.cursor]
		if ch == '\n' {
			// Unescaped newline terminates the literal with an error.
			return Token{Kind: KindError, Offset: uint32(start), Length: uint32(s.cursor - start), Line: uint32(s.line)}
		}
		if ch == '\\' && s.cursor+1 < len(s.source) {
			s.cursor++
		}
		s.cursor++
	}

	if s.cursor >= len(s.source) {
		return Token{Kind: KindError, Offset: uint32(start), Length: uint32(s.cursor - start), Line: uint32(s.line)}
	}

	s.cursor++ // skip closing quote
	return Token{Kind: KindString, Offset: uint32(start), Length: uint32(s.cursor - start), Line: uint32(s.line)}
}

func (s *Scanner) scanNumber() Token {
	start := s.cursor
	isFloat := false

	for s.cursor < len(s.source) && isDigit(s.source[s.cursor]) {
		s.cursor++
	}
	if s.cursor < len(s.source) && s.source[s.cursor] == '.' && s.peek() != '.' {
		isFloat = true
		s.cursor++
		for s.cursor < len(s.source) && isDigit(s.source[s.cursor]) {
			s.cursor++
		}
	}
	if s.cursor < len(s.source) && (s.source[s.cursor] == 'e' || s.source[s.cursor] == 'E') {
		isFloat = true
		s.cursor++
		if s.cursor < len(s.source) && (s.source[s.cursor] == '+' || s.source[s.cursor] == '-') {
			s.cursor++
		}
		for s.cursor < len(s.source) && isDigit(s.source[s.cursor]) {
			s.cursor++
		}
	}

	kind := KindInt
	if isFloat {
		kind = KindFloat
	}
	return Token{Kind: kind, Offset: uint32(start), Length: uint32(s.cursor - start), Line: uint32(s.line)}
}

func (s *Scanner) scanIdentifier() Token {
	start := s.cursor
	for s.cursor < len(s.source) && (isAlpha(s.source[s.cursor]) || isDigit(s.source[s.cursor])) {
		s.cursor++
	}

	kind := KindName
	if k, ok := keywords[string(s.source[start:s.cursor])]; ok {
		kind = k
	}
	return Token{Kind: kind, Offset: uint32(start), Length: uint32(s.cursor - start), Line: uint32(s.line)}
}

func (s *Scanner) peek() byte {
	if s.cursor+1 >= len(s.source) {
		return 0
	}
	return s.source[s.cursor+1]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}
