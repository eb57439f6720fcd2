package lexer

// Kind represents the type of token identified by the scanner.
type Kind uint8

const (
	KindEOF Kind = iota
	KindError

	// Names and literals
	KindName
	KindInt
	KindFloat
	KindString

	// Keywords
	KindAnd
	KindBreak
	KindDo
	KindElse
	KindElseif
	KindEnd
	KindFalse
	KindFor
	KindFunction
	KindGoto
	KindIf
	KindIn
	KindLocal
	KindNil
	KindNot
	KindOr
	KindRepeat
	KindReturn
	KindThen
	KindTrue
	KindUntil
	KindWhile

	// Operators and punctuation
	KindAdd       // +
	KindSub       // -
	KindMul       // *
	KindDiv       // /
	KindMod       // %
	KindPow       // ^
	KindLen       // #
	KindBitAnd    // &
	KindBitXor    // ~
	KindBitOr     // |
	KindShiftL    // <<
	KindShiftR    // >>
	KindIdiv      // //
	KindEqual     // ==
	KindNotEq     // ~=
	KindLesEq     // <=
	KindGreEq     // >=
	KindLess      // <
	KindGreater   // >
	KindAssign    // =
	KindParL      // (
	KindParR      // )
	KindCurlyL    // {
	KindCurlyR    // }
	KindSqurL     // [
	KindSqurR     // ]
	KindDoubColon // ::
	KindSemiColon // ;
	KindColon     // :
	KindComma     // ,
	KindDot       // .
	KindConcat    // ..
	KindDots      // ...
)

// Token represents a lexical unit pointing back to the source.
type Token struct {
	Kind   Kind
	Offset uint32
	Length uint32
	Line   uint32
}

// Text returns the token's raw source slice.
func (t Token) Text(src []byte) string {
	return string(src[t.Offset : t.Offset+t.Length])
}
