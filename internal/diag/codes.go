package diag

import (
	"fmt"
)

// Code identifies a diagnostic kind. Ranges are partitioned per phase:
// 1xxx lexical, 2xxx syntax, 3xxx semantic.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005

	// Syntax
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectType         Code = 2004
	SynExpectExpression   Code = 2005
	SynForBadIterable     Code = 2006
	SynUnclosedParen      Code = 2007
	SynUnclosedBrace      Code = 2008
	SynUnexpectedTopLevel Code = 2009

	// Semantic
	SemaRedeclaration    Code = 3001
	SemaUnknownName      Code = 3002
	SemaArityMismatch    Code = 3003
	SemaTypeMismatch     Code = 3004
	SemaInvalidOverride  Code = 3005
	SemaInheritanceCycle Code = 3006
	SemaInvalidLValue    Code = 3007
	SemaAttributeConflict Code = 3008
)

var codeNames = map[Code]string{
	UnknownCode:                 "unknown",
	LexUnknownChar:              "lex-unknown-char",
	LexUnterminatedString:       "lex-unterminated-string",
	LexUnterminatedBlockComment: "lex-unterminated-block-comment",
	LexBadNumber:                "lex-bad-number",
	LexBadEscape:                "lex-bad-escape",
	SynUnexpectedToken:          "syn-unexpected-token",
	SynExpectSemicolon:          "syn-expect-semicolon",
	SynExpectIdentifier:         "syn-expect-identifier",
	SynExpectType:               "syn-expect-type",
	SynExpectExpression:         "syn-expect-expression",
	SynForBadIterable:           "syn-for-bad-iterable",
	SynUnclosedParen:            "syn-unclosed-paren",
	SynUnclosedBrace:            "syn-unclosed-brace",
	SynUnexpectedTopLevel:       "syn-unexpected-top-level",
	SemaRedeclaration:           "sema-redeclaration",
	SemaUnknownName:             "sema-unknown-name",
	SemaArityMismatch:           "sema-arity-mismatch",
	SemaTypeMismatch:            "sema-type-mismatch",
	SemaInvalidOverride:         "sema-invalid-override",
	SemaInheritanceCycle:        "sema-inheritance-cycle",
	SemaInvalidLValue:           "sema-invalid-lvalue",
	SemaAttributeConflict:       "sema-attribute-conflict",
}

// String returns the stable numeric form, e.g. "HLK3004".
func (c Code) String() string {
	return fmt.Sprintf("HLK%04d", uint16(c))
}

// ID returns the human-readable slug for the code.
func (c Code) ID() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown"
}
