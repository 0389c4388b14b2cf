package token

var keywords = map[string]Kind{
	"function": KwFunction,
	"type":     KwType,
	"inherits": KwInherits,
	"new":      KwNew,
	"let":      KwLet,
	"in":       KwIn,
	"if":       KwIf,
	"elif":     KwElif,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"print":    KwPrint,
	"true":     KwTrue,
	"false":    KwFalse,
}

// LookupKeyword reports whether text is a keyword. Keywords are
// case-sensitive (lowercase only).
func LookupKeyword(text string) (Kind, bool) {
	k, ok := keywords[text]
	return k, ok
}
