package lexer

func isIdentStartByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || b == '_' || (b >= '0' && b <= '9')
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

// try2 consumes two bytes when they match.
func (lx *Lexer) try2(a, b byte) bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != a || b1 != b {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	return true
}
