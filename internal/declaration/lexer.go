package declaration

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokPunct
	tokString
)

type token struct {
	kind tokenKind
	text string
}

// lexer is a minimal tokenizer for declaration text. It understands only
// enough of the grammar to tell code apart from comments and literals.
type lexer struct {
	src string
	pos int
	// afterDot is true when the previous significant token was "." (the
	// returned identifier is then a property name, not a keyword).
	afterDot bool
	prevDot  bool
}

func (l *lexer) next() (token, bool) {
	l.afterDot = l.prevDot
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '/' && l.peek(1) == '/':
			l.skipLineComment()
		case c == '/' && l.peek(1) == '*':
			l.skipBlockComment()
		case c == '"' || c == '\'':
			l.skipQuoted(c)
			l.prevDot = false
			return token{kind: tokString}, true
		case c == '`':
			l.skipTemplate()
			l.prevDot = false
			return token{kind: tokString}, true
		case isIdentStart(c):
			start := l.pos
			for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
				l.pos++
			}
			l.prevDot = false
			return token{kind: tokIdent, text: l.src[start:l.pos]}, true
		default:
			l.pos++
			l.prevDot = c == '.'
			return token{kind: tokPunct, text: string(c)}, true
		}
	}
	return token{}, false
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset < len(l.src) {
		return l.src[l.pos+offset]
	}
	return 0
}

func (l *lexer) skipLineComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
}

func (l *lexer) skipBlockComment() {
	l.pos += 2
	for l.pos < len(l.src) {
		if l.src[l.pos] == '*' && l.peek(1) == '/' {
			l.pos += 2
			return
		}
		l.pos++
	}
}

func (l *lexer) skipQuoted(quote byte) {
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case quote, '\n':
			l.pos++
			return
		}
		l.pos++
	}
}

// skipTemplate skips a template literal including nested `${...}` code.
func (l *lexer) skipTemplate() {
	l.pos++
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; {
		case c == '\\':
			l.pos += 2
			continue
		case c == '`':
			l.pos++
			return
		case c == '$' && l.peek(1) == '{':
			l.pos += 2
			l.skipBraces()
			continue
		}
		l.pos++
	}
}

func (l *lexer) skipBraces() {
	depth := 1
	for l.pos < len(l.src) && depth > 0 {
		switch c := l.src[l.pos]; c {
		case '{':
			depth++
		case '}':
			depth--
		case '"', '\'':
			l.skipQuoted(c)
			continue
		case '`':
			l.skipTemplate()
			continue
		}
		l.pos++
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 || (c|0x20 >= 'a' && c|0x20 <= 'z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
