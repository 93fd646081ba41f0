package sourcetree

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Marker matches a literal token in file text. When the token ends in a word
// character the match must end on a word boundary, so "@public" does not
// match "@publicity".
type Marker struct {
	re *regexp.Regexp
}

// NewMarker compiles a matcher for token.
func NewMarker(token string) Marker {
	pattern := regexp.QuoteMeta(token)
	if r, _ := utf8.DecodeLastRuneInString(token); r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
		pattern += `\b`
	}
	return Marker{re: regexp.MustCompile(pattern)}
}

// In reports whether data contains the marker.
func (m Marker) In(data []byte) bool {
	if m.re == nil {
		return false
	}
	return m.re.Match(data)
}
