// utils/text.go
package utils

import (
	"strings"
	"unicode"
)

// TrimRight removes trailing whitespace, including any line terminator
// left on a fixed-width field.
func TrimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// TitleCase upper-cases every letter that follows an uncased character and
// lower-cases every letter that follows a cased one, so "SAN JOSE INTL"
// becomes "San Jose Intl", "O'HARE" becomes "O'Hare" and "12TH ST" becomes
// "12Th St". The published listing has always been cased this way.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevCased := false
	for _, r := range s {
		if prevCased {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToTitle(r))
		}
		prevCased = isCased(r)
	}
	return b.String()
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}
