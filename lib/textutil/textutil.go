package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func CollapseWhitespace(s string) string {
	s = strings.Trim(s, " \n\t")
	return whitespaceRegex.ReplaceAllString(s, " ")
}

func IsASCII(s string) bool {
	for _, c := range s {
		if c > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// Romanize transliterates a non-ASCII label into Latin characters.
// ASCII input is returned as-is.
func Romanize(s string) string {
	if IsASCII(s) {
		return s
	}
	return CollapseWhitespace(unidecode.Unidecode(s))
}
