package checker

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// containsFold reports whether substr occurs in s under Unicode case folding.
func containsFold(s, substr string) bool {
	c := cases.Fold()
	return strings.Contains(c.String(s), c.String(substr))
}

// length counts characters, not bytes.
func length(s string) int {
	return utf8.RuneCountInString(s)
}
