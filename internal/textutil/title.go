package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldTitle returns a comparison key for a film title: Unicode case folding
// with surrounding whitespace trimmed and inner runs collapsed to one space.
func FoldTitle(title string) string {
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return ""
	}
	return cases.Fold().String(strings.Join(fields, " "))
}

// SameTitle reports whether two titles are equal after folding.
func SameTitle(a, b string) bool {
	return FoldTitle(a) == FoldTitle(b)
}
