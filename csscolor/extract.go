package csscolor

import (
	"iter"
	"regexp"
	"slices"
	"strings"
)

// colorToken matches one embedded color: a functional rgb/hsl notation or a
// 3, 4, 6 or 8 digit hex literal.
var colorToken = regexp.MustCompile(
	`(?i)rgba?\s*\([^)]+\)|hsla?\s*\([^)]+\)|#(?:[0-9a-f]{8}|[0-9a-f]{6}|[0-9a-f]{4}|[0-9a-f]{3})\b`)

// Extract yields every color token embedded in a CSS value, left to right.
// Composite values such as box-shadow lists produce one token per layer.
// The sequence is lazy and can be ranged over any number of times.
func Extract(value string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := value
		for {
			loc := colorToken.FindStringIndex(rest)
			if loc == nil {
				return
			}
			if tok := strings.TrimSpace(rest[loc[0]:loc[1]]); tok != "" {
				if !yield(tok) {
					return
				}
			}
			rest = rest[loc[1]:]
		}
	}
}

// ExtractAll collects Extract into a slice.
func ExtractAll(value string) []string {
	return slices.Collect(Extract(value))
}
