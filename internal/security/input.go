package security

import (
	"strings"
	"unicode"
)

// maxInputRunes caps user text before it reaches a prompt. Anything longer
// is truncated, not rejected, so a pasted job description still works.
const maxInputRunes = 2000

// SanitizeInput prepares raw user text for prompt inclusion: control
// characters are dropped, whitespace runs collapse to a single space, and
// the result is length-capped.
func SanitizeInput(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := false
	for _, r := range s {
		if r == '\n' || r == '\t' {
			r = ' '
		}
		if unicode.IsControl(r) {
			continue
		}
		if unicode.IsSpace(r) {
			if lastSpace {
				continue
			}
			lastSpace = true
			b.WriteRune(' ')
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}

	out := strings.TrimSpace(b.String())
	runes := []rune(out)
	if len(runes) > maxInputRunes {
		out = string(runes[:maxInputRunes])
	}
	return out
}
