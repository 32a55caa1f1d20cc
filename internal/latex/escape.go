// Package latex generates a complete LaTeX document from CV data and a
// design configuration. Generation is pure string assembly; compilation is
// delegated to an external toolchain.
package latex

import "strings"

// Escape escapes LaTeX special characters in text.
// Special characters: \ { } $ & % # ^ _ ~ < > |
func Escape(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		switch r {
		case '\\':
			result.WriteString(`\textbackslash{}`)
		case '{':
			result.WriteString(`\{`)
		case '}':
			result.WriteString(`\}`)
		case '$':
			result.WriteString(`\$`)
		case '&':
			result.WriteString(`\&`)
		case '%':
			result.WriteString(`\%`)
		case '#':
			result.WriteString(`\#`)
		case '^':
			result.WriteString(`\textasciicircum{}`)
		case '_':
			result.WriteString(`\_`)
		case '~':
			result.WriteString(`\textasciitilde{}`)
		case '<':
			result.WriteString(`\textless{}`)
		case '>':
			result.WriteString(`\textgreater{}`)
		case '|':
			result.WriteString(`\textbar{}`)
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// escapeJoin escapes each item and joins with the separator.
func escapeJoin(items []string, sep string) string {
	escaped := make([]string, len(items))
	for i, item := range items {
		escaped[i] = Escape(item)
	}
	return strings.Join(escaped, sep)
}
