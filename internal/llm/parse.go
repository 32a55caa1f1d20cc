package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports that a model response contained no usable JSON object.
// It is surfaced to the user as a generic processing error.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model response: %s", e.Message)
}

var thinkingRe = regexp.MustCompile(`(?is)<think(?:ing)?>.*?</think(?:ing)?>`)

// StripThinking removes <think>/<thinking> reasoning blocks some models
// emit before their answer.
func StripThinking(text string) string {
	return strings.TrimSpace(thinkingRe.ReplaceAllString(text, ""))
}

// CleanJSONBlock removes markdown code fence wrappers. Models often wrap
// JSON in ```json ... ``` even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		// Skip a bare language identifier left on the first line.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := strings.TrimSpace(text[:idx])
			if firstLine != "" && len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	return strings.TrimSpace(text)
}

// ExtractJSONObject locates the first balanced top-level {...} block.
// Brace counting ignores braces inside JSON strings.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", &ParseError{Message: "no JSON object found"}
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], nil
				}
			}
		}
	}
	return "", &ParseError{Message: "unbalanced JSON object"}
}

// ParseResponse turns raw model output into a parsed JSON document: strips
// fences and thinking blocks, extracts the first object, and unmarshals it.
// There is no schema validation here; callers validate or default fields.
func ParseResponse(raw string, v any) error {
	cleaned := CleanJSONBlock(StripThinking(raw))
	obj, err := ExtractJSONObject(cleaned)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return &ParseError{Message: err.Error()}
	}
	return nil
}
