package security

import (
	"encoding/json"
	"regexp"
)

// The model's text can end up in a dangerouslySetInnerHTML-style render path
// (the LaTeX preview renders HTML from a LaTeX-to-HTML conversion), so every
// string leaf of a parsed action payload is scrubbed before it leaves the
// service.

var (
	scriptTagRe   = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	scriptOpenRe  = regexp.MustCompile(`(?i)<script\b[^>]*>`)
	jsURIRe       = regexp.MustCompile(`(?i)javascript\s*:`)
	eventAttrRe   = regexp.MustCompile(`(?i)\son\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	embedTagRe    = regexp.MustCompile(`(?is)<(iframe|object|embed)\b[^>]*>.*?</(iframe|object|embed)\s*>`)
	embedOpenRe   = regexp.MustCompile(`(?i)</?(iframe|object|embed)\b[^>]*>`)
	genericTagRe  = regexp.MustCompile(`(?s)<[^>]*>`)
)

// SanitizeText strips executable markup vectors from one string.
func SanitizeText(s string) string {
	s = scriptTagRe.ReplaceAllString(s, "")
	s = scriptOpenRe.ReplaceAllString(s, "")
	s = embedTagRe.ReplaceAllString(s, "")
	s = embedOpenRe.ReplaceAllString(s, "")
	s = eventAttrRe.ReplaceAllString(s, "")
	s = jsURIRe.ReplaceAllString(s, "")
	s = genericTagRe.ReplaceAllString(s, "")
	return s
}

// SanitizePayload recursively sanitizes every string leaf of a parsed JSON
// payload, preserving structure. Non-string leaves pass through unchanged.
func SanitizePayload(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return raw, nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}

	cleaned := sanitizeValue(value)
	out, err := json.Marshal(cleaned)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case string:
		return SanitizeText(val)
	case map[string]any:
		for k, item := range val {
			val[k] = sanitizeValue(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = sanitizeValue(item)
		}
		return val
	default:
		return v
	}
}
