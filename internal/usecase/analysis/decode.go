package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
)

var codeFence = regexp.MustCompile("```[A-Za-z]*")

// DecodeArray extracts a JSON array of strings from free-text model output.
// Code fences and control characters are removed first. When the cleaned text
// is not itself an array, the substring between the first '[' and the last ']'
// is parsed instead. Every failure wraps ErrMalformedSuggestion.
func DecodeArray(content string) ([]string, error) {
	cleaned := strings.TrimSpace(stripControl(codeFence.ReplaceAllString(content, "")))

	var value interface{}
	err := json.Unmarshal([]byte(cleaned), &value)
	if _, isArray := value.([]interface{}); err != nil || !isArray {
		start := strings.Index(cleaned, "[")
		end := strings.LastIndex(cleaned, "]")
		if start < 0 || end < start {
			if err == nil {
				return nil, fmt.Errorf("%w: response is not an array", usecaseErrors.ErrMalformedSuggestion)
			}
			return nil, fmt.Errorf("%w: no array found in response", usecaseErrors.ErrMalformedSuggestion)
		}
		value = nil
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &value); err != nil {
			return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrMalformedSuggestion, err)
		}
	}

	items, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: response is not an array", usecaseErrors.ErrMalformedSuggestion)
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T, not a string", usecaseErrors.ErrMalformedSuggestion, i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

// stripControl turns line breaks and tabs into spaces and drops every other
// control character.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}
