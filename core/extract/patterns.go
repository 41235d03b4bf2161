package extract

import (
	"regexp"
	"strings"
)

// fencePattern captures the body of one kind of code wrapper.
type fencePattern struct {
	name string
	re   *regexp.Regexp
}

// fencePatterns is tried in order; the first pattern whose body holds an
// object wins. New wrappers go at the position that matches their precedence.
var fencePatterns = []fencePattern{
	{name: "json_fence", re: regexp.MustCompile("(?is)```json[ \\t]*\\r?\\n?(.*?)```")},
	{name: "plain_fence", re: regexp.MustCompile("(?s)```[ \\t]*\\r?\\n(.*?)```")},
	{name: "inline_backtick", re: regexp.MustCompile("(?s)`(\\{[^`]*\\})`")},
}

// PatternWholeText names the fallback used when no fence matched.
const PatternWholeText = "whole_text"

// ExtractJSONText returns the object text embedded in text. Fenced and inline
// code is preferred; without a fence the trimmed text is returned as is.
func ExtractJSONText(text string) (string, error) {
	candidate, _, err := matchJSONText(text)
	return candidate, err
}

// matchJSONText is ExtractJSONText that also reports the matching pattern.
func matchJSONText(text string) (string, string, error) {
	for _, pattern := range fencePatterns {
		for _, match := range pattern.re.FindAllStringSubmatch(text, -1) {
			if object, ok := captureObject(match[1]); ok {
				return object, pattern.name, nil
			}
		}
	}

	trimmed := strings.TrimSpace(text)
	if !strings.Contains(trimmed, "{") {
		return "", "", newFailure(StagePattern, "no object-like content found", text)
	}
	return trimmed, PatternWholeText, nil
}

// captureObject returns body from its first '{' to the brace that closes it.
// An unbalanced body is captured up to its last '}'.
func captureObject(body string) (string, bool) {
	start := strings.IndexByte(body, '{')
	if start < 0 {
		return "", false
	}
	if end, ok := matchingBrace(body, start); ok {
		return body[start : end+1], true
	}
	end := strings.LastIndexByte(body, '}')
	if end <= start {
		return "", false
	}
	return body[start : end+1], true
}

// matchingBrace scans from the '{' at start and returns the index of the '}'
// closing it. Braces inside string literals are ignored.
func matchingBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
