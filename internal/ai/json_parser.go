package ai

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

// Pre-compiled patterns. Compiling on every parse is measurably slower
// than reusing package-level regexps.
var (
	// Code fence patterns; newlines optional because models sometimes
	// emit ```json{...}``` with no line breaks at all.
	fenceWholeRegex = regexp.MustCompile(`(?s)^` + "`" + `{3}(?:json)?\s*\n?([\s\S]*?)\n?` + "`" + `{3}\s*$`)
	fenceInnerRegex = regexp.MustCompile(`(?s)` + "`" + `{3}(?:json)?\s*\n?([\s\S]*?)\n?` + "`" + `{3}`)

	// Cleanup patterns for the usual LLM JSON quirks
	trailingCommaRegex = regexp.MustCompile(`,(\s*[}\]])`)
	lineCommentRegex   = regexp.MustCompile(`(?m)//.*$`)
	blockCommentRegex  = regexp.MustCompile(`(?s)/\*.*?\*/`)

	// Greedy extraction of an embedded object or array
	objectRegex = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	arrayRegex  = regexp.MustCompile(`(?s)\[[\s\S]*\]`)
)

// ParseResult is the outcome of a resilient JSON parse. A result-style
// return keeps malformed model output from panicking the engine and
// preserves the original text for error reporting.
type ParseResult[T any] struct {
	Success      bool
	Data         T
	Error        string
	OriginalText string
}

// Parse attempts to decode model output as JSON, working around the
// common formatting quirks of LLM responses.
//
// Strategy sequence:
//  1. Direct JSON parse
//  2. Strip markdown code fences and retry
//  3. Remove trailing commas and comments and retry
//  4. Extract an embedded JSON object/array from mixed prose and retry
//
// context names the response being parsed in error messages and logs.
func Parse[T any](text, context string) ParseResult[T] {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return parseError[T]("empty input", text, context)
	}

	if data, err := tryUnmarshal[T](trimmed); err == nil {
		return ParseResult[T]{Success: true, Data: data, OriginalText: text}
	} else {
		slog.Debug("direct JSON parse failed, trying cleanup strategies",
			"context", context,
			"error", err.Error(),
			"preview", truncate(trimmed, 100))
	}

	unfenced := stripCodeFences(trimmed)
	if unfenced != trimmed {
		if data, err := tryUnmarshal[T](unfenced); err == nil {
			return ParseResult[T]{Success: true, Data: data, OriginalText: text}
		}
	}

	cleaned := cleanupJSON(unfenced)
	if data, err := tryUnmarshal[T](cleaned); err == nil {
		return ParseResult[T]{Success: true, Data: data, OriginalText: text}
	}

	if extracted := extractJSON(cleaned); extracted != "" {
		if data, err := tryUnmarshal[T](extracted); err == nil {
			return ParseResult[T]{Success: true, Data: data, OriginalText: text}
		}
	}

	return parseError[T]("all JSON parsing strategies failed", text, context)
}

func tryUnmarshal[T any](text string) (T, error) {
	var result T
	err := json.Unmarshal([]byte(text), &result)
	return result, err
}

// stripCodeFences removes markdown code fences wrapping the content.
func stripCodeFences(text string) string {
	cleaned := fenceWholeRegex.ReplaceAllString(text, "$1")
	if cleaned == text {
		cleaned = fenceInnerRegex.ReplaceAllString(text, "$1")
	}
	if strings.HasPrefix(cleaned, "`") && strings.HasSuffix(cleaned, "`") {
		cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "`"), "`")
	}
	return strings.TrimSpace(cleaned)
}

// cleanupJSON removes trailing commas and // and /* */ comments. Single
// quotes are left alone: converting them would corrupt valid JSON that
// contains apostrophes.
func cleanupJSON(text string) string {
	cleaned := trailingCommaRegex.ReplaceAllString(strings.TrimSpace(text), "$1")
	cleaned = lineCommentRegex.ReplaceAllString(cleaned, "")
	cleaned = blockCommentRegex.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// extractJSON pulls an embedded JSON object or array out of mixed prose.
// The first-character check keeps an array response from being shredded
// into its first element.
func extractJSON(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '[':
			if match := arrayRegex.FindString(text); match != "" {
				return match
			}
		case '{':
			if match := objectRegex.FindString(text); match != "" {
				return match
			}
		}
	}
	if match := objectRegex.FindString(text); match != "" {
		return match
	}
	return arrayRegex.FindString(text)
}

func parseError[T any](message, text, context string) ParseResult[T] {
	var zero T
	if context != "" {
		message = context + ": " + message
	}
	slog.Debug("JSON parse failed", "error", message, "preview", truncate(text, 100))
	return ParseResult[T]{Success: false, Data: zero, Error: message, OriginalText: text}
}

// truncate shortens a string to maxLen characters for log previews.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Truncate is the exported form used by callers building error messages.
func Truncate(s string, maxLen int) string {
	return truncate(s, maxLen)
}
