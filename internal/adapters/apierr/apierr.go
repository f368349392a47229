// Package apierr extracts a loggable message from an OpenAI-compatible error body.
package apierr

import (
	"strings"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"github.com/sashabaranov/go-openai"
)

// MaxLen bounds the raw-body fallback so error strings stay loggable.
const MaxLen = 512

// Message prefers the OpenAI-style error message over the raw body. The raw
// body is cut to MaxLen bytes on a rune boundary.
func Message(body []byte) string {
	var apiErr openai.ErrorResponse
	if err := jsoniter.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return truncate(strings.TrimSpace(string(body)), MaxLen)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
