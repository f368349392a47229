package normalize

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// EmptyObject is returned by ExtractText when no content was found; decoding
// it yields an empty result, which the caller fills with defaults.
const EmptyObject = "{}"

// ExtractText pulls the assistant text out of an LLM payload. Accepted shapes,
// in order: chat completion message content (a string or text parts), legacy
// completion text, a top-level content string, a bare JSON string.
func ExtractText(raw []byte) string {
	if env, ok := decodeEnvelope(raw); ok {
		if c, ok := env.firstChoice(); ok {
			if s, ok := contentText(c.Content); ok {
				return s
			}
			if s, ok := asString(c.Text); ok {
				return s
			}
		}
		if s, ok := contentText(env.Content); ok {
			return s
		}
		return EmptyObject
	}
	if s, ok := asString(raw); ok {
		return s
	}
	return EmptyObject
}

func contentText(raw jsoniter.RawMessage) (string, bool) {
	if s, ok := asString(raw); ok {
		return s, true
	}
	var b strings.Builder
	for _, p := range asParts(raw) {
		if typ, _ := asString(p.Type); typ != "" && typ != "text" {
			continue
		}
		if s, ok := asString(p.Text); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}
