package normalize

import (
	"regexp"
	"strings"
)

var (
	leadingFence  = regexp.MustCompile("^```[A-Za-z0-9_+.-]*[ \\t]*\\r?\\n?")
	trailingFence = regexp.MustCompile("\\r?\\n?[ \\t]*```$")
)

// StripFences removes a markdown code fence wrapping s: an opening line of
// three backticks with an optional language tag and a closing line of exactly
// three backticks. Unfenced input is returned trimmed.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(leadingFence.ReplaceAllString(s, ""))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(trailingFence.ReplaceAllString(s, ""))
	}
	return s
}
