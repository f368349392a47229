package apierr_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/marataitester-blip/psy-color-deep/internal/adapters/apierr"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"openai error", `{"error":{"message":"invalid api key","type":"auth"}}`, "invalid api key"},
		{"empty message", `{"error":{"message":""}}`, `{"error":{"message":""}}`},
		{"plain text", "  bad gateway \n", "bad gateway"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apierr.Message([]byte(tt.body)); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessage_TruncatesOnRuneBoundary(t *testing.T) {
	// "ж" is two bytes, so byte MaxLen falls in the middle of a rune.
	body := "a" + strings.Repeat("ж", apierr.MaxLen)

	got := apierr.Message([]byte(body))
	if len(got) > apierr.MaxLen {
		t.Errorf("len = %d, want <= %d", len(got), apierr.MaxLen)
	}
	if !utf8.ValidString(got) {
		t.Error("message is not valid UTF-8")
	}
	if len(got) != apierr.MaxLen-1 {
		t.Errorf("len = %d, want %d", len(got), apierr.MaxLen-1)
	}
}
