package normalize

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const defaultBitmapMIME = "image/png"

// LooksLikeBase64 is a cheap structural check, not a full decode: standard
// alphabet, at most two '=' and only as trailing padding, and a length that
// is a multiple of four.
func LooksLikeBase64(s string) bool {
	if s == "" {
		return false
	}
	body := strings.TrimRight(s, "=")
	if pad := len(s) - len(body); pad > 2 {
		return false
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '+', c == '/':
		default:
			return false
		}
	}
	return len(s)%4 == 0
}

// sniffMIME decodes the first bytes of a base64 bitmap and detects its type.
func sniffMIME(b64 string) string {
	prefix := b64
	if len(prefix) > 64 {
		prefix = prefix[:64]
	}
	head, err := base64.StdEncoding.DecodeString(prefix)
	if err != nil || len(head) == 0 {
		return defaultBitmapMIME
	}
	if mime := http.DetectContentType(head); strings.HasPrefix(mime, "image/") {
		return mime
	}
	return defaultBitmapMIME
}
