package normalize

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/marataitester-blip/psy-color-deep/internal/domain"
)

var (
	ErrImageNotFound    = errors.New("no usable image in response")
	ErrMalformedPayload = errors.New("image response is not valid JSON")
)

var markdownImage = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)\)`)

// ExtractImage finds the illustration in an image-generation or multimodal
// chat payload. Accepted shapes, in order of preference:
//
//  1. result arrays (data[] or images[]) whose first entry carries inline
//     base64 or a URL
//  2. a scalar base64 field at the top level
//  3. chat message images[] or array content with an image-tagged entry
//  4. chat string content holding a data URI, a markdown image link or a
//     nested JSON payload of shape 1 or 2
//
// Candidates failing the base64 or URL checks are skipped. The error is
// ErrMalformedPayload for non-JSON input and ErrImageNotFound otherwise.
func ExtractImage(raw []byte) (domain.ImageAsset, error) {
	if !jsoniter.Valid(raw) {
		return domain.ImageAsset{}, ErrMalformedPayload
	}
	env, ok := decodeEnvelope(raw)
	if !ok {
		return domain.ImageAsset{}, ErrImageNotFound
	}
	if a, ok := imageFromEnvelope(env, true); ok {
		return a, nil
	}
	return domain.ImageAsset{}, ErrImageNotFound
}

func imageFromEnvelope(env envelope, allowNested bool) (domain.ImageAsset, bool) {
	for _, results := range []jsoniter.RawMessage{env.Data, env.Images} {
		if parts := asParts(results); len(parts) > 0 {
			if a, ok := fromResult(parts[0]); ok {
				return a, true
			}
		}
	}

	for _, field := range []jsoniter.RawMessage{env.B64JSON, env.Image, env.Base64} {
		if s, ok := asString(field); ok {
			if a, ok := fromString(s); ok {
				return a, true
			}
		}
	}

	c, ok := env.firstChoice()
	if !ok {
		return domain.ImageAsset{}, false
	}
	for _, field := range []jsoniter.RawMessage{c.Images, c.Content} {
		for _, p := range asParts(field) {
			if !isImagePart(p) {
				continue
			}
			if a, ok := fromResult(p); ok {
				return a, true
			}
		}
	}

	if s, ok := asString(c.Content); ok {
		return fromContent(s, allowNested)
	}
	return domain.ImageAsset{}, false
}

// fromResult prefers inline data over URLs within a single entry.
func fromResult(p part) (domain.ImageAsset, bool) {
	for _, field := range []jsoniter.RawMessage{p.B64JSON, p.Base64, p.Image, p.Data} {
		s, ok := asString(field)
		if !ok {
			continue
		}
		if a, ok := fromInline(s, p.MIME); ok {
			return a, true
		}
	}
	if s, ok := asString(p.URL); ok {
		if a, ok := fromString(s); ok {
			return a, true
		}
	}
	return fromImageURL(p.ImageURL)
}

// fromImageURL handles image_url given either as a string or as {"url": ...}.
func fromImageURL(raw jsoniter.RawMessage) (domain.ImageAsset, bool) {
	if s, ok := asString(raw); ok {
		return fromString(s)
	}
	var obj struct {
		URL jsoniter.RawMessage `json:"url"`
	}
	if len(raw) == 0 || jsoniter.Unmarshal(raw, &obj) != nil {
		return domain.ImageAsset{}, false
	}
	if s, ok := asString(obj.URL); ok {
		return fromString(s)
	}
	return domain.ImageAsset{}, false
}

func fromInline(s string, mimeRaw jsoniter.RawMessage) (domain.ImageAsset, bool) {
	if strings.HasPrefix(s, "data:") {
		return parseDataURI(s)
	}
	if !LooksLikeBase64(s) {
		return domain.ImageAsset{}, false
	}
	mime, ok := asString(mimeRaw)
	if !ok || !strings.HasPrefix(mime, "image/") {
		mime = sniffMIME(s)
	}
	return domain.NewBitmap(s, mime), true
}

// fromString accepts a data URI, an http(s) URL or bare base64.
func fromString(s string) (domain.ImageAsset, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "data:"):
		return parseDataURI(s)
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return parseRemoteURL(s)
	default:
		return fromInline(s, nil)
	}
}

func fromContent(content string, allowNested bool) (domain.ImageAsset, bool) {
	content = StripFences(content)

	if strings.HasPrefix(content, "data:") {
		return parseDataURI(content)
	}
	if m := markdownImage.FindStringSubmatch(content); len(m) == 2 {
		if a, ok := fromString(strings.ReplaceAll(m[1], `\u0026`, "&")); ok {
			return a, true
		}
	}
	if allowNested && strings.HasPrefix(content, "{") {
		if env, ok := decodeEnvelope([]byte(content)); ok {
			return imageFromEnvelope(env, false)
		}
	}
	if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
		return parseRemoteURL(content)
	}
	return domain.ImageAsset{}, false
}

func parseDataURI(s string) (domain.ImageAsset, bool) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return domain.ImageAsset{}, false
	}
	mime, enc, _ := strings.Cut(meta, ";")
	if enc != "base64" || !strings.HasPrefix(mime, "image/") || !LooksLikeBase64(payload) {
		return domain.ImageAsset{}, false
	}
	if mime == domain.MIMESVG {
		return domain.NewVector(payload), true
	}
	return domain.NewBitmap(payload, mime), true
}

func parseRemoteURL(s string) (domain.ImageAsset, bool) {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.ImageAsset{}, false
	}
	return domain.NewRemoteURL(s), true
}

func isImagePart(p part) bool {
	typ, ok := asString(p.Type)
	if !ok {
		// OpenRouter image entries sometimes omit the tag but still carry image_url.
		return len(p.ImageURL) > 0
	}
	return strings.Contains(typ, "image")
}
