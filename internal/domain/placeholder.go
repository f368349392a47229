package domain

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"
)

const (
	placeholderWidth  = 768
	placeholderHeight = 1024
	placeholderFooter = "PSY TAROT"
)

const placeholderTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="%[1]d" height="%[2]d" viewBox="0 0 %[1]d %[2]d">` +
	`<defs><linearGradient id="bg" x1="0" y1="0" x2="0" y2="1">` +
	`<stop offset="0" stop-color="#1b1033"/><stop offset="1" stop-color="#3a1f5c"/>` +
	`</linearGradient></defs>` +
	`<rect x="0" y="0" width="%[1]d" height="%[2]d" fill="url(#bg)"/>` +
	`<rect x="24" y="24" width="720" height="976" rx="28" fill="none" stroke="#d4af37" stroke-width="6"/>` +
	`<rect x="48" y="48" width="672" height="928" rx="18" fill="none" stroke="#d4af37" stroke-width="2" stroke-dasharray="8 6"/>` +
	`<g transform="translate(384 420)" fill="none" stroke="#d4af37">` +
	`<circle r="150" stroke-width="3"/>` +
	`<circle r="110" stroke-width="1.5"/>` +
	`<polygon points="0,-140 33,-45 133,-43 53,17 82,113 0,55 -82,113 -53,17 -133,-43 -33,-45" stroke-width="3" fill="#d4af37" fill-opacity="0.15"/>` +
	`<circle r="18" fill="#d4af37"/>` +
	`</g>` +
	`<text x="384" y="720" text-anchor="middle" font-family="Georgia, serif" font-size="%[4]d" fill="#f5e6b8">%[3]s</text>` +
	`<line x1="184" y1="760" x2="584" y2="760" stroke="#d4af37" stroke-width="2"/>` +
	`<text x="384" y="930" text-anchor="middle" font-family="Georgia, serif" font-size="28" letter-spacing="8" fill="#d4af37">%[5]s</text>` +
	`</svg>`

// PlaceholderSVG returns the placeholder markup for cardName. The output depends
// only on the name, so identical names produce identical bytes.
func PlaceholderSVG(cardName string) string {
	name := strings.TrimSpace(cardName)
	if name == "" {
		name = DefaultCardName
	}
	return fmt.Sprintf(placeholderTemplate,
		placeholderWidth,
		placeholderHeight,
		html.EscapeString(name),
		placeholderFontSize(name),
		placeholderFooter,
	)
}

// SynthesizePlaceholder builds the vector image used when image generation is
// unavailable. The markup is base64-encoded from its UTF-8 bytes so Cyrillic
// card names survive the data URI.
func SynthesizePlaceholder(cardName string) ImageAsset {
	svg := PlaceholderSVG(cardName)
	return NewVector(base64.StdEncoding.EncodeToString([]byte(svg)))
}

func placeholderFontSize(name string) int {
	switch n := utf8.RuneCountInString(name); {
	case n <= 14:
		return 56
	case n <= 22:
		return 44
	default:
		return 32
	}
}
