// Package ssml builds speech markup for the voice platform.
package ssml

import "strings"

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// Escape makes arbitrary text safe to embed as <speak> element content.
// Runes outside the XML 1.0 Char production are dropped.
func Escape(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if !isXMLChar(r) {
			return -1
		}
		return r
	}, text)
	return escaper.Replace(cleaned)
}

// Speak escapes text and wraps it in a <speak> element.
func Speak(text string) string {
	return "<speak>" + Escape(text) + "</speak>"
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
