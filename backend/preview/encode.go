package preview

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
)

// Sections are the three buckets of a combined demo block.
type Sections struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

var uriComponentFix = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s the way browsers' encodeURIComponent does, so
// placeholders can be decoded on either side.
func EncodeURIComponent(s string) string {
	return uriComponentFix.Replace(url.QueryEscape(s))
}

func DecodeURIComponent(s string) (string, error) {
	return url.PathUnescape(s)
}

// EncodeSections serialises a demo payload for a data-code attribute.
func EncodeSections(s Sections) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encode only fails on unsupported types
	_ = enc.Encode(s)
	return EncodeURIComponent(strings.TrimSuffix(buf.String(), "\n"))
}

func DecodeSections(raw string) (Sections, error) {
	var s Sections
	decoded, err := DecodeURIComponent(raw)
	if err != nil {
		return s, err
	}
	err = json.Unmarshal([]byte(decoded), &s)
	return s, err
}

// NormalizeLang maps "javascript" to "js" and lower-cases the rest.
func NormalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "javascript" {
		return "js"
	}
	return lang
}

// Runnable reports whether a plain code block in this language gets a run
// button in display mode.
func Runnable(lang string) bool {
	switch NormalizeLang(lang) {
	case "html", "css", "js":
		return true
	}
	return false
}
