// Package slug derives URL slugs from titles.
//
// Two collision strategies exist side by side: single-entity creation appends
// a millisecond timestamp (WithTimestamp), bulk import keeps a per-request
// used-set and appends -2, -3, ... (Tracker).
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Fallback labels used when a title produces an empty slug.
const (
	LabelCourse = "item"
	LabelModule = "module"
	LabelTopic  = "topic"
	LabelLesson = "lesson"
)

var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f",
	'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sht", 'ъ': "a", 'ь': "",
	'ю': "yu", 'я': "ya", 'є': "ye", 'і': "i", 'ї': "yi", 'ґ': "g",
}

var (
	// \s is ASCII-only in RE2; \p{Z} adds no-break and other Unicode spaces.
	nonWord    = regexp.MustCompile(`[^\w\p{Z}\s\v\x{FEFF}-]`)
	separators = regexp.MustCompile(`[\p{Z}\s\v\x{FEFF}_]+`)
	edgeDashes = regexp.MustCompile(`^-+|-+$`)
)

// Derive returns the slug for title, or "" when nothing survives cleanup.
func Derive(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if latin, ok := cyrillic[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}

	s := nonWord.ReplaceAllString(b.String(), "")
	s = separators.ReplaceAllString(s, "-")
	return edgeDashes.ReplaceAllString(s, "")
}

// Make derives a slug and falls back to "<label>-<unix ms>" when empty.
func Make(title, label string, now time.Time) string {
	if s := Derive(title); s != "" {
		return s
	}
	return fmt.Sprintf("%s-%d", label, now.UnixMilli())
}

// WithTimestamp disambiguates a colliding slug with a millisecond suffix.
func WithTimestamp(base string, now time.Time) string {
	return fmt.Sprintf("%s-%d", base, now.UnixMilli())
}

// Tracker hands out slugs unique within one scope for the lifetime of a
// single request.
type Tracker struct {
	used map[string]struct{}
}

func NewTracker(existing ...string) *Tracker {
	t := &Tracker{used: make(map[string]struct{}, len(existing))}
	for _, s := range existing {
		t.used[s] = struct{}{}
	}
	return t
}

// Claim returns base, or base-2, base-3, ... for the first unused value, and
// marks it used.
func (t *Tracker) Claim(base string) string {
	s := base
	for i := 2; t.has(s); i++ {
		s = fmt.Sprintf("%s-%d", base, i)
	}
	t.used[s] = struct{}{}
	return s
}

func (t *Tracker) has(s string) bool {
	_, ok := t.used[s]
	return ok
}
