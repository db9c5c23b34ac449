package slug

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixed = time.UnixMilli(1700000000123)

func TestMake(t *testing.T) {
	tests := []struct {
		title string
		label string
		want  string
	}{
		{"Hello World", LabelCourse, "hello-world"},
		{"Увод в програмирането", LabelModule, "uvod-v-programiraneto"},
		{"Щастие и ЮНИКОД", LabelTopic, "shtastie-i-yunikod"},
		{"Тема 1: Въведение", LabelTopic, "tema-1-vavedenie"},
		{"  --snake_case  words-- ", LabelLesson, "snake-case-words"},
		{"C++ & Go!", LabelLesson, "c-go"},
		{"Їжак і ґанок", LabelLesson, "yizhak-i-ganok"},
		{"Тема\u00a01", LabelTopic, "tema-1"},
		{"Hello\u00a0World", LabelLesson, "hello-world"},
		{"a\u3000b\vc", LabelLesson, "a-b-c"},
		{"!!!", LabelCourse, "item-1700000000123"},
		{"", LabelLesson, "lesson-1700000000123"},
		{"ь", LabelModule, "module-1700000000123"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.title, tt.label, fixed))
		})
	}
}

func TestMakeAlphabet(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)
	titles := []string{
		"Ünïcödé Straße", "日本語", "Tab\tand\nnewline", "a_b_c", "-edge-", "ÀÉÎ",
		"Програмиране с JavaScript (ES2023)", "100% done", "ⓐⓑⓒ", "K", "x — y",
	}
	for _, title := range titles {
		got := Make(title, LabelCourse, fixed)
		assert.Regexp(t, valid, got, "title %q", title)
	}
}

func TestWithTimestamp(t *testing.T) {
	assert.Equal(t, "intro-1700000000123", WithTimestamp("intro", fixed))
}

func TestTracker(t *testing.T) {
	tr := NewTracker("intro", "intro-2")

	assert.Equal(t, "intro-3", tr.Claim("intro"))
	assert.Equal(t, "intro-4", tr.Claim("intro"))
	assert.Equal(t, "basics", tr.Claim("basics"))
	assert.Equal(t, "basics-2", tr.Claim("basics"))
}
