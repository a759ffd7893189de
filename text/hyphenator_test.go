package text

import (
	"bytes"
	"compress/gzip"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/language"
)

// Classic patterns from Liang's thesis, enough to hyphenate "hyphenation".
const testPatterns = `hy3ph he2n hena4 hen5at 1na n2at
1tio 2io o2n`

func buildHyphenator(t *testing.T) *Hyphenator {
	t.Helper()

	h, err := LoadHyphenator("test", strings.NewReader(testPatterns), strings.NewReader("ta-ble\n"))
	if err != nil {
		t.Fatalf("Unable to load dictionary: %v", err)
	}
	return h
}

func gzipped(t *testing.T, data string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(data)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func TestHyphenate(t *testing.T) {
	h := buildHyphenator(t)

	tests := []struct {
		in, out string
	}{
		{"hyphenation", "hy-phen-ation"},
		{"Hyphenation", "Hy-phen-ation"},
		{"hyphenation,", "hy-phen-ation,"},
		{"(nation)", "(na-tion)"},
		{"concatenation", "concate-na-tion"},
		{"hen", "hen"},
		{"table", "ta-ble"},
		{"well-known", "well-known"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := h.Hyphenate(tt.in, "-"); got != tt.out {
				t.Errorf("Hyphenate(%q) = %q, want %q", tt.in, got, tt.out)
			}
		})
	}
}

func TestBreakpoints(t *testing.T) {
	h := buildHyphenator(t)

	tests := []struct {
		word     string
		expected []int
	}{
		{"hyphenation", []int{2, 6}},
		{"«hyphenation»", []int{4, 8}},
		{"well-known", []int{5}},
		{"ab", nil},
		{"-", nil},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got := h.Breakpoints(tt.word)
			if !slices.Equal(got, tt.expected) {
				t.Errorf("Breakpoints(%q) = %v, want %v", tt.word, got, tt.expected)
			}
			for _, p := range got {
				if p <= 0 || p >= len(tt.word) {
					t.Errorf("Breakpoints(%q) offset %d out of range", tt.word, p)
				}
			}
		})
	}
}

func TestNilHyphenator(t *testing.T) {
	var h *Hyphenator
	if got := h.Breakpoints("hyphenation"); got != nil {
		t.Errorf("nil Breakpoints() = %v, want nil", got)
	}
	if got := h.Hyphenate("hyphenation", "-"); got != "hyphenation" {
		t.Errorf("nil Hyphenate() = %q", got)
	}
	if h.Language() != "" {
		t.Errorf("nil Language() = %q", h.Language())
	}
}

func TestLoadHyphenator_Empty(t *testing.T) {
	if _, err := LoadHyphenator("none", strings.NewReader("% comment only\n"), nil); err == nil {
		t.Error("Expected error for empty patterns")
	}
}

func TestNewHyphenator_Lookup(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	fsys := fstest.MapFS{
		"hyph-en-us.pat.txt.gz": &fstest.MapFile{Data: gzipped(t, testPatterns)},
		"hyph-ru.pat.txt":       &fstest.MapFile{Data: []byte(testPatterns)},
	}

	tests := []struct {
		tag      string
		expected string
	}{
		{"en-US", "en-us"},
		{"en", "en-us"},
		{"en-GB", "en-us"},
		{"ru-RU", "ru"},
		{"fr", ""},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			h := NewHyphenator(fsys, language.MustParse(tt.tag), log)
			if got := h.Language(); got != tt.expected {
				t.Errorf("NewHyphenator(%s) loaded %q, want %q", tt.tag, got, tt.expected)
			}
		})
	}

	if h := NewHyphenator(nil, language.English, log); h != nil {
		t.Error("Expected nil hyphenator without dictionaries")
	}
}
