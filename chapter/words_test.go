package chapter

import (
	"strings"
	"testing"
)

func TestDecodeEntities(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"plain", "plain"},
		{"&lt;b&gt;", "<b>"},
		{"&amp;lt;", "<"},
		{"&amp;amp;amp;", "&"},
		{"&apos;&quot;", `'"`},
		{"&unknown;", "&unknown;"},
		{"AT&T", "AT&T"},
	}
	for _, tt := range tests {
		if got := decodeEntities(tt.in); got != tt.out {
			t.Errorf("decodeEntities(%q) = %q, want %q", tt.in, got, tt.out)
		}
	}
}

func TestWordBufferSplit(t *testing.T) {
	w := newWordBuffer(8)
	for _, c := range []byte("abcdefж") {
		w.add(c)
	}
	if !w.full() {
		t.Fatal("buffer must be full")
	}
	if got := w.split(); got != "abcdefж" {
		t.Errorf("split() = %q", got)
	}

	// multibyte character crossing capacity stays whole
	for _, c := range []byte("abcdefgж") {
		if w.full() {
			if got := w.split(); got != "abcdefg" {
				t.Errorf("split() = %q, want abcdefg", got)
			}
		}
		w.add(c)
	}
	if got := w.take(); got != "ж" {
		t.Errorf("carried tail = %q, want ж", got)
	}
	if w.len() != 0 {
		t.Error("take() must empty buffer")
	}
}

func TestWordBufferSplitEntities(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"entity crosses capacity", "abcde&lt;f", []string{"abcde", "<f"}},
		{"entity name at the end", "abcdef&qu", []string{"abcdef", "&qu"}},
		{"double encoded", "abc&amp;lt;x", []string{"abc", "<", "x"}},
		{"double encoded entity name cut", "a&amp;&l;", []string{"a", "&&l;"}},
		{"terminated", "abcd&lt;x", []string{"abcd<", "x"}},
		{"ampersand in word", "xyzAT&Tab", []string{"xyzAT", "&Tab"}},
		{"no ampersand", "abcdefghij", []string{"abcdefgh", "ij"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWordBuffer(8)
			var got []string
			for _, c := range []byte(tt.in) {
				if w.full() {
					got = append(got, decodeEntities(w.split()))
				}
				w.add(c)
			}
			got = append(got, decodeEntities(w.take()))
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("pieces = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLabelBuffer(t *testing.T) {
	var l labelBuffer
	l.write([]byte(" [ 1 2 ] "))
	if got := l.String(); got != "12" {
		t.Errorf("label = %q, want 12", got)
	}

	var long labelBuffer
	for range 40 {
		long.write([]byte("ж"))
	}
	if got := long.String(); len(got) != 62 {
		t.Errorf("label length = %d, want 62", len(got))
	}
}

func TestIsExternal(t *testing.T) {
	tests := []struct {
		href string
		want bool
	}{
		{"#note", false},
		{"chapter2.xhtml#n1", false},
		{"../Text/notes.html", false},
		{"http://example.com", true},
		{"HTTPS://example.com", true},
		{"ftp://host/file", true},
		{"mailto:a@b.c", true},
		{"tel:123", true},
		{"sms:123", true},
		{"javascript:void(0)", true},
	}
	for _, tt := range tests {
		if got := isExternal(tt.href); got != tt.want {
			t.Errorf("isExternal(%q) = %v, want %v", tt.href, got, tt.want)
		}
	}
}
