package text

import (
	"testing"
	"testing/fstest"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/language"
)

func TestDictionaries_For(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	fsys := fstest.MapFS{
		"hyph-en-us.pat.txt": &fstest.MapFile{Data: []byte(testPatterns)},
	}
	d := NewDictionaries(fsys, log)

	first := d.For(language.AmericanEnglish)
	if first == nil {
		t.Fatal("expected hyphenator for en-US")
	}
	if second := d.For(language.AmericanEnglish); second != first {
		t.Error("expected cached hyphenator to be reused")
	}
	if h := d.For(language.German); h != nil {
		t.Error("expected nil hyphenator for missing dictionary")
	}
	if len(d.loaded) != 2 {
		t.Errorf("expected negative lookup to be cached, have %d entries", len(d.loaded))
	}

	var nilDicts *Dictionaries
	if nilDicts.For(language.English) != nil {
		t.Error("nil Dictionaries must not return hyphenator")
	}
}
