package chapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"go.uber.org/zap/zaptest"
	"golang.org/x/text/language"

	"pager/common"
	"pager/layout"
	"pager/metrics"
	"pager/text"
)

func TestForwardReference(t *testing.T) {
	doc := xhtml(`<p>Text<a href="#X">1</a> more.</p>
<aside epub:type="footnote" id="X"><p>Note   body</p></aside>`)

	var refs []layout.FootnoteEntry
	out := mustParse(t, doc, nil, WithNoterefs(func(e layout.FootnoteEntry) {
		refs = append(refs, e)
	}))

	if got, want := out.texts(), []string{"Text", "[1]", "more."}; !slices.Equal(got, want) {
		t.Fatalf("words = %q, want %q", got, want)
	}
	w, _ := out.find("[1]")
	if w.Footnote == nil {
		t.Fatal("note reference has no footnote attached")
	}
	want := layout.FootnoteEntry{Number: "1", Href: "inline_X.html#X", Inline: true}
	if *w.Footnote != want {
		t.Errorf("footnote = %+v, want %+v", *w.Footnote, want)
	}
	if got := out.footnotes(); len(got) != 1 || got[0] != want {
		t.Errorf("page footnotes = %+v", got)
	}
	if len(refs) != 1 || refs[0] != want {
		t.Errorf("noteref callback got %+v", refs)
	}

	if out.res.InlineNotes != 1 || out.res.Noterefs != 1 {
		t.Errorf("result = %+v", out.res)
	}
	note, ok := out.res.Notes.Inline("X")
	if !ok || note.Text != "Note body" {
		t.Errorf("inline note = %+v, %v", note, ok)
	}
}

func TestFallbackReference(t *testing.T) {
	doc := xhtml(`<p>One<a href="#Z">2</a> two<a href="notes.xhtml#Q">[3]</a></p>`)

	out := mustParse(t, doc, nil)
	got := out.footnotes()
	want := []layout.FootnoteEntry{
		{Number: "2", Href: "#Z"},
		{Number: "3", Href: "notes.xhtml#Q"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("footnotes = %+v, want %+v", got, want)
	}
	if _, ok := out.find("[3]"); !ok {
		t.Errorf("brackets in label must not be doubled: %q", out.texts())
	}
}

func TestNoterefModes(t *testing.T) {
	doc := xhtml(`<p>See <a href="#n1">1</a> and <a epub:type="noteref" href="#n1">2</a>
<a class="x noteref" href="#n1">3</a> <a role="doc-noteref" href="#n1">4</a>
<a href="http://example.com/">site</a> <a href="javascript:void(0)">js</a> <a href="">empty</a></p>
<aside epub:type="footnote" id="n1">Body</aside>`)

	t.Run("permissive", func(t *testing.T) {
		out := mustParse(t, doc, nil)
		want := []string{"See", "[1]", "and", "[2]", "[3]", "[4]", "site", "js", "empty"}
		if got := out.texts(); !slices.Equal(got, want) {
			t.Errorf("words = %q, want %q", got, want)
		}
	})

	t.Run("strict", func(t *testing.T) {
		out := mustParse(t, doc, func(o *Options) { o.Noterefs = common.NoterefModeStrict })
		want := []string{"See", "1", "and", "[2]", "[3]", "[4]", "site", "js", "empty"}
		if got := out.texts(); !slices.Equal(got, want) {
			t.Errorf("words = %q, want %q", got, want)
		}
		if out.res.Noterefs != 3 {
			t.Errorf("Noterefs = %d, want 3", out.res.Noterefs)
		}
	})
}

func TestParagraphNotes(t *testing.T) {
	doc := xhtml(`<p>Ref<a href="#rnote1">*</a> own<a href="#own">**</a></p>
<p class="note"><a id="rnote1"></a>First note</p>
<p class="small note" id="own">Second note</p>
<p class="note">No id</p>`)

	out := mustParse(t, doc, nil)
	if out.res.ParagraphNotes != 2 {
		t.Fatalf("ParagraphNotes = %d, want 2", out.res.ParagraphNotes)
	}
	got := out.footnotes()
	want := []layout.FootnoteEntry{
		{Number: "*", Href: "pnote_rnote1.html#rnote1", Inline: true},
		{Number: "**", Href: "pnote_own.html#own", Inline: true},
	}
	if !slices.Equal(got, want) {
		t.Errorf("footnotes = %+v, want %+v", got, want)
	}
	// paragraph notes stay in the text
	for _, s := range []string{"First", "Second", "No"} {
		if _, ok := out.find(s); !ok {
			t.Errorf("word %q missing", s)
		}
	}
	if n, _ := out.res.Notes.Paragraph("rnote1"); n.Text != "First note" {
		t.Errorf("paragraph note text = %q", n.Text)
	}
}

func TestLongRunIsSplit(t *testing.T) {
	for _, run := range []string{strings.Repeat("x", 10000), strings.Repeat("ж", 5000)} {
		t.Run(run[:2], func(t *testing.T) {
			out := mustParse(t, xhtml("<p>"+run+"</p>"), nil)

			var sb strings.Builder
			for _, pg := range out.pages {
				for _, l := range pg.Lines {
					if l.Width > 80 {
						t.Fatalf("line %q is %d wide", l.Text(), l.Width)
					}
					for _, w := range l.Words {
						sb.WriteString(w.Text)
					}
				}
			}
			if sb.String() != run {
				t.Errorf("concatenated words differ from original run (%d vs %d bytes)", sb.Len(), len(run))
			}
		})
	}
}

func TestLongRunOfEntities(t *testing.T) {
	// every "&lt;" reaches word accumulator still encoded once, some of them
	// cross word capacity
	for _, prefix := range []string{"", "x", "xy", "xyz"} {
		t.Run("offset "+prefix, func(t *testing.T) {
			out := mustParse(t, xhtml("<p>"+prefix+strings.Repeat("&amp;lt;", 3000)+"</p>"), nil)
			if got, want := strings.Join(out.texts(), ""), prefix+strings.Repeat("<", 3000); got != want {
				t.Errorf("decoded run differs (%d vs %d bytes)", len(got), len(want))
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	doc := xhtml(`<p>Before</p>
<table><tr><td>Cell text</td></tr><tr><td><table><tr><td>Inner</td></tr></table></td></tr></table>
<p>After <img src="a.png" alt="A picture"/> end</p>
<div><img src="b.png"/></div>`)

	out := mustParse(t, doc, nil)
	want := []string{"Before", "[Table omitted]", "After", "[Image: A picture]", "end", "[Image]"}
	if got := out.texts(); !slices.Equal(got, want) {
		t.Fatalf("words = %q, want %q", got, want)
	}
	for _, text := range []string{"[Table omitted]", "[Image: A picture]", "[Image]"} {
		w, _ := out.find(text)
		if !w.Style.IsItalic() {
			t.Errorf("%q style = %v, want italic", text, w.Style)
		}
	}
	for _, pg := range out.pages {
		for _, l := range pg.Lines {
			if strings.HasPrefix(l.Text(), "[") && l.Alignment != common.AlignmentCenter {
				t.Errorf("placeholder line %q alignment = %v", l.Text(), l.Alignment)
			}
		}
	}
}

func TestMarkupModes(t *testing.T) {
	doc := `<html><body><p><b>text</p></b><p>one<br>two<p>three &amp;lt;</body></html>`

	out := parseDoc(t, doc, nil)
	if !errors.Is(out.err, ErrSyntax) {
		t.Fatalf("xhtml error = %v, want ErrSyntax", out.err)
	}
	if len(out.pages) != 0 {
		t.Errorf("%d pages emitted for failed chapter", len(out.pages))
	}

	out = mustParse(t, doc, func(o *Options) { o.Markup = common.MarkupModeHtml })
	if got, want := out.lines(), []string{"text", "one", "two", "three <"}; !slices.Equal(got, want) {
		t.Errorf("html lines = %q, want %q", got, want)
	}
}

func TestHTMLCharset(t *testing.T) {
	// "привет" in windows-1251
	body := []byte{0xEF, 0xF0, 0xE8, 0xE2, 0xE5, 0xF2}

	t.Run("meta", func(t *testing.T) {
		doc := `<html><head><meta charset="windows-1251"></head><body><p>` + string(body) + `</p></body></html>`
		out := mustParse(t, doc, func(o *Options) { o.Markup = common.MarkupModeHtml })
		if got := out.texts(); !slices.Equal(got, []string{"привет"}) {
			t.Errorf("words = %q", got)
		}
	})

	t.Run("xml declaration", func(t *testing.T) {
		doc := `<?xml version="1.0" encoding="windows-1251"?><html><body><p>` + string(body) + `</p></body></html>`
		out := mustParse(t, doc, nil)
		if got := out.texts(); !slices.Equal(got, []string{"привет"}) {
			t.Errorf("words = %q", got)
		}
	})

	t.Run("undeclared is utf-8", func(t *testing.T) {
		doc := `<html><body><p>` + strings.Repeat("a ", 600) + `привет</p></body></html>`
		out := mustParse(t, doc, func(o *Options) { o.Markup = common.MarkupModeHtml })
		if _, ok := out.find("привет"); !ok {
			t.Error("utf-8 text past sniffing window was not decoded")
		}
	})
}

func TestResourceLimits(t *testing.T) {
	// only html tokenizer buffers whole tokens, a huge tag exceeds the ceiling
	doc := xhtml(`<p title="` + strings.Repeat("x", 5000) + `">text</p>`)
	out := parseDoc(t, doc, func(o *Options) {
		o.Markup = common.MarkupModeHtml
		o.MaxTokenBytes = 4096
	})
	if !errors.Is(out.err, ErrResources) {
		t.Errorf("error = %v, want ErrResources", out.err)
	}

	// xhtml mode does not use the ceiling at all
	long := xhtml("<p>" + strings.Repeat("word ", 2000) + "</p>")
	out = mustParse(t, long, func(o *Options) { o.MaxTokenBytes = 4096 })
	if got := len(out.words()); got != 2000 {
		t.Errorf("words = %d, want 2000", got)
	}
}

func TestParagraphLongerThanChunks(t *testing.T) {
	words := make([]string, 12000)
	for i := range words {
		words[i] = fmt.Sprintf("w%05d", i)
	}
	doc := xhtml("<p>" + strings.Join(words, " ") + "</p>")
	if len(doc) <= 64*1024 {
		t.Fatalf("document is only %d bytes", len(doc))
	}

	for _, mode := range []common.MarkupMode{common.MarkupModeXhtml, common.MarkupModeHtml} {
		t.Run(mode.String(), func(t *testing.T) {
			out := mustParse(t, doc, func(o *Options) { o.Markup = mode })
			if out.res.ProactiveFlushes < 1 {
				t.Error("long paragraph was not laid out early")
			}
			texts := out.texts()
			if len(texts) != len(words) {
				t.Fatalf("words = %d, want %d", len(texts), len(words))
			}
			for i := range words {
				if texts[i] != words[i] {
					t.Fatalf("word %d = %q, want %q", i, texts[i], words[i])
				}
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var sb strings.Builder
	for sb.Len() < 60*1024 {
		sb.WriteString("<p>lorem ipsum dolor sit amet, consectetur adipiscing elit</p>\n")
	}
	big := xhtml(sb.String())

	var reported []int
	mustParse(t, big, nil, WithProgress(func(pct int) { reported = append(reported, pct) }))

	if len(reported) == 0 {
		t.Fatal("no progress reported for large chapter")
	}
	if reported[len(reported)-1] != 100 {
		t.Errorf("last progress = %d, want 100", reported[len(reported)-1])
	}
	for i, pct := range reported {
		if pct%10 != 0 || (i > 0 && pct <= reported[i-1]) {
			t.Fatalf("progress %v is not increasing by tens", reported)
		}
	}

	reported = nil
	mustParse(t, xhtml("<p>small</p>"), nil, WithProgress(func(pct int) { reported = append(reported, pct) }))
	if len(reported) != 0 {
		t.Errorf("progress reported for small chapter: %v", reported)
	}
}

func TestSingleLongParagraph(t *testing.T) {
	words := make([]string, 2000)
	for i := range words {
		words[i] = fmt.Sprintf("w%03d", i%1000)
	}
	doc := xhtml("<p>" + strings.Join(words, " ") + "</p>")

	// 15 four letter words with spaces take 74 pixels, 16 would take 79
	out := mustParse(t, doc, func(o *Options) {
		o.Width = 76
		o.Height = 200
	})

	if len(out.pages) != 7 || out.res.Pages != 7 {
		t.Fatalf("pages = %d (result %d), want 7", len(out.pages), out.res.Pages)
	}
	if out.res.ProactiveFlushes < 1 {
		t.Error("long paragraph was not laid out early")
	}
	total := 0
	for i, pg := range out.pages {
		if len(pg.Lines) > 20 {
			t.Errorf("page %d has %d lines", i, len(pg.Lines))
		}
		for _, l := range pg.Lines {
			if l.Width > 76 {
				t.Errorf("line %q is %d wide", l.Text(), l.Width)
			}
			if l.Y+10 > 200 {
				t.Errorf("line at %d does not fit page", l.Y)
			}
			total += len(l.Words)
		}
	}
	if total != 2000 {
		t.Errorf("%d words placed, want 2000", total)
	}
	if got := len(out.pages[0].Lines[0].Words); got != 15 {
		t.Errorf("first line has %d words, want 15", got)
	}
}

func TestEarlyLayoutMatchesFullLayout(t *testing.T) {
	words := make([]string, 500)
	for i := range words {
		words[i] = strings.Repeat("abcdefg", 2)[:1+i%11]
	}
	doc := xhtml(`<p>` + strings.Join(words, " ") + `</p>`)
	mutate := func(o *Options) {
		o.FirstLineIndent = 6
		o.ParagraphAlignment = common.AlignmentJustified
	}

	full := mustParse(t, doc, mutate)
	early := mustParse(t, doc, func(o *Options) {
		mutate(o)
		o.MaxBlockWords = 40
	})

	if early.res.ProactiveFlushes == 0 {
		t.Fatal("no early layout happened")
	}
	if !reflect.DeepEqual(full.pages, early.pages) {
		t.Errorf("early layout changed pagination:\n%v\nvs\n%v", full.lines(), early.lines())
	}
}

func TestIdempotence(t *testing.T) {
	doc := xhtml(`<h1 id="c1">Chapter <em>One</em></h1>
<p>Some <b>bold</b> text<a href="#n1">1</a> with a reference and enough words to wrap over several lines of the page.</p>
<ul><li>first</li><li>second</li></ul>
<aside epub:type="footnote" id="n1">The note.</aside>`)

	mutate := func(o *Options) {
		o.Width = 30
		o.Height = 40
		o.ExtraParagraphSpacing = true
		o.ParagraphAlignment = common.AlignmentJustified
	}
	first := mustParse(t, doc, mutate)
	second := mustParse(t, doc, mutate)
	if !reflect.DeepEqual(first.pages, second.pages) {
		t.Error("pagination differs between runs")
	}
	if len(first.pages) < 2 {
		t.Errorf("expected several pages, got %d", len(first.pages))
	}
}

func TestEmptyAndMissingChapter(t *testing.T) {
	out := mustParse(t, xhtml(""), nil)
	if len(out.pages) != 0 || out.res.Pages != 0 {
		t.Errorf("empty chapter produced %d pages", len(out.pages))
	}

	p := New(fstest.MapFS{}, "missing.xhtml", testOptions(), nil, zaptest.NewLogger(t))
	if _, err := p.ParseAndBuildPages(context.Background()); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want fs.ErrNotExist", err)
	}
}

func TestCancellation(t *testing.T) {
	fsys := fstest.MapFS{"c.xhtml": &fstest.MapFile{Data: []byte(xhtml("<p>text</p>"))}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	p := New(fsys, "c.xhtml", testOptions(), func(*layout.Page) { called = true }, zaptest.NewLogger(t))
	if _, err := p.ParseAndBuildPages(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if called {
		t.Error("page emitted for cancelled load")
	}
}

func TestHyphenationFromDictionary(t *testing.T) {
	dicts := text.NewDictionaries(fstest.MapFS{
		"hyph-en-us.pat.txt": &fstest.MapFile{Data: []byte("hy3ph he2n hena4 hen5at 1na n2at 1tio 2io o2n")},
	}, zaptest.NewLogger(t))

	out := mustParse(t, xhtml("<p>hyphenation</p>"), func(o *Options) {
		o.Width = 8
		o.Hyphenation = true
		o.Dictionaries = dicts
	})
	if got, want := out.lines(), []string{"hyphen-", "ation"}; !slices.Equal(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}

	// no dictionary for declared language and fallback, forced break
	out = mustParse(t, `<html xml:lang="fr"><body><p>hyphenation</p></body></html>`, func(o *Options) {
		o.Width = 8
		o.Hyphenation = true
		o.Dictionaries = dicts
		o.Language = language.German
	})
	if out.res.Language != "fr" {
		t.Errorf("Language = %q, want fr", out.res.Language)
	}
	if got, want := out.lines(), []string{"hyphenat", "ion"}; !slices.Equal(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	opts.sanitize()
	if opts.ChunkSize != 1024 || opts.MaxWordBytes != 200 || opts.MaxBlockWords != 750 {
		t.Errorf("sanitize() = %+v", opts)
	}
	if opts.Metrics == nil {
		t.Error("metrics provider not defaulted")
	}
	if _, ok := opts.Metrics.(*metrics.Faces); !ok {
		t.Errorf("default metrics = %T", opts.Metrics)
	}
}
