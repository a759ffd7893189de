package chapter

import (
	"slices"
	"testing"

	"pager/common"
)

func TestStyleScopes(t *testing.T) {
	doc := xhtml(`<p>plain <b>bold <i>both</i> bold2</b> <em>it</em>
<span style="font-weight: bold">sb</span> <span style="font-style:italic">si</span>
<span style="display:none">hidden <b>deep</b></span> <strong><strong>nested</strong> outer</strong> after</p>
<h2>Head <span>er</span></h2>`)

	out := mustParse(t, doc, nil)

	tests := []struct {
		text  string
		style common.FontStyle
	}{
		{"plain", common.FontStyleRegular},
		{"bold", common.FontStyleBold},
		{"both", common.FontStyleBoldItalic},
		{"bold2", common.FontStyleBold},
		{"it", common.FontStyleItalic},
		{"sb", common.FontStyleBold},
		{"si", common.FontStyleItalic},
		{"nested", common.FontStyleBold},
		{"outer", common.FontStyleBold},
		{"after", common.FontStyleRegular},
		{"Head", common.FontStyleBold},
		{"er", common.FontStyleBold},
	}
	for _, tt := range tests {
		w, ok := out.find(tt.text)
		if !ok {
			t.Errorf("word %q missing from %q", tt.text, out.texts())
			continue
		}
		if w.Style != tt.style {
			t.Errorf("%q style = %v, want %v", tt.text, w.Style, tt.style)
		}
	}
	for _, s := range []string{"hidden", "deep", "Chapter", "title"} {
		if _, ok := out.find(s); ok {
			t.Errorf("skipped text %q was rendered", s)
		}
	}
}

func TestBlocks(t *testing.T) {
	doc := xhtml(`<h1>Title</h1>
<p>First line<br/>second line</p>
<ul><li>one</li><li>two</li></ul>
<blockquote>quote</blockquote>
<p style="text-align: right">right</p>
<div epub:type="pagebreak" title="12">12</div><span role="doc-pagebreak">13</span>
<script>var x = 1;</script><style>p { color: red }</style>
<p>end</p>`)

	out := mustParse(t, doc, func(o *Options) {
		o.FirstLineIndent = 4
		o.ExtraParagraphSpacing = true
		o.Height = 1000
	})

	want := []string{"Title", "First line", "second line", "• one", "• two", "quote", "right", "end"}
	if got := out.lines(); !slices.Equal(got, want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}

	lines := out.pages[0].Lines
	if lines[0].Alignment != common.AlignmentCenter {
		t.Errorf("header alignment = %v", lines[0].Alignment)
	}
	if lines[1].XPos[0] != 4 {
		t.Errorf("paragraph indent = %d, want 4", lines[1].XPos[0])
	}
	// line break continues paragraph without indent and spacing
	if lines[2].XPos[0] != 0 {
		t.Errorf("continuation indent = %d, want 0", lines[2].XPos[0])
	}
	if lines[2].Y-lines[1].Y != 10 {
		t.Errorf("continuation spacing = %d, want 10", lines[2].Y-lines[1].Y)
	}
	// paragraph spacing is half a line
	if lines[3].Y-lines[2].Y != 15 {
		t.Errorf("paragraph spacing = %d, want 15", lines[3].Y-lines[2].Y)
	}
	if lines[6].Alignment != common.AlignmentRight {
		t.Errorf("inline text-align = %v", lines[6].Alignment)
	}
	if w := lines[3].Words[0]; w.Style != common.FontStyleRegular {
		t.Errorf("bullet style = %v", w.Style)
	}
}

func TestAnchors(t *testing.T) {
	doc := xhtml(`<h1 id="top">Title</h1>
<p id="p1"><span id="s1"></span>Body<a id="ref1" href="#n1">1</a></p>
<table id="t1"><tr><td>x</td></tr></table>
<p>` + repeatWords(300) + `</p>
<p id="last">Tail</p>
<aside epub:type="footnote" id="n1">Note</aside>`)

	out := mustParse(t, doc, nil)
	if len(out.pages) < 2 {
		t.Fatalf("expected several pages, got %d", len(out.pages))
	}

	w, _ := out.find("Body")
	if !slices.Equal(w.Anchors, []string{"p1", "s1"}) {
		t.Errorf("Body anchors = %q", w.Anchors)
	}
	if w, _ := out.find("[1]"); !slices.Equal(w.Anchors, []string{"ref1"}) {
		t.Errorf("noteref anchors = %q", w.Anchors)
	}
	if w, _ := out.find("[Table omitted]"); !slices.Equal(w.Anchors, []string{"t1"}) {
		t.Errorf("placeholder anchors = %q", w.Anchors)
	}
	first, last := out.pages[0], out.pages[len(out.pages)-1]
	for _, id := range []string{"top", "p1", "s1", "ref1", "t1"} {
		if !first.HasAnchor(id) {
			t.Errorf("anchor %q not on first page", id)
		}
	}
	if !last.HasAnchor("last") || first.HasAnchor("last") {
		t.Error("anchor of last paragraph is misplaced")
	}
	if first.HasAnchor("n1") {
		t.Error("anchor inside skipped footnote must not be registered")
	}
}

func repeatWords(n int) string {
	b := make([]byte, 0, n*5)
	for range n {
		b = append(b, "word "...)
	}
	return string(b)
}

func TestWordAccumulation(t *testing.T) {
	doc := xhtml("<p>a\uFEFFb &amp;lt;tag&amp;gt; x&amp;amp;y &quot;q&quot; wo<!-- comment -->rd&nbsp;nbsp</p>")
	out := mustParse(t, doc, nil)

	want := []string{"ab", "<tag>", "x&y", `"q"`, "word\u00a0nbsp"}
	if got := out.texts(); !slices.Equal(got, want) {
		t.Errorf("words = %q, want %q", got, want)
	}
}

func TestDocumentLanguage(t *testing.T) {
	tests := []struct {
		doc  string
		lang string
	}{
		{`<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="ru-RU" lang="ru"><body/></html>`, "ru-RU"},
		{`<html lang="de"><body/></html>`, "de"},
		{`<html><body lang="fr"/></html>`, ""},
	}
	for _, tt := range tests {
		out := mustParse(t, tt.doc, nil)
		if out.res.Language != tt.lang {
			t.Errorf("Language = %q, want %q", out.res.Language, tt.lang)
		}
	}
}

func TestNoteCollection(t *testing.T) {
	long := repeatWords(600)
	doc := xhtml(`<aside epub:type="footnote" id="a1"><p>Line
	one</p> <p>two <b>bold</b></p></aside>
<aside epub:type="footnote">no id</aside>
<aside epub:type="rearnote" id="a2">not a footnote</aside>
<aside epub:type="footnote" id="a3">` + long + `</aside>
<aside epub:type="footnote" id="a1">duplicate</aside>`)

	out := mustParse(t, doc, nil)
	tbl := out.res.Notes
	if tbl.InlineCount() != 2 {
		t.Fatalf("InlineCount() = %d, want 2", tbl.InlineCount())
	}
	if n, _ := tbl.Inline("a1"); n.Text != "Line one two bold" {
		t.Errorf("a1 = %q", n.Text)
	}
	if n, _ := tbl.Inline("a3"); len(n.Text) > 2048 {
		t.Errorf("a3 length = %d, want at most 2048", len(n.Text))
	}
	// non footnote aside is regular content
	if _, ok := out.find("footnote"); !ok {
		t.Errorf("rearnote aside content missing: %q", out.texts())
	}
	if _, ok := out.find("duplicate"); ok {
		t.Error("footnote aside content must not be rendered")
	}
}
