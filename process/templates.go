package process

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"pager/layout"
)

//go:embed pages.tmpl
var defaultPageTemplate string

// PageValues describes a single page for template expansion.
type PageValues struct {
	Number    int
	Lines     []layout.PlacedLine
	Footnotes []layout.FootnoteEntry
}

// Values is a struct that holds variables we make available for page dump
// template expansion.
type Values struct {
	Source   string
	Chapter  string
	Language string
	Notes    string
	Cached   bool
	Pages    []PageValues
}

func buildPages(pages []*layout.Page) []PageValues {
	result := make([]PageValues, 0, len(pages))
	for i, p := range pages {
		result = append(result, PageValues{
			Number:    i + 1,
			Lines:     p.Lines,
			Footnotes: p.Footnotes,
		})
	}
	return result
}

// loadTemplate prepares page dump template, built-in one is used when path is
// empty.
func loadTemplate(path string) (*template.Template, error) {
	text := defaultPageTemplate
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read page template from %q: %w", path, err)
		}
		text = string(data)
	}
	tmpl, err := template.New("pages").Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("unable to parse page template: %w", err)
	}
	return tmpl, nil
}

func expandTemplate(w io.Writer, tmpl *template.Template, values *Values) error {
	if err := tmpl.Execute(w, values); err != nil {
		return fmt.Errorf("unable to expand page template: %w", err)
	}
	return nil
}
