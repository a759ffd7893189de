// Package common keeps enumerations shared by configuration and the layout
// engine, so that neither has to import the other.
package common

//go:generate go tool go-enum --marshal --names --mustparse

// Font style of a single word.
// ENUM(regular, bold, italic, bold-italic)
type FontStyle int

// StyleOf combines active bold and italic scopes.
func StyleOf(bold, italic bool) FontStyle {
	switch {
	case bold && italic:
		return FontStyleBoldItalic
	case bold:
		return FontStyleBold
	case italic:
		return FontStyleItalic
	default:
		return FontStyleRegular
	}
}

func (x FontStyle) IsBold() bool {
	return x == FontStyleBold || x == FontStyleBoldItalic
}

func (x FontStyle) IsItalic() bool {
	return x == FontStyleItalic || x == FontStyleBoldItalic
}

// Paragraph alignment of a text block.
// ENUM(justified, left, center, right)
type Alignment int

// How anchors are recognized as footnote references.
// ENUM(permissive, strict)
type NoterefMode int

// Which tokenizer handles chapter markup.
// ENUM(xhtml, html)
type MarkupMode int
