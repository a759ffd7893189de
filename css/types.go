package css

import (
	"unicode"

	"pager/common"
)

// Value represents a parsed CSS property value.
type Value struct {
	Raw     string  // Original CSS value string (e.g., "1.2em", "bold", "#ff0000")
	Value   float64 // Numeric value if applicable
	Unit    string  // Unit if applicable: "em", "px", "%", "pt", etc.
	Keyword string  // Keyword if applicable: "bold", "italic", "center", etc.
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	// "0" has neither unit nor value
	if v.Raw != "" && v.Keyword == "" {
		firstChar := rune(v.Raw[0])
		if unicode.IsDigit(firstChar) || firstChar == '.' || firstChar == '-' || firstChar == '+' {
			return true
		}
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Declarations are properties of a single style attribute. Later
// declarations of the same property win.
type Declarations map[string]Value

func (d Declarations) keyword(name string) string {
	if v, ok := d[name]; ok {
		return v.Keyword
	}
	return ""
}

// Hidden reports display:none.
func (d Declarations) Hidden() bool {
	return d.keyword("display") == "none"
}

// Bold reports font-weight which should be rendered with bold face.
func (d Declarations) Bold() bool {
	v, ok := d["font-weight"]
	if !ok {
		return false
	}
	switch v.Keyword {
	case "bold", "bolder":
		return true
	case "":
		return v.IsNumeric() && v.Value >= 600
	}
	return false
}

// Italic reports font-style which should be rendered with italic face.
func (d Declarations) Italic() bool {
	switch d.keyword("font-style") {
	case "italic", "oblique":
		return true
	}
	return false
}

// Alignment returns paragraph alignment requested by text-align.
func (d Declarations) Alignment() (common.Alignment, bool) {
	switch d.keyword("text-align") {
	case "left", "start":
		return common.AlignmentLeft, true
	case "right", "end":
		return common.AlignmentRight, true
	case "center":
		return common.AlignmentCenter, true
	case "justify":
		return common.AlignmentJustified, true
	}
	return 0, false
}
