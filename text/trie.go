package text

import (
	"strings"
	"unicode"
)

// A trie uses runes rather than characters for indexing, therefore its child
// key values are integers.
type trie struct {
	leaf     bool           // whether the node is a leaf (the end of an input string).
	values   []int          // hyphenation values stored at this leaf node.
	children map[rune]*trie // a map of sub-tries for each child rune value.
}

func newTrie() *trie {
	return &trie{children: make(map[rune]*trie)}
}

// addRunes walks (and extends) the trie along s and returns the node at which
// the walk ends.
func (p *trie) addRunes(s string) *trie {
	for _, sym := range s {
		n := p.children[sym]
		if n == nil {
			n = newTrie()
			p.children[sym] = n
		}
		p = n
	}
	p.leaf = true
	return p
}

// addPatternString specialized function for TeX-style hyphenation patterns.
// Accepts strings of the form '.hy2p'. Digit following a letter is the value
// between that letter and the next one, leading digit is the value before the
// first letter.
func (p *trie) addPatternString(s string) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || strings.HasPrefix(s, "%") {
		return
	}

	const zero = '0'

	runes := []rune(s)
	v := make([]int, 0, len(runes))
	for i, sym := range runes {
		if unicode.IsDigit(sym) {
			if i == 0 {
				// This is a prefix number
				v = append(v, int(sym-zero))
			}
			// this is a number referring to the previous character, and has
			// already been handled
			continue
		}
		if i < len(runes)-1 && unicode.IsDigit(runes[i+1]) {
			v = append(v, int(runes[i+1]-zero))
		} else {
			// hyphenation for this char is an implied zero
			v = append(v, 0)
		}
	}

	pure := strings.Map(func(sym rune) rune {
		if unicode.IsDigit(sym) {
			return -1
		}
		return sym
	}, s)
	if len(pure) == 0 {
		return
	}
	p.addRunes(pure).values = v
}

// allSubstringsAndValues returns lengths (in runes) of all anchored substrings
// of the given string within the trie, with a matching set of their values.
func (p *trie) allSubstringsAndValues(s string) ([]int, [][]int) {
	var (
		lens []int
		vals [][]int
	)
	n := 0
	for _, sym := range s {
		child, ok := p.children[sym]
		if !ok {
			break
		}
		n++
		if child.leaf {
			lens = append(lens, n)
			vals = append(vals, child.values)
		}
		p = child
	}
	return lens, vals
}

// size counts all the nodes of the entire trie, NOT including the root node.
func (p *trie) size() (sz int) {
	sz = len(p.children)
	for _, child := range p.children {
		sz += child.size()
	}
	return
}
