// Package text provides TeX-style (Liang) hyphenation for multiple languages.
package text

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Some languages require additional specification.
var langMap = map[string]string{
	"de":    "de-1901",
	"de-de": "de-1901",
	"de-at": "de-1996",
	"de-ch": "de-ch-1901",
	"el":    "el-monoton",
	"el-gr": "el-monoton",
	"en":    "en-us",
	"mn":    "mn-cyrl",
	"sh":    "sh-latn",
	"sr":    "sr-cyrl",
	"zh":    "zh-latn-pinyin",
}

// Hyphenator finds hyphenation points in words of a single language.
type Hyphenator struct {
	patterns   *trie
	exceptions map[string][]int
	language   string
}

func readDictionary(fsys fs.FS, name string) ([]byte, error) {
	if data, err := fs.ReadFile(fsys, name); err == nil {
		return data, nil
	}
	f, err := fsys.Open(name + ".gz")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func tryLoadDictionary(fsys fs.FS, name, suffix string) ([]byte, error) {
	return readDictionary(fsys, fmt.Sprintf("hyph-%s.%s.txt", name, suffix))
}

// NewHyphenator loads hyphenation dictionary for specified language from
// fsys. It returns nil when no suitable dictionary could be found, nil
// Hyphenator is valid and never reports any hyphenation points.
func NewHyphenator(fsys fs.FS, lang language.Tag, log *zap.Logger) *Hyphenator {
	if log == nil {
		log = zap.NewNop()
	}
	if fsys == nil {
		log.Debug("No hyphenation dictionaries configured", zap.Stringer("language", lang))
		return nil
	}

	var (
		langName     string
		dataPatterns []byte
		err          error
	)

	attempt := func(name string) bool {
		if dataPatterns, err = tryLoadDictionary(fsys, name, "pat"); err == nil {
			langName = name
			return true
		}
		return false
	}

	name := strings.ToLower(lang.String())
	if !attempt(name) {
		if mapped, ok := langMap[name]; !ok || !attempt(mapped) {
			base, confidence := lang.Base()
			if confidence != language.No {
				name = strings.ToLower(base.String())
				if !attempt(name) {
					if mapped, ok := langMap[name]; ok {
						attempt(mapped)
					}
				}
			} else {
				log.Warn("Unable to determine language base", zap.Stringer("tag", lang), zap.Stringer("base", base))
			}
		}
	}

	if langName == "" {
		log.Warn("Unable to find suitable hyphenation dictionary, turning off hyphenation", zap.Stringer("language", lang))
		return nil
	}

	dataExceptions, err := tryLoadDictionary(fsys, langName, "hyp")
	if err != nil {
		log.Debug("No exceptions dictionary found, leaving empty", zap.Stringer("tag", lang), zap.String("name", langName))
		dataExceptions = nil
	}

	h, err := LoadHyphenator(langName, strings.NewReader(string(dataPatterns)), strings.NewReader(string(dataExceptions)))
	if err != nil {
		log.Warn("Unable to load hyphenation dictionary", zap.Stringer("tag", lang), zap.Error(err))
		return nil
	}
	log.Debug("Hyphenation dictionary loaded", zap.Stringer("tag", lang), zap.String("name", langName))
	return h
}

// LoadHyphenator builds hyphenator from TeX patterns and exceptions (one
// entry per line, exceptions are words with hyphens at allowed points).
func LoadHyphenator(name string, patterns, exceptions io.Reader) (*Hyphenator, error) {
	h := &Hyphenator{
		patterns:   newTrie(),
		exceptions: make(map[string][]int, 20),
		language:   name,
	}

	scanner := bufio.NewScanner(patterns)
	for scanner.Scan() {
		for _, p := range strings.Fields(scanner.Text()) {
			h.patterns.addPatternString(p)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read patterns for %s: %w", name, err)
	}
	if h.patterns.size() == 0 {
		return nil, fmt.Errorf("no patterns found for %s", name)
	}

	if exceptions != nil {
		scanner = bufio.NewScanner(exceptions)
		for scanner.Scan() {
			for _, str := range strings.Fields(scanner.Text()) {
				h.addException(str)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("unable to read exceptions for %s: %w", name, err)
		}
	}
	return h, nil
}

func (h *Hyphenator) addException(str string) {
	var (
		key    []rune
		points []int
	)
	for _, sym := range strings.ToLower(str) {
		if sym == '-' {
			if len(key) > 0 {
				points = append(points, len(key)-1)
			}
			continue
		}
		key = append(key, sym)
	}
	if len(key) > 0 {
		h.exceptions[string(key)] = points
	}
}

// Language returns name of the loaded dictionary.
func (h *Hyphenator) Language() string {
	if h == nil {
		return ""
	}
	return h.language
}

// points returns rune indexes after which word could be hyphenated. Word is
// expected to be lower case letters only.
func (h *Hyphenator) points(word []rune) []int {
	if exc, ok := h.exceptions[string(word)]; ok {
		return exc
	}

	test := "." + string(word) + "."
	v := make([]int, len(word)+2)

	vIndex := 0
	for pos := range test {
		lens, values := h.patterns.allSubstringsAndValues(test[pos:])
		for i, l := range lens {
			val := values[i]
			start := vIndex - (len(val) - l)
			if start < 0 {
				continue
			}
			for j, x := range val {
				if start+j < len(v) && x > v[start+j] {
					v[start+j] = x
				}
			}
		}
		vIndex++
	}

	// trim the values for the beginning and ending dots
	markers := v[1 : len(v)-1]
	var res []int
	// don't hyphenate between (or after) first two and the last two characters of a string
	for m := 1; m < len(markers)-2; m++ {
		// hyphens are inserted on odd values, skipped on even ones
		if markers[m]%2 != 0 {
			res = append(res, m)
		}
	}
	return res
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Mn, r)
}

// Breakpoints returns byte offsets in word where it could be split: the
// prefix word[:offset] gets a hyphen, remainder goes to the next line.
// Offsets after an existing hard hyphen are reported as well. Surrounding
// punctuation is never part of the hyphenated letters.
func (h *Hyphenator) Breakpoints(word string) []int {
	if h == nil || len(word) == 0 {
		return nil
	}

	var res []int

	// offsets of runes in the current run of letters
	var (
		offsets []int
		letters []rune
	)
	flush := func() {
		if len(letters) >= 4 {
			for _, m := range h.points(letters) {
				if m+1 < len(offsets) {
					res = append(res, offsets[m+1])
				}
			}
		}
		offsets, letters = offsets[:0], letters[:0]
	}

	for i, sym := range word {
		if isWordRune(sym) {
			offsets = append(offsets, i)
			letters = append(letters, unicode.ToLower(sym))
			continue
		}
		flush()
		if sym == '-' && i > 0 && i < len(word)-1 {
			res = append(res, i+1)
		}
	}
	flush()

	slices.Sort(res)
	return slices.Compact(res)
}

// Hyphenate inserts hyphen at every hyphenation point of a single word.
func (h *Hyphenator) Hyphenate(word, hyphen string) string {
	points := h.Breakpoints(word)
	if len(points) == 0 {
		return word
	}
	var sb strings.Builder
	last := 0
	for _, p := range points {
		sb.WriteString(word[last:p])
		if !strings.HasSuffix(word[:p], "-") {
			sb.WriteString(hyphen)
		}
		last = p
	}
	sb.WriteString(word[last:])
	return sb.String()
}
