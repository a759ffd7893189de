package notes

import (
	"strings"
	"unicode/utf8"
)

// Collector accumulates note body text with whitespace collapsed and
// control characters removed, up to a fixed number of bytes.
type Collector struct {
	buf       []byte
	limit     int
	truncated bool
}

func NewCollector(limit int) *Collector {
	return &Collector{buf: make([]byte, 0, min(limit, 256)), limit: limit}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Write appends character data. It never fails, text over the limit is
// dropped and reported by Truncated.
func (c *Collector) Write(data []byte) (int, error) {
	for _, b := range data {
		if len(c.buf) >= c.limit {
			c.truncated = true
			break
		}
		switch {
		case isSpace(b):
			if len(c.buf) > 0 && c.buf[len(c.buf)-1] != ' ' {
				c.buf = append(c.buf, ' ')
			}
		case b >= 32 && b != 127:
			c.buf = append(c.buf, b)
		}
	}
	return len(data), nil
}

func (c *Collector) Truncated() bool {
	return c.truncated
}

func (c *Collector) Len() int {
	return len(c.buf)
}

// String returns collected text without trailing space and without an
// incomplete UTF-8 sequence possibly left by truncation.
func (c *Collector) String() string {
	b := c.buf
	i := len(b) - 1
	for i >= 0 && i > len(b)-utf8.UTFMax && !utf8.RuneStart(b[i]) {
		i--
	}
	if i >= 0 && !utf8.FullRune(b[i:]) {
		b = b[:i]
	}
	return strings.TrimRight(string(b), " ")
}

func (c *Collector) Reset() {
	c.buf = c.buf[:0]
	c.truncated = false
}
