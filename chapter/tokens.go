package chapter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"pager/common"
)

type tokenKind int

const (
	tokenStart tokenKind = iota
	tokenEnd
	tokenText
)

type attribute struct {
	name  string
	value string
}

// token is the markup event state machine consumes. Text is only valid
// until the next token is requested.
type token struct {
	kind  tokenKind
	name  string
	attrs []attribute
	text  []byte
}

func (t *token) attr(name string) (string, bool) {
	for _, a := range t.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// tokenSource produces markup events, io.EOF marks the end of input.
type tokenSource interface {
	next() (token, error)
}

func newTokenSource(mode common.MarkupMode, r *bufio.Reader, maxToken int) (tokenSource, error) {
	switch mode {
	case common.MarkupModeHtml:
		return newHTMLSource(r, maxToken)
	default:
		return newXMLSource(r), nil
	}
}

const (
	nsEPUB = "http://www.idpf.org/2007/ops"
	nsXML  = "http://www.w3.org/XML/1998/namespace"
)

type xmlSource struct {
	dec *xml.Decoder
}

// newXMLSource does not limit character data, long runs are bounded by the
// word accumulator and the proactive block flush.
func newXMLSource(r io.Reader) *xmlSource {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel
	return &xmlSource{dec: dec}
}

// attrName restores prefixes of attributes state machine is interested in.
func attrName(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case nsEPUB:
		return "epub:" + n.Local
	case nsXML:
		return "xml:" + n.Local
	}
	return n.Space + ":" + n.Local
}

func (s *xmlSource) next() (token, error) {
	for {
		tok, err := s.dec.Token()
		if err != nil {
			if se := (*xml.SyntaxError)(nil); errors.As(err, &se) {
				return token{}, fmt.Errorf("%w: line %d: %s", ErrSyntax, se.Line, se.Msg)
			}
			return token{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			out := token{kind: tokenStart, name: t.Name.Local}
			if len(t.Attr) > 0 {
				out.attrs = make([]attribute, 0, len(t.Attr))
				for _, a := range t.Attr {
					out.attrs = append(out.attrs, attribute{name: attrName(a.Name), value: a.Value})
				}
			}
			return out, nil
		case xml.EndElement:
			return token{kind: tokenEnd, name: t.Name.Local}, nil
		case xml.CharData:
			return token{kind: tokenText, text: t}, nil
		}
		// comments, processing instructions and directives carry no text
	}
}

// void elements never have content or end tags in HTML.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

type htmlSource struct {
	z          *html.Tokenizer
	maxToken   int
	pendingEnd string
}

var xmlEncoding = regexp.MustCompile(`^\s*(?:\x{FEFF})?<\?xml[^>]*encoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// contentType picks encoding hint for the sniffer. Documents which declare
// nothing are treated as UTF-8 rather than windows-1252.
func contentType(head []byte) string {
	if m := xmlEncoding.FindSubmatch(head); m != nil {
		return "text/html; charset=" + string(m[1])
	}
	if bytes.Contains(bytes.ToLower(head), []byte("charset")) {
		return "text/html"
	}
	return "text/html; charset=utf-8"
}

func newHTMLSource(r *bufio.Reader, maxToken int) (*htmlSource, error) {
	head, err := r.Peek(min(1024, r.Size()))
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}
	cr, err := charset.NewReader(r, contentType(head))
	if err != nil {
		return nil, fmt.Errorf("unable to determine document encoding: %w", err)
	}
	z := html.NewTokenizer(cr)
	if maxToken > 0 {
		z.SetMaxBuf(maxToken)
	}
	return &htmlSource{z: z, maxToken: maxToken}, nil
}

func (s *htmlSource) next() (token, error) {
	if s.pendingEnd != "" {
		name := s.pendingEnd
		s.pendingEnd = ""
		return token{kind: tokenEnd, name: name}, nil
	}
	for {
		switch tt := s.z.Next(); tt {
		case html.ErrorToken:
			err := s.z.Err()
			if errors.Is(err, html.ErrBufferExceeded) {
				return token{}, fmt.Errorf("%w: token exceeds %d bytes", ErrResources, s.maxToken)
			}
			return token{}, err
		case html.TextToken:
			return token{kind: tokenText, text: s.z.Text()}, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, more := s.z.TagName()
			out := token{kind: tokenStart, name: string(name)}
			for more {
				var k, v []byte
				k, v, more = s.z.TagAttr()
				out.attrs = append(out.attrs, attribute{name: string(k), value: string(v)})
			}
			if tt == html.SelfClosingTagToken || voidElements[out.name] {
				s.pendingEnd = out.name
			}
			return out, nil
		case html.EndTagToken:
			name, _ := s.z.TagName()
			if voidElements[string(name)] {
				// already closed when started
				continue
			}
			return token{kind: tokenEnd, name: string(name)}, nil
		}
	}
}

// chunkReader hands out source in chunks of limited size, counts consumed
// bytes and observes cancellation between chunks.
type chunkReader struct {
	ctx    context.Context
	r      io.Reader
	chunk  int
	read   int64
	onRead func(read int64)
}

func (cr *chunkReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	if len(p) > cr.chunk {
		p = p[:cr.chunk]
	}
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.read += int64(n)
		if cr.onRead != nil {
			cr.onRead(cr.read)
		}
	}
	return n, err
}

// progress reports percentage of consumed source whenever tens digit
// changes.
type progress struct {
	size   int64
	last   int
	report func(int)
}

func newProgress(size int64, report func(int)) *progress {
	return &progress{size: size, last: -1, report: report}
}

func (p *progress) update(read int64) {
	pct := int(min(read*100/p.size, 100))
	tens := pct / 10 * 10
	if tens > p.last {
		p.last = tens
		p.report(tens)
	}
}
