package xmlpatch

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// TokenKind classifies the structural tokens of a document.
type TokenKind int

const (
	// TokenStart is an element-open tag: <tag attr="v">.
	TokenStart TokenKind = iota
	// TokenEnd is an element-close tag: </tag>.
	TokenEnd
	// TokenEmpty is a fused open+close tag: <tag attr="v"/>.
	TokenEmpty
	// TokenText is character data between tags.
	TokenText
	// TokenOther is anything passed through verbatim: the XML declaration,
	// processing instructions, comments, directives.
	TokenOther
)

// Attr is a single attribute in document order.
type Attr struct {
	Name  string
	Value string
}

// Token is one structural event plus the exact source bytes it was parsed
// from. Emitting Raw unmodified is what gives the patcher its byte-for-byte
// preservation guarantee for everything it does not touch.
type Token struct {
	Kind  TokenKind
	Name  string
	Attrs []Attr
	Text  string
	Raw   []byte
}

// tokenizer wraps encoding/xml's raw event stream with source byte offsets so
// untouched tokens can be copied through verbatim.
type tokenizer struct {
	dec *xml.Decoder
	src []byte
	off int64
}

func newTokenizer(src []byte) (*tokenizer, error) {
	if !utf8.Valid(src) {
		return nil, fmt.Errorf("document is not valid UTF-8")
	}
	return &tokenizer{
		dec: xml.NewDecoder(bytes.NewReader(src)),
		src: src,
	}, nil
}

// next returns the next token, or io.EOF at end of input.
func (t *tokenizer) next() (Token, error) {
	tok, err := t.dec.RawToken()
	if err != nil {
		if err == io.EOF {
			return Token{}, io.EOF
		}
		return Token{}, err
	}

	start := t.off
	t.off = t.dec.InputOffset()
	raw := t.src[start:t.off]

	switch v := tok.(type) {
	case xml.StartElement:
		out := Token{
			Kind:  TokenStart,
			Name:  rawName(v.Name),
			Attrs: rawAttrs(v.Attr),
			Raw:   raw,
		}
		if isSelfClosing(raw) {
			// The decoder reports <tag/> as a start element followed by a
			// synthetic end element that consumes no input. Swallow it and
			// report a single empty-element token.
			if _, err := t.dec.RawToken(); err != nil {
				return Token{}, err
			}
			t.off = t.dec.InputOffset()
			out.Kind = TokenEmpty
		}
		return out, nil
	case xml.EndElement:
		return Token{Kind: TokenEnd, Name: rawName(v.Name), Raw: raw}, nil
	case xml.CharData:
		return Token{Kind: TokenText, Text: string(v), Raw: raw}, nil
	default:
		return Token{Kind: TokenOther, Raw: raw}, nil
	}
}

// isSelfClosing reports whether an element's source text ends in "/>".
func isSelfClosing(raw []byte) bool {
	trimmed := bytes.TrimRight(raw, " \t\r\n")
	return bytes.HasSuffix(trimmed, []byte("/>"))
}

// rawName reassembles a possibly prefixed name; RawToken splits "a:b" into
// Space "a" and Local "b" without resolving anything.
func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func rawAttrs(attrs []xml.Attr) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(attrs))
	for i, a := range attrs {
		out[i] = Attr{Name: rawName(a.Name), Value: a.Value}
	}
	return out
}

// attrValue returns the value of the named attribute, or "" if absent.
func attrValue(attrs []Attr, name string) string {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// writeElement serializes an element tag with the given attribute overrides.
// Attributes keep their original order; attributes not named in set keep
// their original values. Overrides never add attributes that were not
// already present.
func writeElement(buf *bytes.Buffer, name string, attrs []Attr, set AttrPatch, empty bool) {
	buf.WriteByte('<')
	buf.WriteString(name)
	for _, a := range attrs {
		val := a.Value
		if set != nil {
			if v, ok := set[a.Name]; ok {
				val = v
			}
		}
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		buf.WriteString(escapeXML(val))
		buf.WriteByte('"')
	}
	if empty {
		buf.WriteString("/>")
	} else {
		buf.WriteByte('>')
	}
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// EmptyElement serializes a self-closing element from scratch, for splicing
// brand-new elements into a document.
func EmptyElement(name string, attrs []Attr) []byte {
	var buf bytes.Buffer
	writeElement(&buf, name, attrs, nil, true)
	return buf.Bytes()
}
