// Package xmlpatch implements a streaming read-transform-write pass over XML
// documents. The patcher copies every byte of the input it is not explicitly
// asked to change, which is what keeps attributes and elements it does not
// understand (third-party content) intact across a rewrite.
package xmlpatch

import (
	"bytes"
	"fmt"
	"io"
)

// DeletionMode selects the structural rule applied when an element is deleted.
type DeletionMode int

const (
	// DeleteNone leaves the element in place (patch only).
	DeleteNone DeletionMode = iota
	// DeleteBlank replaces the element with a same-tag marker carrying no
	// attributes and no children. Sibling positional indices are preserved.
	DeleteBlank
	// DeleteRemove drops the element and its whole subtree. Later same-tag
	// siblings shift their implicit position down by one.
	DeleteRemove
)

// AttrPatch maps attribute names to replacement values, already formatted
// for the document. Attributes absent from the map pass through unchanged.
type AttrPatch map[string]string

// Op describes what to do with a matched element.
type Op struct {
	// Set overrides individual attribute values.
	Set AttrPatch
	// Delete, when not DeleteNone, suppresses the element per its mode.
	Delete DeletionMode
	// Replace, when non-nil, substitutes the element and its entire subtree
	// with literal text.
	Replace []byte
	// Children are rules active only inside this matched element, with
	// positional counters scoped to it.
	Children []*ElementRule
}

// ElementRule identifies target elements by tag and selects an Op per match.
// Exactly one of ByID, ByPos, or All is normally populated. ByID takes
// precedence over positional matching when both could apply.
type ElementRule struct {
	// Tag matches the element name exactly.
	Tag string
	// TagSuffix matches any element name with this suffix; used where a
	// schema encodes the element type in the tag name itself.
	TagSuffix string
	// Within restricts matches to elements enclosed by an open element of
	// this name. Empty means anywhere.
	Within string
	// IDAttr names the identity attribute for ByID lookup.
	IDAttr string
	ByID   map[string]*Op
	// ByPos selects by zero-based occurrence count. The counter increments
	// for every in-scope occurrence of the tag, matched or not, so blank
	// slots keep later indices stable.
	ByPos map[int]*Op
	// All applies to every match not claimed by ByID/ByPos.
	All *Op
}

func (r *ElementRule) matchesTag(name string) bool {
	if r.Tag != "" {
		return name == r.Tag
	}
	if r.TagSuffix != "" {
		return len(name) > len(r.TagSuffix) && name[len(name)-len(r.TagSuffix):] == r.TagSuffix
	}
	return false
}

// ScalarRule substitutes a single scalar addressed by a fixed descent path
// from the document root. With Attr set, the named attribute of the element
// at Path is overridden; with Attr empty, the element's text content is
// replaced. Installing both forms for the same logical field handles the two
// coexisting document dialects (attributes-on-one-element vs one child
// element per field): whichever shape the document actually has is the one
// that fires.
type ScalarRule struct {
	Path  []string
	Attr  string
	Value string
}

// Patcher applies a set of rules to one document in a single pass.
type Patcher struct {
	Rules   []*ElementRule
	Scalars []*ScalarRule
}

// frame is one open element on the parse stack.
type frame struct {
	name string
	// rules activated by the Op that matched this element.
	rules []*ElementRule
	// childPos holds positional counters for those rules, scoped to this
	// element.
	childPos map[*ElementRule]int
	// textRule, when set, replaces the text content of this element.
	textRule     *ScalarRule
	textReplaced bool
}

// run is the mutable patch state threaded through the token loop.
type run struct {
	p     *Patcher
	out   bytes.Buffer
	stack []frame
	// pos holds document-wide positional counters, reset only at start.
	pos map[*ElementRule]int
	// skip counts open elements of a suppressed subtree; zero means
	// emitting normally.
	skip int
}

// Apply rewrites doc according to the patcher's rules and returns the full
// output buffer. Tokens not matched by any rule are emitted byte-for-byte.
// Malformed input (unbalanced tags, invalid UTF-8) returns an error; the
// patcher never silently drops or duplicates tokens.
func (p *Patcher) Apply(doc []byte) ([]byte, error) {
	tk, err := newTokenizer(doc)
	if err != nil {
		return nil, err
	}

	r := &run{p: p, pos: make(map[*ElementRule]int)}
	r.out.Grow(len(doc) + 256)

	for {
		tok, err := tk.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document: %w", err)
		}
		if err := r.consume(tok); err != nil {
			return nil, err
		}
	}

	if r.skip > 0 || len(r.stack) > 0 {
		return nil, fmt.Errorf("unexpected end of document: %d unclosed element(s)", r.skip+len(r.stack))
	}

	return r.out.Bytes(), nil
}

func (r *run) consume(tok Token) error {
	if r.skip > 0 {
		switch tok.Kind {
		case TokenStart:
			r.skip++
		case TokenEnd:
			r.skip--
		}
		return nil
	}

	switch tok.Kind {
	case TokenStart, TokenEmpty:
		return r.element(tok)
	case TokenEnd:
		if len(r.stack) == 0 {
			return fmt.Errorf("unexpected closing tag </%s>", tok.Name)
		}
		top := r.stack[len(r.stack)-1]
		if top.name != tok.Name {
			return fmt.Errorf("mismatched closing tag </%s>, expected </%s>", tok.Name, top.name)
		}
		r.stack = r.stack[:len(r.stack)-1]
		r.out.Write(tok.Raw)
	case TokenText:
		if len(r.stack) > 0 {
			top := &r.stack[len(r.stack)-1]
			if top.textRule != nil {
				if !top.textReplaced {
					r.out.WriteString(escapeXML(top.textRule.Value))
					top.textReplaced = true
				}
				return nil
			}
		}
		r.out.Write(tok.Raw)
	default:
		r.out.Write(tok.Raw)
	}
	return nil
}

func (r *run) element(tok Token) error {
	op := r.lookup(tok)
	set := r.scalarAttrs(tok)

	if op != nil {
		switch {
		case op.Replace != nil:
			r.out.Write(op.Replace)
			if tok.Kind == TokenStart {
				r.skip = 1
			}
			return nil
		case op.Delete == DeleteBlank:
			writeElement(&r.out, tok.Name, nil, nil, true)
			if tok.Kind == TokenStart {
				r.skip = 1
			}
			return nil
		case op.Delete == DeleteRemove:
			if tok.Kind == TokenStart {
				r.skip = 1
			}
			return nil
		}
	}

	patched := set != nil || (op != nil && len(op.Set) > 0)
	if patched {
		merged := set
		if op != nil && len(op.Set) > 0 {
			if merged == nil {
				merged = make(AttrPatch, len(op.Set))
			}
			for k, v := range op.Set {
				merged[k] = v
			}
		}
		writeElement(&r.out, tok.Name, tok.Attrs, merged, tok.Kind == TokenEmpty)
	} else {
		r.out.Write(tok.Raw)
	}

	if tok.Kind == TokenStart {
		f := frame{name: tok.Name, textRule: r.textRuleFor(tok.Name)}
		if op != nil && len(op.Children) > 0 {
			f.rules = op.Children
			f.childPos = make(map[*ElementRule]int, len(op.Children))
		}
		r.stack = append(r.stack, f)
	}
	return nil
}

// lookup finds the Op for an element. Rules activated by enclosing matched
// elements are checked before document-level rules, and within each set,
// identity rules before positional ones. Positional counters advance on
// every in-scope occurrence of a rule's tag, whether or not a patch is
// registered for that slot.
func (r *run) lookup(tok Token) *Op {
	// Nested rules, innermost frame first.
	for i := len(r.stack) - 1; i >= 0; i-- {
		f := &r.stack[i]
		if op, ok := r.lookupIn(f.rules, f.childPos, tok); ok {
			return op
		}
	}
	if op, ok := r.lookupIn(r.p.Rules, r.pos, tok); ok {
		return op
	}
	return nil
}

func (r *run) lookupIn(rules []*ElementRule, counters map[*ElementRule]int, tok Token) (*Op, bool) {
	// Identity addressing wins over positional when both could apply.
	for _, rule := range rules {
		if rule.IDAttr == "" || !rule.matchesTag(tok.Name) || !r.inScope(rule) {
			continue
		}
		if op, ok := rule.ByID[attrValue(tok.Attrs, rule.IDAttr)]; ok {
			return op, true
		}
		if rule.All != nil {
			return rule.All, true
		}
		return nil, true
	}
	for _, rule := range rules {
		if rule.IDAttr != "" || !rule.matchesTag(tok.Name) || !r.inScope(rule) {
			continue
		}
		if rule.ByPos != nil {
			i := counters[rule]
			counters[rule] = i + 1
			if op, ok := rule.ByPos[i]; ok {
				return op, true
			}
			if rule.All != nil {
				return rule.All, true
			}
			return nil, true
		}
		if rule.All != nil {
			return rule.All, true
		}
	}
	return nil, false
}

func (r *run) inScope(rule *ElementRule) bool {
	if rule.Within == "" {
		return true
	}
	for i := range r.stack {
		if r.stack[i].name == rule.Within {
			return true
		}
	}
	return false
}

// scalarAttrs collects attribute overrides from scalar rules whose path
// lands on this element.
func (r *run) scalarAttrs(tok Token) AttrPatch {
	var set AttrPatch
	for _, s := range r.p.Scalars {
		if s.Attr == "" || !r.pathMatches(s.Path, tok.Name) {
			continue
		}
		// Patches only override existing attributes.
		if !hasAttr(tok.Attrs, s.Attr) {
			continue
		}
		if set == nil {
			set = make(AttrPatch)
		}
		set[s.Attr] = s.Value
	}
	return set
}

func hasAttr(attrs []Attr, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// textRuleFor returns a text-content scalar rule whose path is the current
// stack plus the element being opened, if any.
func (r *run) textRuleFor(name string) *ScalarRule {
	for _, s := range r.p.Scalars {
		if s.Attr == "" && r.pathMatches(s.Path, name) {
			return s
		}
	}
	return nil
}

func (r *run) pathMatches(path []string, name string) bool {
	if len(path) != len(r.stack)+1 {
		return false
	}
	if path[len(path)-1] != name {
		return false
	}
	for i := range r.stack {
		if r.stack[i].name != path[i] {
			return false
		}
	}
	return true
}
