package xmlpatch

import (
	"bytes"
	"fmt"
)

// SpliceBeforeClose inserts fragment immediately before the last occurrence
// of the named closing tag. Appends are expressed as literal text rather
// than tokens: the collection's closing tag must be locatable unambiguously,
// which the last occurrence in the file guarantees for the flat schemas this
// package targets.
func SpliceBeforeClose(doc []byte, tag string, fragment []byte) ([]byte, error) {
	closing := []byte("</" + tag + ">")
	i := bytes.LastIndex(doc, closing)
	if i < 0 {
		return nil, fmt.Errorf("closing tag %s not found", closing)
	}
	out := make([]byte, 0, len(doc)+len(fragment))
	out = append(out, doc[:i]...)
	out = append(out, fragment...)
	out = append(out, doc[i:]...)
	return out, nil
}

// NewDocument synthesizes a minimal document from scratch: declaration,
// root element, the given fragment, root close. Used when an append targets
// a file that does not exist yet.
func NewDocument(root string, fragment []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\" standalone=\"no\"?>\n")
	buf.WriteString("<" + root + ">\n")
	buf.Write(fragment)
	buf.WriteString("</" + root + ">\n")
	return buf.Bytes()
}
