// =============================================================================
// Swedbank pain.001 Generator - XML Element Tree
// =============================================================================
//
// This file implements the small element tree the document builder assembles
// and the writer that serializes it. The pain.001 schema is order-sensitive,
// so children are kept as an ordered slice and written exactly in insertion
// order.
//
// OUTPUT FORMAT:
//   - UTF-8 XML declaration
//   - two-space indentation
//   - leaf elements on a single line, e.g. <MsgId>MSG-1-20260102</MsgId>
//   - attribute values and character data escaped
//
// =============================================================================

package painxml

import (
	"bytes"
	"fmt"
)

// =============================================================================
// ELEMENT STRUCTURE
// =============================================================================

// Attr is a single XML attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of the document tree. An element carries either a text
// value or children, never both.
type Element struct {
	Name     string
	Attrs    []Attr
	Value    string
	Children []*Element
}

// NewElement creates an empty element.
func NewElement(name string) *Element {
	return &Element{Name: name}
}

// Add appends a child element and returns it.
func (e *Element) Add(name string) *Element {
	child := NewElement(name)
	e.Children = append(e.Children, child)
	return child
}

// AddText appends a leaf child with a text value and returns it.
func (e *Element) AddText(name, value string) *Element {
	child := e.Add(name)
	child.Value = value
	return child
}

// Append attaches an already built subtree. Nil subtrees are ignored so
// builders can return nil for conditional blocks (CdtrAgt, CdtrAcct, RmtInf).
func (e *Element) Append(child *Element) {
	if child != nil {
		e.Children = append(e.Children, child)
	}
}

// SetAttr adds an attribute to the element.
func (e *Element) SetAttr(name, value string) *Element {
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// xmlDeclaration is the fixed UTF-8 declaration header.
const xmlDeclaration = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"

// defaultIndent is the indentation unit for pretty printing.
const defaultIndent = "  "

// Serialize renders the tree to bytes with the XML declaration header.
func Serialize(root *Element) []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration)
	writeElement(&buf, root, defaultIndent, 0)
	return buf.Bytes()
}

// writeElement writes an element and its subtree with indentation.
func writeElement(buf *bytes.Buffer, e *Element, indent string, level int) {
	for i := 0; i < level; i++ {
		buf.WriteString(indent)
	}

	buf.WriteString("<")
	buf.WriteString(e.Name)
	for _, attr := range e.Attrs {
		fmt.Fprintf(buf, " %s=\"%s\"", attr.Name, escape(attr.Value))
	}

	if len(e.Children) == 0 && e.Value == "" {
		buf.WriteString("/>\n")
		return
	}

	buf.WriteString(">")

	if len(e.Children) == 0 {
		buf.WriteString(escape(e.Value))
	} else {
		buf.WriteString("\n")
		for _, child := range e.Children {
			writeElement(buf, child, indent, level+1)
		}
		for i := 0; i < level; i++ {
			buf.WriteString(indent)
		}
	}

	buf.WriteString("</")
	buf.WriteString(e.Name)
	buf.WriteString(">\n")
}

// escape escapes the five XML special characters.
func escape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&apos;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
