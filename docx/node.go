package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one node of a parsed XML part: an element, character data, or a
// comment. Element and attribute names keep the prefix exactly as written in
// the source ("w:p" is stored as Space "w", Local "p"), so a re-encoded part
// reproduces the original markup without a namespace-resolution round trip.
type Node struct {
	Space, Local string
	Attrs        []Attr
	Children     []*Node
	Text         string
	IsText       bool
	IsComment    bool

	parent *Node
}

// Attr is a single attribute with its name as written ("w:val", "xml:space").
type Attr struct {
	Name  string
	Value string
}

func (n *Node) name() string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func (n *Node) isElement() bool {
	return !n.IsText && !n.IsComment
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute, replacing an existing value in place so
// attribute order is stable across rewrites.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes the named attribute if present.
func (n *Node) RemoveAttr(name string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// child returns the first element child matching space and local name.
func (n *Node) child(space, local string) *Node {
	for _, c := range n.Children {
		if c.isElement() && c.Space == space && c.Local == local {
			return c
		}
	}
	return nil
}

// childrenNamed returns all element children matching space and local name.
func (n *Node) childrenNamed(space, local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.isElement() && c.Space == space && c.Local == local {
			out = append(out, c)
		}
	}
	return out
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) appendChild(c *Node) {
	c.parent = n
	n.Children = append(n.Children, c)
}

func (n *Node) insertChild(i int, c *Node) {
	if i < 0 {
		i = 0
	}
	if i >= len(n.Children) {
		n.appendChild(c)
		return
	}
	c.parent = n
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = c
}

func (n *Node) removeChild(c *Node) bool {
	for i, ch := range n.Children {
		if ch == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// directText concatenates the immediate character-data children of n.
func (n *Node) directText() string {
	var sb strings.Builder
	for _, c := range n.Children {
		if c.IsText {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

// setDirectText replaces n's character-data children with a single one,
// leaving element children untouched.
func (n *Node) setDirectText(s string) {
	kept := n.Children[:0]
	for _, c := range n.Children {
		if !c.IsText {
			kept = append(kept, c)
		}
	}
	n.Children = kept
	t := &Node{IsText: true, Text: s, parent: n}
	n.Children = append(n.Children, t)
}

// walk visits n and every descendant element in document order.
func (n *Node) walk(fn func(*Node)) {
	if !n.isElement() {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}

// parseXML builds a node tree from one XML part, returning the root element
// and the original XML declaration line (with its trailing whitespace) so the
// part can be re-encoded with the same framing.
func parseXML(data []byte) (root *Node, header string, err error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var stack []*Node

	for {
		tok, terr := dec.RawToken()
		if terr == io.EOF {
			break
		}
		if terr != nil {
			return nil, "", terr
		}

		switch t := tok.(type) {
		case xml.ProcInst:
			if t.Target == "xml" && root == nil {
				header = "<?xml " + string(t.Inst) + "?>"
			}

		case xml.StartElement:
			n := &Node{Space: t.Name.Space, Local: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attrs = make([]Attr, 0, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs = append(n.Attrs, Attr{Name: attrName(a.Name), Value: a.Value})
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, "", fmt.Errorf("multiple root elements")
				}
				root = n
			} else {
				stack[len(stack)-1].appendChild(n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, "", fmt.Errorf("unexpected closing tag </%s>", rawName(t.Name))
			}
			top := stack[len(stack)-1]
			if top.Space != t.Name.Space || top.Local != t.Name.Local {
				return nil, "", fmt.Errorf("mismatched closing tag </%s> for <%s>", rawName(t.Name), top.name())
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].appendChild(&Node{IsText: true, Text: string(t)})
			} else if root == nil && header != "" && isWhitespace(t) {
				header += string(t)
			}

		case xml.Comment:
			if len(stack) > 0 {
				stack[len(stack)-1].appendChild(&Node{IsComment: true, Text: string(t)})
			}
		}
	}

	if root == nil {
		return nil, "", fmt.Errorf("no root element")
	}
	if len(stack) != 0 {
		return nil, "", fmt.Errorf("unexpected end of input inside <%s>", stack[len(stack)-1].name())
	}
	return root, header, nil
}

func attrName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func isWhitespace(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return false
		}
	}
	return true
}

// encodeXML serializes the tree without adding any whitespace of its own, so
// significant spacing inside text nodes is preserved.
func encodeXML(buf *bytes.Buffer, n *Node) {
	if n.IsText {
		escapeText(buf, n.Text)
		return
	}
	if n.IsComment {
		buf.WriteString("<!--")
		buf.WriteString(n.Text)
		buf.WriteString("-->")
		return
	}

	buf.WriteByte('<')
	buf.WriteString(n.name())
	for _, a := range n.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		escapeAttr(buf, a.Value)
		buf.WriteByte('"')
	}
	if len(n.Children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	for _, c := range n.Children {
		encodeXML(buf, c)
	}
	buf.WriteString("</")
	buf.WriteString(n.name())
	buf.WriteByte('>')
}

func escapeText(buf *bytes.Buffer, s string) {
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '\r':
			buf.WriteString("&#xD;")
		default:
			buf.WriteRune(r)
		}
	}
}

func escapeAttr(buf *bytes.Buffer, s string) {
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
		case '\t':
			buf.WriteString("&#x9;")
		case '\n':
			buf.WriteString("&#xA;")
		case '\r':
			buf.WriteString("&#xD;")
		default:
			buf.WriteRune(r)
		}
	}
}
