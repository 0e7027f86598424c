package docx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Node is an element of a parsed XML part. Names and attribute names carry
// resolved namespace URIs, not prefixes.
type Node struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Node
	Data     string // character data directly inside the element
}

// Parse decodes an XML stream into a node tree and returns its root element.
// A leading byte order mark selects UTF-8 or UTF-16. Other encodings are taken
// from the XML declaration.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(transform.NewReader(r, unicode.BOMOverride(encoding.Nop.NewDecoder())))
	dec.CharsetReader = charsetReader

	var (
		root  *Node
		stack []*Node
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name, Attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("decoding xml: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Data += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("decoding xml: no root element")
	}
	return root, nil
}

// charsetReader converts declared encodings to UTF-8. UTF-16 input has
// already been converted while its byte order mark was read.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	if strings.HasPrefix(strings.ToLower(label), "utf-16") {
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}

// Is reports whether the node has the given namespace and local name.
func (n *Node) Is(space, local string) bool {
	return n.Name.Space == space && n.Name.Local == local
}

// FindAll returns every descendant (not n itself) matching space and local,
// in document order.
func (n *Node) FindAll(space, local string) []*Node {
	var out []*Node
	n.walk(func(c *Node) bool {
		if c.Is(space, local) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Find returns the first descendant matching space and local, or nil.
func (n *Node) Find(space, local string) *Node {
	var found *Node
	n.walk(func(c *Node) bool {
		if c.Is(space, local) {
			found = c
			return false
		}
		return true
	})
	return found
}

// walk visits descendants depth-first until fn returns false.
func (n *Node) walk(fn func(*Node) bool) bool {
	for _, c := range n.Children {
		if !fn(c) || !c.walk(fn) {
			return false
		}
	}
	return true
}

// Attr returns the value of the attribute with the given namespace and local name.
func (n *Node) Attr(space, local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// AttrNames returns the attribute names of n formatted as prefix:local,
// using the well-known prefixes for the document namespaces.
func (n *Node) AttrNames() []string {
	out := make([]string, 0, len(n.Attrs))
	for _, a := range n.Attrs {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		if p := prefixFor(a.Name.Space); p != "" {
			out = append(out, p+":"+a.Name.Local)
		} else {
			out = append(out, a.Name.Local)
		}
	}
	return out
}

// JoinText concatenates the character data of every descendant matching
// space and local.
func (n *Node) JoinText(space, local string) string {
	var b strings.Builder
	for _, t := range n.FindAll(space, local) {
		b.WriteString(t.Data)
	}
	return b.String()
}
