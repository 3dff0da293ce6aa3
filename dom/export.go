package dom

import (
	"bytes"

	"golang.org/x/net/html"
)

// Markup renders the live document, including all bookkeeping attributes.
// This is what the embedded view displays.
func (doc *Document) Markup() (string, error) {
	if doc.root == nil {
		return "", ErrNotLoaded
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, doc.root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Export renders a copy of the live document with every trace of the
// editor removed: identifier and component-name attributes, the highlight
// marker class (dropping class attributes left empty) and the injected
// editor stylesheet. The live document is not modified.
func (doc *Document) Export() (string, error) {
	if !doc.Loaded() {
		return "", ErrNotLoaded
	}
	clean := cloneTree(doc.root)
	strip(clean)
	var buf bytes.Buffer
	if err := html.Render(&buf, clean); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func strip(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && hasAttr(c, AttrStyle) {
			n.RemoveChild(c)
		} else {
			strip(c)
		}
		c = next
	}
	if n.Type != html.ElementNode {
		return
	}
	removeAttr(n, AttrID)
	removeAttr(n, AttrComponent)
	if hasClass(n, ClassSelected) {
		removeClass(n, ClassSelected) // drops a class attribute left empty
	}
}

func cloneTree(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(cloneTree(ch))
	}
	return c
}
