package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/uxbuilder/dom/style"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Insert parses markup and inserts it relative to target. Inside appends
// the fragment as the last children of target, Before and After insert it
// as preceding or following siblings. The first element of the fragment is
// returned. Identifiers carried by the fragment are indexed.
func (doc *Document) Insert(target *html.Node, loc Location, markup string) (*html.Node, error) {
	if !doc.Loaded() {
		return nil, ErrNotLoaded
	}
	if target == nil || !doc.contains(target) {
		return nil, ErrUnknownElement
	}
	parent := target
	if loc == Before || loc == After {
		if doc.IsBody(target) {
			return nil, fmt.Errorf("%w: %s of <%s>", ErrInvalidLocation, loc, target.Data)
		}
		parent = target.Parent
	} else if loc != Inside {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLocation, loc)
	}
	nodes, first, err := doc.parseFragment(markup, parent)
	if err != nil {
		return nil, err
	}
	next := target.NextSibling
	for _, n := range nodes {
		switch loc {
		case Inside:
			parent.AppendChild(n)
		case Before:
			parent.InsertBefore(n, target)
		case After:
			parent.InsertBefore(n, next) // nil appends
		}
	}
	for _, n := range nodes {
		walkElements(n, doc.register)
	}
	tracer().Debugf("inserted <%s> %s <%s>", first.Data, loc, target.Data)
	return first, nil
}

// Replace substitutes target by the first element of markup. The children
// of target are moved over to the new element, unless target has none, in
// which case the new element keeps its own. The replaced element is
// detached from the document.
func (doc *Document) Replace(target *html.Node, markup string) (*html.Node, error) {
	if !doc.Loaded() {
		return nil, ErrNotLoaded
	}
	if target == nil || !doc.contains(target) || doc.IsBody(target) {
		return nil, ErrUnknownElement
	}
	parent := target.Parent
	_, first, err := doc.parseFragment(markup, parent)
	if err != nil {
		return nil, err
	}
	if target.FirstChild != nil {
		for c := first.FirstChild; c != nil; c = first.FirstChild {
			first.RemoveChild(c)
		}
		for c := target.FirstChild; c != nil; c = target.FirstChild {
			target.RemoveChild(c)
			first.AppendChild(c)
		}
	}
	parent.InsertBefore(first, target)
	parent.RemoveChild(target)
	if id := ElementID(attr(target, AttrID)); !id.IsNone() {
		delete(doc.index, id)
	}
	walkElements(first, doc.register)
	tracer().Debugf("replaced <%s> by <%s>", target.Data, first.Data)
	return first, nil
}

// parseFragment parses markup in the context of parent and returns all
// top-level nodes together with the first element among them.
func (doc *Document) parseFragment(markup string, parent *html.Node) ([]*html.Node, *html.Node, error) {
	context := parent
	if context == nil || context.Type != html.ElementNode {
		context = doc.body
	}
	nodes, err := html.ParseFragment(strings.NewReader(strings.TrimSpace(markup)), context)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing fragment: %w", err)
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			return nodes, n, nil
		}
	}
	return nil, nil, ErrEmptyFragment
}

var selectedSelector = cascadia.MustCompile("." + ClassSelected)

// Highlight removes the highlight marker from every element and applies it
// to the element identified by id. With NoElement, only the removal is done.
func (doc *Document) Highlight(id ElementID) error {
	if doc.root == nil {
		return ErrNotLoaded
	}
	for _, n := range cascadia.QueryAll(doc.root, selectedSelector) {
		removeClass(n, ClassSelected)
	}
	if id.IsNone() {
		return nil
	}
	n, ok := doc.Resolve(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	addClass(n, ClassSelected)
	return nil
}

// Highlighted returns the identifiers of all elements carrying the highlight
// marker.
func (doc *Document) Highlighted() []ElementID {
	if doc.root == nil {
		return nil
	}
	var ids []ElementID
	for _, n := range cascadia.QueryAll(doc.root, selectedSelector) {
		ids = append(ids, doc.IDOf(n))
	}
	return ids
}

// EditorCSS is injected into the live document to make the selection
// visible and to suppress link and text cursors.
const EditorCSS = `
.builder-selected {
    outline: 2px dashed blue !important;
    box-shadow: 0 0 10px rgba(0,0,255,0.5);
}
body * { cursor: default !important; }
`

// InjectEditorStyles appends the editor stylesheet to <head>, once per load.
func (doc *Document) InjectEditorStyles() error {
	if !doc.Loaded() {
		return ErrNotLoaded
	}
	head := doc.head
	if head == nil {
		return fmt.Errorf("%w: no <head>", ErrNotLoaded)
	}
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasAttr(c, AttrStyle) {
			return nil
		}
	}
	st := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Style,
		Data:     "style",
		Attr:     []html.Attribute{{Key: AttrStyle, Val: "editor"}},
	}
	st.AppendChild(&html.Node{Type: html.TextNode, Data: EditorCSS})
	head.AppendChild(st)
	return nil
}

// --- Style state ------------------------------------------------------

// Style returns the parsed inline style of an element. Malformed style
// attributes are treated as empty.
func (doc *Document) Style(n *html.Node) style.Declarations {
	return style.MustParse(attr(n, "style"))
}

// SetStyle writes the inline style of an element. Empty declarations
// remove the style attribute.
func (doc *Document) SetStyle(n *html.Node, decls style.Declarations) {
	doc.SetAttr(n, "style", decls.String())
}
