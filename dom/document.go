package dom

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is the live document of an editing session. It is the sole
// authority for resolving element identifiers to parse tree nodes.
//
// A Document is not safe for concurrent use; it is driven from the event
// loop of its session.
type Document struct {
	root       *html.Node               // document node, nil until loaded
	head, body *html.Node               // <head> and <body>, if present
	ids        *Counter                 // session-scoped id counter
	index      map[ElementID]*html.Node // one-way lookup id → element
	generation int                      // incremented on every load
	frame      Rect                     // position of the embedded view
	rects      map[ElementID]Rect       // element rects, relative to the frame
	routes     []route                  // delegated pointer-event handlers
	sanitizer  *bluemonday.Policy       // optional policy for loaded markup
}

// Option configures a Document.
type Option func(*Document)

// WithSanitizer sets a policy which is applied to the body content of
// markup passed to Load.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(doc *Document) {
		doc.sanitizer = policy
	}
}

// NewDocument creates an empty, not yet loaded document. Identifiers are
// drawn from ids, which must not be nil.
func NewDocument(ids *Counter, opts ...Option) *Document {
	doc := &Document{
		ids:   ids,
		index: make(map[ElementID]*html.Node),
		rects: make(map[ElementID]Rect),
	}
	for _, opt := range opts {
		opt(doc)
	}
	return doc
}

// Load replaces the content of the document with markup. Identifiers
// present in the markup are kept, and the id counter is moved past them.
// Pointer-event routes of a previous load are discarded.
func (doc *Document) Load(markup string) error {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}
	doc.root, doc.head, doc.body = root, nil, nil
	doc.index = make(map[ElementID]*html.Node)
	doc.rects = make(map[ElementID]Rect)
	doc.routes = nil
	doc.generation++
	walkElements(root, func(n *html.Node) {
		switch n.DataAtom {
		case atom.Head:
			if doc.head == nil {
				doc.head = n
			}
		case atom.Body:
			if doc.body == nil {
				doc.body = n
			}
		}
	})
	if doc.sanitizer != nil && doc.body != nil {
		if err := doc.sanitizeBody(); err != nil {
			return err
		}
	}
	doc.reindex()
	tracer().Infof("document loaded (generation %d), %d identified elements", doc.generation, len(doc.index))
	return nil
}

// Unload resets the document to the empty, not loaded state, as an
// embedded view showing a blank page would be.
func (doc *Document) Unload() {
	doc.root, doc.head, doc.body = nil, nil, nil
	doc.index = make(map[ElementID]*html.Node)
	doc.rects = make(map[ElementID]Rect)
	doc.routes = nil
}

func (doc *Document) sanitizeBody() error {
	var buf bytes.Buffer
	for c := doc.body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return err
		}
	}
	clean := doc.sanitizer.Sanitize(buf.String())
	nodes, err := html.ParseFragment(strings.NewReader(clean), doc.body)
	if err != nil {
		return fmt.Errorf("parsing sanitized body: %w", err)
	}
	for c := doc.body.FirstChild; c != nil; c = doc.body.FirstChild {
		doc.body.RemoveChild(c)
	}
	for _, n := range nodes {
		doc.body.AppendChild(n)
	}
	return nil
}

func (doc *Document) reindex() {
	walkElements(doc.root, func(n *html.Node) {
		doc.register(n)
	})
}

// register indexes an element carrying an identifier.
func (doc *Document) register(n *html.Node) {
	if id := ElementID(attr(n, AttrID)); !id.IsNone() {
		doc.index[id] = n
		doc.ids.Observe(id)
	}
}

// Loaded is a predicate wether the document has content with a body.
func (doc *Document) Loaded() bool {
	return doc != nil && doc.body != nil
}

// Generation counts the loads of a document. Clients use it to attach
// pointer-event handlers exactly once per load.
func (doc *Document) Generation() int {
	return doc.generation
}

// Root returns the document node.
func (doc *Document) Root() *html.Node {
	return doc.root
}

// Body returns the <body> element, or nil if not loaded.
func (doc *Document) Body() *html.Node {
	return doc.body
}

// Head returns the <head> element, or nil.
func (doc *Document) Head() *html.Node {
	return doc.head
}

// IsBody is a predicate wether n is the document's body (or its <html>
// element, which is treated the same by the editor).
func (doc *Document) IsBody(n *html.Node) bool {
	if n == nil || doc.body == nil {
		return false
	}
	return n == doc.body || n == doc.body.Parent
}

// Resolve looks up the element for an identifier. Stale index entries, e.g.
// for elements removed by a replace, are detected and re-resolved by a
// selector query over the live document.
func (doc *Document) Resolve(id ElementID) (*html.Node, bool) {
	if id.IsNone() || doc.root == nil {
		return nil, false
	}
	if n, ok := doc.index[id]; ok && attr(n, AttrID) == id.String() && doc.contains(n) {
		return n, true
	}
	delete(doc.index, id)
	sel, err := cascadia.Compile(fmt.Sprintf("[%s=%q]", AttrID, id))
	if err != nil {
		tracer().Errorf("cannot build selector for %q: %v", id, err)
		return nil, false
	}
	n := cascadia.Query(doc.root, sel)
	if n == nil {
		return nil, false
	}
	tracer().Debugf("re-indexed element %s", id)
	doc.index[id] = n
	return n, true
}

// contains is a predicate wether n is attached to the document.
func (doc *Document) contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == doc.root {
			return true
		}
	}
	return false
}

// IDOf returns the identifier of an element, assigning a fresh one if the
// element has none yet.
func (doc *Document) IDOf(n *html.Node) ElementID {
	if n == nil || n.Type != html.ElementNode {
		return NoElement
	}
	if id := ElementID(attr(n, AttrID)); !id.IsNone() {
		doc.index[id] = n
		return id
	}
	id := doc.ids.Next()
	setAttr(n, AttrID, id.String())
	doc.index[id] = n
	tracer().Debugf("assigned %s to <%s>", id, n.Data)
	return id
}

// NewID draws a fresh identifier from the session counter, e.g. for
// markup about to be generated and inserted.
func (doc *Document) NewID() ElementID {
	return doc.ids.Next()
}

// Children returns the element children of n, in document order.
// Text and comment nodes are skipped.
func (doc *Document) Children(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, c)
		}
	}
	return children
}

// ElementAt locates an element by a path of element-child indices, starting
// at <body>. The empty path denotes <body> itself.
func (doc *Document) ElementAt(path []int) (*html.Node, error) {
	if !doc.Loaded() {
		return nil, ErrNotLoaded
	}
	n := doc.body
	for _, i := range path {
		children := doc.Children(n)
		if i < 0 || i >= len(children) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPath, path)
		}
		n = children[i]
	}
	return n, nil
}

// PathOf returns the path of element-child indices from <body> to n.
func (doc *Document) PathOf(n *html.Node) ([]int, error) {
	var path []int
	for p := n; p != doc.body; p = p.Parent {
		if p == nil || p.Parent == nil {
			return nil, fmt.Errorf("%w: element not inside body", ErrInvalidPath)
		}
		i := 0
		for s := p.PrevSibling; s != nil; s = s.PrevSibling {
			if s.Type == html.ElementNode {
				i++
			}
		}
		path = append([]int{i}, path...)
	}
	return path, nil
}

// ComponentName returns the registry component name of an element, or
// its tag name if it has not been inserted from the registry.
func (doc *Document) ComponentName(n *html.Node) string {
	if name := attr(n, AttrComponent); name != "" {
		return name
	}
	if n == nil {
		return ""
	}
	return n.Data
}

// Attr returns the value of an attribute of n, or "".
func (doc *Document) Attr(n *html.Node, key string) string {
	return attr(n, key)
}

// SetAttr sets an attribute of n. An empty value removes the attribute.
func (doc *Document) SetAttr(n *html.Node, key, value string) {
	if value == "" {
		removeAttr(n, key)
		return
	}
	setAttr(n, key, value)
}

// --- Helpers ----------------------------------------------------------

func walkElements(n *html.Node, f func(*html.Node)) {
	if n == nil {
		return
	}
	if n.Type == html.ElementNode {
		f(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, f)
	}
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func removeAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != key {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	classes := strings.TrimSpace(attr(n, "class") + " " + class)
	setAttr(n, "class", classes)
}

func removeClass(n *html.Node, class string) {
	fields := strings.Fields(attr(n, "class"))
	kept := fields[:0]
	for _, c := range fields {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		removeAttr(n, "class")
		return
	}
	setAttr(n, "class", strings.Join(kept, " "))
}
