package dom

import "golang.org/x/net/html"

// Matcher is a predicate over the identifier of a pointer-event target.
// It is used as a key for routes of the pointer-event dispatch table.
type Matcher func(doc *Document, id ElementID) bool

// Any matches every event, including events without target.
var Any Matcher = func(*Document, ElementID) bool {
	return true
}

// IsBody matches events targeting <body> or <html>.
var IsBody Matcher = func(doc *Document, id ElementID) bool {
	n, ok := doc.Resolve(id)
	return ok && doc.IsBody(n)
}

// IsComponent matches events targeting elements inserted from the
// component registry.
var IsComponent Matcher = func(doc *Document, id ElementID) bool {
	n, ok := doc.Resolve(id)
	return ok && attr(n, AttrComponent) != ""
}

// IsElement matches events which have a target element.
var IsElement Matcher = func(doc *Document, id ElementID) bool {
	_, ok := doc.Resolve(id)
	return ok
}

// Not negates a matcher.
func Not(m Matcher) Matcher {
	return func(doc *Document, id ElementID) bool {
		return !m(doc, id)
	}
}

// Tag matches events targeting elements of a given tag name.
func Tag(name string) Matcher {
	return func(doc *Document, id ElementID) bool {
		n, ok := doc.Resolve(id)
		return ok && n.Type == html.ElementNode && n.Data == name
	}
}
