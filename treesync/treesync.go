/*
Package treesync mirrors the live document as an in-memory tree.

The mirror is never patched incrementally. After every structural change the
live document is re-walked from the body and the mirror is rebuilt. Tree
nodes carry element identifiers only, never references into the live
document; identifiers are resolved through the document whenever a handle is
needed.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package treesync

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/tree"
	"golang.org/x/net/html"
)

// tracer traces with key 'uxb.treesync'.
func tracer() tracing.Trace {
	return tracing.Select("uxb.treesync")
}

// Entry is the payload of a mirror node.
type Entry struct {
	ID        dom.ElementID `json:"id"`
	Component string        `json:"component"` // component name, or raw tag name
	Selected  bool          `json:"selected"`
}

func (e *Entry) String() string {
	if e.Selected {
		return fmt.Sprintf("%s(%s)*", e.Component, e.ID)
	}
	return fmt.Sprintf("%s(%s)", e.Component, e.ID)
}

// Node is a node of the mirror tree.
type Node = tree.Node[*Entry]

// Synchronizer owns the mirror of a live document.
type Synchronizer struct {
	doc      *dom.Document
	selected func() dom.ElementID
	roots    []*Node
}

// New creates a synchronizer for a document. selected reports the
// currently selected element; it may be nil.
func New(doc *dom.Document, selected func() dom.ElementID) *Synchronizer {
	if selected == nil {
		selected = func() dom.ElementID { return dom.NoElement }
	}
	return &Synchronizer{doc: doc, selected: selected}
}

// SetSelectionSource replaces the function reporting the current selection.
func (s *Synchronizer) SetSelectionSource(selected func() dom.ElementID) {
	if selected != nil {
		s.selected = selected
	}
}

// Refresh rebuilds the mirror by a depth-first walk over the children of
// the document body. Elements without an identifier get one assigned.
// If the document is not loaded, the mirror is empty.
func (s *Synchronizer) Refresh() []*Node {
	s.roots = nil
	body := s.doc.Body()
	if !s.doc.Loaded() || body == nil {
		tracer().Debugf("refresh of unloaded document")
		return s.roots
	}
	sel := s.selected()
	var walk func(n *html.Node) *Node
	walk = func(n *html.Node) *Node {
		id := s.doc.IDOf(n)
		node := tree.NewNode(&Entry{
			ID:        id,
			Component: s.doc.ComponentName(n),
			Selected:  !sel.IsNone() && id == sel,
		})
		for _, ch := range s.doc.Children(n) {
			node.AddChild(walk(ch))
		}
		return node
	}
	for _, ch := range s.doc.Children(body) {
		s.roots = append(s.roots, walk(ch))
	}
	tracer().Debugf("refreshed mirror, %d nodes", tree.Count(s.roots))
	return s.roots
}

// Clear drops the mirror. It stays empty until the next refresh.
func (s *Synchronizer) Clear() {
	s.roots = nil
	tracer().Debugf("cleared mirror")
}

// Roots returns the mirror as built by the latest refresh.
func (s *Synchronizer) Roots() []*Node {
	return s.roots
}

// Find locates the mirror node for an element.
func (s *Synchronizer) Find(id dom.ElementID) (*Node, bool) {
	if id.IsNone() {
		return nil, false
	}
	return tree.FindFirst(s.roots, func(n *Node) bool {
		return n.Payload.ID == id
	})
}

// MarkSelected flips the selection flags of the mirror in place, so that
// exactly the node for id is selected. With dom.NoElement, all flags are
// cleared. It returns false if id is not part of the mirror.
func (s *Synchronizer) MarkSelected(id dom.ElementID) bool {
	found := false
	_ = tree.TopDown(s.roots, func(n, parent *Node, position int) error {
		n.Payload.Selected = !id.IsNone() && n.Payload.ID == id
		found = found || n.Payload.Selected
		return nil
	})
	return found
}

// Selected returns the identifiers of all nodes flagged as selected.
func (s *Synchronizer) Selected() []dom.ElementID {
	var ids []dom.ElementID
	for _, n := range tree.FindAll(s.roots, func(n *Node) bool { return n.Payload.Selected }) {
		ids = append(ids, n.Payload.ID)
	}
	return ids
}

// Equal compares two mirror forests structurally. If ignoreSelected is
// set, selection flags are not compared.
func Equal(a, b []*Node, ignoreSelected bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalNode(a[i], b[i], ignoreSelected) {
			return false
		}
	}
	return true
}

func equalNode(a, b *Node, ignoreSelected bool) bool {
	if a.Payload.ID != b.Payload.ID || a.Payload.Component != b.Payload.Component {
		return false
	}
	if !ignoreSelected && a.Payload.Selected != b.Payload.Selected {
		return false
	}
	return Equal(a.Children(), b.Children(), ignoreSelected)
}
