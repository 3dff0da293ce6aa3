/*
Package treeview presents the document mirror as a tree panel.

A View keeps the expand/collapse state of the panel; nodes are expanded
unless toggled. Rendering is a single generic fold over the mirror, yielding
either a nested view model for the browser or an ASCII tree for the
terminal.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package treeview

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/tree"
	"github.com/npillmayer/uxbuilder/treesync"
	tp "github.com/xlab/treeprint"
)

// tracer traces with key 'uxb.treeview'.
func tracer() tracing.Trace {
	return tracing.Select("uxb.treeview")
}

// Item is a rendered tree node.
type Item struct {
	ID         dom.ElementID `json:"id"`
	Label      string        `json:"label"`
	Selected   bool          `json:"selected"`
	Expanded   bool          `json:"expanded"`
	ChildCount int           `json:"childCount"`
	Children   []Item        `json:"children,omitempty"` // empty if collapsed
}

// View holds the expand/collapse state of a tree panel.
type View struct {
	collapsed map[dom.ElementID]bool
}

// NewView creates a view with every node expanded.
func NewView() *View {
	return &View{collapsed: make(map[dom.ElementID]bool)}
}

// Toggle expands a collapsed node or collapses an expanded one. It returns
// the new expansion state.
func (v *View) Toggle(id dom.ElementID) bool {
	if v.collapsed[id] {
		delete(v.collapsed, id)
		return true
	}
	v.collapsed[id] = true
	tracer().Debugf("collapsed %s", id)
	return false
}

// Expanded is a predicate wether a node is expanded.
func (v *View) Expanded(id dom.ElementID) bool {
	return !v.collapsed[id]
}

// Reset expands all nodes.
func (v *View) Reset() {
	v.collapsed = make(map[dom.ElementID]bool)
}

// Render folds the mirror into view items. Children of collapsed nodes are
// left out.
func (v *View) Render(roots []*treesync.Node) []Item {
	return tree.Fold(roots, func(n *treesync.Node, children []Item) Item {
		item := Item{
			ID:         n.Payload.ID,
			Label:      n.Payload.Component,
			Selected:   n.Payload.Selected,
			Expanded:   v.Expanded(n.Payload.ID),
			ChildCount: len(children),
		}
		if item.Expanded {
			item.Children = children
		}
		return item
	})
}

// Text renders the mirror as an ASCII tree. Nodes with children are marked
// `[-]` if expanded and `[+]` if collapsed, leaves are marked `•`; the
// selected node is marked with a trailing `*`.
func (v *View) Text(roots []*treesync.Node) string {
	p := tp.New()
	p.SetValue("body")
	for _, item := range v.Render(roots) {
		printItem(p, item)
	}
	return p.String()
}

func printItem(p tp.Tree, item Item) {
	label := item.Label + " " + item.ID.String()
	if item.Selected {
		label += " *"
	}
	switch {
	case item.ChildCount == 0:
		p.AddNode("• " + label)
	case !item.Expanded:
		p.AddNode("[+] " + label)
	default:
		branch := p.AddBranch("[-] " + label)
		for _, ch := range item.Children {
			printItem(branch, ch)
		}
	}
}
