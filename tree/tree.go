package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'uxb.tree'.
func tracer() tracing.Trace {
	return tracing.Select("uxb.tree")
}

// ErrEmptyTree is returned if a walk is started on an empty tree.
var ErrEmptyTree = errors.New("cannot walk empty tree")

// SkipChildren may be returned by an Action to prevent descending into the
// children of the current node. It does not terminate the walk.
var SkipChildren = errors.New("skip children of node")

// Predicate is a function type to match against nodes of a tree.
type Predicate[T comparable] func(test *Node[T]) bool

// Whatever is a predicate to match anything (see type Predicate).
// It is useful to match the first node in a given direction.
func Whatever[T comparable]() Predicate[T] {
	return func(*Node[T]) bool {
		return true
	}
}

// NodeIsLeaf is a predicate to match leafs of a tree.
func NodeIsLeaf[T comparable]() Predicate[T] {
	return func(test *Node[T]) bool {
		return test.ChildCount() == 0
	}
}

// Action is a function type to operate on tree nodes. position is the
// index of n within the children of parent (0 for roots).
type Action[T comparable] func(n *Node[T], parent *Node[T], position int) error

// TopDown traverses a forest of trees, starting at (and including) each of
// the root nodes. The traversal guarantees that parents are always processed
// before their children, and that siblings are processed in order.
//
// If the action returns SkipChildren for a node, descending the branch below
// this node is skipped. Any other error aborts the walk and is returned.
func TopDown[T comparable](roots []*Node[T], action Action[T]) error {
	if len(roots) == 0 {
		return ErrEmptyTree
	}
	for i, root := range roots {
		if err := topDown(root, root.Parent(), i, action); err != nil {
			return err
		}
	}
	return nil
}

func topDown[T comparable](n *Node[T], parent *Node[T], position int, action Action[T]) error {
	if n == nil {
		return nil
	}
	err := action(n, parent, position)
	if errors.Is(err, SkipChildren) {
		return nil
	} else if err != nil {
		return err
	}
	for i, ch := range n.children {
		if err := topDown(ch, n, i, action); err != nil {
			return err
		}
	}
	return nil
}

// BottomUp traverses a forest of trees, guaranteeing that children are
// processed before their parents. SkipChildren has no special meaning.
func BottomUp[T comparable](roots []*Node[T], action Action[T]) error {
	if len(roots) == 0 {
		return ErrEmptyTree
	}
	for i, root := range roots {
		if err := bottomUp(root, root.Parent(), i, action); err != nil {
			return err
		}
	}
	return nil
}

func bottomUp[T comparable](n *Node[T], parent *Node[T], position int, action Action[T]) error {
	if n == nil {
		return nil
	}
	for i, ch := range n.children {
		if err := bottomUp(ch, n, i, action); err != nil {
			return err
		}
	}
	return action(n, parent, position)
}

// FindAll collects all nodes of a forest matching a predicate, in document
// order (depth first, parents before children).
func FindAll[T comparable](roots []*Node[T], predicate Predicate[T]) []*Node[T] {
	var selection []*Node[T]
	_ = TopDown(roots, func(n *Node[T], _ *Node[T], _ int) error {
		if predicate(n) {
			selection = append(selection, n)
		}
		return nil
	})
	tracer().Debugf("predicate matched %d nodes", len(selection))
	return selection
}

// FindFirst returns the first node in document order matching a predicate.
func FindFirst[T comparable](roots []*Node[T], predicate Predicate[T]) (*Node[T], bool) {
	var found *Node[T]
	errFound := errors.New("found")
	err := TopDown(roots, func(n *Node[T], _ *Node[T], _ int) error {
		if predicate(n) {
			found = n
			return errFound
		}
		return nil
	})
	return found, err == errFound
}

// AncestorWith finds an ancestor matching the given predicate.
// The search does not include the start node.
func AncestorWith[T comparable](node *Node[T], predicate Predicate[T]) (*Node[T], bool) {
	for anc := node.Parent(); anc != nil; anc = anc.Parent() {
		if predicate(anc) {
			return anc, true
		}
	}
	return nil, false
}

// Fold renders a forest recursively: render is called for every node with
// the already folded results of the node's children.
func Fold[T comparable, R any](roots []*Node[T], render func(n *Node[T], children []R) R) []R {
	result := make([]R, 0, len(roots))
	for _, root := range roots {
		if root == nil {
			continue
		}
		result = append(result, render(root, Fold(root.children, render)))
	}
	return result
}

// Count returns the number of nodes in a forest.
func Count[T comparable](roots []*Node[T]) int {
	cnt := 0
	_ = TopDown(roots, func(*Node[T], *Node[T], int) error {
		cnt++
		return nil
	})
	return cnt
}
