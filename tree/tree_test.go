package tree

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func buildForest() []*Node[string] {
	// a ─┬─ b ── d
	//    └─ c
	// e
	a, b, c, d, e := NewNode("a"), NewNode("b"), NewNode("c"), NewNode("d"), NewNode("e")
	a.AddChild(b).AddChild(c)
	b.AddChild(d)
	return []*Node[string]{a, e}
}

func TestNodeChildren(t *testing.T) {
	n := NewNode(1)
	n.AddChild(NewNode(2)).AddChild(NewNode(4))
	n.InsertChildAt(1, NewNode(3))
	n.InsertChildAt(99, NewNode(5))
	if n.ChildCount() != 4 {
		t.Fatalf("expected 4 children, have %d", n.ChildCount())
	}
	for i, want := range []int{2, 3, 4, 5} {
		ch, ok := n.Child(i)
		if !ok || ch.Payload != want {
			t.Errorf("expected child #%d to be %d, is %v", i, want, ch)
		}
		if ch.Parent() != n {
			t.Errorf("expected child #%d to link to its parent", i)
		}
	}
	three, _ := n.Child(1)
	three.Isolate()
	if n.ChildCount() != 3 || three.Parent() != nil {
		t.Errorf("expected isolated node to be detached, parent has %d children", n.ChildCount())
	}
	if n.IndexOfChild(three) != -1 {
		t.Errorf("expected isolated node not to be found among children")
	}
}

func TestAddChildMovesNode(t *testing.T) {
	p1, p2, ch := NewNode("p1"), NewNode("p2"), NewNode("ch")
	p1.AddChild(ch)
	p2.AddChild(ch)
	if p1.ChildCount() != 0 || p2.ChildCount() != 1 || ch.Parent() != p2 {
		t.Errorf("expected child to move from p1 to p2")
	}
	if ch.Depth() != 1 {
		t.Errorf("expected depth 1, is %d", ch.Depth())
	}
}

func TestTopDownOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.tree")
	defer teardown()
	//
	var order []string
	err := TopDown(buildForest(), func(n, parent *Node[string], pos int) error {
		order = append(order, fmt.Sprintf("%s@%d", n.Payload, pos))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if s := strings.Join(order, " "); s != "a@0 b@0 d@0 c@1 e@1" {
		t.Errorf("unexpected top-down order: %s", s)
	}
}

func TestTopDownSkipAndAbort(t *testing.T) {
	var order []string
	_ = TopDown(buildForest(), func(n, _ *Node[string], _ int) error {
		order = append(order, n.Payload)
		if n.Payload == "b" {
			return SkipChildren
		}
		return nil
	})
	if s := strings.Join(order, ""); s != "abce" {
		t.Errorf("expected subtree of b to be skipped, order is %s", s)
	}
	boom := errors.New("boom")
	err := TopDown(buildForest(), func(n, _ *Node[string], _ int) error {
		if n.Payload == "c" {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected walk to abort with boom, error is %v", err)
	}
	if err := TopDown[string](nil, nil); !errors.Is(err, ErrEmptyTree) {
		t.Errorf("expected ErrEmptyTree, is %v", err)
	}
}

func TestBottomUpOrder(t *testing.T) {
	var order []string
	_ = BottomUp(buildForest(), func(n, _ *Node[string], _ int) error {
		order = append(order, n.Payload)
		return nil
	})
	if s := strings.Join(order, ""); s != "dbcae" {
		t.Errorf("unexpected bottom-up order: %s", s)
	}
}

func TestFind(t *testing.T) {
	forest := buildForest()
	leafs := FindAll(forest, NodeIsLeaf[string]())
	if len(leafs) != 3 {
		t.Errorf("expected 3 leafs (d, c, e), have %d", len(leafs))
	}
	d, ok := FindFirst(forest, func(n *Node[string]) bool { return n.Payload == "d" })
	if !ok {
		t.Fatal("expected to find d")
	}
	a, ok := AncestorWith(d, func(n *Node[string]) bool { return n.Parent() == nil })
	if !ok || a.Payload != "a" {
		t.Errorf("expected root ancestor a, is %v", a)
	}
	if _, ok := FindFirst(forest, func(n *Node[string]) bool { return n.Payload == "x" }); ok {
		t.Errorf("did not expect to find x")
	}
	if Count(forest) != 5 {
		t.Errorf("expected 5 nodes, have %d", Count(forest))
	}
}

func TestFold(t *testing.T) {
	out := Fold(buildForest(), func(n *Node[string], children []string) string {
		if len(children) == 0 {
			return n.Payload
		}
		return n.Payload + "(" + strings.Join(children, ",") + ")"
	})
	if s := strings.Join(out, " "); s != "a(b(d),c) e" {
		t.Errorf("unexpected fold result %q", s)
	}
}
