package selection

import (
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/props"
	"github.com/npillmayer/uxbuilder/registry"
	"github.com/npillmayer/uxbuilder/treesync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<div class="container" data-builder-id="builder-el-1" data-component-name="container">
  <div class="row" data-builder-id="builder-el-2" data-component-name="row">
    <div class="col" data-builder-id="builder-el-3" data-component-name="col"></div>
  </div>
</div>
<button data-builder-id="builder-el-4" data-component-name="button">b</button>
<section data-builder-id="builder-el-5"></section>
</body></html>`

// manualScheduler collects delayed calls, to be run by the test.
type manualScheduler struct {
	calls []*manualCall
}

type manualCall struct {
	d        time.Duration
	f        func()
	canceled bool
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) func() {
	c := &manualCall{d: d, f: f}
	s.calls = append(s.calls, c)
	return func() { c.canceled = true }
}

func (s *manualScheduler) fire() int {
	cnt := 0
	calls := s.calls
	s.calls = nil
	for _, c := range calls {
		if !c.canceled {
			c.f()
			cnt++
		}
	}
	return cnt
}

type fixture struct {
	doc   *dom.Document
	sync  *treesync.Synchronizer
	m     *Machine
	sched *manualScheduler
}

func setup(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	doc := dom.NewDocument(&dom.Counter{})
	require.NoError(t, doc.Load(page))
	f := &fixture{doc: doc, sched: &manualScheduler{}}
	f.sync = treesync.New(doc, nil)
	f.m = New(doc, registry.Builtin(), f.sync, f.sched, opts...)
	f.sync.Refresh()
	return f
}

func (f *fixture) childComponents(t *testing.T, id dom.ElementID) []string {
	t.Helper()
	node, ok := f.sync.Find(id)
	require.True(t, ok)
	var names []string
	for _, ch := range node.Children() {
		names = append(names, ch.Payload.Component)
	}
	return names
}

func TestSelectElement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	f := setup(t)
	assert.Equal(t, Idle, f.m.State())
	require.NoError(t, f.m.SelectElement("builder-el-2"))
	require.NoError(t, f.m.SelectElement("builder-el-3"))
	assert.Equal(t, Selected, f.m.State())
	assert.Equal(t, []dom.ElementID{"builder-el-3"}, f.sync.Selected())
	assert.Equal(t, []dom.ElementID{"builder-el-3"}, f.doc.Highlighted())
	assert.Error(t, f.m.SelectElement("builder-el-99"))
	assert.Equal(t, dom.ElementID("builder-el-3"), f.m.SelectedID(), "failed select must not change state")
}

func TestSelectClearsPendingAndHover(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	f := setup(t)
	require.NoError(t, f.m.SelectElement("builder-el-2"))
	require.NoError(t, f.m.ChooseLocation(dom.After))
	assert.Equal(t, LocationPending, f.m.State())
	require.NoError(t, f.m.SelectElement("builder-el-1"))
	assert.Equal(t, Selected, f.m.State())
	assert.Equal(t, dom.NoLocation, f.m.Pending())
	assert.True(t, f.m.HoveredID().IsNone())
}

func TestHoverAffordances(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	f := setup(t)
	f.doc.SetFrameRect(dom.Rect{Top: 100, Left: 50})
	f.doc.ReportRect("builder-el-2", dom.Rect{Top: 10, Left: 10, Width: 200, Height: 40})
	f.doc.ReportRect("builder-el-3", dom.Rect{Top: 10, Left: 10, Width: 100, Height: 40})
	//
	require.NoError(t, f.m.Hover("builder-el-2"))
	affs := f.m.Affordances()
	require.Len(t, affs, 3)
	assert.Equal(t, Affordance{Top, dom.Before, 110 - 12, 60 + 100 - 12}, affs[0])
	assert.Equal(t, Affordance{Bottom, dom.After, 150 - 12, 60 + 100 - 12}, affs[1])
	assert.Equal(t, Affordance{Center, dom.Inside, 110 + 20 - 12, 60 + 100 - 12}, affs[2])
	//
	require.NoError(t, f.m.Hover("builder-el-3"))
	affs = f.m.Affordances()
	require.Len(t, affs, 3)
	assert.Equal(t, Left, affs[0].Side, "columns lay out horizontally")
	assert.Equal(t, 60.0-12, affs[0].Left)
	assert.Equal(t, Right, affs[1].Side)
	assert.Equal(t, 160.0-12, affs[1].Left)
	//
	require.NoError(t, f.m.Hover("builder-el-4"))
	assert.Empty(t, f.m.Affordances(), "buttons offer no actions")
	require.NoError(t, f.m.Hover("builder-el-1"))
	require.Len(t, f.m.Affordances(), 1)
	body := f.doc.IDOf(f.doc.Body())
	require.NoError(t, f.m.Hover(body))
	assert.Empty(t, f.m.Affordances())
	assert.True(t, f.m.HoveredID().IsNone())
	// untagged elements fall back to the default component
	require.NoError(t, f.m.Hover("builder-el-5"))
	affs = f.m.Affordances()
	require.Len(t, affs, 1)
	assert.Equal(t, Center, affs[0].Side)
}

func TestHoverIgnoredWhilePending(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	f := setup(t)
	require.NoError(t, f.m.Hover("builder-el-2"))
	require.NoError(t, f.m.ChooseLocation(dom.Before))
	assert.Equal(t, dom.ElementID("builder-el-2"), f.m.SelectedID(), "hovered element is promoted")
	assert.Equal(t, LocationPending, f.m.State())
	assert.Empty(t, f.m.Affordances())
	require.NoError(t, f.m.Hover("builder-el-3"))
	assert.True(t, f.m.HoveredID().IsNone())
	assert.Empty(t, f.m.Affordances())
	f.m.Scrolled()
	assert.Equal(t, dom.Before, f.m.Pending(), "scrolling keeps a pending location")
	f.m.CancelLocation()
	assert.Equal(t, Selected, f.m.State())
}

func TestChooseLocationWithoutSelection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	f := setup(t)
	assert.ErrorIs(t, f.m.ChooseLocation(dom.Inside), ErrNoSelection)
	assert.ErrorIs(t, f.m.ChooseLocation(dom.NoLocation), dom.ErrInvalidLocation)
	assert.Equal(t, Idle, f.m.State())
}

func TestAvailableActions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	f := setup(t)
	assert.Empty(t, f.m.AvailableActions())
	require.NoError(t, f.m.SelectElement("builder-el-2"))
	assert.Len(t, f.m.AvailableActions(), 4)
	require.NoError(t, f.m.ChooseLocation(dom.Before))
	actions := f.m.AvailableActions()
	require.Len(t, actions, 1)
	assert.Equal(t, dom.Before, actions[0].Location)
	assert.Equal(t, LocationPending, f.m.State(), "query must not change state")
	//
	require.NoError(t, f.m.SelectElement(f.doc.IDOf(f.doc.Body())))
	actions = f.m.AvailableActions()
	require.Len(t, actions, 1)
	assert.Equal(t, "container", actions[0].Insert)
}

func TestInsertInside(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	var hooked dom.ElementID
	f := setup(t, WithInsertHook(func(id dom.ElementID, c *registry.Component, props registry.Values) {
		hooked = id
		assert.Equal(t, "col", c.Name)
	}))
	require.NoError(t, f.m.SelectElement("builder-el-2"))
	before := f.childComponents(t, "builder-el-2")
	id, err := f.m.ExecuteAction(registry.Action{Label: "Add column", Location: dom.Inside, Insert: "col"})
	require.NoError(t, err)
	after := f.childComponents(t, "builder-el-2")
	assert.Len(t, after, len(before)+1)
	assert.Equal(t, "col", after[len(after)-1])
	assert.Equal(t, id, f.m.SelectedID())
	assert.Equal(t, id, hooked)
	assert.Equal(t, []dom.ElementID{id}, f.sync.Selected())
	assert.Equal(t, Selected, f.m.State())
	assert.Equal(t, dom.ElementID("builder-el-6"), id, "ids continue after the loaded ones")
}

func TestInsertBeforeColumn(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	f := setup(t)
	require.NoError(t, f.m.SelectElement("builder-el-3"))
	require.NoError(t, f.m.ChooseLocation(dom.Before))
	actions := f.m.AvailableActions()
	require.Len(t, actions, 1)
	id, err := f.m.ExecuteAction(actions[0])
	require.NoError(t, err)
	row, ok := f.sync.Find("builder-el-2")
	require.True(t, ok)
	children := row.Children()
	require.Len(t, children, 2)
	assert.Equal(t, id, children[0].Payload.ID)
	assert.Equal(t, dom.ElementID("builder-el-3"), children[1].Payload.ID)
	n, _ := f.doc.Resolve("builder-el-3")
	assert.Equal(t, id, f.doc.IDOf(f.doc.Children(n.Parent)[0]))
	assert.Equal(t, dom.NoLocation, f.m.Pending())
}

func TestInsertButtonIntoColumn(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	f := setup(t)
	require.NoError(t, f.m.SelectElement("builder-el-3"))
	var add registry.Action
	for _, a := range f.m.AvailableActions() {
		if a.Insert == "button" {
			add = a
		}
	}
	require.Equal(t, "Add button", add.Label)
	id, err := f.m.ExecuteAction(add)
	require.NoError(t, err)
	n, ok := f.doc.Resolve(id)
	require.True(t, ok)
	assert.Equal(t, "button", n.Data)
	assert.Equal(t, []string{"button"}, f.childComponents(t, "builder-el-3"))
	//
	ed := props.New(f.doc, registry.Builtin(), props.Patch)
	values, err := ed.CurrentValues(id)
	require.NoError(t, err)
	assert.Equal(t, registry.Values{"backgroundColor": "#0d6efd", "fontSize": "16"}, values)
	require.NoError(t, ed.SetProperty(id, "fontSize", "20"))
	values, err = ed.CurrentValues(id)
	require.NoError(t, err)
	assert.Equal(t, "20", values["fontSize"])
	fs, ok := f.doc.Style(n).Get("font-size")
	require.True(t, ok)
	assert.Equal(t, "20px", fs.String())
	assert.ErrorIs(t, ed.SetProperty(id, "fontSize", "100"), props.ErrInvalidValue)
}

func TestPendingLocationOverridesAction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	f := setup(t)
	require.NoError(t, f.m.SelectElement("builder-el-2"))
	require.NoError(t, f.m.ChooseLocation(dom.After))
	_, err := f.m.ExecuteAction(registry.Action{Label: "row", Location: dom.Inside, Insert: "row"})
	require.NoError(t, err)
	assert.Equal(t, []string{"row", "row"}, f.childComponents(t, "builder-el-1"))
}

func TestExecuteRejections(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	f := setup(t)
	_, err := f.m.ExecuteAction(registry.Action{Location: dom.Inside, Insert: "row"})
	assert.ErrorIs(t, err, ErrNoSelection)
	require.NoError(t, f.m.SelectElement("builder-el-2"))
	roots := f.sync.Roots()
	_, err = f.m.ExecuteAction(registry.Action{Location: dom.Inside, Insert: "doesNotExist"})
	assert.ErrorIs(t, err, ErrUnknownComponent)
	assert.True(t, treesync.Equal(roots, f.sync.Refresh(), false), "tree must be unchanged")
	assert.Equal(t, dom.ElementID("builder-el-2"), f.m.SelectedID())
	_, err = f.m.ExecuteActionAt(17)
	assert.ErrorIs(t, err, ErrUnknownAction)
	// a sibling of <body> cannot be inserted
	require.NoError(t, f.m.SelectElement(f.doc.IDOf(f.doc.Body())))
	_, err = f.m.ExecuteAction(registry.Action{Location: dom.After, Insert: "container"})
	assert.ErrorIs(t, err, dom.ErrInvalidLocation)
}

func TestNotLoaded(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	doc := dom.NewDocument(&dom.Counter{})
	m := New(doc, registry.Builtin(), treesync.New(doc, nil), &manualScheduler{})
	_, err := m.ExecuteAction(registry.Action{Location: dom.Inside, Insert: "row"})
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, m.SelectElement("builder-el-1"), ErrNotLoaded)
}

func TestHideTimer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	f := setup(t)
	require.NoError(t, f.m.Hover("builder-el-2"))
	f.m.LeaveDocument()
	require.Len(t, f.sched.calls, 1)
	assert.Equal(t, DefaultHideDelay, f.sched.calls[0].d)
	assert.True(t, f.m.HidePending())
	assert.NotEmpty(t, f.m.Affordances(), "hiding is delayed")
	f.m.EnterAffordance()
	assert.False(t, f.m.HidePending())
	assert.Equal(t, 0, f.sched.fire(), "canceled hide must not run")
	assert.NotEmpty(t, f.m.Affordances())
	//
	f.m.LeaveDocument()
	assert.Equal(t, 1, f.sched.fire())
	assert.Empty(t, f.m.Affordances())
	assert.True(t, f.m.HoveredID().IsNone())
}

func TestCancelLocationStopsHideTimer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	f := setup(t)
	require.NoError(t, f.m.Hover("builder-el-2"))
	f.m.LeaveDocument()
	require.True(t, f.m.HidePending())
	f.m.CancelLocation()
	assert.False(t, f.m.HidePending())
	assert.Equal(t, 0, f.sched.fire())
	assert.NotEmpty(t, f.m.Affordances())
}

func TestHideDelayOption(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	f := setup(t, WithHideDelay(time.Second))
	require.NoError(t, f.m.Hover("builder-el-1"))
	f.m.LeaveDocument()
	require.Len(t, f.sched.calls, 1)
	assert.Equal(t, time.Second, f.sched.calls[0].d)
	require.NoError(t, f.m.Hover("builder-el-2"))
	assert.False(t, f.m.HidePending(), "hovering again cancels the hide")
}

func TestSnapshot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.selection")
	defer teardown()
	//
	f := setup(t)
	require.NoError(t, f.m.SelectElement("builder-el-5"))
	require.NoError(t, f.m.ChooseLocation(dom.Inside))
	s := f.m.Snapshot()
	assert.Equal(t, LocationPending, s.State)
	assert.Equal(t, "section", s.SelectedName)
	assert.Equal(t, "section", s.SelectedTag)
	assert.Equal(t, "Inside", s.PendingLabel)
	assert.Equal(t, 1, s.ActionsOffered)
}
