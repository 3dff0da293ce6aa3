/*
Package selection implements the selection and insertion state machine of
the editor.

The machine tracks the selected element, the element under the pointer and
a pending insertion location, and it computes the insertion affordances
shown next to a hovered element. It mutates the live document only to
insert new components and to move the highlight marker; after every
insertion it asks the tree synchronizer to rebuild the mirror.

	    ┌──────┐  SelectElement   ┌──────────┐  ChooseLocation  ┌─────────────────┐
	    │ Idle │ ───────────────▶ │ Selected │ ───────────────▶ │ LocationPending │
	    └──────┘                  └──────────┘ ◀─────────────── └─────────────────┘
	                                   ▲          CancelLocation         │
	                                   └──────── ExecuteAction ──────────┘

A Machine is not safe for concurrent use. All calls, including the
callbacks of its Scheduler, must be made from a single event loop.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package selection

import (
	"fmt"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/registry"
	"github.com/npillmayer/uxbuilder/treesync"
	"golang.org/x/net/html"
)

// tracer traces with key 'uxb.selection'.
func tracer() tracing.Trace {
	return tracing.Select("uxb.selection")
}

// State is the interaction state of the editor.
type State int8

// Interaction states.
const (
	Idle State = iota
	Selected
	LocationPending
)

func (s State) String() string {
	switch s {
	case Selected:
		return "SELECTED"
	case LocationPending:
		return "LOCATION_PENDING"
	}
	return "IDLE"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{Idle, Selected, LocationPending} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown selection state %q", text)
}

// DefaultHideDelay is the delay between the pointer leaving the live
// document and the affordances being hidden.
const DefaultHideDelay = 500 * time.Millisecond

// Scheduler runs a function after a delay. The returned function cancels
// the call if it has not yet happened. Implementations must run f on the
// event loop which drives the machine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}

// Option configures a Machine.
type Option func(*Machine)

// WithHideDelay sets the delay for hiding affordances.
func WithHideDelay(d time.Duration) Option {
	return func(m *Machine) {
		if d >= 0 {
			m.hideDelay = d
		}
	}
}

// InsertHook is called after a component has been inserted, with the
// identifier of the new element and the property values it was generated
// with.
type InsertHook func(id dom.ElementID, c *registry.Component, props registry.Values)

// WithInsertHook registers a hook for insertions.
func WithInsertHook(hook InsertHook) Option {
	return func(m *Machine) {
		m.onInsert = hook
	}
}

// Machine is the selection and insertion state machine of a session.
type Machine struct {
	doc       *dom.Document
	reg       *registry.Registry
	sync      *treesync.Synchronizer
	sched     Scheduler
	hideDelay time.Duration
	onInsert  InsertHook

	selected dom.ElementID
	hovered  dom.ElementID
	pending  dom.Location

	affordances []Affordance // nil if hidden
	cancelHide  func()       // non-nil while a hide is scheduled
	hideSeq     int          // invalidates hide callbacks already posted
}

// New creates a state machine in state Idle. The synchronizer's notion of
// the current selection is bound to the machine.
func New(doc *dom.Document, reg *registry.Registry, sync *treesync.Synchronizer,
	sched Scheduler, opts ...Option) *Machine {
	//
	m := &Machine{
		doc:       doc,
		reg:       reg,
		sync:      sync,
		sched:     sched,
		hideDelay: DefaultHideDelay,
	}
	for _, opt := range opts {
		opt(m)
	}
	sync.SetSelectionSource(m.SelectedID)
	return m
}

// State returns the current interaction state.
func (m *Machine) State() State {
	if m.pending != dom.NoLocation {
		return LocationPending
	}
	if !m.selected.IsNone() {
		return Selected
	}
	return Idle
}

// SelectedID returns the selected element, or dom.NoElement.
func (m *Machine) SelectedID() dom.ElementID {
	return m.selected
}

// HoveredID returns the element under the pointer, or dom.NoElement.
func (m *Machine) HoveredID() dom.ElementID {
	return m.hovered
}

// Pending returns the pending insertion location, or dom.NoLocation.
func (m *Machine) Pending() dom.Location {
	return m.pending
}

// Reset returns the machine to state Idle, e.g. after the document has been
// reloaded.
func (m *Machine) Reset() {
	m.stopHideTimer()
	m.selected, m.hovered = dom.NoElement, dom.NoElement
	m.pending = dom.NoLocation
	m.affordances = nil
}

// SelectElement selects an element and moves the highlight marker to it.
// Any pending location and the hovered element are cleared.
func (m *Machine) SelectElement(id dom.ElementID) error {
	if !m.doc.Loaded() {
		return ErrNotLoaded
	}
	if _, ok := m.doc.Resolve(id); !ok {
		return fmt.Errorf("%w: %s", dom.ErrUnknownElement, id)
	}
	if err := m.doc.Highlight(id); err != nil {
		return err
	}
	m.stopHideTimer()
	m.selected = id
	m.hovered = dom.NoElement
	m.pending = dom.NoLocation
	m.affordances = nil
	if !m.sync.MarkSelected(id) {
		tracer().Debugf("selected element %s is not yet mirrored", id)
	}
	tracer().Infof("selected %s", id)
	return nil
}

// Hover records the element under the pointer and computes its
// affordances. While a location is pending, hovering is ignored.
// Hovering <body> or an element whose component offers no actions hides
// the affordances.
func (m *Machine) Hover(id dom.ElementID) error {
	if m.pending != dom.NoLocation {
		return nil
	}
	n, ok := m.doc.Resolve(id)
	if !ok {
		return fmt.Errorf("%w: %s", dom.ErrUnknownElement, id)
	}
	if m.doc.IsBody(n) {
		m.HideAffordances()
		return nil
	}
	m.stopHideTimer()
	m.hovered = id
	c := m.reg.ForElement(m.doc.ComponentName(n))
	if len(c.Actions) == 0 {
		m.affordances = nil
		return nil
	}
	box, ok := m.doc.BoundingBox(n)
	if !ok {
		tracer().Debugf("no geometry reported for %s", id)
	}
	m.affordances = affordancesFor(c, box)
	return nil
}

// ChooseLocation enters state LocationPending for a location. A hovered
// element is promoted to be the selection first. Affordances are hidden.
func (m *Machine) ChooseLocation(loc dom.Location) error {
	if loc == dom.NoLocation {
		return fmt.Errorf("%w: %s", dom.ErrInvalidLocation, loc)
	}
	if !m.hovered.IsNone() && m.hovered != m.selected {
		if err := m.SelectElement(m.hovered); err != nil {
			return err
		}
	}
	if m.selected.IsNone() {
		return ErrNoSelection
	}
	m.stopHideTimer()
	m.hovered = dom.NoElement
	m.affordances = nil
	m.pending = loc
	tracer().Debugf("location %s pending for %s", loc, m.selected)
	return nil
}

// CancelLocation clears a pending location.
func (m *Machine) CancelLocation() {
	m.stopHideTimer()
	m.pending = dom.NoLocation
}

// component returns the component definition for an element. <body> is
// represented by the registry's body pseudo component.
func (m *Machine) component(n *html.Node) *registry.Component {
	if m.doc.IsBody(n) {
		return m.reg.Body()
	}
	return m.reg.ForElement(m.doc.ComponentName(n))
}

// AvailableActions returns the actions offered for the selected element.
// While a location is pending, only actions for that location are
// returned.
func (m *Machine) AvailableActions() []registry.Action {
	if m.selected.IsNone() {
		return nil
	}
	n, ok := m.doc.Resolve(m.selected)
	if !ok {
		return nil
	}
	return m.component(n).ActionsAt(m.pending)
}

// ExecuteAction inserts a new element of the component named by an action
// next to, or into, the selected element. The pending location takes
// precedence over the action's location. After the insertion the mirror is
// refreshed and the new element becomes the selection.
//
// If the action fails, the document, the mirror and the selection are
// unchanged.
func (m *Machine) ExecuteAction(action registry.Action) (dom.ElementID, error) {
	if !m.doc.Loaded() {
		return dom.NoElement, ErrNotLoaded
	}
	if m.selected.IsNone() {
		return dom.NoElement, ErrNoSelection
	}
	target, ok := m.doc.Resolve(m.selected)
	if !ok {
		return dom.NoElement, fmt.Errorf("%w: %s", ErrNoSelection, m.selected)
	}
	c, ok := m.reg.Lookup(action.Insert)
	if !ok || !c.Insertable() {
		tracer().Errorf("action %s names unknown component %q", action, action.Insert)
		return dom.NoElement, fmt.Errorf("%w: %q", ErrUnknownComponent, action.Insert)
	}
	loc := m.pending
	if loc == dom.NoLocation {
		loc = action.Location
	}
	id := m.doc.NewID()
	props := c.Defaults()
	markup, err := c.Generate(id, props)
	if err != nil {
		return dom.NoElement, err
	}
	n, err := m.doc.Insert(target, loc, markup)
	if err != nil {
		return dom.NoElement, err
	}
	newID := m.doc.IDOf(n)
	tracer().Infof("inserted %s %s %s", c.Name, loc, m.selected)
	if m.onInsert != nil {
		m.onInsert(newID, c, props)
	}
	m.sync.Refresh()
	return newID, m.SelectElement(newID)
}

// ExecuteActionAt executes one of the currently available actions, given
// by its index.
func (m *Machine) ExecuteActionAt(i int) (dom.ElementID, error) {
	actions := m.AvailableActions()
	if m.selected.IsNone() {
		return dom.NoElement, ErrNoSelection
	}
	if i < 0 || i >= len(actions) {
		return dom.NoElement, fmt.Errorf("%w: no action #%d", ErrUnknownAction, i)
	}
	return m.ExecuteAction(actions[i])
}

// --- Affordance visibility --------------------------------------------

// Affordances returns the currently visible affordances.
func (m *Machine) Affordances() []Affordance {
	return append([]Affordance(nil), m.affordances...)
}

// HideAffordances hides the affordances and forgets the hovered element.
func (m *Machine) HideAffordances() {
	m.stopHideTimer()
	m.hovered = dom.NoElement
	m.affordances = nil
}

// LeaveDocument schedules hiding the affordances, as the pointer may only
// be crossing over to one of them.
func (m *Machine) LeaveDocument() {
	if m.cancelHide != nil || m.affordances == nil {
		return
	}
	m.hideSeq++
	seq := m.hideSeq
	m.cancelHide = m.sched.AfterFunc(m.hideDelay, func() {
		if seq != m.hideSeq {
			return
		}
		m.cancelHide = nil
		m.HideAffordances()
	})
}

// EnterAffordance cancels a scheduled hide.
func (m *Machine) EnterAffordance() {
	m.stopHideTimer()
}

// HidePending is a predicate wether hiding the affordances is scheduled.
func (m *Machine) HidePending() bool {
	return m.cancelHide != nil
}

// Scrolled hides the affordances, unless a location is pending.
func (m *Machine) Scrolled() {
	if m.pending == dom.NoLocation {
		m.HideAffordances()
	}
}

func (m *Machine) stopHideTimer() {
	m.hideSeq++
	if m.cancelHide != nil {
		m.cancelHide()
		m.cancelHide = nil
	}
}

// --- Snapshot ---------------------------------------------------------

// Snapshot is an exportable copy of the machine's state.
type Snapshot struct {
	State          State         `json:"state"`
	SelectedID     dom.ElementID `json:"selected,omitempty"`
	SelectedName   string        `json:"selectedName,omitempty"` // component or tag name
	SelectedTag    string        `json:"selectedTag,omitempty"`
	HoveredID      dom.ElementID `json:"hovered,omitempty"`
	Pending        dom.Location  `json:"pending,omitempty"`
	PendingLabel   string        `json:"pendingLabel,omitempty"`
	Affordances    []Affordance  `json:"affordances"`
	ActionsOffered int           `json:"actionsOffered"`
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		State:          m.State(),
		SelectedID:     m.selected,
		HoveredID:      m.hovered,
		Pending:        m.pending,
		PendingLabel:   m.pending.Label(),
		Affordances:    m.Affordances(),
		ActionsOffered: len(m.AvailableActions()),
	}
	if n, ok := m.doc.Resolve(m.selected); ok {
		s.SelectedTag = n.Data
		s.SelectedName = m.component(n).Name
		if s.SelectedName == m.reg.Fallback().Name {
			s.SelectedName = m.doc.ComponentName(n)
		}
	}
	return s
}
