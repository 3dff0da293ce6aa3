package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// PointerKind classifies pointer events forwarded by the embedded view.
type PointerKind int8

// Kinds of pointer events.
const (
	Click  PointerKind = iota // element clicked
	Move                      // pointer moved over an element
	Leave                     // pointer left the embedded view
	Scroll                    // embedded view scrolled
	Resize                    // editor window resized
)

var pointerKindNames = [...]string{"click", "move", "leave", "scroll", "resize"}

func (k PointerKind) String() string {
	if k < 0 || int(k) >= len(pointerKindNames) {
		return fmt.Sprintf("PointerKind(%d)", int(k))
	}
	return pointerKindNames[k]
}

// ParsePointerKind reads the name of a pointer event kind.
func ParsePointerKind(s string) (PointerKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "mousemove", "mouseover":
		return Move, nil
	case "mouseleave":
		return Leave, nil
	}
	for i, name := range pointerKindNames {
		if name == s {
			return PointerKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown pointer event kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k PointerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PointerKind) UnmarshalText(text []byte) error {
	kind, err := ParsePointerKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// PointerEvent is an event forwarded by the embedded view. The target is
// given either by identifier or, for elements the view has not seen an
// identifier for, by a path of element-child indices from <body>. Events
// without target (Leave, Scroll, Resize) leave both empty.
type PointerEvent struct {
	Kind   PointerKind `json:"kind"`
	Target ElementID   `json:"target,omitempty"`
	Path   []int       `json:"path,omitempty"`
	Rect   *Rect       `json:"rect,omitempty"`  // target rectangle, local to the frame
	Frame  *Rect       `json:"frame,omitempty"` // frame rectangle (Resize)
}

// Handler is called for a dispatched pointer event. id is the resolved
// identifier of the event target, or NoElement for events without target.
type Handler func(id ElementID, ev PointerEvent)

type route struct {
	kind    PointerKind
	match   Matcher
	handler Handler
}

// OnPointerEvent registers a handler for every pointer event of a kind.
func (doc *Document) OnPointerEvent(kind PointerKind, handler Handler) {
	doc.OnPointerEventWhere(kind, Any, handler)
}

// OnPointerEventWhere registers a handler for pointer events of a kind
// whose target matches a predicate.
func (doc *Document) OnPointerEventWhere(kind PointerKind, match Matcher, handler Handler) {
	if handler == nil {
		return
	}
	if match == nil {
		match = Any
	}
	doc.routes = append(doc.routes, route{kind: kind, match: match, handler: handler})
}

// Dispatch delivers a pointer event to every matching route, exactly once
// per route. The event target is resolved first; targets without an
// identifier are assigned one. Rectangles carried by the event are recorded
// before any handler runs. Dispatch returns the number of handlers called.
func (doc *Document) Dispatch(ev PointerEvent) (int, error) {
	if !doc.Loaded() {
		return 0, ErrNotLoaded
	}
	id, err := doc.eventTarget(ev)
	if err != nil {
		return 0, err
	}
	if ev.Rect != nil {
		doc.ReportRect(id, *ev.Rect)
	}
	if ev.Frame != nil {
		doc.SetFrameRect(*ev.Frame)
	}
	ev.Target = id
	routes := doc.routes // handlers may register further routes
	cnt := 0
	for _, r := range routes {
		if r.kind == ev.Kind && r.match(doc, id) {
			r.handler(id, ev)
			cnt++
		}
	}
	tracer().Debugf("%s on %q dispatched to %d handlers", ev.Kind, id, cnt)
	return cnt, nil
}

func (doc *Document) eventTarget(ev PointerEvent) (ElementID, error) {
	var n *html.Node
	switch {
	case !ev.Target.IsNone():
		var ok bool
		if n, ok = doc.Resolve(ev.Target); !ok {
			return NoElement, fmt.Errorf("%w: %s", ErrUnknownElement, ev.Target)
		}
	case ev.Path != nil:
		var err error
		if n, err = doc.ElementAt(ev.Path); err != nil {
			return NoElement, err
		}
	case ev.Kind == Click || ev.Kind == Move:
		n = doc.body
	default:
		return NoElement, nil
	}
	return doc.IDOf(n), nil
}
