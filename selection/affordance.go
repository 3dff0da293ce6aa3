package selection

import (
	"fmt"
	"strings"

	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/registry"
)

// Side is the placement of an affordance relative to the hovered element.
type Side int8

// Affordance placements.
const (
	Top Side = iota
	Bottom
	Left
	Right
	Center // inside the element
)

var sideNames = [...]string{"top", "bottom", "left", "right", "inside"}

func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return fmt.Sprintf("Side(%d)", int(s))
	}
	return sideNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	for i, name := range sideNames {
		if strings.EqualFold(name, string(text)) {
			*s = Side(i)
			return nil
		}
	}
	return fmt.Errorf("unknown affordance side %q", text)
}

// AffordanceSize is the edge length of an affordance control in pixels.
// Controls are centred on the point they mark.
const AffordanceSize = 24

// Affordance is a directional "add here" control. Top and Left position
// the control in viewport coordinates of the editor.
type Affordance struct {
	Side     Side         `json:"side"`
	Location dom.Location `json:"location"`
	Top      float64      `json:"top"`
	Left     float64      `json:"left"`
}

// affordancesFor computes the affordances for an element's bounding box.
// Sibling affordances follow the layout direction of the component.
func affordancesFor(c *registry.Component, box dom.Rect) []Affordance {
	const half = AffordanceSize / 2
	midX := box.Left + box.Width/2 - half
	midY := box.Top + box.Height/2 - half
	var affs []Affordance
	if c.Supports(dom.Before) {
		if c.Layout == registry.Horizontal {
			affs = append(affs, Affordance{Left, dom.Before, midY, box.Left - half})
		} else {
			affs = append(affs, Affordance{Top, dom.Before, box.Top - half, midX})
		}
	}
	if c.Supports(dom.After) {
		if c.Layout == registry.Horizontal {
			affs = append(affs, Affordance{Right, dom.After, midY, box.Right() - half})
		} else {
			affs = append(affs, Affordance{Bottom, dom.After, box.Bottom() - half, midX})
		}
	}
	if c.Supports(dom.Inside) {
		affs = append(affs, Affordance{Center, dom.Inside, midY, midX})
	}
	return affs
}
