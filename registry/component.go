/*
Package registry is the catalog of components a page can be built from.

A component has a name, a generator producing its markup, the insertion
actions it offers and the schema of its editable properties. The catalog is
defined once at process start, from a built-in table and optionally from a
YAML catalog file, and is immutable afterwards.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package registry

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/uxbuilder/dom"
)

// tracer traces with key 'uxb.registry'.
func tracer() tracing.Trace {
	return tracing.Select("uxb.registry")
}

// PropertyKind is the type of an editable property.
type PropertyKind int8

// Kinds of properties.
const (
	ColorProperty PropertyKind = iota
	NumberProperty
)

func (k PropertyKind) String() string {
	if k == NumberProperty {
		return "number"
	}
	return "color"
}

// MarshalText implements encoding.TextMarshaler.
func (k PropertyKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PropertyKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "color":
		*k = ColorProperty
	case "number":
		*k = NumberProperty
	default:
		return fmt.Errorf("%w: unknown property kind %q", ErrInvalidCatalog, text)
	}
	return nil
}

// PropertySpec describes an editable property. Properties are stored in
// the inline style of an element, under key CSS; numbers are written with
// Unit appended and read back with the unit stripped.
type PropertySpec struct {
	Name    string       `yaml:"name" json:"name"`
	Label   string       `yaml:"label" json:"label,omitempty"`
	Kind    PropertyKind `yaml:"kind" json:"kind"`
	Default string       `yaml:"default" json:"default"`
	Min     *float64     `yaml:"min" json:"min,omitempty"`
	Max     *float64     `yaml:"max" json:"max,omitempty"`
	CSS     string       `yaml:"css" json:"css"`
	Unit    string       `yaml:"unit" json:"unit,omitempty"`
}

// Values maps property names to property values.
type Values map[string]string

// Action is an insertion offered by a component: insert component Insert
// at Location relative to an element of the offering component.
type Action struct {
	Label    string       `yaml:"label" json:"label"`
	Location dom.Location `yaml:"location" json:"location"`
	Insert   string       `yaml:"insert" json:"insert"`
}

func (a Action) String() string {
	return fmt.Sprintf("%s(%s %s)", a.Label, a.Location, a.Insert)
}

// Layout is the direction in which a component lays out its siblings.
// It determines where insertion affordances are placed: horizontal
// components get them left and right, vertical ones above and below.
type Layout int8

// Layout directions.
const (
	Vertical Layout = iota
	Horizontal
)

func (l Layout) String() string {
	if l == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Layout) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "vertical":
		*l = Vertical
	case "horizontal":
		*l = Horizontal
	default:
		return fmt.Errorf("%w: unknown layout %q", ErrInvalidCatalog, text)
	}
	return nil
}

// Generator produces the markup for a new element of a component, carrying
// the given identifier and property values.
type Generator func(id dom.ElementID, props Values) (string, error)

// Component is a component definition. Components are immutable once
// registered.
type Component struct {
	Name       string
	Generate   Generator // nil for pseudo components, which cannot be inserted
	Actions    []Action
	Properties []PropertySpec
	Layout     Layout
}

// Defaults returns the default values of all properties of a component.
func (c *Component) Defaults() Values {
	v := make(Values, len(c.Properties))
	for _, p := range c.Properties {
		v[p.Name] = p.Default
	}
	return v
}

// Supports is a predicate wether the component offers an action at loc.
func (c *Component) Supports(loc dom.Location) bool {
	for _, a := range c.Actions {
		if a.Location == loc {
			return true
		}
	}
	return false
}

// ActionsAt returns the component's actions for a location, in order.
// With NoLocation, all actions are returned.
func (c *Component) ActionsAt(loc dom.Location) []Action {
	if loc == dom.NoLocation {
		return append([]Action(nil), c.Actions...)
	}
	var actions []Action
	for _, a := range c.Actions {
		if a.Location == loc {
			actions = append(actions, a)
		}
	}
	return actions
}

// Property looks up a property by name.
func (c *Component) Property(name string) (PropertySpec, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return PropertySpec{}, false
}

// Insertable is a predicate wether new elements of c can be generated.
func (c *Component) Insertable() bool {
	return c != nil && c.Generate != nil
}
