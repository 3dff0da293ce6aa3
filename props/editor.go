/*
Package props implements the property editor.

Editable properties are a small, fixed set per component, declared by the
component's property schema. Property values live in the inline style of
the element in the live document; the editor's per-element value cache is a
convenience only and is rebuilt from the parsed style whenever values are
read.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package props

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/dom/style"
	"github.com/npillmayer/uxbuilder/registry"
	"golang.org/x/net/html"
)

// tracer traces with key 'uxb.props'.
func tracer() tracing.Trace {
	return tracing.Select("uxb.props")
}

// Strategy is the way property changes are written to the live document.
type Strategy int8

// Write strategies. Patch rewrites the style attribute of the element,
// Replace regenerates the element from its component.
const (
	Patch Strategy = iota
	Replace
)

func (s Strategy) String() string {
	if s == Replace {
		return "replace"
	}
	return "patch"
}

// ParseStrategy reads a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "patch":
		return Patch, nil
	case "replace":
		return Replace, nil
	}
	return Patch, fmt.Errorf("unknown property write strategy %q", s)
}

// Editor reads and writes the properties of elements of a live document.
type Editor struct {
	doc      *dom.Document
	reg      *registry.Registry
	strategy Strategy
	cache    map[dom.ElementID]registry.Values
}

// New creates a property editor.
func New(doc *dom.Document, reg *registry.Registry, strategy Strategy) *Editor {
	return &Editor{
		doc:      doc,
		reg:      reg,
		strategy: strategy,
		cache:    make(map[dom.ElementID]registry.Values),
	}
}

// Strategy returns the write strategy of the editor.
func (e *Editor) Strategy() Strategy {
	return e.strategy
}

// DefaultsFor returns the default property values of a component.
func (e *Editor) DefaultsFor(name string) (registry.Values, error) {
	c, ok := e.reg.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", registry.ErrUnknownComponent, name)
	}
	return c.Defaults(), nil
}

// Remember records the values an element has been generated with. It is
// called when a component is inserted.
func (e *Editor) Remember(id dom.ElementID, values registry.Values) {
	e.cache[id] = copyValues(values)
}

// Cached returns the values last seen for an element.
func (e *Editor) Cached(id dom.ElementID) (registry.Values, bool) {
	v, ok := e.cache[id]
	return copyValues(v), ok
}

// Forget clears the value cache, e.g. after the document has been reloaded.
func (e *Editor) Forget() {
	e.cache = make(map[dom.ElementID]registry.Values)
}

func (e *Editor) element(id dom.ElementID) (*html.Node, *registry.Component, error) {
	if !e.doc.Loaded() {
		return nil, nil, dom.ErrNotLoaded
	}
	n, ok := e.doc.Resolve(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", dom.ErrUnknownElement, id)
	}
	if e.doc.IsBody(n) {
		return n, e.reg.Body(), nil
	}
	return n, e.reg.ForElement(e.doc.ComponentName(n)), nil
}

// AvailableProperties returns the property schema for an element.
// Elements not inserted from the registry have no editable properties.
func (e *Editor) AvailableProperties(id dom.ElementID) ([]registry.PropertySpec, error) {
	_, c, err := e.element(id)
	if err != nil {
		return nil, err
	}
	return append([]registry.PropertySpec(nil), c.Properties...), nil
}

// CurrentValues parses the inline style of an element into the properties
// of its schema. Style entries not covered by the schema are ignored;
// properties without a style entry are omitted.
func (e *Editor) CurrentValues(id dom.ElementID) (registry.Values, error) {
	n, c, err := e.element(id)
	if err != nil {
		return nil, err
	}
	values := valuesFromStyle(c, e.doc.Style(n))
	e.cache[id] = values
	return copyValues(values), nil
}

func valuesFromStyle(c *registry.Component, decls style.Declarations) registry.Values {
	values := make(registry.Values, len(c.Properties))
	for _, p := range c.Properties {
		v, ok := decls.Get(p.CSS)
		if !ok || v.IsEmpty() {
			continue
		}
		if p.Kind == registry.NumberProperty {
			values[p.Name] = v.StripUnit()
		} else {
			values[p.Name] = v.String()
		}
	}
	return values
}

// SetProperty sets a property of an element. An empty value removes the
// property from the element's style.
func (e *Editor) SetProperty(id dom.ElementID, name, value string) error {
	n, c, err := e.element(id)
	if err != nil {
		return err
	}
	p, ok := c.Property(name)
	if !ok {
		return fmt.Errorf("%w: %q of %s", ErrUnknownProperty, name, c.Name)
	}
	value = strings.TrimSpace(value)
	if err := Validate(p, value); err != nil {
		return err
	}
	if e.strategy == Replace && c.Insertable() {
		err = e.replace(id, n, c, p, value)
	} else {
		e.patch(n, p, value)
	}
	if err != nil {
		return err
	}
	tracer().Debugf("set %s.%s = %q", id, name, value)
	_, err = e.CurrentValues(id)
	return err
}

func (e *Editor) patch(n *html.Node, p registry.PropertySpec, value string) {
	decls := e.doc.Style(n)
	if value == "" {
		decls = decls.Remove(p.CSS)
	} else {
		decls = decls.Set(p.CSS, registry.CSSValue(p, value))
	}
	e.doc.SetStyle(n, decls)
}

// replace regenerates the element with the new set of values. Style entries
// not covered by the schema are carried over, as are the element's
// children and the highlight marker.
func (e *Editor) replace(id dom.ElementID, n *html.Node, c *registry.Component,
	p registry.PropertySpec, value string) error {
	//
	old := e.doc.Style(n)
	values := valuesFromStyle(c, old)
	if value == "" {
		delete(values, p.Name)
	} else {
		values[p.Name] = value
	}
	markup, err := c.Generate(id, values)
	if err != nil {
		return err
	}
	highlighted := false
	for _, h := range e.doc.Highlighted() {
		highlighted = highlighted || h == id
	}
	m, err := e.doc.Replace(n, markup)
	if err != nil {
		return err
	}
	decls := e.doc.Style(m)
	for _, kv := range old {
		if !covered(c, kv.Key) {
			decls = decls.Set(kv.Key, kv.Value)
		}
	}
	e.doc.SetStyle(m, decls)
	if highlighted {
		return e.doc.Highlight(id)
	}
	return nil
}

func covered(c *registry.Component, key string) bool {
	for _, p := range c.Properties {
		if strings.EqualFold(p.CSS, key) {
			return true
		}
	}
	return false
}

// Validate checks a value against a property's schema. The empty value is
// always valid and means "unset".
func Validate(p registry.PropertySpec, value string) error {
	if value == "" {
		return nil
	}
	v := style.Property(value)
	switch p.Kind {
	case registry.ColorProperty:
		if !v.IsColor() {
			return fmt.Errorf("%w: %s is not a color: %q", ErrInvalidValue, p.Name, value)
		}
	case registry.NumberProperty:
		_, unit, _ := v.SplitUnit()
		f, err := v.Number()
		if err != nil || (unit != "" && unit != strings.ToLower(p.Unit)) {
			return fmt.Errorf("%w: %s is not a number: %q", ErrInvalidValue, p.Name, value)
		}
		if p.Min != nil && f < *p.Min {
			return fmt.Errorf("%w: %s must be at least %g", ErrInvalidValue, p.Name, *p.Min)
		}
		if p.Max != nil && f > *p.Max {
			return fmt.Errorf("%w: %s must be at most %g", ErrInvalidValue, p.Name, *p.Max)
		}
	}
	return nil
}

func copyValues(v registry.Values) registry.Values {
	if v == nil {
		return nil
	}
	c := make(registry.Values, len(v))
	for k, x := range v {
		c[k] = x
	}
	return c
}
