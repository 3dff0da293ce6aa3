package registry

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/dom/style"
)

// Registry is a catalog of components, keyed by name.
type Registry struct {
	components map[string]*Component
	body       *Component
	fallback   *Component
}

// New creates a registry from a set of components. Component names must be
// unique, and every action must insert a component which is part of the
// registry.
func New(components ...*Component) (*Registry, error) {
	r := &Registry{
		components: make(map[string]*Component, len(components)),
	}
	for _, c := range components {
		if c == nil || c.Name == "" {
			return nil, fmt.Errorf("%w: component without name", ErrInvalidCatalog)
		}
		if _, exists := r.components[c.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateComponent, c.Name)
		}
		r.components[c.Name] = c
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	r.body = r.restrict(bodyComponent)
	r.fallback = r.restrict(fallbackComponent)
	return r, nil
}

// restrict copies a pseudo component, dropping actions which insert a
// component the registry does not know.
func (r *Registry) restrict(pseudo *Component) *Component {
	c := *pseudo
	c.Actions = nil
	for _, a := range pseudo.Actions {
		if target, ok := r.components[a.Insert]; ok && target.Insertable() {
			c.Actions = append(c.Actions, a)
		}
	}
	return &c
}

func (r *Registry) validate() error {
	check := func(c *Component) error {
		for _, a := range c.Actions {
			if a.Location == dom.NoLocation {
				return fmt.Errorf("%w: action %q of %q has no location", ErrInvalidCatalog, a.Label, c.Name)
			}
			if target, ok := r.components[a.Insert]; !ok || !target.Insertable() {
				return fmt.Errorf("%w: action %q of %q inserts %q", ErrUnknownComponent, a.Label, c.Name, a.Insert)
			}
		}
		for _, p := range c.Properties {
			if p.Name == "" || p.CSS == "" {
				return fmt.Errorf("%w: property of %q needs a name and a CSS key", ErrInvalidCatalog, c.Name)
			}
		}
		return nil
	}
	for _, c := range r.components {
		if err := check(c); err != nil {
			return err
		}
	}
	return nil
}

// Extend returns a new registry holding the components of r plus additional
// ones. Additional components replace components of r with the same name.
func (r *Registry) Extend(components ...*Component) (*Registry, error) {
	merged := make(map[string]*Component, len(r.components)+len(components))
	for name, c := range r.components {
		merged[name] = c
	}
	seen := make(map[string]bool, len(components))
	for _, c := range components {
		if c == nil || c.Name == "" {
			return nil, fmt.Errorf("%w: component without name", ErrInvalidCatalog)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateComponent, c.Name)
		}
		if _, exists := merged[c.Name]; exists {
			tracer().Infof("component %q is redefined", c.Name)
		}
		seen[c.Name] = true
		merged[c.Name] = c
	}
	all := make([]*Component, 0, len(merged))
	for _, c := range merged {
		all = append(all, c)
	}
	return New(all...)
}

// Lookup finds a component by name.
func (r *Registry) Lookup(name string) (*Component, bool) {
	c, ok := r.components[name]
	return c, ok
}

// Names returns the names of all registered components, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Body returns the pseudo component standing in for the document body.
// It is not part of the catalog.
func (r *Registry) Body() *Component {
	return r.body
}

// Fallback returns the pseudo component used for elements which have not
// been inserted from the registry. It is not part of the catalog.
func (r *Registry) Fallback() *Component {
	return r.fallback
}

// ForElement returns the component for a component name found on an
// element, falling back to the fallback pseudo component.
func (r *Registry) ForElement(name string) *Component {
	if c, ok := r.components[name]; ok {
		return c
	}
	return r.fallback
}

// --- Generators -------------------------------------------------------

// TemplateData is the data a component template is executed with.
type TemplateData struct {
	ID        dom.ElementID
	Component string
	Props     Values
	Style     template.CSS // inline style derived from the property values
}

// TemplateGenerator creates a generator from an html/template text.
// The template is executed with TemplateData.
func TemplateGenerator(c *Component, text string) (Generator, error) {
	tmpl, err := template.New(c.Name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: template of %q: %v", ErrInvalidCatalog, c.Name, err)
	}
	return func(id dom.ElementID, props Values) (string, error) {
		data := TemplateData{
			ID:        id,
			Component: c.Name,
			Props:     props,
			Style:     template.CSS(StyleFor(c, props).String()),
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("generating %q: %w", c.Name, err)
		}
		return buf.String(), nil
	}, nil
}

// StyleFor derives inline style declarations from property values, in the
// order of the component's property schema. Empty values are left out.
func StyleFor(c *Component, props Values) style.Declarations {
	var decls style.Declarations
	for _, p := range c.Properties {
		v, ok := props[p.Name]
		if !ok || v == "" {
			continue
		}
		decls = decls.Set(p.CSS, CSSValue(p, v))
	}
	return decls
}

// CSSValue converts a property value to its style representation.
func CSSValue(p PropertySpec, value string) style.Property {
	if p.Kind == NumberProperty {
		return style.WithUnit(value, p.Unit)
	}
	return style.Property(value)
}
