package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// A catalog file lists component definitions in YAML:
//
//     components:
//       - name: card
//         layout: vertical
//         template: |
//           <div class="card" data-builder-id="{{ .ID }}" data-component-name="{{ .Component }}"
//             {{ if .Style }}style="{{ .Style }}"{{ end }}></div>
//         actions:
//           - { label: "Add row", location: INSIDE, insert: row }
//         properties:
//           - { name: backgroundColor, kind: color, default: "#ffffff", css: background-color }
//
// Templates are html/template texts, executed with TemplateData.
type catalogFile struct {
	Components []componentDef `yaml:"components"`
}

type componentDef struct {
	Name       string         `yaml:"name"`
	Layout     Layout         `yaml:"layout"`
	Template   string         `yaml:"template"`
	Actions    []Action       `yaml:"actions"`
	Properties []PropertySpec `yaml:"properties"`
}

// ReadCatalog reads component definitions from a YAML catalog.
func ReadCatalog(r io.Reader) ([]*Component, error) {
	var cat catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	components := make([]*Component, 0, len(cat.Components))
	for _, def := range cat.Components {
		if def.Name == "" {
			return nil, fmt.Errorf("%w: component without name", ErrInvalidCatalog)
		}
		if def.Template == "" {
			return nil, fmt.Errorf("%w: component %q has no template", ErrInvalidCatalog, def.Name)
		}
		c := &Component{
			Name:       def.Name,
			Layout:     def.Layout,
			Actions:    def.Actions,
			Properties: def.Properties,
		}
		g, err := TemplateGenerator(c, def.Template)
		if err != nil {
			return nil, err
		}
		c.Generate = g
		components = append(components, c)
		tracer().Debugf("catalog defines component %q", c.Name)
	}
	return components, nil
}

// LoadCatalogFile reads a catalog file and returns base extended by its
// components.
func LoadCatalogFile(path string, base *Registry) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	components, err := ReadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	if base == nil {
		return New(components...)
	}
	return base.Extend(components...)
}
