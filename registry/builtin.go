package registry

import "github.com/npillmayer/uxbuilder/dom"

// Pseudo components. They have no generator and may not be inserted.
var (
	bodyComponent = &Component{
		Name: "body",
		Actions: []Action{
			{Label: "Add container", Location: dom.Inside, Insert: "container"},
		},
	}
	fallbackComponent = &Component{
		Name: "default",
		Actions: []Action{
			{Label: "Add row (inside)", Location: dom.Inside, Insert: "row"},
		},
	}
)

func float(f float64) *float64 {
	return &f
}

func backgroundColor(def string) PropertySpec {
	return PropertySpec{
		Name:    "backgroundColor",
		Label:   "Background color",
		Kind:    ColorProperty,
		Default: def,
		CSS:     "background-color",
	}
}

func fontSize(def string) PropertySpec {
	return PropertySpec{
		Name:    "fontSize",
		Label:   "Font size",
		Kind:    NumberProperty,
		Default: def,
		Min:     float(8),
		Max:     float(72),
		CSS:     "font-size",
		Unit:    "px",
	}
}

const (
	containerTmpl = `<div class="container" data-builder-id="{{ .ID }}" data-component-name="{{ .Component }}"` +
		`{{ if .Style }} style="{{ .Style }}"{{ end }}><p>Container - add rows here</p></div>`
	rowTmpl = `<div class="row" data-builder-id="{{ .ID }}" data-component-name="{{ .Component }}"` +
		`{{ if .Style }} style="{{ .Style }}"{{ end }}></div>`
	colTmpl = `<div class="col" data-builder-id="{{ .ID }}" data-component-name="{{ .Component }}"` +
		`{{ if .Style }} style="{{ .Style }}"{{ end }}></div>`
	buttonTmpl = `<button type="button" class="btn" data-builder-id="{{ .ID }}" data-component-name="{{ .Component }}"` +
		`{{ if .Style }} style="{{ .Style }}"{{ end }}>Click Me</button>`
)

// Builtin returns the built-in component catalog: container, row, col and
// button.
func Builtin() *Registry {
	container := &Component{
		Name: "container",
		Actions: []Action{
			{Label: "Add row", Location: dom.Inside, Insert: "row"},
			{Label: "Add button", Location: dom.Inside, Insert: "button"},
		},
		Properties: []PropertySpec{backgroundColor("#ffffff")},
	}
	row := &Component{
		Name: "row",
		Actions: []Action{
			{Label: "Add column", Location: dom.Inside, Insert: "col"},
			{Label: "Add row (inside)", Location: dom.Inside, Insert: "row"},
			{Label: "Add row above", Location: dom.Before, Insert: "row"},
			{Label: "Add row below", Location: dom.After, Insert: "row"},
		},
		Properties: []PropertySpec{backgroundColor("")},
	}
	col := &Component{
		Name:   "col",
		Layout: Horizontal,
		Actions: []Action{
			{Label: "Add row (inside)", Location: dom.Inside, Insert: "row"},
			{Label: "Add column left", Location: dom.Before, Insert: "col"},
			{Label: "Add column right", Location: dom.After, Insert: "col"},
			{Label: "Add button", Location: dom.Inside, Insert: "button"},
		},
		Properties: []PropertySpec{backgroundColor("")},
	}
	button := &Component{
		Name:       "button",
		Properties: []PropertySpec{backgroundColor("#0d6efd"), fontSize("16")},
	}
	container.Generate = MustTemplateGenerator(container, containerTmpl)
	row.Generate = MustTemplateGenerator(row, rowTmpl)
	col.Generate = MustTemplateGenerator(col, colTmpl)
	button.Generate = MustTemplateGenerator(button, buttonTmpl)
	r, err := New(container, row, col, button)
	if err != nil {
		panic(err)
	}
	return r
}

// MustTemplateGenerator is like TemplateGenerator, but panics if the
// template cannot be parsed.
func MustTemplateGenerator(c *Component, text string) Generator {
	g, err := TemplateGenerator(c, text)
	if err != nil {
		panic(err)
	}
	return g
}
