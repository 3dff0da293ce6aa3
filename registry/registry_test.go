package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/uxbuilder/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinCatalog(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.registry")
	defer teardown()
	//
	r := Builtin()
	assert.Equal(t, []string{"button", "col", "container", "row"}, r.Names())
	row, ok := r.Lookup("row")
	require.True(t, ok)
	assert.Len(t, row.Actions, 4)
	assert.Len(t, row.ActionsAt(dom.Inside), 2)
	assert.True(t, row.Supports(dom.After))
	col, _ := r.Lookup("col")
	assert.Equal(t, Horizontal, col.Layout)
	button, _ := r.Lookup("button")
	assert.Empty(t, button.Actions)
	for _, name := range []string{"container", "col"} {
		c, _ := r.Lookup(name)
		inserts := []string{}
		for _, a := range c.ActionsAt(dom.Inside) {
			inserts = append(inserts, a.Insert)
		}
		assert.Contains(t, inserts, "button", "%s must offer to insert a button", name)
	}
	assert.Equal(t, Values{"backgroundColor": "#0d6efd", "fontSize": "16"}, button.Defaults())
	if _, ok := r.Lookup("carousel"); ok {
		t.Errorf("did not expect to find component 'carousel'")
	}
}

func TestPseudoComponents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.registry")
	defer teardown()
	//
	r := Builtin()
	body := r.Body()
	assert.False(t, body.Insertable())
	require.Len(t, body.Actions, 1)
	assert.Equal(t, "container", body.Actions[0].Insert)
	assert.Equal(t, "default", r.ForElement("div").Name)
	assert.Equal(t, "row", r.ForElement("row").Name)
	assert.Equal(t, "row", r.Fallback().Actions[0].Insert)
}

func TestGeneratedMarkup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.registry")
	defer teardown()
	//
	r := Builtin()
	container, _ := r.Lookup("container")
	markup, err := container.Generate("builder-el-3", container.Defaults())
	require.NoError(t, err)
	assert.Contains(t, markup, `data-builder-id="builder-el-3"`)
	assert.Contains(t, markup, `data-component-name="container"`)
	assert.Contains(t, markup, `style="background-color: #ffffff"`)
	assert.Contains(t, markup, `<p>Container - add rows here</p>`)
	//
	row, _ := r.Lookup("row")
	markup, err = row.Generate("builder-el-4", row.Defaults())
	require.NoError(t, err)
	assert.NotContains(t, markup, "style=")
	//
	button, _ := r.Lookup("button")
	markup, err = button.Generate("builder-el-5", Values{"backgroundColor": "red", "fontSize": "20"})
	require.NoError(t, err)
	assert.Contains(t, markup, `style="background-color: red; font-size: 20px"`)
	assert.Contains(t, markup, `>Click Me</button>`)
}

func TestRegistryValidation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.registry")
	defer teardown()
	//
	a := &Component{Name: "a", Generate: func(dom.ElementID, Values) (string, error) { return "<i></i>", nil }}
	_, err := New(a, a)
	assert.True(t, errors.Is(err, ErrDuplicateComponent))
	b := &Component{Name: "b", Actions: []Action{{Label: "x", Location: dom.Inside, Insert: "nope"}}}
	_, err = New(a, b)
	assert.True(t, errors.Is(err, ErrUnknownComponent))
	c := &Component{Name: "c", Actions: []Action{{Label: "x", Insert: "a"}}}
	_, err = New(a, c)
	assert.True(t, errors.Is(err, ErrInvalidCatalog))
	r, err := New(a)
	require.NoError(t, err)
	assert.Empty(t, r.Body().Actions, "body may only offer registered components")
}

const catalog = `
components:
  - name: card
    layout: horizontal
    template: |
      <section data-builder-id="{{ .ID }}" data-component-name="{{ .Component }}"{{ if .Style }} style="{{ .Style }}"{{ end }}></section>
    actions:
      - { label: "Add row", location: ADD_CHILD, insert: row }
      - { label: "Add card after", location: AFTER, insert: card }
    properties:
      - { name: fontSize, kind: number, default: "12", min: 6, max: 40, css: font-size, unit: px }
`

func TestCatalog(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.registry")
	defer teardown()
	//
	components, err := ReadCatalog(strings.NewReader(catalog))
	require.NoError(t, err)
	require.Len(t, components, 1)
	card := components[0]
	assert.Equal(t, Horizontal, card.Layout)
	assert.Equal(t, dom.Inside, card.Actions[0].Location)
	p, ok := card.Property("fontSize")
	require.True(t, ok)
	assert.Equal(t, NumberProperty, p.Kind)
	require.NotNil(t, p.Max)
	assert.Equal(t, 40.0, *p.Max)
	r, err := Builtin().Extend(components...)
	require.NoError(t, err)
	assert.Equal(t, []string{"button", "card", "col", "container", "row"}, r.Names())
	markup, err := card.Generate("builder-el-1", card.Defaults())
	require.NoError(t, err)
	assert.Contains(t, markup, `style="font-size: 12px"`)
	// without the built-ins, 'row' is unknown
	_, err = New(components...)
	assert.True(t, errors.Is(err, ErrUnknownComponent))
}

func TestMalformedCatalog(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.registry")
	defer teardown()
	//
	for _, text := range []string{
		"components:\n  - name: x\n",
		"components:\n  - name: x\n    template: '<i></i>'\n    layout: diagonal\n",
		"components:\n  - name: x\n    template: '<i></i>'\n    actions:\n      - { label: a, location: AROUND, insert: x }\n",
		"components:\n  - name: x\n    template: '{{ .Nope'\n",
		"widgets: []\n",
	} {
		if _, err := ReadCatalog(strings.NewReader(text)); err == nil {
			t.Errorf("expected catalog to be rejected: %q", text)
		}
	}
}
