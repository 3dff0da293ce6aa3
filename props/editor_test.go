package props

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<div class="container" data-builder-id="builder-el-1" data-component-name="container"
     style="background-color: #ffffff; margin: 4px"><p>Container</p>
  <div class="row" data-builder-id="builder-el-2" data-component-name="row"></div>
</div>
<button data-builder-id="builder-el-3" data-component-name="button" style="font-size: 16px; color: red">b</button>
<section data-builder-id="builder-el-4"></section>
</body></html>`

func setup(t *testing.T, strategy Strategy) (*dom.Document, *Editor) {
	t.Helper()
	doc := dom.NewDocument(&dom.Counter{})
	require.NoError(t, doc.Load(page))
	return doc, New(doc, registry.Builtin(), strategy)
}

func TestDefaultsFor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.props")
	defer teardown()
	//
	_, e := setup(t, Patch)
	d, err := e.DefaultsFor("container")
	require.NoError(t, err)
	assert.Equal(t, registry.Values{"backgroundColor": "#ffffff"}, d)
	_, err = e.DefaultsFor("carousel")
	assert.ErrorIs(t, err, registry.ErrUnknownComponent)
}

func TestCurrentValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.props")
	defer teardown()
	//
	_, e := setup(t, Patch)
	v, err := e.CurrentValues("builder-el-1")
	require.NoError(t, err)
	assert.Equal(t, registry.Values{"backgroundColor": "#ffffff"}, v, "margin is not part of the schema")
	v, err = e.CurrentValues("builder-el-3")
	require.NoError(t, err)
	assert.Equal(t, registry.Values{"fontSize": "16"}, v, "absent entries are omitted, units stripped")
	v, err = e.CurrentValues("builder-el-2")
	require.NoError(t, err)
	assert.Empty(t, v)
	props, err := e.AvailableProperties("builder-el-4")
	require.NoError(t, err)
	assert.Empty(t, props, "untagged elements have no properties")
	_, err = e.CurrentValues("builder-el-99")
	assert.ErrorIs(t, err, dom.ErrUnknownElement)
}

func TestPropertyRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.props")
	defer teardown()
	//
	for _, strategy := range []Strategy{Patch, Replace} {
		doc, e := setup(t, strategy)
		require.NoError(t, doc.Highlight("builder-el-2"))
		require.NoError(t, e.SetProperty("builder-el-2", "backgroundColor", "#ff0000"), strategy.String())
		v, err := e.CurrentValues("builder-el-2")
		require.NoError(t, err)
		assert.Equal(t, "#ff0000", v["backgroundColor"], strategy.String())
		require.NoError(t, e.SetProperty("builder-el-2", "backgroundColor", "#00ff00"))
		n, _ := doc.Resolve("builder-el-2")
		assert.Equal(t, "background-color: #00ff00", doc.Attr(n, "style"), "prior entry is replaced")
		require.NoError(t, e.SetProperty("builder-el-2", "backgroundColor", ""))
		v, err = e.CurrentValues("builder-el-2")
		require.NoError(t, err)
		_, present := v["backgroundColor"]
		assert.False(t, present, "cleared property must be absent")
		assert.Equal(t, []dom.ElementID{"builder-el-2"}, doc.Highlighted(),
			"highlight must survive with strategy %s", strategy)
	}
}

func TestNumbersKeepOtherStyles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.props")
	defer teardown()
	//
	for _, strategy := range []Strategy{Patch, Replace} {
		doc, e := setup(t, strategy)
		require.NoError(t, e.SetProperty("builder-el-3", "fontSize", "20"))
		n, ok := doc.Resolve("builder-el-3")
		require.True(t, ok)
		decls := doc.Style(n)
		fs, _ := decls.Get("font-size")
		assert.Equal(t, "20px", fs.String(), strategy.String())
		c, _ := decls.Get("color")
		assert.Equal(t, "red", c.String(), "unrelated style entries must survive (%s)", strategy)
		v, _ := e.CurrentValues("builder-el-3")
		assert.Equal(t, "20", v["fontSize"])
		assert.Equal(t, "b", n.FirstChild.Data, "children must survive")
	}
}

func TestSetPropertyRejections(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.props")
	defer teardown()
	//
	doc, e := setup(t, Patch)
	assert.ErrorIs(t, e.SetProperty("builder-el-2", "fontSize", "12"), ErrUnknownProperty)
	assert.ErrorIs(t, e.SetProperty("builder-el-3", "fontSize", "100"), ErrInvalidValue)
	assert.ErrorIs(t, e.SetProperty("builder-el-3", "fontSize", "4"), ErrInvalidValue)
	assert.ErrorIs(t, e.SetProperty("builder-el-3", "fontSize", "2em"), ErrInvalidValue)
	assert.ErrorIs(t, e.SetProperty("builder-el-3", "backgroundColor", "not-a-color"), ErrInvalidValue)
	assert.NoError(t, e.SetProperty("builder-el-3", "fontSize", "12px"))
	assert.NoError(t, e.SetProperty("builder-el-3", "backgroundColor", "rgb(1, 2, 3)"))
	n, _ := doc.Resolve("builder-el-3")
	fs, _ := doc.Style(n).Get("font-size")
	assert.Equal(t, "12px", fs.String())
}

func TestCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.props")
	defer teardown()
	//
	_, e := setup(t, Patch)
	e.Remember("builder-el-2", registry.Values{"backgroundColor": ""})
	v, ok := e.Cached("builder-el-2")
	require.True(t, ok)
	assert.Equal(t, registry.Values{"backgroundColor": ""}, v)
	_, _ = e.CurrentValues("builder-el-2")
	v, _ = e.Cached("builder-el-2")
	assert.Empty(t, v, "cache is rebuilt from the live style")
	e.Forget()
	_, ok = e.Cached("builder-el-2")
	assert.False(t, ok)
}

func TestStrategies(t *testing.T) {
	s, err := ParseStrategy("Replace")
	require.NoError(t, err)
	assert.Equal(t, Replace, s)
	s, err = ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, Patch, s)
	_, err = ParseStrategy("rewrite")
	assert.Error(t, err)
}
