package dom

import "github.com/microcosm-cc/bluemonday"

// EditorPolicy returns a sanitizing policy for imported page markup. It
// builds on the user-generated-content policy and additionally keeps what
// page layouts and the editor itself depend on: class and style attributes,
// data attributes (including the editor's own bookkeeping) and buttons.
// Scripts and event handler attributes are removed.
func EditorPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class", "style").Globally()
	p.AllowDataAttributes()
	p.AllowElements("button", "main", "header", "footer", "nav")
	p.AllowAttrs("type").Matching(bluemonday.SpaceSeparatedTokens).OnElements("button")
	return p
}
