/*
Package domdbg implements helpers to debug a live document.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>


*/
package domdbg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"text/template"

	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/dom/style"
	"golang.org/x/net/html"
)

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname       string
	StyleGroups    []string
	NodeTmpl       *template.Template
	EdgeTmpl       *template.Template
	StylegroupTmpl *template.Template
	PgedgeTmpl     *template.Template
}

var defaultGroups = []string{
	style.PGColor,
	style.PGText,
	style.PGDimension,
	style.PGBorder,
	style.PGX,
}

// ToGraphViz outputs a diagram for the element tree of a live document,
// starting at <body>. The diagram is in GraphViz (DOT) format. Each element
// is labelled with its tag, its component name and its identifier; inline
// styles belonging to one of styleGroups are attached as a record.
//
// If the client does not provide a list of style groups, the following
// default will be used:
//
//     - Color
//     - Text
//     - Dimension
//     - Border
//     - X (everything else)
//
func ToGraphViz(doc *dom.Document, w io.Writer, styleGroups []string) error {
	if !doc.Loaded() {
		return dom.ErrNotLoaded
	}
	tmpl, err := template.New("dom").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.NodeTmpl = template.Must(template.New("domnode").Parse(domNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("domedge").Parse(domEdgeTmpl))
	gparams.StylegroupTmpl = template.Must(template.New("stylegroup").Parse(styleGroupTmpl))
	gparams.PgedgeTmpl = template.Must(template.New("pgedge").Parse(pgEdgeTmpl))
	gparams.StyleGroups = styleGroups
	if styleGroups == nil {
		gparams.StyleGroups = defaultGroups
	}
	if err = tmpl.Execute(w, gparams); err != nil {
		return err
	}
	dict := make(map[*html.Node]string, 256)
	if err = nodes(doc, doc.Body(), w, dict, &gparams); err != nil {
		return err
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

// Dotty is a helper for testing. Given a document and a testing.T, it will
// create a Graphiviz image of the element tree and write it to a file in
// the current folder, choosing a unique file name.
// The image is in SVG format.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
//
func Dotty(doc *dom.Document, t *testing.T) {
	tmpfile, err := os.CreateTemp(".", "dom.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing DOM digraph to %s\n", tmpfile.Name())
	if err := ToGraphViz(doc, tmpfile, nil); err != nil {
		t.Error(err)
		return
	}
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Logf("writing DOM tree image to %s.svg\n", tmpfile.Name())
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

type node struct {
	Name      string
	Tag       string
	Component string
	ID        dom.ElementID
}

func nodes(doc *dom.Document, n *html.Node, w io.Writer, dict map[*html.Node]string,
	gparams *graphParamsType) error {
	//
	if err := domNode(doc, n, w, dict, gparams); err != nil {
		return err
	}
	for _, ch := range doc.Children(n) {
		if err := nodes(doc, ch, w, dict, gparams); err != nil {
			return err
		}
		e := edge{dict[n], dict[ch]}
		if err := gparams.EdgeTmpl.Execute(w, e); err != nil {
			return err
		}
	}
	return nil
}

func domNode(doc *dom.Document, n *html.Node, w io.Writer, dict map[*html.Node]string,
	gparams *graphParamsType) error {
	//
	name := fmt.Sprintf("node%05d", len(dict)+1)
	dict[n] = name
	gn := &node{
		Name: name,
		Tag:  n.Data,
		ID:   dom.ElementID(doc.Attr(n, dom.AttrID)),
	}
	if c := doc.ComponentName(n); c != n.Data {
		gn.Component = c
	}
	if err := gparams.NodeTmpl.Execute(w, gn); err != nil {
		return err
	}
	return domStyles(doc, n, name, w, gparams)
}

// styleGroup is a group of inline style properties of one element.
type styleGroup struct {
	Node       string
	Name       string
	Properties []style.KeyValue
}

func domStyles(doc *dom.Document, n *html.Node, name string, w io.Writer, gparams *graphParamsType) error {
	decls := doc.Style(n)
	if len(decls) == 0 {
		return nil
	}
	for _, g := range gparams.StyleGroups {
		sg := styleGroup{Node: name, Name: g}
		for _, kv := range decls {
			if style.GroupNameFromPropertyKey(kv.Key) == g {
				kv.Value = style.Property(shortText(kv.Value.String()))
				sg.Properties = append(sg.Properties, kv)
			}
		}
		if len(sg.Properties) == 0 {
			continue
		}
		if err := gparams.StylegroupTmpl.Execute(w, sg); err != nil {
			return err
		}
		if err := gparams.PgedgeTmpl.Execute(w, sg); err != nil {
			return err
		}
	}
	return nil
}

type edge struct {
	N1, N2 string
}

func shortText(s string) string {
	if len(s) > 24 {
		s = s[:24] + "..."
	}
	s = strings.ReplaceAll(s, "\n", ` `)
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const domNodeTmpl = `{{ if .Component }}
{{ .Name }}	[ label="{{ .Component }}\n{{ .ID }}" shape=box style=filled fillcolor=lightgoldenrod1 ] ;
{{ else }}
{{ .Name }}	[ label="<{{ .Tag }}>{{ if .ID }}\n{{ .ID }}{{ end }}" shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{ end }}
`

const styleGroupTmpl = `{{ .Node }}_{{ .Name }} [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
      <tr><td bgcolor="azure4" align="center" colspan="2"><font color="white">{{ .Name }}</font></td></tr>
      {{ range .Properties }}
      <tr><td align="right">{{ .Key }}:</td><td>{{ .Value }}</td></tr>
      {{ end }}
    </table>> ] ;
`

const domEdgeTmpl = `{{ .N1 }} -> {{ .N2 }} [weight=1] ;
`

const pgEdgeTmpl = `{{ .Node }} -> {{ .Node }}_{{ .Name }} [dir=none weight=1 style="dashed"] ;
`
