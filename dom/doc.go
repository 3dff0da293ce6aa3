/*
Package dom is the adapter between the page builder and the live document.

Overview

The live document is an HTML parse tree (golang.org/x/net/html) which is owned
by an editing session. The embedded view in the browser renders the markup of
this tree and reports back pointer events and element geometry. Every
structural mutation is performed here first; everything else (tree mirror,
selection, property editor) works on element identifiers and asks the
Document to resolve them.

Element Identifiers

Elements are identified by ElementIDs of the form "builder-el-N", assigned
lazily from a session-scoped counter and persisted in the attribute
`data-builder-id`. Once assigned, an identifier is never changed while the
element exists. Elements inserted from the component registry additionally
carry their component name in `data-component-name`.

Delegated Events

Pointer events are delivered to the Document as a whole and dispatched to
handlers through a single table of routes. Routes are keyed by a Matcher, a
predicate over the identifier of the event target, and survive arbitrary
insertions, as they never bind to individual elements.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'uxb.dom'
func tracer() tracing.Trace {
	return tracing.Select("uxb.dom")
}
