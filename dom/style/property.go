package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'uxb.style'
func tracer() tracing.Trace {
	return tracing.Select("uxb.style")
}

// Property is a raw value for a CSS property. For example, with
//
//     background-color: #ff0000
//
// a property value of "#ff0000" is set. The main purpose of wrapping
// the raw string value into type Property is to provide a set of
// convenient type conversion functions and other helpers.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

func (p Property) String() string {
	return string(p)
}

// IsInitial denotes if a property is of inheritence-type "initial"
func (p Property) IsInitial() bool {
	return p == "initial"
}

// IsInherit denotes if a property is of inheritence-type "inherit"
func (p Property) IsInherit() bool {
	return p == "inherit"
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return strings.TrimSpace(string(p)) == ""
}

// KeyValue is a container for a style property.
type KeyValue struct {
	Key       string
	Value     Property
	Important bool
}

func (kv KeyValue) String() string {
	s := kv.Key + ": " + kv.Value.String()
	if kv.Important {
		s += " !important"
	}
	return s
}

// --- Inline style declarations ----------------------------------------

// Declarations is the ordered content of an element's inline `style`
// attribute. Keys are kept in lower case; a key occurs at most once.
// nil is a legal (empty) set of declarations.
type Declarations []KeyValue

// Parse reads the text of a `style` attribute. Declarations for the same
// key collapse onto the last one, as a browser would resolve them.
func Parse(text string) (Declarations, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if !strings.HasSuffix(text, ";") {
		text += ";" // the parser drops an unterminated last declaration
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStyle, err)
	}
	var d Declarations
	for _, decl := range decls {
		d = d.set(fromDouceur(decl))
	}
	tracer().Debugf("parsed %d style declarations from %q", len(d), text)
	return d, nil
}

// MustParse is like Parse, but falls back to an empty set of declarations
// on malformed input. Garbage in a style attribute is not an error for
// the editor; it is ignored the way a browser ignores it.
func MustParse(text string) Declarations {
	d, err := Parse(text)
	if err != nil {
		tracer().Infof("ignoring style %q: %v", text, err)
		return nil
	}
	return d
}

func fromDouceur(decl *css.Declaration) KeyValue {
	return KeyValue{
		Key:       strings.ToLower(strings.TrimSpace(decl.Property)),
		Value:     Property(strings.TrimSpace(decl.Value)),
		Important: decl.Important,
	}
}

// Get a property's value.
func (d Declarations) Get(key string) (Property, bool) {
	key = strings.ToLower(key)
	for _, kv := range d {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return NullStyle, false
}

// IsSet is a predicate wether a property is present and not empty.
func (d Declarations) IsSet(key string) bool {
	p, ok := d.Get(key)
	return ok && !p.IsEmpty()
}

// Set a property's value, replacing any prior declaration for key in place.
// Setting an empty value removes the declaration.
func (d Declarations) Set(key string, p Property) Declarations {
	if p.IsEmpty() {
		return d.Remove(key)
	}
	return d.set(KeyValue{Key: strings.ToLower(key), Value: Property(strings.TrimSpace(p.String()))})
}

func (d Declarations) set(kv KeyValue) Declarations {
	for i := range d {
		if d[i].Key == kv.Key {
			r := make(Declarations, len(d))
			copy(r, d)
			r[i] = kv
			return r
		}
	}
	r := make(Declarations, len(d), len(d)+1)
	copy(r, d)
	return append(r, kv)
}

// Remove deletes the declaration for key, if present.
func (d Declarations) Remove(key string) Declarations {
	key = strings.ToLower(key)
	var r Declarations
	for _, kv := range d {
		if kv.Key != key {
			r = append(r, kv)
		}
	}
	return r
}

// Properties returns all declarations as key-value pairs.
func (d Declarations) Properties() []KeyValue {
	r := make([]KeyValue, len(d))
	copy(r, d)
	return r
}

// String serializes the declarations for a `style` attribute.
func (d Declarations) String() string {
	parts := make([]string, len(d))
	for i, kv := range d {
		parts[i] = kv.String()
	}
	return strings.Join(parts, "; ")
}

// --- Property Groups --------------------------------------------------

// Symbolic names for string literals, denoting property groups.
const (
	PGMargins   = "Margins"
	PGPadding   = "Padding"
	PGBorder    = "Border"
	PGDimension = "Dimension"
	PGDisplay   = "Display"
	PGColor     = "Color"
	PGText      = "Text"
	PGX         = "X"
)

// GroupNameFromPropertyKey returns the style property group name for a
// style property.
// Example:
//    GroupNameFromPropertyKey("margin-top") => "Margins"
//
// Unknown style property keys will return a group name of "X".
func GroupNameFromPropertyKey(key string) string {
	switch {
	case strings.HasPrefix(key, "margin"):
		return PGMargins
	case strings.HasPrefix(key, "padding"):
		return PGPadding
	case strings.HasPrefix(key, "border"), key == "outline", key == "box-shadow":
		return PGBorder
	case strings.HasSuffix(key, "width"), strings.HasSuffix(key, "height"):
		return PGDimension
	case strings.HasSuffix(key, "color"), key == "background", key == "opacity":
		return PGColor
	case strings.HasPrefix(key, "font"), strings.HasPrefix(key, "text"),
		strings.HasPrefix(key, "letter"), strings.HasPrefix(key, "word"):
		return PGText
	}
	switch key {
	case "display", "float", "visibility", "position", "cursor":
		return PGDisplay
	}
	return PGX
}
