package dom

import "errors"

// ErrNotLoaded is returned for operations which need a document with a body.
var ErrNotLoaded = errors.New("document not loaded")

// ErrUnknownElement is returned if an element identifier cannot be resolved.
var ErrUnknownElement = errors.New("unknown element")

// ErrInvalidLocation is returned if an insertion location is not applicable
// to the target element, e.g. inserting a sibling of <body>.
var ErrInvalidLocation = errors.New("invalid insertion location")

// ErrEmptyFragment is returned if markup to insert contains no element.
var ErrEmptyFragment = errors.New("markup fragment contains no element")

// ErrInvalidPath is returned if a child-index path does not denote an element.
var ErrInvalidPath = errors.New("invalid element path")
