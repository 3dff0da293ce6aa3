package props

import "errors"

// ErrUnknownProperty is returned for a property name not declared by the
// component of an element.
var ErrUnknownProperty = errors.New("unknown property")

// ErrInvalidValue is returned for a property value which does not fit the
// property's schema.
var ErrInvalidValue = errors.New("invalid property value")
