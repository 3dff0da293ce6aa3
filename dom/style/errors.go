package style

import "errors"

// ErrMalformedStyle is returned if the text of a style attribute cannot be parsed.
var ErrMalformedStyle = errors.New("malformed style declarations")

// ErrNotANumber is returned if a property value does not start with a number.
var ErrNotANumber = errors.New("property value is not a number")

// ErrNotAColor is returned if a property value is not a CSS color.
var ErrNotAColor = errors.New("property value is not a color")
