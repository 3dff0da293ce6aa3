package registry

import "errors"

// ErrUnknownComponent is returned if a component name is not registered.
var ErrUnknownComponent = errors.New("unknown component")

// ErrDuplicateComponent is returned if a component name is registered twice.
var ErrDuplicateComponent = errors.New("duplicate component")

// ErrInvalidCatalog is returned for malformed component definitions.
var ErrInvalidCatalog = errors.New("invalid component catalog")
