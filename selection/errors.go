package selection

import (
	"errors"

	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/registry"
)

// ErrNoSelection is returned for operations which require a selected
// element while none is selected.
var ErrNoSelection = errors.New("no element selected")

// ErrUnknownComponent is returned if an action names a component which is
// not part of the registry.
var ErrUnknownComponent = registry.ErrUnknownComponent

// ErrUnknownAction is returned for an action index out of range.
var ErrUnknownAction = errors.New("unknown action")

// ErrNotLoaded is returned while the live document has not been loaded.
var ErrNotLoaded = dom.ErrNotLoaded
