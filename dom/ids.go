package dom

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute names and the class used as a highlight marker. They are
// bookkeeping only and are stripped from exported markup.
const (
	AttrID        = "data-builder-id"
	AttrComponent = "data-component-name"
	AttrStyle     = "data-builder-style"
	ClassSelected = "builder-selected"
)

// IDPrefix prefixes every element identifier.
const IDPrefix = "builder-el-"

// ElementID identifies an element of the live document.
type ElementID string

// NoElement is the zero ElementID.
const NoElement ElementID = ""

func (id ElementID) String() string {
	return string(id)
}

// IsNone is a predicate wether id is unset.
func (id ElementID) IsNone() bool {
	return id == NoElement
}

// serial returns the numeric suffix of an identifier of the form builder-el-N.
func (id ElementID) serial() (uint64, bool) {
	s, found := strings.CutPrefix(string(id), IDPrefix)
	if !found {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	return n, err == nil
}

// Counter hands out element identifiers. A Counter is scoped to an editing
// session and increases monotonically; it is not safe for concurrent use.
type Counter struct {
	last uint64
}

// Next returns a fresh identifier.
func (c *Counter) Next() ElementID {
	c.last++
	return ElementID(fmt.Sprintf("%s%d", IDPrefix, c.last))
}

// Observe moves the counter past an identifier found in loaded markup,
// so that fresh identifiers never collide with existing ones.
func (c *Counter) Observe(id ElementID) {
	if n, ok := id.serial(); ok && n > c.last {
		c.last = n
	}
}

// --- Locations --------------------------------------------------------

// Location is a position for inserting an element relative to a target.
type Location int8

// Insertion locations.
const (
	NoLocation Location = iota
	Inside              // as last child of the target
	Before              // as preceding sibling
	After               // as following sibling
)

var locationNames = [...]string{"", "INSIDE", "BEFORE", "AFTER"}

func (loc Location) String() string {
	if loc < 0 || int(loc) >= len(locationNames) {
		return fmt.Sprintf("Location(%d)", int(loc))
	}
	return locationNames[loc]
}

// Label is a human readable description of a location, as displayed by the
// inspector.
func (loc Location) Label() string {
	switch loc {
	case Inside:
		return "Inside"
	case Before:
		return "Above / left"
	case After:
		return "Below / right"
	}
	return ""
}

// ParseLocation reads a location name. Besides INSIDE, BEFORE and AFTER,
// the names ADD_CHILD, ADD_SIBLING_BEFORE and ADD_SIBLING_AFTER are
// accepted. Names are case-insensitive; the empty string is NoLocation.
func ParseLocation(s string) (Location, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return NoLocation, nil
	case "INSIDE", "ADD_CHILD":
		return Inside, nil
	case "BEFORE", "ADD_SIBLING_BEFORE":
		return Before, nil
	case "AFTER", "ADD_SIBLING_AFTER":
		return After, nil
	}
	return NoLocation, fmt.Errorf("%w: %q", ErrInvalidLocation, s)
}

// MarshalText implements encoding.TextMarshaler.
func (loc Location) MarshalText() ([]byte, error) {
	return []byte(loc.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (loc *Location) UnmarshalText(text []byte) error {
	l, err := ParseLocation(string(text))
	if err != nil {
		return err
	}
	*loc = l
	return nil
}

// UnmarshalYAML lets locations be read from component catalogs.
func (loc *Location) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return loc.UnmarshalText([]byte(s))
}
