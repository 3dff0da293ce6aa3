package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color interprets a property as a CSS color. Supported are hex notations
// (#rgb, #rgba, #rrggbb, #rrggbbaa), the functional notations rgb(…), rgba(…),
// hsl(…), hsla(…) and the CSS named colors. Functional notations are
// accepted syntactically but are not converted; they return a nil color
// together with ok=true.
func (p Property) Color() (c color.Color, ok bool) {
	s := strings.ToLower(strings.TrimSpace(p.String()))
	switch {
	case s == "":
		return nil, false
	case strings.HasPrefix(s, "#"):
		return hexColor(s[1:])
	case isColorFunction(s):
		return nil, true
	case s == "transparent" || s == "currentcolor":
		return color.Transparent, true
	}
	if hex, found := namedColors[s]; found {
		return hexColor(hex)
	}
	return nil, false
}

// IsColor is a predicate wether a property denotes a CSS color.
func (p Property) IsColor() bool {
	_, ok := p.Color()
	return ok
}

func isColorFunction(s string) bool {
	for _, fn := range []string{"rgb(", "rgba(", "hsl(", "hsla("} {
		if strings.HasPrefix(s, fn) && strings.HasSuffix(s, ")") {
			return true
		}
	}
	return false
}

func hexColor(h string) (color.Color, bool) {
	var digits string
	switch len(h) {
	case 3, 4:
		for _, r := range h {
			digits += string(r) + string(r)
		}
	case 6, 8:
		digits = h
	default:
		return nil, false
	}
	if len(digits) == 6 {
		digits += "ff"
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return nil, false
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, true
}

// ColorString returns a color in CSS hex notation.
func ColorString(c color.Color) string {
	if c == nil {
		return ""
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	if rgba.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", rgba.R, rgba.G, rgba.B, rgba.A)
}

// --- Dimensions -------------------------------------------------------

// SplitUnit separates a dimension into its numeric part and its unit.
// Example:
//    Property("16px").SplitUnit() => "16", "px"
//
// If p does not start with a number, ok is false.
func (p Property) SplitUnit() (number string, unit string, ok bool) {
	s := strings.TrimSpace(p.String())
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	digits := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
		digits++
	}
	if digits == 0 {
		return "", "", false
	}
	return s[:i], strings.ToLower(strings.TrimSpace(s[i:])), true
}

// StripUnit returns the numeric part of a dimension, e.g. "16" for "16px".
// Properties not starting with a number are returned unchanged.
func (p Property) StripUnit() string {
	if n, _, ok := p.SplitUnit(); ok {
		return n
	}
	return p.String()
}

// Number interprets the numeric part of a dimension.
func (p Property) Number() (float64, error) {
	n, _, ok := p.SplitUnit()
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, p)
	}
	f, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, p)
	}
	return f, nil
}

// WithUnit appends unit to a unit-less number. Values carrying a unit
// already, or values which are not numbers, are left alone.
func WithUnit(value string, unit string) Property {
	p := Property(strings.TrimSpace(value))
	n, u, ok := p.SplitUnit()
	if !ok || u != "" || unit == "" {
		return p
	}
	return Property(n + unit)
}

// namedColors maps CSS named colors to their hex values.
var namedColors = map[string]string{
	"aliceblue": "f0f8ff", "antiquewhite": "faebd7", "aqua": "00ffff",
	"aquamarine": "7fffd4", "azure": "f0ffff", "beige": "f5f5dc",
	"bisque": "ffe4c4", "black": "000000", "blanchedalmond": "ffebcd",
	"blue": "0000ff", "blueviolet": "8a2be2", "brown": "a52a2a",
	"burlywood": "deb887", "cadetblue": "5f9ea0", "chartreuse": "7fff00",
	"chocolate": "d2691e", "coral": "ff7f50", "cornflowerblue": "6495ed",
	"cornsilk": "fff8dc", "crimson": "dc143c", "cyan": "00ffff",
	"darkblue": "00008b", "darkcyan": "008b8b", "darkgoldenrod": "b8860b",
	"darkgray": "a9a9a9", "darkgreen": "006400", "darkgrey": "a9a9a9",
	"darkkhaki": "bdb76b", "darkmagenta": "8b008b", "darkolivegreen": "556b2f",
	"darkorange": "ff8c00", "darkorchid": "9932cc", "darkred": "8b0000",
	"darksalmon": "e9967a", "darkseagreen": "8fbc8f", "darkslateblue": "483d8b",
	"darkslategray": "2f4f4f", "darkslategrey": "2f4f4f", "darkturquoise": "00ced1",
	"darkviolet": "9400d3", "deeppink": "ff1493", "deepskyblue": "00bfff",
	"dimgray": "696969", "dimgrey": "696969", "dodgerblue": "1e90ff",
	"firebrick": "b22222", "floralwhite": "fffaf0", "forestgreen": "228b22",
	"fuchsia": "ff00ff", "gainsboro": "dcdcdc", "ghostwhite": "f8f8ff",
	"gold": "ffd700", "goldenrod": "daa520", "gray": "808080",
	"green": "008000", "greenyellow": "adff2f", "grey": "808080",
	"honeydew": "f0fff0", "hotpink": "ff69b4", "indianred": "cd5c5c",
	"indigo": "4b0082", "ivory": "fffff0", "khaki": "f0e68c",
	"lavender": "e6e6fa", "lavenderblush": "fff0f5", "lawngreen": "7cfc00",
	"lemonchiffon": "fffacd", "lightblue": "add8e6", "lightcoral": "f08080",
	"lightcyan": "e0ffff", "lightgoldenrodyellow": "fafad2", "lightgray": "d3d3d3",
	"lightgreen": "90ee90", "lightgrey": "d3d3d3", "lightpink": "ffb6c1",
	"lightsalmon": "ffa07a", "lightseagreen": "20b2aa", "lightskyblue": "87cefa",
	"lightslategray": "778899", "lightslategrey": "778899", "lightsteelblue": "b0c4de",
	"lightyellow": "ffffe0", "lime": "00ff00", "limegreen": "32cd32",
	"linen": "faf0e6", "magenta": "ff00ff", "maroon": "800000",
	"mediumaquamarine": "66cdaa", "mediumblue": "0000cd", "mediumorchid": "ba55d3",
	"mediumpurple": "9370db", "mediumseagreen": "3cb371", "mediumslateblue": "7b68ee",
	"mediumspringgreen": "00fa9a", "mediumturquoise": "48d1cc", "mediumvioletred": "c71585",
	"midnightblue": "191970", "mintcream": "f5fffa", "mistyrose": "ffe4e1",
	"moccasin": "ffe4b5", "navajowhite": "ffdead", "navy": "000080",
	"oldlace": "fdf5e6", "olive": "808000", "olivedrab": "6b8e23",
	"orange": "ffa500", "orangered": "ff4500", "orchid": "da70d6",
	"palegoldenrod": "eee8aa", "palegreen": "98fb98", "paleturquoise": "afeeee",
	"palevioletred": "db7093", "papayawhip": "ffefd5", "peachpuff": "ffdab9",
	"peru": "cd853f", "pink": "ffc0cb", "plum": "dda0dd",
	"powderblue": "b0e0e6", "purple": "800080", "rebeccapurple": "663399",
	"red": "ff0000", "rosybrown": "bc8f8f", "royalblue": "4169e1",
	"saddlebrown": "8b4513", "salmon": "fa8072", "sandybrown": "f4a460",
	"seagreen": "2e8b57", "seashell": "fff5ee", "sienna": "a0522d",
	"silver": "c0c0c0", "skyblue": "87ceeb", "slateblue": "6a5acd",
	"slategray": "708090", "slategrey": "708090", "snow": "fffafa",
	"springgreen": "00ff7f", "steelblue": "4682b4", "tan": "d2b48c",
	"teal": "008080", "thistle": "d8bfd8", "tomato": "ff6347",
	"turquoise": "40e0d0", "violet": "ee82ee", "wheat": "f5deb3",
	"white": "ffffff", "whitesmoke": "f5f5f5", "yellow": "ffff00",
	"yellowgreen": "9acd32",
}
