package style

import (
	"errors"
	"image/color"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestParseInlineStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.style")
	defer teardown()
	//
	d, err := Parse("background-color: #FF0000; Font-Size: 16px")
	if err != nil {
		t.Fatal(err)
	}
	if len(d) != 2 {
		t.Fatalf("expected 2 declarations, have %d: %v", len(d), d)
	}
	if p, ok := d.Get("font-size"); !ok || p != "16px" {
		t.Errorf("expected font-size to be 16px, is %q", p)
	}
	if p, _ := d.Get("background-color"); p != "#FF0000" {
		t.Errorf("expected background-color to be #FF0000, is %q", p)
	}
}

func TestParseEmptyAndMalformed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.style")
	defer teardown()
	//
	d, err := Parse("   ")
	if err != nil || d != nil {
		t.Errorf("expected empty style to parse to nil, is %v / %v", d, err)
	}
	if _, err = Parse(";;color"); !errors.Is(err, ErrMalformedStyle) {
		t.Errorf("expected malformed style to be rejected, error is %v", err)
	}
	if d = MustParse(";;color"); len(d) != 0 {
		t.Errorf("expected MustParse to fall back to empty declarations, is %v", d)
	}
}

func TestSetReplacesInPlace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "uxb.style")
	defer teardown()
	//
	d := MustParse("color: black; background-color: white; margin: 0")
	d2 := d.Set("background-color", "#00ff00")
	if s := d2.String(); s != "color: black; background-color: #00ff00; margin: 0" {
		t.Errorf("unexpected serialization %q", s)
	}
	if p, _ := d.Get("background-color"); p != "white" {
		t.Errorf("expected Set not to modify the receiver, background is %q", p)
	}
	d3 := d2.Set("background-color", "")
	if d3.IsSet("background-color") {
		t.Errorf("expected empty value to remove the declaration, is %v", d3)
	}
	if d3.String() != "color: black; margin: 0" {
		t.Errorf("unexpected serialization %q", d3.String())
	}
	d4 := d3.Set("font-size", "12px")
	if d4[len(d4)-1].Key != "font-size" {
		t.Errorf("expected new declaration to be appended, is %v", d4)
	}
}

func TestImportantSurvives(t *testing.T) {
	d := MustParse("outline: 2px dashed blue !important")
	if len(d) != 1 || !d[0].Important {
		t.Fatalf("expected an important declaration, have %#v", d)
	}
	if d.String() != "outline: 2px dashed blue !important" {
		t.Errorf("unexpected serialization %q", d.String())
	}
}

func TestColors(t *testing.T) {
	for _, s := range []string{"#fff", "#ff0000", "#ff000080", "red", "RebeccaPurple", "rgb(1,2,3)", "transparent"} {
		if !Property(s).IsColor() {
			t.Errorf("expected %q to be a color", s)
		}
	}
	for _, s := range []string{"", "#ff0000f", "reddish", "12px", "rgb(1,2,3"} {
		if Property(s).IsColor() {
			t.Errorf("expected %q not to be a color", s)
		}
	}
	c, _ := Property("#f00").Color()
	if c != (color.RGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("expected #f00 to be red, is %v", c)
	}
	if s := ColorString(c); s != "#ff0000" {
		t.Errorf("expected color string #ff0000, is %q", s)
	}
	c, _ = Property("navy").Color()
	if s := ColorString(c); s != "#000080" {
		t.Errorf("expected navy to be #000080, is %q", s)
	}
}

func TestDimensions(t *testing.T) {
	n, u, ok := Property("16px").SplitUnit()
	if !ok || n != "16" || u != "px" {
		t.Errorf("expected 16/px, is %q/%q", n, u)
	}
	if s := Property("1.5em").StripUnit(); s != "1.5" {
		t.Errorf("expected 1.5, is %q", s)
	}
	if s := Property("auto").StripUnit(); s != "auto" {
		t.Errorf("expected non-numbers to stay untouched, is %q", s)
	}
	if f, err := Property("-3px").Number(); err != nil || f != -3 {
		t.Errorf("expected -3, is %v (%v)", f, err)
	}
	if _, err := Property("px").Number(); !errors.Is(err, ErrNotANumber) {
		t.Errorf("expected ErrNotANumber, is %v", err)
	}
	if p := WithUnit("20", "px"); p != "20px" {
		t.Errorf("expected 20px, is %q", p)
	}
	if p := WithUnit("2em", "px"); p != "2em" {
		t.Errorf("expected 2em to keep its unit, is %q", p)
	}
}

func TestGroupNames(t *testing.T) {
	if g := GroupNameFromPropertyKey("background-color"); g != PGColor {
		t.Errorf("expected background-color in group Color, is %s", g)
	}
	if g := GroupNameFromPropertyKey("font-size"); g != PGText {
		t.Errorf("expected font-size in group Text, is %s", g)
	}
	if g := GroupNameFromPropertyKey("grid-area"); g != PGX {
		t.Errorf("expected unknown key in group X, is %s", g)
	}
}
