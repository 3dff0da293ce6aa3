package dom

import "golang.org/x/net/html"

// Rect is a rectangle in CSS pixels.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns the lower edge of r.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Right returns the right edge of r.
func (r Rect) Right() float64 {
	return r.Left + r.Width
}

// Offset moves r by the origin of another rectangle.
func (r Rect) Offset(by Rect) Rect {
	r.Top += by.Top
	r.Left += by.Left
	return r
}

// SetFrameRect records the position of the embedded view within the
// viewport of the editor. It changes when the editor window is resized.
func (doc *Document) SetFrameRect(r Rect) {
	doc.frame = r
}

// FrameRect returns the position of the embedded view.
func (doc *Document) FrameRect() Rect {
	return doc.frame
}

// ReportRect records the rectangle of an element, as measured by the
// embedded view relative to its own viewport.
func (doc *Document) ReportRect(id ElementID, r Rect) {
	if id.IsNone() {
		return
	}
	doc.rects[id] = r
}

// BoundingBox returns the rectangle of an element in viewport coordinates
// of the editor, composing the offset of the embedded view with the
// element's local rectangle. ok is false if no rectangle has been reported
// for the element.
func (doc *Document) BoundingBox(n *html.Node) (r Rect, ok bool) {
	id := ElementID(attr(n, AttrID))
	if id.IsNone() {
		return Rect{}, false
	}
	local, ok := doc.rects[id]
	if !ok {
		return Rect{}, false
	}
	return local.Offset(doc.frame), true
}
