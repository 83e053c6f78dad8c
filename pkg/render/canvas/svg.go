// Package canvas is the drawing collaborator: it accepts primitive
// commands (groups, paths, circles, lines, text with optional curved
// path binding, markers) and serializes them into a single SVG
// document of fixed width and height.
package canvas

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Style carries the presentation attributes of one drawing command.
// Zero-valued fields are omitted from the output.
type Style struct {
	Fill        string
	FillOpacity float64
	FillRule    string
	Stroke      string
	StrokeWidth float64
	DashArray   string
	MarkerEnd   string
	FontFamily  string
}

func (s Style) attrs() string {
	var b strings.Builder
	if s.Fill != "" {
		fmt.Fprintf(&b, ` fill="%s"`, s.Fill)
	}
	if s.FillOpacity > 0 {
		fmt.Fprintf(&b, ` fill-opacity="%.2f"`, s.FillOpacity)
	}
	if s.FillRule != "" {
		fmt.Fprintf(&b, ` fill-rule="%s"`, s.FillRule)
	}
	if s.Stroke != "" {
		fmt.Fprintf(&b, ` stroke="%s"`, s.Stroke)
	}
	if s.StrokeWidth > 0 {
		fmt.Fprintf(&b, ` stroke-width="%.2f"`, s.StrokeWidth)
	}
	if s.DashArray != "" {
		fmt.Fprintf(&b, ` stroke-dasharray="%s"`, s.DashArray)
	}
	if s.MarkerEnd != "" {
		fmt.Fprintf(&b, ` marker-end="url(#%s)"`, s.MarkerEnd)
	}
	if s.FontFamily != "" {
		fmt.Fprintf(&b, ` font-family="%s"`, s.FontFamily)
	}
	return b.String()
}

type Option func(*Canvas)

// WithDocumentID overrides the generated document id, mainly for
// deterministic output in tests.
func WithDocumentID(id string) Option {
	return func(c *Canvas) { c.id = id }
}

// WithBackground fills the document with a background color.
func WithBackground(color string) Option {
	return func(c *Canvas) { c.background = color }
}

// Canvas accumulates drawing commands for one square SVG document.
type Canvas struct {
	size       float64
	id         string
	background string
	defs       bytes.Buffer
	body       bytes.Buffer
}

// New builds a canvas for a document of the given width and height.
func New(size float64, opts ...Option) *Canvas {
	c := &Canvas{size: size, id: uuid.NewString()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Size returns the document's width and height.
func (c *Canvas) Size() float64 { return c.size }

// Group opens a <g> element. id may be empty.
func (c *Canvas) Group(id string) {
	if id == "" {
		c.body.WriteString("<g>\n")
		return
	}
	fmt.Fprintf(&c.body, `<g id="%s">`+"\n", escape(id))
}

// GroupEnd closes the innermost open group.
func (c *Canvas) GroupEnd() {
	c.body.WriteString("</g>\n")
}

// Path emits a path from pre-built path data.
func (c *Canvas) Path(d string, st Style) {
	fmt.Fprintf(&c.body, `<path d="%s"%s/>`+"\n", d, st.attrs())
}

// Circle emits a full circle.
func (c *Canvas) Circle(cx, cy, r float64, st Style) {
	fmt.Fprintf(&c.body, `<circle cx="%.2f" cy="%.2f" r="%.2f"%s/>`+"\n", cx, cy, r, st.attrs())
}

// Line emits a straight line segment.
func (c *Canvas) Line(x1, y1, x2, y2 float64, st Style) {
	fmt.Fprintf(&c.body, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"%s/>`+"\n",
		x1, y1, x2, y2, st.attrs())
}

// Text emits text anchored at (x, y). anchor is start, middle or end.
func (c *Canvas) Text(x, y, fontPx float64, anchor, text string, st Style) {
	fmt.Fprintf(&c.body,
		`<text x="%.2f" y="%.2f" font-size="%.2f" text-anchor="%s"%s>%s</text>`+"\n",
		x, y, fontPx, anchor, st.attrs(), escape(text))
}

// CurvedText emits text bound to an invisible path. The path goes into
// the document defs under pathID; startOffset positions the text along
// it as a percentage.
func (c *Canvas) CurvedText(pathID, d string, startOffset, fontPx float64, text string, st Style) {
	fmt.Fprintf(&c.defs, `<path id="%s" d="%s" fill="none"/>`+"\n", escape(pathID), d)
	fmt.Fprintf(&c.body,
		`<text font-size="%.2f"%s><textPath href="#%s" startOffset="%.2f%%">%s</textPath></text>`+"\n",
		fontPx, st.attrs(), escape(pathID), startOffset, escape(text))
}

// ArrowMarker registers an arrowhead marker usable via Style.MarkerEnd.
func (c *Canvas) ArrowMarker(id, color string) {
	fmt.Fprintf(&c.defs,
		`<marker id="%s" viewBox="0 0 10 10" refX="8" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker>`+"\n",
		escape(id), color)
}

// Bytes serializes the document.
func (c *Canvas) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" id="doc-%s" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		c.id, c.size, c.size, c.size, c.size)
	if c.defs.Len() > 0 {
		buf.WriteString("<defs>\n")
		buf.Write(c.defs.Bytes())
		buf.WriteString("</defs>\n")
	}
	if c.background != "" {
		fmt.Fprintf(&buf, `<rect width="%.1f" height="%.1f" fill="%s"/>`+"\n", c.size, c.size, c.background)
	}
	buf.Write(c.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string {
	return escaper.Replace(s)
}
