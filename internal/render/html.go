package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/chart"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/tracker"
)

// ChartJSURL is where rendered pages load the charting library from.
const ChartJSURL = "https://cdn.jsdelivr.net/npm/chart.js@4"

// canvasIDPrefix matches the element id the plugin has always used; the
// suffix keeps ids unique when a page holds several blocks.
const canvasIDPrefix = "chart-container-"

// HTML is a surface that builds an element tree for one block.
type HTML struct {
	root    *html.Node
	scripts []pendingScript
	newID   func() string
}

type pendingScript struct {
	node *html.Node
	buf  *bytes.Buffer
}

// NewHTML returns an empty block container.
func NewHTML() *HTML {
	return &HTML{
		root:  element(atom.Div, "class", "time-tracker"),
		newID: func() string { return canvasIDPrefix + uuid.NewString() },
	}
}

// Text appends a paragraph styled like the plugin's status lines.
func (h *HTML) Text(line tracker.Line) {
	color := "green"
	if line.Level == tracker.LevelWarn {
		color = "red"
	}
	p := element(atom.P, "style", fmt.Sprintf("color: %s; font-size: %dpx", color, line.Size))
	p.AppendChild(&html.Node{Type: html.TextNode, Data: line.Text})
	h.root.AppendChild(p)
}

// Canvas appends a canvas element and returns a context whose writes end
// up in the script that draws on it.
func (h *HTML) Canvas() (chart.Context, error) {
	id := h.newID()
	if id == "" {
		return nil, fmt.Errorf("no canvas id")
	}

	h.root.AppendChild(element(atom.Canvas, "id", id))
	script := element(atom.Script)
	h.root.AppendChild(script)

	buf := &bytes.Buffer{}
	h.scripts = append(h.scripts, pendingScript{node: script, buf: buf})
	return &htmlCanvas{id: id, Buffer: buf}, nil
}

// Node returns the block's element tree with drawing scripts filled in.
func (h *HTML) Node() *html.Node {
	for _, s := range h.scripts {
		if s.node.FirstChild == nil && s.buf.Len() > 0 {
			s.node.AppendChild(&html.Node{Type: html.TextNode, Data: s.buf.String()})
		}
	}
	return h.root
}

// Render serialises the block.
func (h *HTML) Render(w io.Writer) error {
	return html.Render(w, h.Node())
}

type htmlCanvas struct {
	id string
	*bytes.Buffer
}

func (c *htmlCanvas) ID() string { return c.id }

// Section is one titled block on a page.
type Section struct {
	Heading string
	Block   *HTML
}

// Page writes a standalone document holding every section.
func Page(w io.Writer, title string, sections []Section) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, "lang", "en")
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, "charset", "utf-8"))
	head.AppendChild(textElement(atom.Title, title))
	head.AppendChild(element(atom.Script, "src", ChartJSURL))
	root.AppendChild(head)

	body := element(atom.Body)
	body.AppendChild(textElement(atom.H1, title))
	for _, s := range sections {
		if s.Heading != "" {
			body.AppendChild(textElement(atom.H2, s.Heading))
		}
		if s.Block != nil {
			body.AppendChild(s.Block.Node())
		}
	}
	root.AppendChild(body)

	return html.Render(w, doc)
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func textElement(a atom.Atom, text string) *html.Node {
	n := element(a)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
