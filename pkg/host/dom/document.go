package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/velement/pkg/host"
)

// Document is an in-memory host.Document.
type Document struct {
	root *html.Node
	head *html.Node
	body *html.Node

	elements  map[*html.Node]*Element
	shadows   map[*html.Node]*ShadowRoot
	listeners map[*html.Node]map[string][]*listener
	styles    []*styleSheet

	visible   map[*html.Node]bool
	observers map[*html.Node][]*visibilityObserver
}

var _ host.Document = (*Document)(nil)

// NewDocument creates an empty document with head and body.
func NewDocument() *Document {
	root := &html.Node{Type: html.DocumentNode}
	htmlEl := newElementNode("html")
	head := newElementNode("head")
	body := newElementNode("body")
	root.AppendChild(htmlEl)
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)

	return &Document{
		root:      root,
		head:      head,
		body:      body,
		elements:  make(map[*html.Node]*Element),
		shadows:   make(map[*html.Node]*ShadowRoot),
		listeners: make(map[*html.Node]map[string][]*listener),
		visible:   make(map[*html.Node]bool),
		observers: make(map[*html.Node][]*visibilityObserver),
	}
}

func newElementNode(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) host.Element {
	return d.wrap(newElementNode(tag))
}

// Body returns the body element.
func (d *Document) Body() host.Element {
	return d.wrap(d.body)
}

// Head returns the head element.
func (d *Document) Head() host.Element {
	return d.wrap(d.head)
}

// SetTitle sets the document title.
func (d *Document) SetTitle(title string) {
	for c := d.head.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Title {
			d.head.RemoveChild(c)
			break
		}
	}
	t := newElementNode("title")
	t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	d.head.InsertBefore(t, d.head.FirstChild)
}

// ElementByID returns the first connected element with the given id.
func (d *Document) ElementByID(id string) (host.Element, bool) {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return d.wrap(found), true
}

// wrap returns the stable wrapper of n.
func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, n: n}
	d.elements[n] = el
	return el
}

// parent returns the composed-tree parent of n: shadow containers lead to
// their host.
func (d *Document) parent(n *html.Node) *html.Node {
	if sr, ok := d.shadows[n]; ok {
		return sr.host.n
	}
	return n.Parent
}

func (d *Document) connected(n *html.Node) bool {
	for p := n; p != nil; p = d.parent(p) {
		if p == d.root {
			return true
		}
	}
	return false
}

// composedWalk visits n and its descendants in tree order, entering shadow
// roots right after their host.
func (d *Document) composedWalk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	if el, ok := d.elements[n]; ok && el.shadow != nil {
		for c := el.shadow.n.FirstChild; c != nil; c = c.NextSibling {
			d.composedWalk(c, fn)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.composedWalk(c, fn)
	}
}

func (d *Document) fireConnected(n *html.Node) {
	var targets []*Element
	d.composedWalk(n, func(c *html.Node) {
		if el, ok := d.elements[c]; ok && el.reactions.Connected != nil {
			targets = append(targets, el)
		}
	})
	for _, el := range targets {
		if el.IsConnected() {
			el.reactions.Connected()
		}
	}
}

func (d *Document) fireDisconnected(n *html.Node) {
	var targets []*Element
	d.composedWalk(n, func(c *html.Node) {
		if el, ok := d.elements[c]; ok && el.reactions.Disconnected != nil {
			targets = append(targets, el)
		}
	})
	for _, el := range targets {
		if !el.IsConnected() {
			el.reactions.Disconnected()
		}
	}
}

// HTML serializes the whole document. Shadow roots are written as
// declarative <template shadowrootmode="open"> children of their host.
func (d *Document) HTML() string {
	var buf bytes.Buffer
	html.Render(&buf, d.composedClone(d.root))
	return buf.String()
}

func (d *Document) composedClone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	if el, ok := d.elements[n]; ok && el.shadow != nil {
		tmpl := newElementNode("template")
		tmpl.Attr = []html.Attribute{{Key: "shadowrootmode", Val: "open"}}
		for _, s := range el.shadow.styles {
			tmpl.AppendChild(styleNode(s.css))
		}
		for ch := el.shadow.n.FirstChild; ch != nil; ch = ch.NextSibling {
			tmpl.AppendChild(d.composedClone(ch))
		}
		c.AppendChild(tmpl)
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(d.composedClone(ch))
	}
	return c
}

func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val
		}
	}
	return ""
}
