package dom

import (
	"bytes"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/vango-dev/velement/pkg/host"
)

// Element is an in-memory host.Element.
type Element struct {
	doc    *Document
	n      *html.Node
	shadow *ShadowRoot

	reactions host.Reactions
	observed  map[string]bool
}

var _ host.Element = (*Element)(nil)

// Node returns the underlying html node.
func (e *Element) Node() *html.Node {
	return e.n
}

// Document returns the owning document.
func (e *Element) Document() host.Document {
	return e.doc
}

// Host returns e; an element is its own light-DOM root.
func (e *Element) Host() host.Element {
	return e
}

// TagName returns the lower-case tag name.
func (e *Element) TagName() string {
	return e.n.Data
}

// Attribute returns the value of an attribute and whether it is present.
func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttribute sets an attribute. Observers are notified even when the
// value is unchanged.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	old, _ := e.Attribute(name)
	replaced := false
	for i, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			e.n.Attr[i].Val = value
			replaced = true
			break
		}
	}
	if !replaced {
		e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
	}
	e.attributeChanged(name, old, value, true)
}

// RemoveAttribute removes an attribute if present.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			e.n.Attr = append(e.n.Attr[:i], e.n.Attr[i+1:]...)
			e.attributeChanged(name, a.Val, "", false)
			return
		}
	}
}

func (e *Element) attributeChanged(name, old, value string, present bool) {
	if e.reactions.AttributeChanged == nil || !e.observed[name] {
		return
	}
	e.reactions.AttributeChanged(name, old, value, present)
}

// Observe registers custom element reactions, replacing earlier ones.
func (e *Element) Observe(r host.Reactions, observed []string) {
	e.reactions = r
	e.observed = make(map[string]bool, len(observed))
	for _, name := range observed {
		e.observed[strings.ToLower(name)] = true
	}
}

// Parent returns the parent element, leaving shadow roots for their host.
func (e *Element) Parent() host.Element {
	p := e.doc.parent(e.n)
	if sr, ok := e.doc.shadows[p]; ok {
		p = sr.host.n
	}
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

// IsConnected reports whether the element is in the document tree.
func (e *Element) IsConnected() bool {
	return e.doc.connected(e.n)
}

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child host.Element) {
	appendChild(e.doc, e.n, child)
}

func appendChild(d *Document, parent *html.Node, child host.Element) {
	c, ok := child.(*Element)
	if !ok || c.doc != d {
		return
	}
	if c.n.Parent != nil {
		c.Remove()
	}
	parent.AppendChild(c.n)
	if d.connected(c.n) {
		d.fireConnected(c.n)
	}
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	if e.n.Parent == nil {
		return
	}
	wasConnected := e.IsConnected()
	e.n.Parent.RemoveChild(e.n)
	if wasConnected {
		e.doc.fireDisconnected(e.n)
	}
}

// Contains reports whether other is e or a light-DOM descendant of e.
func (e *Element) Contains(other host.Element) bool {
	o, ok := other.(*Element)
	if !ok {
		return false
	}
	for n := o.n; n != nil; n = n.Parent {
		if n == e.n {
			return true
		}
	}
	return false
}

// Matches reports whether e matches a CSS selector.
func (e *Element) Matches(selector string) (bool, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return false, err
	}
	return sel.Match(e.n), nil
}

// SetInnerHTML replaces the element's children with parsed markup.
func (e *Element) SetInnerHTML(markup string) error {
	return setInnerHTML(e.doc, e.n, e.n, markup)
}

// InnerHTML serializes the element's children.
func (e *Element) InnerHTML() string {
	return innerHTML(e.n)
}

// OuterHTML serializes the element itself.
func (e *Element) OuterHTML() string {
	var buf bytes.Buffer
	html.Render(&buf, e.n)
	return buf.String()
}

// QueryAll returns light-DOM descendants matching selector.
func (e *Element) QueryAll(selector string) ([]host.Element, error) {
	return queryAll(e.doc, e.n, selector)
}

// AddEventListener registers fn for events of type typ at e.
func (e *Element) AddEventListener(typ string, fn host.Listener) func() {
	return e.doc.addListener(e.n, typ, fn)
}

// DispatchEvent dispatches ev with e as its target.
func (e *Element) DispatchEvent(ev *host.Event) {
	e.doc.dispatch(e, ev)
}

// AdoptStyle installs a document-wide style sheet; light-DOM content
// cannot be scoped.
func (e *Element) AdoptStyle(css string) host.StyleHandle {
	return e.doc.InstallStyle(css)
}

// AttachShadow creates the element's shadow root, or returns the existing one.
func (e *Element) AttachShadow() host.Root {
	if e.shadow == nil {
		sr := &ShadowRoot{doc: e.doc, host: e, n: &html.Node{Type: html.DocumentNode}}
		e.doc.shadows[sr.n] = sr
		e.shadow = sr
	}
	return e.shadow
}

// ShadowRoot returns the element's shadow root, or nil.
func (e *Element) ShadowRoot() host.Root {
	if e.shadow == nil {
		return nil
	}
	return e.shadow
}

func setInnerHTML(d *Document, container, context *html.Node, markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return err
	}

	var removed []*html.Node
	wasConnected := d.connected(container)
	for c := container.FirstChild; c != nil; {
		next := c.NextSibling
		container.RemoveChild(c)
		removed = append(removed, c)
		c = next
	}
	if wasConnected {
		for _, c := range removed {
			d.fireDisconnected(c)
		}
	}

	for _, n := range nodes {
		container.AppendChild(n)
	}
	return nil
}

func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		html.Render(&buf, c)
	}
	return buf.String()
}

func queryAll(d *Document, root *html.Node, selector string) ([]host.Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	var out []host.Element
	for _, n := range sel.MatchAll(root) {
		if n == root {
			continue
		}
		out = append(out, d.wrap(n))
	}
	return out, nil
}
