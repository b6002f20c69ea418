package dom

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/velement/pkg/host"
)

// ShadowRoot is an encapsulated subtree attached to a host element. Its
// content is invisible to queries on the host and its adopted styles apply
// only inside it.
type ShadowRoot struct {
	doc    *Document
	host   *Element
	n      *html.Node
	styles []*styleSheet
}

var _ host.Root = (*ShadowRoot)(nil)

// Host returns the element the root is attached to.
func (s *ShadowRoot) Host() host.Element {
	return s.host
}

// SetInnerHTML replaces the root's content, parsing in the host's context.
func (s *ShadowRoot) SetInnerHTML(markup string) error {
	return setInnerHTML(s.doc, s.n, s.host.n, markup)
}

// InnerHTML serializes the root's content (without adopted styles).
func (s *ShadowRoot) InnerHTML() string {
	return innerHTML(s.n)
}

// QueryAll returns root descendants matching selector.
func (s *ShadowRoot) QueryAll(selector string) ([]host.Element, error) {
	return queryAll(s.doc, s.n, selector)
}

// AppendChild moves child into the root.
func (s *ShadowRoot) AppendChild(child host.Element) {
	appendChild(s.doc, s.n, child)
}

// AddEventListener registers fn for events bubbling through the root.
func (s *ShadowRoot) AddEventListener(typ string, fn host.Listener) func() {
	return s.doc.addListener(s.n, typ, fn)
}

// AdoptStyle adds a style sheet scoped to the root.
func (s *ShadowRoot) AdoptStyle(css string) host.StyleHandle {
	sheet := &styleSheet{css: css}
	s.styles = append(s.styles, sheet)
	sheet.release = func() {
		for i, st := range s.styles {
			if st == sheet {
				s.styles = append(s.styles[:i], s.styles[i+1:]...)
				return
			}
		}
	}
	return sheet
}

// Styles returns the adopted style sheets in adoption order.
func (s *ShadowRoot) Styles() []string {
	out := make([]string, len(s.styles))
	for i, st := range s.styles {
		out[i] = st.css
	}
	return out
}
