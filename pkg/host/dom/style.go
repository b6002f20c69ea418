package dom

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/velement/pkg/host"
)

type styleSheet struct {
	css      string
	release  func()
	released bool
}

var _ host.StyleHandle = (*styleSheet)(nil)

// Release removes the sheet. It is idempotent.
func (s *styleSheet) Release() {
	if s.released {
		return
	}
	s.released = true
	s.release()
}

func styleNode(css string) *html.Node {
	n := newElementNode("style")
	n.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	return n
}

// InstallStyle appends a <style> element to the document head.
func (d *Document) InstallStyle(css string) host.StyleHandle {
	n := styleNode(css)
	d.head.AppendChild(n)
	sheet := &styleSheet{css: css}
	sheet.release = func() {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		for i, st := range d.styles {
			if st == sheet {
				d.styles = append(d.styles[:i], d.styles[i+1:]...)
				return
			}
		}
	}
	d.styles = append(d.styles, sheet)
	return sheet
}

// Styles returns the global style sheets in installation order.
func (d *Document) Styles() []string {
	out := make([]string, len(d.styles))
	for i, st := range d.styles {
		out[i] = st.css
	}
	return out
}
