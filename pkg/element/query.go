package element

import "github.com/vango-dev/velement/pkg/host"

// Selection is the result of Query: no node, a single node or a list.
type Selection []host.Element

// None reports whether nothing matched.
func (s Selection) None() bool {
	return len(s) == 0
}

// Single returns the match if exactly one node matched.
func (s Selection) Single() (host.Element, bool) {
	if len(s) != 1 {
		return nil, false
	}
	return s[0], true
}

// First returns the first match, or nil.
func (s Selection) First() host.Element {
	if len(s) == 0 {
		return nil
	}
	return s[0]
}

// Query returns the nodes under within (default: the render root) that
// match selector. An invalid selector logs a warning and matches nothing.
func (e *Element) Query(selector string, within ...host.Root) Selection {
	root := e.root
	if len(within) > 0 && within[0] != nil {
		root = within[0]
	}
	found, err := root.QueryAll(selector)
	if err != nil {
		e.logger.Warn("invalid selector", "selector", selector, "error", err)
		return nil
	}
	return Selection(found)
}
