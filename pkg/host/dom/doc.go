// Package dom is an in-memory host document.
//
// Markup is parsed and serialized with golang.org/x/net/html and queried
// with cascadia CSS selectors. The document supports custom element
// reactions, shadow roots with adopted style sheets, bubbling events and a
// scriptable visibility model, which is everything an element needs from its
// host:
//
//	doc := dom.NewDocument()
//	el := doc.CreateElement("x-counter")
//	el.SetAttribute("count", "3")
//	doc.Body().AppendChild(el)   // fires Connected reactions
//	fmt.Println(doc.HTML())
//
// A Document is not thread-safe.
package dom
