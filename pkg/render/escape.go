package render

import (
	"sort"
	"strings"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Attribute values additionally escape whitespace that would break
// attribute parsing.
var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// EscapeHTML escapes text for safe inclusion in HTML content.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// EscapeAttr escapes text for safe inclusion in a quoted attribute value.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// Attrs renders a sorted, escaped attribute list with a leading space, or
// the empty string when attrs is empty. Empty values render as bare
// (presence-only) attributes.
func Attrs(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		if v := attrs[k]; v != "" {
			b.WriteString(`="`)
			b.WriteString(EscapeAttr(v))
			b.WriteByte('"')
		}
	}
	return b.String()
}
