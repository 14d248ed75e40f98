// CLAUDE:SUMMARY Single-pass decoding of escaped markup payloads before structural parsing.
package markup

import "strings"

// entityReplacer decodes the five escapes produced by earlier persistence
// layers. strings.Replacer scans once, so "&amp;lt;" becomes "&lt;", never
// "<".
var entityReplacer = strings.NewReplacer(
	"&#39;", "'",
	"&quot;", `"`,
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
)

// IsEscaped reports whether s is markup that was stored escaped: it holds
// no raw tag but does hold an escaped one.
func IsEscaped(s string) bool {
	return !strings.Contains(s, "<") && strings.Contains(s, "&lt;")
}

// DecodeEntities unescapes an escaped payload exactly once. Markup that
// already contains raw tags is returned untouched; its entities belong to
// the text and are decoded by the HTML parser.
func DecodeEntities(s string) string {
	if !IsEscaped(s) {
		return s
	}
	return entityReplacer.Replace(s)
}
