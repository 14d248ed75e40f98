// CLAUDE:SUMMARY bluemonday policy restricting stored markup to the elements and attributes the model knows.
package markup

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Policy returns the sanitizing policy applied before parsing. Elements it
// does not allow are dropped but their text is kept, so unknown markup
// degrades to plain text instead of disappearing.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements(
			"p", "h1", "h2", "h3", "h4", "h5", "h6",
			"ul", "ol", "li", "blockquote", "pre", "code",
			"strong", "b", "em", "i", "u", "s", "strike", "del",
			"a", "span", "br", "div", "img",
		)
		p.AllowAttrs("href").OnElements("a")
		p.AllowStandardURLs()
		p.AllowRelativeURLs(true)

		p.AllowAttrs("src", "alt", "title").OnElements("img")
		p.AllowAttrs("width", "height").Matching(regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?(?:px)?$`)).OnElements("img")
		p.AllowDataURIImages()

		p.AllowAttrs("data-type").Matching(regexp.MustCompile(`^(?:taskList|taskItem)$`)).OnElements("ul", "li")
		p.AllowAttrs("data-checked").Matching(regexp.MustCompile(`^(?:true|false)$`)).OnElements("li")
		p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+#.-]+$`)).OnElements("code")

		p.AllowStyles("color").OnElements("span")
		p.AllowStyles("text-align").MatchingEnum("left", "center", "right", "justify", "start", "end").
			OnElements("p", "h1", "h2", "h3", "h4", "h5", "h6")
		policy = p
	})
	return policy
}

// Sanitize filters markup through Policy.
func Sanitize(s string) string {
	return Policy().Sanitize(s)
}

// LinkAllowed reports whether href survives Parse unchanged as a link
// target. Commands refuse links that the policy would strip.
func LinkAllowed(href string) bool { return keepsURL("a", "href", href) }

// ImageSrcAllowed reports whether src survives Parse unchanged as an image
// source: http, https, relative or a base64 data URI image.
func ImageSrcAllowed(src string) bool { return keepsURL("img", "src", src) }

// keepsURL runs a one-element fragment through the policy and checks that
// the attribute comes back byte for byte.
func keepsURL(tag, key, raw string) bool {
	if raw == "" {
		return false
	}
	frag := "<" + tag + " " + key + `="` + html.EscapeString(raw) + `">x</` + tag + ">"
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(Sanitize(frag)), body)
	if err != nil {
		return false
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode && n.Data == tag {
			v, ok := attr(n, key)
			return ok && v == raw
		}
	}
	return false
}
