package browser

import (
	"html/template"
	"strings"
	"testing"
)

func TestRenderView(t *testing.T) {
	page, err := Render(View{
		Title:      "Trip <plan>",
		Tags:       []string{"travel", "2026"},
		Body:       template.HTML("<p><strong>Go</strong></p>"),
		Background: "#fdf6e3",
		FontFamily: "Georgia, serif",
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`id="` + ContentID + `"`,
		"Trip &lt;plan&gt;",
		`<span class="tag">travel</span>`,
		`class="actions pdf-exclude"`,
		"<p><strong>Go</strong></p>",
		"background: #fdf6e3",
		"font-family: Georgia, serif",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestRenderViewRejectsCSSInjection(t *testing.T) {
	// WHAT: style values that are not a plain color or family are replaced.
	// WHY: they are written into a <style> block.
	page, err := Render(View{
		Background: "red; } body { display:none",
		FontFamily: "x; } * { color: red",
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(page, "display:none") || strings.Contains(page, "color: red") {
		t.Error("unsafe CSS reached the page")
	}
	if !strings.Contains(page, "background: #ffffff") || !strings.Contains(page, "font-family: sans-serif") {
		t.Error("fallbacks not applied")
	}
}
