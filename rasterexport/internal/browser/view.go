// CLAUDE:SUMMARY Note view page template: title, tag chips, excluded action bar and the captured content region.
package browser

import (
	"bytes"
	"html/template"
	"regexp"
)

// ContentID is the id of the captured element.
const ContentID = "note-pdf-content"

// View is what the note page shows.
type View struct {
	Title      string
	Tags       []string
	Body       template.HTML // sanitized note markup
	Background string
	FontFamily string
}

var viewTmpl = template.Must(template.New("note").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
body { margin: 0; font-family: {{.FontCSS}}; }
#note-pdf-content { background: {{.BackgroundCSS}}; padding: 24px; }
h1.title { font-size: 32px; margin: 0 0 10px; }
.tags { display: flex; flex-wrap: wrap; gap: 8px; margin-bottom: 20px; }
.tag { background: #1976d2; color: #fff; border-radius: 12px; padding: 4px 10px; font-size: 12px; }
.actions { display: flex; gap: 10px; margin-bottom: 16px; }
.content { font-size: 16px; line-height: 1.6; }
.content pre { background: rgba(0, 0, 0, 0.05); padding: 12px; border-radius: 4px; }
.content img { display: block; margin: 10px auto; max-width: 100%; }
.content ul[data-type="taskList"] { list-style: none; padding-left: 4px; }
.content li[data-checked="true"]::before { content: "\2611  "; }
.content li[data-checked="false"]::before { content: "\2610  "; }
</style></head>
<body>
<div id="note-pdf-content">
<h1 class="title">{{.Title}}</h1>
{{if .Tags}}<div class="tags">{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</div>{{end}}
<div class="actions pdf-exclude"><button>Edit</button><button>Delete</button><button>Back</button><button>Download PDF</button></div>
<div class="content">{{.Body}}</div>
</div>
</body></html>`))

var (
	colorRe  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	familyRe = regexp.MustCompile(`^[\w\s,'"-]+$`)
)

// Render returns the full page markup of v. Invalid colors and font
// families fall back to white and sans-serif.
func Render(v View) (string, error) {
	data := struct {
		View
		BackgroundCSS template.CSS
		FontCSS       template.CSS
	}{View: v, BackgroundCSS: "#ffffff", FontCSS: "sans-serif"}
	if colorRe.MatchString(v.Background) {
		data.BackgroundCSS = template.CSS(v.Background)
	}
	if familyRe.MatchString(v.FontFamily) {
		data.FontCSS = template.CSS(v.FontFamily)
	}
	var buf bytes.Buffer
	if err := viewTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
