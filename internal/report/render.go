package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

const narrativePage = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
  @page { margin: 20mm 18mm; size: A4; }
  body { font-family: 'Helvetica Neue','Arial',sans-serif; font-size: 10.5pt; color: #1a1a1a; line-height: 1.6; max-width: 700px; margin: 0 auto; padding: 20px; }
  h1 { font-size: 22pt; } h2 { font-size: 14pt; border-bottom: 2px solid #e5e7eb; padding-bottom: 6px; margin-top: 28px; }
  blockquote { border-left: 3px solid #f59e0b; margin: 12px 0; padding: 4px 12px; color: #92400e; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`

var narrativeTmpl = template.Must(template.New("narrative").Parse(narrativePage))

// NarrativeHTML converts narrative Markdown to a standalone HTML page.
// Raw HTML in the Markdown is dropped.
func NarrativeHTML(markdown, title, lang string) (string, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	var buf bytes.Buffer
	err := narrativeTmpl.Execute(&buf, struct {
		Lang, Title string
		Body        template.HTML
	}{lang, title, template.HTML(body.String())})
	if err != nil {
		return "", fmt.Errorf("rendering narrative: %w", err)
	}
	return buf.String(), nil
}

// Terminal renders Markdown for display in a terminal, wrapped at width.
// With color off the plain "notty" style is used.
func Terminal(markdown string, width int, color bool) (string, error) {
	if width <= 0 {
		width = 80
	}
	style := glamour.WithStandardStyle("notty")
	if color {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
