package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var outreachTemplate = template.Must(template.New("outreach.html").ParseFS(templateFS, "templates/outreach.html"))

type outreachEmailData struct {
	Title      string
	Paragraphs [][]string
}

// renderOutreachHTML wraps a plain text body in the HTML layout. Blank lines
// separate paragraphs and single newlines become line breaks.
func renderOutreachHTML(subject, body string) (string, error) {
	data := outreachEmailData{Title: subject}
	for _, block := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		data.Paragraphs = append(data.Paragraphs, strings.Split(block, "\n"))
	}

	var buf bytes.Buffer
	if err := outreachTemplate.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute outreach email template: %w", err)
	}
	return buf.String(), nil
}
