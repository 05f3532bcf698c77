package generator

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	dErrors "legacyvault/pkg/domain-errors"
)

var markup = template.Must(template.New("will").Funcs(template.FuncMap{
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}).Parse(`<article class="will" lang="{{.Language}}">
<h1>{{.Title}}</h1>
{{range .Sections}}<section class="will-section" data-section="{{.Key}}">
{{if .Heading}}<h2>{{.Number}}. {{.Heading}}</h2>
{{end}}{{range .Paragraphs}}<p>{{range $i, $line := lines .}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
{{end}}{{with .Explanation}}<aside class="explanation">{{.}}</aside>
{{end}}</section>
{{end}}</article>
`))

// renderText lays the document out as plain text. The result is already in
// canonical form so its checksum is stable.
func renderText(doc Document) string {
	var b strings.Builder
	b.WriteString(doc.Title)
	b.WriteString("\n")
	for _, s := range doc.Sections {
		b.WriteString("\n")
		if s.Heading != "" {
			fmt.Fprintf(&b, "%d. %s\n\n", s.Number, strings.ToUpper(s.Heading))
		}
		for _, p := range s.Paragraphs {
			b.WriteString(p)
			b.WriteString("\n\n")
		}
		if s.Explanation != "" {
			b.WriteString(s.Explanation)
			b.WriteString("\n")
		}
	}
	return Canonicalize(b.String())
}

func renderHTML(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := markup.Execute(&buf, doc); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "render markup")
	}
	return buf.String(), nil
}
