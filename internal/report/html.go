// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pdiddy/deep-research/pkg/types"
)

const unknownModel = "Unknown"

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Research: {{.Query}}</title>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 0 auto; padding: 20px; }
        h1 { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        h2 { color: #3498db; margin-top: 30px; }
        .metadata { color: #7f8c8d; font-size: 0.9em; margin-bottom: 30px; }
        .answer { background-color: #f9f9f9; padding: 20px; border-radius: 5px; }
        .answer code { background-color: #f0f0f0; padding: 2px 4px; border-radius: 3px; font-family: monospace; }
        .answer pre { background-color: #f0f0f0; padding: 10px; border-radius: 5px; overflow-x: auto; }
        .answer blockquote { border-left: 4px solid #ccc; margin-left: 0; padding-left: 15px; color: #555; }
        .answer table { border-collapse: collapse; width: 100%; }
        .answer th, .answer td { border: 1px solid #ddd; padding: 8px; }
        .sources { margin-top: 30px; }
        .source-item { margin-bottom: 10px; }
    </style>
</head>
<body>
    <h1>Research Results: {{.Query}}</h1>
    <div class="metadata">
        <p>Generated on: {{.Generated}}</p>
        <p>Model used: {{.Model}}</p>
    </div>

    <h2>Answer</h2>
    <div class="answer">
{{.Answer}}
    </div>
{{- if .Sources}}

    <h2>Sources</h2>
    <div class="sources">
{{- range $i, $s := .Sources}}
        <div class="source-item">
            <strong>Source {{inc $i}}:</strong> {{$s}}
        </div>
{{- end}}
    </div>
{{- end}}
</body>
</html>
`))

type page struct {
	Query     string
	Generated string
	Model     string
	Answer    template.HTML
	Sources   []string
}

// RenderHTML renders the answer of a completed state as a standalone HTML
// page. The answer text is treated as Markdown.
func RenderHTML(state *types.WorkflowState, generatedAt time.Time) ([]byte, error) {
	if state.Answer == nil {
		return nil, fmt.Errorf("rendering report: state has no answer")
	}

	var body bytes.Buffer
	if err := markdown.Convert([]byte(state.Answer.Answer), &body); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	p := page{
		Query:     state.Query,
		Generated: generatedAt.Format(time.DateTime),
		Model:     modelName(state.Answer),
		Answer:    template.HTML(body.String()),
	}
	for _, s := range state.Answer.Sources {
		p.Sources = append(p.Sources, SourceString(s))
	}

	var out bytes.Buffer
	if err := pageTemplate.Execute(&out, p); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return out.Bytes(), nil
}

func modelName(a *types.Answer) string {
	if a.Metadata.ModelUsed == "" {
		return unknownModel
	}
	return a.Metadata.ModelUsed
}
