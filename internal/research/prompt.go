// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"text/template"
)

// systemInstruction asks the structuring model for JSON findings.
const systemInstruction = `You are an expert researcher tasked with gathering comprehensive information.
Extract key facts, data points, and insights from the search results.
Format your research findings as structured JSON with the following fields:
- main_findings: A list of the most important facts discovered
- detailed_notes: More in-depth information organized by subtopic
- sources: The sources you consulted, with URLs when available

Your goal is to collect thorough, accurate, and well-organized information.`

var userPromptTmpl = template.Must(template.New("research").Parse(
	`Analyze and organize these search results about '{{.Query}}': {{.Results}}`))

// renderUserPrompt embeds the query and the serialized search results.
func renderUserPrompt(query, results string) (string, error) {
	var buf bytes.Buffer
	err := userPromptTmpl.Execute(&buf, struct{ Query, Results string }{query, results})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
