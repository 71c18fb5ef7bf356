// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"bytes"
	"text/template"
)

// systemInstruction describes how the drafting model should write.
const systemInstruction = `You are an expert answer drafter responsible for creating comprehensive,
accurate, and well-structured responses based on research findings.

For each set of research findings you receive:
1. Synthesize the key information into a coherent narrative
2. Organize the content logically with appropriate headings and structure
3. Cite sources appropriately when presenting specific facts or claims
4. Ensure the answer is comprehensive but concise
5. Use language that is clear, professional, and accessible

Your goal is to transform raw research into a polished, informative response that
directly addresses the original query.`

var userPromptTmpl = template.Must(template.New("draft").Parse(`Original Query: {{.Query}}

Research Findings: {{.Findings}}

Please draft a comprehensive answer based on this information.`))

func renderUserPrompt(query, findings string) (string, error) {
	var buf bytes.Buffer
	err := userPromptTmpl.Execute(&buf, struct{ Query, Findings string }{query, findings})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
