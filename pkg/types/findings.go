// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"

	"go.yaml.in/yaml/v3"
)

// FindingsKind identifies which variant a Findings value holds.
type FindingsKind string

const (
	// FindingsStructured holds a JSON object parsed from the model response.
	FindingsStructured FindingsKind = "structured"

	// FindingsText holds the raw model response when no object could be parsed.
	FindingsText FindingsKind = "text"
)

// Well-known keys of structured findings.
const (
	KeyMainFindings  = "main_findings"
	KeyDetailedNotes = "detailed_notes"
	KeySources       = "sources"
	KeyResearchText  = "research_text"
)

// Findings is the output of the research stage. It is either a structured
// JSON object (kept verbatim, with no schema enforced) or a free-text
// fallback. The variant is decided once when the model output is parsed.
type Findings struct {
	kind   FindingsKind
	fields map[string]any
	text   string
}

// StructuredFindings wraps a parsed JSON object. A nil map is treated as empty.
func StructuredFindings(fields map[string]any) Findings {
	if fields == nil {
		fields = map[string]any{}
	}
	return Findings{kind: FindingsStructured, fields: fields}
}

// TextFindings wraps free text that could not be parsed as an object.
func TextFindings(text string) Findings {
	return Findings{kind: FindingsText, text: text}
}

// Kind reports the variant. The zero value reports FindingsText.
func (f Findings) Kind() FindingsKind {
	if f.kind == "" {
		return FindingsText
	}
	return f.kind
}

// IsStructured reports whether the findings hold a parsed object.
func (f Findings) IsStructured() bool {
	return f.Kind() == FindingsStructured
}

// Fields returns the parsed object, or nil for text findings.
func (f Findings) Fields() map[string]any {
	if !f.IsStructured() {
		return nil
	}
	return f.fields
}

// Text returns the fallback text, or "" for structured findings.
func (f Findings) Text() string {
	if f.IsStructured() {
		return ""
	}
	return f.text
}

// MainFindings returns the main_findings value if present.
func (f Findings) MainFindings() (any, bool) {
	return f.lookup(KeyMainFindings)
}

// DetailedNotes returns the detailed_notes value if present.
func (f Findings) DetailedNotes() (any, bool) {
	return f.lookup(KeyDetailedNotes)
}

// Sources returns the sources value as a list. It is never nil: text
// findings and objects without a sources key yield an empty list, and a
// scalar or object value is wrapped in a one-element list.
func (f Findings) Sources() []any {
	v, ok := f.lookup(KeySources)
	if !ok || v == nil {
		return []any{}
	}
	if list, ok := v.([]any); ok {
		out := make([]any, len(list))
		copy(out, list)
		return out
	}
	return []any{v}
}

func (f Findings) lookup(key string) (any, bool) {
	if !f.IsStructured() {
		return nil, false
	}
	v, ok := f.fields[key]
	return v, ok
}

// Map returns the mapping form of the findings: a shallow copy of the
// parsed object, or {research_text: text} for the fallback variant.
func (f Findings) Map() map[string]any {
	if f.IsStructured() {
		return maps.Clone(f.fields)
	}
	return map[string]any{KeyResearchText: f.text}
}

// MarshalJSON emits the mapping form.
func (f Findings) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Map())
}

// UnmarshalJSON restores findings from their mapping form. An object whose
// only key is research_text with a string value is read back as text.
// Numbers are kept as json.Number.
func (f *Findings) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return fmt.Errorf("decoding findings: %w", err)
	}
	if text, ok := m[KeyResearchText].(string); ok && len(m) == 1 {
		*f = TextFindings(text)
		return nil
	}
	*f = StructuredFindings(m)
	return nil
}

// MarshalYAML emits the mapping form. json.Number values become numeric
// scalars with every digit kept.
func (f Findings) MarshalYAML() (any, error) {
	return yamlValue(f.Map()), nil
}

func yamlValue(v any) any {
	switch v := v.(type) {
	case json.Number:
		// Untagged plain scalar: the digits are emitted verbatim.
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v.String()}
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = yamlValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = yamlValue(e)
		}
		return out
	default:
		return v
	}
}
