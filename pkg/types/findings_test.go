// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestFindingsVariants(t *testing.T) {
	structured := StructuredFindings(map[string]any{
		KeyMainFindings:  []any{"a", "b"},
		KeyDetailedNotes: "notes",
		KeySources:       []any{"https://x"},
	})
	assert.Equal(t, FindingsStructured, structured.Kind())
	assert.True(t, structured.IsStructured())
	assert.Empty(t, structured.Text())
	main, ok := structured.MainFindings()
	assert.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, main)
	notes, ok := structured.DetailedNotes()
	assert.True(t, ok)
	assert.Equal(t, "notes", notes)

	text := TextFindings("raw model output")
	assert.Equal(t, FindingsText, text.Kind())
	assert.Nil(t, text.Fields())
	assert.Equal(t, "raw model output", text.Text())
	_, ok = text.MainFindings()
	assert.False(t, ok)

	var zero Findings
	assert.Equal(t, FindingsText, zero.Kind())
	assert.Equal(t, map[string]any{}, StructuredFindings(nil).Fields())
}

func TestFindingsSources(t *testing.T) {
	tests := []struct {
		name     string
		findings Findings
		want     []any
	}{
		{name: "list", findings: StructuredFindings(map[string]any{KeySources: []any{"a", "b"}}), want: []any{"a", "b"}},
		{name: "scalar", findings: StructuredFindings(map[string]any{KeySources: "only"}), want: []any{"only"}},
		{name: "object", findings: StructuredFindings(map[string]any{KeySources: map[string]any{"url": "u"}}), want: []any{map[string]any{"url": "u"}}},
		{name: "null", findings: StructuredFindings(map[string]any{KeySources: nil}), want: []any{}},
		{name: "missing", findings: StructuredFindings(map[string]any{"other": 1}), want: []any{}},
		{name: "text", findings: TextFindings("whatever"), want: []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.findings.Sources()
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindingsSourcesIsCopy(t *testing.T) {
	list := []any{"a"}
	f := StructuredFindings(map[string]any{KeySources: list})
	got := f.Sources()
	got[0] = "changed"
	assert.Equal(t, "a", list[0])
}

func TestFindingsJSON(t *testing.T) {
	data, err := json.Marshal(TextFindings("plain"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"research_text":"plain"}`, string(data))

	var back Findings
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, FindingsText, back.Kind())
	assert.Equal(t, "plain", back.Text())

	data, err = json.Marshal(StructuredFindings(map[string]any{KeyMainFindings: []any{"x"}, "extra": 2}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"main_findings":["x"],"extra":2}`, string(data))

	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.IsStructured())
	assert.Equal(t, json.Number("2"), back.Fields()["extra"])
}

func TestFindingsJSONKeepsLargeIntegers(t *testing.T) {
	var f Findings
	require.NoError(t, json.Unmarshal([]byte(`{"id":12345678901234567891}`), &f))
	require.True(t, f.IsStructured())

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"id":12345678901234567891}`, string(data))
}

func TestFindingsMapIsCopy(t *testing.T) {
	f := StructuredFindings(map[string]any{KeyMainFindings: "a"})

	m := f.Map()
	m[KeyMainFindings] = "changed"
	m["added"] = true

	got, _ := f.MainFindings()
	assert.Equal(t, "a", got)
	assert.NotContains(t, f.Fields(), "added")
}

func TestFindingsUnmarshalRejectsNonObject(t *testing.T) {
	var f Findings
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &f))
}

func TestFindingsYAMLNumbers(t *testing.T) {
	var f Findings
	require.NoError(t, json.Unmarshal([]byte(`{"big":12345678901234567891,"n":[2,0.5]}`), &f))

	data, err := yaml.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, "big: 12345678901234567891\nn:\n    - 2\n    - 0.5\n", string(data))
}

func TestFindingsYAML(t *testing.T) {
	data, err := yaml.Marshal(TextFindings("plain"))
	require.NoError(t, err)
	assert.Equal(t, "research_text: plain\n", string(data))
}
