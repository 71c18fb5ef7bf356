// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders a finished workflow state for people: result
// files on disk and a terminal view.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/deep-research/pkg/types"
)

const slugLength = 30

// Paths lists the files written by Save. HTML is empty when no report page
// was written.
type Paths struct {
	JSON string
	HTML string
}

// Options controls Save.
type Options struct {
	// HTML enables the report page for completed runs.
	HTML bool
}

// Save writes state to dir as <slug>_<unix>.json and, for completed runs
// with HTML enabled, a matching .html page. The directory is created if
// missing.
func Save(state *types.WorkflowState, dir string, now time.Time, opts Options) (Paths, error) {
	if state == nil {
		return Paths{}, fmt.Errorf("saving results: nil state")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("creating output directory: %w", err)
	}

	base := fmt.Sprintf("%s_%d", Slug(state.Query), now.Unix())

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return Paths{}, fmt.Errorf("marshaling results: %w", err)
	}
	paths := Paths{JSON: filepath.Join(dir, base+".json")}
	if err := os.WriteFile(paths.JSON, data, 0o644); err != nil {
		return Paths{}, fmt.Errorf("writing %s: %w", paths.JSON, err)
	}

	if !opts.HTML || state.Status != types.StatusCompleted || state.Answer == nil {
		return paths, nil
	}

	page, err := RenderHTML(state, now)
	if err != nil {
		return paths, err
	}
	htmlPath := filepath.Join(dir, base+".html")
	if err := os.WriteFile(htmlPath, page, 0o644); err != nil {
		return paths, fmt.Errorf("writing %s: %w", htmlPath, err)
	}
	paths.HTML = htmlPath
	return paths, nil
}

// Slug derives a file name stem from a query: lower case, at most 30
// characters, spaces replaced by underscores, and ? and ! removed. Path
// separators are replaced too so the file stays inside its directory.
func Slug(query string) string {
	r := []rune(strings.ToLower(query))
	if len(r) > slugLength {
		r = r[:slugLength]
	}
	return strings.NewReplacer(
		" ", "_",
		"?", "",
		"!", "",
		"/", "_",
		`\`, "_",
	).Replace(string(r))
}

// SourceString formats one source entry for display. Strings are shown
// as-is; anything else is shown as compact JSON.
func SourceString(source any) string {
	if s, ok := source.(string); ok {
		return s
	}
	data, err := json.Marshal(source)
	if err != nil {
		return fmt.Sprint(source)
	}
	return string(data)
}
