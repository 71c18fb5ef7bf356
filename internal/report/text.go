// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/deep-research/pkg/types"
)

// TextOptions controls WriteText.
type TextOptions struct {
	// Full prints the whole answer instead of a summary.
	Full bool

	// GeneratedAt is shown in the header.
	GeneratedAt time.Time

	// Saved lists result files to point the reader at.
	Saved Paths
}

// WriteText renders state for a terminal. Failed runs print the stored
// error message.
func WriteText(w io.Writer, state *types.WorkflowState, opts TextOptions) error {
	var b bytes.Buffer
	thick := strings.Repeat("=", 80)
	thin := strings.Repeat("-", 80)

	switch {
	case state.Status != types.StatusCompleted:
		fmt.Fprintf(&b, "\nError processing query: %s\n", state.ErrorMessage())
		b.WriteString("Please check your query and try again.\n")
	case state.Answer == nil:
		b.WriteString("No answer was generated.\n")
	default:
		a := state.Answer
		fmt.Fprintf(&b, "\n%s\nRESEARCH RESULTS: %s\n%s\n", thick, state.Query, thick)
		fmt.Fprintf(&b, "\nGenerated on: %s\n", opts.GeneratedAt.Format(time.DateTime))
		fmt.Fprintf(&b, "Model used: %s\n%s\n\n", modelName(a), thick)

		fmt.Fprintf(&b, "ANSWER:\n%s\n", thin)
		if opts.Full {
			fmt.Fprintf(&b, "\n%s\n\n", a.Answer)
		} else {
			fmt.Fprintf(&b, "\n%s\n\n", Summary(a.Answer, DefaultSummaryLength))
			b.WriteString("[...Summary only. Use --full or -f to see the complete answer...]\n")
		}
		fmt.Fprintf(&b, "%s\n\n", thin)

		if len(a.Sources) > 0 {
			fmt.Fprintf(&b, "SOURCES:\n%s\n", thin)
			for i, s := range a.Sources {
				fmt.Fprintf(&b, "%d. %s\n", i+1, SourceString(s))
			}
			fmt.Fprintf(&b, "%s\n\n", thin)
		}

		if opts.Saved.JSON != "" {
			b.WriteString("Full results available in:\n")
			fmt.Fprintf(&b, "- JSON: %s\n", opts.Saved.JSON)
			if opts.Saved.HTML != "" {
				fmt.Fprintf(&b, "- HTML: %s (Recommended for better readability)\n", opts.Saved.HTML)
			}
		}
		fmt.Fprintf(&b, "%s\n", thick)
	}

	_, err := w.Write(b.Bytes())
	return err
}
