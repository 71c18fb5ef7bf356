// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deep-research/internal/config"
	"github.com/pdiddy/deep-research/internal/history"
	"github.com/pdiddy/deep-research/internal/report"
	"github.com/pdiddy/deep-research/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show, and export past runs",
	Long: `History reads the run database written by ask. Runs are identified by
the id printed in the listing; any unique prefix of an id is accepted.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := listOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		return withStore(cmd, func(ctx context.Context, s *history.Store) error {
			runs, err := s.List(ctx, opts)
			if err != nil {
				return err
			}
			return printRuns(cmd.OutOrStdout(), runs)
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _ := cmd.Flags().GetBool("full")
		asJSON, _ := cmd.Flags().GetBool("json")
		return withStore(cmd, func(ctx context.Context, s *history.Store) error {
			run, err := s.Get(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(run)
			}
			fmt.Fprintf(out, "Run %s (%s, %s)\n", run.ID, run.State.Status, run.State.Duration.Round(time.Millisecond))
			return report.WriteText(out, run.State, report.TextOptions{
				Full:        full,
				GeneratedAt: run.State.FinishedAt.Local(),
			})
		})
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		path, _ := cmd.Flags().GetString("file")
		opts, err := listOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		if opts.Limit == 0 {
			opts.Limit = -1
		}

		return withStore(cmd, func(ctx context.Context, s *history.Store) error {
			var w io.Writer = cmd.OutOrStdout()
			if path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				defer f.Close()
				w = f
			}

			switch strings.ToLower(format) {
			case "yaml", "yml":
				return s.ExportYAML(ctx, w, opts)
			case "json":
				return s.ExportJSON(ctx, w, opts)
			default:
				return fmt.Errorf("unknown export format %q: use yaml or json", format)
			}
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		c.Flags().String("status", "", "only runs with this final status (completed or error)")
		c.Flags().String("contains", "", "only runs whose query or answer contains this text")
		c.Flags().Int("limit", 0, "maximum number of runs (default 20 for list, all for export)")
	}
	historyShowCmd.Flags().BoolP("full", "f", false, "display the full answer")
	historyShowCmd.Flags().Bool("json", false, "print the run as JSON")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("file", "", "write to this file instead of stdout")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

func listOptionsFromFlags(cmd *cobra.Command) (history.ListOptions, error) {
	status, _ := cmd.Flags().GetString("status")
	contains, _ := cmd.Flags().GetString("contains")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := history.ListOptions{Contains: contains, Limit: limit}
	if status != "" {
		opts.Status = types.Status(strings.ToLower(status))
		if !opts.Status.Valid() {
			return history.ListOptions{}, fmt.Errorf("unknown status %q", status)
		}
	}
	return opts, nil
}

func withStore(cmd *cobra.Command, fn func(context.Context, *history.Store) error) error {
	cfg, err := config.Load(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	s, err := history.Open(cfg.Output.HistoryDB)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, s)
}

func printRuns(w io.Writer, runs []history.Summary) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSTATUS\tMODEL\tQUERY")
	for _, r := range runs {
		model := r.Model
		if model == "" {
			model = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			shortID(r.ID), r.StartedAt.Local().Format(time.DateTime), r.Status, model, truncate(r.Query, 60))
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
