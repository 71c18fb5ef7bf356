// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deep-research/internal/config"
	"github.com/pdiddy/deep-research/internal/draft"
	"github.com/pdiddy/deep-research/internal/history"
	"github.com/pdiddy/deep-research/internal/llm"
	"github.com/pdiddy/deep-research/internal/report"
	"github.com/pdiddy/deep-research/internal/research"
	"github.com/pdiddy/deep-research/internal/search"
	"github.com/pdiddy/deep-research/internal/telemetry"
	"github.com/pdiddy/deep-research/internal/workflow"
	"github.com/pdiddy/deep-research/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [query...]",
	Short: "Research a question and draft an answer",
	Long: `Ask runs one query through the workflow: web search, structuring of the
results into findings, and drafting of the final answer. The query comes from
--query, the positional arguments, or a prompt on stdin, in that order.`,
	RunE: runAskCmd,
}

func init() {
	askCmd.Flags().StringP("query", "q", "", "the research query to process")
	askCmd.Flags().StringP("output", "o", "", "output directory for saved results (default ./data)")
	askCmd.Flags().BoolP("full", "f", false, "display the full answer instead of a summary")
	askCmd.Flags().Bool("no-save", false, "do not write result files or history")
	askCmd.Flags().Bool("json", false, "print the workflow state as JSON")
	askCmd.Flags().String("metrics-file", "", "write Prometheus metrics for this run to a textfile")
	askCmd.Flags().Bool("trace", false, "print OpenTelemetry spans to stderr")
	_ = viper.BindPFlag("output.dir", askCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(askCmd)
}

// processor runs one query to a terminal state.
type processor interface {
	Process(ctx context.Context, query string) *types.WorkflowState
}

type askOptions struct {
	full        bool
	noSave      bool
	jsonOut     bool
	metricsFile string
}

func runAskCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	flagQuery, _ := cmd.Flags().GetString("query")
	query, err := resolveQuery(args, flagQuery, cmd.InOrStdin(), out)
	if err != nil {
		return err
	}

	cfg, err := config.Load(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	var opts askOptions
	opts.full, _ = cmd.Flags().GetBool("full")
	opts.noSave, _ = cmd.Flags().GetBool("no-save")
	opts.jsonOut, _ = cmd.Flags().GetBool("json")
	opts.metricsFile, _ = cmd.Flags().GetString("metrics-file")
	traceOn, _ := cmd.Flags().GetBool("trace")

	log := slog.Default()
	reg := prometheus.NewRegistry()
	metrics, err := workflow.NewMetrics(reg)
	if err != nil {
		return err
	}
	wfOpts := []workflow.Option{workflow.WithLogger(log), workflow.WithMetrics(metrics)}

	if traceOn {
		tp, shutdown, err := telemetry.NewTracerProvider(cmd.ErrOrStderr(), version)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn("shutting down tracer", "error", err)
			}
		}()
		wfOpts = append(wfOpts, workflow.WithTracerProvider(tp))
	}

	completer, err := llm.New(ctx, cfg.AI, nil)
	if err != nil {
		return err
	}
	searcher := search.NewTavily(cfg.Search)
	wf := workflow.New(
		research.New(cfg, searcher, completer, log),
		draft.New(cfg, completer, log),
		wfOpts...,
	)

	if !opts.jsonOut {
		printBanner(out, query, cfg.AI.Model)
	}
	err = runAsk(ctx, out, cfg, query, opts, wf)

	if opts.metricsFile != "" {
		if werr := prometheus.WriteToTextfile(opts.metricsFile, reg); werr != nil {
			log.Warn("writing metrics file", "path", opts.metricsFile, "error", werr)
		}
	}
	return err
}

// runAsk processes query, persists the result unless disabled, and prints
// it. A run that ends in the error status is reported as an error after
// printing.
func runAsk(ctx context.Context, out io.Writer, cfg types.Config, query string, opts askOptions, proc processor) error {
	state := proc.Process(ctx, query)
	now := time.Now()

	var saved report.Paths
	if !opts.noSave {
		saved = persist(ctx, cfg, state, now)
	}

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			return fmt.Errorf("encoding state: %w", err)
		}
	} else {
		fmt.Fprintf(out, "\nQuery processed in %.2f seconds\n", state.Duration.Seconds())
		if err := report.WriteText(out, state, report.TextOptions{
			Full:        opts.full,
			GeneratedAt: now,
			Saved:       saved,
		}); err != nil {
			return err
		}
	}

	if state.Status == types.StatusError {
		return fmt.Errorf("query failed: %s", state.ErrorMessage())
	}
	return nil
}

// persist writes result files and the history record. Failures are logged;
// they never change the outcome of the run.
func persist(ctx context.Context, cfg types.Config, state *types.WorkflowState, now time.Time) report.Paths {
	log := slog.Default()

	paths, err := report.Save(state, cfg.Output.Dir, now, report.Options{HTML: cfg.Output.SaveHTML})
	if err != nil {
		log.Warn("saving results", "dir", cfg.Output.Dir, "error", err)
	}

	store, err := history.Open(cfg.Output.HistoryDB)
	if err != nil {
		log.Warn("opening history", "path", cfg.Output.HistoryDB, "error", err)
		return paths
	}
	defer store.Close()

	id, err := store.Record(ctx, state)
	if err != nil {
		log.Warn("recording history", "error", err)
		return paths
	}
	log.Info("recorded run", "id", id, "status", state.Status)
	return paths
}

func printBanner(out io.Writer, query, model string) {
	line := strings.Repeat("-", 50)
	fmt.Fprintf(out, "\n%s\n", line)
	fmt.Fprintf(out, "Processing query: %s\n", query)
	fmt.Fprintf(out, "Using model: %s\n", model)
	fmt.Fprintln(out, "This may take a moment...")
	fmt.Fprintf(out, "%s\n", line)
}

// resolveQuery picks the query from the flag, then the positional args,
// then a prompt on in.
func resolveQuery(args []string, flagQuery string, in io.Reader, out io.Writer) (string, error) {
	if q := strings.TrimSpace(flagQuery); q != "" {
		return q, nil
	}
	if q := strings.TrimSpace(strings.Join(args, " ")); q != "" {
		return q, nil
	}

	fmt.Fprint(out, "Enter your research query: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading query: %w", err)
	}
	return strings.TrimSpace(line), nil
}
