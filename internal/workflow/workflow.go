// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workflow sequences the research and drafting agents for one query
// and owns the WorkflowState for that run. It is the only place agent
// errors are turned into state: Process never returns an error.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pdiddy/deep-research/pkg/types"
)

const tracerName = "github.com/pdiddy/deep-research/internal/workflow"

// Stage names used for spans and metrics.
const (
	stageResearch = "research"
	stageDraft    = "draft"
)

// Researcher produces findings for a query.
type Researcher interface {
	Research(ctx context.Context, query string) (types.Findings, error)
}

// AnswerDrafter produces an answer from a query and its findings.
type AnswerDrafter interface {
	Draft(ctx context.Context, query string, findings types.Findings) (*types.Answer, error)
}

// Workflow runs research then drafting, strictly in sequence.
type Workflow struct {
	researcher Researcher
	drafter    AnswerDrafter
	log        *slog.Logger
	now        func() time.Time
	tracer     trace.Tracer
	metrics    *Metrics
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the logger for stage transitions.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workflow) {
		if l != nil {
			w.log = l
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

// WithTracerProvider records stage spans with tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(w *Workflow) { w.tracer = tp.Tracer(tracerName) }
}

// WithMetrics records stage durations and outcomes.
func WithMetrics(m *Metrics) Option {
	return func(w *Workflow) { w.metrics = m }
}

// New creates a workflow over the given agents.
func New(researcher Researcher, drafter AnswerDrafter, opts ...Option) *Workflow {
	w := &Workflow{
		researcher: researcher,
		drafter:    drafter,
		log:        slog.New(slog.DiscardHandler),
		now:        time.Now,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// run holds the state of one Process call.
type run struct {
	state *types.WorkflowState
	log   *slog.Logger
}

// transition moves the run to next. Moves that skip or repeat a stage, or
// leave a terminal status, are refused and logged.
func (r *run) transition(next types.Status) {
	if !r.state.Status.CanTransition(next) {
		r.log.Warn("refusing status transition", "from", r.state.Status, "to", next)
		return
	}
	r.log.Debug("status transition", "from", r.state.Status, "to", next)
	r.state.Status = next
}

func (r *run) fail(err error) {
	if r.state.Status.Terminal() {
		r.log.Warn("ignoring failure after terminal status", "status", r.state.Status, "error", err)
		return
	}
	msg := err.Error()
	r.log.Debug("status transition", "from", r.state.Status, "to", types.StatusError, "error", msg)
	r.state.Status = types.StatusError
	r.state.Error = &msg
}

// Process runs the query through research and drafting and returns the final
// state. The status ends as completed, with an answer, or as error, with the
// failure message and whatever research results were stored before the
// failing stage.
func (w *Workflow) Process(ctx context.Context, query string) *types.WorkflowState {
	ctx, span := w.tracer.Start(ctx, "workflow.process",
		trace.WithAttributes(attribute.String("query", query)))
	defer span.End()

	r := &run{
		state: &types.WorkflowState{
			Query:     query,
			Status:    types.StatusInitializing,
			StartedAt: w.now(),
		},
		log: w.log.With("query", query),
	}
	defer w.finish(r, span)

	if strings.TrimSpace(query) == "" {
		r.fail(errEmptyQuery)
		return r.state
	}

	r.transition(types.StatusResearching)
	findings, err := w.research(ctx, query)
	if err != nil {
		r.fail(err)
		return r.state
	}
	r.state.ResearchResults = &findings
	r.transition(types.StatusResearchCompleted)

	r.transition(types.StatusDrafting)
	answer, err := w.draft(ctx, query, findings)
	if err != nil {
		r.fail(err)
		return r.state
	}
	stamp := w.now()
	answer.Metadata.Timestamp = &stamp
	r.state.Answer = answer
	r.transition(types.StatusDraftingCompleted)

	r.transition(types.StatusCompleted)
	return r.state
}

// research calls the researcher. A panic in the researcher is returned as
// an error so the run still ends with a state.
func (w *Workflow) research(ctx context.Context, query string) (findings types.Findings, err error) {
	ctx, span := w.tracer.Start(ctx, "workflow.research")
	defer span.End()

	start := w.now()
	defer func() {
		if p := recover(); p != nil {
			findings, err = types.Findings{}, fmt.Errorf("research stage panicked: %v", p)
		}
		w.metrics.observeStage(stageResearch, w.now().Sub(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
		span.SetAttributes(
			attribute.String("findings.kind", string(findings.Kind())),
			attribute.Int("findings.sources", len(findings.Sources())),
		)
	}()

	return w.researcher.Research(ctx, query)
}

// draft calls the drafter. A panic or a nil answer is returned as an error.
func (w *Workflow) draft(ctx context.Context, query string, findings types.Findings) (answer *types.Answer, err error) {
	ctx, span := w.tracer.Start(ctx, "workflow.draft")
	defer span.End()

	start := w.now()
	defer func() {
		if p := recover(); p != nil {
			answer, err = nil, fmt.Errorf("draft stage panicked: %v", p)
		}
		if err == nil && answer == nil {
			err = errNoAnswer
		}
		w.metrics.observeStage(stageDraft, w.now().Sub(start), err)
		if err != nil {
			answer = nil
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	return w.drafter.Draft(ctx, query, findings)
}

func (w *Workflow) finish(r *run, span trace.Span) {
	r.state.FinishedAt = w.now()
	r.state.Duration = r.state.FinishedAt.Sub(r.state.StartedAt)
	w.metrics.countQuery(r.state.Status)

	span.SetAttributes(attribute.String("status", string(r.state.Status)))
	if r.state.Status == types.StatusError {
		span.SetStatus(codes.Error, r.state.ErrorMessage())
		r.log.Info("query failed", "error", r.state.ErrorMessage(), "duration", r.state.Duration)
		return
	}
	r.log.Info("query completed", "duration", r.state.Duration)
}
