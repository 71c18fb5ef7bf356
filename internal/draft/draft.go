// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package draft turns research findings into a prose answer with sources.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pdiddy/deep-research/internal/llm"
	"github.com/pdiddy/deep-research/pkg/types"
)

// Drafter makes one drafting completion per answer.
type Drafter struct {
	completer   llm.Completer
	model       string
	temperature float64
	topP        float64
	log         *slog.Logger
}

// New creates a drafter from the AI settings in cfg.
func New(cfg types.Config, completer llm.Completer, log *slog.Logger) *Drafter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Drafter{
		completer:   completer,
		model:       cfg.AI.Model,
		temperature: cfg.AI.Temperature,
		topP:        cfg.AI.TopP,
		log:         log,
	}
}

// Draft asks the model for an answer to query grounded in findings. The
// response text is used verbatim. Sources come from the findings and are an
// empty list when the findings carry none. The timestamp is left nil for the
// caller to fill in.
func (d *Drafter) Draft(ctx context.Context, query string, findings types.Findings) (*types.Answer, error) {
	serialized, err := json.Marshal(findings)
	if err != nil {
		return nil, fmt.Errorf("serializing findings: %w", err)
	}

	user, err := renderUserPrompt(query, string(serialized))
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	text, err := d.completer.Complete(ctx, llm.Request{
		System:      systemInstruction,
		User:        user,
		Model:       d.model,
		Temperature: d.temperature,
		TopP:        d.topP,
	})
	if err != nil {
		return nil, err
	}
	d.log.Debug("answer drafted", "chars", len(text))

	return &types.Answer{
		OriginalQuery: query,
		Answer:        text,
		Sources:       findings.Sources(),
		Metadata: types.AnswerMetadata{
			ModelUsed: d.model,
		},
	}, nil
}
