// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AnswerMetadata records how and when an answer was produced.
type AnswerMetadata struct {
	// ModelUsed is the model identifier the drafter was configured with.
	ModelUsed string `json:"model_used" yaml:"model_used"`

	// Timestamp is set by the workflow after the draft call returns.
	// It is nil on answers that have not passed through the workflow.
	Timestamp *time.Time `json:"timestamp" yaml:"timestamp"`
}

// Answer is the drafted response to a research query.
type Answer struct {
	// OriginalQuery is the query the answer responds to.
	OriginalQuery string `json:"original_query" yaml:"original_query"`

	// Answer is the drafting model's raw response text, usually Markdown.
	Answer string `json:"answer" yaml:"answer"`

	// Sources is copied from the findings' sources list. Never nil.
	Sources []any `json:"sources" yaml:"sources"`

	Metadata AnswerMetadata `json:"metadata" yaml:"metadata"`
}
