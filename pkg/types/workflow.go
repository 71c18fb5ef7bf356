// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Status is the stage a workflow run has reached.
type Status string

const (
	StatusInitializing      Status = "initializing"
	StatusResearching       Status = "researching"
	StatusResearchCompleted Status = "research_completed"
	StatusDrafting          Status = "drafting"
	StatusDraftingCompleted Status = "drafting_completed"
	StatusCompleted         Status = "completed"
	StatusError             Status = "error"
)

// statusOrder ranks the non-error statuses; transitions only move forward.
var statusOrder = map[Status]int{
	StatusInitializing:      0,
	StatusResearching:       1,
	StatusResearchCompleted: 2,
	StatusDrafting:          3,
	StatusDraftingCompleted: 4,
	StatusCompleted:         5,
}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	if s == StatusError {
		return true
	}
	_, ok := statusOrder[s]
	return ok
}

// Terminal reports whether no further transition is possible from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// CanTransition reports whether moving from s to next is allowed: forward
// through the stage order one step at a time, or to error from any
// non-terminal status.
func (s Status) CanTransition(next Status) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusError {
		return true
	}
	from, ok := statusOrder[s]
	if !ok {
		return false
	}
	to, ok := statusOrder[next]
	return ok && to == from+1
}

// WorkflowState is the record threaded through one run of the workflow.
// Answer is non-nil only when Status is completed; Error is non-nil only
// when Status is error.
type WorkflowState struct {
	Query           string    `json:"query" yaml:"query"`
	Status          Status    `json:"status" yaml:"status"`
	ResearchResults *Findings `json:"research_results" yaml:"research_results"`
	Answer          *Answer   `json:"answer" yaml:"answer"`
	Error           *string   `json:"error" yaml:"error"`

	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time     `json:"finished_at" yaml:"finished_at"`
	Duration   time.Duration `json:"duration_ns" yaml:"duration_ns"`
}

// ErrorMessage returns the stored error text, or "" when there is none.
func (s *WorkflowState) ErrorMessage() string {
	if s.Error == nil {
		return ""
	}
	return *s.Error
}
