// Package state persists validation run history in SQLite.
// It tracks runs, per-label verdicts and the findings each label produced.
package state

import (
	"time"

	"github.com/leapstack-labs/vtool/pkg/core"
)

// RunStatus is the lifecycle state of a validation run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Run is one invocation of the validator over a batch of labels.
type Run struct {
	ID           string     `json:"id"`
	Status       RunStatus  `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Dictionaries []string   `json:"dictionaries"`
	Labels       int        `json:"labels"`
	ValidLabels  int        `json:"valid_labels"`
	Errors       int        `json:"errors"`
	Warnings     int        `json:"warnings"`
	Error        string     `json:"error,omitempty"`
}

// LabelRecord is the stored verdict for one label in a run.
type LabelRecord struct {
	RunID     string `json:"run_id"`
	File      string `json:"file"`
	LabelType string `json:"label_type,omitempty"`
	Valid     bool   `json:"valid"`
	Truncated int    `json:"truncated,omitempty"`
}

// Finding is a stored diagnostic.
type Finding struct {
	RunID string `json:"run_id"`
	core.Diagnostic
}

// Totals are the counters written when a run completes.
type Totals struct {
	Labels      int
	ValidLabels int
	Errors      int
	Warnings    int
}
