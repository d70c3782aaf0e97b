package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// StoreResult is what the storage worker reports back into workflow state.
type StoreResult struct {
	Success   bool   `json:"success"`
	SummaryID string `json:"summary_id"`
	Message   string `json:"message,omitempty"`
}

// WorkflowState accumulates the outputs of completed steps for one run.
// Content and SavedItem are the router's only two decision signals; the
// state is discarded once the run completes.
type WorkflowState struct {
	Content   *CleanedContent `json:"content,omitempty"`
	SavedItem *StoreResult    `json:"saved_item,omitempty"`
}

// RunStatus represents the lifecycle status of a workflow run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	// RunStatusAbandoned marks runs that failed for a reason retrying cannot
	// change, such as a missing document. Never picked up by the resume job.
	RunStatusAbandoned RunStatus = "abandoned"
)

// WorkflowRun is the checkpoint record for one pipeline run. The state is
// persisted after every completed step so an interrupted run resumes from
// its last checkpoint instead of restarting.
type WorkflowRun struct {
	RunID        uuid.UUID        `json:"run_id"`
	Ref          ContentReference `json:"ref"`
	Status       RunStatus        `json:"status"`
	Step         string           `json:"step"`
	State        WorkflowState    `json:"state"`
	Attempts     int              `json:"attempts"`
	SummaryID    string           `json:"summary_id,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// IsTerminal returns true if the run status is terminal.
func (r *WorkflowRun) IsTerminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed || r.Status == RunStatusAbandoned
}

// IsPermanentError reports whether retrying can never change the outcome:
// the document does not exist, is of an unknown kind, or is structurally
// broken. Runs failing on these are abandoned rather than left for resume.
func IsPermanentError(err error) bool {
	return errors.Is(err, ErrContentNotFound) ||
		errors.Is(err, ErrUnsupportedContentType) ||
		errors.Is(err, ErrMalformedContent)
}

// CanResume returns true if a failed run may be picked up again by the
// resume job, given the configured attempt cap.
func (r *WorkflowRun) CanResume(maxAttempts int) bool {
	return r.Status == RunStatusFailed && r.Attempts < maxAttempts
}
