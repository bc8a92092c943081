package release

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the terminal state of one crate within a publish run.
type Outcome string

const (
	// OutcomeSkipped means the version was already visible in the
	// registry and no publish was attempted.
	OutcomeSkipped Outcome = "skipped"

	// OutcomePublished means the version was uploaded and confirmed
	// visible in the registry index.
	OutcomePublished Outcome = "published"

	// OutcomeFailed means the publish exhausted its retries or hit a
	// fatal error. A failed crate aborts the remainder of the plan.
	OutcomeFailed Outcome = "failed"
)

// Attempt records the outcome for one crate in a publish run.
type Attempt struct {
	Crate    string        `json:"crate"`
	Version  string        `json:"version"`
	Outcome  Outcome       `json:"outcome"`
	Attempts int           `json:"attempts"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report accumulates per-crate outcomes for one publish run, in plan
// order. Entries are only ever appended; a crate the run never reached
// has no entry at all.
type Report struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	DryRun    bool      `json:"dry_run,omitempty"`
	Attempts  []Attempt `json:"attempts"`
}

// NewReport creates an empty report with a fresh run identifier.
func NewReport() *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

func (r *Report) record(a Attempt) {
	r.Attempts = append(r.Attempts, a)
}

// Failed reports whether any crate in the run ended in OutcomeFailed.
func (r *Report) Failed() bool {
	for _, a := range r.Attempts {
		if a.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

// Counts returns the number of skipped, published, and failed crates.
func (r *Report) Counts() (skipped, published, failed int) {
	for _, a := range r.Attempts {
		switch a.Outcome {
		case OutcomeSkipped:
			skipped++
		case OutcomePublished:
			published++
		case OutcomeFailed:
			failed++
		}
	}
	return skipped, published, failed
}
