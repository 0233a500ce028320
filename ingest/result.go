package ingest

import (
	"time"

	"github.com/google/uuid"
)

// State tracks where a run is in its lifecycle.
type State string

const (
	StateInit     State = "init"
	StateReading  State = "reading"
	StateRunning  State = "running" // validating/batching loop
	StateFlushing State = "flushing"
	StateDone     State = "done"
	StateFailed   State = "failed"
)

// Reject records one excluded source row with its original position and the
// reason it was excluded. Reject lists preserve source row order.
type Reject struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Result accumulates the outcome of one ingestion run. Mutated incrementally
// while the run executes, final once Run returns.
type Result struct {
	RunID  string `json:"run_id"`
	Domain string `json:"domain"`
	Source string `json:"source"`

	TotalRecords int      `json:"total_records"`
	Inserted     int      `json:"inserted"`
	Validation   []Reject `json:"rejected_validation"`
	Duplicates   []Reject `json:"rejected_duplicates"`
	BatchCount   int      `json:"batch_count"`

	// SinkFailures records batch-level sink errors tolerated in best-effort
	// mode. The records of a failed batch are not counted as inserted.
	SinkFailures []string `json:"sink_failures,omitempty"`

	State      State     `json:"state"`
	Incomplete bool      `json:"incomplete"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func newResult(domain, source string) *Result {
	return &Result{
		RunID:     uuid.NewString(),
		Domain:    domain,
		Source:    source,
		State:     StateInit,
		StartedAt: time.Now(),
	}
}

// RejectedValidation returns the number of records rejected by validation.
func (r *Result) RejectedValidation() int { return len(r.Validation) }

// RejectedDuplicates returns the number of records classified as duplicates.
func (r *Result) RejectedDuplicates() int { return len(r.Duplicates) }

// SuccessRate returns inserted/total in [0,1], defined as 0 for an empty run.
func (r *Result) SuccessRate() float64 {
	if r.TotalRecords == 0 {
		return 0
	}
	return float64(r.Inserted) / float64(r.TotalRecords)
}

// Elapsed returns the wall-clock duration of the run.
func (r *Result) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Progress is the cumulative snapshot reported to observers after each flush.
type Progress struct {
	Processed  int
	Total      int
	Inserted   int
	Rejected   int
	Duplicates int
	Batches    int
}
