// Package quality evaluates completed ingestion runs against configured
// thresholds and writes structured report artifacts.
package quality

import (
	"fmt"
	"time"

	"github.com/smartshop-ai/smartshop/ingest"
)

// Config holds the quality gate thresholds.
type Config struct {
	// MinSuccessRate is the minimum acceptable inserted/total rate, in [0,1]
	MinSuccessRate float64
	// MaxErrorCount is the maximum acceptable number of validation rejects
	MaxErrorCount int
}

// Report statuses.
const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
)

// sampleErrorLimit bounds how many rejection reasons a report carries.
const sampleErrorLimit = 5

// Report is the derived, read-only view of a completed run. Never mutated
// after creation; persisted as a JSON artifact via Write.
type Report struct {
	RunID     string    `json:"run_id"`
	Domain    string    `json:"domain"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`

	TotalRecords       int     `json:"total_records"`
	Inserted           int     `json:"inserted"`
	RejectedValidation int     `json:"rejected_validation"`
	RejectedDuplicates int     `json:"rejected_duplicates"`
	SuccessRate        float64 `json:"success_rate"`

	MinSuccessRate float64 `json:"min_success_rate"`
	MaxErrorCount  int     `json:"max_error_count"`

	Alert      bool     `json:"alert"`
	Status     string   `json:"status"`
	Violations []string `json:"violations"`

	SampleErrors []string `json:"sample_errors,omitempty"`
}

// Evaluate runs the quality checks for a completed run. Pure: the same
// result and config always produce the same report apart from the timestamp,
// and the input result is never mutated.
//
// Both thresholds are evaluated independently; a run can violate both.
func Evaluate(result *ingest.Result, config Config) Report {
	report := Report{
		RunID:     result.RunID,
		Domain:    result.Domain,
		Source:    result.Source,
		Timestamp: time.Now().UTC(),

		TotalRecords:       result.TotalRecords,
		Inserted:           result.Inserted,
		RejectedValidation: result.RejectedValidation(),
		RejectedDuplicates: result.RejectedDuplicates(),
		SuccessRate:        result.SuccessRate(),

		MinSuccessRate: config.MinSuccessRate,
		MaxErrorCount:  config.MaxErrorCount,
		Violations:     []string{},
	}

	if report.SuccessRate < config.MinSuccessRate {
		report.Violations = append(report.Violations, fmt.Sprintf(
			"success rate %.2f below threshold %.2f",
			report.SuccessRate, config.MinSuccessRate,
		))
	}

	if report.RejectedValidation > config.MaxErrorCount {
		report.Violations = append(report.Violations, fmt.Sprintf(
			"error count %d exceeds max threshold %d",
			report.RejectedValidation, config.MaxErrorCount,
		))
	}

	report.Alert = len(report.Violations) > 0
	if report.Alert {
		report.Status = StatusFail
	} else {
		report.Status = StatusPass
	}

	for i, reject := range result.Validation {
		if i == sampleErrorLimit {
			break
		}
		report.SampleErrors = append(report.SampleErrors,
			fmt.Sprintf("row %d: %s", reject.Row, reject.Reason))
	}

	return report
}
