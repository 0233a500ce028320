package ingest

import (
	"strings"
	"time"
)

var policyColumnMap = map[string]string{
	"policy_type":     "category",
	"policy_category": "category",
	"policy_question": "question",
	"q":               "question",
	"policy_answer":   "answer",
	"response":        "answer",
	"a":               "answer",
	"date":            "effective_date",
	"effective":       "effective_date",
}

// policyDateFormats are tried in fixed priority order; the first format that
// parses wins. The order must be preserved exactly for reproducible results.
var policyDateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
}

// PolicyDomain ingests store policy Q&A records.
//
// Dedup policy: lowercase(category) + SHA-256 of the normalized question.
type PolicyDomain struct{}

// NewPolicyDomain returns the policy ingestion policy.
func NewPolicyDomain() *PolicyDomain { return &PolicyDomain{} }

func (*PolicyDomain) Name() string { return DomainPolicies }

func (*PolicyDomain) ColumnMap() map[string]string { return policyColumnMap }

func (*PolicyDomain) Validate(raw Record) (ValidatedRecord, error) {
	category := strings.TrimSpace(raw.Get("category"))
	if category == "" {
		return nil, validationErrorf("category", "policy category is required")
	}

	question := strings.TrimSpace(raw.Get("question"))
	if question == "" {
		return nil, validationErrorf("question", "policy question is required")
	}

	answer := strings.TrimSpace(raw.Get("answer"))
	if answer == "" {
		return nil, validationErrorf("answer", "policy answer is required")
	}

	rawDate := strings.TrimSpace(raw.Get("effective_date"))
	if rawDate == "" {
		return nil, validationErrorf("effective_date", "effective date is required")
	}
	effectiveDate, err := parsePolicyDate(rawDate)
	if err != nil {
		return nil, err
	}

	return PolicyRecord{
		Category:      category,
		Question:      question,
		Answer:        answer,
		EffectiveDate: effectiveDate,
	}, nil
}

func parsePolicyDate(raw string) (time.Time, error) {
	for _, format := range policyDateFormats {
		if parsed, err := time.Parse(format, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, validationErrorf("effective_date", "unparseable date: %q", raw)
}

func (*PolicyDomain) DedupKey(rec ValidatedRecord) string {
	p := rec.(PolicyRecord)
	return strings.ToLower(p.Category) + "|" + hashText(p.Question)
}

func (*PolicyDomain) Prepare(rec ValidatedRecord) ValidatedRecord { return rec }
