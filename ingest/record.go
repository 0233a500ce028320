// Package ingest implements the SmartShop batch ingestion pipeline: CSV
// sources are validated per record against a domain schema, deduplicated by
// content-based keys, grouped into batches and handed to a persistence sink.
package ingest

import (
	"fmt"
	"time"
)

// Domain name tags for the supported record types.
const (
	DomainProducts = "products"
	DomainReviews  = "reviews"
	DomainPolicies = "policies"
)

// Record is one raw row from a source file, keyed by canonical field name
// after header normalization and column mapping.
type Record struct {
	// Row is the 1-based data row position in the source (header excluded)
	Row    int
	Fields map[string]string
}

// Get returns the value for a canonical field, or "" when absent.
func (r Record) Get(field string) string {
	return r.Fields[field]
}

// ValidatedRecord is a typed, normalized record produced by a domain's
// validator. Immutable once produced.
type ValidatedRecord interface {
	// DomainName returns the domain tag of the record (products, reviews, policies)
	DomainName() string
}

// ProductRecord is a validated product catalog entry.
type ProductRecord struct {
	ID          string
	Name        string
	Description string
	Brand       string
	Category    string // normalized to title case
	Price       float64 // strictly positive, rounded to 2 decimal places
}

func (ProductRecord) DomainName() string { return DomainProducts }

// Sentiment labels derived from review ratings.
const (
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	SentimentPositive = "positive"
)

// ReviewRecord is a validated product review.
type ReviewRecord struct {
	ProductID  string
	Rating     int // in [1,5]
	Text       string
	Sentiment  string // derived from rating, set before persistence
	ReviewDate *time.Time
}

func (ReviewRecord) DomainName() string { return DomainReviews }

// PolicyRecord is a validated store policy entry.
type PolicyRecord struct {
	Category      string
	Question      string
	Answer        string
	EffectiveDate time.Time
}

func (PolicyRecord) DomainName() string { return DomainPolicies }

// ValidationError describes a recoverable per-record schema violation.
// It never aborts a run; the pipeline records it and moves on.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErrorf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
