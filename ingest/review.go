package ingest

import (
	"strconv"
	"strings"
	"time"
)

var reviewColumnMap = map[string]string{
	"user_rating":        "rating",
	"star_rating":        "rating",
	"stars":              "rating",
	"review_body":        "text",
	"comment":            "text",
	"review_content":     "text",
	"review_description": "text",
	"review_text":        "text",
	"review_date":        "date",
}

// reviewDateFormats are tried in fixed priority order; the first format that
// parses wins. Order is load-bearing for reproducible results.
var reviewDateFormats = []string{
	"01/02/2006",
	"2006-01-02",
}

// ReviewDomain ingests product reviews. Each record's product reference must
// resolve against the known-product set; an unresolved reference is a
// validation failure, not a duplicate.
//
// Dedup policy: product id + SHA-256 of the normalized review text.
type ReviewDomain struct {
	knownProducts map[string]struct{}
}

// NewReviewDomain returns the review ingestion policy. knownProducts holds
// the product identifiers reviews may reference, typically pre-loaded from
// the sink via storage.KnownProductIDs.
func NewReviewDomain(knownProducts []string) *ReviewDomain {
	known := make(map[string]struct{}, len(knownProducts))
	for _, id := range knownProducts {
		known[id] = struct{}{}
	}
	return &ReviewDomain{knownProducts: known}
}

func (*ReviewDomain) Name() string { return DomainReviews }

func (*ReviewDomain) ColumnMap() map[string]string { return reviewColumnMap }

func (d *ReviewDomain) Validate(raw Record) (ValidatedRecord, error) {
	productID := strings.TrimSpace(raw.Get("product_id"))
	if productID == "" {
		return nil, validationErrorf("product_id", "product reference is required")
	}
	if _, ok := d.knownProducts[productID]; !ok {
		return nil, validationErrorf("product_id", "product %q does not exist", productID)
	}

	rating, err := parseRating(raw.Get("rating"))
	if err != nil {
		return nil, err
	}

	rec := ReviewRecord{
		ProductID: productID,
		Rating:    rating,
		Text:      strings.TrimSpace(raw.Get("text")),
	}

	if rawDate := strings.TrimSpace(raw.Get("date")); rawDate != "" {
		for _, format := range reviewDateFormats {
			if parsed, err := time.Parse(format, rawDate); err == nil {
				rec.ReviewDate = &parsed
				break
			}
		}
		// An unparseable review date is dropped, not fatal: the review
		// itself is still valid
	}

	return rec, nil
}

// parseRating coerces a raw rating to an integer in [1,5]. Exports often
// carry ratings as "4.0"; integral floats are accepted, anything else is a
// hard boundary violation.
func parseRating(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, validationErrorf("rating", "rating is required")
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, validationErrorf("rating", "not a number: %q", raw)
	}

	rating := int(value)
	if float64(rating) != value {
		return 0, validationErrorf("rating", "must be a whole number, got %g", value)
	}
	if rating < 1 || rating > 5 {
		return 0, validationErrorf("rating", "must be between 1 and 5, got %d", rating)
	}
	return rating, nil
}

func (*ReviewDomain) DedupKey(rec ValidatedRecord) string {
	r := rec.(ReviewRecord)
	return r.ProductID + "|" + hashText(r.Text)
}

// Prepare derives the sentiment label from the rating: 1-2 negative,
// 3 neutral, 4-5 positive. Deterministic and applied before persistence.
func (*ReviewDomain) Prepare(rec ValidatedRecord) ValidatedRecord {
	r := rec.(ReviewRecord)
	r.Sentiment = SentimentForRating(r.Rating)
	return r
}

// SentimentForRating maps a validated rating to its sentiment label.
func SentimentForRating(rating int) string {
	switch {
	case rating <= 2:
		return SentimentNegative
	case rating >= 4:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}
