package ingest

// Domain supplies the pluggable policy a pipeline needs for one record type:
// which schema to validate against, how source headers map to canonical
// fields, how dedup keys are derived, and any post-validation step.
//
// One core algorithm, pluggable policy: the pipeline never branches on the
// concrete domain.
type Domain interface {
	// Name returns the domain tag (products, reviews, policies)
	Name() string

	// ColumnMap maps normalized source header aliases to canonical field
	// names. Headers are lowercased and whitespace-trimmed before lookup;
	// headers without an alias entry pass through unchanged.
	ColumnMap() map[string]string

	// Validate coerces and checks one raw record. Returns a ValidationError
	// (possibly wrapped) on any schema, format, range, or reference
	// violation.
	Validate(raw Record) (ValidatedRecord, error)

	// DedupKey derives the content-based identity of a validated record.
	// Deterministic and total: equal records (per the domain's equality)
	// always produce equal keys.
	DedupKey(rec ValidatedRecord) string

	// Prepare applies the domain's post-validation step (e.g. sentiment
	// inference) before the record is batched for persistence.
	Prepare(rec ValidatedRecord) ValidatedRecord
}
