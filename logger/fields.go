package logger

// Standard field names for consistent structured logging across SmartShop.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRunID  = "run_id"
	FieldDomain = "domain"
	FieldSource = "source"

	// Counts and sizes
	FieldBatchSize  = "batch_size"
	FieldTotalCount = "total_count"
	FieldInserted   = "inserted"
	FieldRejected   = "rejected"
	FieldDuplicates = "duplicates"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"
)
