package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/smartshop-ai/smartshop/errors"
	"github.com/smartshop-ai/smartshop/logger"
)

// Run-level failure sentinels. Per-record problems never surface as errors;
// they are recorded in the Result and the run keeps going.
var (
	// ErrSource marks an unreadable or structurally broken source file
	ErrSource = errors.New("source error")
	// ErrSink marks a persistence failure that aborted the run (strict mode)
	ErrSink = errors.New("sink error")
	// ErrAborted marks a run cancelled between batches
	ErrAborted = errors.New("run aborted")
)

// Item pairs a prepared record with its dedup key and original source row
// position, so sink outcomes can be traced back to the row they came from.
type Item struct {
	Row    int
	Key    string
	Record ValidatedRecord
}

// Sink persists batches of validated records with create-or-ignore
// semantics. Flush reports a per-record outcome: inserted, conflict
// (already present), or failed.
type Sink interface {
	Flush(ctx context.Context, batch []Item) (FlushOutcome, error)
}

// FlushOutcome is the sink's per-batch report. Conflicts are records the
// sink already held (cross-run duplicates surfaced by create-or-ignore);
// Failed are records the sink could not insert.
type FlushOutcome struct {
	Inserted  int
	Conflicts []Reject
	Failed    []Reject
}

// ProgressFunc observes cumulative counts after every batch flush.
// Required for CLI progress display, not for correctness.
type ProgressFunc func(Progress)

// Pipeline orchestrates one domain's ingestion: read, validate, deduplicate,
// batch, flush. A pipeline processes one source at a time; the dedup key set
// is scoped to each Run and must not be shared across concurrent runs.
type Pipeline struct {
	domain    Domain
	sink      Sink
	batchSize int
	strict    bool
	seed      []string
	observer  ProgressFunc
	log       *zap.SugaredLogger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDedupSeed seeds the run's dedup key set, typically from keys already
// persisted by earlier runs. Makes re-ingestion of the same source a no-op.
func WithDedupSeed(keys []string) Option {
	return func(p *Pipeline) { p.seed = keys }
}

// WithStrictSink aborts the run on the first batch flush failure instead of
// recording it and continuing with subsequent batches.
func WithStrictSink(strict bool) Option {
	return func(p *Pipeline) { p.strict = strict }
}

// WithObserver registers a progress callback invoked after each flush.
func WithObserver(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.observer = fn }
}

// WithLogger attaches a logger; nil operates silently.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(p *Pipeline) { p.log = log }
}

// New creates a pipeline for a domain writing to sink, flushing every
// batchSize validated, non-duplicate records.
func New(domain Domain, sink Sink, batchSize int, opts ...Option) (*Pipeline, error) {
	if domain == nil {
		return nil, errors.New("domain is required")
	}
	if sink == nil {
		return nil, errors.New("sink is required")
	}
	if batchSize <= 0 {
		return nil, errors.Newf("batch size must be positive, got %d", batchSize)
	}

	p := &Pipeline{domain: domain, sink: sink, batchSize: batchSize}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes one ingestion over the source file, processing records in
// source order. Per-record failures are recorded and skipped; only run-level
// infrastructure failures return an error, always alongside the partial
// result accumulated so far.
//
// Cancellation is cooperative: the context is checked before each new batch,
// and an aborted run returns its partial result marked incomplete.
func (p *Pipeline) Run(ctx context.Context, sourcePath string) (*Result, error) {
	result := newResult(p.domain.Name(), sourcePath)
	keys := newKeySet(p.seed)

	result.State = StateReading
	source, err := openCSVSource(sourcePath, p.domain.ColumnMap())
	if err != nil {
		result.State = StateFailed
		result.Incomplete = true
		result.FinishedAt = time.Now()
		return result, errors.Wrap(errors.Mark(err, ErrSource), "read source")
	}
	defer source.Close()

	if p.log != nil {
		p.log.Infow("Starting ingestion",
			logger.FieldRunID, result.RunID,
			logger.FieldDomain, result.Domain,
			logger.FieldSource, sourcePath,
			logger.FieldBatchSize, p.batchSize,
			"seeded_keys", keys.Len(),
		)
	}

	result.State = StateRunning
	batch := make([]Item, 0, p.batchSize)

	for {
		record, err := source.Next()
		if err == io.EOF {
			break
		}

		var rowErr *rowError
		if errors.As(err, &rowErr) {
			result.TotalRecords++
			result.Validation = append(result.Validation, Reject{Row: rowErr.row, Reason: rowErr.reason})
			continue
		}
		if err != nil {
			// Reader failures other than per-row problems are fatal
			return p.fail(result, errors.Wrap(errors.Mark(err, ErrSource), "read source"))
		}

		result.TotalRecords++

		validated, err := p.domain.Validate(record)
		if err != nil {
			result.Validation = append(result.Validation, Reject{Row: record.Row, Reason: err.Error()})
			if p.log != nil {
				p.log.Debugw("Record rejected", "row", record.Row, "reason", err.Error())
			}
			continue
		}

		key := p.domain.DedupKey(validated)
		if keys.Add(key) {
			result.Duplicates = append(result.Duplicates, Reject{Row: record.Row, Reason: "duplicate record"})
			continue
		}

		batch = append(batch, Item{Row: record.Row, Key: key, Record: p.domain.Prepare(validated)})
		if len(batch) == p.batchSize {
			// Cooperative cancellation point: abort between batches only
			if err := ctx.Err(); err != nil {
				return p.abort(result, err)
			}
			if err := p.flush(ctx, result, batch); err != nil {
				return p.fail(result, err)
			}
			batch = batch[:0]
		}
	}

	// Partial final batch is normal, not an error
	if len(batch) > 0 {
		if err := ctx.Err(); err != nil {
			return p.abort(result, err)
		}
		if err := p.flush(ctx, result, batch); err != nil {
			return p.fail(result, err)
		}
	}

	result.State = StateDone
	result.FinishedAt = time.Now()

	if p.log != nil {
		p.log.Infow("Ingestion complete",
			logger.FieldRunID, result.RunID,
			logger.FieldTotalCount, result.TotalRecords,
			logger.FieldInserted, result.Inserted,
			logger.FieldRejected, result.RejectedValidation(),
			logger.FieldDuplicates, result.RejectedDuplicates(),
			"batches", result.BatchCount,
			logger.FieldDurationMS, result.Elapsed().Milliseconds(),
		)
	}

	return result, nil
}

// flush hands the current batch to the sink. No cross-batch atomicity: a
// failure flushing batch N never rolls back batches 1..N-1; ingestion is
// append-only and resumable by re-running with a seeded dedup set.
func (p *Pipeline) flush(ctx context.Context, result *Result, batch []Item) error {
	result.State = StateFlushing
	outcome, err := p.sink.Flush(ctx, batch)
	result.State = StateRunning
	result.BatchCount++

	if err != nil {
		if p.strict {
			return errors.Wrapf(errors.Mark(err, ErrSink), "flush batch %d", result.BatchCount)
		}
		// Best-effort mode: record the failure and continue with later batches
		result.SinkFailures = append(result.SinkFailures,
			errors.Wrapf(err, "batch %d", result.BatchCount).Error())
		if p.log != nil {
			p.log.Warnw("Batch flush failed, continuing",
				"batch", result.BatchCount,
				logger.FieldError, err.Error(),
			)
		}
	} else {
		result.Inserted += outcome.Inserted
		result.Duplicates = append(result.Duplicates, outcome.Conflicts...)
		for _, failed := range outcome.Failed {
			result.SinkFailures = append(result.SinkFailures,
				fmt.Sprintf("row %d: %s", failed.Row, failed.Reason))
		}
	}

	if p.observer != nil {
		p.observer(Progress{
			Processed:  result.TotalRecords,
			Inserted:   result.Inserted,
			Rejected:   result.RejectedValidation(),
			Duplicates: result.RejectedDuplicates(),
			Batches:    result.BatchCount,
		})
	}
	return nil
}

func (p *Pipeline) fail(result *Result, err error) (*Result, error) {
	result.State = StateFailed
	result.Incomplete = true
	result.FinishedAt = time.Now()
	if p.log != nil {
		p.log.Errorw("Ingestion failed",
			logger.FieldRunID, result.RunID,
			logger.FieldError, err.Error(),
			"partial_inserted", result.Inserted,
		)
	}
	return result, err
}

func (p *Pipeline) abort(result *Result, cause error) (*Result, error) {
	result.State = StateFailed
	result.Incomplete = true
	result.FinishedAt = time.Now()
	return result, errors.Wrap(errors.Mark(cause, ErrAborted), "cancelled between batches")
}
