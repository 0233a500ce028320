// Package storage persists validated SmartShop records to SQLite with
// create-or-ignore semantics and per-record outcome tracking.
package storage

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/smartshop-ai/smartshop/errors"
	"github.com/smartshop-ai/smartshop/ingest"
)

// SQLSink writes batches of validated records to a SQLite database.
// Each batch runs in one transaction; within the batch a failing record is
// reported and skipped, it does not poison the rest of the batch.
type SQLSink struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// NewSQLSink creates a sink over an open database. Logger may be nil.
func NewSQLSink(db *sql.DB, log *zap.SugaredLogger) *SQLSink {
	return &SQLSink{db: db, log: log}
}

var _ ingest.Sink = (*SQLSink)(nil)

// Flush inserts a batch with INSERT OR IGNORE. A record already present
// (same primary key or dedup key) is reported as a conflict; a record the
// database refuses is reported as failed. Returns an error only for
// batch-level infrastructure problems.
func (s *SQLSink) Flush(ctx context.Context, batch []ingest.Item) (ingest.FlushOutcome, error) {
	var outcome ingest.FlushOutcome

	if s.db == nil {
		return outcome, errors.New("database connection is nil")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return outcome, errors.Wrap(err, "begin batch transaction")
	}
	defer tx.Rollback()

	for _, item := range batch {
		res, err := s.insert(ctx, tx, item)
		if err != nil {
			outcome.Failed = append(outcome.Failed, ingest.Reject{Row: item.Row, Reason: err.Error()})
			if s.log != nil {
				s.log.Debugw("Record insert failed", "row", item.Row, "error", err.Error())
			}
			continue
		}

		affected, err := res.RowsAffected()
		if err != nil {
			outcome.Failed = append(outcome.Failed, ingest.Reject{Row: item.Row, Reason: err.Error()})
			continue
		}
		if affected == 0 {
			// OR IGNORE hit an existing row: a cross-run duplicate
			outcome.Conflicts = append(outcome.Conflicts, ingest.Reject{Row: item.Row, Reason: "already persisted"})
			continue
		}
		outcome.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return ingest.FlushOutcome{}, errors.Wrap(err, "commit batch")
	}
	return outcome, nil
}

func (s *SQLSink) insert(ctx context.Context, tx *sql.Tx, item ingest.Item) (sql.Result, error) {
	switch r := item.Record.(type) {
	case ingest.ProductRecord:
		return tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO products (id, name, description, brand, category, price, dedup_key)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Description, r.Brand, r.Category, r.Price, item.Key,
		)
	case ingest.ReviewRecord:
		var reviewDate any
		if r.ReviewDate != nil {
			reviewDate = r.ReviewDate.Format(time.DateOnly)
		}
		return tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO reviews (product_id, rating, text, sentiment, review_date, dedup_key)
			VALUES (?, ?, ?, ?, ?, ?)`,
			r.ProductID, r.Rating, r.Text, r.Sentiment, reviewDate, item.Key,
		)
	case ingest.PolicyRecord:
		return tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO policies (category, question, answer, effective_date, dedup_key)
			VALUES (?, ?, ?, ?, ?)`,
			r.Category, r.Question, r.Answer, r.EffectiveDate.Format(time.DateOnly), item.Key,
		)
	default:
		return nil, errors.Newf("unsupported record type %T", item.Record)
	}
}
