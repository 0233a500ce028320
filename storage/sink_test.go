package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartshop-ai/smartshop/ingest"
	"github.com/smartshop-ai/smartshop/storage/testutil"
)

func productItem(row int, key string, r ingest.ProductRecord) ingest.Item {
	return ingest.Item{Row: row, Key: key, Record: r}
}

func TestFlushInsertsProducts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sink := NewSQLSink(db, nil)

	batch := []ingest.Item{
		productItem(1, "key-1", ingest.ProductRecord{ID: "p1", Name: "Widget", Brand: "Acme", Category: "Tools", Price: 19.99}),
		productItem(2, "key-2", ingest.ProductRecord{ID: "p2", Name: "Gadget", Brand: "Acme", Category: "Tools", Price: 4.50}),
	}

	outcome, err := sink.Flush(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Inserted)
	assert.Empty(t, outcome.Conflicts)
	assert.Empty(t, outcome.Failed)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestFlushReportsConflictForExistingDedupKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sink := NewSQLSink(db, nil)

	first := []ingest.Item{
		productItem(1, "same-key", ingest.ProductRecord{ID: "p1", Name: "Widget", Brand: "Acme", Category: "Tools", Price: 19.99}),
	}
	_, err := sink.Flush(context.Background(), first)
	require.NoError(t, err)

	// Different id, same content key: OR IGNORE leaves the stored row alone
	second := []ingest.Item{
		productItem(5, "same-key", ingest.ProductRecord{ID: "p9", Name: "Widget", Brand: "Acme", Category: "Tools", Price: 19.99}),
	}
	outcome, err := sink.Flush(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Inserted)
	require.Len(t, outcome.Conflicts, 1)
	assert.Equal(t, 5, outcome.Conflicts[0].Row)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count))
	assert.Equal(t, 1, count, "conflicting record must not replace the stored one")
}

func TestFlushInsertsReviewsAndPolicies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.InsertProduct(t, db, "p1", "Widget", "Acme")
	sink := NewSQLSink(db, nil)

	when := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	batch := []ingest.Item{
		{Row: 1, Key: "rk-1", Record: ingest.ReviewRecord{
			ProductID: "p1", Rating: 5, Text: "Great", Sentiment: ingest.SentimentPositive, ReviewDate: &when,
		}},
		{Row: 2, Key: "rk-2", Record: ingest.ReviewRecord{
			ProductID: "p1", Rating: 2, Text: "Meh", Sentiment: ingest.SentimentNegative,
		}},
		{Row: 3, Key: "pk-1", Record: ingest.PolicyRecord{
			Category: "returns", Question: "How long?", Answer: "30 days", EffectiveDate: when,
		}},
	}

	outcome, err := sink.Flush(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.Inserted)
	assert.Empty(t, outcome.Failed)

	var storedDate *string
	require.NoError(t, db.QueryRow("SELECT review_date FROM reviews WHERE dedup_key = 'rk-1'").Scan(&storedDate))
	require.NotNil(t, storedDate)
	assert.Equal(t, "2024-03-15", *storedDate)

	require.NoError(t, db.QueryRow("SELECT review_date FROM reviews WHERE dedup_key = 'rk-2'").Scan(&storedDate))
	assert.Nil(t, storedDate, "missing review date stores NULL")
}

func TestFlushSkipsFailingRecordWithoutPoisoningBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.InsertProduct(t, db, "p1", "Widget", "Acme")
	sink := NewSQLSink(db, nil)

	batch := []ingest.Item{
		{Row: 1, Key: "rk-1", Record: ingest.ReviewRecord{
			ProductID: "ghost", Rating: 4, Text: "orphan", Sentiment: ingest.SentimentPositive,
		}},
		{Row: 2, Key: "rk-2", Record: ingest.ReviewRecord{
			ProductID: "p1", Rating: 4, Text: "fine", Sentiment: ingest.SentimentPositive,
		}},
	}

	outcome, err := sink.Flush(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Inserted)
	require.Len(t, outcome.Failed, 1)
	assert.Equal(t, 1, outcome.Failed[0].Row)
	assert.Contains(t, outcome.Failed[0].Reason, "FOREIGN KEY")
}

func TestFlushUnsupportedRecordType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sink := NewSQLSink(db, nil)

	outcome, err := sink.Flush(context.Background(), []ingest.Item{{Row: 1, Key: "k", Record: nil}})
	require.NoError(t, err)
	require.Len(t, outcome.Failed, 1)
	assert.Contains(t, outcome.Failed[0].Reason, "unsupported record type")
}

func TestFlushNilDatabase(t *testing.T) {
	sink := NewSQLSink(nil, nil)
	_, err := sink.Flush(context.Background(), nil)
	require.Error(t, err)
}

func TestFlushBeginFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(assert.AnError)

	sink := NewSQLSink(db, nil)
	_, err = sink.Flush(context.Background(), []ingest.Item{
		productItem(1, "k", ingest.ProductRecord{ID: "p1", Name: "Widget", Price: 1}),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin batch transaction")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFlushCommitFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT OR IGNORE INTO products").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(assert.AnError)

	sink := NewSQLSink(db, nil)
	_, err = sink.Flush(context.Background(), []ingest.Item{
		productItem(1, "k", ingest.ProductRecord{ID: "p1", Name: "Widget", Price: 1}),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit batch")
	require.NoError(t, mock.ExpectationsWereMet())
}
