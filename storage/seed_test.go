package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartshop-ai/smartshop/ingest"
	"github.com/smartshop-ai/smartshop/storage/testutil"
)

func TestSeedKeysEmptyTable(t *testing.T) {
	db := testutil.SetupTestDB(t)

	keys, err := SeedKeys(context.Background(), db, ingest.DomainProducts)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSeedKeysReturnsPersistedKeys(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.InsertProduct(t, db, "p1", "Widget", "Acme")
	testutil.InsertProduct(t, db, "p2", "Gadget", "Acme")

	keys, err := SeedKeys(context.Background(), db, ingest.DomainProducts)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Widget|Acme", "Gadget|Acme"}, keys)
}

func TestSeedKeysUnknownDomain(t *testing.T) {
	db := testutil.SetupTestDB(t)

	_, err := SeedKeys(context.Background(), db, "invoices")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown domain")
}

func TestKnownProductIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.InsertProduct(t, db, "p1", "Widget", "Acme")
	testutil.InsertProduct(t, db, "p2", "Gadget", "Acme")

	ids, err := KnownProductIDs(context.Background(), db)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids)
}

func TestStatsCountsPerTable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.InsertProduct(t, db, "p1", "Widget", "Acme")

	_, err := db.Exec(
		"INSERT INTO reviews (product_id, rating, text, sentiment, dedup_key) VALUES ('p1', 5, 'Great', 'positive', 'rk-1')")
	require.NoError(t, err)

	stats, err := CollectStats(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Products)
	assert.Equal(t, 1, stats.Reviews)
	assert.Equal(t, 0, stats.Policies)
}

func TestStatsMissingSchema(t *testing.T) {
	db := testutil.SetupEmptyDB(t)

	_, err := CollectStats(context.Background(), db)
	require.Error(t, err)
}
