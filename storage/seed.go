package storage

import (
	"context"
	"database/sql"

	"github.com/smartshop-ai/smartshop/errors"
	"github.com/smartshop-ai/smartshop/ingest"
)

var domainTables = map[string]string{
	ingest.DomainProducts: "products",
	ingest.DomainReviews:  "reviews",
	ingest.DomainPolicies: "policies",
}

// SeedKeys loads the dedup keys already persisted for a domain, used to seed
// a pipeline run so previously ingested records are classified as duplicates
// instead of being re-inserted.
func SeedKeys(ctx context.Context, db *sql.DB, domain string) ([]string, error) {
	table, ok := domainTables[domain]
	if !ok {
		return nil, errors.Newf("unknown domain %q", domain)
	}

	rows, err := db.QueryContext(ctx, "SELECT dedup_key FROM "+table)
	if err != nil {
		return nil, errors.Wrapf(err, "load dedup keys for %s", domain)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Wrap(err, "scan dedup key")
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// KnownProductIDs loads all persisted product identifiers. The review domain
// checks its foreign-key references against this set.
func KnownProductIDs(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT id FROM products")
	if err != nil {
		return nil, errors.Wrap(err, "load product ids")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scan product id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
