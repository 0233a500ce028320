package storage

import (
	"context"
	"database/sql"

	"github.com/smartshop-ai/smartshop/errors"
)

// Stats summarizes persisted row counts per domain table.
type Stats struct {
	Products int `json:"products"`
	Reviews  int `json:"reviews"`
	Policies int `json:"policies"`
}

// CollectStats counts rows in each domain table.
func CollectStats(ctx context.Context, db *sql.DB) (Stats, error) {
	var stats Stats
	for _, c := range []struct {
		table string
		dest  *int
	}{
		{"products", &stats.Products},
		{"reviews", &stats.Reviews},
		{"policies", &stats.Policies},
	} {
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dest)
		if err != nil {
			return Stats{}, errors.Wrapf(err, "count %s", c.table)
		}
	}
	return stats, nil
}
