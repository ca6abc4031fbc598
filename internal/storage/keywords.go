package db

import (
	"context"
	"fmt"
)

// UpsertKeyword records one (asin, keyword) observation. A repeated
// suggestion refreshes the timestamp of the existing row instead of
// inserting a duplicate.
func (db *DB) UpsertKeyword(ctx context.Context, asinID, keyword, source string) error {
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO keywords (asin, keyword, source)
		VALUES ($1, $2, $3)
		ON CONFLICT (asin, keyword) DO UPDATE SET
			source     = EXCLUDED.source,
			updated_at = now()
	`, asinID, sanitizeUTF8(keyword), source); err != nil {
		return fmt.Errorf("upsert keyword: %w", err)
	}

	return nil
}
