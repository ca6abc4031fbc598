package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/saleslens/listing-optimizer/internal/core/domain"
	coreerrors "github.com/saleslens/listing-optimizer/internal/core/errors"
)

// Optimization is an alias for the domain type.
type Optimization = domain.Optimization

// SaveOptimizationWithAction inserts one optimization row and its `created`
// action log entry in a single transaction, so a generation event is never
// recorded without its triggering action (or vice versa).
func (db *DB) SaveOptimizationWithAction(ctx context.Context, opt *Optimization, actionPayload []byte) error {
	metadata, err := json.Marshal(opt.Metadata)
	if err != nil {
		return fmt.Errorf("marshal optimization metadata: %w", err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin optimization tx: %w", err)
	}

	defer func() {
		//nolint:errcheck // rollback after commit is a no-op
		_ = tx.Rollback(ctx)
	}()

	var createdAt pgtype.Timestamptz

	err = tx.QueryRow(ctx, `
		INSERT INTO optimizations (id, asin, product_id, generated_title, generated_bullets, generated_description, generated_keywords, score, model, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`,
		toUUID(opt.ID),
		opt.ASIN,
		opt.ProductID,
		sanitizeUTF8(opt.GeneratedTitle),
		sanitizeUTF8(opt.GeneratedBullets),
		sanitizeUTF8(opt.GeneratedDescription),
		domain.EncodeKeywords(opt.GeneratedKeywords),
		opt.Score,
		opt.Model,
		metadata,
	).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("insert optimization: %w", err)
	}

	opt.CreatedAt = fromTimestamptz(createdAt)

	if _, err := tx.Exec(ctx, `
		INSERT INTO optimization_actions (asin, optimization_id, action_type, payload)
		VALUES ($1, $2, $3, $4)
	`, opt.ASIN, toUUID(opt.ID), domain.ActionCreated, actionPayload); err != nil {
		return fmt.Errorf("insert created action: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit optimization tx: %w", err)
	}

	return nil
}

// LatestOptimization returns the most recent optimization for one ASIN.
func (db *DB) LatestOptimization(ctx context.Context, asinID string) (*Optimization, error) {
	row := db.Pool.QueryRow(ctx, optimizationSelect+`
		WHERE asin = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, asinID)

	opt, err := scanOptimization(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no optimization for %s", coreerrors.ErrOptimizationNotFound, asinID)
		}

		return nil, fmt.Errorf("latest optimization: %w", err)
	}

	return opt, nil
}

// GetOptimization loads one optimization by id.
func (db *DB) GetOptimization(ctx context.Context, id string) (*Optimization, error) {
	row := db.Pool.QueryRow(ctx, optimizationSelect+`
		WHERE id = $1
	`, toUUID(id))

	opt, err := scanOptimization(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", coreerrors.ErrOptimizationNotFound, id)
		}

		return nil, fmt.Errorf("get optimization: %w", err)
	}

	return opt, nil
}

const optimizationSelect = `
	SELECT id, asin, product_id, generated_title, generated_bullets, generated_description, generated_keywords, score, model, metadata, created_at
	FROM optimizations
`

func scanOptimization(row pgx.Row) (*Optimization, error) {
	var (
		opt         Optimization
		id          pgtype.UUID
		title       pgtype.Text
		bullets     pgtype.Text
		description pgtype.Text
		keywords    pgtype.Text
		metadata    []byte
		createdAt   pgtype.Timestamptz
	)

	if err := row.Scan(&id, &opt.ASIN, &opt.ProductID, &title, &bullets, &description, &keywords, &opt.Score, &opt.Model, &metadata, &createdAt); err != nil {
		return nil, err
	}

	opt.ID = fromUUID(id)
	opt.GeneratedTitle = fromText(title)
	opt.GeneratedBullets = fromText(bullets)
	opt.GeneratedDescription = fromText(description)
	// Historical rows used several keyword encodings; ParseKeywords accepts all of them.
	opt.GeneratedKeywords = domain.ParseKeywords(fromText(keywords))
	opt.CreatedAt = fromTimestamptz(createdAt)

	if len(metadata) > 0 {
		//nolint:errcheck // metadata is free-form; an unreadable blob degrades to zero values
		_ = json.Unmarshal(metadata, &opt.Metadata)
	}

	return &opt, nil
}
