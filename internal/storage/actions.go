package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/saleslens/listing-optimizer/internal/core/domain"
)

// Action is an alias for the domain type.
type Action = domain.Action

// SaveAction appends one entry to the optimization action log. Entries are
// never mutated or deleted independently.
func (db *DB) SaveAction(ctx context.Context, action *Action) error {
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO optimization_actions (asin, optimization_id, action_type, payload)
		VALUES ($1, $2, $3, $4)
	`, action.ASIN, toUUID(action.OptimizationID), action.ActionType, action.Payload); err != nil {
		return fmt.Errorf("save action: %w", err)
	}

	return nil
}

// ActionsForOptimizations loads the action log for a set of optimization ids,
// newest first, grouped by optimization.
func (db *DB) ActionsForOptimizations(ctx context.Context, ids []string) (map[string][]Action, error) {
	if len(ids) == 0 {
		return map[string][]Action{}, nil
	}

	uuids := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		uuids[i] = toUUID(id)
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, asin, optimization_id, action_type, payload, created_at
		FROM optimization_actions
		WHERE optimization_id = ANY($1)
		ORDER BY created_at DESC
	`, uuids)
	if err != nil {
		return nil, fmt.Errorf("load actions: %w", err)
	}
	defer rows.Close()

	actions := make(map[string][]Action)

	for rows.Next() {
		var (
			action         Action
			optimizationID pgtype.UUID
			createdAt      pgtype.Timestamptz
		)

		if err := rows.Scan(&action.ID, &action.ASIN, &optimizationID, &action.ActionType, &action.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan action row: %w", err)
		}

		action.OptimizationID = fromUUID(optimizationID)
		action.CreatedAt = fromTimestamptz(createdAt)
		actions[action.OptimizationID] = append(actions[action.OptimizationID], action)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action rows: %w", err)
	}

	return actions, nil
}
