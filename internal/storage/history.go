package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/saleslens/listing-optimizer/internal/core/domain"
)

// HistoryByASIN returns one identifier's optimizations, most recent first,
// each with its action log, plus the total count for pagination.
func (db *DB) HistoryByASIN(ctx context.Context, asinID string, page, limit int) ([]domain.HistoryEntry, int64, error) {
	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM optimizations WHERE asin = $1`, asinID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count history: %w", err)
	}

	rows, err := db.Pool.Query(ctx, optimizationSelect+`
		WHERE asin = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, asinID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	optimizations := make([]Optimization, 0, limit)

	for rows.Next() {
		opt, err := scanOptimization(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan history row: %w", err)
		}

		optimizations = append(optimizations, *opt)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate history rows: %w", err)
	}

	entries, err := db.attachActions(ctx, optimizations)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// HistoryFiltered returns optimizations across identifiers narrowed by date
// range, score range and model, most recent first.
func (db *DB) HistoryFiltered(ctx context.Context, filter domain.HistoryFilter, page, limit int) ([]domain.HistoryEntry, int64, error) {
	where, args := buildHistoryFilter(filter)

	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM optimizations`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count filtered history: %w", err)
	}

	query := fmt.Sprintf("%s%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d", optimizationSelect, where, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("load filtered history: %w", err)
	}
	defer rows.Close()

	optimizations := make([]Optimization, 0, limit)

	for rows.Next() {
		opt, err := scanOptimization(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan filtered history row: %w", err)
		}

		optimizations = append(optimizations, *opt)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate filtered history rows: %w", err)
	}

	entries, err := db.attachActions(ctx, optimizations)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func buildHistoryFilter(filter domain.HistoryFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)

		return fmt.Sprintf("$%d", len(args))
	}

	if filter.StartDate != nil {
		conditions = append(conditions, "created_at >= "+arg(*filter.StartDate))
	}

	if filter.EndDate != nil {
		conditions = append(conditions, "created_at <= "+arg(*filter.EndDate))
	}

	if filter.MinScore != nil {
		conditions = append(conditions, "score >= "+arg(*filter.MinScore))
	}

	if filter.MaxScore != nil {
		conditions = append(conditions, "score <= "+arg(*filter.MaxScore))
	}

	if filter.Model != "" {
		conditions = append(conditions, "model = "+arg(filter.Model))
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (db *DB) attachActions(ctx context.Context, optimizations []Optimization) ([]domain.HistoryEntry, error) {
	ids := make([]string, len(optimizations))
	for i, opt := range optimizations {
		ids[i] = opt.ID
	}

	actions, err := db.ActionsForOptimizations(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.HistoryEntry, len(optimizations))
	for i, opt := range optimizations {
		entries[i] = domain.HistoryEntry{
			Optimization: opt,
			Actions:      actions[opt.ID],
		}
	}

	return entries, nil
}
