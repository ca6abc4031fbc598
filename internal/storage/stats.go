package db

import (
	"context"
	"fmt"
	"time"

	"github.com/saleslens/listing-optimizer/internal/core/domain"
)

const (
	topKeywordLimit   = 10
	topPerformerLimit = 10
	dateFormat        = "2006-01-02"
)

// Stats aggregates optimization activity since the given time: per-day
// counts, per-model usage, and the most suggested keywords.
func (db *DB) Stats(ctx context.Context, since time.Time) (*domain.Stats, error) {
	stats := &domain.Stats{
		DailyCounts: []domain.DailyCount{},
		ModelUsage:  []domain.ModelUsage{},
		TopKeywords: []domain.KeywordCount{},
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT created_at::date AS day, count(*)
		FROM optimizations
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day
	`, since)
	if err != nil {
		return nil, fmt.Errorf("load daily counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			day   time.Time
			count int
		)

		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}

		stats.DailyCounts = append(stats.DailyCounts, domain.DailyCount{Date: day.Format(dateFormat), Count: count})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily counts: %w", err)
	}

	if err := db.loadModelUsage(ctx, since, stats); err != nil {
		return nil, err
	}

	if err := db.loadTopKeywords(ctx, since, stats); err != nil {
		return nil, err
	}

	return stats, nil
}

func (db *DB) loadModelUsage(ctx context.Context, since time.Time, stats *domain.Stats) error {
	rows, err := db.Pool.Query(ctx, `
		SELECT model, count(*)
		FROM optimizations
		WHERE created_at >= $1
		GROUP BY model
		ORDER BY count(*) DESC
	`, since)
	if err != nil {
		return fmt.Errorf("load model usage: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var usage domain.ModelUsage
		if err := rows.Scan(&usage.Model, &usage.Count); err != nil {
			return fmt.Errorf("scan model usage: %w", err)
		}

		stats.ModelUsage = append(stats.ModelUsage, usage)
	}

	return rows.Err()
}

func (db *DB) loadTopKeywords(ctx context.Context, since time.Time, stats *domain.Stats) error {
	rows, err := db.Pool.Query(ctx, `
		SELECT keyword, count(*)
		FROM keywords
		WHERE updated_at >= $1
		GROUP BY keyword
		ORDER BY count(*) DESC, keyword
		LIMIT $2
	`, since, topKeywordLimit)
	if err != nil {
		return fmt.Errorf("load top keywords: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kw domain.KeywordCount
		if err := rows.Scan(&kw.Keyword, &kw.Count); err != nil {
			return fmt.Errorf("scan top keyword: %w", err)
		}

		stats.TopKeywords = append(stats.TopKeywords, kw)
	}

	return rows.Err()
}

// Trends aggregates the analytics view since the given time: daily counts
// with average scores, the score distribution, the best-performing
// identifiers and per-model averages.
func (db *DB) Trends(ctx context.Context, since time.Time) (*domain.Trends, error) {
	trends := &domain.Trends{
		DailyOptimizations: []domain.DailyScore{},
		TopPerformers:      []domain.PerformerStat{},
		ModelPerformance:   []domain.ModelPerformance{},
	}

	if err := db.loadDailyScores(ctx, since, trends); err != nil {
		return nil, err
	}

	if err := db.loadScoreDistribution(ctx, since, trends); err != nil {
		return nil, err
	}

	if err := db.loadTopPerformers(ctx, since, trends); err != nil {
		return nil, err
	}

	if err := db.loadModelPerformance(ctx, since, trends); err != nil {
		return nil, err
	}

	return trends, nil
}

func (db *DB) loadDailyScores(ctx context.Context, since time.Time, trends *domain.Trends) error {
	rows, err := db.Pool.Query(ctx, `
		SELECT created_at::date AS day, count(*), avg(score)
		FROM optimizations
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day
	`, since)
	if err != nil {
		return fmt.Errorf("load daily scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			day      time.Time
			count    int
			avgScore float64
		)

		if err := rows.Scan(&day, &count, &avgScore); err != nil {
			return fmt.Errorf("scan daily score: %w", err)
		}

		trends.DailyOptimizations = append(trends.DailyOptimizations, domain.DailyScore{
			Date:     day.Format(dateFormat),
			Count:    count,
			AvgScore: avgScore,
		})
	}

	return rows.Err()
}

func (db *DB) loadScoreDistribution(ctx context.Context, since time.Time, trends *domain.Trends) error {
	rows, err := db.Pool.Query(ctx, `
		SELECT score
		FROM optimizations
		WHERE created_at >= $1
	`, since)
	if err != nil {
		return fmt.Errorf("load score distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var score int
		if err := rows.Scan(&score); err != nil {
			return fmt.Errorf("scan score: %w", err)
		}

		trends.ScoreDistribution.BucketScore(score)
	}

	return rows.Err()
}

func (db *DB) loadTopPerformers(ctx context.Context, since time.Time, trends *domain.Trends) error {
	rows, err := db.Pool.Query(ctx, `
		SELECT asin, avg(score), count(*)
		FROM optimizations
		WHERE created_at >= $1
		GROUP BY asin
		ORDER BY avg(score) DESC
		LIMIT $2
	`, since, topPerformerLimit)
	if err != nil {
		return fmt.Errorf("load top performers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stat domain.PerformerStat
		if err := rows.Scan(&stat.ASIN, &stat.AvgScore, &stat.Count); err != nil {
			return fmt.Errorf("scan top performer: %w", err)
		}

		trends.TopPerformers = append(trends.TopPerformers, stat)
	}

	return rows.Err()
}

func (db *DB) loadModelPerformance(ctx context.Context, since time.Time, trends *domain.Trends) error {
	rows, err := db.Pool.Query(ctx, `
		SELECT model, avg(score), count(*)
		FROM optimizations
		WHERE created_at >= $1
		GROUP BY model
		ORDER BY avg(score) DESC
	`, since)
	if err != nil {
		return fmt.Errorf("load model performance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var perf domain.ModelPerformance
		if err := rows.Scan(&perf.Model, &perf.AvgScore, &perf.Count); err != nil {
			return fmt.Errorf("scan model performance: %w", err)
		}

		trends.ModelPerformance = append(trends.ModelPerformance, perf)
	}

	return rows.Err()
}
