package domain

import "time"

// OptimizationResult is the outcome of one optimize operation, cached or fresh.
type OptimizationResult struct {
	Provenance   Provenance    `json:"provenance"`
	Product      *Product      `json:"product"`
	Optimization *Optimization `json:"optimization"`
	Factors      []string      `json:"factors"`
}

// BatchFetchItem is the per-identifier outcome of a batch fetch.
type BatchFetchItem struct {
	ASIN    string   `json:"asin"`
	Success bool     `json:"success"`
	Product *Product `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// BatchFailure records one identifier that failed inside a batch optimize.
type BatchFailure struct {
	ASIN  string `json:"asin"`
	Error string `json:"error"`
}

// BatchSummary counts outcomes of a batch optimize.
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BatchOptimizeResult is the partial-tolerant result of a batch optimize:
// one record's failure never aborts its siblings.
type BatchOptimizeResult struct {
	Successful []OptimizationResult `json:"successful"`
	Failed     []BatchFailure       `json:"failed"`
	Summary    BatchSummary         `json:"summary"`
}

// HistoryEntry is one optimization together with its action log.
type HistoryEntry struct {
	Optimization Optimization `json:"optimization"`
	Actions      []Action     `json:"actions"`
}

// HistoryFilter narrows a filtered history read. Nil fields are not applied.
type HistoryFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	MinScore  *int
	MaxScore  *int
	Model     string
}

// DailyCount is one day's optimization count.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ModelUsage counts optimizations per model.
type ModelUsage struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}

// KeywordCount counts occurrences of one suggested keyword.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Stats is the 30-day aggregate view.
type Stats struct {
	DailyCounts []DailyCount `json:"dailyCounts"`
	ModelUsage  []ModelUsage `json:"modelUsage"`
	TopKeywords []KeywordCount `json:"topKeywords"`
}

// DailyScore is one day's optimization count with its average score.
type DailyScore struct {
	Date     string  `json:"date"`
	Count    int     `json:"count"`
	AvgScore float64 `json:"avgScore"`
}

// ScoreDistribution buckets scores into quality bands.
type ScoreDistribution struct {
	Excellent int `json:"excellent"` // score >= 80
	Good      int `json:"good"`      // 60-79
	Average   int `json:"average"`   // 40-59
	Poor      int `json:"poor"`      // < 40
}

// PerformerStat is one identifier's average score over the window.
type PerformerStat struct {
	ASIN     string  `json:"asin"`
	AvgScore float64 `json:"avgScore"`
	Count    int     `json:"count"`
}

// ModelPerformance is one model's average score over the window.
type ModelPerformance struct {
	Model    string  `json:"model"`
	AvgScore float64 `json:"avgScore"`
	Count    int     `json:"count"`
}

// Trends is the analytics view over a caller-chosen day window.
type Trends struct {
	DailyOptimizations []DailyScore       `json:"dailyOptimizations"`
	ScoreDistribution  ScoreDistribution  `json:"scoreDistribution"`
	TopPerformers      []PerformerStat    `json:"topPerformingIdentifiers"`
	ModelPerformance   []ModelPerformance `json:"modelPerformance"`
}

// BucketScore assigns a score to its distribution band.
func (d *ScoreDistribution) BucketScore(score int) {
	switch {
	case score >= 80:
		d.Excellent++
	case score >= 60:
		d.Good++
	case score >= 40:
		d.Average++
	default:
		d.Poor++
	}
}
