package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScoreAllFactors(t *testing.T) {
	original := &Product{Title: "X"}
	generated := &Optimization{
		GeneratedTitle:       "X enhanced",
		GeneratedBullets:     "new bullet",
		GeneratedDescription: "new description",
		GeneratedKeywords:    []string{"a", "b", "c"},
	}

	result := Score(original, generated)

	require.Equal(t, 100, result.Score)
	require.Equal(t, []string{FactorTitle, FactorBullets, FactorDescription, FactorKeywords}, result.Factors)
}

func TestScoreDeterministic(t *testing.T) {
	original := &Product{Title: "Widget", BulletPoints: "• small"}
	generated := &Optimization{
		GeneratedTitle:    "Premium Widget",
		GeneratedBullets:  "• small and sturdy",
		GeneratedKeywords: []string{"widget", "premium", "sturdy"},
	}

	first := Score(original, generated)
	second := Score(original, generated)
	require.Equal(t, first, second)
}

func TestScoreOverlongTitleNotRewarded(t *testing.T) {
	original := &Product{Title: "Short"}
	generated := &Optimization{
		GeneratedTitle: strings.Repeat("a", 201),
	}

	result := Score(original, generated)

	require.Equal(t, 0, result.Score)
	require.NotContains(t, result.Factors, FactorTitle)
}

func TestScoreTitleAtLengthBoundary(t *testing.T) {
	original := &Product{Title: "Short"}
	generated := &Optimization{
		GeneratedTitle: strings.Repeat("a", 200),
	}

	result := Score(original, generated)

	require.Equal(t, 20, result.Score)
	require.Equal(t, []string{FactorTitle}, result.Factors)
}

func TestScoreMissingOriginalsTreatedAsEmpty(t *testing.T) {
	original := &Product{Title: "Some original title that is quite long already"}
	generated := &Optimization{
		GeneratedBullets:     "b",
		GeneratedDescription: "d",
	}

	result := Score(original, generated)

	require.Equal(t, 50, result.Score)
	require.Equal(t, []string{FactorBullets, FactorDescription}, result.Factors)
}

func TestScoreTooFewKeywords(t *testing.T) {
	original := &Product{Title: "T"}
	generated := &Optimization{GeneratedKeywords: []string{"a", "b"}}

	result := Score(original, generated)

	require.Equal(t, 0, result.Score)
	require.Empty(t, result.Factors)
}

func TestScoreBounded(t *testing.T) {
	original := &Product{}
	generated := &Optimization{
		GeneratedTitle:       strings.Repeat("t", 200),
		GeneratedBullets:     strings.Repeat("b", 500),
		GeneratedDescription: strings.Repeat("d", 500),
		GeneratedKeywords:    []string{"a", "b", "c", "d", "e"},
	}

	result := Score(original, generated)

	require.LessOrEqual(t, result.Score, 100)
	require.GreaterOrEqual(t, result.Score, 0)
	require.Len(t, result.Factors, 4)
}
