package domain

// Scoring point values and the maximum generated title length that still
// counts as an improvement.
const (
	maxScore            = 100
	titlePoints         = 20
	bulletPoints        = 25
	descriptionPoints   = 25
	keywordPoints       = 30
	maxUsableTitleRunes = 200
	minKeywordCount     = 3
)

// Factor labels, in evaluation order.
const (
	FactorTitle       = "Enhanced title length"
	FactorBullets     = "Improved bullet points"
	FactorDescription = "Enhanced description"
	FactorKeywords    = "Added keyword strategy"
)

// ScoreResult is the outcome of scoring one generated optimization against
// its original product.
type ScoreResult struct {
	Score   int      `json:"score"`
	Factors []string `json:"factors"`
}

// Score rates a generated optimization against the original product fields.
// The point system is additive and deliberately magnitude-insensitive: any
// improvement earns the full factor, capped at 100. Deterministic and
// side-effect free.
func Score(original *Product, generated *Optimization) ScoreResult {
	score := 0
	factors := make([]string, 0, 4)

	if len(generated.GeneratedTitle) > len(original.Title) && len([]rune(generated.GeneratedTitle)) <= maxUsableTitleRunes {
		score += titlePoints
		factors = append(factors, FactorTitle)
	}

	if len(generated.GeneratedBullets) > len(original.BulletPoints) {
		score += bulletPoints
		factors = append(factors, FactorBullets)
	}

	if len(generated.GeneratedDescription) > len(original.Description) {
		score += descriptionPoints
		factors = append(factors, FactorDescription)
	}

	if len(generated.GeneratedKeywords) >= minKeywordCount {
		score += keywordPoints
		factors = append(factors, FactorKeywords)
	}

	if score > maxScore {
		score = maxScore
	}

	return ScoreResult{Score: score, Factors: factors}
}
