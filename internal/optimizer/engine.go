// Package optimizer generates improved listing content for scraped products
// and coordinates persistence of the results. The engine issues four
// independent generative calls per product; the service around it applies the
// freshness gates and the storage discipline.
package optimizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/saleslens/listing-optimizer/internal/core/domain"
	"github.com/saleslens/listing-optimizer/internal/llm"
)

const (
	generationCallCount = 4
	maxKeywords         = 5
)

// GenerationOutput is the assembled result of the four field generations.
type GenerationOutput struct {
	Title       string
	Bullets     string
	Description string
	Keywords    []string
	Model       string
	ElapsedMS   int64
	CallCount   int
	CompletedAt time.Time
}

// Engine runs the four field-specific generations against one product.
// Call spacing is enforced by the llm.Client's shared rate limiter; the
// engine itself only sequences and assembles.
type Engine struct {
	client llm.Client
	logger *zerolog.Logger
}

func NewEngine(client llm.Client, logger *zerolog.Logger) *Engine {
	return &Engine{client: client, logger: logger}
}

// Generate produces title, bullets, description and keywords for one product.
// The four calls are independent of each other's output and run sequentially;
// any call error fails the whole generation.
func (e *Engine) Generate(ctx context.Context, product *domain.Product) (*GenerationOutput, error) {
	start := time.Now()

	title, err := e.client.Generate(ctx, titlePrompt(product))
	if err != nil {
		return nil, fmt.Errorf("generate title: %w", err)
	}

	bullets, err := e.client.Generate(ctx, bulletsPrompt(product))
	if err != nil {
		return nil, fmt.Errorf("generate bullets: %w", err)
	}

	description, err := e.client.Generate(ctx, descriptionPrompt(product))
	if err != nil {
		return nil, fmt.Errorf("generate description: %w", err)
	}

	keywordText, err := e.client.Generate(ctx, keywordsPrompt(product))
	if err != nil {
		return nil, fmt.Errorf("generate keywords: %w", err)
	}

	out := &GenerationOutput{
		Title:       stripWrappingQuotes(strings.TrimSpace(title)),
		Bullets:     strings.TrimSpace(bullets),
		Description: strings.TrimSpace(description),
		Keywords:    splitKeywords(keywordText),
		Model:       e.client.Model(),
		ElapsedMS:   time.Since(start).Milliseconds(),
		CallCount:   generationCallCount,
		CompletedAt: time.Now().UTC(),
	}

	e.logger.Info().
		Str("asin", product.ASIN).
		Str("model", out.Model).
		Int64("elapsed_ms", out.ElapsedMS).
		Int("keywords", len(out.Keywords)).
		Msg("generation completed")

	return out, nil
}

// splitKeywords turns the raw keyword completion into at most maxKeywords
// trimmed, non-empty entries.
func splitKeywords(raw string) []string {
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, maxKeywords)

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		keywords = append(keywords, p)
		if len(keywords) == maxKeywords {
			break
		}
	}

	return keywords
}

// stripWrappingQuotes removes quote characters models like to wrap titles in.
func stripWrappingQuotes(s string) string {
	return strings.Trim(s, `"'“”`)
}
