package optimizer

import (
	"fmt"
	"strings"

	"github.com/saleslens/listing-optimizer/internal/core/domain"
)

const (
	maxPromptBullets     = 2000
	maxPromptDescription = 2000
)

// productContext renders the shared context block included in every prompt.
// Optional fields are appended only when the extractor produced them.
func productContext(p *domain.Product) string {
	var sb strings.Builder

	sb.WriteString("Product title: " + p.Title + "\n")

	if p.BulletPoints != "" {
		sb.WriteString("Current bullet points:\n" + truncate(p.BulletPoints, maxPromptBullets) + "\n")
	}

	if p.Description != "" {
		sb.WriteString("Current description: " + truncate(p.Description, maxPromptDescription) + "\n")
	}

	if p.Price != "" {
		sb.WriteString("Price: " + p.Price + "\n")
	}

	if p.Availability != "" && p.Availability != domain.AvailabilityUnknown {
		sb.WriteString("Availability: " + p.Availability + "\n")
	}

	if p.Rating != nil {
		sb.WriteString(fmt.Sprintf("Customer rating: %.1f out of 5", *p.Rating))

		if p.ReviewCount != nil {
			sb.WriteString(fmt.Sprintf(" (%d reviews)", *p.ReviewCount))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func titlePrompt(p *domain.Product) string {
	return "You are an expert e-commerce copywriter. Rewrite the following product title to maximize search visibility and conversion. " +
		"Keep it under 200 characters, front-load the most important keywords, include brand and category terms when they appear in the source, and do not invent features. " +
		"Return ONLY the improved title, with no quotes and no explanation.\n\n" +
		productContext(p)
}

func bulletsPrompt(p *domain.Product) string {
	return "You are an expert e-commerce copywriter. Write exactly 5 concise benefit-led bullet points for this product. " +
		"Each bullet starts with a capitalized feature phrase followed by the benefit. Base every claim on the source material only. " +
		"Return the bullets as plain lines, one per line, no numbering and no extra commentary.\n\n" +
		productContext(p)
}

func descriptionPrompt(p *domain.Product) string {
	return "You are an expert e-commerce copywriter. Write an improved product description of 2-3 short paragraphs. " +
		"Use an engaging but factual tone, weave in category and use-case context when the source suggests it, and do not fabricate specifications. " +
		"Return ONLY the description text.\n\n" +
		productContext(p)
}

func keywordsPrompt(p *domain.Product) string {
	return "You are an e-commerce SEO specialist. Suggest the best search keywords for this product. " +
		"Return up to 5 keywords, comma-separated, lowercase, most important first. Return ONLY the comma-separated list.\n\n" +
		productContext(p)
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}

	runes := []rune(s)

	return string(runes[:max]) + "..."
}
