package scraper

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/saleslens/listing-optimizer/internal/core/domain"
	coreerrors "github.com/saleslens/listing-optimizer/internal/core/errors"
)

const (
	minTitleLength      = 3
	minBulletLength     = 10
	bulletPrefix        = "• "
	maxBulletItems      = 10
	bulletBoilerplate   = "Make sure this fits by entering your model number"
	maxRatingValue      = 5
	thousandsSep        = ","
	availabilityDefault = domain.AvailabilityUnknown
)

// rule is one extraction attempt: a selector plus an optional attribute to
// read instead of the node text. Rules for a field are tried in order and the
// first non-empty plausible value wins; partial results from later rules are
// never merged in.
type rule struct {
	selector string
	attr     string
}

var titleRules = []rule{
	{selector: "#productTitle"},
	{selector: "#title span"},
	{selector: "h1.product-title"},
	{selector: "meta[property='og:title']", attr: "content"},
}

var descriptionRules = []rule{
	{selector: "#productDescription p"},
	{selector: "#productDescription"},
	{selector: "#aplus_feature_div"},
	{selector: "meta[name='description']", attr: "content"},
}

var imageRules = []rule{
	{selector: "#landingImage", attr: "data-old-hires"},
	{selector: "#landingImage", attr: "src"},
	{selector: "#imgBlkFront", attr: "src"},
	{selector: "meta[property='og:image']", attr: "content"},
}

var priceRules = []rule{
	{selector: ".a-price .a-offscreen"},
	{selector: "#priceblock_ourprice"},
	{selector: "#priceblock_dealprice"},
	{selector: "#corePrice_feature_div .a-offscreen"},
}

var availabilityRules = []rule{
	{selector: "#availability span"},
	{selector: "#availability"},
}

var bulletPrimarySelector = "#feature-bullets li span.a-list-item"

var bulletFallbackSelectors = []string{
	"#productOverview_feature_div tr td.a-span9 span",
	"ul.a-unordered-list.a-vertical li span",
}

var ratingSourceRules = []rule{
	{selector: "span[data-hook='rating-out-of-text']"},
	{selector: "#acrPopover", attr: "title"},
	{selector: "i.a-icon-star span.a-icon-alt"},
}

var reviewCountRules = []rule{
	{selector: "#acrCustomerReviewText"},
	{selector: "span[data-hook='total-review-count']"},
}

var (
	ratingPattern      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*out of\s*5`)
	reviewCountPattern = regexp.MustCompile(`([\d,]+)`)
)

// Extract parses a raw product detail document into a Product candidate.
// It fails with ErrExtractionFailed when no plausible title can be produced;
// every other field degrades to its zero value (or "Unknown" for
// availability) instead of failing.
func Extract(document []byte, asinID string) (*domain.Product, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("%w: parse document: %v", coreerrors.ErrExtractionFailed, err)
	}

	title := firstMatch(doc, titleRules)
	if len(title) < minTitleLength {
		return nil, fmt.Errorf("%w: no usable title in document", coreerrors.ErrExtractionFailed)
	}

	availability := firstMatch(doc, availabilityRules)
	if availability == "" {
		availability = availabilityDefault
	}

	return &domain.Product{
		ASIN:         asinID,
		Title:        title,
		BulletPoints: extractBullets(doc),
		Description:  firstMatch(doc, descriptionRules),
		ImageURL:     firstMatch(doc, imageRules),
		Price:        firstMatch(doc, priceRules),
		Availability: availability,
		Rating:       extractRating(doc),
		ReviewCount:  extractReviewCount(doc),
	}, nil
}

// firstMatch evaluates rules in order and returns the first non-empty
// trimmed value.
func firstMatch(doc *goquery.Document, rules []rule) string {
	for _, r := range rules {
		sel := doc.Find(r.selector).First()
		if sel.Length() == 0 {
			continue
		}

		var value string
		if r.attr != "" {
			value, _ = sel.Attr(r.attr)
		} else {
			value = sel.Text()
		}

		value = strings.TrimSpace(value)
		if value != "" {
			return value
		}
	}

	return ""
}

// extractBullets collects list items under the primary selector, dropping
// boilerplate and implausibly short lines. The fallback selectors are
// consulted only when the primary rule yields zero usable items.
func extractBullets(doc *goquery.Document) string {
	items := collectBullets(doc, bulletPrimarySelector)

	for _, selector := range bulletFallbackSelectors {
		if len(items) > 0 {
			break
		}

		items = collectBullets(doc, selector)
	}

	if len(items) == 0 {
		return ""
	}

	if len(items) > maxBulletItems {
		items = items[:maxBulletItems]
	}

	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = bulletPrefix + item
	}

	return strings.Join(lines, "\n")
}

func collectBullets(doc *goquery.Document, selector string) []string {
	var items []string

	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) < minBulletLength {
			return
		}

		if strings.Contains(text, bulletBoilerplate) {
			return
		}

		items = append(items, text)
	})

	return items
}

// extractRating pattern-matches "X out of 5" from the rating widgets.
// Returns nil when no rule matches; never fails.
func extractRating(doc *goquery.Document) *float64 {
	text := firstMatch(doc, ratingSourceRules)
	if text == "" {
		return nil
	}

	m := ratingPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value < 0 || value > maxRatingValue {
		return nil
	}

	return &value
}

// extractReviewCount pulls the first digit group (thousands separators
// allowed) out of the review count text. Returns nil when no rule matches.
func extractReviewCount(doc *goquery.Document) *int {
	text := firstMatch(doc, reviewCountRules)
	if text == "" {
		return nil
	}

	m := reviewCountPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	value, err := strconv.Atoi(strings.ReplaceAll(m[1], thousandsSep, ""))
	if err != nil || value < 0 {
		return nil
	}

	return &value
}
