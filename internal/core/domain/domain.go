// Package domain holds the core entities of the listing optimizer and the
// pure functions that operate on them (scoring, freshness, keyword recovery).
// Nothing in this package performs I/O.
package domain

import "time"

// Provenance marks whether a response was served from storage or computed anew.
type Provenance string

const (
	ProvenanceCached Provenance = "cached"
	ProvenanceFresh  Provenance = "fresh"
)

// Availability fallback when no extraction rule matches.
const AvailabilityUnknown = "Unknown"

// Product represents one scraped product listing, keyed by ASIN.
type Product struct {
	ID           int64
	ASIN         string
	Title        string
	BulletPoints string
	Description  string
	ImageURL     string
	Price        string
	Availability string
	Rating       *float64
	ReviewCount  *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Optimization represents one completed generation event for a product.
// Rows are append-only; many optimizations may exist per ASIN.
type Optimization struct {
	ID                   string
	ASIN                 string
	ProductID            int64
	GeneratedTitle       string
	GeneratedBullets     string
	GeneratedDescription string
	GeneratedKeywords    []string
	Score                int
	Model                string
	Metadata             OptimizationMetadata
	CreatedAt            time.Time
}

// OptimizationMetadata carries timing, accounting and scoring info for one
// generation event. Factors is the factor list that produced the stored
// score, captured against the product state at generation time.
type OptimizationMetadata struct {
	ElapsedMS   int64     `json:"elapsed_ms"`
	CallCount   int       `json:"call_count"`
	CompletedAt time.Time `json:"completed_at"`
	Factors     []string  `json:"factors,omitempty"`
}

// Action types for the optimization action log.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionViewed   = "viewed"
	ActionFeedback = "feedback"
)

// Action is one append-only log entry tied to an optimization.
type Action struct {
	ID             int64
	ASIN           string
	OptimizationID string
	ActionType     string
	Payload        []byte
	CreatedAt      time.Time
}

// Keyword source values.
const (
	KeywordSourceOriginal  = "original"
	KeywordSourceSuggested = "suggested"
	KeywordSourceManual    = "manual"
)

// Keyword is one observed (asin, keyword) pair. Re-suggesting an existing
// pair refreshes its timestamp instead of inserting a duplicate.
type Keyword struct {
	ID             int64
	ASIN           string
	Keyword        string
	Source         string
	RelevanceScore *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Feedback is a caller's rating of a prior optimization.
type Feedback struct {
	Rating       int      `json:"rating"`
	Comments     string   `json:"comments,omitempty"`
	Helpful      *bool    `json:"helpful,omitempty"`
	Improvements []string `json:"improvements,omitempty"`
}

// Pagination describes one page of a most-recent-first listing.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NewPagination computes page metadata from a total row count. It is total
// over its inputs: a non-positive page or limit degrades to page 1 with a
// limit of 1 instead of dividing by zero.
func NewPagination(page, limit int, total int64) Pagination {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = 1
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
