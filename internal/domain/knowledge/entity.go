package knowledge

import (
	"strings"
	"time"
)

// ID tipe untuk Entry
type EntryID string

// ContentType enum
type ContentType string

const (
	ContentText    ContentType = "text"
	ContentImage   ContentType = "image"
	ContentVideo   ContentType = "video"
	ContentAudio   ContentType = "audio"
	ContentCode    ContentType = "code"
	ContentDataset ContentType = "dataset"
)

// ReviewStatus enum
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewReviewed ReviewStatus = "reviewed"
	ReviewRejected ReviewStatus = "rejected"
	ReviewFlagged  ReviewStatus = "flagged"
)

// MaxContentLength caps entry content, in characters.
const MaxContentLength = 10000

// Aggregate Root: Entry
type Entry struct {
	ID             EntryID      `json:"id"`
	Title          string       `json:"title"`
	Content        string       `json:"content"`
	ContentType    ContentType  `json:"content_type"`
	Tags           []string     `json:"tags"`
	AuthorID       string       `json:"author_id"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	ReviewStatus   ReviewStatus `json:"review_status"`
	QualityScore   float64      `json:"quality_score"`
	RelevanceScore float64      `json:"relevance_score"`
	Version        int          `json:"version"`
	Embedding      []float32    `json:"-"`
}

// SearchResult pairs an entry with its similarity to the query, 0-1.
type SearchResult struct {
	Entry
	SimilarityScore float64 `json:"similarity_score"`
}

// NormalizeTags splits a comma-separated list, trims each token and drops
// the ones left empty.
func NormalizeTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
