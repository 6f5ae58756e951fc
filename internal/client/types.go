package client

import "time"

// EvaluationRequest is the body of POST /ethics/evaluate.
type EvaluationRequest struct {
	Decision string `json:"decision"`
}

// EvaluationResult mirrors the server's evaluation payload.
type EvaluationResult struct {
	ID            string   `json:"id"`
	DecisionScore float64  `json:"decision_score"`
	Explanation   string   `json:"explanation"`
	Concerns      []string `json:"concerns"`
	Suggestions   []string `json:"improvement_suggestions"`
}

// KnowledgeEntry is the wire form of a knowledge-base record. ID and
// CreatedAt are empty on outbound records and filled in by the server.
type KnowledgeEntry struct {
	ID              string    `json:"id,omitempty"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	ContentType     string    `json:"content_type,omitempty"`
	Tags            []string  `json:"tags"`
	AuthorID        string    `json:"author_id"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	SimilarityScore float64   `json:"similarity_score,omitempty"`
}
