package ethics

import (
	"time"
)

// ID tipe untuk Evaluation
type EvaluationID string

// Principle enum
type Principle string

const (
	PrincipleBeneficence   Principle = "beneficence"
	PrincipleNonMaleficence Principle = "non_maleficence"
	PrincipleAutonomy      Principle = "autonomy"
	PrincipleJustice       Principle = "justice"
	PrincipleExplicability Principle = "explicability"
)

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Guideline is a community ethical standard entries are evaluated against.
type Guideline struct {
	ID          string    `json:"id"`
	Principle   Principle `json:"principle"`
	Description string    `json:"description"`
	Examples    []string  `json:"examples,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	Version     int       `json:"version"`
	AuthorID    string    `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GuidelineScore value object: how a decision scored against one guideline.
type GuidelineScore struct {
	GuidelineID string  `json:"guideline_id"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// Aggregate Root: Evaluation
type Evaluation struct {
	ID              EvaluationID     `json:"id"`
	Decision        string           `json:"decision"`
	EvaluatorID     string           `json:"evaluator_id"`
	Timestamp       time.Time        `json:"timestamp"`
	Status          Status           `json:"status"`
	DecisionScore   float64          `json:"decision_score"`
	Explanation     string           `json:"explanation"`
	Concerns        []string         `json:"concerns"`
	Suggestions     []string         `json:"improvement_suggestions"`
	GuidelineScores []GuidelineScore `json:"guideline_evaluations,omitempty"`
	ArtifactURL     string           `json:"artifact_url,omitempty"`
}

// ClampScore keeps a score inside the documented 0-100 range.
func ClampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
