package ai

import "context"

// Assessment is the structured output of an LLM ethics assessment.
type Assessment struct {
	Score       float64  `json:"overall_ethical_score"`
	Explanation string   `json:"explanation"`
	Concerns    []string `json:"potential_concerns"`
	Suggestions []string `json:"improvement_suggestions"`
	Raw         string   `json:"-"`
}

// Client is the LLM port. One implementation backs every use-case that
// needs generation, scoring or embeddings.
type Client interface {
	// AssessDecision evaluates an AI decision against the given guideline texts.
	AssessDecision(ctx context.Context, decision string, guidelines []string) (*Assessment, error)
	// ScoreEntry rates a knowledge entry: quality and relevance, both 0-100.
	ScoreEntry(ctx context.Context, title, content string) (quality, relevance float64, err error)
	// ScoreContribution rates a contribution 0-1 for reputation weighting.
	ScoreContribution(ctx context.Context, kind, content string) (float64, error)
	// EvaluateStandard rates a proposed ethical standard 0-100.
	EvaluateStandard(ctx context.Context, standard string) (float64, error)
	// ScenarioFeedback critiques a user decision for an ethics scenario.
	ScenarioFeedback(ctx context.Context, scenario, decision string) (string, error)
	// Summarize condenses retrieved passages on a topic.
	Summarize(ctx context.Context, topic string, passages []string) (string, error)
	// Embed returns the embedding vector for a text.
	Embed(ctx context.Context, text string) ([]float32, error)
}
