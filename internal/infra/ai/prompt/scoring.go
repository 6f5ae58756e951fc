package prompt

import (
	"fmt"
	"strings"
)

// EntryScoreSystemPrompt: JSON-only quality/relevance rating for a knowledge entry.
func EntryScoreSystemPrompt() string {
	return `You rate knowledge base entries about AI ethics. Produce one valid JSON object only, no markdown, no commentary.

Schema:
{"quality": 0, "relevance": 0}

quality (0-100): how well-written, accurate and valuable the content is.
relevance (0-100): how relevant the entry is to AI ethics and responsible AI development.`
}

// EntryScoreUserPrompt builds the user message for an entry rating.
func EntryScoreUserPrompt(title, content string) string {
	return fmt.Sprintf("Evaluate the following knowledge entry.\nTitle: %s\nContent:\n%s\n\nRespond with the JSON per schema.", title, content)
}

// ContributionScorePrompt: JSON-only 0-1 quality factor for a contribution.
func ContributionScorePrompt(kind, content string) string {
	return fmt.Sprintf(`Assess the quality of the following %s on a scale of 0 to 1, where 1 is the highest quality.
Respond with one JSON object only: {"quality": 0.0}

Contribution:
%s`, kind, content)
}

// StandardEvalPrompt: JSON-only 0-100 quality score for a proposed ethical standard.
func StandardEvalPrompt(standard string) string {
	return fmt.Sprintf(`Evaluate the following proposed ethical standard for AI development:
"%s"

Respond with one JSON object only: {"quality_score": 0}
quality_score (0-100) reflects clarity, relevance to AI ethics, and actionability.`, standard)
}

// SummaryPrompt condenses retrieved passages on a topic.
func SummaryPrompt(topic string, passages []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Summarize what the following passages say about %q in no more than 150 words.\n\n", topic)
	for i, p := range passages {
		fmt.Fprintf(&sb, "Passage %d:\n%s\n\n", i+1, p)
	}
	sb.WriteString("Summary:")
	return sb.String()
}
