package prompt

import (
	"fmt"
	"strings"
)

// AssessmentSystemPrompt provides strict directions and schema for JSON output.
func AssessmentSystemPrompt() string {
	return `You are an AI ethics evaluator. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- overall_ethical_score is a number from 0 to 100, where 100 is most ethical.
- explanation is a brief reasoning for the score.
- potential_concerns and improvement_suggestions are arrays of short strings; keep items concise.
- If no guidelines are provided in the prompt, assess against widely accepted AI ethics principles (beneficence, non-maleficence, autonomy, justice, explicability).

Schema (example with empty values):
{
  "overall_ethical_score": 0,
  "explanation": "<string>",
  "potential_concerns": ["<string>"],
  "improvement_suggestions": ["<string>"]
}`
}

// AssessmentUserPrompt builds the user message around the decision and the
// retrieved guidelines.
func AssessmentUserPrompt(decision string, guidelines []string) string {
	var sb strings.Builder
	sb.WriteString("Given the following AI decision:\n")
	sb.WriteString(decision)
	sb.WriteString("\n")
	if len(guidelines) > 0 {
		sb.WriteString("\nAnd considering these ethical guidelines:\n")
		for _, g := range guidelines {
			sb.WriteString("- ")
			sb.WriteString(g)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\nProvide the ethical assessment as JSON per schema.")
	return sb.String()
}

// ScenarioFeedbackPrompt asks for free-text feedback on a scenario decision.
func ScenarioFeedbackPrompt(scenario, userDecision string) string {
	return fmt.Sprintf(`Given the following ethics scenario in AI development:
%s

A participant chose this course of action:
%s

Give concise feedback: whether the choice is ethically sound, which principles it upholds or violates, and what a stronger alternative would be.`, scenario, userDecision)
}
