package ethics

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/ethosnet/ethosnet/internal/application"
	domai "github.com/ethosnet/ethosnet/internal/domain/ai"
	domain "github.com/ethosnet/ethosnet/internal/domain/ethics"
	"github.com/ethosnet/ethosnet/internal/domain/governance"
	"github.com/ethosnet/ethosnet/internal/domain/vector"
)

// Collections in the vector index.
const (
	GuidelineCollection = "ethosnet_guidelines"
	StandardCollection  = "ethosnet_standards"
)

// MinStandardQuality is the gate for proposed ethical standards.
const MinStandardQuality = 70.0

// noveltyThreshold: a proposed standard this similar to an existing
// guideline is considered a duplicate.
const noveltyThreshold = 0.9

// Governance is the slice of the governance service the ethics use-cases need.
type Governance interface {
	CreateProposal(ctx context.Context, description, proposerID string) (governance.ProposalID, error)
	RecordContribution(ctx context.Context, userID string, kind governance.ContributionKind, content string)
}

// Service implements the ethics use-cases. Safe for concurrent use.
type Service struct {
	Evaluations domain.Repository
	Guidelines  domain.GuidelineRepository
	AI          domai.Client
	Index       vector.Index
	Artifacts   domain.ArtifactStore
	Gov         Governance
	Clock       application.Clock
}

// Evaluate runs the staged evaluation pipeline: retrieve relevant
// guidelines, LLM assessment, heuristic guideline scoring, combine,
// persist, archive the raw exchange.
func (s *Service) Evaluate(ctx context.Context, decision, evaluatorID string) (*domain.Evaluation, error) {
	decision = strings.TrimSpace(decision)
	if decision == "" {
		return nil, domain.ErrEmptyDecision
	}

	guidelines, err := s.relevantGuidelines(ctx, decision)
	if err != nil {
		// Retrieval is best-effort: without guidelines the LLM stage still runs.
		log.Printf("guideline retrieval failed, evaluating on llm stage alone: %v", err)
		guidelines = nil
	}

	texts := make([]string, len(guidelines))
	for i, g := range guidelines {
		texts[i] = g.Description
	}

	assessment, err := s.AI.AssessDecision(ctx, decision, texts)
	if err != nil {
		return nil, fmt.Errorf("assess decision: %w", err)
	}

	scores := make([]domain.GuidelineScore, 0, len(guidelines))
	var guidelineTotal float64
	for _, g := range guidelines {
		sc := keywordScore(decision, g.Keywords)
		guidelineTotal += sc
		scores = append(scores, domain.GuidelineScore{
			GuidelineID: g.ID,
			Score:       sc,
			Explanation: fmt.Sprintf("keyword heuristic against guideline: %s", g.Description),
		})
	}

	combined := assessment.Score
	if len(scores) > 0 {
		combined = (assessment.Score + guidelineTotal/float64(len(scores))) / 2
	}

	eval := &domain.Evaluation{
		ID:              domain.EvaluationID(uuid.New().String()),
		Decision:        decision,
		EvaluatorID:     evaluatorID,
		Timestamp:       s.Clock.Now(),
		Status:          domain.StatusCompleted,
		DecisionScore:   domain.ClampScore(combined),
		Explanation:     assessment.Explanation,
		Concerns:        assessment.Concerns,
		Suggestions:     assessment.Suggestions,
		GuidelineScores: scores,
	}

	if s.Artifacts != nil {
		key := fmt.Sprintf("evaluations/%s.json", eval.ID)
		url, aerr := s.Artifacts.PutJSON(ctx, key, map[string]any{
			"decision":   decision,
			"guidelines": texts,
			"raw_reply":  assessment.Raw,
			"evaluation": eval,
		})
		if aerr != nil {
			// The evaluation result matters more than its archive.
			log.Printf("artifact upload failed for evaluation %s: %v", eval.ID, aerr)
		} else {
			eval.ArtifactURL = url
		}
	}

	if err := s.Evaluations.Save(ctx, eval); err != nil {
		return nil, fmt.Errorf("save evaluation: %w", err)
	}

	if s.Gov != nil && evaluatorID != "" {
		s.Gov.RecordContribution(ctx, evaluatorID, governance.KindEthicsCheck, decision)
	}

	return eval, nil
}

// Get returns a stored evaluation.
func (s *Service) Get(ctx context.Context, id domain.EvaluationID) (*domain.Evaluation, error) {
	return s.Evaluations.Get(ctx, id)
}

// LatestEvaluations lists recent evaluations, newest first. An empty
// evaluator lists across all evaluators.
func (s *Service) LatestEvaluations(ctx context.Context, evaluator string, limit int) ([]*domain.Evaluation, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.Evaluations.Latest(ctx, evaluator, limit)
}

// GuidelineTexts returns the guideline descriptions, the wire shape of
// GET /ethics/guidelines.
func (s *Service) GuidelineTexts(ctx context.Context) ([]string, error) {
	list, err := s.Guidelines.List(ctx)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(list))
	for i, g := range list {
		texts[i] = g.Description
	}
	return texts, nil
}

// AddGuideline stores a guideline and indexes its description for retrieval.
func (s *Service) AddGuideline(ctx context.Context, g *domain.Guideline) error {
	if strings.TrimSpace(g.Description) == "" {
		return domain.ErrEmptyDecision
	}
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	now := s.Clock.Now()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	if g.Version == 0 {
		g.Version = 1
	}
	if err := s.Guidelines.Save(ctx, g); err != nil {
		return fmt.Errorf("save guideline: %w", err)
	}
	vec, err := s.AI.Embed(ctx, g.Description+" "+strings.Join(g.Keywords, " "))
	if err != nil {
		return fmt.Errorf("embed guideline: %w", err)
	}
	return s.Index.Upsert(ctx, GuidelineCollection, vector.Point{
		ID:      g.ID,
		Vector:  vec,
		Payload: map[string]any{"principle": string(g.Principle), "description": g.Description},
	})
}

// ProposeStandard gates a proposed ethical standard on novelty and quality,
// then opens a governance proposal and indexes the text.
func (s *Service) ProposeStandard(ctx context.Context, description, proposerID string) (governance.ProposalID, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", domain.ErrEmptyDecision
	}

	vec, err := s.AI.Embed(ctx, description)
	if err != nil {
		return "", fmt.Errorf("embed standard: %w", err)
	}
	hits, err := s.Index.Search(ctx, GuidelineCollection, vec, 1, noveltyThreshold)
	if err != nil {
		return "", fmt.Errorf("novelty check: %w", err)
	}
	if len(hits) > 0 {
		return "", domain.ErrDuplicateStandard
	}

	quality, err := s.AI.EvaluateStandard(ctx, description)
	if err != nil {
		return "", fmt.Errorf("evaluate standard: %w", err)
	}
	if quality < MinStandardQuality {
		return "", domain.ErrLowQuality
	}

	id, err := s.Gov.CreateProposal(ctx, description, proposerID)
	if err != nil {
		return "", fmt.Errorf("create proposal: %w", err)
	}

	if err := s.Index.Upsert(ctx, StandardCollection, vector.Point{
		ID:      string(id),
		Vector:  vec,
		Payload: map[string]any{"standard": description, "proposer_id": proposerID},
	}); err != nil {
		log.Printf("index proposed standard %s: %v", id, err)
	}

	return id, nil
}

// RunScenario generates LLM feedback for a user decision on an ethics scenario.
func (s *Service) RunScenario(ctx context.Context, scenario, userDecision string) (string, error) {
	scenario = strings.TrimSpace(scenario)
	if scenario == "" {
		return "", domain.ErrEmptyDecision
	}
	return s.AI.ScenarioFeedback(ctx, scenario, userDecision)
}

// relevantGuidelines embeds the decision and hydrates the top matches.
func (s *Service) relevantGuidelines(ctx context.Context, decision string) ([]*domain.Guideline, error) {
	vec, err := s.AI.Embed(ctx, decision)
	if err != nil {
		return nil, err
	}
	hits, err := s.Index.Search(ctx, GuidelineCollection, vec, 5, 0)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Guideline, 0, len(hits))
	for _, h := range hits {
		g, gerr := s.Guidelines.Get(ctx, h.ID)
		if gerr != nil {
			// Stale index points are skipped, not fatal.
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// keywordScore is the heuristic guideline score: share of guideline
// keywords present in the decision text, scaled to 0-100.
func keywordScore(decision string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(decision)
	matched := 0
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched++
		}
	}
	score := float64(matched) / float64(len(keywords)) * 100
	if score > 100 {
		return 100
	}
	return score
}
