package governance

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	domai "github.com/ethosnet/ethosnet/internal/domain/ai"
	domain "github.com/ethosnet/ethosnet/internal/domain/governance"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type memProposalRepo struct {
	proposals map[domain.ProposalID]*domain.Proposal
}

func (r *memProposalRepo) Save(ctx context.Context, p *domain.Proposal) error {
	if r.proposals == nil {
		r.proposals = map[domain.ProposalID]*domain.Proposal{}
	}
	r.proposals[p.ID] = p
	return nil
}

func (r *memProposalRepo) Get(ctx context.Context, id domain.ProposalID) (*domain.Proposal, error) {
	p, ok := r.proposals[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (r *memProposalRepo) ListActive(ctx context.Context) ([]*domain.Proposal, error) {
	var out []*domain.Proposal
	for _, p := range r.proposals {
		if p.Status == domain.ProposalActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProposalRepo) CastVote(ctx context.Context, id domain.ProposalID, support bool) error {
	p, ok := r.proposals[id]
	if !ok {
		return sql.ErrNoRows
	}
	if support {
		p.VotesFor++
	} else {
		p.VotesAgainst++
	}
	return nil
}

type memReputationRepo struct {
	scores map[string]float64
}

func (r *memReputationRepo) Get(ctx context.Context, userID string) (*domain.Reputation, error) {
	return &domain.Reputation{UserID: userID, Score: r.scores[userID]}, nil
}

func (r *memReputationRepo) Add(ctx context.Context, userID string, delta float64) (*domain.Reputation, error) {
	if r.scores == nil {
		r.scores = map[string]float64{}
	}
	s := r.scores[userID] + delta
	if s < 0 {
		s = 0
	}
	if s > domain.MaxReputation {
		s = domain.MaxReputation
	}
	r.scores[userID] = s
	return &domain.Reputation{UserID: userID, Score: s}, nil
}

func (r *memReputationRepo) Top(ctx context.Context, limit int) ([]*domain.Reputation, error) {
	var out []*domain.Reputation
	for u, s := range r.scores {
		out = append(out, &domain.Reputation{UserID: u, Score: s})
	}
	return out, nil
}

type stubAI struct {
	factor float64
	err    error
}

func (a *stubAI) AssessDecision(ctx context.Context, decision string, guidelines []string) (*domai.Assessment, error) {
	return nil, errors.New("not used")
}

func (a *stubAI) ScoreEntry(ctx context.Context, title, content string) (float64, float64, error) {
	return 0, 0, nil
}

func (a *stubAI) ScoreContribution(ctx context.Context, kind, content string) (float64, error) {
	if a.err != nil {
		return 0, a.err
	}
	return a.factor, nil
}

func (a *stubAI) EvaluateStandard(ctx context.Context, standard string) (float64, error) {
	return 0, nil
}

func (a *stubAI) ScenarioFeedback(ctx context.Context, scenario, decision string) (string, error) {
	return "", nil
}

func (a *stubAI) Summarize(ctx context.Context, topic string, passages []string) (string, error) {
	return "", nil
}

func (a *stubAI) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0}, nil
}

func newTestService() (*Service, *memProposalRepo, *memReputationRepo, *stubAI) {
	proposals := &memProposalRepo{proposals: map[domain.ProposalID]*domain.Proposal{}}
	rep := &memReputationRepo{scores: map[string]float64{}}
	ai := &stubAI{factor: 1}
	svc := &Service{
		Proposals:  proposals,
		Reputation: rep,
		AI:         ai,
		Clock:      fixedClock{t: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)},
	}
	return svc, proposals, rep, ai
}

func TestCreateProposalCreditsProposer(t *testing.T) {
	svc, proposals, rep, _ := newTestService()

	id, err := svc.CreateProposal(context.Background(), "mandatory disclosure", "u1")
	if err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}
	p, ok := proposals.proposals[id]
	if !ok || p.Status != domain.ProposalActive {
		t.Fatalf("proposal not stored active: %+v", p)
	}
	// proposal_creation weight 15 at factor 1
	if rep.scores["u1"] != 15 {
		t.Errorf("expected reputation 15, got %v", rep.scores["u1"])
	}
}

func TestCastVoteTalliesAndCredits(t *testing.T) {
	svc, proposals, rep, _ := newTestService()
	proposals.proposals["p1"] = &domain.Proposal{ID: "p1", Status: domain.ProposalActive}

	if err := svc.CastVote(context.Background(), "p1", "voter", true); err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	if err := svc.CastVote(context.Background(), "p1", "voter", false); err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	p := proposals.proposals["p1"]
	if p.VotesFor != 1 || p.VotesAgainst != 1 {
		t.Errorf("unexpected tally: %+v", p)
	}
	// vote_cast weight 2, two votes at factor 1
	if rep.scores["voter"] != 4 {
		t.Errorf("expected reputation 4, got %v", rep.scores["voter"])
	}
}

func TestCastVoteUnknownProposal(t *testing.T) {
	svc, _, _, _ := newTestService()
	if err := svc.CastVote(context.Background(), "nope", "v", true); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestRecordContributionScalesWeight(t *testing.T) {
	svc, _, rep, ai := newTestService()
	ai.factor = 0.6

	svc.RecordContribution(context.Background(), "u1", domain.KindKnowledgeAddition, "content")
	if rep.scores["u1"] != 6 {
		t.Errorf("expected 10 * 0.6 = 6, got %v", rep.scores["u1"])
	}
}

func TestRecordContributionNeutralOnScoringFailure(t *testing.T) {
	svc, _, rep, ai := newTestService()
	ai.err = errors.New("llm down")

	svc.RecordContribution(context.Background(), "u1", domain.KindEthicsCheck, "c")
	// ethics_check weight 5 at neutral factor 0.5
	if rep.scores["u1"] != 2.5 {
		t.Errorf("expected 2.5, got %v", rep.scores["u1"])
	}
}

func TestRecordContributionClampsFactor(t *testing.T) {
	svc, _, rep, ai := newTestService()
	ai.factor = 3

	svc.RecordContribution(context.Background(), "u1", domain.KindVoteCast, "c")
	if rep.scores["u1"] != 2 {
		t.Errorf("expected factor clamped to 1 (score 2), got %v", rep.scores["u1"])
	}
}

func TestReputationCap(t *testing.T) {
	svc, _, rep, _ := newTestService()
	rep.scores["u1"] = domain.MaxReputation - 1

	got, err := svc.UpdateReputation(context.Background(), "u1", 50)
	if err != nil {
		t.Fatalf("UpdateReputation: %v", err)
	}
	if got.Score != domain.MaxReputation {
		t.Errorf("expected cap at %v, got %v", domain.MaxReputation, got.Score)
	}
}
