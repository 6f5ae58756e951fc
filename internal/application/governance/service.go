package governance

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/ethosnet/ethosnet/internal/application"
	domai "github.com/ethosnet/ethosnet/internal/domain/ai"
	domain "github.com/ethosnet/ethosnet/internal/domain/governance"
)

// Service implements proposal and reputation use-cases. Voting rules and
// any on-chain settlement stay outside this layer; this is ledger plumbing.
type Service struct {
	Proposals  domain.ProposalRepository
	Reputation domain.ReputationRepository
	AI         domai.Client
	Clock      application.Clock
}

// CreateProposal opens a new active proposal and credits the proposer.
func (s *Service) CreateProposal(ctx context.Context, description, proposerID string) (domain.ProposalID, error) {
	p := &domain.Proposal{
		ID:          domain.ProposalID(uuid.New().String()),
		Description: description,
		ProposerID:  proposerID,
		Status:      domain.ProposalActive,
		CreatedAt:   s.Clock.Now(),
	}
	if err := s.Proposals.Save(ctx, p); err != nil {
		return "", err
	}
	if proposerID != "" {
		s.RecordContribution(ctx, proposerID, domain.KindProposalCreation, description)
	}
	return p.ID, nil
}

// CastVote records a vote tally update and credits the voter.
func (s *Service) CastVote(ctx context.Context, id domain.ProposalID, voterID string, support bool) error {
	if err := s.Proposals.CastVote(ctx, id, support); err != nil {
		return err
	}
	if voterID != "" {
		s.RecordContribution(ctx, voterID, domain.KindVoteCast, string(id))
	}
	return nil
}

// ActiveProposals lists proposals still open for voting.
func (s *Service) ActiveProposals(ctx context.Context) ([]*domain.Proposal, error) {
	return s.Proposals.ListActive(ctx)
}

// Proposal returns one proposal by id.
func (s *Service) Proposal(ctx context.Context, id domain.ProposalID) (*domain.Proposal, error) {
	return s.Proposals.Get(ctx, id)
}

// GetReputation returns a user's current standing. Unknown users start at zero.
func (s *Service) GetReputation(ctx context.Context, userID string) (*domain.Reputation, error) {
	return s.Reputation.Get(ctx, userID)
}

// UpdateReputation applies an explicit delta, wire shape of POST /reputation/update.
func (s *Service) UpdateReputation(ctx context.Context, userID string, delta float64) (*domain.Reputation, error) {
	return s.Reputation.Add(ctx, userID, delta)
}

// Top returns the reputation leaderboard.
func (s *Service) Top(ctx context.Context, limit int) ([]*domain.Reputation, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.Reputation.Top(ctx, limit)
}

// RecordContribution scales the kind's base weight by an LLM quality factor
// and applies the result. Best-effort: a contribution must never fail the
// user-facing operation that produced it.
func (s *Service) RecordContribution(ctx context.Context, userID string, kind domain.ContributionKind, content string) {
	base, ok := domain.ContributionWeights[kind]
	if !ok {
		base = 1
	}
	factor := 0.5 // neutral when scoring is unavailable
	if s.AI != nil {
		if f, err := s.AI.ScoreContribution(ctx, string(kind), content); err == nil {
			factor = clamp01(f)
		} else {
			log.Printf("contribution scoring failed for %s: %v", userID, err)
		}
	}
	if _, err := s.Reputation.Add(ctx, userID, base*factor); err != nil {
		log.Printf("reputation update failed for %s: %v", userID, err)
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
