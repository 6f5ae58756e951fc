package governance

import "context"

// ProposalRepository port (interface untuk persistence)
type ProposalRepository interface {
	Save(ctx context.Context, p *Proposal) error
	Get(ctx context.Context, id ProposalID) (*Proposal, error)
	ListActive(ctx context.Context) ([]*Proposal, error)
	CastVote(ctx context.Context, id ProposalID, support bool) error
}

// ReputationRepository port
type ReputationRepository interface {
	Get(ctx context.Context, userID string) (*Reputation, error)
	Add(ctx context.Context, userID string, delta float64) (*Reputation, error)
	Top(ctx context.Context, limit int) ([]*Reputation, error)
}
