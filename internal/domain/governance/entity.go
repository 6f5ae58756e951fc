package governance

import "time"

// ID tipe untuk Proposal
type ProposalID string

// ProposalStatus enum
type ProposalStatus string

const (
	ProposalActive   ProposalStatus = "active"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
)

// Aggregate Root: Proposal
type Proposal struct {
	ID           ProposalID     `json:"id"`
	Description  string         `json:"description"`
	ProposerID   string         `json:"proposer_id"`
	Status       ProposalStatus `json:"status"`
	VotesFor     int            `json:"votes_for"`
	VotesAgainst int            `json:"votes_against"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Reputation is a user's standing in the community.
type Reputation struct {
	UserID    string    `json:"user_id"`
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContributionKind enum untuk reputation events
type ContributionKind string

const (
	KindKnowledgeAddition ContributionKind = "knowledge_addition"
	KindKnowledgeUpdate   ContributionKind = "knowledge_update"
	KindProposalCreation  ContributionKind = "proposal_creation"
	KindVoteCast          ContributionKind = "vote_cast"
	KindEthicsCheck       ContributionKind = "ethics_check"
)

// ContributionWeights are the base reputation points per contribution kind.
var ContributionWeights = map[ContributionKind]float64{
	KindKnowledgeAddition: 10,
	KindKnowledgeUpdate:   5,
	KindProposalCreation:  15,
	KindVoteCast:          2,
	KindEthicsCheck:       5,
}

// MaxReputation caps a user's score.
const MaxReputation = 1000.0
