package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/ethosnet/ethosnet/internal/domain/governance"
)

type ProposalRepository struct {
	db *sql.DB
}

func NewProposalRepository(db *sql.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Save insert/update Proposal record
func (r *ProposalRepository) Save(ctx context.Context, p *domain.Proposal) error {
	const q = `
INSERT INTO governance_proposals
(id, description, proposer_id, status, votes_for, votes_against, created_at)
VALUES (?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 status=VALUES(status), votes_for=VALUES(votes_for), votes_against=VALUES(votes_against);
`
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.Description, stringOrDash(p.ProposerID), stringOrDash(string(p.Status)),
		p.VotesFor, p.VotesAgainst, created,
	)
	return err
}

// Get by ID
func (r *ProposalRepository) Get(ctx context.Context, id domain.ProposalID) (*domain.Proposal, error) {
	const q = `
SELECT id, description, proposer_id, status, votes_for, votes_against, created_at
FROM governance_proposals
WHERE id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, id)
	var p domain.Proposal
	if err := row.Scan(&p.ID, &p.Description, &p.ProposerID, &p.Status, &p.VotesFor, &p.VotesAgainst, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListActive returns proposals still open for voting, newest first
func (r *ProposalRepository) ListActive(ctx context.Context) ([]*domain.Proposal, error) {
	const q = `
SELECT id, description, proposer_id, status, votes_for, votes_against, created_at
FROM governance_proposals
WHERE status=? ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, domain.ProposalActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Proposal
	for rows.Next() {
		var p domain.Proposal
		if err := rows.Scan(&p.ID, &p.Description, &p.ProposerID, &p.Status, &p.VotesFor, &p.VotesAgainst, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// CastVote bumps one tally column. Missing rows surface as sql.ErrNoRows.
func (r *ProposalRepository) CastVote(ctx context.Context, id domain.ProposalID, support bool) error {
	col := "votes_against"
	if support {
		col = "votes_for"
	}
	q := `UPDATE governance_proposals SET ` + col + ` = ` + col + ` + 1 WHERE id=? AND status=?;`
	res, err := r.db.ExecContext(ctx, q, id, domain.ProposalActive)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type ReputationRepository struct {
	db *sql.DB
}

func NewReputationRepository(db *sql.DB) *ReputationRepository {
	return &ReputationRepository{db: db}
}

// Get returns the user's standing; unknown users read as zero.
func (r *ReputationRepository) Get(ctx context.Context, userID string) (*domain.Reputation, error) {
	const q = `
SELECT user_id, score, updated_at FROM reputations WHERE user_id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, userID)
	var rep domain.Reputation
	if err := row.Scan(&rep.UserID, &rep.Score, &rep.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return &domain.Reputation{UserID: userID, Score: 0, UpdatedAt: time.Now()}, nil
		}
		return nil, err
	}
	return &rep, nil
}

// Add applies a delta and returns the new standing, capped at MaxReputation.
func (r *ReputationRepository) Add(ctx context.Context, userID string, delta float64) (*domain.Reputation, error) {
	const q = `
INSERT INTO reputations (user_id, score, updated_at)
VALUES (?,?,?)
ON DUPLICATE KEY UPDATE
 score=LEAST(GREATEST(score+VALUES(score),0),?), updated_at=VALUES(updated_at);
`
	now := time.Now()
	if _, err := r.db.ExecContext(ctx, q, userID, delta, now, domain.MaxReputation); err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}

// Top returns the leaderboard
func (r *ReputationRepository) Top(ctx context.Context, limit int) ([]*domain.Reputation, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
SELECT user_id, score, updated_at FROM reputations ORDER BY score DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Reputation
	for rows.Next() {
		var rep domain.Reputation
		if err := rows.Scan(&rep.UserID, &rep.Score, &rep.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rep)
	}
	return out, rows.Err()
}
