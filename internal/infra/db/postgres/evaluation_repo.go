package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/ethosnet/ethosnet/internal/domain/ethics"
)

type EvaluationRepository struct{ db *sql.DB }

func NewEvaluationRepository(db *sql.DB) *EvaluationRepository { return &EvaluationRepository{db: db} }

// Save insert/update Evaluation record
func (r *EvaluationRepository) Save(ctx context.Context, e *domain.Evaluation) error {
	const q = `
INSERT INTO ethics_evaluations
(id, decision, evaluator_id, ts, status, decision_score,
 explanation, concerns, suggestions, guideline_scores, artifact_url)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 decision_score = EXCLUDED.decision_score,
 explanation = EXCLUDED.explanation,
 concerns = EXCLUDED.concerns,
 suggestions = EXCLUDED.suggestions,
 guideline_scores = EXCLUDED.guideline_scores,
 artifact_url = EXCLUDED.artifact_url;`

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	concerns, _ := json.Marshal(e.Concerns)
	suggestions, _ := json.Marshal(e.Suggestions)
	scores, err := json.Marshal(e.GuidelineScores)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		e.ID, e.Decision, e.EvaluatorID, ts, string(e.Status), e.DecisionScore,
		e.Explanation, string(concerns), string(suggestions), string(scores), e.ArtifactURL,
	)
	return err
}

// Get by ID
func (r *EvaluationRepository) Get(ctx context.Context, id domain.EvaluationID) (*domain.Evaluation, error) {
	const q = `
SELECT id, decision, evaluator_id, ts, status, decision_score,
       explanation, concerns, suggestions, guideline_scores, artifact_url
FROM ethics_evaluations
WHERE id=$1
LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, id)
	return scanEvaluation(row)
}

// Latest evaluations per evaluator; empty evaluator means everyone
func (r *EvaluationRepository) Latest(ctx context.Context, evaluator string, limit int) ([]*domain.Evaluation, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `
SELECT id, decision, evaluator_id, ts, status, decision_score,
       explanation, concerns, suggestions, guideline_scores, artifact_url
FROM ethics_evaluations`
	args := []any{}
	if evaluator != "" {
		q += ` WHERE evaluator_id=$1 ORDER BY ts DESC LIMIT $2;`
		args = append(args, evaluator, limit)
	} else {
		q += ` ORDER BY ts DESC LIMIT $1;`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanEvaluation(row rowScanner) (*domain.Evaluation, error) {
	var e domain.Evaluation
	var concerns, suggestions, scores string
	if err := row.Scan(
		&e.ID, &e.Decision, &e.EvaluatorID, &e.Timestamp, &e.Status, &e.DecisionScore,
		&e.Explanation, &concerns, &suggestions, &scores, &e.ArtifactURL,
	); err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(concerns), &e.Concerns)
	_ = json.Unmarshal([]byte(suggestions), &e.Suggestions)
	_ = json.Unmarshal([]byte(scores), &e.GuidelineScores)
	return &e, nil
}
