package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/ethosnet/ethosnet/internal/domain/ethics"
)

type EvaluationRepository struct {
	db *sql.DB
}

func NewEvaluationRepository(db *sql.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Save insert/update Evaluation record
func (r *EvaluationRepository) Save(ctx context.Context, e *domain.Evaluation) error {
	const q = `
INSERT INTO ethics_evaluations
(id, decision, evaluator_id, ts, status, decision_score,
 explanation, concerns, suggestions, guideline_scores, artifact_url)
VALUES (?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 status=VALUES(status), decision_score=VALUES(decision_score),
 explanation=VALUES(explanation), concerns=VALUES(concerns),
 suggestions=VALUES(suggestions), guideline_scores=VALUES(guideline_scores),
 artifact_url=VALUES(artifact_url);
`
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	scores, err := json.Marshal(e.GuidelineScores)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		e.ID, e.Decision, stringOrDash(e.EvaluatorID), ts, stringOrDash(string(e.Status)), e.DecisionScore,
		e.Explanation, marshalList(e.Concerns), marshalList(e.Suggestions), string(scores), e.ArtifactURL,
	)
	return err
}

// Get by ID
func (r *EvaluationRepository) Get(ctx context.Context, id domain.EvaluationID) (*domain.Evaluation, error) {
	const q = `
SELECT id, decision, evaluator_id, ts, status, decision_score,
       explanation, concerns, suggestions, guideline_scores, artifact_url
FROM ethics_evaluations
WHERE id=? LIMIT 1;
`
	return scanEvaluation(r.db.QueryRowContext(ctx, q, id))
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
		q += ` WHERE evaluator_id=?`
		args = append(args, evaluator)
	}
	q += ` ORDER BY ts DESC LIMIT ?;`
	args = append(args, limit)

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

func scanEvaluation(row rowScanner) (*domain.Evaluation, error) {
	var e domain.Evaluation
	var concerns, suggestions, scores string
	if err := row.Scan(
		&e.ID, &e.Decision, &e.EvaluatorID, &e.Timestamp, &e.Status, &e.DecisionScore,
		&e.Explanation, &concerns, &suggestions, &scores, &e.ArtifactURL,
	); err != nil {
		return nil, err
	}
	e.Concerns = unmarshalList(concerns)
	e.Suggestions = unmarshalList(suggestions)
	if scores != "" {
		_ = json.Unmarshal([]byte(scores), &e.GuidelineScores)
	}
	return &e, nil
}
