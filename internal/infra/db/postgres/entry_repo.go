package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/lib/pq"

	domain "github.com/ethosnet/ethosnet/internal/domain/knowledge"
)

type EntryRepository struct{ db *sql.DB }

func NewEntryRepository(db *sql.DB) *EntryRepository { return &EntryRepository{db: db} }

// Save insert/update Entry record
func (r *EntryRepository) Save(ctx context.Context, e *domain.Entry) error {
	const q = `
INSERT INTO knowledge_entries
(id, title, content, content_type, tags, author_id,
 created_at, updated_at, review_status, quality_score, relevance_score, version)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (id) DO UPDATE SET
 title = EXCLUDED.title,
 content = EXCLUDED.content,
 content_type = EXCLUDED.content_type,
 tags = EXCLUDED.tags,
 updated_at = EXCLUDED.updated_at,
 review_status = EXCLUDED.review_status,
 quality_score = EXCLUDED.quality_score,
 relevance_score = EXCLUDED.relevance_score,
 version = EXCLUDED.version;`

	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	tags, err := json.Marshal(e.Tags)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		e.ID, e.Title, e.Content, string(e.ContentType), string(tags), e.AuthorID,
		created, e.UpdatedAt, string(e.ReviewStatus),
		e.QualityScore, e.RelevanceScore, e.Version,
	)
	return err
}

// Get by ID
func (r *EntryRepository) Get(ctx context.Context, id domain.EntryID) (*domain.Entry, error) {
	const q = `
SELECT id, title, content, content_type, tags, author_id,
       created_at, updated_at, review_status, quality_score, relevance_score, version
FROM knowledge_entries
WHERE id=$1
LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, id)
	var e domain.Entry
	var tags string
	if err := row.Scan(
		&e.ID, &e.Title, &e.Content, &e.ContentType, &tags, &e.AuthorID,
		&e.CreatedAt, &e.UpdatedAt, &e.ReviewStatus,
		&e.QualityScore, &e.RelevanceScore, &e.Version,
	); err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(tags), &e.Tags)
	return &e, nil
}

// Delete removes the row for an entry
func (r *EntryRepository) Delete(ctx context.Context, id domain.EntryID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM knowledge_entries WHERE id=$1;`, id)
	return err
}

// Latest entries, newest first
func (r *EntryRepository) Latest(ctx context.Context, limit, offset int) ([]*domain.Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const q = `
SELECT id, title, content, content_type, tags, author_id,
       created_at, updated_at, review_status, quality_score, relevance_score, version
FROM knowledge_entries
ORDER BY created_at DESC
LIMIT $1 OFFSET $2;`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Entry
	for rows.Next() {
		var e domain.Entry
		var tags string
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Content, &e.ContentType, &tags, &e.AuthorID,
			&e.CreatedAt, &e.UpdatedAt, &e.ReviewStatus,
			&e.QualityScore, &e.RelevanceScore, &e.Version,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tags), &e.Tags)
		out = append(out, &e)
	}
	return out, rows.Err()
}
