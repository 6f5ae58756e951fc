package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/ethosnet/ethosnet/internal/domain/knowledge"
)

type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Save insert/update Entry record
func (r *EntryRepository) Save(ctx context.Context, e *domain.Entry) error {
	const q = `
INSERT INTO knowledge_entries
(id, title, content, content_type, tags, author_id,
 created_at, updated_at, review_status, quality_score, relevance_score, version)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 title=VALUES(title), content=VALUES(content), content_type=VALUES(content_type),
 tags=VALUES(tags), updated_at=VALUES(updated_at),
 review_status=VALUES(review_status),
 quality_score=VALUES(quality_score), relevance_score=VALUES(relevance_score),
 version=VALUES(version);
`
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.Title, e.Content, stringOrDash(string(e.ContentType)), marshalList(e.Tags), stringOrDash(e.AuthorID),
		created, e.UpdatedAt, stringOrDash(string(e.ReviewStatus)),
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
WHERE id=? LIMIT 1;
`
	return scanEntry(r.db.QueryRowContext(ctx, q, id))
}

// Delete removes the row for an entry
func (r *EntryRepository) Delete(ctx context.Context, id domain.EntryID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM knowledge_entries WHERE id=?;`, id)
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
ORDER BY created_at DESC LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.Entry, error) {
	var e domain.Entry
	var tags string
	if err := row.Scan(
		&e.ID, &e.Title, &e.Content, &e.ContentType, &tags, &e.AuthorID,
		&e.CreatedAt, &e.UpdatedAt, &e.ReviewStatus,
		&e.QualityScore, &e.RelevanceScore, &e.Version,
	); err != nil {
		return nil, err
	}
	e.Tags = unmarshalList(tags)
	return &e, nil
}
